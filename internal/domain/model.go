package domain

import (
	"time"
)

// UserModel is the GORM model for the users table.
type UserModel struct {
	ID             uint      `gorm:"primaryKey;autoIncrement"`
	Username       string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	Email          string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash   string    `gorm:"type:varchar(255);not null"`
	ProfilePicture string    `gorm:"type:varchar(255)"`
	IsActive       bool      `gorm:"not null;default:true"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

// TableName specifies the table name for UserModel.
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts UserModel to domain User.
func (m *UserModel) ToDomain() *User {
	return &User{
		ID:             m.ID,
		Username:       m.Username,
		Email:          m.Email,
		PasswordHash:   m.PasswordHash,
		ProfilePicture: m.ProfilePicture,
		IsActive:       m.IsActive,
		CreatedAt:      m.CreatedAt,
	}
}

// UserToModel converts domain User to UserModel.
func UserToModel(u *User) *UserModel {
	return &UserModel{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		PasswordHash:   u.PasswordHash,
		ProfilePicture: u.ProfilePicture,
		IsActive:       u.IsActive,
		CreatedAt:      u.CreatedAt,
	}
}

// TweetModel is the GORM model for the tweets table. A nil ParentID marks a
// top-level tweet; replies reference their parent and may nest arbitrarily.
type TweetModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Content   string    `gorm:"type:varchar(256);not null"`
	AuthorID  uint      `gorm:"index;not null"`
	ParentID  *uint     `gorm:"index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// TableName specifies the table name for TweetModel.
func (TweetModel) TableName() string {
	return "tweets"
}

// FollowModel is the GORM model for the followers table. The composite
// primary key is the edge identity: duplicate inserts are rejected by the
// store itself, not by application-level locking.
type FollowModel struct {
	FollowerID uint      `gorm:"primaryKey;autoIncrement:false"`
	FollowedID uint      `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

// TableName specifies the table name for FollowModel.
func (FollowModel) TableName() string {
	return "followers"
}

// ReactionModel is the GORM model for the tweet_reactions table. One row per
// (user, tweet) pair at most; the type column flips between like and dislike.
type ReactionModel struct {
	UserID       uint         `gorm:"primaryKey;autoIncrement:false"`
	TweetID      uint         `gorm:"primaryKey;autoIncrement:false"`
	ReactionType ReactionType `gorm:"type:varchar(10);not null"`
	CreatedAt    time.Time    `gorm:"autoCreateTime"`
}

// TableName specifies the table name for ReactionModel.
func (ReactionModel) TableName() string {
	return "tweet_reactions"
}

// AllModels lists every model for auto-migration, in FK dependency order.
func AllModels() []interface{} {
	return []interface{}{
		&UserModel{},
		&TweetModel{},
		&FollowModel{},
		&ReactionModel{},
	}
}
