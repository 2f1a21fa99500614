package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/tubededentifrice/twitter-clone/internal/domain"
)

// isUniqueViolation reports whether err is a unique-constraint violation.
// GORM translates these to gorm.ErrDuplicatedKey; the string checks cover
// drivers where translation is incomplete.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "duplicate key") ||
		strings.Contains(errStr, "UNIQUE constraint") ||
		strings.Contains(errStr, "Duplicate entry")
}

// GormFollowRepository implements FollowRepository using GORM.
type GormFollowRepository struct {
	db *gorm.DB
}

// NewGormFollowRepository creates a new GORM-backed follow repository.
func NewGormFollowRepository(db *gorm.DB) *GormFollowRepository {
	return &GormFollowRepository{db: db}
}

// Follow creates a follow edge. The composite primary key rejects duplicate
// edges at the store level; that rejection surfaces as ErrAlreadyFollowing.
func (r *GormFollowRepository) Follow(ctx context.Context, followerID, followedID uint) error {
	model := domain.FollowModel{
		FollowerID: followerID,
		FollowedID: followedID,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyFollowing
		}
		return err
	}
	return nil
}

// Unfollow removes a follow edge.
func (r *GormFollowRepository) Unfollow(ctx context.Context, followerID, followedID uint) error {
	result := r.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&domain.FollowModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrFollowNotFound
	}
	return nil
}

// IsFollowing checks if followerID follows followedID.
func (r *GormFollowRepository) IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.FollowModel{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListFollowers returns the users following userID, in edge insertion order.
func (r *GormFollowRepository) ListFollowers(ctx context.Context, userID uint) ([]domain.FollowUser, error) {
	users := []domain.FollowUser{}
	err := r.db.WithContext(ctx).Model(&domain.FollowModel{}).
		Select("users.username", "users.profile_picture").
		Joins("JOIN users ON users.id = followers.follower_id").
		Where("followers.followed_id = ?", userID).
		Order("followers.created_at").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// ListFollowing returns the users userID follows, in edge insertion order.
func (r *GormFollowRepository) ListFollowing(ctx context.Context, userID uint) ([]domain.FollowUser, error) {
	users := []domain.FollowUser{}
	err := r.db.WithContext(ctx).Model(&domain.FollowModel{}).
		Select("users.username", "users.profile_picture").
		Joins("JOIN users ON users.id = followers.followed_id").
		Where("followers.follower_id = ?", userID).
		Order("followers.created_at").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// CountFollowers returns the total number of followers for a given user.
func (r *GormFollowRepository) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.FollowModel{}).
		Where("followed_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// CountFollowing returns how many users the given user follows.
func (r *GormFollowRepository) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.FollowModel{}).
		Where("follower_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure interface is satisfied at compile time.
var _ FollowRepository = (*GormFollowRepository)(nil)
