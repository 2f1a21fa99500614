package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tubededentifrice/twitter-clone/internal/domain"
)

// GormReactionRepository implements ReactionRepository using GORM.
type GormReactionRepository struct {
	db *gorm.DB
}

// NewGormReactionRepository creates a new GORM-backed reaction repository.
func NewGormReactionRepository(db *gorm.DB) *GormReactionRepository {
	return &GormReactionRepository{db: db}
}

// Get retrieves the reaction a user holds on a tweet, if any.
func (r *GormReactionRepository) Get(ctx context.Context, userID, tweetID uint) (*domain.ReactionModel, error) {
	var model domain.ReactionModel
	result := r.db.WithContext(ctx).
		First(&model, "user_id = ? AND tweet_id = ?", userID, tweetID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrReactionNotFound
		}
		return nil, result.Error
	}
	return &model, nil
}

// Create inserts a new reaction row.
func (r *GormReactionRepository) Create(ctx context.Context, userID, tweetID uint, reactionType domain.ReactionType) error {
	model := domain.ReactionModel{
		UserID:       userID,
		TweetID:      tweetID,
		ReactionType: reactionType,
	}
	return r.db.WithContext(ctx).Create(&model).Error
}

// UpdateType flips the reaction type on an existing row.
func (r *GormReactionRepository) UpdateType(ctx context.Context, userID, tweetID uint, reactionType domain.ReactionType) error {
	result := r.db.WithContext(ctx).Model(&domain.ReactionModel{}).
		Where("user_id = ? AND tweet_id = ?", userID, tweetID).
		Update("reaction_type", reactionType)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReactionNotFound
	}
	return nil
}

// Delete removes a reaction row.
func (r *GormReactionRepository) Delete(ctx context.Context, userID, tweetID uint) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND tweet_id = ?", userID, tweetID).
		Delete(&domain.ReactionModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReactionNotFound
	}
	return nil
}

// Ensure interface is satisfied at compile time.
var _ ReactionRepository = (*GormReactionRepository)(nil)
