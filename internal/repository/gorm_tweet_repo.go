package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tubededentifrice/twitter-clone/internal/domain"
)

// GormTweetRepository implements TweetRepository using GORM.
type GormTweetRepository struct {
	db *gorm.DB
}

// NewGormTweetRepository creates a new GORM-backed tweet repository.
func NewGormTweetRepository(db *gorm.DB) *GormTweetRepository {
	return &GormTweetRepository{db: db}
}

func tweetToModel(t *domain.Tweet) *domain.TweetModel {
	return &domain.TweetModel{
		ID:        t.ID,
		Content:   t.Content,
		AuthorID:  t.AuthorID,
		ParentID:  t.ParentID,
		CreatedAt: t.CreatedAt,
	}
}

func tweetToDomain(m *domain.TweetModel) domain.Tweet {
	return domain.Tweet{
		ID:        m.ID,
		Content:   m.Content,
		AuthorID:  m.AuthorID,
		ParentID:  m.ParentID,
		CreatedAt: m.CreatedAt,
	}
}

// Create creates a new tweet.
func (r *GormTweetRepository) Create(ctx context.Context, tweet *domain.Tweet) error {
	model := tweetToModel(tweet)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}

	tweet.ID = model.ID
	tweet.CreatedAt = model.CreatedAt
	return nil
}

// GetByID retrieves a tweet by ID.
func (r *GormTweetRepository) GetByID(ctx context.Context, id uint) (*domain.Tweet, error) {
	var model domain.TweetModel
	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTweetNotFound
		}
		return nil, result.Error
	}
	tweet := tweetToDomain(&model)
	return &tweet, nil
}

// Exists checks whether a tweet with the given id exists.
func (r *GormTweetRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.TweetModel{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListTopLevel returns top-level tweets newest first. The secondary id sort
// keeps ordering deterministic when created_at ties.
func (r *GormTweetRepository) ListTopLevel(ctx context.Context, skip, limit int) ([]domain.Tweet, error) {
	var models []domain.TweetModel
	err := r.db.WithContext(ctx).
		Where("parent_id IS NULL").
		Order("created_at DESC, id DESC").
		Offset(skip).Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return toDomainTweets(models), nil
}

// ListTopLevelByAuthor returns an author's top-level tweets newest first.
func (r *GormTweetRepository) ListTopLevelByAuthor(ctx context.Context, authorID uint, skip, limit int) ([]domain.Tweet, error) {
	var models []domain.TweetModel
	err := r.db.WithContext(ctx).
		Where("author_id = ? AND parent_id IS NULL", authorID).
		Order("created_at DESC, id DESC").
		Offset(skip).Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return toDomainTweets(models), nil
}

// ListReplies returns the direct replies of a tweet oldest first.
func (r *GormTweetRepository) ListReplies(ctx context.Context, parentID uint) ([]domain.Tweet, error) {
	var models []domain.TweetModel
	err := r.db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("created_at ASC, id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return toDomainTweets(models), nil
}

// CountByAuthor returns the total number of tweets (replies included)
// authored by a user.
func (r *GormTweetRepository) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.TweetModel{}).
		Where("author_id = ?", authorID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ReplyCounts returns the number of direct replies per tweet id.
func (r *GormTweetRepository) ReplyCounts(ctx context.Context, tweetIDs []uint) (map[uint]int64, error) {
	result := make(map[uint]int64, len(tweetIDs))
	if len(tweetIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		ParentID uint
		Count    int64
	}
	err := r.db.WithContext(ctx).Model(&domain.TweetModel{}).
		Select("parent_id", "COUNT(*) AS count").
		Where("parent_id IN ?", tweetIDs).
		Group("parent_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.ParentID] = row.Count
	}
	return result, nil
}

// ReactionTotals returns like/dislike counts per tweet id.
func (r *GormTweetRepository) ReactionTotals(ctx context.Context, tweetIDs []uint) (map[uint]ReactionCounts, error) {
	result := make(map[uint]ReactionCounts, len(tweetIDs))
	if len(tweetIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		TweetID      uint
		ReactionType domain.ReactionType
		Count        int64
	}
	err := r.db.WithContext(ctx).Model(&domain.ReactionModel{}).
		Select("tweet_id", "reaction_type", "COUNT(*) AS count").
		Where("tweet_id IN ?", tweetIDs).
		Group("tweet_id").Group("reaction_type").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts := result[row.TweetID]
		switch row.ReactionType {
		case domain.ReactionLike:
			counts.Likes = row.Count
		case domain.ReactionDislike:
			counts.Dislikes = row.Count
		}
		result[row.TweetID] = counts
	}
	return result, nil
}

// ViewerReactions returns the viewer's reaction type per tweet id.
func (r *GormTweetRepository) ViewerReactions(ctx context.Context, viewerID uint, tweetIDs []uint) (map[uint]domain.ReactionType, error) {
	result := make(map[uint]domain.ReactionType, len(tweetIDs))
	if len(tweetIDs) == 0 {
		return result, nil
	}

	var models []domain.ReactionModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND tweet_id IN ?", viewerID, tweetIDs).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	for _, m := range models {
		result[m.TweetID] = m.ReactionType
	}
	return result, nil
}

func toDomainTweets(models []domain.TweetModel) []domain.Tweet {
	tweets := make([]domain.Tweet, 0, len(models))
	for i := range models {
		tweets = append(tweets, tweetToDomain(&models[i]))
	}
	return tweets
}

// Ensure interface is satisfied at compile time.
var _ TweetRepository = (*GormTweetRepository)(nil)
