package repository

import (
	"context"
	"errors"

	"github.com/tubededentifrice/twitter-clone/internal/domain"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailExists      = errors.New("email already exists")
	ErrUsernameExists   = errors.New("username already exists")
	ErrTweetNotFound    = errors.New("tweet not found")
	ErrFollowNotFound   = errors.New("follow relationship not found")
	ErrAlreadyFollowing = errors.New("already following")
	ErrReactionNotFound = errors.New("reaction not found")
)

// UserRepository defines the interface for user data persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uint) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	UpdateProfilePicture(ctx context.Context, userID uint, path string) error
	// UsernamesByIDs resolves usernames for a set of user IDs in one query.
	UsernamesByIDs(ctx context.Context, ids []uint) (map[uint]string, error)
}

// FollowRepository defines persistence operations for follow edges.
type FollowRepository interface {
	Follow(ctx context.Context, followerID, followedID uint) error
	Unfollow(ctx context.Context, followerID, followedID uint) error
	IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error)
	ListFollowers(ctx context.Context, userID uint) ([]domain.FollowUser, error)
	ListFollowing(ctx context.Context, userID uint) ([]domain.FollowUser, error)
	CountFollowers(ctx context.Context, userID uint) (int64, error)
	CountFollowing(ctx context.Context, userID uint) (int64, error)
}

// ReactionCounts holds per-tweet like and dislike totals.
type ReactionCounts struct {
	Likes    int64
	Dislikes int64
}

// TweetRepository defines persistence operations for tweets and their
// aggregate queries.
type TweetRepository interface {
	Create(ctx context.Context, tweet *domain.Tweet) error
	GetByID(ctx context.Context, id uint) (*domain.Tweet, error)
	Exists(ctx context.Context, id uint) (bool, error)
	// ListTopLevel returns top-level tweets newest first with offset/limit
	// pagination. Ties on created_at break on id descending.
	ListTopLevel(ctx context.Context, skip, limit int) ([]domain.Tweet, error)
	ListTopLevelByAuthor(ctx context.Context, authorID uint, skip, limit int) ([]domain.Tweet, error)
	// ListReplies returns the direct replies of a tweet oldest first.
	ListReplies(ctx context.Context, parentID uint) ([]domain.Tweet, error)
	CountByAuthor(ctx context.Context, authorID uint) (int64, error)
	// ReplyCounts returns the number of direct replies per tweet id.
	ReplyCounts(ctx context.Context, tweetIDs []uint) (map[uint]int64, error)
	// ReactionTotals returns like/dislike counts per tweet id.
	ReactionTotals(ctx context.Context, tweetIDs []uint) (map[uint]ReactionCounts, error)
	// ViewerReactions returns the viewer's reaction type per tweet id, for
	// the tweets the viewer has reacted to.
	ViewerReactions(ctx context.Context, viewerID uint, tweetIDs []uint) (map[uint]domain.ReactionType, error)
}

// ReactionRepository defines persistence operations for tweet reactions.
type ReactionRepository interface {
	Get(ctx context.Context, userID, tweetID uint) (*domain.ReactionModel, error)
	Create(ctx context.Context, userID, tweetID uint, reactionType domain.ReactionType) error
	UpdateType(ctx context.Context, userID, tweetID uint, reactionType domain.ReactionType) error
	Delete(ctx context.Context, userID, tweetID uint) error
}
