package service

import (
	"context"
	"errors"

	"github.com/tubededentifrice/twitter-clone/internal/domain"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already registered")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidImage       = errors.New("invalid image data")

	ErrSelfFollow       = errors.New("cannot follow yourself")
	ErrAlreadyFollowing = errors.New("already following")
	ErrNotFollowing     = errors.New("not following")

	ErrTweetNotFound       = errors.New("tweet not found")
	ErrParentTweetNotFound = errors.New("parent tweet not found")
	ErrEmptyContent        = errors.New("tweet content must not be empty")
	ErrContentTooLong      = errors.New("tweet content exceeds maximum length")
	ErrInvalidReaction     = errors.New("invalid reaction type")
)

// UserService defines registration, authentication and profile logic.
type UserService interface {
	Register(ctx context.Context, req *domain.RegisterRequest) (*domain.UserResponse, error)
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResponse, error)
	RefreshToken(ctx context.Context, req *domain.RefreshTokenRequest) (*domain.AuthResponse, error)
	// GetProfile returns a user's profile with social-graph counts.
	// viewerID 0 means an anonymous viewer.
	GetProfile(ctx context.Context, userID, viewerID uint) (*domain.ProfileResponse, error)
	GetProfileByUsername(ctx context.Context, username string, viewerID uint) (*domain.ProfileResponse, error)
	// UpdateProfilePicture stores a base64-encoded image and returns the
	// persisted picture path.
	UpdateProfilePicture(ctx context.Context, userID uint, payload string) (string, error)
}

// SocialGraphService defines the business logic for the follow graph.
// Mutations resolve their target by username, matching the API surface.
type SocialGraphService interface {
	Follow(ctx context.Context, followerID uint, targetUsername string) error
	Unfollow(ctx context.Context, followerID uint, targetUsername string) error
	IsFollowing(ctx context.Context, followerID, targetID uint) (bool, error)
	ListFollowers(ctx context.Context, userID uint) ([]domain.FollowUser, error)
	ListFollowing(ctx context.Context, userID uint) ([]domain.FollowUser, error)
	ListFollowersByUsername(ctx context.Context, username string) ([]domain.FollowUser, error)
	ListFollowingByUsername(ctx context.Context, username string) ([]domain.FollowUser, error)
	Counts(ctx context.Context, userID uint) (*domain.FollowCounts, error)
}

// TweetService defines tweet, reply, reaction and feed logic.
// viewerID 0 means an anonymous viewer throughout.
type TweetService interface {
	CreateTweet(ctx context.Context, authorID uint, req *domain.CreateTweetRequest) (*domain.TweetView, error)
	ListFeed(ctx context.Context, skip, limit int, viewerID uint) ([]domain.TweetView, error)
	ListUserTweets(ctx context.Context, username string, skip, limit int, viewerID uint) ([]domain.TweetView, error)
	GetTweetDetail(ctx context.Context, tweetID, viewerID uint) (*domain.TweetDetail, error)
	TweetCount(ctx context.Context, username string) (*domain.TweetCountResponse, error)
	React(ctx context.Context, tweetID, userID uint, reactionType domain.ReactionType) (*domain.ReactionResponse, error)
}
