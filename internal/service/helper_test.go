package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tubededentifrice/twitter-clone/internal/cache"
	"github.com/tubededentifrice/twitter-clone/internal/domain"
	"github.com/tubededentifrice/twitter-clone/internal/repository"
	"github.com/tubededentifrice/twitter-clone/pkg/database"
	"github.com/tubededentifrice/twitter-clone/pkg/jwt"
	"github.com/tubededentifrice/twitter-clone/pkg/storage"
)

type testEnv struct {
	db     *gorm.DB
	counts *cache.MemoryCountStore
	tokens *jwt.Manager

	userRepo     repository.UserRepository
	tweetRepo    repository.TweetRepository
	followRepo   repository.FollowRepository
	reactionRepo repository.ReactionRepository

	users  UserService
	tweets TweetService
	social SocialGraphService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.New(&database.Config{
		Driver:   "sqlite",
		FilePath: filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db, domain.AllModels()...))

	tokens, err := jwt.NewManager("test-secret", 15*time.Minute, time.Hour, "test")
	require.NoError(t, err)

	files, err := storage.NewLocalStorage(storage.LocalConfig{BasePath: t.TempDir()})
	require.NoError(t, err)

	env := &testEnv{
		db:           db,
		counts:       cache.NewMemoryCountStore(),
		tokens:       tokens,
		userRepo:     repository.NewGormUserRepository(db),
		tweetRepo:    repository.NewGormTweetRepository(db),
		followRepo:   repository.NewGormFollowRepository(db),
		reactionRepo: repository.NewGormReactionRepository(db),
	}
	env.users = NewUserService(env.userRepo, env.followRepo, env.counts, tokens, files)
	env.tweets = NewTweetService(env.tweetRepo, env.reactionRepo, env.userRepo)
	env.social = NewSocialGraphService(env.followRepo, env.userRepo, env.counts)
	return env
}

func (e *testEnv) register(t *testing.T, username string) *domain.UserResponse {
	t.Helper()

	user, err := e.users.Register(context.Background(), &domain.RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	return user
}

func (e *testEnv) tweet(t *testing.T, authorID uint, content string, parentID *uint) *domain.TweetView {
	t.Helper()

	view, err := e.tweets.CreateTweet(context.Background(), authorID, &domain.CreateTweetRequest{
		Content:  content,
		ParentID: parentID,
	})
	require.NoError(t, err)
	return view
}
