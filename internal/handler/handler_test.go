package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/tubededentifrice/twitter-clone/internal/cache"
	"github.com/tubededentifrice/twitter-clone/internal/domain"
	"github.com/tubededentifrice/twitter-clone/internal/repository"
	"github.com/tubededentifrice/twitter-clone/internal/service"
	"github.com/tubededentifrice/twitter-clone/pkg/database"
	"github.com/tubededentifrice/twitter-clone/pkg/jwt"
	"github.com/tubededentifrice/twitter-clone/pkg/middleware"
	"github.com/tubededentifrice/twitter-clone/pkg/response"
	"github.com/tubededentifrice/twitter-clone/pkg/storage"
)

type envelope struct {
	Success bool                `json:"success"`
	Data    json.RawMessage     `json:"data"`
	Error   *response.ErrorInfo `json:"error"`
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

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

	userRepo := repository.NewGormUserRepository(db)
	tweetRepo := repository.NewGormTweetRepository(db)
	followRepo := repository.NewGormFollowRepository(db)
	reactionRepo := repository.NewGormReactionRepository(db)
	counts := cache.NewMemoryCountStore()

	users := service.NewUserService(userRepo, followRepo, counts, tokens, files)
	tweets := service.NewTweetService(tweetRepo, reactionRepo, userRepo)
	social := service.NewSocialGraphService(followRepo, userRepo, counts)

	r := gin.New()
	h := NewHandler(users, tweets, social, middleware.NewAuthMiddleware(tokens))
	h.RegisterRoutes(r)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, env
}

func registerUser(t *testing.T, r *gin.Engine, username string) {
	t.Helper()

	w, env := doJSON(t, r, http.MethodPost, "/api/users/register", "", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.True(t, env.Success)
}

func loginUser(t *testing.T, r *gin.Engine, username string) string {
	t.Helper()

	w, env := doJSON(t, r, http.MethodPost, "/api/users/login", "", gin.H{
		"username": username,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var auth domain.AuthResponse
	require.NoError(t, json.Unmarshal(env.Data, &auth))
	require.NotEmpty(t, auth.AccessToken)
	return auth.AccessToken
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)

	w, env := doJSON(t, r, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, env.Success)
}

func TestRegisterEndpoint(t *testing.T) {
	r := newTestRouter(t)

	registerUser(t, r, "alice")

	// Duplicate username conflicts.
	w, env := doJSON(t, r, http.MethodPost, "/api/users/register", "", gin.H{
		"username": "alice",
		"email":    "second@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusConflict, w.Code)
	require.False(t, env.Success)
	require.Equal(t, "CONFLICT", env.Error.Code)

	// Binding failures are validation errors.
	w, env = doJSON(t, r, http.MethodPost, "/api/users/register", "", gin.H{
		"username": "bo",
		"email":    "not-an-email",
		"password": "123",
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestLoginEndpoint(t *testing.T) {
	r := newTestRouter(t)
	registerUser(t, r, "alice")

	token := loginUser(t, r, "alice")
	require.NotEmpty(t, token)

	w, env := doJSON(t, r, http.MethodPost, "/api/users/login", "", gin.H{
		"username": "alice",
		"password": "wrong-password",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "UNAUTHORIZED", env.Error.Code)
}

func TestTweetEndpoints(t *testing.T) {
	r := newTestRouter(t)
	registerUser(t, r, "alice")
	token := loginUser(t, r, "alice")

	// Posting requires authentication.
	w, _ := doJSON(t, r, http.MethodPost, "/api/tweets", "", gin.H{"content": "hello"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w, env := doJSON(t, r, http.MethodPost, "/api/tweets", token, gin.H{"content": "hello world"})
	require.Equal(t, http.StatusCreated, w.Code)

	var created domain.TweetView
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.Equal(t, "alice", created.AuthorUsername)

	// Reply to it.
	w, _ = doJSON(t, r, http.MethodPost, "/api/tweets", token, gin.H{
		"content":   "a reply",
		"parent_id": created.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Anonymous feed shows the top-level tweet only.
	w, env = doJSON(t, r, http.MethodGet, "/api/tweets", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var feed []domain.TweetView
	require.NoError(t, json.Unmarshal(env.Data, &feed))
	require.Len(t, feed, 1)
	require.Equal(t, int64(1), feed[0].RepliesCount)

	// Detail expands replies one level.
	w, env = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/tweets/%d", created.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var detail domain.TweetDetail
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	require.Len(t, detail.Replies, 1)
	require.Equal(t, "a reply", detail.Replies[0].Content)

	w, _ = doJSON(t, r, http.MethodGet, "/api/tweets/999", "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w, _ = doJSON(t, r, http.MethodGet, "/api/tweets/abc", "", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Per-user listing and count.
	w, env = doJSON(t, r, http.MethodGet, "/api/tweets/user/alice", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &feed))
	require.Len(t, feed, 1)

	w, env = doJSON(t, r, http.MethodGet, "/api/tweets/count/alice", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var count domain.TweetCountResponse
	require.NoError(t, json.Unmarshal(env.Data, &count))
	require.Equal(t, int64(2), count.Count)
}

func TestReactionEndpoint(t *testing.T) {
	r := newTestRouter(t)
	registerUser(t, r, "alice")
	registerUser(t, r, "bob")
	alice := loginUser(t, r, "alice")
	bob := loginUser(t, r, "bob")

	w, env := doJSON(t, r, http.MethodPost, "/api/tweets", alice, gin.H{"content": "react to me"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created domain.TweetView
	require.NoError(t, json.Unmarshal(env.Data, &created))

	path := fmt.Sprintf("/api/tweets/%d/reaction", created.ID)

	w, env = doJSON(t, r, http.MethodPost, path, bob, gin.H{"reaction_type": "like"})
	require.Equal(t, http.StatusOK, w.Code)
	var result domain.ReactionResponse
	require.NoError(t, json.Unmarshal(env.Data, &result))
	require.Equal(t, domain.ReactionAdded, result.Outcome)

	w, env = doJSON(t, r, http.MethodPost, path, bob, gin.H{"reaction_type": "like"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &result))
	require.Equal(t, domain.ReactionRemoved, result.Outcome)

	w, _ = doJSON(t, r, http.MethodPost, path, bob, gin.H{"reaction_type": "love"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// The viewer's reaction shows up in the feed.
	w, env = doJSON(t, r, http.MethodPost, path, bob, gin.H{"reaction_type": "dislike"})
	require.Equal(t, http.StatusOK, w.Code)

	w, env = doJSON(t, r, http.MethodGet, "/api/tweets", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var feed []domain.TweetView
	require.NoError(t, json.Unmarshal(env.Data, &feed))
	require.NotNil(t, feed[0].UserReaction)
	require.Equal(t, domain.ReactionDislike, *feed[0].UserReaction)
}

func TestProfileAndFollowEndpoints(t *testing.T) {
	r := newTestRouter(t)
	registerUser(t, r, "alice")
	registerUser(t, r, "bob")
	bob := loginUser(t, r, "bob")

	w, _ := doJSON(t, r, http.MethodPost, "/api/profile/follow/alice", bob, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w, _ = doJSON(t, r, http.MethodPost, "/api/profile/follow/alice", bob, nil)
	require.Equal(t, http.StatusConflict, w.Code)

	w, _ = doJSON(t, r, http.MethodPost, "/api/profile/follow/bob", bob, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, r, http.MethodPost, "/api/profile/follow/ghost", bob, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	// Profile seen by the follower carries is_followed.
	w, env := doJSON(t, r, http.MethodGet, "/api/profile/alice", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var profile domain.ProfileResponse
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	require.Equal(t, int64(1), profile.FollowerCount)
	require.NotNil(t, profile.IsFollowed)
	require.True(t, *profile.IsFollowed)

	// Anonymous profile view omits is_followed.
	w, env = doJSON(t, r, http.MethodGet, "/api/profile/alice", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	profile = domain.ProfileResponse{}
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	require.Nil(t, profile.IsFollowed)

	w, env = doJSON(t, r, http.MethodGet, "/api/profile/alice/followers", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listing []domain.FollowUser
	require.NoError(t, json.Unmarshal(env.Data, &listing))
	require.Len(t, listing, 1)
	require.Equal(t, "bob", listing[0].Username)

	w, env = doJSON(t, r, http.MethodGet, "/api/profile/bob/following", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &listing))
	require.Len(t, listing, 1)
	require.Equal(t, "alice", listing[0].Username)

	w, _ = doJSON(t, r, http.MethodPost, "/api/profile/unfollow/alice", bob, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w, _ = doJSON(t, r, http.MethodPost, "/api/profile/unfollow/alice", bob, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// /me requires authentication.
	w, _ = doJSON(t, r, http.MethodGet, "/api/profile/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w, env = doJSON(t, r, http.MethodGet, "/api/profile/me", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	profile = domain.ProfileResponse{}
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	require.Equal(t, "bob", profile.Username)
}

func TestInvalidTokenIsAnonymousOnOptionalRoutes(t *testing.T) {
	r := newTestRouter(t)
	registerUser(t, r, "alice")
	token := loginUser(t, r, "alice")

	w, _ := doJSON(t, r, http.MethodPost, "/api/tweets", token, gin.H{"content": "hello"})
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := doJSON(t, r, http.MethodGet, "/api/tweets", "not-a-real-token", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var feed []domain.TweetView
	require.NoError(t, json.Unmarshal(env.Data, &feed))
	require.Len(t, feed, 1)
	require.Nil(t, feed[0].UserReaction)

	// Required-auth routes still reject it.
	w, _ = doJSON(t, r, http.MethodPost, "/api/tweets", "not-a-real-token", gin.H{"content": "x"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
