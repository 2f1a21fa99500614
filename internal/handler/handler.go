package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/tubededentifrice/twitter-clone/internal/service"
	"github.com/tubededentifrice/twitter-clone/pkg/middleware"
	"github.com/tubededentifrice/twitter-clone/pkg/response"
)

// Handler handles HTTP requests for the API.
type Handler struct {
	users          service.UserService
	tweets         service.TweetService
	social         service.SocialGraphService
	authMiddleware *middleware.AuthMiddleware
}

// NewHandler creates a new HTTP handler.
func NewHandler(
	users service.UserService,
	tweets service.TweetService,
	social service.SocialGraphService,
	authMiddleware *middleware.AuthMiddleware,
) *Handler {
	return &Handler{
		users:          users,
		tweets:         tweets,
		social:         social,
		authMiddleware: authMiddleware,
	}
}

// RegisterRoutes registers all routes onto the Gin engine.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)

	api := r.Group("/api")
	{
		users := api.Group("/users")
		{
			// POST /api/users/register — no auth
			users.POST("/register", h.Register)
			// POST /api/users/login — no auth
			users.POST("/login", h.Login)
			// POST /api/users/refresh — no auth, refresh token in body
			users.POST("/refresh", h.Refresh)
		}

		tweets := api.Group("/tweets")
		{
			// GET /api/tweets — feed, viewer optional
			tweets.GET("", h.authMiddleware.OptionalAuth(), h.ListFeed)
			// POST /api/tweets — auth required
			tweets.POST("", h.authMiddleware.RequireAuth(), h.CreateTweet)
			// GET /api/tweets/:tweet_id — viewer optional
			tweets.GET("/:tweet_id", h.authMiddleware.OptionalAuth(), h.GetTweet)
			// POST /api/tweets/:tweet_id/reaction — auth required
			tweets.POST("/:tweet_id/reaction", h.authMiddleware.RequireAuth(), h.ReactToTweet)
			// GET /api/tweets/user/:username — viewer optional
			tweets.GET("/user/:username", h.authMiddleware.OptionalAuth(), h.ListUserTweets)
			// GET /api/tweets/count/:username — no auth
			tweets.GET("/count/:username", h.TweetCount)
		}

		profile := api.Group("/profile")
		{
			// GET /api/profile/me — auth required
			profile.GET("/me", h.authMiddleware.RequireAuth(), h.MyProfile)
			// POST /api/profile/update-profile-picture — auth required
			profile.POST("/update-profile-picture", h.authMiddleware.RequireAuth(), h.UpdateProfilePicture)
			// POST /api/profile/follow/:username — auth required
			profile.POST("/follow/:username", h.authMiddleware.RequireAuth(), h.Follow)
			// POST /api/profile/unfollow/:username — auth required
			profile.POST("/unfollow/:username", h.authMiddleware.RequireAuth(), h.Unfollow)
			// GET /api/profile/:username — viewer optional
			profile.GET("/:username", h.authMiddleware.OptionalAuth(), h.Profile)
			// GET /api/profile/:username/followers — no auth
			profile.GET("/:username/followers", h.ListFollowers)
			// GET /api/profile/:username/following — no auth
			profile.GET("/:username/following", h.ListFollowing)
		}
	}
}

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	response.Success(c, gin.H{"status": "ok"})
}
