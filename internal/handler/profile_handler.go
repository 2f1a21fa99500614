package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tubededentifrice/twitter-clone/internal/domain"
	"github.com/tubededentifrice/twitter-clone/internal/service"
	pkglog "github.com/tubededentifrice/twitter-clone/pkg/log"
	"github.com/tubededentifrice/twitter-clone/pkg/middleware"
	"github.com/tubededentifrice/twitter-clone/pkg/response"
)

// MyProfile handles GET /api/profile/me.
func (h *Handler) MyProfile(c *gin.Context) {
	ctx := c.Request.Context()
	l := pkglog.Ctx(ctx)

	userID := middleware.GetUserID(c)
	profile, err := h.users.GetProfile(ctx, userID, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, "user not found")
		default:
			l.Error().Err(err).Uint(pkglog.FieldUserID, userID).Msg("get profile failed")
			response.InternalError(c, "failed to get profile")
		}
		return
	}

	response.Success(c, profile)
}

// Profile handles GET /api/profile/:username.
func (h *Handler) Profile(c *gin.Context) {
	ctx := c.Request.Context()
	l := pkglog.Ctx(ctx)

	username := c.Param("username")
	profile, err := h.users.GetProfileByUsername(ctx, username, middleware.GetUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, "user not found")
		default:
			l.Error().Err(err).Str(pkglog.FieldUsername, username).Msg("get profile failed")
			response.InternalError(c, "failed to get profile")
		}
		return
	}

	response.Success(c, profile)
}

// UpdateProfilePicture handles POST /api/profile/update-profile-picture.
func (h *Handler) UpdateProfilePicture(c *gin.Context) {
	ctx := c.Request.Context()
	l := pkglog.Ctx(ctx)

	var req domain.UpdateProfilePictureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.UnprocessableEntity(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	path, err := h.users.UpdateProfilePicture(ctx, userID, req.ProfilePicture)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidImage):
			response.BadRequest(c, "profile_picture must be a base64-encoded image")
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, "user not found")
		default:
			l.Error().Err(err).Uint(pkglog.FieldUserID, userID).Msg("update profile picture failed")
			response.InternalError(c, "failed to update profile picture")
		}
		return
	}

	response.Success(c, gin.H{"profile_picture": path})
}

// Follow handles POST /api/profile/follow/:username.
func (h *Handler) Follow(c *gin.Context) {
	ctx := c.Request.Context()
	l := pkglog.Ctx(ctx)

	followerID := middleware.GetUserID(c)
	username := c.Param("username")

	if err := h.social.Follow(ctx, followerID, username); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, "user not found")
		case errors.Is(err, service.ErrSelfFollow):
			response.BadRequest(c, "cannot follow yourself")
		case errors.Is(err, service.ErrAlreadyFollowing):
			response.Conflict(c, "already following")
		default:
			l.Error().Err(err).
				Uint(pkglog.FieldUserID, followerID).
				Str(pkglog.FieldUsername, username).
				Msg("follow failed")
			response.InternalError(c, "failed to follow user")
		}
		return
	}

	response.Created(c, gin.H{"message": "followed successfully"})
}

// Unfollow handles POST /api/profile/unfollow/:username.
func (h *Handler) Unfollow(c *gin.Context) {
	ctx := c.Request.Context()
	l := pkglog.Ctx(ctx)

	followerID := middleware.GetUserID(c)
	username := c.Param("username")

	if err := h.social.Unfollow(ctx, followerID, username); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, "user not found")
		case errors.Is(err, service.ErrSelfFollow):
			response.BadRequest(c, "cannot unfollow yourself")
		case errors.Is(err, service.ErrNotFollowing):
			response.BadRequest(c, "not following this user")
		default:
			l.Error().Err(err).
				Uint(pkglog.FieldUserID, followerID).
				Str(pkglog.FieldUsername, username).
				Msg("unfollow failed")
			response.InternalError(c, "failed to unfollow user")
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// ListFollowers handles GET /api/profile/:username/followers.
func (h *Handler) ListFollowers(c *gin.Context) {
	ctx := c.Request.Context()
	l := pkglog.Ctx(ctx)

	username := c.Param("username")
	followers, err := h.social.ListFollowersByUsername(ctx, username)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, "user not found")
		default:
			l.Error().Err(err).Str(pkglog.FieldUsername, username).Msg("list followers failed")
			response.InternalError(c, "failed to list followers")
		}
		return
	}

	response.Success(c, followers)
}

// ListFollowing handles GET /api/profile/:username/following.
func (h *Handler) ListFollowing(c *gin.Context) {
	ctx := c.Request.Context()
	l := pkglog.Ctx(ctx)

	username := c.Param("username")
	following, err := h.social.ListFollowingByUsername(ctx, username)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, "user not found")
		default:
			l.Error().Err(err).Str(pkglog.FieldUsername, username).Msg("list following failed")
			response.InternalError(c, "failed to list following")
		}
		return
	}

	response.Success(c, following)
}
