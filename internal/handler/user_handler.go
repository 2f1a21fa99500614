package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/tubededentifrice/twitter-clone/internal/domain"
	"github.com/tubededentifrice/twitter-clone/internal/service"
	pkglog "github.com/tubededentifrice/twitter-clone/pkg/log"
	"github.com/tubededentifrice/twitter-clone/pkg/response"
)

// Register handles POST /api/users/register.
func (h *Handler) Register(c *gin.Context) {
	ctx := c.Request.Context()
	l := pkglog.Ctx(ctx)

	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.UnprocessableEntity(c, err.Error())
		return
	}

	user, err := h.users.Register(ctx, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			response.Conflict(c, "username already registered")
		case errors.Is(err, service.ErrEmailTaken):
			response.Conflict(c, "email already registered")
		default:
			l.Error().Err(err).Msg("register failed")
			response.InternalError(c, "failed to register user")
		}
		return
	}

	response.Created(c, user)
}

// Login handles POST /api/users/login.
func (h *Handler) Login(c *gin.Context) {
	ctx := c.Request.Context()
	l := pkglog.Ctx(ctx)

	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.UnprocessableEntity(c, err.Error())
		return
	}

	auth, err := h.users.Login(ctx, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Unauthorized(c, "invalid username or password")
		case errors.Is(err, service.ErrAccountDisabled):
			response.Unauthorized(c, "account is disabled")
		default:
			l.Error().Err(err).Msg("login failed")
			response.InternalError(c, "failed to log in")
		}
		return
	}

	response.Success(c, auth)
}

// Refresh handles POST /api/users/refresh.
func (h *Handler) Refresh(c *gin.Context) {
	ctx := c.Request.Context()
	l := pkglog.Ctx(ctx)

	var req domain.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.UnprocessableEntity(c, err.Error())
		return
	}

	auth, err := h.users.RefreshToken(ctx, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Unauthorized(c, "invalid refresh token")
		case errors.Is(err, service.ErrAccountDisabled):
			response.Unauthorized(c, "account is disabled")
		default:
			l.Error().Err(err).Msg("token refresh failed")
			response.InternalError(c, "failed to refresh tokens")
		}
		return
	}

	response.Success(c, auth)
}
