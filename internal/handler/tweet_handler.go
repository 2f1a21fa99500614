package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tubededentifrice/twitter-clone/internal/domain"
	"github.com/tubededentifrice/twitter-clone/internal/service"
	pkglog "github.com/tubededentifrice/twitter-clone/pkg/log"
	"github.com/tubededentifrice/twitter-clone/pkg/middleware"
	"github.com/tubededentifrice/twitter-clone/pkg/response"
)

// CreateTweet handles POST /api/tweets.
func (h *Handler) CreateTweet(c *gin.Context) {
	ctx := c.Request.Context()
	l := pkglog.Ctx(ctx)

	var req domain.CreateTweetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.UnprocessableEntity(c, err.Error())
		return
	}

	authorID := middleware.GetUserID(c)
	tweet, err := h.tweets.CreateTweet(ctx, authorID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyContent):
			response.BadRequest(c, "tweet content must not be empty")
		case errors.Is(err, service.ErrContentTooLong):
			response.BadRequest(c, "tweet content exceeds 256 characters")
		case errors.Is(err, service.ErrParentTweetNotFound):
			response.NotFound(c, "parent tweet not found")
		default:
			l.Error().Err(err).Uint(pkglog.FieldUserID, authorID).Msg("create tweet failed")
			response.InternalError(c, "failed to create tweet")
		}
		return
	}

	response.Created(c, tweet)
}

// ListFeed handles GET /api/tweets.
func (h *Handler) ListFeed(c *gin.Context) {
	ctx := c.Request.Context()
	l := pkglog.Ctx(ctx)

	skip, limit, ok := pagination(c)
	if !ok {
		return
	}

	views, err := h.tweets.ListFeed(ctx, skip, limit, middleware.GetUserID(c))
	if err != nil {
		l.Error().Err(err).Msg("list feed failed")
		response.InternalError(c, "failed to list tweets")
		return
	}

	response.Success(c, views)
}

// ListUserTweets handles GET /api/tweets/user/:username.
func (h *Handler) ListUserTweets(c *gin.Context) {
	ctx := c.Request.Context()
	l := pkglog.Ctx(ctx)

	skip, limit, ok := pagination(c)
	if !ok {
		return
	}

	username := c.Param("username")
	views, err := h.tweets.ListUserTweets(ctx, username, skip, limit, middleware.GetUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, "user not found")
		default:
			l.Error().Err(err).Str(pkglog.FieldUsername, username).Msg("list user tweets failed")
			response.InternalError(c, "failed to list tweets")
		}
		return
	}

	response.Success(c, views)
}

// GetTweet handles GET /api/tweets/:tweet_id.
func (h *Handler) GetTweet(c *gin.Context) {
	ctx := c.Request.Context()
	l := pkglog.Ctx(ctx)

	tweetID, ok := tweetIDParam(c)
	if !ok {
		return
	}

	detail, err := h.tweets.GetTweetDetail(ctx, tweetID, middleware.GetUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTweetNotFound):
			response.NotFound(c, "tweet not found")
		default:
			l.Error().Err(err).Uint(pkglog.FieldTweetID, tweetID).Msg("get tweet failed")
			response.InternalError(c, "failed to get tweet")
		}
		return
	}

	response.Success(c, detail)
}

// ReactToTweet handles POST /api/tweets/:tweet_id/reaction.
func (h *Handler) ReactToTweet(c *gin.Context) {
	ctx := c.Request.Context()
	l := pkglog.Ctx(ctx)

	tweetID, ok := tweetIDParam(c)
	if !ok {
		return
	}

	var req domain.ReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.UnprocessableEntity(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	result, err := h.tweets.React(ctx, tweetID, userID, req.ReactionType)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidReaction):
			response.BadRequest(c, "reaction_type must be like or dislike")
		case errors.Is(err, service.ErrTweetNotFound):
			response.NotFound(c, "tweet not found")
		default:
			l.Error().Err(err).
				Uint(pkglog.FieldUserID, userID).
				Uint(pkglog.FieldTweetID, tweetID).
				Msg("react failed")
			response.InternalError(c, "failed to apply reaction")
		}
		return
	}

	response.Success(c, result)
}

// TweetCount handles GET /api/tweets/count/:username.
func (h *Handler) TweetCount(c *gin.Context) {
	ctx := c.Request.Context()
	l := pkglog.Ctx(ctx)

	username := c.Param("username")
	count, err := h.tweets.TweetCount(ctx, username)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, "user not found")
		default:
			l.Error().Err(err).Str(pkglog.FieldUsername, username).Msg("tweet count failed")
			response.InternalError(c, "failed to count tweets")
		}
		return
	}

	response.Success(c, count)
}

func tweetIDParam(c *gin.Context) (uint, bool) {
	raw := c.Param("tweet_id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, "tweet_id must be a positive integer")
		return 0, false
	}
	return uint(id), true
}

// pagination parses the skip/limit query parameters, writing a 400 response
// on malformed values.
func pagination(c *gin.Context) (skip, limit int, ok bool) {
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		response.BadRequest(c, "skip must be a non-negative integer")
		return 0, 0, false
	}

	limit, err = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(service.DefaultFeedLimit)))
	if err != nil || limit <= 0 {
		response.BadRequest(c, "limit must be a positive integer")
		return 0, 0, false
	}

	return skip, limit, true
}
