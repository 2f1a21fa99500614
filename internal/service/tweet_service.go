package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/tubededentifrice/twitter-clone/internal/audit"
	"github.com/tubededentifrice/twitter-clone/internal/domain"
	"github.com/tubededentifrice/twitter-clone/internal/repository"
)

const (
	// DefaultFeedLimit applies when a listing request omits the limit.
	DefaultFeedLimit = 20
	// MaxFeedLimit caps a single listing page.
	MaxFeedLimit = 100
)

// unknownAuthor stands in when a tweet's author row no longer resolves.
const unknownAuthor = "Unknown"

type tweetService struct {
	tweets    repository.TweetRepository
	reactions repository.ReactionRepository
	users     repository.UserRepository
}

// NewTweetService creates the tweet service.
func NewTweetService(
	tweets repository.TweetRepository,
	reactions repository.ReactionRepository,
	users repository.UserRepository,
) TweetService {
	return &tweetService{
		tweets:    tweets,
		reactions: reactions,
		users:     users,
	}
}

func (s *tweetService) CreateTweet(ctx context.Context, authorID uint, req *domain.CreateTweetRequest) (*domain.TweetView, error) {
	content := req.Content
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	if utf8.RuneCountInString(content) > domain.MaxTweetLength {
		return nil, ErrContentTooLong
	}

	if req.ParentID != nil {
		exists, err := s.tweets.Exists(ctx, *req.ParentID)
		if err != nil {
			return nil, fmt.Errorf("check parent tweet: %w", err)
		}
		if !exists {
			return nil, ErrParentTweetNotFound
		}
	}

	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get author: %w", err)
	}

	tweet := &domain.Tweet{
		Content:  content,
		AuthorID: authorID,
		ParentID: req.ParentID,
	}
	if err := s.tweets.Create(ctx, tweet); err != nil {
		return nil, fmt.Errorf("create tweet: %w", err)
	}

	audit.Log(ctx, audit.ActionCreateTweet, authorID, "tweet created")

	return &domain.TweetView{
		ID:             tweet.ID,
		Content:        tweet.Content,
		CreatedAt:      tweet.CreatedAt,
		AuthorID:       tweet.AuthorID,
		AuthorUsername: author.Username,
		ParentID:       tweet.ParentID,
	}, nil
}

func (s *tweetService) ListFeed(ctx context.Context, skip, limit int, viewerID uint) ([]domain.TweetView, error) {
	skip, limit = normalizePage(skip, limit)

	tweets, err := s.tweets.ListTopLevel(ctx, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("list tweets: %w", err)
	}
	return s.buildViews(ctx, tweets, viewerID)
}

func (s *tweetService) ListUserTweets(ctx context.Context, username string, skip, limit int, viewerID uint) ([]domain.TweetView, error) {
	skip, limit = normalizePage(skip, limit)

	author, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	tweets, err := s.tweets.ListTopLevelByAuthor(ctx, author.ID, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("list tweets: %w", err)
	}
	return s.buildViews(ctx, tweets, viewerID)
}

func (s *tweetService) GetTweetDetail(ctx context.Context, tweetID, viewerID uint) (*domain.TweetDetail, error) {
	tweet, err := s.tweets.GetByID(ctx, tweetID)
	if err != nil {
		if errors.Is(err, repository.ErrTweetNotFound) {
			return nil, ErrTweetNotFound
		}
		return nil, fmt.Errorf("get tweet: %w", err)
	}

	replies, err := s.tweets.ListReplies(ctx, tweetID)
	if err != nil {
		return nil, fmt.Errorf("list replies: %w", err)
	}

	// Enrich the tweet and its replies in one batch.
	all := make([]domain.Tweet, 0, len(replies)+1)
	all = append(all, *tweet)
	all = append(all, replies...)

	views, err := s.buildViews(ctx, all, viewerID)
	if err != nil {
		return nil, err
	}

	return &domain.TweetDetail{
		TweetView: views[0],
		Replies:   views[1:],
	}, nil
}

func (s *tweetService) TweetCount(ctx context.Context, username string) (*domain.TweetCountResponse, error) {
	author, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	count, err := s.tweets.CountByAuthor(ctx, author.ID)
	if err != nil {
		return nil, fmt.Errorf("count tweets: %w", err)
	}

	return &domain.TweetCountResponse{Username: author.Username, Count: count}, nil
}

// React applies a reaction with toggle semantics: a new reaction is added,
// repeating the same reaction removes it, and a different reaction replaces
// the existing one.
func (s *tweetService) React(ctx context.Context, tweetID, userID uint, reactionType domain.ReactionType) (*domain.ReactionResponse, error) {
	if !reactionType.Valid() {
		return nil, ErrInvalidReaction
	}

	exists, err := s.tweets.Exists(ctx, tweetID)
	if err != nil {
		return nil, fmt.Errorf("check tweet: %w", err)
	}
	if !exists {
		return nil, ErrTweetNotFound
	}

	existing, err := s.reactions.Get(ctx, userID, tweetID)
	switch {
	case errors.Is(err, repository.ErrReactionNotFound):
		if err := s.reactions.Create(ctx, userID, tweetID, reactionType); err != nil {
			return nil, fmt.Errorf("create reaction: %w", err)
		}
		audit.LogWithDetail(ctx, audit.ActionReact, userID, string(reactionType), "reaction added")
		return &domain.ReactionResponse{Outcome: domain.ReactionAdded, ReactionType: reactionType}, nil

	case err != nil:
		return nil, fmt.Errorf("get reaction: %w", err)

	case existing.ReactionType == reactionType:
		if err := s.reactions.Delete(ctx, userID, tweetID); err != nil {
			return nil, fmt.Errorf("delete reaction: %w", err)
		}
		audit.LogWithDetail(ctx, audit.ActionReact, userID, string(reactionType), "reaction removed")
		return &domain.ReactionResponse{Outcome: domain.ReactionRemoved, ReactionType: reactionType}, nil

	default:
		if err := s.reactions.UpdateType(ctx, userID, tweetID, reactionType); err != nil {
			return nil, fmt.Errorf("update reaction: %w", err)
		}
		audit.LogWithDetail(ctx, audit.ActionReact, userID, string(reactionType), "reaction updated")
		return &domain.ReactionResponse{Outcome: domain.ReactionUpdated, ReactionType: reactionType}, nil
	}
}

// buildViews enriches raw tweets with author usernames, reply counts,
// reaction totals and the viewer's own reactions, using one batched query
// per concern.
func (s *tweetService) buildViews(ctx context.Context, tweets []domain.Tweet, viewerID uint) ([]domain.TweetView, error) {
	if len(tweets) == 0 {
		return []domain.TweetView{}, nil
	}

	tweetIDs := make([]uint, 0, len(tweets))
	authorIDSet := make(map[uint]struct{}, len(tweets))
	for _, t := range tweets {
		tweetIDs = append(tweetIDs, t.ID)
		authorIDSet[t.AuthorID] = struct{}{}
	}
	authorIDs := make([]uint, 0, len(authorIDSet))
	for id := range authorIDSet {
		authorIDs = append(authorIDs, id)
	}

	usernames, err := s.users.UsernamesByIDs(ctx, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve authors: %w", err)
	}

	replyCounts, err := s.tweets.ReplyCounts(ctx, tweetIDs)
	if err != nil {
		return nil, fmt.Errorf("count replies: %w", err)
	}

	reactionTotals, err := s.tweets.ReactionTotals(ctx, tweetIDs)
	if err != nil {
		return nil, fmt.Errorf("count reactions: %w", err)
	}

	var viewerReactions map[uint]domain.ReactionType
	if viewerID != 0 {
		viewerReactions, err = s.tweets.ViewerReactions(ctx, viewerID, tweetIDs)
		if err != nil {
			return nil, fmt.Errorf("resolve viewer reactions: %w", err)
		}
	}

	views := make([]domain.TweetView, 0, len(tweets))
	for _, t := range tweets {
		username, ok := usernames[t.AuthorID]
		if !ok {
			username = unknownAuthor
		}
		view := domain.TweetView{
			ID:             t.ID,
			Content:        t.Content,
			CreatedAt:      t.CreatedAt,
			AuthorID:       t.AuthorID,
			AuthorUsername: username,
			ParentID:       t.ParentID,
			RepliesCount:   replyCounts[t.ID],
		}
		if counts, ok := reactionTotals[t.ID]; ok {
			view.LikesCount = counts.Likes
			view.DislikesCount = counts.Dislikes
		}
		if reaction, ok := viewerReactions[t.ID]; ok {
			r := reaction
			view.UserReaction = &r
		}
		views = append(views, view)
	}

	return views, nil
}

func normalizePage(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = DefaultFeedLimit
	}
	if limit > MaxFeedLimit {
		limit = MaxFeedLimit
	}
	return skip, limit
}
