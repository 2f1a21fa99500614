package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/tubededentifrice/twitter-clone/internal/audit"
	"github.com/tubededentifrice/twitter-clone/internal/cache"
	"github.com/tubededentifrice/twitter-clone/internal/domain"
	"github.com/tubededentifrice/twitter-clone/internal/repository"
	"github.com/tubededentifrice/twitter-clone/pkg/log"
)

type socialGraphService struct {
	follows repository.FollowRepository
	users   repository.UserRepository
	counts  cache.CountStore
}

// NewSocialGraphService creates the social graph service.
func NewSocialGraphService(
	follows repository.FollowRepository,
	users repository.UserRepository,
	counts cache.CountStore,
) SocialGraphService {
	return &socialGraphService{
		follows: follows,
		users:   users,
		counts:  counts,
	}
}

func (s *socialGraphService) Follow(ctx context.Context, followerID uint, targetUsername string) error {
	target, err := s.resolveTarget(ctx, targetUsername)
	if err != nil {
		return err
	}
	if target.ID == followerID {
		return ErrSelfFollow
	}

	if err := s.follows.Follow(ctx, followerID, target.ID); err != nil {
		if errors.Is(err, repository.ErrAlreadyFollowing) {
			return ErrAlreadyFollowing
		}
		return fmt.Errorf("create follow: %w", err)
	}

	s.invalidateCount(ctx, target.ID)
	audit.LogWithDetail(ctx, audit.ActionFollow, followerID, targetUsername, "followed user")
	return nil
}

func (s *socialGraphService) Unfollow(ctx context.Context, followerID uint, targetUsername string) error {
	target, err := s.resolveTarget(ctx, targetUsername)
	if err != nil {
		return err
	}
	if target.ID == followerID {
		return ErrSelfFollow
	}

	if err := s.follows.Unfollow(ctx, followerID, target.ID); err != nil {
		if errors.Is(err, repository.ErrFollowNotFound) {
			return ErrNotFollowing
		}
		return fmt.Errorf("delete follow: %w", err)
	}

	s.invalidateCount(ctx, target.ID)
	audit.LogWithDetail(ctx, audit.ActionUnfollow, followerID, targetUsername, "unfollowed user")
	return nil
}

func (s *socialGraphService) IsFollowing(ctx context.Context, followerID, targetID uint) (bool, error) {
	following, err := s.follows.IsFollowing(ctx, followerID, targetID)
	if err != nil {
		return false, fmt.Errorf("check following: %w", err)
	}
	return following, nil
}

func (s *socialGraphService) ListFollowers(ctx context.Context, userID uint) ([]domain.FollowUser, error) {
	followers, err := s.follows.ListFollowers(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list followers: %w", err)
	}
	return followers, nil
}

func (s *socialGraphService) ListFollowing(ctx context.Context, userID uint) ([]domain.FollowUser, error) {
	following, err := s.follows.ListFollowing(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list following: %w", err)
	}
	return following, nil
}

func (s *socialGraphService) ListFollowersByUsername(ctx context.Context, username string) ([]domain.FollowUser, error) {
	user, err := s.resolveTarget(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.ListFollowers(ctx, user.ID)
}

func (s *socialGraphService) ListFollowingByUsername(ctx context.Context, username string) ([]domain.FollowUser, error) {
	user, err := s.resolveTarget(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.ListFollowing(ctx, user.ID)
}

func (s *socialGraphService) Counts(ctx context.Context, userID uint) (*domain.FollowCounts, error) {
	followerCount, err := cachedFollowerCount(ctx, s.counts, s.follows, userID)
	if err != nil {
		return nil, err
	}

	followingCount, err := s.follows.CountFollowing(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count following: %w", err)
	}

	return &domain.FollowCounts{
		FollowerCount:  followerCount,
		FollowingCount: followingCount,
	}, nil
}

func (s *socialGraphService) resolveTarget(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// invalidateCount drops the cached follower count after an edge mutation.
// Cache failures are logged, not surfaced: the database stays authoritative.
func (s *socialGraphService) invalidateCount(ctx context.Context, userID uint) {
	if err := s.counts.Invalidate(ctx, userID); err != nil {
		l := log.Ctx(ctx)
		l.Warn().Err(err).Uint(log.FieldUserID, userID).Msg("follower count invalidation failed")
	}
}

// cachedFollowerCount reads a follower count through the cache, falling back
// to the database on a miss and repopulating the cache. Every follower count
// the API serves goes through here.
func cachedFollowerCount(ctx context.Context, counts cache.CountStore, follows repository.FollowRepository, userID uint) (int64, error) {
	count, ok, err := counts.GetFollowersCount(ctx, userID)
	if err != nil {
		l := log.Ctx(ctx)
		l.Warn().Err(err).Uint(log.FieldUserID, userID).Msg("follower count cache read failed")
	} else if ok {
		return count, nil
	}

	count, err = follows.CountFollowers(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count followers: %w", err)
	}

	if err := counts.SetFollowersCount(ctx, userID, count); err != nil {
		l := log.Ctx(ctx)
		l.Warn().Err(err).Uint(log.FieldUserID, userID).Msg("follower count cache write failed")
	}

	return count, nil
}
