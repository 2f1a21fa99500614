package cache

import (
	"context"
)

// CountStore caches follower counts per user. The database stays the source
// of truth: reads are cache-aside and every follow/unfollow invalidates the
// affected key instead of mutating it in place.
type CountStore interface {
	// GetFollowersCount returns the cached followers count for a user.
	// The boolean reports a cache hit.
	GetFollowersCount(ctx context.Context, userID uint) (int64, bool, error)
	SetFollowersCount(ctx context.Context, userID uint, count int64) error
	// Invalidate drops the cached counts for the given users.
	Invalidate(ctx context.Context, userIDs ...uint) error
	Close() error
}
