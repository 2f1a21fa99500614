package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFollowRepositoryFollowAndCounts(t *testing.T) {
	db := newTestDB(t)
	users := NewGormUserRepository(db)
	follows := NewGormFollowRepository(db)
	ctx := context.Background()

	alice := createUser(t, users, "alice", "alice@example.com")
	bob := createUser(t, users, "bob", "bob@example.com")
	carol := createUser(t, users, "carol", "carol@example.com")

	require.NoError(t, follows.Follow(ctx, alice.ID, bob.ID))
	require.NoError(t, follows.Follow(ctx, carol.ID, bob.ID))
	require.NoError(t, follows.Follow(ctx, bob.ID, alice.ID))

	count, err := follows.CountFollowers(ctx, bob.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), count)

	count, err = follows.CountFollowing(ctx, bob.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	following, err := follows.IsFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.True(t, following)

	following, err = follows.IsFollowing(ctx, alice.ID, carol.ID)
	require.NoError(t, err)
	require.False(t, following)
}

func TestFollowRepositoryDuplicateEdge(t *testing.T) {
	db := newTestDB(t)
	users := NewGormUserRepository(db)
	follows := NewGormFollowRepository(db)
	ctx := context.Background()

	alice := createUser(t, users, "alice", "alice@example.com")
	bob := createUser(t, users, "bob", "bob@example.com")

	require.NoError(t, follows.Follow(ctx, alice.ID, bob.ID))
	require.ErrorIs(t, follows.Follow(ctx, alice.ID, bob.ID), ErrAlreadyFollowing)
}

func TestFollowRepositoryUnfollow(t *testing.T) {
	db := newTestDB(t)
	users := NewGormUserRepository(db)
	follows := NewGormFollowRepository(db)
	ctx := context.Background()

	alice := createUser(t, users, "alice", "alice@example.com")
	bob := createUser(t, users, "bob", "bob@example.com")

	require.NoError(t, follows.Follow(ctx, alice.ID, bob.ID))
	require.NoError(t, follows.Unfollow(ctx, alice.ID, bob.ID))

	following, err := follows.IsFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.False(t, following)

	// The edge is gone, removing it again is an error.
	require.ErrorIs(t, follows.Unfollow(ctx, alice.ID, bob.ID), ErrFollowNotFound)
}

func TestFollowRepositoryListings(t *testing.T) {
	db := newTestDB(t)
	users := NewGormUserRepository(db)
	follows := NewGormFollowRepository(db)
	ctx := context.Background()

	alice := createUser(t, users, "alice", "alice@example.com")
	bob := createUser(t, users, "bob", "bob@example.com")
	carol := createUser(t, users, "carol", "carol@example.com")

	require.NoError(t, users.UpdateProfilePicture(ctx, carol.ID, "/uploads/carol.png"))

	require.NoError(t, follows.Follow(ctx, alice.ID, bob.ID))
	require.NoError(t, follows.Follow(ctx, carol.ID, bob.ID))

	followers, err := follows.ListFollowers(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, followers, 2)

	names := []string{followers[0].Username, followers[1].Username}
	require.ElementsMatch(t, []string{"alice", "carol"}, names)
	for _, f := range followers {
		if f.Username == "carol" {
			require.Equal(t, "/uploads/carol.png", f.ProfilePicture)
		}
	}

	following, err := follows.ListFollowing(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, following, 1)
	require.Equal(t, "bob", following[0].Username)

	none, err := follows.ListFollowing(ctx, bob.ID)
	require.NoError(t, err)
	require.Empty(t, none)
}
