package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tubededentifrice/twitter-clone/internal/domain"
)

func createTweet(t *testing.T, repo TweetRepository, authorID uint, content string, parentID *uint, createdAt time.Time) *domain.Tweet {
	t.Helper()

	tweet := &domain.Tweet{
		Content:   content,
		AuthorID:  authorID,
		ParentID:  parentID,
		CreatedAt: createdAt,
	}
	require.NoError(t, repo.Create(context.Background(), tweet))
	require.NotZero(t, tweet.ID)
	return tweet
}

func TestTweetRepositoryFeedExcludesReplies(t *testing.T) {
	db := newTestDB(t)
	users := NewGormUserRepository(db)
	tweets := NewGormTweetRepository(db)
	ctx := context.Background()

	alice := createUser(t, users, "alice", "alice@example.com")
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	root := createTweet(t, tweets, alice.ID, "hello", nil, base)
	createTweet(t, tweets, alice.ID, "a reply", &root.ID, base.Add(time.Minute))
	createTweet(t, tweets, alice.ID, "second", nil, base.Add(2*time.Minute))

	feed, err := tweets.ListTopLevel(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	require.Equal(t, "second", feed[0].Content)
	require.Equal(t, "hello", feed[1].Content)
	for _, tw := range feed {
		require.Nil(t, tw.ParentID)
	}
}

func TestTweetRepositoryFeedOrderTieBreak(t *testing.T) {
	db := newTestDB(t)
	users := NewGormUserRepository(db)
	tweets := NewGormTweetRepository(db)
	ctx := context.Background()

	alice := createUser(t, users, "alice", "alice@example.com")
	ts := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	first := createTweet(t, tweets, alice.ID, "first", nil, ts)
	second := createTweet(t, tweets, alice.ID, "second", nil, ts)

	feed, err := tweets.ListTopLevel(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	// Equal timestamps order by id descending.
	require.Equal(t, second.ID, feed[0].ID)
	require.Equal(t, first.ID, feed[1].ID)
}

func TestTweetRepositoryFeedPagination(t *testing.T) {
	db := newTestDB(t)
	users := NewGormUserRepository(db)
	tweets := NewGormTweetRepository(db)
	ctx := context.Background()

	alice := createUser(t, users, "alice", "alice@example.com")
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		createTweet(t, tweets, alice.ID, "tweet", nil, base.Add(time.Duration(i)*time.Minute))
	}

	page, err := tweets.ListTopLevel(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	// Newest first: skipping one lands on the second newest.
	require.Equal(t, base.Add(3*time.Minute).Unix(), page[0].CreatedAt.Unix())
	require.Equal(t, base.Add(2*time.Minute).Unix(), page[1].CreatedAt.Unix())
}

func TestTweetRepositoryListByAuthor(t *testing.T) {
	db := newTestDB(t)
	users := NewGormUserRepository(db)
	tweets := NewGormTweetRepository(db)
	ctx := context.Background()

	alice := createUser(t, users, "alice", "alice@example.com")
	bob := createUser(t, users, "bob", "bob@example.com")
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	createTweet(t, tweets, alice.ID, "from alice", nil, base)
	createTweet(t, tweets, bob.ID, "from bob", nil, base.Add(time.Minute))

	list, err := tweets.ListTopLevelByAuthor(ctx, alice.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "from alice", list[0].Content)
}

func TestTweetRepositoryRepliesOldestFirst(t *testing.T) {
	db := newTestDB(t)
	users := NewGormUserRepository(db)
	tweets := NewGormTweetRepository(db)
	ctx := context.Background()

	alice := createUser(t, users, "alice", "alice@example.com")
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	root := createTweet(t, tweets, alice.ID, "root", nil, base)
	createTweet(t, tweets, alice.ID, "later reply", &root.ID, base.Add(2*time.Minute))
	createTweet(t, tweets, alice.ID, "early reply", &root.ID, base.Add(time.Minute))

	replies, err := tweets.ListReplies(ctx, root.ID)
	require.NoError(t, err)
	require.Len(t, replies, 2)
	require.Equal(t, "early reply", replies[0].Content)
	require.Equal(t, "later reply", replies[1].Content)
}

func TestTweetRepositoryCountByAuthorIncludesReplies(t *testing.T) {
	db := newTestDB(t)
	users := NewGormUserRepository(db)
	tweets := NewGormTweetRepository(db)
	ctx := context.Background()

	alice := createUser(t, users, "alice", "alice@example.com")
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	root := createTweet(t, tweets, alice.ID, "root", nil, base)
	createTweet(t, tweets, alice.ID, "reply", &root.ID, base.Add(time.Minute))

	count, err := tweets.CountByAuthor(ctx, alice.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), count)
}

func TestTweetRepositoryAggregates(t *testing.T) {
	db := newTestDB(t)
	users := NewGormUserRepository(db)
	tweets := NewGormTweetRepository(db)
	reactions := NewGormReactionRepository(db)
	ctx := context.Background()

	alice := createUser(t, users, "alice", "alice@example.com")
	bob := createUser(t, users, "bob", "bob@example.com")
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	root := createTweet(t, tweets, alice.ID, "root", nil, base)
	other := createTweet(t, tweets, alice.ID, "other", nil, base)
	createTweet(t, tweets, bob.ID, "reply", &root.ID, base.Add(time.Minute))

	require.NoError(t, reactions.Create(ctx, alice.ID, root.ID, domain.ReactionLike))
	require.NoError(t, reactions.Create(ctx, bob.ID, root.ID, domain.ReactionLike))
	require.NoError(t, reactions.Create(ctx, bob.ID, other.ID, domain.ReactionDislike))

	ids := []uint{root.ID, other.ID}

	replyCounts, err := tweets.ReplyCounts(ctx, ids)
	require.NoError(t, err)
	require.Equal(t, int64(1), replyCounts[root.ID])
	require.Zero(t, replyCounts[other.ID])

	totals, err := tweets.ReactionTotals(ctx, ids)
	require.NoError(t, err)
	require.Equal(t, int64(2), totals[root.ID].Likes)
	require.Zero(t, totals[root.ID].Dislikes)
	require.Equal(t, int64(1), totals[other.ID].Dislikes)

	viewer, err := tweets.ViewerReactions(ctx, bob.ID, ids)
	require.NoError(t, err)
	require.Equal(t, domain.ReactionLike, viewer[root.ID])
	require.Equal(t, domain.ReactionDislike, viewer[other.ID])

	viewer, err = tweets.ViewerReactions(ctx, alice.ID, ids)
	require.NoError(t, err)
	require.Len(t, viewer, 1)
	require.Equal(t, domain.ReactionLike, viewer[root.ID])
}

func TestReactionRepositoryLifecycle(t *testing.T) {
	db := newTestDB(t)
	users := NewGormUserRepository(db)
	tweets := NewGormTweetRepository(db)
	reactions := NewGormReactionRepository(db)
	ctx := context.Background()

	alice := createUser(t, users, "alice", "alice@example.com")
	tweet := createTweet(t, tweets, alice.ID, "root", nil, time.Now())

	_, err := reactions.Get(ctx, alice.ID, tweet.ID)
	require.ErrorIs(t, err, ErrReactionNotFound)

	require.NoError(t, reactions.Create(ctx, alice.ID, tweet.ID, domain.ReactionLike))

	got, err := reactions.Get(ctx, alice.ID, tweet.ID)
	require.NoError(t, err)
	require.Equal(t, domain.ReactionLike, got.ReactionType)

	require.NoError(t, reactions.UpdateType(ctx, alice.ID, tweet.ID, domain.ReactionDislike))
	got, err = reactions.Get(ctx, alice.ID, tweet.ID)
	require.NoError(t, err)
	require.Equal(t, domain.ReactionDislike, got.ReactionType)

	require.NoError(t, reactions.Delete(ctx, alice.ID, tweet.ID))
	_, err = reactions.Get(ctx, alice.ID, tweet.ID)
	require.ErrorIs(t, err, ErrReactionNotFound)
}

func TestTweetRepositoryGetByIDNotFound(t *testing.T) {
	db := newTestDB(t)
	tweets := NewGormTweetRepository(db)

	_, err := tweets.GetByID(context.Background(), 999)
	require.ErrorIs(t, err, ErrTweetNotFound)

	exists, err := tweets.Exists(context.Background(), 999)
	require.NoError(t, err)
	require.False(t, exists)
}
