package domain

import (
	"time"
)

// MaxTweetLength is the maximum tweet content length in characters.
const MaxTweetLength = 256

// ReactionType is a user's sentiment toward a tweet.
type ReactionType string

const (
	ReactionLike    ReactionType = "like"
	ReactionDislike ReactionType = "dislike"
)

// Valid reports whether t is a known reaction type.
func (t ReactionType) Valid() bool {
	return t == ReactionLike || t == ReactionDislike
}

// ReactionOutcome describes what a react operation did to the
// (user, tweet) reaction row.
type ReactionOutcome string

const (
	ReactionAdded   ReactionOutcome = "added"
	ReactionUpdated ReactionOutcome = "updated"
	ReactionRemoved ReactionOutcome = "removed"
)

// Tweet represents a tweet entity.
type Tweet struct {
	ID        uint      `json:"id"`
	Content   string    `json:"content"`
	AuthorID  uint      `json:"author_id"`
	ParentID  *uint     `json:"parent_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateTweetRequest represents a tweet creation request. ParentID makes the
// new tweet a reply.
type CreateTweetRequest struct {
	Content  string `json:"content" binding:"required"`
	ParentID *uint  `json:"parent_id"`
}

// ReactionRequest represents a reaction request.
type ReactionRequest struct {
	ReactionType ReactionType `json:"reaction_type" binding:"required"`
}

// ReactionResponse reports the outcome of a react operation.
type ReactionResponse struct {
	Outcome      ReactionOutcome `json:"outcome"`
	ReactionType ReactionType    `json:"reaction_type"`
}

// TweetView is a tweet enriched with author and aggregate data for feeds and
// listings. UserReaction is nil for anonymous viewers and for viewers who
// have not reacted.
type TweetView struct {
	ID             uint          `json:"id"`
	Content        string        `json:"content"`
	CreatedAt      time.Time     `json:"created_at"`
	AuthorID       uint          `json:"author_id"`
	AuthorUsername string        `json:"author_username"`
	ParentID       *uint         `json:"parent_id,omitempty"`
	RepliesCount   int64         `json:"replies_count"`
	LikesCount     int64         `json:"likes_count"`
	DislikesCount  int64         `json:"dislikes_count"`
	UserReaction   *ReactionType `json:"user_reaction"`
}

// TweetDetail is a tweet view with its direct replies expanded one level
// deep, oldest first. Replies of replies are represented only by their
// RepliesCount.
type TweetDetail struct {
	TweetView
	Replies []TweetView `json:"replies"`
}

// TweetCountResponse reports how many tweets (including replies) a user
// has authored.
type TweetCountResponse struct {
	Username string `json:"username"`
	Count    int64  `json:"count"`
}
