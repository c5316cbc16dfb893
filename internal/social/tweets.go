package social

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"minitweet/internal/model"
)

// MaxTweetLength is counted in characters after trimming.
const MaxTweetLength = 140

// TweetStore is the tweet persistence consumed by Tweets.
type TweetStore interface {
	TweetQuery
	Create(ctx context.Context, authorID int64, body string, postedAt time.Time) (model.Tweet, error)
	DeleteIfOwned(ctx context.Context, tweetID, requesterID int64) error
}

// Tweets owns posting and deletion rules.
type Tweets struct {
	store TweetStore
	now   func() time.Time
}

func NewTweets(store TweetStore, now func() time.Time) *Tweets {
	return &Tweets{store: store, now: now}
}

// ValidateBody returns the trimmed body or a validation error.
func ValidateBody(body string) (string, error) {
	body = strings.TrimSpace(body)
	switch n := utf8.RuneCountInString(body); {
	case n == 0:
		return "", model.ErrEmptyTweet
	case n > MaxTweetLength:
		return "", model.ErrTweetTooLong
	}
	return body, nil
}

// Post stores a tweet by authorID stamped with the current time.
func (t *Tweets) Post(ctx context.Context, authorID int64, body string) (model.Tweet, error) {
	body, err := ValidateBody(body)
	if err != nil {
		return model.Tweet{}, err
	}
	return t.store.Create(ctx, authorID, body, t.now())
}

// Delete removes a tweet on behalf of requesterID, who must be its author.
func (t *Tweets) Delete(ctx context.Context, tweetID, requesterID int64) error {
	return t.store.DeleteIfOwned(ctx, tweetID, requesterID)
}
