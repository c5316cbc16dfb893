package social

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"minitweet/internal/model"
)

// FolloweeSource lists whom a user follows.
type FolloweeSource interface {
	Followees(ctx context.Context, userID int64) ([]int64, error)
}

// TweetQuery selects tweets by author.
type TweetQuery interface {
	ByAuthors(ctx context.Context, authorIDs []int64) ([]model.Tweet, error)
}

// Composer builds a viewer's feed from their own tweets and those of the
// users they follow. Feeds are computed on every call.
type Composer struct {
	followees FolloweeSource
	tweets    TweetQuery
}

func NewComposer(followees FolloweeSource, tweets TweetQuery) *Composer {
	return &Composer{followees: followees, tweets: tweets}
}

// Compose returns the full feed of viewerID, newest first. Tweets posted at
// the same instant are ordered by descending id.
func (c *Composer) Compose(ctx context.Context, viewerID int64) ([]model.Tweet, error) {
	followees, err := c.followees.Followees(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve followees: %w", err)
	}

	authors := append([]int64{viewerID}, followees...)
	slices.Sort(authors)
	authors = slices.Compact(authors)

	tweets, err := c.tweets.ByAuthors(ctx, authors)
	if err != nil {
		return nil, fmt.Errorf("failed to select feed tweets: %w", err)
	}

	slices.SortFunc(tweets, func(a, b model.Tweet) int {
		if n := b.PostedAt.Compare(a.PostedAt); n != 0 {
			return n
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return tweets, nil
}
