package store

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"minitweet/internal/model"
)

const tweetColumns = `SELECT tweets.tweet_id, tweets.user_id, users.name, tweets.tweet, tweets.posted
		FROM tweets JOIN users ON tweets.user_id = users.id`

// TweetStore is the SQLite tweet store.
type TweetStore struct {
	db *DB
}

func NewTweetStore(db *DB) *TweetStore {
	return &TweetStore{db: db}
}

// Create stores a tweet. An unknown author yields model.ErrUserNotFound.
func (s *TweetStore) Create(ctx context.Context, authorID int64, body string, postedAt time.Time) (model.Tweet, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO tweets (user_id, tweet, posted) VALUES (?, ?, ?)",
		authorID, body, postedAt.Unix())
	if err != nil {
		if isForeignKeyViolation(err) {
			return model.Tweet{}, model.ErrUserNotFound
		}
		return model.Tweet{}, fmt.Errorf("failed to create tweet: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return model.Tweet{}, fmt.Errorf("failed to read tweet id: %w", err)
	}
	return s.GetByID(ctx, id)
}

func (s *TweetStore) GetByID(ctx context.Context, id int64) (model.Tweet, error) {
	row := s.db.QueryRowContext(ctx, tweetColumns+" WHERE tweets.tweet_id = ?", id)
	t, err := scanTweet(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Tweet{}, model.ErrTweetNotFound
		}
		return model.Tweet{}, fmt.Errorf("failed to get tweet: %w", err)
	}
	return t, nil
}

// DeleteIfOwned removes the tweet when requesterID authored it.
func (s *TweetStore) DeleteIfOwned(ctx context.Context, tweetID, requesterID int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var authorID int64
	err = tx.QueryRowContext(ctx, "SELECT user_id FROM tweets WHERE tweet_id = ?", tweetID).Scan(&authorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ErrTweetNotFound
		}
		return fmt.Errorf("failed to get tweet owner: %w", err)
	}
	if authorID != requesterID {
		return model.ErrNotOwner
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM tweets WHERE tweet_id = ?", tweetID); err != nil {
		return fmt.Errorf("failed to delete tweet: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit tweet deletion: %w", err)
	}
	return nil
}

// maxAuthorsPerQuery keeps each IN list well below SQLite's bound variable limit.
const maxAuthorsPerQuery = 500

// ByAuthors returns the tweets of the given authors, newest first. Long author
// lists are queried in batches and merged.
func (s *TweetStore) ByAuthors(ctx context.Context, authorIDs []int64) ([]model.Tweet, error) {
	var tweets []model.Tweet
	batches := 0
	for batch := range slices.Chunk(authorIDs, maxAuthorsPerQuery) {
		args := make([]any, len(batch))
		for i, id := range batch {
			args[i] = id
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(batch)), ",")

		found, err := s.query(ctx,
			tweetColumns+" WHERE tweets.user_id IN ("+placeholders+") ORDER BY tweets.posted DESC, tweets.tweet_id DESC",
			args...)
		if err != nil {
			return nil, err
		}
		tweets = append(tweets, found...)
		batches++
	}

	if batches > 1 {
		slices.SortFunc(tweets, func(a, b model.Tweet) int {
			if n := b.PostedAt.Compare(a.PostedAt); n != 0 {
				return n
			}
			return cmp.Compare(b.ID, a.ID)
		})
	}
	return tweets, nil
}

// List returns every tweet, newest first.
func (s *TweetStore) List(ctx context.Context) ([]model.Tweet, error) {
	return s.query(ctx, tweetColumns+" ORDER BY tweets.posted DESC, tweets.tweet_id DESC")
}

func (s *TweetStore) query(ctx context.Context, query string, args ...any) ([]model.Tweet, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tweets: %w", err)
	}
	defer rows.Close()

	var tweets []model.Tweet
	for rows.Next() {
		t, err := scanTweet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tweet: %w", err)
		}
		tweets = append(tweets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to query tweets: %w", err)
	}
	return tweets, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTweet(row scanner) (model.Tweet, error) {
	var (
		t      model.Tweet
		posted int64
	)
	if err := row.Scan(&t.ID, &t.AuthorID, &t.AuthorName, &t.Body, &posted); err != nil {
		return model.Tweet{}, err
	}
	t.PostedAt = time.Unix(posted, 0)
	return t, nil
}
