package store

import (
	"context"
	"fmt"

	"minitweet/internal/model"
)

// FollowStore holds follow edges. The (who_id, whom_id) primary key is what
// makes concurrent follows of the same pair yield exactly one edge.
type FollowStore struct {
	db *DB
}

func NewFollowStore(db *DB) *FollowStore {
	return &FollowStore{db: db}
}

// Insert creates the edge. An existing edge yields model.ErrAlreadyFollowing.
func (s *FollowStore) Insert(ctx context.Context, followerID, followeeID int64) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO follower (who_id, whom_id) VALUES (?, ?)", followerID, followeeID)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return model.ErrAlreadyFollowing
		case isForeignKeyViolation(err):
			return model.ErrTargetNotFound
		}
		return fmt.Errorf("failed to insert follow edge: %w", err)
	}
	return nil
}

// Delete removes the edge. A missing edge yields model.ErrNotFollowing.
func (s *FollowStore) Delete(ctx context.Context, followerID, followeeID int64) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM follower WHERE who_id = ? AND whom_id = ?", followerID, followeeID)
	if err != nil {
		return fmt.Errorf("failed to delete follow edge: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete follow edge: %w", err)
	}
	if n == 0 {
		return model.ErrNotFollowing
	}
	return nil
}

func (s *FollowStore) Exists(ctx context.Context, followerID, followeeID int64) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM follower WHERE who_id = ? AND whom_id = ?", followerID, followeeID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check follow edge: %w", err)
	}
	return n > 0, nil
}

// Followees returns the ids followerID follows.
func (s *FollowStore) Followees(ctx context.Context, followerID int64) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT whom_id FROM follower WHERE who_id = ? ORDER BY whom_id", followerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list followees: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan followee: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list followees: %w", err)
	}
	return ids, nil
}
