// Package social implements the follow graph, feed composition and the
// identity and posting policies on top of the storage interfaces.
package social

import (
	"context"
	"errors"

	"minitweet/internal/model"
)

// UserLookup resolves user ids.
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (model.User, error)
}

// EdgeStore persists follow edges. Insert must fail with
// model.ErrAlreadyFollowing when the edge exists, atomically.
type EdgeStore interface {
	Insert(ctx context.Context, followerID, followeeID int64) error
	Delete(ctx context.Context, followerID, followeeID int64) error
	Exists(ctx context.Context, followerID, followeeID int64) (bool, error)
	Followees(ctx context.Context, followerID int64) ([]int64, error)
}

// Graph applies the follow policy: every (follower, followee) pair is either
// following or not, and follow/unfollow are only valid from the opposite state.
type Graph struct {
	users UserLookup
	edges EdgeStore
}

func NewGraph(users UserLookup, edges EdgeStore) *Graph {
	return &Graph{users: users, edges: edges}
}

// IsFollowing does not check that either user exists.
func (g *Graph) IsFollowing(ctx context.Context, followerID, followeeID int64) (bool, error) {
	return g.edges.Exists(ctx, followerID, followeeID)
}

// Follow creates the edge followerID -> followeeID. The returned user is the
// followee and is set whenever it was resolved, including on
// model.ErrAlreadyFollowing.
func (g *Graph) Follow(ctx context.Context, followerID, followeeID int64) (model.User, error) {
	if followerID == followeeID {
		return model.User{}, model.ErrSelfFollow
	}
	target, err := g.target(ctx, followeeID)
	if err != nil {
		return model.User{}, err
	}
	if err := g.edges.Insert(ctx, followerID, followeeID); err != nil {
		return target, err
	}
	return target, nil
}

// Unfollow removes the edge followerID -> followeeID. The returned user
// follows the same rules as Follow.
func (g *Graph) Unfollow(ctx context.Context, followerID, followeeID int64) (model.User, error) {
	if followerID == followeeID {
		return model.User{}, model.ErrSelfUnfollow
	}
	target, err := g.target(ctx, followeeID)
	if err != nil {
		return model.User{}, err
	}
	if err := g.edges.Delete(ctx, followerID, followeeID); err != nil {
		return target, err
	}
	return target, nil
}

// Followees never returns nil on success.
func (g *Graph) Followees(ctx context.Context, userID int64) ([]int64, error) {
	ids, err := g.edges.Followees(ctx, userID)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []int64{}
	}
	return ids, nil
}

func (g *Graph) target(ctx context.Context, id int64) (model.User, error) {
	u, err := g.users.GetByID(ctx, id)
	if errors.Is(err, model.ErrUserNotFound) {
		return model.User{}, model.ErrTargetNotFound
	}
	return u, err
}
