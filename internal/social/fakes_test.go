package social

import (
	"context"
	"slices"
	"sync"
	"time"

	"minitweet/internal/model"
)

// memStore is an in-memory stand-in for the SQLite stores.
type memStore struct {
	mu     sync.Mutex
	users  []model.User
	edges  map[model.FollowEdge]bool
	tweets []model.Tweet
}

func newMemStore() *memStore {
	return &memStore{edges: map[model.FollowEdge]bool{}}
}

func (m *memStore) addUser(name string) model.User {
	u, _ := m.Create(context.Background(), name, name+"@example.com", "hash")
	return u
}

func (m *memStore) Create(_ context.Context, name, email, pwHash string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Name == name || u.Email == email {
			return model.User{}, model.ErrDuplicateIdentity
		}
	}
	u := model.User{ID: int64(len(m.users) + 1), Name: name, Email: email, PwHash: pwHash, Role: model.RoleUser}
	m.users = append(m.users, u)
	return u, nil
}

func (m *memStore) GetByID(_ context.Context, id int64) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (m *memStore) GetByName(_ context.Context, name string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Name == name {
			return u, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (m *memStore) List(context.Context) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.users), nil
}

func (m *memStore) Insert(_ context.Context, followerID, followeeID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := model.FollowEdge{FollowerID: followerID, FolloweeID: followeeID}
	if m.edges[e] {
		return model.ErrAlreadyFollowing
	}
	m.edges[e] = true
	return nil
}

func (m *memStore) Delete(_ context.Context, followerID, followeeID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := model.FollowEdge{FollowerID: followerID, FolloweeID: followeeID}
	if !m.edges[e] {
		return model.ErrNotFollowing
	}
	delete(m.edges, e)
	return nil
}

func (m *memStore) Exists(_ context.Context, followerID, followeeID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.edges[model.FollowEdge{FollowerID: followerID, FolloweeID: followeeID}], nil
}

func (m *memStore) Followees(_ context.Context, followerID int64) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var ids []int64
	for e := range m.edges {
		if e.FollowerID == followerID {
			ids = append(ids, e.FolloweeID)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

func (m *memStore) edgeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.edges)
}

func (m *memStore) postAt(authorID int64, body string, at time.Time) model.Tweet {
	t, _ := m.createTweet(authorID, body, at)
	return t
}

func (m *memStore) createTweet(authorID int64, body string, at time.Time) (model.Tweet, error) {
	author, err := m.GetByID(context.Background(), authorID)
	if err != nil {
		return model.Tweet{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	t := model.Tweet{
		ID:         int64(len(m.tweets) + 1),
		AuthorID:   authorID,
		AuthorName: author.Name,
		Body:       body,
		PostedAt:   at,
	}
	m.tweets = append(m.tweets, t)
	return t, nil
}

// tweetStore adapts memStore to TweetStore; Create collides with the user method.
type tweetStore struct{ *memStore }

func (s tweetStore) Create(_ context.Context, authorID int64, body string, postedAt time.Time) (model.Tweet, error) {
	return s.createTweet(authorID, body, postedAt)
}

func (s tweetStore) DeleteIfOwned(_ context.Context, tweetID, requesterID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.tweets {
		if t.ID != tweetID {
			continue
		}
		if t.AuthorID != requesterID {
			return model.ErrNotOwner
		}
		s.tweets = slices.Delete(s.tweets, i, i+1)
		return nil
	}
	return model.ErrTweetNotFound
}

// ByAuthors deliberately returns insertion order so the composer has to sort.
func (s tweetStore) ByAuthors(_ context.Context, authorIDs []int64) ([]model.Tweet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Tweet
	for _, t := range s.tweets {
		if slices.Contains(authorIDs, t.AuthorID) {
			out = append(out, t)
		}
	}
	return out, nil
}
