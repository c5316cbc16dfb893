package store

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minitweet/internal/model"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "minitweet-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func createUser(t *testing.T, users *UserStore, name string) model.User {
	t.Helper()

	u, err := users.Create(context.Background(), name, name+"@example.com", "hash")
	require.NoError(t, err)
	return u
}

func TestOpen_MigrateIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Migrate(context.Background()))
}

func TestUserStore_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	users := NewUserStore(openTestDB(t))

	created, err := users.Create(ctx, "foobar", "foobar@example.com", "hash")
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, model.RoleUser, created.Role)

	byID, err := users.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, byID)

	byName, err := users.GetByName(ctx, "foobar")
	require.NoError(t, err)
	assert.Equal(t, created, byName)

	_, err = users.GetByID(ctx, 42)
	assert.ErrorIs(t, err, model.ErrUserNotFound)

	_, err = users.GetByName(ctx, "nobody")
	assert.ErrorIs(t, err, model.ErrUserNotFound)
}

func TestUserStore_CreateDuplicate(t *testing.T) {
	ctx := context.Background()
	users := NewUserStore(openTestDB(t))

	first := createUser(t, users, "foobar")

	tests := []struct {
		name  string
		uname string
		email string
	}{
		{name: "same name", uname: "foobar", email: "other@example.com"},
		{name: "same email", uname: "other", email: "foobar@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := users.Create(ctx, tt.uname, tt.email, "hash2")
			assert.ErrorIs(t, err, model.ErrDuplicateIdentity)
		})
	}

	all, err := users.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, first, all[0])
}

func TestTweetStore_CreateAndByAuthors(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	users := NewUserStore(db)
	tweets := NewTweetStore(db)

	alice := createUser(t, users, "alice")
	bob := createUser(t, users, "bob")
	carol := createUser(t, users, "carol")

	base := time.Date(2016, time.July, 7, 4, 0, 1, 0, time.UTC)
	t1, err := tweets.Create(ctx, alice.ID, "first", base)
	require.NoError(t, err)
	assert.Equal(t, "alice", t1.AuthorName)
	assert.True(t, base.Equal(t1.PostedAt))

	t2, err := tweets.Create(ctx, bob.ID, "second", base)
	require.NoError(t, err)
	t3, err := tweets.Create(ctx, alice.ID, "third", base.Add(time.Minute))
	require.NoError(t, err)
	_, err = tweets.Create(ctx, carol.ID, "hidden", base.Add(time.Hour))
	require.NoError(t, err)

	got, err := tweets.ByAuthors(ctx, []int64{alice.ID, bob.ID})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []int64{t3.ID, t2.ID, t1.ID}, []int64{got[0].ID, got[1].ID, got[2].ID})

	none, err := tweets.ByAuthors(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)

	all, err := tweets.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestTweetStore_ByAuthorsManyAuthors(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	users := NewUserStore(db)
	tweets := NewTweetStore(db)

	alice := createUser(t, users, "alice")
	bob := createUser(t, users, "bob")

	base := time.Date(2016, time.July, 7, 4, 0, 1, 0, time.UTC)
	older, err := tweets.Create(ctx, bob.ID, "older", base)
	require.NoError(t, err)
	newer, err := tweets.Create(ctx, alice.ID, "newer", base.Add(time.Minute))
	require.NoError(t, err)

	// More ids than SQLite accepts as bound variables in one statement, with
	// the two real authors in different batches.
	ids := []int64{bob.ID}
	for id := int64(100); len(ids) < 39_999; id++ {
		ids = append(ids, id)
	}
	ids = append(ids, alice.ID)

	got, err := tweets.ByAuthors(ctx, ids)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, []int64{newer.ID, older.ID}, []int64{got[0].ID, got[1].ID})
}

func TestTweetStore_CreateUnknownAuthor(t *testing.T) {
	tweets := NewTweetStore(openTestDB(t))

	_, err := tweets.Create(context.Background(), 7, "orphan", time.Now())
	assert.ErrorIs(t, err, model.ErrUserNotFound)
}

func TestTweetStore_DeleteIfOwned(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	users := NewUserStore(db)
	tweets := NewTweetStore(db)

	owner := createUser(t, users, "owner")
	other := createUser(t, users, "other")
	tw, err := tweets.Create(ctx, owner.ID, "mine", time.Now())
	require.NoError(t, err)

	err = tweets.DeleteIfOwned(ctx, tw.ID, other.ID)
	assert.ErrorIs(t, err, model.ErrNotOwner)
	_, err = tweets.GetByID(ctx, tw.ID)
	require.NoError(t, err)

	require.NoError(t, tweets.DeleteIfOwned(ctx, tw.ID, owner.ID))
	_, err = tweets.GetByID(ctx, tw.ID)
	assert.ErrorIs(t, err, model.ErrTweetNotFound)

	err = tweets.DeleteIfOwned(ctx, tw.ID, owner.ID)
	assert.ErrorIs(t, err, model.ErrTweetNotFound)
}

func TestFollowStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	users := NewUserStore(db)
	follows := NewFollowStore(db)

	a := createUser(t, users, "a")
	b := createUser(t, users, "b")
	c := createUser(t, users, "c")

	ok, err := follows.Exists(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, follows.Insert(ctx, a.ID, c.ID))
	require.NoError(t, follows.Insert(ctx, a.ID, b.ID))
	assert.ErrorIs(t, follows.Insert(ctx, a.ID, b.ID), model.ErrAlreadyFollowing)

	ok, err = follows.Exists(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = follows.Exists(ctx, b.ID, a.ID)
	require.NoError(t, err)
	assert.False(t, ok, "edges are directed")

	ids, err := follows.Followees(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{b.ID, c.ID}, ids)

	require.NoError(t, follows.Delete(ctx, a.ID, b.ID))
	assert.ErrorIs(t, follows.Delete(ctx, a.ID, b.ID), model.ErrNotFollowing)

	ids, err = follows.Followees(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestFollowStore_InsertUnknownUser(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	a := createUser(t, NewUserStore(db), "a")

	err := NewFollowStore(db).Insert(ctx, a.ID, 99)
	assert.ErrorIs(t, err, model.ErrTargetNotFound)
}

func TestFollowStore_ConcurrentInsertCreatesOneEdge(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	users := NewUserStore(db)
	follows := NewFollowStore(db)

	a := createUser(t, users, "a")
	b := createUser(t, users, "b")

	const workers = 8
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = follows.Insert(ctx, a.ID, b.ID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, model.ErrAlreadyFollowing)
	}
	assert.Equal(t, 1, succeeded)

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM follower").Scan(&n))
	assert.Equal(t, 1, n)
}
