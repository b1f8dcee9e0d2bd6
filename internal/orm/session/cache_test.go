package session

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framelab-dev/framelab/internal/orm/cache"
)

func newCachedSession(t *testing.T, store cache.Store) (*Session, sqlmock.Sqlmock) {
	t.Helper()
	sess, mock := newTestSession(t, WithCache(store))
	return sess, mock
}

func newSharedCache(t *testing.T) cache.Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return cache.NewRedisStore(client, 0)
}

func TestSecondLevelCacheSkipsStorage(t *testing.T) {
	store := newSharedCache(t)
	ctx := context.Background()

	// First session loads from storage and populates the cache.
	warm, warmMock := newCachedSession(t, store)
	warmMock.ExpectQuery(`SELECT id, username, email FROM users WHERE id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(userRows().AddRow(1, "john_doe", "john@example.com"))

	require.NoError(t, warm.Begin())
	_, err := warm.Find(ctx, "User", 1)
	require.NoError(t, err)
	require.NoError(t, warm.Commit(ctx))
	require.NoError(t, warmMock.ExpectationsWereMet())

	// A fresh session serves the same record from the snapshot with zero
	// storage fetches: no expectations are registered on its mock.
	cold, coldMock := newCachedSession(t, store)
	require.NoError(t, cold.Begin())

	rec, err := cold.Find(ctx, "User", 1)
	require.NoError(t, err)
	assert.Equal(t, "john_doe", rec.Get("username"))
	assert.Equal(t, int64(1), rec.ID())
	assert.NoError(t, coldMock.ExpectationsWereMet())
}

func TestSecondLevelCacheHydratesLazyRelationships(t *testing.T) {
	store := newSharedCache(t)
	ctx := context.Background()

	warm, warmMock := newCachedSession(t, store)
	warmMock.ExpectQuery(`SELECT id, title, content, author_id FROM posts`).
		WithArgs(int64(10)).
		WillReturnRows(postRows().AddRow(10, "First", "Hello", 7))

	require.NoError(t, warm.Begin())
	_, err := warm.Find(ctx, "Post", 10)
	require.NoError(t, err)
	require.NoError(t, warm.Commit(ctx))

	cold, coldMock := newCachedSession(t, store)
	require.NoError(t, cold.Begin())

	post, err := cold.Find(ctx, "Post", 10)
	require.NoError(t, err)

	// The snapshot's JSON float identifier normalizes back to int64.
	ref, ok := post.Get("author").(*LazyRef)
	require.True(t, ok)
	assert.Equal(t, int64(7), ref.ID())
	assert.False(t, ref.Resolved())
	assert.NoError(t, coldMock.ExpectationsWereMet())
}

func TestSecondLevelCacheNormalizesByteColumns(t *testing.T) {
	store := newSharedCache(t)
	ctx := context.Background()

	// Drivers commonly surface TEXT columns as []byte; the snapshot must
	// not let the JSON encoding base64 them.
	warm, warmMock := newCachedSession(t, store)
	warmMock.ExpectQuery(`SELECT id, username, email FROM users WHERE id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(userRows().AddRow(1, []byte("john_doe"), []byte("john@example.com")))

	require.NoError(t, warm.Begin())
	_, err := warm.Find(ctx, "User", 1)
	require.NoError(t, err)
	require.NoError(t, warm.Commit(ctx))
	require.NoError(t, warmMock.ExpectationsWereMet())

	cold, coldMock := newCachedSession(t, store)
	require.NoError(t, cold.Begin())

	rec, err := cold.Find(ctx, "User", 1)
	require.NoError(t, err)
	assert.Equal(t, "john_doe", rec.Get("username"))
	assert.Equal(t, "john@example.com", rec.Get("email"))
	assert.NoError(t, coldMock.ExpectationsWereMet())
}

// brokenStore fails every read, standing in for an unreachable Redis.
type brokenStore struct {
	err error
}

func (b brokenStore) Get(ctx context.Context, entity string, id any) (map[string]any, bool, error) {
	return nil, false, b.err
}

func (b brokenStore) Put(ctx context.Context, entity string, id any, row map[string]any) error {
	return b.err
}

func (b brokenStore) Invalidate(ctx context.Context, entity string, id any) error {
	return b.err
}

func TestDegradedCacheFallsThroughToStorage(t *testing.T) {
	store := brokenStore{err: errors.New("connection refused")}
	ctx := context.Background()

	sess, mock := newCachedSession(t, store)
	mock.ExpectQuery(`SELECT id, username, email FROM users WHERE id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(userRows().AddRow(1, "john_doe", "john@example.com"))

	require.NoError(t, sess.Begin())

	rec, err := sess.Find(ctx, "User", 1)
	require.NoError(t, err)
	assert.Equal(t, "john_doe", rec.Get("username"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateInvalidatesSnapshot(t *testing.T) {
	store := newSharedCache(t)
	ctx := context.Background()

	warm, warmMock := newCachedSession(t, store)
	warmMock.ExpectQuery(`SELECT id, username, email FROM users`).
		WithArgs(int64(1)).
		WillReturnRows(userRows().AddRow(1, "john_doe", "john@example.com"))
	warmMock.ExpectExec(`UPDATE users SET username = \$1, email = \$2 WHERE id = \$3`).
		WithArgs("john", "john@example.com", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, warm.Begin())
	rec, err := warm.Find(ctx, "User", 1)
	require.NoError(t, err)
	rec.Set("username", "john")
	require.NoError(t, warm.MarkDirty(rec))
	require.NoError(t, warm.Commit(ctx))
	require.NoError(t, warmMock.ExpectationsWereMet())

	// The stale snapshot is gone: the next session reads storage again.
	cold, coldMock := newCachedSession(t, store)
	coldMock.ExpectQuery(`SELECT id, username, email FROM users`).
		WithArgs(int64(1)).
		WillReturnRows(userRows().AddRow(1, "john", "john@example.com"))

	require.NoError(t, cold.Begin())
	fresh, err := cold.Find(ctx, "User", 1)
	require.NoError(t, err)
	assert.Equal(t, "john", fresh.Get("username"))
	assert.NoError(t, coldMock.ExpectationsWereMet())
}
