package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"irs-responder/internal/session"
)

func newTestStore(t *testing.T) (*session.RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return session.NewRedisStore(rdb), mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store, mr := newTestStore(t)
	ctx := context.Background()

	sess := session.Session{
		SessionID: "sid-1",
		UserID:    "u1",
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		ExpiresAt: time.Now().Add(time.Hour).UTC().Truncate(time.Second),
	}
	require.NoError(t, store.Create(ctx, sess))

	assert.True(t, mr.Exists("session:sid-1"))
	ttl := mr.TTL("session:sid-1")
	assert.Greater(t, ttl, 59*time.Minute)

	got, err := store.Get(ctx, "sid-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "u1", got.Subject())
	assert.True(t, sess.ExpiresAt.Equal(got.ExpiresAt))

	require.NoError(t, store.Delete(ctx, "sid-1"))
	got, err = store.Get(ctx, "sid-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStoreGetMissing(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)

	got, err := store.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = store.Get(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStoreCreateValidation(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()

	err := store.Create(ctx, session.Session{UserID: "u1", ExpiresAt: time.Now().Add(time.Hour)})
	assert.ErrorIs(t, err, session.ErrInvalidSession)

	err = store.Create(ctx, session.Session{SessionID: "s", UserID: "u1", ExpiresAt: time.Now().Add(-time.Second)})
	assert.ErrorIs(t, err, session.ErrInvalidSession)
}

func TestRedisStoreUpdateExpiredDeletes(t *testing.T) {
	t.Parallel()

	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, session.Session{
		SessionID: "sid-2",
		UserID:    "u2",
		ExpiresAt: time.Now().Add(time.Hour),
	}))

	require.NoError(t, store.Update(ctx, session.Session{
		SessionID: "sid-2",
		UserID:    "u2",
		ExpiresAt: time.Now().Add(-time.Minute),
	}))
	assert.False(t, mr.Exists("session:sid-2"))
}

func TestRedisStoreGetCorrupt(t *testing.T) {
	t.Parallel()

	store, mr := newTestStore(t)
	require.NoError(t, mr.Set("session:bad", "{not json"))

	_, err := store.Get(context.Background(), "bad")
	assert.Error(t, err)
}
