package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityLabel(t *testing.T) {
	assert.Equal(t, "Asha", Identity{UID: "u1", DisplayName: "Asha", Email: "asha@example.com"}.Label())
	assert.Equal(t, "asha@example.com", Identity{UID: "u1", Email: "asha@example.com"}.Label())
	assert.Equal(t, "User", Identity{UID: "u1"}.Label())
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	s := New(nil)

	_, ok := s.Current()
	assert.False(t, ok)
	assert.Empty(t, s.UserID())

	require.NoError(t, s.Restore(ctx))
	assert.Empty(t, s.UserID())

	require.Error(t, s.Login(ctx, Identity{}))

	require.NoError(t, s.Login(ctx, Identity{UID: "uid-42", Email: "a@b.c"}))
	assert.Equal(t, "uid-42", s.UserID())

	require.NoError(t, s.Logout(ctx))
	_, ok = s.Current()
	assert.False(t, ok)
}

func TestSessionRestoreFromStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Save(ctx, Identity{UID: "saved"}))

	s := New(store)
	require.NoError(t, s.Restore(ctx))
	assert.Equal(t, "saved", s.UserID())
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store := NewFileStore(path)

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, ErrNoSession)

	id := Identity{UID: "f-1", DisplayName: "Ravi"}
	require.NoError(t, store.Save(ctx, id))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	require.NoError(t, store.Clear(ctx))
	require.NoError(t, store.Clear(ctx))
	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, ErrNoSession)
}

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return mr, client
}

func TestRedisStore(t *testing.T) {
	mr, client := setupTestRedis(t)
	ctx := context.Background()
	store := NewRedisStoreWithClient(client, "test:session", time.Hour)

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, ErrNoSession)

	id := Identity{UID: "r-1", DisplayName: "Meena", Email: "meena@example.com"}
	require.NoError(t, store.Save(ctx, id))
	assert.True(t, mr.Exists("test:session"))
	assert.Equal(t, time.Hour, mr.TTL("test:session"))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	require.NoError(t, store.Save(ctx, Identity{UID: "r-2"}))
	got, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, Identity{UID: "r-2"}, got)

	require.NoError(t, store.Clear(ctx))
	assert.False(t, mr.Exists("test:session"))
}

func TestNewRedisStoreConnects(t *testing.T) {
	mr, _ := setupTestRedis(t)

	store, err := NewRedisStore("redis://"+mr.Addr(), "k", 0)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Save(context.Background(), Identity{UID: "x"}))
	assert.Equal(t, time.Duration(0), mr.TTL("k"))

	_, err = NewRedisStore("://bad", "k", 0)
	assert.Error(t, err)
}
