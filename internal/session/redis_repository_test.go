package session

import (
	"context"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestRedisRepository_PutGetDelete(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	repo := NewRedisRepository(client, "test:session:", 0)
	store := Bind(repo, "ctx-1")

	ctx := context.Background()
	s, err := New("tok-1", 5, []string{RoleUser}, Profile{Username: "alice"})
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, s))
	require.True(t, m.Exists("test:session:ctx-1"))

	got, ok := store.Current(ctx)
	require.True(t, ok)
	require.Equal(t, s.Token, got.Token)
	require.Equal(t, s.Roles, got.Roles)
	require.Equal(t, s.Profile, got.Profile)
	require.True(t, s.CreatedAt.Equal(got.CreatedAt))

	require.NoError(t, store.Clear(ctx))
	_, ok = store.Current(ctx)
	require.False(t, ok)
}

func TestRedisRepository_NoTTLByDefault(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	repo := NewRedisRepository(client, "", 0)

	s, _ := New("tok", 1, []string{RoleUser}, Profile{})
	require.NoError(t, repo.Put(context.Background(), "c", s))
	require.Equal(t, time.Duration(0), m.TTL("solargrid:session:c"))

	m.FastForward(30 * 24 * time.Hour)
	got, err := repo.Get(context.Background(), "c")
	require.NoError(t, err)
	require.NotNil(t, got)
}

func TestRedisRepository_RetentionTTL(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	repo := NewRedisRepository(client, "test:", time.Hour)

	s, _ := New("tok", 1, []string{RoleUser}, Profile{})
	require.NoError(t, repo.Put(context.Background(), "c", s))

	m.FastForward(2 * time.Hour)
	got, err := repo.Get(context.Background(), "c")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestRedisRepository_UnavailableReadsAsAbsent(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: m.Addr(), MaxRetries: -1})
	store := Bind(NewRedisRepository(client, "", 0), "c")
	m.Close()

	_, ok := store.Current(context.Background())
	require.False(t, ok)
}

func TestRedisRepository_RetentionSlidesWhileActive(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	store := Bind(NewRedisRepository(client, "test:", 30*time.Minute), "c")
	ctx := context.Background()

	s, _ := New("tok", 1, []string{RoleUser}, Profile{})
	require.NoError(t, store.Save(ctx, s))

	// read every 10 minutes for well past one retention window
	for i := 1; i <= 6; i++ {
		m.FastForward(10 * time.Minute)
		_, ok := store.Current(ctx)
		require.True(t, ok, "read %d after %d minutes", i, i*10)
		require.Equal(t, 30*time.Minute, m.TTL("test:c"))
	}

	// idle for a whole window
	m.FastForward(31 * time.Minute)
	_, ok := store.Current(ctx)
	require.False(t, ok)
}
