package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exercise(t *testing.T, s Storage) {
	t.Helper()
	ctx := context.Background()

	value, err := s.Get(ctx, "cart")
	require.NoError(t, err)
	assert.Nil(t, value)

	require.NoError(t, s.Set(ctx, "cart", []byte(`[{"_id":"1"}]`)))
	value, err = s.Get(ctx, "cart")
	require.NoError(t, err)
	assert.Equal(t, `[{"_id":"1"}]`, string(value))

	require.NoError(t, s.Set(ctx, "cart", []byte(`[]`)))
	value, err = s.Get(ctx, "cart")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(value))

	other, err := s.Get(ctx, "lang")
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestMemory(t *testing.T) {
	exercise(t, NewMemory())
}

func TestMemoryCopiesValues(t *testing.T) {
	m := NewMemory()
	value := []byte("en")
	require.NoError(t, m.Set(context.Background(), "lang", value))
	value[0] = 'x'

	got, err := m.Get(context.Background(), "lang")
	require.NoError(t, err)
	assert.Equal(t, "en", string(got))
}

func TestFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")
	exercise(t, NewFile(dir))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary files are cleaned up")
	assert.Equal(t, "cart.json", entries[0].Name())
}

func TestFileKeysStayInDir(t *testing.T) {
	dir := t.TempDir()
	f := NewFile(dir)
	require.NoError(t, f.Set(context.Background(), "../escape", []byte("x")))

	_, err := os.Stat(filepath.Join(dir, "escape.json"))
	assert.NoError(t, err)
}

func TestRedis(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer client.Close()

	exercise(t, NewRedis(client, "storefront:"))

	raw, err := server.Get("storefront:cart")
	require.NoError(t, err)
	assert.Equal(t, `[]`, raw)
	assert.False(t, server.Exists("cart"), "keys carry the prefix")
}

func TestRedisSurfacesConnectionErrors(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	r := NewRedis(client, "storefront:")

	_, err := r.Get(context.Background(), "cart")
	assert.Error(t, err)
	assert.Error(t, r.Set(context.Background(), "cart", []byte("[]")))
}
