// Package storage persists small client-side documents (cart, language) under string keys,
// the way a browser keeps them in localStorage.
package storage

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// Storage reads and writes whole values. Get returns nil, nil for a missing key.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

type Memory struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{values: map[string][]byte{}}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.values[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), value...), nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = append([]byte(nil), value...)
	return nil
}

// File keeps one <key>.json file per key under Dir.
type File struct {
	Dir string
}

func NewFile(dir string) *File {
	return &File{Dir: dir}
}

func (f *File) path(key string) string {
	return filepath.Join(f.Dir, filepath.Base(key)+".json")
}

func (f *File) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "read %s", key)
	}
	return data, nil
}

// Set replaces the file through a rename so readers never see a partial value.
func (f *File) Set(_ context.Context, key string, value []byte) error {
	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return errors.Wrap(err, "create storage dir")
	}

	tmp, err := os.CreateTemp(f.Dir, filepath.Base(key)+".*.tmp")
	if err != nil {
		return errors.Wrapf(err, "write %s", key)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "write %s", key)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "write %s", key)
	}
	return errors.Wrapf(os.Rename(tmp.Name(), f.path(key)), "write %s", key)
}

// Redis stores values as plain strings under Prefix+key, without expiry.
type Redis struct {
	client *redis.Client
	prefix string
}

func NewRedis(client *redis.Client, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "redis get %s", key)
	}
	return value, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		return errors.Wrapf(err, "redis set %s", key)
	}
	return nil
}
