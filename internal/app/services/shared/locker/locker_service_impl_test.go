package locker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeRedis mimics the JSON encoded values written by the redis repository.
type fakeRedis struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}}
}

func encode(value interface{}) string {
	b, _ := json.Marshal(value)
	return string(b)
}

func (f *fakeRedis) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
	return nil
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, exp time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = encode(value)
	return nil
}

func (f *fakeRedis) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data[key], nil
}

func (f *fakeRedis) TrySetNX(ctx context.Context, key string, value interface{}, exp time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.data[key]; ok {
		return false, nil
	}
	f.data[key] = encode(value)
	return true, nil
}

func (f *fakeRedis) CompareAndDelete(ctx context.Context, key string, value interface{}) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.data[key] != encode(value) {
		return false, nil
	}
	delete(f.data, key)
	return true, nil
}

func (f *fakeRedis) CompareAndExpire(ctx context.Context, key string, value interface{}, exp time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data[key] == encode(value), nil
}

func TestLockService(t *testing.T) {
	ctx := context.Background()
	key := "booking:lock:doctor:abc:2024-03-04"

	t.Run("Second TryLock on a held key is not acquired", func(t *testing.T) {
		svc := newLockService(newFakeRedis(), zap.NewNop())

		acquired, token, err := svc.TryLock(ctx, key, time.Second)
		require.NoError(t, err)
		assert.True(t, acquired, "first caller should acquire the lock")
		assert.NotEmpty(t, token)

		acquired, _, err = svc.TryLock(ctx, key, time.Second)
		require.NoError(t, err)
		assert.False(t, acquired, "second caller should not acquire a held lock")
	})

	t.Run("Unlock releases only with the owner token", func(t *testing.T) {
		redis := newFakeRedis()
		svc := newLockService(redis, zap.NewNop())

		_, token, err := svc.TryLock(ctx, key, time.Second)
		require.NoError(t, err)

		require.NoError(t, svc.Unlock(ctx, key, "someone-else"))
		stored, _ := redis.Get(ctx, key)
		assert.NotEmpty(t, stored, "a foreign token should not release the lock")

		require.NoError(t, svc.Unlock(ctx, key, token))
		stored, _ = redis.Get(ctx, key)
		assert.Empty(t, stored, "the owner token should release the lock")

		acquired, _, err := svc.TryLock(ctx, key, time.Second)
		require.NoError(t, err)
		assert.True(t, acquired, "lock should be acquirable after release")
	})

	t.Run("Refresh fails once ownership is lost", func(t *testing.T) {
		svc := newLockService(newFakeRedis(), zap.NewNop())

		_, token, err := svc.TryLock(ctx, key, time.Second)
		require.NoError(t, err)

		assert.NoError(t, svc.Refresh(ctx, key, token, time.Second))
		assert.Error(t, svc.Refresh(ctx, key, "stale-token", time.Second))
	})
}
