package insights

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_GetOrFetch(t *testing.T) {
	cache := NewCache(time.Minute)
	ctx := context.Background()

	var calls int32
	fetch := func(context.Context) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		return "value", nil
	}

	for i := 0; i < 3; i++ {
		value, err := cache.GetOrFetch(ctx, "key", fetch)
		require.NoError(t, err)
		assert.Equal(t, "value", value)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCache_Expiry(t *testing.T) {
	cache := NewCache(time.Minute)
	ctx := context.Background()

	current := time.Now()
	cache.now = func() time.Time { return current }

	var calls int
	fetch := func(context.Context) (interface{}, error) {
		calls++
		return calls, nil
	}

	value, err := cache.GetOrFetch(ctx, "key", fetch)
	require.NoError(t, err)
	assert.Equal(t, 1, value)

	current = current.Add(2 * time.Minute)

	value, err = cache.GetOrFetch(ctx, "key", fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, value)
}

func TestCache_ErrorsNotCached(t *testing.T) {
	cache := NewCache(time.Minute)
	ctx := context.Background()

	var calls int
	fetch := func(context.Context) (interface{}, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("upstream down")
		}
		return "recovered", nil
	}

	_, err := cache.GetOrFetch(ctx, "key", fetch)
	assert.Error(t, err)

	value, err := cache.GetOrFetch(ctx, "key", fetch)
	require.NoError(t, err)
	assert.Equal(t, "recovered", value)
}

func TestCache_CoalescesConcurrentFetches(t *testing.T) {
	cache := NewCache(time.Minute)
	ctx := context.Background()

	var calls int32
	release := make(chan struct{})
	fetch := func(context.Context) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return "value", nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			value, err := cache.GetOrFetch(ctx, "key", fetch)
			assert.NoError(t, err)
			assert.Equal(t, "value", value)
		}()
	}

	// Give the goroutines time to pile onto the singleflight group.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCache_Invalidate(t *testing.T) {
	cache := NewCache(time.Minute)
	ctx := context.Background()

	var calls int
	fetch := func(context.Context) (interface{}, error) {
		calls++
		return calls, nil
	}

	_, err := cache.GetOrFetch(ctx, "key", fetch)
	require.NoError(t, err)

	cache.Invalidate("key")

	value, err := cache.GetOrFetch(ctx, "key", fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, value)
}
