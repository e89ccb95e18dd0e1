package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_LoadsOnce(t *testing.T) {
	var calls int32
	l := NewLoader(func(ctx context.Context) ([]string, error) {
		atomic.AddInt32(&calls, 1)
		return []string{"a"}, nil
	})

	for i := 0; i < 3; i++ {
		v, err := l.Get(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, v)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.True(t, l.Loaded())
}

func TestLoader_ConcurrentFirstAccess_SharesFetch(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	l := NewLoader(func(ctx context.Context) (int, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return 42, nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := l.Get(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, 42, v)
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestLoader_ErrorsAreNotCached(t *testing.T) {
	var calls int32
	l := NewLoader(func(ctx context.Context) (int, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return 0, errors.New("service down")
		}
		return 7, nil
	})

	_, err := l.Get(context.Background())
	require.Error(t, err)
	assert.False(t, l.Loaded())

	v, err := l.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestLoader_Invalidate_Reloads(t *testing.T) {
	var calls int32
	l := NewLoader(func(ctx context.Context) (int32, error) {
		return atomic.AddInt32(&calls, 1), nil
	})

	v, _ := l.Get(context.Background())
	assert.Equal(t, int32(1), v)

	l.Invalidate()
	assert.False(t, l.Loaded())

	v, _ = l.Get(context.Background())
	assert.Equal(t, int32(2), v)
}

type countingInvalidator struct{ n int32 }

func (c *countingInvalidator) Invalidate() { atomic.AddInt32(&c.n, 1) }

func TestSchedule_RegistersAndRuns(t *testing.T) {
	c := cron.New()
	target := &countingInvalidator{}

	id, err := Schedule(c, "@every 1h", nil, target)
	require.NoError(t, err)

	entry := c.Entry(id)
	require.True(t, entry.Valid())
	entry.Job.Run()

	assert.Equal(t, int32(1), atomic.LoadInt32(&target.n))
}

func TestSchedule_BadSpec(t *testing.T) {
	_, err := Schedule(cron.New(), "not a spec", nil)
	assert.Error(t, err)
}
