package modelinfo

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/yanizio/abalone/internal/predictor"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeSource struct {
	calls atomic.Int32
	err   error
	gate  chan struct{} // when non-nil, ModelInfo blocks until closed
}

func (f *fakeSource) ModelInfo(context.Context) (*predictor.ModelInfo, error) {
	f.calls.Add(1)
	if f.gate != nil {
		<-f.gate
	}
	if f.err != nil {
		return nil, f.err
	}
	return &predictor.ModelInfo{Description: "rings from measurements"}, nil
}

func TestCache_HitWithinTTL(t *testing.T) {
	src := &fakeSource{}
	c := New(src, time.Minute)

	for i := 0; i < 3; i++ {
		info, err := c.ModelInfo(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "rings from measurements", info.Description)
	}
	assert.EqualValues(t, 1, src.calls.Load())
}

func TestCache_Expiry(t *testing.T) {
	src := &fakeSource{}
	c := New(src, time.Minute)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	_, err := c.ModelInfo(context.Background())
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = c.ModelInfo(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 2, src.calls.Load())
}

func TestCache_ZeroTTLDisablesCaching(t *testing.T) {
	src := &fakeSource{}
	c := New(src, 0)

	_, _ = c.ModelInfo(context.Background())
	_, _ = c.ModelInfo(context.Background())
	assert.EqualValues(t, 2, src.calls.Load())
}

func TestCache_ErrorsAreNotCached(t *testing.T) {
	src := &fakeSource{err: errors.New("api down")}
	c := New(src, time.Minute)

	_, err := c.ModelInfo(context.Background())
	require.EqualError(t, err, "api down")

	src.err = nil
	info, err := c.ModelInfo(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, info)
	assert.EqualValues(t, 2, src.calls.Load())
}

func TestCache_Invalidate(t *testing.T) {
	src := &fakeSource{}
	c := New(src, time.Hour)

	_, _ = c.ModelInfo(context.Background())
	c.Invalidate()
	_, _ = c.ModelInfo(context.Background())
	assert.EqualValues(t, 2, src.calls.Load())
}

func TestCache_CoalescesConcurrentMisses(t *testing.T) {
	src := &fakeSource{gate: make(chan struct{})}
	c := New(src, time.Minute)

	const n = 8
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := c.ModelInfo(context.Background())
			assert.NoError(t, err)
		}()
	}

	// Let the first caller reach the source before releasing it.
	require.Eventually(t, func() bool { return src.calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(src.gate)
	wg.Wait()

	assert.EqualValues(t, 1, src.calls.Load())
}

// ctxSource blocks until gate closes or its ctx ends, and records whether
// the ctx it saw carried a deadline.
type ctxSource struct {
	gate        chan struct{}
	started     chan struct{}
	hadDeadline atomic.Bool
}

func (s *ctxSource) ModelInfo(ctx context.Context) (*predictor.ModelInfo, error) {
	_, ok := ctx.Deadline()
	s.hadDeadline.Store(ok)
	close(s.started)
	select {
	case <-s.gate:
		return &predictor.ModelInfo{Description: "rings from measurements"}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestCache_FetchOutlivesCallerCancel(t *testing.T) {
	src := &ctxSource{gate: make(chan struct{}), started: make(chan struct{})}
	c := New(src, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	type result struct {
		info *predictor.ModelInfo
		err  error
	}
	done := make(chan result, 1)
	go func() {
		info, err := c.ModelInfo(ctx)
		done <- result{info, err}
	}()

	<-src.started
	cancel()
	close(src.gate)

	res := <-done
	require.NoError(t, res.err)
	assert.Equal(t, "rings from measurements", res.info.Description)
	assert.True(t, src.hadDeadline.Load(), "fetch is bounded by FetchTimeout")

	// The detached result was cached for later callers.
	_, err := c.ModelInfo(context.Background())
	require.NoError(t, err)
}

func TestCache_SetTTL(t *testing.T) {
	src := &fakeSource{}
	c := New(src, time.Hour)

	_, _ = c.ModelInfo(context.Background())
	c.SetTTL(0)
	_, _ = c.ModelInfo(context.Background())
	_, _ = c.ModelInfo(context.Background())
	assert.EqualValues(t, 3, src.calls.Load(), "new TTL drops the cache and disables caching")

	c.SetTTL(time.Hour)
	_, _ = c.ModelInfo(context.Background())
	_, _ = c.ModelInfo(context.Background())
	assert.EqualValues(t, 4, src.calls.Load())
}
