package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/placefolk/internal/domain/ports"
	"github.com/ersonp/placefolk/internal/infrastructure/metrics"
)

var _ ports.Cache[string] = (*Cache[string])(nil)

func TestCache_GetSet(t *testing.T) {
	c := New[string](0)

	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Set("a", "1")
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "1", v)

	c.Set("a", "2")
	v, _ = c.Get("a")
	assert.Equal(t, "2", v)
	assert.Equal(t, 1, c.Len())

	assert.True(t, c.Delete("a"))
	assert.False(t, c.Delete("a"))
	assert.Equal(t, 0, c.Len())
}

func TestCache_UnboundedKeepsEverything(t *testing.T) {
	c := New[int](0)
	for i := range 1000 {
		c.Set(strconv.Itoa(i), i)
	}
	assert.Equal(t, 1000, c.Len())
	assert.Zero(t, c.Stats().Evictions)
}

func TestCache_LRUEviction(t *testing.T) {
	c := New[int](2)

	c.Set("a", 1)
	c.Set("b", 2)
	_, _ = c.Get("a")
	c.Set("c", 3)

	_, ok := c.Get("b")
	assert.False(t, ok, "least recently used entry is evicted")
	_, ok = c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "c"}, c.Keys())
	assert.Equal(t, int64(1), c.Stats().Evictions)
}

func TestCache_GetOrCompute(t *testing.T) {
	tests := []struct {
		name      string
		computed  []int
		errs      []error
		wantValue int
		wantErr   bool
		wantCalls int
		wantLen   int
	}{
		{
			name:      "computes once and stores",
			computed:  []int{7, 8},
			errs:      []error{nil, nil},
			wantValue: 7,
			wantCalls: 1,
			wantLen:   1,
		},
		{
			name:      "error is not stored",
			computed:  []int{0, 9},
			errs:      []error{errors.New("boom"), nil},
			wantValue: 9,
			wantCalls: 2,
			wantLen:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New[int](0)
			calls := 0
			compute := func(context.Context) (int, error) {
				i := calls
				calls++
				return tt.computed[i], tt.errs[i]
			}

			first, err := c.GetOrCompute(context.Background(), "k", compute)
			if tt.errs[0] != nil {
				require.Error(t, err)
				assert.Zero(t, first)
			} else {
				require.NoError(t, err)
			}

			v, err := c.GetOrCompute(context.Background(), "k", compute)
			require.NoError(t, err)
			assert.Equal(t, tt.wantValue, v)
			assert.Equal(t, tt.wantCalls, calls)
			assert.Equal(t, tt.wantLen, c.Len())
		})
	}
}

func TestCache_GetOrComputeStoresEmptyValue(t *testing.T) {
	c := New[[]string](0)
	calls := 0
	compute := func(context.Context) ([]string, error) {
		calls++
		return []string{}, nil
	}

	for range 3 {
		v, err := c.GetOrCompute(context.Background(), "empty", compute)
		require.NoError(t, err)
		assert.Empty(t, v)
	}
	assert.Equal(t, 1, calls)
}

func TestCache_GetOrComputeCoalescesConcurrentCalls(t *testing.T) {
	c := New[int](0)
	var calls atomic.Int32
	release := make(chan struct{})

	compute := func(context.Context) (int, error) {
		calls.Add(1)
		<-release
		return 42, nil
	}

	var wg sync.WaitGroup
	results := make([]int, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := c.GetOrCompute(context.Background(), "k", compute)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	// Give the goroutines time to join the in-flight computation.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.LessOrEqual(t, calls.Load(), int32(len(results)))
	for _, v := range results {
		assert.Equal(t, 42, v)
	}
	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 42, v)
}

func TestCache_GetOrComputeWaiterIgnoresOtherCallersCancellation(t *testing.T) {
	c := New[string](0)
	started := make(chan struct{})

	ctxA, cancelA := context.WithCancel(context.Background())
	defer cancelA()

	errA := make(chan error, 1)
	go func() {
		_, err := c.GetOrCompute(ctxA, "k", func(ctx context.Context) (string, error) {
			close(started)
			<-ctx.Done()
			return "", fmt.Errorf("%w: fetching: %w", ports.ErrQuery, ctx.Err())
		})
		errA <- err
	}()
	<-started

	type result struct {
		v   string
		err error
	}
	resB := make(chan result, 1)
	go func() {
		v, err := c.GetOrCompute(context.Background(), "k", func(context.Context) (string, error) {
			return "pune", nil
		})
		resB <- result{v, err}
	}()

	// Give B time to join A's in-flight computation.
	time.Sleep(50 * time.Millisecond)
	cancelA()

	assert.ErrorIs(t, <-errA, context.Canceled)

	select {
	case r := <-resB:
		require.NoError(t, r.err)
		assert.Equal(t, "pune", r.v)
	case <-time.After(2 * time.Second):
		t.Fatal("waiter did not return")
	}

	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "pune", v)
}

func TestCache_GetOrComputeReturnsOwnCancellation(t *testing.T) {
	c := New[string](0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.GetOrCompute(ctx, "k", func(ctx context.Context) (string, error) {
		return "", ctx.Err()
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, c.Len())
}

func TestCache_Stats(t *testing.T) {
	c := New[string](0)
	c.Set("a", "x")
	_, _ = c.Get("a")
	_, _ = c.Get("a")
	_, _ = c.Get("b")

	s := c.Stats()
	assert.Equal(t, int64(2), s.Hits)
	assert.Equal(t, int64(1), s.Misses)
	assert.Equal(t, int64(1), s.Sets)
	assert.Equal(t, 1, s.Size)
	assert.InDelta(t, 2.0/3.0, s.HitRatio(), 0.0001)
	assert.Zero(t, StatsSnapshot{}.HitRatio())
}

func TestCache_WithMetrics(t *testing.T) {
	reg := metrics.NewRegistry()
	c := New[string](1, WithMetrics(reg.Cache, "entity"))

	c.Set("a", "x")
	_, _ = c.Get("a")
	_, _ = c.Get("missing")
	c.Set("b", "y")

	assert.Equal(t, float64(1), testutil.ToFloat64(reg.Cache.Hits("entity")))
	assert.Equal(t, float64(1), testutil.ToFloat64(reg.Cache.Misses("entity")))
	assert.Equal(t, float64(1), testutil.ToFloat64(reg.Cache.Size("entity")))
}

func TestCache_DeleteUpdatesSizeMetric(t *testing.T) {
	reg := metrics.NewRegistry()
	c := New[string](0, WithMetrics(reg.Cache, "sessions"))

	c.Set("a", "x")
	c.Set("b", "y")
	assert.Equal(t, float64(2), testutil.ToFloat64(reg.Cache.Size("sessions")))

	require.True(t, c.Delete("a"))
	assert.Equal(t, float64(1), testutil.ToFloat64(reg.Cache.Size("sessions")))

	assert.False(t, c.Delete("a"))
	assert.Equal(t, float64(1), testutil.ToFloat64(reg.Cache.Size("sessions")))
}
