package fanout

import (
	"context"
	"errors"
	"math/rand/v2"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapBounded_IndexAlignment(t *testing.T) {
	items := make([]int, 40)
	for i := range items {
		items[i] = i
	}

	for _, limit := range []int{1, 3, 5, 40} {
		t.Run("limit="+strconv.Itoa(limit), func(t *testing.T) {
			out := MapBounded(context.Background(), items, limit,
				func(_ context.Context, n int) (string, error) {
					time.Sleep(time.Duration(rand.IntN(3)) * time.Millisecond)
					return "item-" + strconv.Itoa(n), nil
				},
				func(int, error) string { return "" },
			)
			require.Len(t, out, len(items))
			for i, v := range out {
				assert.Equal(t, "item-"+strconv.Itoa(i), v)
			}
		})
	}
}

func TestMapBounded_FailureIsolation(t *testing.T) {
	items := []string{"a", "b", "boom", "d", "panic", "f"}

	out := MapBounded(context.Background(), items, 3,
		func(_ context.Context, s string) (string, error) {
			switch s {
			case "boom":
				return "", errors.New("upstream failed")
			case "panic":
				panic("unexpected nil")
			}
			return s + "!", nil
		},
		func(item string, err error) string {
			return "default:" + item
		},
	)

	assert.Equal(t, []string{"a!", "b!", "default:boom", "d!", "default:panic", "f!"}, out)
}

func TestMapBounded_FallbackReceivesError(t *testing.T) {
	sentinel := errors.New("timeout")
	var got error
	MapBounded(context.Background(), []int{1}, 1,
		func(context.Context, int) (int, error) { return 0, sentinel },
		func(_ int, err error) int { got = err; return -1 },
	)
	assert.ErrorIs(t, got, sentinel)
}

func TestMapBounded_PanicBecomesError(t *testing.T) {
	var got error
	out := MapBounded(context.Background(), []int{1}, 1,
		func(context.Context, int) (int, error) { panic("nil map") },
		func(_ int, err error) int { got = err; return -1 },
	)
	assert.Equal(t, []int{-1}, out)
	require.Error(t, got)
	assert.Contains(t, got.Error(), "fanout: panic: nil map")
}

func TestMapBounded_RespectsLimit(t *testing.T) {
	items := make([]int, 25)
	var inFlight, peak atomic.Int32

	MapBounded(context.Background(), items, 4,
		func(context.Context, int) (int, error) {
			n := inFlight.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			inFlight.Add(-1)
			return 1, nil
		},
		func(int, error) int { return 0 },
	)

	assert.LessOrEqual(t, peak.Load(), int32(4))
	assert.GreaterOrEqual(t, peak.Load(), int32(1))
}

func TestMapBounded_EmptyAndZeroLimit(t *testing.T) {
	out := MapBounded(context.Background(), []int{}, 5,
		func(context.Context, int) (int, error) { return 1, nil },
		func(int, error) int { return 0 },
	)
	assert.Empty(t, out)

	out = MapBounded(context.Background(), []int{1, 2, 3}, 0,
		func(_ context.Context, n int) (int, error) { return n * 10, nil },
		func(int, error) int { return 0 },
	)
	assert.Equal(t, []int{10, 20, 30}, out)
}
