// Package fanout runs a function over a slice with a fixed number of workers.
package fanout

import (
	"context"
	"sync/atomic"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"
)

// Func computes the result for one item.
type Func[T, R any] func(ctx context.Context, item T) (R, error)

// Fallback produces the value stored for an item whose Func failed or panicked.
type Fallback[T, R any] func(item T, err error) R

// MapBounded applies fn to every item using min(limit, len(items)) workers that
// claim indexes from a shared cursor. out[i] always corresponds to items[i].
// A failing item gets fallback(item, err) and never affects its siblings. The
// call returns once every index holds a value.
func MapBounded[T, R any](ctx context.Context, items []T, limit int, fn Func[T, R], fallback Fallback[T, R]) []R {
	out := make([]R, len(items))
	if len(items) == 0 {
		return out
	}

	workers := max(limit, 1)
	if workers > len(items) {
		workers = len(items)
	}

	var cursor atomic.Int64
	// Workers never return an error, so the group context is never cancelled
	// on behalf of a single item.
	var g errgroup.Group
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for {
				i := int(cursor.Add(1)) - 1
				if i >= len(items) {
					return nil
				}
				out[i] = apply(ctx, items[i], fn, fallback)
			}
		})
	}
	_ = g.Wait()

	return out
}

func apply[T, R any](ctx context.Context, item T, fn Func[T, R], fallback Fallback[T, R]) (res R) {
	defer func() {
		if p := recover(); p != nil {
			res = fallback(item, eris.Errorf("fanout: panic: %v", p))
		}
	}()

	r, err := fn(ctx, item)
	if err != nil {
		return fallback(item, err)
	}
	return r
}
