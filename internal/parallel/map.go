// Package parallel provides a bounded parallel mapping helper over lazy
// sequences.
package parallel

import (
	"context"
	"iter"

	"golang.org/x/sync/errgroup"
)

type result[D any] struct {
	d   D
	err error
}

// Map applies fn to every element of seq with at most limit concurrent
// invocations and yields the results as they complete. Output order is not
// the input order. Errors from seq or fn are yielded alongside their zero
// result. Cancelling ctx, or the consumer stopping early, ends the
// processing.
func Map[E, D any](ctx context.Context, limit int, seq iter.Seq2[E, error], fn func(context.Context, E) (D, error)) iter.Seq2[D, error] {
	return func(yield func(D, error) bool) {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		g, gctx := errgroup.WithContext(ctx)
		// One extra slot for the feeding goroutine.
		g.SetLimit(limit + 1)

		out := make(chan result[D], limit)

		g.Go(func() error {
			for e, err := range seq {
				if err != nil {
					var zero D
					select {
					case out <- result[D]{d: zero, err: err}:
					case <-gctx.Done():
						return gctx.Err()
					}
					continue
				}
				g.Go(func() error {
					d, ferr := fn(gctx, e)
					select {
					case out <- result[D]{d: d, err: ferr}:
					case <-gctx.Done():
						return gctx.Err()
					}
					return nil
				})
			}
			return nil
		})

		go func() {
			_ = g.Wait()
			close(out)
		}()

		for r := range out {
			if !yield(r.d, r.err) {
				return
			}
		}
	}
}
