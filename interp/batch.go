package interp

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// InterpretAll runs each of sources through its own independent
// Interpreter concurrently; no state is shared between calls. It returns
// one Result per source, in the same order, and a non-nil error only if
// ctx is canceled before every call completes — a failing program still
// reports through its own Result, not through the returned error.
func InterpretAll(ctx context.Context, sources []string) ([]Result, error) {
	results := make([]Result, len(sources))
	g, ctx := errgroup.WithContext(ctx)
	for i, source := range sources {
		i, source := i, source
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = New().Interpret(source)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
