package ancestry

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/persistorai/typegraph/internal/models"
)

// DiscoverMany runs independent traversals for each seed with at most workers in flight.
// Results are returned in seed order. The first failure cancels the remaining traversals.
func (e *Engine) DiscoverMany(ctx context.Context, seeds []models.Node, allowDisambiguation bool, workers int) ([]*models.Result, error) {
	if workers < 1 {
		workers = 1
	}

	results := make([]*models.Result, len(seeds))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, seed := range seeds {
		g.Go(func() error {
			r, err := e.Discover(gctx, seed, allowDisambiguation)
			if err != nil {
				return err
			}

			results[i] = r

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
