package api

import (
	"context"

	"github.com/google/uuid"

	"github.com/persistorai/typegraph/internal/models"
)

// AncestryService defines resolution, lookup, and discovery operations used by AncestryHandler.
type AncestryService interface {
	Resolve(ctx context.Context, name string) (models.Node, error)
	Lookup(ctx context.Context, kind string, node models.Node) ([]models.Node, error)
	Discover(ctx context.Context, req models.DiscoverRequest) (*models.DiscoverResponse, error)
	DiscoverBatch(ctx context.Context, names []string, raw, allowDisambiguation bool) ([]*models.Result, error)
	DiscoverStream(ctx context.Context, req models.DiscoverRequest, onEdge func(models.Edge)) (*models.DiscoverResponse, error)
}

// RunService defines saved-run operations used by RunHandler.
type RunService interface {
	GetRun(ctx context.Context, id uuid.UUID) (*models.Run, error)
	ListRuns(ctx context.Context, limit, offset int) ([]models.Run, bool, error)
	DeleteRun(ctx context.Context, id uuid.UUID) error
}

// HealthChecker is anything the readiness check can ping: the SPARQL endpoint or the database pool.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
