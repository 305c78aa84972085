package api_test

import (
	"context"

	"github.com/google/uuid"

	"github.com/persistorai/typegraph/internal/models"
)

// mockAncestry implements api.AncestryService for testing.
type mockAncestry struct {
	resolveFn  func(ctx context.Context, name string) (models.Node, error)
	lookupFn   func(ctx context.Context, kind string, node models.Node) ([]models.Node, error)
	discoverFn func(ctx context.Context, req models.DiscoverRequest) (*models.DiscoverResponse, error)
	batchFn    func(ctx context.Context, names []string, raw, allow bool) ([]*models.Result, error)
	streamFn   func(ctx context.Context, req models.DiscoverRequest, onEdge func(models.Edge)) (*models.DiscoverResponse, error)
}

func (m *mockAncestry) Resolve(ctx context.Context, name string) (models.Node, error) {
	return m.resolveFn(ctx, name)
}

func (m *mockAncestry) Lookup(ctx context.Context, kind string, node models.Node) ([]models.Node, error) {
	return m.lookupFn(ctx, kind, node)
}

func (m *mockAncestry) Discover(ctx context.Context, req models.DiscoverRequest) (*models.DiscoverResponse, error) {
	return m.discoverFn(ctx, req)
}

func (m *mockAncestry) DiscoverBatch(ctx context.Context, names []string, raw, allow bool) ([]*models.Result, error) {
	return m.batchFn(ctx, names, raw, allow)
}

func (m *mockAncestry) DiscoverStream(ctx context.Context, req models.DiscoverRequest, onEdge func(models.Edge)) (*models.DiscoverResponse, error) {
	return m.streamFn(ctx, req, onEdge)
}

// mockRuns implements api.RunService for testing.
type mockRuns struct {
	getFn    func(ctx context.Context, id uuid.UUID) (*models.Run, error)
	listFn   func(ctx context.Context, limit, offset int) ([]models.Run, bool, error)
	deleteFn func(ctx context.Context, id uuid.UUID) error
}

func (m *mockRuns) GetRun(ctx context.Context, id uuid.UUID) (*models.Run, error) {
	return m.getFn(ctx, id)
}

func (m *mockRuns) ListRuns(ctx context.Context, limit, offset int) ([]models.Run, bool, error) {
	return m.listFn(ctx, limit, offset)
}

func (m *mockRuns) DeleteRun(ctx context.Context, id uuid.UUID) error {
	return m.deleteFn(ctx, id)
}

// mockChecker implements api.HealthChecker for testing.
type mockChecker struct {
	err error
}

func (m *mockChecker) HealthCheck(context.Context) error {
	return m.err
}

const (
	mugNode = "http://dbpedia.org/resource/Mug"
	cupNode = "http://dbpedia.org/resource/Cup"
)

func mugResult() *models.Result {
	return &models.Result{
		Seed:  mugNode,
		Nodes: []models.Node{cupNode},
		Edges: []models.Edge{{Source: mugNode, Target: cupNode, Relation: models.RelationHypernymOf}},
	}
}
