package service

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/persistorai/typegraph/internal/kg"
	"github.com/persistorai/typegraph/internal/models"
)

const (
	ontology = "http://dbpedia.org/ontology/"
	resource = "http://dbpedia.org/resource/"
)

// mockGraph serves a fixed adjacency and counts lookups.
type mockGraph struct {
	types    map[models.Node][]models.Node
	hyper    map[models.Node][]models.Node
	disamb   map[models.Node][]models.Node
	resolved map[string]models.Node

	resolveErr error
	lookupErr  error

	// gate, when set, blocks every type lookup until it is closed.
	gate chan struct{}

	typeCalls    atomic.Int64
	resolveCalls atomic.Int64
}

func (m *mockGraph) IsClass(node models.Node) bool {
	return strings.HasPrefix(node, ontology)
}

func (m *mockGraph) LookupTypes(ctx context.Context, node models.Node) (models.NodeSet, error) {
	m.typeCalls.Add(1)

	if m.gate != nil {
		select {
		case <-m.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if m.lookupErr != nil {
		return nil, m.lookupErr
	}

	return models.NewNodeSet(m.types[node]...), nil
}

func (m *mockGraph) LookupHypernyms(_ context.Context, node models.Node) (models.NodeSet, error) {
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}

	return models.NewNodeSet(m.hyper[node]...), nil
}

func (m *mockGraph) LookupDisambiguations(_ context.Context, node models.Node) (models.NodeSet, error) {
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}

	return models.NewNodeSet(m.disamb[node]...), nil
}

func (m *mockGraph) ResolveIdentifier(_ context.Context, surface string) (models.Node, error) {
	m.resolveCalls.Add(1)

	if m.resolveErr != nil {
		return "", m.resolveErr
	}

	if id, ok := m.resolved[surface]; ok {
		return id, nil
	}

	return resource + strings.ReplaceAll(kg.Capitalize(surface), " ", "_"), nil
}

// mockRunStore records calls and returns configured responses.
type mockRunStore struct {
	mu    sync.Mutex
	calls []string
	saved []*models.Result

	saveErr error
	runs    map[uuid.UUID]*models.Run
}

func (m *mockRunStore) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

func (m *mockRunStore) SaveRun(_ context.Context, seed string, allow bool, result *models.Result) (*models.Run, error) {
	m.record("SaveRun")

	if m.saveErr != nil {
		return nil, m.saveErr
	}

	m.mu.Lock()
	m.saved = append(m.saved, result)
	m.mu.Unlock()

	return &models.Run{
		ID:                  uuid.New(),
		Seed:                seed,
		Resolved:            result.Seed,
		AllowDisambiguation: allow,
		NodeCount:           len(result.Nodes),
		EdgeCount:           len(result.Edges),
	}, nil
}

func (m *mockRunStore) GetRun(_ context.Context, id uuid.UUID) (*models.Run, error) {
	m.record("GetRun")

	run, ok := m.runs[id]
	if !ok {
		return nil, models.ErrRunNotFound
	}

	return run, nil
}

func (m *mockRunStore) DeleteRun(_ context.Context, id uuid.UUID) error {
	m.record("DeleteRun")

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.runs[id]; !ok {
		return models.ErrRunNotFound
	}

	delete(m.runs, id)

	return nil
}

func (m *mockRunStore) ListRuns(_ context.Context, limit, _ int) ([]models.Run, bool, error) {
	m.record("ListRuns")

	out := make([]models.Run, 0, len(m.runs))
	for _, r := range m.runs {
		out = append(out, *r)
	}

	if len(out) > limit {
		return out[:limit], true, nil
	}

	return out, false, nil
}
