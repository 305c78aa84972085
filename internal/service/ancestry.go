// Package service provides business logic between API handlers and the knowledge graph.
package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/persistorai/typegraph/internal/ancestry"
	"github.com/persistorai/typegraph/internal/kg"
	"github.com/persistorai/typegraph/internal/metrics"
	"github.com/persistorai/typegraph/internal/models"
)

// Graph is the knowledge-graph client the service depends on.
type Graph interface {
	ancestry.Lookup
	ResolveIdentifier(ctx context.Context, surface string) (models.Node, error)
}

// RunStore is the persistence interface for saved runs. It may be nil when storage is disabled.
type RunStore interface {
	SaveRun(ctx context.Context, seed string, allowDisambiguation bool, result *models.Result) (*models.Run, error)
	GetRun(ctx context.Context, id uuid.UUID) (*models.Run, error)
	ListRuns(ctx context.Context, limit, offset int) ([]models.Run, bool, error)
	DeleteRun(ctx context.Context, id uuid.UUID) error
}

// AncestryService resolves names and runs traversals with logging and optional persistence.
type AncestryService struct {
	graph   Graph
	engine  *ancestry.Engine
	runs    RunStore
	log     *logrus.Logger
	workers int

	// discoverTimeout bounds a shared traversal, which outlives any single caller's context.
	discoverTimeout time.Duration

	// group collapses identical traversals that are in flight at the same time.
	group singleflight.Group
}

const (
	// defaultWorkers bounds DiscoverBatch concurrency when no option sets it.
	defaultWorkers = 4

	defaultDiscoverTimeout = 5 * time.Minute
)

// Option configures an AncestryService.
type Option func(*AncestryService)

// WithWorkers sets how many traversals DiscoverBatch runs at once.
func WithWorkers(n int) Option {
	return func(s *AncestryService) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithDiscoverTimeout bounds how long a traversal shared between concurrent callers may run.
func WithDiscoverTimeout(d time.Duration) Option {
	return func(s *AncestryService) {
		if d > 0 {
			s.discoverTimeout = d
		}
	}
}

// NewAncestryService creates an AncestryService. runs may be nil.
func NewAncestryService(graph Graph, runs RunStore, log *logrus.Logger, opts ...Option) *AncestryService {
	s := &AncestryService{
		graph:   graph,
		engine:  ancestry.New(graph, log),
		runs:    runs,
		log:     log,
		workers: defaultWorkers,

		discoverTimeout: defaultDiscoverTimeout,
	}
	for _, o := range opts {
		o(s)
	}

	return s
}

// StorageEnabled reports whether runs can be saved and read.
func (s *AncestryService) StorageEnabled() bool {
	return s.runs != nil
}

// Resolve maps a surface name to a canonical identifier.
func (s *AncestryService) Resolve(ctx context.Context, name string) (models.Node, error) {
	if strings.TrimSpace(name) == "" {
		return "", models.ErrMissingName
	}

	id, err := s.graph.ResolveIdentifier(ctx, name)
	if err != nil {
		return "", err
	}

	s.log.WithFields(logrus.Fields{
		"name": name,
		"id":   id,
	}).Debug("ancestry.resolve")

	return id, nil
}

// Lookup runs a single lookup of the given kind for node.
func (s *AncestryService) Lookup(ctx context.Context, kind string, node models.Node) ([]models.Node, error) {
	if node == "" {
		return nil, models.ErrMissingNode
	}

	var (
		set models.NodeSet
		err error
	)

	switch kind {
	case kg.KindTypes:
		set, err = s.graph.LookupTypes(ctx, node)
	case kg.KindHypernyms:
		set, err = s.graph.LookupHypernyms(ctx, node)
	case kg.KindDisambiguations:
		set, err = s.graph.LookupDisambiguations(ctx, node)
	default:
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownLookup, kind)
	}

	if err != nil {
		return nil, err
	}

	return set.Sorted(), nil
}

// Discover resolves the request name (unless Raw), computes its ancestry, and saves the run when
// requested. Identical concurrent requests share one traversal; a caller whose context ends stops
// waiting without failing the others.
func (s *AncestryService) Discover(ctx context.Context, req models.DiscoverRequest) (*models.DiscoverResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if req.Save && s.runs == nil {
		return nil, models.ErrStoreDisabled
	}

	key := req.Name + "|" + strconv.FormatBool(req.Raw) + "|" + strconv.FormatBool(req.AllowDisambiguation)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// The shared traversal must not die with whichever caller started it, so it runs detached
	// under its own timeout and each caller stops waiting when its own context ends.
	ch := s.group.DoChan(key, func() (any, error) {
		sharedCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.discoverTimeout)
		defer cancel()

		return s.discover(sharedCtx, req, s.engine)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if res.Err != nil {
		return nil, res.Err
	}

	result, ok := res.Val.(*models.Result)
	if !ok {
		return nil, fmt.Errorf("service: unexpected singleflight result type %T", res.Val)
	}

	if res.Shared {
		s.log.WithField("name", req.Name).Debug("ancestry.discover shared in-flight traversal")
	}

	return s.respond(ctx, req, result)
}

// DiscoverStream is Discover with a callback for every edge as it is recorded. Streams are never
// shared between callers.
func (s *AncestryService) DiscoverStream(ctx context.Context, req models.DiscoverRequest, onEdge func(models.Edge)) (*models.DiscoverResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if req.Save && s.runs == nil {
		return nil, models.ErrStoreDisabled
	}

	result, err := s.discover(ctx, req, s.engine.With(ancestry.WithObserver(onEdge)))
	if err != nil {
		return nil, err
	}

	return s.respond(ctx, req, result)
}

// DiscoverBatch resolves every name (unless raw) and discovers their ancestries in parallel.
// Results are in input order. Batches are not saved.
func (s *AncestryService) DiscoverBatch(ctx context.Context, names []string, raw, allowDisambiguation bool) ([]*models.Result, error) {
	seeds := make([]models.Node, len(names))

	for i, name := range names {
		req := models.DiscoverRequest{Name: name}
		if err := req.Validate(); err != nil {
			return nil, fmt.Errorf("names[%d]: %w", i, err)
		}

		if raw {
			seeds[i] = name
			continue
		}

		id, err := s.Resolve(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("resolving %q: %w", name, err)
		}

		seeds[i] = id
	}

	results, err := s.engine.DiscoverMany(ctx, seeds, allowDisambiguation, s.workers)
	if err != nil {
		metrics.DiscoveriesTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	for _, r := range results {
		metrics.DiscoveriesTotal.WithLabelValues("ok").Inc()
		metrics.DiscoveredNodes.Observe(float64(len(r.Nodes)))
	}

	s.log.WithFields(logrus.Fields{
		"count":        len(names),
		"workers":      s.workers,
		"disambiguate": allowDisambiguation,
	}).Info("ancestry batch discovered")

	return results, nil
}

// GetRun returns a saved run with its result.
func (s *AncestryService) GetRun(ctx context.Context, id uuid.UUID) (*models.Run, error) {
	if s.runs == nil {
		return nil, models.ErrStoreDisabled
	}

	return s.runs.GetRun(ctx, id)
}

// ListRuns returns saved run summaries, newest first.
func (s *AncestryService) ListRuns(ctx context.Context, limit, offset int) ([]models.Run, bool, error) {
	if s.runs == nil {
		return nil, false, models.ErrStoreDisabled
	}

	return s.runs.ListRuns(ctx, limit, offset)
}

// DeleteRun removes a saved run.
func (s *AncestryService) DeleteRun(ctx context.Context, id uuid.UUID) error {
	if s.runs == nil {
		return models.ErrStoreDisabled
	}

	if err := s.runs.DeleteRun(ctx, id); err != nil {
		return err
	}

	s.log.WithField("run_id", id).Info("run deleted")

	return nil
}

func (s *AncestryService) discover(ctx context.Context, req models.DiscoverRequest, engine *ancestry.Engine) (*models.Result, error) {
	seed := req.Name
	if !req.Raw {
		id, err := s.Resolve(ctx, req.Name)
		if err != nil {
			metrics.DiscoveriesTotal.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("resolving %q: %w", req.Name, err)
		}

		seed = id
	}

	result, err := engine.Discover(ctx, seed, req.AllowDisambiguation)
	if err != nil {
		metrics.DiscoveriesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("discovering ancestry of %s: %w", seed, err)
	}

	metrics.DiscoveriesTotal.WithLabelValues("ok").Inc()
	metrics.DiscoveredNodes.Observe(float64(len(result.Nodes)))

	s.log.WithFields(logrus.Fields{
		"name":         req.Name,
		"seed":         seed,
		"disambiguate": req.AllowDisambiguation,
		"nodes":        len(result.Nodes),
		"edges":        len(result.Edges),
	}).Info("ancestry discovered")

	return result, nil
}

func (s *AncestryService) respond(ctx context.Context, req models.DiscoverRequest, result *models.Result) (*models.DiscoverResponse, error) {
	resp := &models.DiscoverResponse{Name: req.Name, Result: result}

	if !req.Save {
		return resp, nil
	}

	run, err := s.runs.SaveRun(ctx, req.Name, req.AllowDisambiguation, result)
	if err != nil {
		return nil, fmt.Errorf("saving run: %w", err)
	}

	resp.RunID = &run.ID

	return resp, nil
}
