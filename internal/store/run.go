package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/persistorai/typegraph/internal/models"
)

// RunStore saves and reads ancestry runs.
type RunStore struct {
	*Base
}

// NewRunStore creates a RunStore.
func NewRunStore(base *Base) *RunStore {
	return &RunStore{Base: base}
}

// SaveRun stores a traversal result and returns the created run (without its result body).
func (s *RunStore) SaveRun(ctx context.Context, seed string, allowDisambiguation bool, result *models.Result) (*models.Run, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	run := &models.Run{
		ID:                  uuid.New(),
		Seed:                seed,
		Resolved:            result.Seed,
		AllowDisambiguation: allowDisambiguation,
		NodeCount:           len(result.Nodes),
		EdgeCount:           len(result.Edges),
		CreatedAt:           time.Now().UTC(),
	}

	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	_, err = tx.Exec(ctx, `INSERT INTO ancestry_runs (`+runColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		run.ID, run.Seed, run.Resolved, run.AllowDisambiguation, run.NodeCount, run.EdgeCount, run.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting run: %w", err)
	}

	nodeRows := make([][]any, 0, len(result.Nodes))
	for _, n := range result.Nodes {
		nodeRows = append(nodeRows, []any{run.ID, n})
	}

	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"ancestry_nodes"}, []string{"run_id", "node"}, pgx.CopyFromRows(nodeRows)); err != nil {
		return nil, fmt.Errorf("copying run nodes: %w", err)
	}

	edgeRows := make([][]any, 0, len(result.Edges))
	for _, e := range result.Edges {
		edgeRows = append(edgeRows, []any{run.ID, e.Source, e.Target, string(e.Relation)})
	}

	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"ancestry_edges"}, []string{"run_id", "source", "target", "relation"}, pgx.CopyFromRows(edgeRows)); err != nil {
		return nil, fmt.Errorf("copying run edges: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing run: %w", err)
	}

	return run, nil
}

// GetRun returns a run with its full result.
func (s *RunStore) GetRun(ctx context.Context, id uuid.UUID) (*models.Run, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.Pool.BeginReadOnly(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning read transaction: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // read-only transaction.

	run, err := scanRun(tx.QueryRow(ctx, `SELECT `+runColumns+` FROM ancestry_runs WHERE id = $1`, id).Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrRunNotFound
		}

		return nil, fmt.Errorf("getting run: %w", err)
	}

	nodeRows, err := tx.Query(ctx, `SELECT node FROM ancestry_nodes WHERE run_id = $1 ORDER BY node`, id)
	if err != nil {
		return nil, fmt.Errorf("querying run nodes: %w", err)
	}

	nodes, err := pgx.CollectRows(nodeRows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("collecting run nodes: %w", err)
	}

	edgeRows, err := tx.Query(ctx, `SELECT source, target, relation FROM ancestry_edges
		WHERE run_id = $1 ORDER BY source, target, relation`, id)
	if err != nil {
		return nil, fmt.Errorf("querying run edges: %w", err)
	}
	defer edgeRows.Close()

	edges := make([]models.Edge, 0, run.EdgeCount)

	for edgeRows.Next() {
		var e models.Edge
		var rel string

		if err := edgeRows.Scan(&e.Source, &e.Target, &rel); err != nil {
			return nil, fmt.Errorf("scanning run edge: %w", err)
		}

		if e.Relation, err = models.ParseRelation(rel); err != nil {
			return nil, fmt.Errorf("scanning run edge: %w", err)
		}

		edges = append(edges, e)
	}

	if err := edgeRows.Err(); err != nil {
		return nil, fmt.Errorf("iterating run edges: %w", err)
	}

	models.SortEdges(edges)

	run.Result = &models.Result{Seed: run.Resolved, Nodes: nodes, Edges: edges}

	return run, nil
}

// ListRuns returns run summaries, newest first, and whether more exist past this page.
func (s *RunStore) ListRuns(ctx context.Context, limit, offset int) ([]models.Run, bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	limit = clampLimit(limit)
	if offset < 0 {
		offset = 0
	}

	rows, err := s.Pool.Query(ctx, `SELECT `+runColumns+` FROM ancestry_runs
		ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`, limit+1, offset)
	if err != nil {
		return nil, false, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	runs := make([]models.Run, 0, limit)

	for rows.Next() {
		r, err := scanRun(rows.Scan)
		if err != nil {
			return nil, false, fmt.Errorf("scanning run: %w", err)
		}

		runs = append(runs, *r)
	}

	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterating runs: %w", err)
	}

	hasMore := len(runs) > limit
	if hasMore {
		runs = runs[:limit]
	}

	return runs, hasMore, nil
}

// DeleteRun removes a run and its nodes and edges.
func (s *RunStore) DeleteRun(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := s.Pool.Exec(ctx, `DELETE FROM ancestry_runs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return models.ErrRunNotFound
	}

	return nil
}
