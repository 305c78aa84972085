package store

import (
	"github.com/persistorai/typegraph/internal/models"
)

// runColumns lists the columns selected for run queries.
const runColumns = `id, seed, resolved, allow_disambiguation, node_count, edge_count, created_at`

// scanRun scans a single row into a models.Run.
func scanRun(scan func(dest ...any) error) (*models.Run, error) {
	var r models.Run

	err := scan(
		&r.ID,
		&r.Seed,
		&r.Resolved,
		&r.AllowDisambiguation,
		&r.NodeCount,
		&r.EdgeCount,
		&r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &r, nil
}
