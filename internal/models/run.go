package models

import (
	"time"

	"github.com/google/uuid"
)

// maxNameLen caps surface names accepted for resolution and discovery.
const maxNameLen = 512

// DiscoverRequest describes one traversal to run.
type DiscoverRequest struct {
	Name                string `json:"name"`
	Raw                 bool   `json:"raw"`
	AllowDisambiguation bool   `json:"allow_disambiguation"`
	Save                bool   `json:"save"`
}

// Validate checks that required fields are present and within limits.
func (r *DiscoverRequest) Validate() error {
	if r.Name == "" {
		return ErrMissingName
	}

	if len(r.Name) > maxNameLen {
		return ErrFieldTooLong("name", maxNameLen)
	}

	return nil
}

// Run is a persisted traversal.
type Run struct {
	ID                  uuid.UUID `json:"id"`
	Seed                string    `json:"seed"`
	Resolved            Node      `json:"resolved"`
	AllowDisambiguation bool      `json:"allow_disambiguation"`
	NodeCount           int       `json:"node_count"`
	EdgeCount           int       `json:"edge_count"`
	CreatedAt           time.Time `json:"created_at"`
	Result              *Result   `json:"result,omitempty"`
}

// DiscoverResponse is returned by a discovery, with RunID set when the run was saved.
type DiscoverResponse struct {
	Name   string     `json:"name"`
	RunID  *uuid.UUID `json:"run_id,omitempty"`
	Result *Result    `json:"result"`
}
