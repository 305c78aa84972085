package client

import (
	"context"
	"net/url"
	"strconv"
)

// RunService handles saved runs.
type RunService struct {
	c *Client
}

// Get returns a saved run with its result.
func (s *RunService) Get(ctx context.Context, id string) (*Run, error) {
	var run Run
	if err := s.c.get(ctx, "/api/v1/runs/"+url.PathEscape(id), nil, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

// List returns saved run summaries, newest first, and whether more pages exist.
func (s *RunService) List(ctx context.Context, opts *ListOptions) ([]Run, bool, error) {
	params := url.Values{}
	if opts != nil {
		if opts.Limit > 0 {
			params.Set("limit", strconv.Itoa(opts.Limit))
		}
		if opts.Offset > 0 {
			params.Set("offset", strconv.Itoa(opts.Offset))
		}
	}

	var resp struct {
		Runs    []Run `json:"runs"`
		HasMore bool  `json:"has_more"`
	}
	if err := s.c.get(ctx, "/api/v1/runs", params, &resp); err != nil {
		return nil, false, err
	}
	return resp.Runs, resp.HasMore, nil
}

// Delete removes a saved run.
func (s *RunService) Delete(ctx context.Context, id string) error {
	return s.c.del(ctx, "/api/v1/runs/"+url.PathEscape(id))
}
