package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/persistorai/typegraph/client"
	"github.com/persistorai/typegraph/internal/models"
)

type discoverFlags struct {
	raw          bool
	disambiguate bool
	save         bool
	stream       bool
	workers      int
}

func newDiscoverCmd() *cobra.Command {
	var f discoverFlags
	cmd := &cobra.Command{
		Use:   "discover <name>...",
		Short: "Discover the type ancestry of one or more names",
		Long: "Resolves each name to a knowledge-graph identifier and follows its types, superclasses " +
			"and hypernyms until nothing new is reached. Runs against --endpoint directly, or " +
			"through a typegraph server when --server is set.",
		Args: cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return f.validate(len(args))
		},
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			opts := &client.DiscoverOptions{Raw: f.raw, Disambiguate: f.disambiguate, Save: f.save}

			if len(args) == 1 {
				resp := discoverOne(ctx, args[0], opts, f)
				output(resp, edgeTable(resp.Result), resp.Result.Nodes...)
				return
			}

			results := discoverMany(ctx, args, opts, f.workers)
			var nodes []string
			for _, r := range results {
				nodes = append(nodes, r.Nodes...)
			}
			output(results, edgeTable(results...), nodes...)
		},
	}
	cmd.Flags().BoolVar(&f.raw, "raw", false, "Treat names as identifiers and skip resolution")
	cmd.Flags().BoolVar(&f.disambiguate, "disambiguate", false, "Follow disambiguation links from dead-end nodes")
	cmd.Flags().BoolVar(&f.save, "save", false, "Save the run on the server (requires --server)")
	cmd.Flags().BoolVar(&f.stream, "stream", false, "Print edges to stderr as they are discovered (single name only)")
	cmd.Flags().IntVar(&f.workers, "workers", 4, "Parallel traversals when several names are given")
	return cmd
}

func (f discoverFlags) validate(names int) error {
	if f.save && flagServer == "" {
		return errors.New("--save requires --server")
	}
	if f.save && names > 1 {
		return errors.New("--save supports a single name")
	}
	if f.stream && names > 1 {
		return errors.New("--stream supports a single name")
	}
	if f.workers < 1 || f.workers > 32 {
		return errors.New("--workers must be between 1 and 32")
	}
	return nil
}

func printEdge(e client.Edge) {
	fmt.Fprintf(os.Stderr, "%s -[%s]-> %s\n", e.Source, e.Relation, e.Target)
}

func discoverOne(ctx context.Context, name string, opts *client.DiscoverOptions, f discoverFlags) *client.DiscoverResponse {
	if apiClient != nil {
		var (
			resp *client.DiscoverResponse
			err  error
		)
		if f.stream {
			resp, err = apiClient.Ancestry.Stream(ctx, name, opts, printEdge)
		} else {
			resp, err = apiClient.Ancestry.Discover(ctx, name, opts)
		}
		if err != nil {
			fatal("discover "+name, err)
		}
		return resp
	}

	svc := newLocalService(1)
	req := models.DiscoverRequest{Name: name, Raw: opts.Raw, AllowDisambiguation: opts.Disambiguate}

	var (
		resp *models.DiscoverResponse
		err  error
	)
	if f.stream {
		resp, err = svc.DiscoverStream(ctx, req, func(e models.Edge) { printEdge(toClientEdge(e)) })
	} else {
		resp, err = svc.Discover(ctx, req)
	}
	if err != nil {
		fatal("discover "+name, err)
	}
	return toClientResponse(resp)
}

func discoverMany(ctx context.Context, names []string, opts *client.DiscoverOptions, workers int) []*client.Result {
	if apiClient != nil {
		results, err := apiClient.Ancestry.DiscoverBatch(ctx, names, opts)
		if err != nil {
			fatal("discover", err)
		}
		return results
	}

	results, err := newLocalService(workers).DiscoverBatch(ctx, names, opts.Raw, opts.Disambiguate)
	if err != nil {
		fatal("discover", err)
	}

	out := make([]*client.Result, len(results))
	for i, r := range results {
		out[i] = toClientResult(r)
	}
	return out
}
