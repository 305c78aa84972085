package main

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/persistorai/typegraph/client"
)

func newRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect runs saved on a typegraph server",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			resolveConfig()
			if flagServer == "" {
				return errors.New("runs requires --server")
			}
			apiClient = client.New(flagServer)
			return nil
		},
	}
	cmd.AddCommand(runsListCmd())
	cmd.AddCommand(runsGetCmd())
	cmd.AddCommand(runsDeleteCmd())
	return cmd
}

func runsListCmd() *cobra.Command {
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved runs, newest first",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			runs, hasMore, err := apiClient.Runs.List(context.Background(), &client.ListOptions{Limit: limit, Offset: offset})
			if err != nil {
				fatal("list runs", err)
			}

			tbl := &table{headers: []string{"ID", "SEED", "RESOLVED", "NODES", "EDGES", "CREATED"}}
			ids := make([]string, len(runs))
			for i, r := range runs {
				tbl.rows = append(tbl.rows, []string{
					r.ID, r.Seed, r.Resolved,
					strconv.Itoa(r.NodeCount), strconv.Itoa(r.EdgeCount),
					r.CreatedAt.Format(time.RFC3339),
				})
				ids[i] = r.ID
			}
			output(map[string]any{"runs": runs, "has_more": hasMore}, tbl, ids...)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum runs to return")
	cmd.Flags().IntVar(&offset, "offset", 0, "Runs to skip")
	return cmd
}

func runsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get a saved run with its result",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			run, err := apiClient.Runs.Get(context.Background(), args[0])
			if err != nil {
				fatal("get run", err)
			}

			var tbl *table
			var nodes []string
			if run.Result != nil {
				tbl = edgeTable(run.Result)
				nodes = run.Result.Nodes
			}
			output(run, tbl, nodes...)
		},
	}
}

func runsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved run",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := apiClient.Runs.Delete(context.Background(), args[0]); err != nil {
				fatal("delete run", err)
			}
			output(map[string]string{"deleted": args[0]}, nil, args[0])
		},
	}
}
