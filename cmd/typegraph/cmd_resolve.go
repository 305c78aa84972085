package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/persistorai/typegraph/client"
)

func newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <name>...",
		Short: "Resolve names to knowledge-graph identifiers",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			resolved := make([]client.ResolveResponse, 0, len(args))

			for _, name := range args {
				id := resolveName(ctx, name)
				resolved = append(resolved, client.ResolveResponse{Name: name, ID: id})
			}

			tbl := &table{headers: []string{"NAME", "ID"}}
			ids := make([]string, len(resolved))
			for i, r := range resolved {
				tbl.rows = append(tbl.rows, []string{r.Name, r.ID})
				ids[i] = r.ID
			}

			if len(resolved) == 1 {
				output(resolved[0], tbl, ids...)
				return
			}
			output(resolved, tbl, ids...)
		},
	}
}

func resolveName(ctx context.Context, name string) string {
	if apiClient != nil {
		resp, err := apiClient.Ancestry.Resolve(ctx, name)
		if err != nil {
			fatal("resolve "+name, err)
		}
		return resp.ID
	}

	id, err := newLocalService(1).Resolve(ctx, name)
	if err != nil {
		fatal("resolve "+name, err)
	}
	return id
}
