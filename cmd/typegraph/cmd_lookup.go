package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/persistorai/typegraph/client"
)

var lookupKinds = []string{client.LookupTypes, client.LookupHypernyms, client.LookupDisambiguations}

func newLookupCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "lookup <types|hypernyms|disambiguations> <node>",
		Short:     "Show the direct types, hypernyms, or disambiguations of a node",
		Args:      cobra.MatchAll(cobra.ExactArgs(2), validLookupKind),
		ValidArgs: lookupKinds,
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			kind, node := args[0], args[1]

			var resp *client.LookupResponse
			if apiClient != nil {
				var err error
				resp, err = apiClient.Ancestry.Lookup(ctx, kind, node)
				if err != nil {
					fatal("lookup "+kind, err)
				}
			} else {
				results, err := newLocalService(1).Lookup(ctx, kind, node)
				if err != nil {
					fatal("lookup "+kind, err)
				}
				resp = &client.LookupResponse{Node: node, Kind: kind, Results: results}
			}

			tbl := &table{headers: []string{"NODE", "KIND", "RESULT"}}
			for _, r := range resp.Results {
				tbl.rows = append(tbl.rows, []string{resp.Node, resp.Kind, r})
			}
			output(resp, tbl, resp.Results...)
		},
	}
}

func validLookupKind(_ *cobra.Command, args []string) error {
	for _, k := range lookupKinds {
		if args[0] == k {
			return nil
		}
	}
	return fmt.Errorf("unknown lookup kind %q (want types, hypernyms, or disambiguations)", args[0])
}
