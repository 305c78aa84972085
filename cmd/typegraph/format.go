package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/persistorai/typegraph/client"
)

func formatJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error: encode json: %v\n", err)
		os.Exit(1)
	}
}

func formatTable(headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	printRow := func(cells []string) {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			w := 0
			if i < len(widths) {
				w = widths[i]
			}
			parts[i] = fmt.Sprintf("%-*s", w, cell)
		}
		fmt.Println(strings.TrimRight(strings.Join(parts, "  "), " "))
	}

	printRow(headers)
	seps := make([]string, len(headers))
	for i, w := range widths {
		seps[i] = strings.Repeat("-", w)
	}
	printRow(seps)
	for _, row := range rows {
		printRow(row)
	}
}

func formatQuiet(lines []string) {
	for _, l := range lines {
		fmt.Println(l)
	}
}

// table is the --format table rendering of a value.
type table struct {
	headers []string
	rows    [][]string
}

// output prints v in the selected format. quiet holds the --format quiet lines; tbl may be nil,
// in which case table output falls back to JSON.
func output(v any, tbl *table, quiet ...string) {
	switch flagFmt {
	case "quiet":
		formatQuiet(quiet)
	case "table":
		if tbl == nil {
			formatJSON(v)
			return
		}
		formatTable(tbl.headers, tbl.rows)
	default:
		formatJSON(v)
	}
}

// edgeTable renders a result as one row per edge.
func edgeTable(results ...*client.Result) *table {
	t := &table{headers: []string{"SEED", "SOURCE", "RELATION", "TARGET"}}
	for _, r := range results {
		for _, e := range r.Edges {
			t.rows = append(t.rows, []string{r.Seed, e.Source, e.Relation, e.Target})
		}
	}
	return t
}
