package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/c360studio/csvw-ontomap/ontomap"
)

func searchCmd(global *globalFlags) *cobra.Command {
	var (
		vectordb string
		limit    int
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Find the ontology concepts closest to a text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			app, err := NewApp(global, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() {
				if cerr := app.Close(); cerr != nil && err == nil {
					err = cerr
				}
			}()
			if cmd.Flags().Changed("vectordb") {
				app.cfg.VectorDB.Path = vectordb
			}

			ctx := cmd.Context()
			if err := app.OpenIndex(ctx); err != nil {
				return err
			}

			query := strings.Join(args, " ")
			matches, err := app.Matcher().Match(ctx, query, limit)
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), "", matchesJSON(matches))
			}
			out := cmd.OutOrStdout()
			for _, m := range matches {
				fmt.Fprintf(out, "%s\t%s\t%s\t%s\n",
					ontomap.FormatScore(m.Score), m.Payload.Category, m.Payload.Label, m.Payload.ID)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&vectordb, "vectordb", "d", "", "Vector index directory (default \"data/vectordb\")")
	cmd.Flags().IntVarP(&limit, "limit", "n", ontomap.DefaultLimit, "Maximum number of matches")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print matches as JSON")

	return cmd
}

type matchJSON struct {
	Score     float64 `json:"score"`
	ID        string  `json:"id"`
	Label     string  `json:"label"`
	Category  string  `json:"category"`
	Ontology  string  `json:"ontology,omitempty"`
	Predicate string  `json:"predicate,omitempty"`
}

func matchesJSON(matches []ontomap.Match) []matchJSON {
	out := make([]matchJSON, len(matches))
	for i, m := range matches {
		out[i] = matchJSON{
			Score:     m.Score,
			ID:        m.Payload.ID,
			Label:     m.Payload.Label,
			Category:  m.Payload.Category,
			Ontology:  m.Payload.Ontology,
			Predicate: m.Payload.Predicate,
		}
	}
	return out
}
