package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/c360studio/csvw-ontomap/profiler"
)

type profileFlags struct {
	ontologies    []string
	vectordb      string
	bestMatches   int
	threshold     float64
	output        string
	forceRecreate bool
}

func profileCmd(global *globalFlags) *cobra.Command {
	flags := &profileFlags{}

	cmd := &cobra.Command{
		Use:   "profile [files...]",
		Short: "Generate CSVW metadata for tabular files",
		Long: `Profile tabular files and print a CSVW metadata document.

Arguments are file paths or glob patterns ("data/*.csv", "data/**/*.xlsx").
With --ontology, columns are mapped to the closest ontology concept.`,
		Example: `  csvw-ontomap profile data/heart.csv
  csvw-ontomap profile -m https://example.org/heart.owl --best-matches 3 --threshold 0.8 data/*.csv -o heart.json`,
		Args: cobra.MinimumNArgs(1),
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
			applyProfileFlags(cmd, app, flags)
			return runProfile(cmd, app, flags, args)
		},
	}

	f := cmd.Flags()
	f.StringArrayVarP(&flags.ontologies, "ontology", "m", nil, "Ontology URL or path to map columns to (repeatable)")
	f.StringVarP(&flags.vectordb, "vectordb", "d", "", "Vector index directory (default \"data/vectordb\")")
	f.IntVar(&flags.bestMatches, "best-matches", 0, "Number of best matches listed in each column comment")
	f.Float64Var(&flags.threshold, "threshold", 0, "Minimum similarity for a match to become the propertyUrl")
	f.StringVarP(&flags.output, "output", "o", "", "Output file (default stdout)")
	f.BoolVar(&flags.forceRecreate, "force-recreate", false, "Rebuild the vector index collection")

	return cmd
}

// applyProfileFlags overrides configuration with the flags given on the
// command line.
func applyProfileFlags(cmd *cobra.Command, app *App, flags *profileFlags) {
	if cmd.Flags().Changed("vectordb") {
		app.cfg.VectorDB.Path = flags.vectordb
	}
	if cmd.Flags().Changed("best-matches") {
		app.cfg.Ontomap.CommentBestMatches = flags.bestMatches
	}
	if cmd.Flags().Changed("threshold") {
		app.cfg.Ontomap.SearchThreshold = flags.threshold
	}
}

func runProfile(cmd *cobra.Command, app *App, flags *profileFlags, patterns []string) error {
	ctx := cmd.Context()
	if err := app.cfg.Ontomap.Validate(); err != nil {
		return err
	}

	opts := []profiler.Option{
		profiler.WithLogger(app.logger),
		profiler.WithMetrics(app.metrics),
	}

	if len(flags.ontologies) > 0 {
		if err := app.OpenIndex(ctx); err != nil {
			return err
		}
		if _, err := app.Index(ctx, flags.ontologies, flags.forceRecreate); err != nil {
			return err
		}
		opts = append(opts, profiler.WithMatcher(app.Matcher()))
	}

	doc, err := profiler.New(opts...).ProfileFiles(ctx, patterns, app.cfg.Ontomap)
	if err != nil {
		return err
	}

	if err := writeJSON(cmd.OutOrStdout(), flags.output, doc); err != nil {
		return err
	}
	if flags.output != "" {
		app.logger.Info("Wrote CSVW metadata",
			slog.String("path", flags.output),
			slog.Int("tables", len(doc.Tables)))
	}
	return nil
}
