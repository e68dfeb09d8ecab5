package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func indexCmd(global *globalFlags) *cobra.Command {
	var (
		ontologies    []string
		vectordb      string
		forceRecreate bool
	)

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Build the vector index for ontologies",
		Long: `Load ontologies and store the embeddings of their class and property
labels, descriptions and comments in the vector index.

Ontologies already indexed are skipped unless --force-recreate is given.`,
		Args: cobra.NoArgs,
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
			report, err := app.Index(ctx, ontologies, forceRecreate)
			if err != nil {
				return err
			}
			if failed := report.Failed(); len(failed) > 0 {
				return fmt.Errorf("%d of %d ontologies failed to index: %w",
					len(failed), len(report.Results), failed[0].Err)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&ontologies, "ontology", "m", nil, "Ontology URL or path to index (repeatable)")
	cmd.Flags().StringVarP(&vectordb, "vectordb", "d", "", "Vector index directory (default \"data/vectordb\")")
	cmd.Flags().BoolVar(&forceRecreate, "force-recreate", false, "Rebuild the vector index collection")
	_ = cmd.MarkFlagRequired("ontology")

	return cmd
}
