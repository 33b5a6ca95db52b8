package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/furnimatch/internal/app"
)

func newGenerateCmd(flags *globalFlags) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate synthetic catalog items with the chat model",
		Long: `Ask the configured chat model for new furniture items and merge them
into the index with vectorRetrieved=false, ready for the next backfill.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if count > 0 {
				cfg.Jobs.Generate.Count = count
			}
			return withApp(cmd.Context(), flags, cfg, func(ctx context.Context, a *app.App, _ *zap.Logger) error {
				results, err := a.Generate.Run(ctx)
				if err != nil {
					return fmt.Errorf("generate: %w", err)
				}
				return printResults(cmd.OutOrStdout(), "generated", results)
			})
		},
	}

	cmd.Flags().IntVar(&count, "count", 0, "Items to request (default jobs.generate.count)")

	return cmd
}
