package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/furnimatch/internal/app"
)

func newBackfillCmd(flags *globalFlags) *cobra.Command {
	var every time.Duration

	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "Embed catalog items that have no vector yet",
		Long: `Embed up to jobs.backfill.batch_size items whose vectorRetrieved flag
is not true and merge the vectors back into the index.

With --every the run repeats on that interval until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), flags, cfg, func(ctx context.Context, a *app.App, logger *zap.Logger) error {
				if every > 0 {
					logger.Info("Starting recurring backfill", zap.Duration("every", every))
					return a.Backfill.RunEvery(ctx, every)
				}
				rep, err := a.Backfill.Run(ctx)
				if err != nil {
					return fmt.Errorf("backfill: %w", err)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "pending %d, embedded %d, failed %d, merged %d\n",
					rep.Pending, rep.Embedded, rep.Failed, rep.Merged)
				return nil
			})
		},
	}

	cmd.Flags().DurationVar(&every, "every", 0, "Repeat the backfill on this interval (e.g. 5m)")

	return cmd
}
