package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/furnimatch/internal/app"
	"github.com/kailas-cloud/furnimatch/internal/domain/batch"
	"github.com/kailas-cloud/furnimatch/internal/domain/catalog"
	ingestuc "github.com/kailas-cloud/furnimatch/internal/usecase/ingest"
)

func newSeedCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed [file]",
		Short: "Merge catalog items into the index",
		Long: `Merge the items of a JSON array file into the catalog index.
Without a file the configured seed file (catalog.seed_file) is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var items []catalog.Item
			if len(args) == 1 {
				loaded, err := ingestuc.LoadSeed(args[0])
				if err != nil {
					return err
				}
				items = loaded
			}
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), flags, cfg, func(ctx context.Context, a *app.App, _ *zap.Logger) error {
				results, err := a.Ingest.Ingest(ctx, items)
				if err != nil {
					return fmt.Errorf("seed catalog: %w", err)
				}
				return printResults(cmd.OutOrStdout(), "seeded", results)
			})
		},
	}
	return cmd
}

// printResults writes a summary line and one line per failed document.
// A batch with failures exits non-zero.
func printResults(w io.Writer, verb string, results []batch.Result) error {
	ok := batch.Succeeded(results)
	_, _ = fmt.Fprintf(w, "%s %d/%d documents\n", verb, ok, len(results))
	failed := batch.Failed(results)
	for _, r := range failed {
		_, _ = fmt.Fprintf(w, "  %s: %v\n", r.ID(), r.Err())
	}
	if len(failed) > 0 {
		return fmt.Errorf("%d of %d documents failed", len(failed), len(results))
	}
	return nil
}
