package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/furnimatch/internal/app"
)

func newProvisionCmd(flags *globalFlags) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Recreate the catalog index",
		Long: `Publish the colour synonym map, drop the catalog index together with
its documents, and create it again from the built-in definition.

Every catalog document is deleted. Pass --yes to confirm.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return fmt.Errorf("provisioning deletes every catalog document; rerun with --yes")
			}
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), flags, cfg, func(ctx context.Context, a *app.App, logger *zap.Logger) error {
				if err := a.Provision.Provision(ctx); err != nil {
					return fmt.Errorf("provision index: %w", err)
				}
				logger.Info("Index provisioned", zap.String("index", a.Index.Name))
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "index %s provisioned\n", a.Index.Name)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deletion of the existing index and documents")

	return cmd
}
