// Package cmd provides the commands of the furnictl operator CLI.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/furnimatch/internal/app"
	"github.com/kailas-cloud/furnimatch/internal/config"
	logpkg "github.com/kailas-cloud/furnimatch/internal/logger"
	"github.com/kailas-cloud/furnimatch/internal/version"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	env        string
	configPath string
	logLevel   string
}

// Execute runs the root command with a context cancelled on SIGINT/SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd creates the root command for furnictl.
func NewRootCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "furnictl",
		Short: "Operate the furnimatch catalog index",
		Long: `furnictl provisions the furniture catalog index, loads catalog data,
backfills product embeddings and generates synthetic catalog items.

Configuration is read from config/{env}.yaml, or from --config.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.SetVersionTemplate("furnictl version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&flags.env, "env", config.GetEnv(), "Environment name selecting config/{env}.yaml")
	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "Path to a config file (overrides --env)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level override: debug, info, warn, error")

	cmd.AddCommand(newProvisionCmd(flags))
	cmd.AddCommand(newSeedCmd(flags))
	cmd.AddCommand(newBackfillCmd(flags))
	cmd.AddCommand(newGenerateCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// loadConfig resolves the configuration selected by the global flags.
func loadConfig(flags *globalFlags) (config.Config, error) {
	if flags.configPath != "" {
		if err := os.Setenv("CONFIG_PATH", flags.configPath); err != nil {
			return config.Config{}, fmt.Errorf("set CONFIG_PATH: %w", err)
		}
	}
	cfg, err := config.Load(flags.env)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if flags.logLevel != "" {
		cfg.Logging.Level = flags.logLevel
	}
	return cfg, nil
}

// withApp builds the services for cfg, runs fn and tears everything down.
func withApp(
	ctx context.Context, flags *globalFlags, cfg config.Config,
	fn func(ctx context.Context, a *app.App, logger *zap.Logger) error,
) error {
	logger, err := logpkg.New(flags.env, cfg.Logging.Level, "furnictl")
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(logpkg.WithContext(ctx, logger), a, logger)
}
