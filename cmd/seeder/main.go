package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/flightseed/config"
	"github.com/Domenick1991/flightseed/internal/bootstrap"
	"github.com/Domenick1991/flightseed/internal/logger"
	"github.com/Domenick1991/flightseed/internal/service/seeding"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type app struct {
	configPath string
	cfg        *config.Config
	logger     *zap.SugaredLogger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	defaultConfig := os.Getenv("CONFIG_PATH")
	if defaultConfig == "" {
		defaultConfig = "config.yaml"
	}

	rootCmd := &cobra.Command{
		Use:          "seeder",
		Short:        "Seed the tickets, flights and privileges databases with fixture rows",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(a.configPath)
			if err != nil {
				return err
			}
			l, err := logger.New(cfg.Log)
			if err != nil {
				return err
			}
			a.cfg, a.logger = cfg, l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", defaultConfig, "Path to the YAML config file")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "run",
			Short: "Insert the fixture rows, stopping at the first failure",
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withService(cmd, func(ctx context.Context, svc *seeding.SeedingService) error {
					report, err := svc.Run(ctx)
					if err != nil {
						return err
					}
					return printJSON(cmd, report)
				})
			},
		},
		&cobra.Command{
			Use:   "verify",
			Short: "Check that the fixture rows are present",
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withService(cmd, func(ctx context.Context, svc *seeding.SeedingService) error {
					report, err := svc.Verify(ctx)
					if err != nil {
						return err
					}
					if err := printJSON(cmd, report); err != nil {
						return err
					}
					if !report.OK {
						return fmt.Errorf("%d fixture problems found", len(report.Problems))
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "plan",
			Short: "Print the ordered statements a run would execute",
			RunE: func(cmd *cobra.Command, args []string) error {
				fixtures, err := seeding.LoadFixtures(a.cfg.Seed.FixturesPath)
				if err != nil {
					return err
				}
				plan, err := seeding.BuildPlan(fixtures)
				if err != nil {
					return err
				}
				return printJSON(cmd, plan.Describe())
			},
		},
	)
	return rootCmd
}

func (a *app) withService(cmd *cobra.Command, fn func(context.Context, *seeding.SeedingService) error) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, cleanup, err := bootstrap.NewSeedingService(a.cfg, a.logger)
	if err != nil {
		return err
	}
	defer cleanup()

	return fn(ctx, svc)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
