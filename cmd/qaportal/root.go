package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/qaportal/internal/adapters/repository"
	service "github.com/okian/qaportal/internal/app"
	"github.com/okian/qaportal/internal/config"
	"github.com/okian/qaportal/pkg/logger"
)

var version = "dev"

// cli holds what every subcommand needs once flags are parsed.
type cli struct {
	cfg *config.Config
	log logger.Logger
	// now is overridden in tests.
	now func() time.Time
}

func newRootCommand() *cobra.Command {
	c := &cli{now: time.Now}

	cmd := &cobra.Command{
		Use:   "qaportal",
		Short: "QA Portal - agent performance dashboard",
		Long: `QA Portal shows a contact-centre agent's QA evaluations, merit and
demerit points, supervisor feedback and goals.

Running it without a subcommand starts the web dashboard.`,
		Version:      version,
		SilenceUsage: true,
	}

	configPath := cmd.PersistentFlags().String("config", "", "YAML config file (overrides QAPORTAL_CONFIG)")
	logLevel := cmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	cmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		if *configPath != "" {
			if err := os.Setenv("QAPORTAL_CONFIG", *configPath); err != nil {
				return err
			}
		}
		cfg, err := config.Load(cmd.Context())
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if *logLevel != "" {
			cfg.LogLevel = *logLevel
		}
		// Reports go to stdout, so logs always go to stderr.
		if err := logger.InitWith(cmd.ErrOrStderr(), cfg.LogFormat); err != nil {
			return fmt.Errorf("init logging: %w", err)
		}
		c.log = logger.Get()
		if err := logger.SetLevelString(cfg.LogLevel); err != nil {
			c.log.Warn(cmd.Context(), "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
			_ = logger.SetLevelString("info")
		}
		c.cfg = cfg
		return nil
	}

	serve := newServeCommand(c)
	cmd.RunE = serve.RunE
	cmd.Flags().AddFlagSet(serve.Flags())

	cmd.AddCommand(serve)
	cmd.AddCommand(newAgentsCommand(c))
	cmd.AddCommand(newSummaryCommand(c))
	return cmd
}

// startService loads the configured dataset and starts the service.
func (c *cli) startService(ctx context.Context) (*service.Service, error) {
	opts := []service.Option{
		service.WithLogger(c.log),
		service.WithClock(c.now),
		service.WithDefaultAgent(c.cfg.DefaultAgentID),
		service.WithUrgentDays(c.cfg.UrgentDays),
		service.WithSessionTTL(c.cfg.SessionTTL()),
	}
	if c.cfg.DatasetPath != "" {
		ds, err := repository.LoadFile(ctx, c.cfg.DatasetPath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, service.WithStore(repository.NewMemoryStore(ctx, ds, repository.WithLogger(c.log.Named("repository")))))
	}

	svc := service.New(opts...)
	if err := svc.Start(ctx); err != nil {
		return nil, fmt.Errorf("start service: %w", err)
	}
	return svc, nil
}
