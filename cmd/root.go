package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/growup/internal/adapters/repository"
	"github.com/okian/growup/internal/config"
	"github.com/okian/growup/internal/domain/growth"
	"github.com/okian/growup/pkg/logger"
	"github.com/okian/growup/pkg/metrics"
)

var version = "dev"

// cli holds what every subcommand needs once the root pre-run has loaded the
// configuration.
type cli struct {
	cfg *config.Config
	log logger.Logger
}

func newRootCommand() *cobra.Command {
	c := &cli{}
	cmd := &cobra.Command{
		Use:   "growup",
		Short: "Anthropometric z-scores from the WHO and CDC growth references",
		Long: `growup scores weight, length/height, head circumference and BMI
measurements of children against the WHO Child Growth Standards and, for
children past two years, optionally the CDC growth reference.

Configuration comes from defaults, a YAML file named by GROWUP_CONFIG and
GROWUP_* environment variables. Flags override all of them.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.String("tables-dir", "", "Directory holding the *_zscores.json reference tables")
	flags.String("log-level", "", "Log level: debug, info, warn, error")
	flags.String("log-format", "", "Log format: text or json")
	flags.Bool("cdc", false, "Also load the CDC 2-20 year tables")
	flags.Bool("adjust-height-data", false, "Apply the +0.7 cm recumbent length correction to weight-for-height")
	flags.Bool("adjust-weight-scores", false, "Restrict weight-based z-scores beyond ±3 SD")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		return c.setup(cmd)
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, _ []string) error {
		if c.cfg == nil || c.cfg.MetricsFile == "" {
			return nil
		}
		if err := metrics.WriteTextfile(c.cfg.MetricsFile); err != nil {
			return err
		}
		c.log.Debug(cmd.Context(), "metrics written", logger.String("path", c.cfg.MetricsFile))
		return nil
	}

	cmd.AddCommand(newScoreCommand(c))
	cmd.AddCommand(newBatchCommand(c))
	cmd.AddCommand(newTablesCommand(c))
	return cmd
}

// setup loads configuration, applies flag overrides and initialises logging.
func (c *cli) setup(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("tables-dir") {
		cfg.TablesDir, _ = flags.GetString("tables-dir")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-format") {
		cfg.LogFormat, _ = flags.GetString("log-format")
	}
	if flags.Changed("cdc") {
		cfg.IncludeCDC, _ = flags.GetBool("cdc")
	}
	if flags.Changed("adjust-height-data") {
		cfg.AdjustHeightData, _ = flags.GetBool("adjust-height-data")
	}
	if flags.Changed("adjust-weight-scores") {
		cfg.AdjustWeightScores, _ = flags.GetBool("adjust-weight-scores")
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	logger.SetOutput(cmd.ErrOrStderr())
	if err := logger.SetFormat(cfg.LogFormat); err != nil {
		return err
	}
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		return err
	}

	c.cfg = cfg
	c.log = logger.Named("growup")
	return nil
}

func (c *cli) loadTables(ctx context.Context) (*repository.Tables, error) {
	return repository.Open(ctx, c.cfg.TablesDir,
		repository.WithCDC(c.cfg.IncludeCDC),
		repository.WithConcurrency(c.cfg.LoadConcurrency),
		repository.WithLogger(c.log.Named("tables")),
	)
}

func (c *cli) calculator(ctx context.Context) (*growth.Calculator, error) {
	tables, err := c.loadTables(ctx)
	if err != nil {
		return nil, err
	}
	return growth.NewCalculator(tables,
		growth.WithAdjustHeightData(c.cfg.AdjustHeightData),
		growth.WithAdjustWeightScores(c.cfg.AdjustWeightScores),
		growth.WithLogger(c.log.Named("calculator")),
	)
}
