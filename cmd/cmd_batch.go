package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/growup/internal/adapters/survey"
	service "github.com/okian/growup/internal/app"
	"github.com/okian/growup/internal/domain/model"
	"github.com/okian/growup/pkg/logger"
)

type batchFlags struct {
	input  string
	sheet  string
	output string
}

func newBatchCommand(c *cli) *cobra.Command {
	f := &batchFlags{}
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Score every row of a CSV or XLSX survey",
		Long: `Score a survey file. The header must name the columns
indicator, measurement, age_months and sex; id, height and american are
optional. Rows without an id get a generated one.

Results are written as CSV with one line per input row. Rows that cannot be
scored are kept with an error kind instead of a z-score.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.batch(cmd, f)
		},
	}

	cmd.Flags().StringVarP(&f.input, "input", "f", "", "Survey file (.csv or .xlsx)")
	cmd.Flags().StringVar(&f.sheet, "sheet", "", "Worksheet of an XLSX survey (default: first)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "-", "Result CSV path, - for stdout")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func (c *cli) batch(cmd *cobra.Command, f *batchFlags) error {
	ctx := cmd.Context()
	records, err := survey.Read(f.input, survey.WithSheet(f.sheet))
	if err != nil {
		return fmt.Errorf("reading %s: %w", f.input, err)
	}
	calc, err := c.calculator(ctx)
	if err != nil {
		return err
	}

	svc := service.New(calc,
		service.WithWorkerCount(c.cfg.WorkerCount),
		service.WithQueueSize(c.cfg.QueueSize),
		service.WithDedupeSize(c.cfg.DedupeSize),
		service.WithLogger(c.log),
	)
	outcomes, err := svc.ScoreBatch(ctx, records)
	if err != nil {
		return err
	}

	if f.output == "-" || f.output == "" {
		if err := survey.WriteOutcomes(cmd.OutOrStdout(), outcomes); err != nil {
			return fmt.Errorf("writing results: %w", err)
		}
	} else {
		file, err := os.Create(f.output)
		if err != nil {
			return fmt.Errorf("creating %s: %w", f.output, err)
		}
		if err := writeAndClose(file, outcomes); err != nil {
			return fmt.Errorf("writing %s: %w", f.output, err)
		}
	}

	for _, s := range service.Summarize(outcomes) {
		c.log.Info(ctx, "indicator summary",
			logger.String("indicator", s.Indicator.String()),
			logger.Int("records", s.Records),
			logger.Int("scored", s.Scored),
			logger.Int("rejected", s.Rejected),
			logger.Float64("mean", s.Mean),
			logger.Float64("sd", s.StdDev),
			logger.Float64("median", s.Median),
			logger.Float64("below_minus_2", s.BelowMinus2),
			logger.Float64("below_minus_3", s.BelowMinus3),
			logger.Float64("above_plus_2", s.AbovePlus2),
		)
	}
	return nil
}

// writeAndClose writes outcomes to wc and closes it, returning the close error.
func writeAndClose(wc io.WriteCloser, outcomes []model.Outcome) error {
	if err := survey.WriteOutcomes(wc, outcomes); err != nil {
		_ = wc.Close()
		return err
	}
	return wc.Close()
}
