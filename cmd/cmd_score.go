package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/growup/internal/domain/growth"
)

type scoreFlags struct {
	indicator   string
	measurement float64
	age         float64
	sex         string
	height      float64
	american    bool
	verbose     bool
}

func newScoreCommand(c *cli) *cobra.Command {
	f := &scoreFlags{}
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a single measurement",
		Long: `Score one measurement and print its z-score rounded to two decimals.

Indicators: wfl, wfh, wfa, lhfa, hcfa, bmifa. Weight-for-length and
weight-for-height need --height in centimetres.`,
		Example: "  growup score --indicator wfa --measurement 10.4 --age 22.45 --sex F",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.score(cmd, f)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.indicator, "indicator", "i", "", "Indicator: wfl, wfh, wfa, lhfa, hcfa, bmifa")
	fl.Float64VarP(&f.measurement, "measurement", "m", 0, "Measurement: kg, cm or kg/m²")
	fl.Float64VarP(&f.age, "age", "a", 0, "Age in months")
	fl.StringVarP(&f.sex, "sex", "s", "", "Sex: M or F")
	fl.Float64Var(&f.height, "height", 0, "Length/height in cm")
	fl.BoolVar(&f.american, "american", false, "Use the CDC reference for children 24 months and older")
	fl.BoolVarP(&f.verbose, "verbose", "v", false, "Also print the reference table and row")
	_ = cmd.MarkFlagRequired("indicator")
	_ = cmd.MarkFlagRequired("measurement")
	_ = cmd.MarkFlagRequired("age")
	_ = cmd.MarkFlagRequired("sex")
	return cmd
}

func (c *cli) score(cmd *cobra.Command, f *scoreFlags) error {
	ctx := cmd.Context()
	in, err := growth.ParseIndicator(f.indicator)
	if err != nil {
		return err
	}
	calc, err := c.calculator(ctx)
	if err != nil {
		return err
	}

	ref := growth.WHO
	if f.american {
		ref = growth.CDC
	}
	res, err := calc.Evaluate(ctx, growth.NewObservation(in, f.measurement, f.age, f.sex, f.height, ref))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !f.verbose {
		_, err = fmt.Fprintln(out, res.ZScore.StringFixed(2))
		return err
	}
	_, err = fmt.Fprintf(out, "zscore:     %s\ntable:      %s\nrow:        %s (%s)\nmeasured:   %s\ncorrected:  %t\n",
		res.ZScore.StringFixed(2), res.Table, res.RowKey, res.RowKind, res.Measurement, res.TailCorrected)
	return err
}
