package growth

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/okian/growup/pkg/logger"
)

// Tables resolves reference rows. Implementations must be immutable once
// handed to a Calculator so that concurrent Score calls need no locking.
type Tables interface {
	Lookup(table, rowKey string) (LMS, bool)
}

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithAdjustHeightData enables the +0.7 cm weight-for-height correction.
// Most reference software skips it, so it is off by default.
func WithAdjustHeightData(enabled bool) Option {
	return func(c *Calculator) {
		c.adjustHeightData = enabled
	}
}

// WithAdjustWeightScores enables the ±3 SD restriction for weight-based
// indicators. Leave it off when large z-scores should flag data entry errors.
func WithAdjustWeightScores(enabled bool) Option {
	return func(c *Calculator) {
		c.adjustWeightScores = enabled
	}
}

// WithLogger sets a logger for table selection traces.
func WithLogger(l logger.Logger) Option {
	return func(c *Calculator) {
		if l != nil {
			c.logger = l
		}
	}
}

// Result carries a z-score together with how it was derived.
type Result struct {
	ZScore        decimal.Decimal
	Table         string
	RowKey        string
	RowKind       RowKind
	Measurement   decimal.Decimal // after recumbent/standing adjustment
	LMS           LMS
	TailCorrected bool
}

// Calculator scores observations against a fixed set of reference tables.
// It holds no mutable state and is safe for concurrent use.
type Calculator struct {
	tables             Tables
	adjustHeightData   bool
	adjustWeightScores bool
	logger             logger.Logger
}

// NewCalculator creates a calculator over tables.
func NewCalculator(tables Tables, opts ...Option) (*Calculator, error) {
	if tables == nil {
		return nil, ErrNoTables
	}
	c := &Calculator{tables: tables}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Score returns the z-score of obs rounded to two places.
func (c *Calculator) Score(ctx context.Context, obs Observation) (decimal.Decimal, error) {
	res, err := c.Evaluate(ctx, obs)
	if err != nil {
		return decimal.Zero, err
	}
	return res.ZScore, nil
}

// Evaluate runs validate -> adjust -> select -> lookup -> score -> restrict.
func (c *Calculator) Evaluate(ctx context.Context, obs Observation) (Result, error) {
	if err := obs.Validate(); err != nil {
		return Result{}, err
	}

	y := AdjustMeasurement(obs.Indicator, obs.Measurement, c.adjustHeightData)

	sel, err := SelectTable(obs.Indicator, obs.AgeInMonths, obs.Sex, obs.Height.Decimal, obs.Reference)
	if err != nil {
		return Result{}, err
	}
	table, key := sel.Table(), sel.RowKey(obs.AgeInMonths, obs.Height.Decimal)

	lms, ok := c.tables.Lookup(table, key)
	if !ok {
		return Result{}, fmt.Errorf("%w: no LMS row %q in table %s", ErrDataError, key, table)
	}
	if c.logger != nil {
		c.logger.Debug(ctx, "reference row selected",
			logger.String("indicator", obs.Indicator.String()),
			logger.String("table", table),
			logger.String("row", key),
			logger.Stringer("row_kind", sel.RowKind),
		)
	}

	z, err := ZScore(y, lms)
	if err != nil {
		return Result{}, fmt.Errorf("%s[%s]: %w", table, key, err)
	}
	res := Result{
		ZScore:      Round(z),
		Table:       table,
		RowKey:      key,
		RowKind:     sel.RowKind,
		Measurement: y,
		LMS:         lms,
	}

	if !c.adjustWeightScores || !obs.Indicator.WeightBased() {
		return res, nil
	}
	res.ZScore, res.TailCorrected, err = RestrictTail(y, res.ZScore, lms)
	if err != nil {
		return Result{}, fmt.Errorf("%s[%s]: %w", table, key, err)
	}
	return res, nil
}

// ZScoreForMeasurement is a convenience wrapper taking plain values. indicator
// is a table prefix such as "wfa"; a height of zero means none was taken.
func (c *Calculator) ZScoreForMeasurement(ctx context.Context, indicator string, measurement, ageInMonths float64, sex string, height float64, american bool) (decimal.Decimal, error) {
	in, err := ParseIndicator(indicator)
	if err != nil {
		return decimal.Zero, err
	}
	ref := WHO
	if american {
		ref = CDC
	}
	return c.Score(ctx, NewObservation(in, measurement, ageInMonths, sex, height, ref))
}
