package growth

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Measurement bounds for length/height-based indicators, in centimetres.
var (
	minHeight = decimal.NewFromInt(45)
	maxHeight = decimal.NewFromInt(120)
)

// Observation is a single measurement to be scored. It is built per call and
// never shared.
type Observation struct {
	Indicator   Indicator
	Measurement decimal.Decimal
	AgeInMonths decimal.Decimal
	// Sex is "M" or "F" in any case.
	Sex string
	// Height is required for weight-for-length and weight-for-height.
	Height    decimal.NullDecimal
	Reference ReferenceSystem
}

// NewObservation builds an Observation from plain values. A height of zero or
// less is treated as absent.
func NewObservation(in Indicator, measurement, ageInMonths float64, sex string, height float64, ref ReferenceSystem) Observation {
	obs := Observation{
		Indicator:   in,
		Measurement: decimal.NewFromFloat(measurement),
		AgeInMonths: decimal.NewFromFloat(ageInMonths),
		Sex:         sex,
		Reference:   ref,
	}
	if height > 0 {
		obs.Height = decimal.NewNullDecimal(decimal.NewFromFloat(height))
	}
	return obs
}

// Validate rejects observations that can never be scored.
func (o Observation) Validate() error {
	if !o.Indicator.Valid() {
		return fmt.Errorf("%w: unknown indicator %q", ErrInvalidInput, o.Indicator)
	}
	if _, err := ParseSex(o.Sex); err != nil {
		return err
	}
	if !o.AgeInMonths.IsPositive() {
		return fmt.Errorf("%w: age must be greater than zero, got %s", ErrInvalidInput, o.AgeInMonths)
	}
	if !o.Measurement.IsPositive() {
		return fmt.Errorf("%w: measurement must be greater than zero, got %s", ErrInvalidInput, o.Measurement)
	}
	if o.Indicator.HeightBased() {
		if !o.Height.Valid {
			return fmt.Errorf("%w: no length or height for %s", ErrInvalidInput, o.Indicator)
		}
		if o.Height.Decimal.LessThan(minHeight) {
			return fmt.Errorf("%w: height %s cm is too short", ErrInvalidInput, o.Height.Decimal)
		}
		if o.Height.Decimal.GreaterThan(maxHeight) {
			return fmt.Errorf("%w: height %s cm is too tall", ErrInvalidInput, o.Height.Decimal)
		}
	}
	return nil
}
