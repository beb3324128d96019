package growth

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Places kept in returned z-scores.
const scorePlaces int32 = 2

var (
	one   = decimal.NewFromInt(1)
	three = decimal.NewFromInt(3)
)

// LMS holds the Box-Cox power (L), median (M) and coefficient of variation (S)
// of one reference table row.
type LMS struct {
	L decimal.Decimal `json:"L"`
	M decimal.Decimal `json:"M"`
	S decimal.Decimal `json:"S"`
}

func (p LMS) check() error {
	if !p.M.IsPositive() || !p.S.IsPositive() {
		return fmt.Errorf("%w: malformed LMS row L=%s M=%s S=%s", ErrDataError, p.L, p.M, p.S)
	}
	return nil
}

// ZScore returns the unrounded LMS z-score of y:
//
//	((y / M) ^ L - 1) / (S * L)
//
// A row with L = 0 uses the limit ln(y / M) / S.
func ZScore(y decimal.Decimal, p LMS) (decimal.Decimal, error) {
	if err := p.check(); err != nil {
		return decimal.Zero, err
	}
	if !y.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: measurement must be greater than zero, got %s", ErrInvalidInput, y)
	}

	base := y.DivRound(p.M, precision)
	if p.L.IsZero() {
		ln, err := base.Ln(precision)
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: %v", ErrDataError, err)
		}
		return ln.DivRound(p.S, precision), nil
	}

	power, err := base.PowWithPrecision(p.L, precision)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrDataError, err)
	}
	return power.Sub(one).DivRound(p.S.Mul(p.L), precision), nil
}

// StandardDeviation returns the measurement that sits k SDs from the median:
//
//	M * (1 + L * S * k) ^ (1 / L)
func StandardDeviation(p LMS, k int64) (decimal.Decimal, error) {
	if err := p.check(); err != nil {
		return decimal.Zero, err
	}
	sd := decimal.NewFromInt(k)

	if p.L.IsZero() {
		e, err := p.S.Mul(sd).ExpTaylor(precision)
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: %v", ErrDataError, err)
		}
		return p.M.Mul(e), nil
	}

	base := p.L.Mul(p.S).Mul(sd).Add(one)
	exponent := one.DivRound(p.L, precision)
	power, err := base.PowWithPrecision(exponent, precision)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: SD %d outside the distribution: %v", ErrDataError, k, err)
	}
	return p.M.Mul(power), nil
}

// RestrictTail applies the WHO restricted LMS method to a rounded z-score of a
// weight-based indicator. Scores within ±3 come back unchanged. Beyond that the
// distance past SD3 is measured in units of the SD2-SD3 gap:
//
//	z > 3:   3 + (y - SD3pos) / (SD3pos - SD2pos)
//	z < -3: -3 + (y - SD3neg) / (SD2neg - SD3neg)
//
// The second return value reports whether a correction was made.
func RestrictTail(y, z decimal.Decimal, p LMS) (decimal.Decimal, bool, error) {
	if z.Abs().LessThanOrEqual(three) {
		return z, false, nil
	}

	k2, k3, anchor := int64(2), int64(3), three
	if z.IsNegative() {
		k2, k3, anchor = -2, -3, three.Neg()
	}
	sd2, err := StandardDeviation(p, k2)
	if err != nil {
		return decimal.Zero, false, err
	}
	sd3, err := StandardDeviation(p, k3)
	if err != nil {
		return decimal.Zero, false, err
	}

	gap := sd3.Sub(sd2).Abs()
	if gap.IsZero() {
		return decimal.Zero, false, fmt.Errorf("%w: SD2 and SD3 coincide", ErrDataError)
	}
	corrected := anchor.Add(y.Sub(sd3).DivRound(gap, precision))
	return Round(corrected), true, nil
}

// Round rounds a z-score to two places, halves away from zero.
func Round(z decimal.Decimal) decimal.Decimal {
	return z.Round(scorePlaces)
}
