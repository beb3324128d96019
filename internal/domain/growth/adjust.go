package growth

import "github.com/shopspring/decimal"

var (
	recumbentOffset   = decimal.RequireFromString("0.7")
	standingLowerEdge = decimal.RequireFromString("65.7")
	standingUpperEdge = decimal.RequireFromString("120.7")
)

// AdjustMeasurement applies the WHO recumbent/standing correction.
//
// Weight-for-length values inside (65.7, 120.7) lose 0.7. Weight-for-height
// values gain 0.7 only when adjustHeightData is set. Anything else is returned
// unchanged.
func AdjustMeasurement(in Indicator, measurement decimal.Decimal, adjustHeightData bool) decimal.Decimal {
	switch {
	case in == WeightForLength &&
		measurement.GreaterThan(standingLowerEdge) && measurement.LessThan(standingUpperEdge):
		return measurement.Sub(recumbentOffset)
	case in == WeightForHeight && adjustHeightData:
		return measurement.Add(recumbentOffset)
	}
	return measurement
}
