package growth

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Division precision for intermediate decimal arithmetic.
const precision int32 = 20

var (
	daysPerMonth = decimal.RequireFromString("30.4374")
	daysPerWeek  = decimal.NewFromInt(7)
	two          = decimal.NewFromInt(2)

	maxRecumbentLength = decimal.NewFromInt(86)
	minStandingHeight  = decimal.NewFromInt(65)

	weekTableMonths = decimal.NewFromInt(3)
	weekTableWeeks  = decimal.NewFromInt(13)
	months24        = decimal.NewFromInt(24)
	months60        = decimal.NewFromInt(60)
	months240       = decimal.NewFromInt(240)
)

// Selection identifies the reference table and the kind of row key to use.
// Indicator may differ from the requested one after length/height
// reclassification.
type Selection struct {
	Indicator Indicator
	Sex       Sex
	Band      AgeBand
	RowKind   RowKind
}

// Table returns the composed table name.
func (s Selection) Table() string {
	return TableName(s.Indicator, s.Sex, s.Band)
}

// RowKey derives the within-table key: whole weeks, whole months, or the
// height rounded to the nearest half centimetre with one decimal digit.
func (s Selection) RowKey(ageInMonths, height decimal.Decimal) string {
	switch s.RowKind {
	case RowHeight:
		return RoundHeight(height)
	case RowAgeWeeks:
		return AgeInWeeks(ageInMonths).Floor().String()
	default:
		return ageInMonths.Floor().String()
	}
}

// AgeInWeeks converts months to weeks using 30.4374 days per month.
func AgeInWeeks(ageInMonths decimal.Decimal) decimal.Decimal {
	return ageInMonths.Mul(daysPerMonth).DivRound(daysPerWeek, precision)
}

// RoundHeight rounds h to the closest half centimetre, halves away from zero,
// and formats it as a row key such as "84.5" or "50.0".
func RoundHeight(h decimal.Decimal) string {
	return h.Mul(two).Round(0).Div(two).StringFixed(1)
}

// SelectTable picks the reference table for an observation. It is a pure
// function of its inputs.
func SelectTable(in Indicator, ageInMonths decimal.Decimal, sex string, height decimal.Decimal, ref ReferenceSystem) (Selection, error) {
	tableSex, err := ParseSex(sex)
	if err != nil {
		return Selection{}, err
	}

	var sel Selection
	switch in {
	case WeightForLength, WeightForHeight:
		sel = selectByHeight(in, height)
	case WeightForAge, LengthHeightForAge, HeadCircumferenceForAge:
		sel, err = selectByAge(in, ageInMonths, ref)
	case BodyMassIndexForAge:
		sel, err = selectBMI(ageInMonths)
	default:
		return Selection{}, fmt.Errorf("%w: unknown indicator %q", ErrInvalidInput, in)
	}
	if err != nil {
		return Selection{}, err
	}
	sel.Sex = tableSex

	if sel.Indicator == "" || sel.Sex == "" || sel.Band == "" {
		return Selection{}, fmt.Errorf("%w: unresolved table for %s/%s/%s", ErrDataError, sel.Indicator, sel.Sex, sel.Band)
	}
	return sel, nil
}

// selectByHeight moves children that are too long for recumbent tables onto
// the standing tables and vice versa.
func selectByHeight(in Indicator, height decimal.Decimal) Selection {
	sel := Selection{RowKind: RowHeight}
	switch {
	case in == WeightForLength && height.GreaterThan(maxRecumbentLength):
		sel.Indicator, sel.Band = WeightForHeight, Age2To5
	case in == WeightForHeight && height.LessThan(minStandingHeight):
		sel.Indicator, sel.Band = WeightForLength, Age0To2
	case in == WeightForLength:
		sel.Indicator, sel.Band = WeightForLength, Age0To2
	default:
		sel.Indicator, sel.Band = WeightForHeight, Age2To5
	}
	return sel
}

func selectByAge(in Indicator, ageInMonths decimal.Decimal, ref ReferenceSystem) (Selection, error) {
	sel := Selection{Indicator: in, Band: Age0To5, RowKind: RowAgeMonths}
	if inWeekTable(ageInMonths) {
		sel.Band, sel.RowKind = Age0To13W, RowAgeWeeks
	}
	if ref == CDC && ageInMonths.GreaterThanOrEqual(months24) {
		if in == HeadCircumferenceForAge {
			return Selection{}, fmt.Errorf("%w: no head circumference reference past 24 months (age %s)", ErrAgeOutOfRange, ageInMonths)
		}
		sel.Band, sel.RowKind = Age2To20, RowAgeMonths
	}
	return sel, nil
}

func selectBMI(ageInMonths decimal.Decimal) (Selection, error) {
	sel := Selection{Indicator: BodyMassIndexForAge, RowKind: RowAgeMonths}
	switch {
	case inWeekTable(ageInMonths):
		sel.Band, sel.RowKind = Age0To13W, RowAgeWeeks
	case ageInMonths.LessThan(months24):
		sel.Band = Age0To2
	case ageInMonths.LessThanOrEqual(months60):
		sel.Band = Age2To5
	case ageInMonths.LessThanOrEqual(months240):
		sel.Band = Age2To20
	default:
		return Selection{}, fmt.Errorf("%w: BMI-for-age covers up to 240 months (age %s)", ErrAgeOutOfRange, ageInMonths)
	}
	return sel, nil
}

// inWeekTable reports whether the week-resolution tables apply.
func inWeekTable(ageInMonths decimal.Decimal) bool {
	return ageInMonths.LessThanOrEqual(weekTableMonths) &&
		AgeInWeeks(ageInMonths).LessThanOrEqual(weekTableWeeks)
}
