// Package growth computes anthropometric z-scores against the WHO Child Growth
// Standards and the CDC growth reference using the LMS method.
//
// The package is split into three pieces that Calculator runs in sequence:
//   - SelectTable picks the reference table and row for an observation.
//   - AdjustMeasurement corrects recumbent/standing measurement mix-ups.
//   - ZScore and RestrictTail apply the LMS formula and the WHO ±3 SD restriction.
package growth

import (
	"fmt"
	"slices"
	"strings"
)

// Indicator identifies an anthropometric indicator. The string value is the
// prefix used in reference table names.
type Indicator string

// Supported indicators.
const (
	WeightForLength         Indicator = "wfl"
	WeightForHeight         Indicator = "wfh"
	WeightForAge            Indicator = "wfa"
	LengthHeightForAge      Indicator = "lhfa"
	HeadCircumferenceForAge Indicator = "hcfa"
	BodyMassIndexForAge     Indicator = "bmifa"
)

// Indicators lists every supported indicator.
var Indicators = []Indicator{
	WeightForLength,
	WeightForHeight,
	WeightForAge,
	LengthHeightForAge,
	HeadCircumferenceForAge,
	BodyMassIndexForAge,
}

// ParseIndicator converts a table prefix such as "wfa" into an Indicator.
func ParseIndicator(s string) (Indicator, error) {
	in := Indicator(strings.ToLower(strings.TrimSpace(s)))
	if !in.Valid() {
		return "", fmt.Errorf("%w: unknown indicator %q", ErrInvalidInput, s)
	}
	return in, nil
}

// Valid reports whether i is one of the supported indicators.
func (i Indicator) Valid() bool {
	switch i {
	case WeightForLength, WeightForHeight, WeightForAge,
		LengthHeightForAge, HeadCircumferenceForAge, BodyMassIndexForAge:
		return true
	}
	return false
}

// HeightBased reports whether rows for i are keyed by length/height.
func (i Indicator) HeightBased() bool {
	return i == WeightForLength || i == WeightForHeight
}

// WeightBased reports whether i is subject to the ±3 SD tail restriction.
// Length/height, head circumference and BMI are returned unrestricted.
func (i Indicator) WeightBased() bool {
	return i == WeightForLength || i == WeightForHeight || i == WeightForAge
}

func (i Indicator) String() string { return string(i) }

// Sex is the table sex component.
type Sex string

// Table sex components.
const (
	Boys  Sex = "boys"
	Girls Sex = "girls"
)

// ParseSex normalizes "M"/"F" (any case) into a table sex.
func ParseSex(s string) (Sex, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "M":
		return Boys, nil
	case "F":
		return Girls, nil
	}
	return "", fmt.Errorf("%w: invalid sex value %q", ErrInvalidInput, s)
}

// AgeBand is the age partition suffix of a table name.
type AgeBand string

// Age bands.
const (
	Age0To2   AgeBand = "0_2"
	Age2To5   AgeBand = "2_5"
	Age0To5   AgeBand = "0_5"
	Age0To13W AgeBand = "0_13" // weeks resolution
	Age2To20  AgeBand = "2_20"
)

// ReferenceSystem selects which growth reference may be used.
type ReferenceSystem int

// Reference systems. CDC enables the 2-20 year tables.
const (
	WHO ReferenceSystem = iota
	CDC
)

func (r ReferenceSystem) String() string {
	if r == CDC {
		return "cdc"
	}
	return "who"
}

// RowKind tells how a table row key is derived.
type RowKind int

// Row key kinds.
const (
	RowAgeMonths RowKind = iota
	RowAgeWeeks
	RowHeight
)

func (k RowKind) String() string {
	switch k {
	case RowAgeWeeks:
		return "weeks"
	case RowHeight:
		return "height"
	default:
		return "months"
	}
}

// TableName composes "{indicator}_{sex}_{band}".
func TableName(in Indicator, sex Sex, band AgeBand) string {
	return string(in) + "_" + string(sex) + "_" + string(band)
}

// WHOTables is the WHO Child Growth Standards vocabulary.
var WHOTables = []string{
	"wfl_boys_0_2", "wfl_girls_0_2",
	"wfh_boys_2_5", "wfh_girls_2_5",
	"lhfa_boys_0_5", "lhfa_girls_0_5",
	"hcfa_boys_0_5", "hcfa_girls_0_5",
	"wfa_boys_0_5", "wfa_girls_0_5",
	"wfa_boys_0_13", "wfa_girls_0_13",
	"lhfa_boys_0_13", "lhfa_girls_0_13",
	"hcfa_boys_0_13", "hcfa_girls_0_13",
	"bmifa_boys_0_13", "bmifa_girls_0_13",
	"bmifa_boys_0_2", "bmifa_girls_0_2",
	"bmifa_boys_2_5", "bmifa_girls_2_5",
}

// CDCTables is the CDC growth reference vocabulary.
var CDCTables = []string{
	"lhfa_boys_2_20", "lhfa_girls_2_20",
	"wfa_boys_2_20", "wfa_girls_2_20",
	"bmifa_boys_2_20", "bmifa_girls_2_20",
}

// KnownTable reports whether name belongs to the WHO or CDC vocabulary.
func KnownTable(name string) bool {
	return slices.Contains(WHOTables, name) || slices.Contains(CDCTables, name)
}

// CDCTable reports whether name is served by the CDC reference.
func CDCTable(name string) bool {
	return slices.Contains(CDCTables, name)
}
