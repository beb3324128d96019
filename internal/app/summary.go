package service

import (
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/okian/growup/internal/domain/growth"
	"github.com/okian/growup/internal/domain/model"
)

// Prevalence cut-offs, in standard deviations.
const (
	moderateCutoff = -2
	severeCutoff   = -3
	overCutoff     = 2
)

// IndicatorSummary describes the scored z-scores of one indicator.
// Shares are fractions of Scored records.
type IndicatorSummary struct {
	Indicator   growth.Indicator
	Records     int
	Scored      int
	Rejected    int
	Mean        float64
	StdDev      float64
	Median      float64
	BelowMinus2 float64
	BelowMinus3 float64
	AbovePlus2  float64
}

// Summarize groups outcomes by indicator. Known indicators come first in
// their canonical order; anything else follows alphabetically.
func Summarize(outcomes []model.Outcome) []IndicatorSummary {
	type group struct {
		records, rejected int
		z                 []float64
	}
	groups := make(map[growth.Indicator]*group)
	for _, o := range outcomes {
		g := groups[o.Indicator]
		if g == nil {
			g = &group{}
			groups[o.Indicator] = g
		}
		g.records++
		if o.Rejected() || !o.ZScore.Valid {
			g.rejected++
			continue
		}
		g.z = append(g.z, o.ZScore.Decimal.InexactFloat64())
	}

	order := make([]growth.Indicator, 0, len(groups))
	for _, in := range growth.Indicators {
		if _, ok := groups[in]; ok {
			order = append(order, in)
		}
	}
	var other []growth.Indicator
	for in := range groups {
		if !in.Valid() {
			other = append(other, in)
		}
	}
	slices.Sort(other)
	order = append(order, other...)

	out := make([]IndicatorSummary, 0, len(order))
	for _, in := range order {
		g := groups[in]
		s := IndicatorSummary{
			Indicator: in,
			Records:   g.records,
			Scored:    len(g.z),
			Rejected:  g.rejected,
		}
		if len(g.z) > 0 {
			slices.Sort(g.z)
			s.Mean = stat.Mean(g.z, nil)
			if len(g.z) > 1 {
				s.StdDev = stat.StdDev(g.z, nil)
			}
			s.Median = stat.Quantile(0.5, stat.Empirical, g.z, nil)
			s.BelowMinus2 = share(g.z, func(z float64) bool { return z < moderateCutoff })
			s.BelowMinus3 = share(g.z, func(z float64) bool { return z < severeCutoff })
			s.AbovePlus2 = share(g.z, func(z float64) bool { return z > overCutoff })
		}
		out = append(out, s)
	}
	return out
}

func share(z []float64, match func(float64) bool) float64 {
	n := 0
	for _, v := range z {
		if match(v) {
			n++
		}
	}
	return float64(n) / float64(len(z))
}
