package growth_test

import (
	"github.com/shopspring/decimal"

	"github.com/okian/growup/internal/domain/growth"
)

// memTables is a map-backed growth.Tables used by the tests in this package.
type memTables map[string]map[string]growth.LMS

func (t memTables) Lookup(table, key string) (growth.LMS, bool) {
	rows, ok := t[table]
	if !ok {
		return growth.LMS{}, false
	}
	p, ok := rows[key]
	return p, ok
}

func lms(l, m, s string) growth.LMS {
	return growth.LMS{
		L: decimal.RequireFromString(l),
		M: decimal.RequireFromString(m),
		S: decimal.RequireFromString(s),
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// fixtureTables holds a handful of rows shaped like the WHO/CDC files.
func fixtureTables() memTables {
	return memTables{
		"wfa_girls_0_5":  {"22": lms("-0.0403", "11.0151", "0.12373")},
		"wfa_boys_0_5":   {"12": lms("0.1", "9.6479", "0.10925")},
		"wfa_boys_0_13":  {"4": lms("0.1435", "5.1359", "0.12872")},
		"wfa_boys_2_20":  {"30": lms("-0.2162", "13.2", "0.11")},
		"wfl_boys_0_2":   {"50.0": lms("-0.3521", "3.3278", "0.08890"), "60.0": lms("0", "5.9", "0.09")},
		"wfh_boys_2_5":   {"90.0": lms("-0.3521", "12.7", "0.08")},
		"lhfa_boys_0_5":  {"12": lms("1", "75.7488", "0.03137")},
		"hcfa_girls_0_5": {"6": lms("1", "42.2", "0.03")},
		"bmifa_boys_2_5": {"36": lms("-0.6187", "15.7577", "0.07928")},
	}
}
