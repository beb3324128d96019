package service_test

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/okian/growup/internal/adapters/repository"
	"github.com/okian/growup/internal/domain/growth"
	"github.com/okian/growup/internal/domain/model"
)

var fixtureFS = fstest.MapFS{
	"wfa_girls_0_5_zscores.json":  {Data: []byte(`[{"Month":22,"L":-0.0403,"M":11.0151,"S":0.12373}]`)},
	"wfa_boys_0_5_zscores.json":   {Data: []byte(`[{"Month":12,"L":0.1,"M":9.6479,"S":0.10925}]`)},
	"hcfa_girls_0_5_zscores.json": {Data: []byte(`[{"Month":6,"L":1,"M":42.2,"S":0.03}]`)},
}

func newCalculator(t *testing.T) *growth.Calculator {
	t.Helper()
	tables, err := repository.Load(context.Background(), fixtureFS)
	if err != nil {
		t.Fatalf("load tables: %v", err)
	}
	calc, err := growth.NewCalculator(tables)
	if err != nil {
		t.Fatalf("calculator: %v", err)
	}
	return calc
}

func record(id string, in growth.Indicator, measurement, age float64, sex string) model.Record {
	return model.Record{ID: id, Observation: growth.NewObservation(in, measurement, age, sex, 0, growth.WHO)}
}

// surveyBatch mixes scorable records with every kind of rejection.
func surveyBatch() []model.Record {
	return []model.Record{
		record("a", growth.WeightForAge, 10.4, 22.45, "F"),
		record("b", growth.WeightForAge, 8, 22.45, "F"),
		record("c", growth.WeightForAge, 7.5, 22.45, "F"),
		record("d", growth.WeightForAge, 10, 12, "M"),
		record("e", growth.WeightForAge, 16, 12, "M"),
		record("f", growth.HeadCircumferenceForAge, 48, 26, "F"),
		record("a", growth.WeightForAge, 10.4, 22.45, "F"),
		record("h", growth.WeightForAge, 10, 12, "X"),
		record("i", growth.Indicator("xyz"), 10, 12, "M"),
	}
}
