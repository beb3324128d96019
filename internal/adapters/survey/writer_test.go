package survey_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okian/growup/internal/adapters/survey"
	"github.com/okian/growup/internal/domain/growth"
	"github.com/okian/growup/internal/domain/model"
)

func TestWriteOutcomes(t *testing.T) {
	rec := model.Record{ID: "c-1", Observation: growth.Observation{Indicator: growth.WeightForAge}}
	outcomes := []model.Outcome{
		model.Scored(rec, growth.Result{ZScore: decimal.NewFromInt(3), Table: "wfa_girls_0_5", RowKey: "22", TailCorrected: true}),
		model.Rejection(model.Record{ID: "c-2", Observation: growth.Observation{Indicator: growth.HeadCircumferenceForAge}},
			fmt.Errorf("%w: hcfa beyond 24 months", growth.ErrAgeOutOfRange)),
	}

	var buf bytes.Buffer
	require.NoError(t, survey.WriteOutcomes(&buf, outcomes))

	want := "id,indicator,zscore,table,row,tail_corrected,error\n" +
		"c-1,wfa,3.00,wfa_girls_0_5,22,true,\n" +
		"c-2,hcfa,,,,false,age_out_of_range\n"
	assert.Equal(t, want, buf.String())
}
