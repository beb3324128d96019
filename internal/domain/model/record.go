// Package model contains domain models passed between layers.
package model

import (
	"github.com/shopspring/decimal"

	"github.com/okian/growup/internal/domain/growth"
)

// Record is one survey row: an identifier and the observation it carries.
type Record struct {
	ID          string
	Observation growth.Observation
	Line        int // source line or spreadsheet row, 1-based; 0 when unknown

	// Err is set when the row could not be parsed. Such a record is rejected
	// without scoring.
	Err error
}

// Outcome is the result of scoring a Record. Err is set when the record was
// rejected, in which case ZScore is invalid.
type Outcome struct {
	RecordID      string
	Indicator     growth.Indicator
	ZScore        decimal.NullDecimal
	Table         string
	RowKey        string
	TailCorrected bool
	Err           error
	ErrKind       string
}

// Rejected reports whether the record could not be scored.
func (o Outcome) Rejected() bool {
	return o.Err != nil
}

// Scored builds an Outcome from a successful evaluation.
func Scored(r Record, res growth.Result) Outcome {
	return Outcome{
		RecordID:      r.ID,
		Indicator:     r.Observation.Indicator,
		ZScore:        decimal.NewNullDecimal(res.ZScore),
		Table:         res.Table,
		RowKey:        res.RowKey,
		TailCorrected: res.TailCorrected,
	}
}

// Rejection builds an Outcome for a record that failed with err.
func Rejection(r Record, err error) Outcome {
	return Outcome{
		RecordID:  r.ID,
		Indicator: r.Observation.Indicator,
		Err:       err,
		ErrKind:   growth.Kind(err),
	}
}
