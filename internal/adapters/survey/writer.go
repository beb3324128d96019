package survey

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/okian/growup/internal/domain/model"
)

// OutputHeader is the column layout written by WriteOutcomes.
var OutputHeader = []string{"id", "indicator", "zscore", "table", "row", "tail_corrected", "error"}

// WriteOutcomes writes outcomes as CSV. Rejected records have an empty zscore
// and their error kind in the error column.
func WriteOutcomes(w io.Writer, outcomes []model.Outcome) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(OutputHeader); err != nil {
		return err
	}
	for _, o := range outcomes {
		z := ""
		if o.ZScore.Valid {
			z = o.ZScore.Decimal.StringFixed(2)
		}
		if err := cw.Write([]string{
			o.RecordID,
			o.Indicator.String(),
			z,
			o.Table,
			o.RowKey,
			strconv.FormatBool(o.TailCorrected),
			o.ErrKind,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
