// Package survey reads anthropometric survey files and writes scored results.
package survey

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/okian/growup/internal/domain/growth"
	"github.com/okian/growup/internal/domain/model"
)

// Survey columns. Column order in the file does not matter.
const (
	ColID          = "id"
	ColIndicator   = "indicator"
	ColMeasurement = "measurement"
	ColAge         = "age_months"
	ColSex         = "sex"
	ColHeight      = "height"
	ColAmerican    = "american"
)

var requiredColumns = []string{ColIndicator, ColMeasurement, ColAge, ColSex}

// Read loads a .csv or .xlsx survey.
func Read(path string, opts ...Option) ([]model.Record, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return ReadCSV(f, opts...)
	case ".xlsx":
		return readXLSX(path, newReader(opts))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// ReadCSV parses a CSV survey from r.
func ReadCSV(r io.Reader, opts ...Option) ([]model.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var (
		rows  [][]string
		lines []int
	)
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadRow, err)
		}
		line, _ := cr.FieldPos(0)
		rows = append(rows, row)
		lines = append(lines, line)
	}
	return newReader(opts).records(rows, lines)
}

func readXLSX(path string, rd *reader) ([]model.Record, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := rd.sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return rd.records(rows, nil)
}

// records converts raw rows, header first, into Records. lines holds the
// source line of each row; when nil the row index is used, 1-based.
func (rd *reader) records(rows [][]string, lines []int) ([]model.Record, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrBadHeader)
	}
	cols, err := columns(rows[0])
	if err != nil {
		return nil, err
	}

	out := make([]model.Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}
		line := i + 2
		if lines != nil {
			line = lines[i+1]
		}
		rec := rd.record(cols, row)
		rec.Line = line
		if rec.Err != nil {
			rec.Err = fmt.Errorf("line %d: %w", line, rec.Err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func columns(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if name == "" {
			continue
		}
		if _, dup := cols[name]; dup {
			return nil, fmt.Errorf("%w: column %q repeated", ErrBadHeader, name)
		}
		cols[name] = i
	}
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrBadHeader, c)
		}
	}
	return cols, nil
}

// record converts one row. Unparseable cells do not fail the survey; the
// record keeps the parse error in Err and is rejected at scoring time.
func (rd *reader) record(cols map[string]int, row []string) model.Record {
	cell := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	id := cell(ColID)
	if id == "" {
		id = rd.newID()
	}

	measurement, errM := optionalNumber(cell(ColMeasurement), ColMeasurement)
	age, errA := optionalNumber(cell(ColAge), ColAge)
	height, errH := optionalNumber(cell(ColHeight), ColHeight)
	american, errF := flag(cell(ColAmerican))

	obs := growth.Observation{
		// Unknown indicators are kept so scoring can reject the record.
		Indicator:   growth.Indicator(strings.ToLower(cell(ColIndicator))),
		Measurement: measurement.Decimal,
		AgeInMonths: age.Decimal,
		Sex:         cell(ColSex),
		Reference:   growth.WHO,
	}
	if height.Valid && height.Decimal.IsPositive() {
		obs.Height = height
	}
	if american {
		obs.Reference = growth.CDC
	}

	rec := model.Record{ID: id, Observation: obs}
	if err := errors.Join(errM, errA, errH, errF); err != nil {
		rec.Err = fmt.Errorf("%w: %w", growth.ErrInvalidInput, err)
	}
	return rec
}

// optionalNumber parses s; a blank cell is returned as an invalid NullDecimal
// whose Decimal is zero.
func optionalNumber(s, col string) (decimal.NullDecimal, error) {
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("column %s: %q is not a number", col, s)
	}
	return decimal.NewNullDecimal(d), nil
}

func flag(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "", "0", "false", "no", "n":
		return false, nil
	case "1", "true", "yes", "y":
		return true, nil
	}
	return false, fmt.Errorf("column %s: %q is not a boolean", ColAmerican, s)
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
