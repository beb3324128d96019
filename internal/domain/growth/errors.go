package growth

import "errors"

// Sentinel error kinds. Callers match them with errors.Is; every error returned
// by Calculator wraps exactly one of the first three.
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrAgeOutOfRange = errors.New("age out of range")
	ErrDataError     = errors.New("data error")
	ErrNoTables      = errors.New("no reference tables")
)

// Error kind labels used by metrics and batch output.
const (
	KindInvalidInput  = "invalid_input"
	KindAgeOutOfRange = "age_out_of_range"
	KindDataError     = "data_error"
	KindUnknown       = "unknown"
)

// Kind maps err onto a stable label. A nil error yields "".
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrAgeOutOfRange):
		return KindAgeOutOfRange
	case errors.Is(err, ErrDataError), errors.Is(err, ErrNoTables):
		return KindDataError
	}
	return KindUnknown
}
