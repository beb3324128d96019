package survey

import "errors"

// Sentinel errors for survey files.
var (
	ErrBadHeader         = errors.New("bad survey header")
	ErrBadRow            = errors.New("bad survey row")
	ErrUnsupportedFormat = errors.New("unsupported survey format")
)
