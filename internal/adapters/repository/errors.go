package repository

import "errors"

// Sentinel kinds for reference table errors.
var (
	ErrNoTables = errors.New("no reference tables found")
	ErrBadTable = errors.New("malformed reference table")
)
