package survey

import "github.com/google/uuid"

// Option applies a configuration option to the survey reader.
type Option func(*reader)

type reader struct {
	sheet string
	newID func() string
}

func newReader(opts []Option) *reader {
	r := &reader{newID: uuid.NewString}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithSheet selects the worksheet of an XLSX survey. The first sheet is used
// otherwise.
func WithSheet(name string) Option {
	return func(r *reader) {
		r.sheet = name
	}
}

// WithIDGenerator replaces the uuid generator used for rows without an id.
func WithIDGenerator(fn func() string) Option {
	return func(r *reader) {
		if fn != nil {
			r.newID = fn
		}
	}
}
