package repository

import "github.com/okian/growup/pkg/logger"

const defaultLoadConcurrency = 4

// Option applies a configuration option to the table loader.
type Option func(*loader)

// WithCDC also loads the CDC 2-20 year tables (*_zscores.cdc.json).
func WithCDC(enabled bool) Option {
	return func(l *loader) {
		l.includeCDC = enabled
	}
}

// WithConcurrency bounds how many table files are decoded at once.
func WithConcurrency(n int) Option {
	return func(l *loader) {
		if n > 0 {
			l.concurrency = n
		}
	}
}

// WithLogger sets the logger used while loading.
func WithLogger(log logger.Logger) Option {
	return func(l *loader) {
		if log != nil {
			l.logger = log
		}
	}
}
