package queue

import "errors"

var (
	// ErrStopped is returned when enqueueing on a closed queue.
	ErrStopped = errors.New("queue stopped")
)
