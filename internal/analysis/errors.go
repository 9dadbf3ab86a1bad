package analysis

import "errors"

// Sentinel errors for controller operations.
var (
	ErrBusy         = errors.New("a submission is already active")
	ErrDiscarded    = errors.New("submission was reset before the response arrived")
	ErrNotCompleted = errors.New("submission has not completed")
)
