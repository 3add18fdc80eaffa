package domain

import "errors"

// Domain errors.
var (
	ErrAlreadyRunning         = errors.New("another task is already running")
	ErrNoRunningTask          = errors.New("there is no running task")
	ErrDuplicateStart         = errors.New("a task already starts at that instant")
	ErrInvalidInterval        = errors.New("task end is not after its start")
	ErrCannotRemoveRunning    = errors.New("cannot remove the running task")
	ErrCannotEditRunningTimes = errors.New("cannot edit the running task's start or end")
	ErrNoSuchTask             = errors.New("no task fits the description")
	ErrUnknownEditField       = errors.New("unknown edit field")
)
