package models

import "errors"

// Error taxonomy shared by the engines. All of these are recoverable at
// the call site; callers surface a message and carry on.
var (
	// ErrEmptyExerciseSet is returned when a session or template would be
	// created with no exercises.
	ErrEmptyExerciseSet = errors.New("exercise set is empty")

	// ErrNoActiveSession is returned by session mutations when no session
	// is active. The operation is a no-op.
	ErrNoActiveSession = errors.New("no active session")

	// ErrSetNotFound is returned when a set id does not match any set in
	// the active session.
	ErrSetNotFound = errors.New("set not found")

	// ErrNotFound is returned for unknown schedule entries, templates and
	// history lookups.
	ErrNotFound = errors.New("not found")

	// ErrBrokenLinkage is returned when a scheduled workout references a
	// template or history entry that no longer exists.
	ErrBrokenLinkage = errors.New("scheduled workout references a missing item")

	// ErrFutureWorkout is returned when performing a schedule entry dated
	// in the future.
	ErrFutureWorkout = errors.New("scheduled workout is in the future")

	// ErrStaleToken is returned when confirming or cancelling a pending
	// start whose token no longer matches the engine state.
	ErrStaleToken = errors.New("pending start token is stale")
)
