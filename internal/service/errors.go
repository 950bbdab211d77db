package service

import "errors"

var (
	// ErrProgressNotFound means there is nothing to resume: no slot exists,
	// or one existed and has expired. Both collapse to the same outcome.
	ErrProgressNotFound = errors.New("no progress found")

	// ErrCourseGone means a progress slot references a course that no longer
	// exists. Distinct from ErrProgressNotFound: the slot is stale data the
	// caller must be told about, not merely "nothing saved yet".
	ErrCourseGone = errors.New("progress references a deleted course")

	// ErrUserNotFound is returned for operations against an unknown user.
	ErrUserNotFound = errors.New("user not found")

	// ErrCourseNotFound is returned for operations against an unknown course.
	ErrCourseNotFound = errors.New("course not found")
)
