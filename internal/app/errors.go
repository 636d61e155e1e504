package app

import "errors"

// Sentinel errors for common application errors
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNoResume        = errors.New("no resume uploaded")
	ErrMissingFields   = errors.New("contact fields still missing")
	ErrNoActiveSession = errors.New("no active interview session")
	ErrSessionFinished = errors.New("interview session already finished")
)
