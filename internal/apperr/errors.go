package apperr

import "errors"

// ErrInvalidInput is returned when user-supplied input or configuration fails validation.
// Use errors.Is(err, apperr.ErrInvalidInput) to detect validation failures uniformly.
var ErrInvalidInput = errors.New("invalid input")

// ErrRequestFailed is returned when an upstream query fails at the transport level
// or the server responds with an unusable status.
var ErrRequestFailed = errors.New("request failed")

// ErrInputUnreadable is returned when the domain list cannot be opened or read.
// It aborts a run before any lookup is made.
var ErrInputUnreadable = errors.New("input unreadable")

// ErrReportWrite is returned when the report cannot be written to its destination.
var ErrReportWrite = errors.New("writing report failed")
