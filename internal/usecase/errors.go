package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrWindowClosed          = errors.New("prediction window closed")
	ErrMatchFinished         = errors.New("match already finished")
	ErrDuplicateSubmission   = errors.New("prediction already submitted")
	ErrNotReadyToScore       = errors.New("match is not ready to score")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
