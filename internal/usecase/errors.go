package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrRemoteShapeChanged    = errors.New("remote payload shape changed")
	ErrNoSeasons             = errors.New("no seasons returned by remote platform")
)
