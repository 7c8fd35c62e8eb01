package domain

import "errors"

var (
	// ErrUnknownStatus is returned for a status string outside the lifecycle
	ErrUnknownStatus = errors.New("domain: unknown booking status")

	// ErrInvalidCourtConfig is returned when a stored court fails load-boundary validation
	ErrInvalidCourtConfig = errors.New("domain: invalid court configuration")

	// ErrInvalidInterval is returned when end is not after start
	ErrInvalidInterval = errors.New("domain: booking end must be after start")
)
