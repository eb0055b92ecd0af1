package booking

import "errors"

var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("booking not found")
	ErrForbidden         = errors.New("actor not allowed for this transition")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrTransient         = errors.New("transition lost repeated update races")
)
