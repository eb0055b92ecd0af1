package review

import "errors"

var (
	ErrValidation      = errors.New("validation error")
	ErrNotFound        = errors.New("booking not found")
	ErrForbidden       = errors.New("only the booking's client may review it")
	ErrNotReviewable   = errors.New("booking is not in a reviewable state")
	ErrAlreadyReviewed = errors.New("booking already reviewed")
)
