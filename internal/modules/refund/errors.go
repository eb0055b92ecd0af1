package refund

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	// ErrNotEligible is the business-rule rejection: the booking is already
	// refunded, terminal, or otherwise not cancellable. Raised before any
	// gateway call.
	ErrNotEligible = errors.New("booking not eligible for refund")

	ErrForbidden = errors.New("refund requester is not a party to the booking")
)
