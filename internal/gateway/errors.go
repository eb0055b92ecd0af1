package gateway

import (
	"errors"
	"fmt"
)

// DeclinedError is a definitive gateway rejection. Retrying the same refund
// will not succeed.
type DeclinedError struct {
	Code    string
	Message string
}

func (e *DeclinedError) Error() string {
	return fmt.Sprintf("gateway declined refund: %s (%s)", e.Message, e.Code)
}

// TransientError covers network failures, timeouts and gateway 5xx. The
// refund was not confirmed and the caller may retry; eligibility is
// re-derived on every attempt so a retry cannot double-refund.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("gateway temporarily unavailable: %v", e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// IsRetryable reports whether the caller may safely retry the refund call.
func IsRetryable(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
