package core

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable marks a quote that could not be fetched or parsed.
	ErrUnavailable = errors.New("price unavailable")

	ErrTokenEmpty      = errors.New("empty telegram token")
	ErrNoPairs         = errors.New("no trading pairs configured")
	ErrInvalidInterval = errors.New("update interval must be at least one minute")
)

// DeliveryError describes a failed message delivery. Permanent means the
// destination will never accept messages again (blocked, chat removed).
type DeliveryError struct {
	Destination Destination
	Permanent   bool
	Err         error
}

func (e *DeliveryError) Error() string {
	kind := "transient"
	if e.Permanent {
		kind = "permanent"
	}
	return fmt.Sprintf("delivery to %d failed (%s): %v", e.Destination, kind, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// IsPermanentRejection reports whether err is a delivery failure that
// should deregister the destination. Unclassifiable errors are treated
// as transient.
func IsPermanentRejection(err error) bool {
	var delivery *DeliveryError
	return errors.As(err, &delivery) && delivery.Permanent
}
