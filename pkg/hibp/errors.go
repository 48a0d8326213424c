package hibp

import (
	"errors"
	"fmt"
)

// ErrUnavailable is matched by every lookup failure, whatever the cause. Callers should treat
// it as "unknown", never as "not breached".
var ErrUnavailable = errors.New("breach service unavailable")

// Reason tells why the range API could not answer.
type Reason string

const (
	ReasonTimeout   Reason = "timeout"
	ReasonCanceled  Reason = "canceled"
	ReasonNetwork   Reason = "network"
	ReasonStatus    Reason = "status"
	ReasonMalformed Reason = "malformed"
)

// UnavailableError describes a failed lookup. It carries no URL or hash material.
type UnavailableError struct {
	Reason     Reason
	StatusCode int
}

func (e *UnavailableError) Error() string {
	if e.Reason == ReasonStatus {
		return fmt.Sprintf("%s: status %d", ErrUnavailable, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", ErrUnavailable, e.Reason)
}

func (e *UnavailableError) Is(target error) bool {
	return target == ErrUnavailable
}
