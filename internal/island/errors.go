package island

import (
	"errors"
	"fmt"
)

// ErrIllegalMembership indicates a broken island membership contract: adding
// a non-dynamic or already owned member, or removing a member the island does
// not own. It is a programming error and never transient.
var ErrIllegalMembership = errors.New("island: illegal membership")

// MembershipError wraps ErrIllegalMembership with the failing operation.
type MembershipError struct {
	Op     string
	Reason string
}

func (e *MembershipError) Error() string {
	return fmt.Sprintf("%v: %s: %s", ErrIllegalMembership, e.Op, e.Reason)
}

func (e *MembershipError) Unwrap() error {
	return ErrIllegalMembership
}
