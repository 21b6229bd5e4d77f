package ews

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	ErrUnknownOperation    = errors.New("unknown operation")
	ErrUnknownPrefix       = errors.New("unknown namespace prefix")
	ErrNotEnvelope         = errors.New("not a SOAP envelope")
	ErrSubscriptionExpired = errors.New("subscription expired or invalid")
)

// ProtocolError reports a response whose status is not Success. Code and
// Message are the server's ResponseCode and MessageText, verbatim.
type ProtocolError struct {
	Code    string
	Message string
}

func (e *ProtocolError) Error() string {
	return e.Code + ": " + e.Message
}

// SubscriptionExpiredError is returned only when decoding GetEvents. It
// tells the caller to subscribe again rather than give up.
//
// It unwraps to its *ProtocolError and matches ErrSubscriptionExpired, so
// callers that need to tell the two apart must test for this type first.
type SubscriptionExpiredError struct {
	ProtocolError
}

func (e *SubscriptionExpiredError) Error() string {
	return "subscription expired: " + e.ProtocolError.Error()
}

func (e *SubscriptionExpiredError) Unwrap() error {
	return &e.ProtocolError
}

func (e *SubscriptionExpiredError) Is(target error) bool {
	return target == ErrSubscriptionExpired
}

// MalformedResponseError reports a success response that lacks an element
// the operation cannot do without.
type MalformedResponseError struct {
	Operation Operation
	Element   string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed %s response: missing %s", e.Operation, e.Element)
}

// IsSubscriptionExpired reports whether err asks the caller to resubscribe.
func IsSubscriptionExpired(err error) bool {
	var target *SubscriptionExpiredError
	return errors.As(err, &target)
}

// AsProtocolError returns the protocol error carried by err, including the
// one embedded in a SubscriptionExpiredError.
func AsProtocolError(err error) (*ProtocolError, bool) {
	var target *ProtocolError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}
