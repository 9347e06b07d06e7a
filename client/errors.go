// Package client is the SDK for the stockpoint service: a durable
// session store, a role-based authorization gate, a request gateway
// that handles session expiry globally, and a purchase orchestrator.
package client

import "fmt"

// AuthenticationError means the submitted credentials were rejected at
// login. It carries no session side effects; callers surface it inline.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.Message)
}

// AuthorizationExpiredError means a previously valid session was
// rejected by the service. The gateway has already cleared the session
// and fired the navigator by the time a caller sees this.
type AuthorizationExpiredError struct {
	Message string
}

func (e *AuthorizationExpiredError) Error() string {
	return fmt.Sprintf("session expired: %s", e.Message)
}

// AuthorizationDeniedError means the actor is authenticated but its
// role lacks the capability. The session stays intact.
type AuthorizationDeniedError struct {
	Message string
}

func (e *AuthorizationDeniedError) Error() string {
	return fmt.Sprintf("forbidden: %s", e.Message)
}

// ValidationError covers malformed or out-of-range input, whether
// caught locally before any network call or rejected by the service.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation: %s", e.Message)
}

// BusinessRuleError is a rule rejection from the service, such as
// insufficient stock or a duplicate email. Code is the machine-readable
// code from the response envelope; never retried automatically.
type BusinessRuleError struct {
	Code    string
	Message string
}

func (e *BusinessRuleError) Error() string {
	return fmt.Sprintf("rejected (%s): %s", e.Code, e.Message)
}

// InsufficientStock reports whether the rule rejection was a stock
// shortfall, the one case the purchase orchestrator reacts to.
func (e *BusinessRuleError) InsufficientStock() bool {
	return e.Code == "INSUFFICIENT_STOCK"
}

// TransportError covers unreachable service, non-JSON responses and
// unexpected server failures. Safe to retry manually.
type TransportError struct {
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transport: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("transport: %s", e.Message)
}

func (e *TransportError) Unwrap() error { return e.Err }
