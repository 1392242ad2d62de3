package errs

import "fmt"

// Sentinel errors for the order policy domain, classified via errors.Is.
var (
	ErrStateConflict   = fmt.Errorf("state conflict")
	ErrAuthorization   = fmt.Errorf("not authorized")
	ErrExternalService = fmt.Errorf("external service failed")
)

// StateConflictError indicates that an operation observed state that no
// longer permits it, for example approving an already-rejected modification
// or racing another pending modification on the same order. The caller
// must re-fetch state; the request is never retried as-is.
type StateConflictError struct {
	Entity  string
	Current string
	Cause   error
}

// NewStateConflictError creates a StateConflictError without a cause.
func NewStateConflictError(entity, current string) *StateConflictError {
	return &StateConflictError{Entity: entity, Current: current}
}

// NewStateConflictErrorWithCause creates a StateConflictError wrapping
// the underlying cause.
func NewStateConflictErrorWithCause(entity, current string, cause error) *StateConflictError {
	return &StateConflictError{Entity: entity, Current: current, Cause: cause}
}

func (e *StateConflictError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s is %s (cause: %s)", ErrStateConflict, e.Entity, e.Current, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s is %s", ErrStateConflict, e.Entity, e.Current))
}

func (e *StateConflictError) Unwrap() error {
	return ErrStateConflict
}

// AuthorizationError indicates that the acting party's role or ownership
// does not permit the requested operation.
type AuthorizationError struct {
	Actor  string
	Action string
	Cause  error
}

// NewAuthorizationError creates an AuthorizationError without a cause.
func NewAuthorizationError(actor, action string) *AuthorizationError {
	return &AuthorizationError{Actor: actor, Action: action}
}

// NewAuthorizationErrorWithCause creates an AuthorizationError wrapping
// the underlying cause.
func NewAuthorizationErrorWithCause(actor, action string, cause error) *AuthorizationError {
	return &AuthorizationError{Actor: actor, Action: action, Cause: cause}
}

func (e *AuthorizationError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s may not %s (cause: %s)", ErrAuthorization, e.Actor, e.Action, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s may not %s", ErrAuthorization, e.Actor, e.Action))
}

func (e *AuthorizationError) Unwrap() error {
	return ErrAuthorization
}

// ExternalServiceError indicates a failure on an outbound boundary such as
// the payment rail. Raised inside async executors; the owning record is
// marked failed and the error text preserved for operators.
type ExternalServiceError struct {
	Service string
	Cause   error
}

// NewExternalServiceError creates an ExternalServiceError wrapping
// the underlying cause.
func NewExternalServiceError(service string, cause error) *ExternalServiceError {
	return &ExternalServiceError{Service: service, Cause: cause}
}

func (e *ExternalServiceError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %s)", ErrExternalService, e.Service, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrExternalService, e.Service))
}

func (e *ExternalServiceError) Unwrap() error {
	return ErrExternalService
}
