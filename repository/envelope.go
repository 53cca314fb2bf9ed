package repository

import (
	"errors"

	"github.com/hackfolio/catalog-backend/interfaces"
)

// Error codes carried in failure envelopes.
const (
	CodeEntityNotFound     = "ENTITY_NOT_FOUND"
	CodeSlugConflict       = "SLUG_CONFLICT"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeDuplicateIdentity  = "DUPLICATE_IDENTITY"
	CodeCredentialInvalid  = "CREDENTIAL_INVALID"
	CodeAccountDeactivated = "ACCOUNT_DEACTIVATED"
	CodeSessionInvalid     = "SESSION_INVALID"
	CodeWriteFailed        = "WRITE_FAILED"
	CodeBackendUnavailable = "BACKEND_UNAVAILABLE"
	CodeInternal           = "INTERNAL"
)

// ResultError is the machine-readable failure payload.
type ResultError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Result is the uniform envelope every consumer-facing operation returns.
type Result struct {
	Success bool         `json:"success"`
	Data    any          `json:"data,omitempty"`
	Error   *ResultError `json:"error,omitempty"`
}

// OK wraps data in a success envelope.
func OK(data any) Result {
	return Result{Success: true, Data: data}
}

// Fail builds a failure envelope from an explicit code and message.
func Fail(code, message string) Result {
	return Result{Success: false, Error: &ResultError{Code: code, Message: message}}
}

// FailErr maps a typed catalog error onto a failure envelope. Untyped errors
// collapse to CodeInternal so substrate details never leak to consumers.
func FailErr(err error) Result {
	switch {
	case errors.Is(err, interfaces.ErrEntityNotFound):
		return Fail(CodeEntityNotFound, "entity not found")
	case errors.Is(err, interfaces.ErrSlugConflict):
		return Fail(CodeSlugConflict, "an active entity with this title already exists")
	case errors.Is(err, interfaces.ErrCredentialInvalid):
		return Fail(CodeCredentialInvalid, "invalid credentials")
	case errors.Is(err, interfaces.ErrAccountDeactivated):
		return Fail(CodeAccountDeactivated, "account is deactivated")
	case errors.Is(err, interfaces.ErrWriteFailed):
		return Fail(CodeWriteFailed, "write to the catalog backend failed")
	case errors.Is(err, interfaces.ErrStoreUnavailable),
		errors.Is(err, interfaces.ErrResolverUnavailable),
		errors.Is(err, interfaces.ErrResolutionExhausted):
		return Fail(CodeBackendUnavailable, "catalog backend unavailable")
	default:
		return Fail(CodeInternal, "internal error")
	}
}
