package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business logic error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DomainError) Unwrap() error {
	return e.Err
}

const (
	ErrCodeMalformedPayload = "MALFORMED_PAYLOAD"
	ErrCodeExpired          = "EXPIRED"
	ErrCodeSignatureInvalid = "SIGNATURE_INVALID"
	ErrCodeReplayDetected   = "REPLAY_DETECTED"
	ErrCodeSubjectMismatch  = "SUBJECT_MISMATCH"
	ErrCodeUpstreamFailure  = "UPSTREAM_FAILURE"
	ErrCodeInvalidArgument  = "INVALID_ARGUMENT"
)

// Sentinels for errors.Is checks. Every DomainError built by the
// constructors below unwraps to one of these.
var (
	ErrMalformedPayload = errors.New("malformed payload")
	ErrExpired          = errors.New("payload expired")
	ErrSignatureInvalid = errors.New("payload signature invalid")
	ErrReplayDetected   = errors.New("payload already consumed")
	ErrSubjectMismatch  = errors.New("payload subject mismatch")
	ErrUpstreamFailure  = errors.New("upstream datastore failure")
	ErrInvalidArgument  = errors.New("invalid argument")
)

// AsDomainError unwraps err into a *DomainError when possible.
func AsDomainError(err error) (*DomainError, bool) {
	var domErr *DomainError
	ok := errors.As(err, &domErr)
	return domErr, ok
}

func NewMalformedPayloadError(reason string) *DomainError {
	return &DomainError{
		Code:    ErrCodeMalformedPayload,
		Message: fmt.Sprintf("malformed payload: %s", reason),
		Err:     ErrMalformedPayload,
	}
}

func NewExpiredError(expiresAt int64) *DomainError {
	return &DomainError{
		Code:    ErrCodeExpired,
		Message: fmt.Sprintf("payload expired at %d", expiresAt),
		Err:     ErrExpired,
	}
}

func NewSignatureInvalidError(reason string) *DomainError {
	return &DomainError{
		Code:    ErrCodeSignatureInvalid,
		Message: fmt.Sprintf("signature invalid: %s", reason),
		Err:     ErrSignatureInvalid,
	}
}

func NewReplayDetectedError() *DomainError {
	return &DomainError{
		Code:    ErrCodeReplayDetected,
		Message: "payload has already been consumed",
		Err:     ErrReplayDetected,
	}
}

func NewSubjectMismatchError(expected, got string) *DomainError {
	return &DomainError{
		Code:    ErrCodeSubjectMismatch,
		Message: fmt.Sprintf("payload was issued for %q, presented by %q", expected, got),
		Err:     ErrSubjectMismatch,
	}
}

func NewUpstreamFailureError(err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeUpstreamFailure,
		Message: "datastore request failed",
		Err:     fmt.Errorf("%w: %w", ErrUpstreamFailure, err),
	}
}

func NewInvalidArgumentError(reason string) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidArgument,
		Message: fmt.Sprintf("invalid argument: %s", reason),
		Err:     ErrInvalidArgument,
	}
}
