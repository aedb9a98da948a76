package models

import (
	"errors"
	"fmt"
)

// Error codes used in API responses and internal error handling.
const (
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeFetchFailed  = "FETCH_FAILED"
	ErrCodeTimeout      = "FETCH_TIMEOUT"
	ErrCodeBrowserCrash = "BROWSER_CRASH"
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeInternal     = "INTERNAL_ERROR"

	// Objectivity oracle failures. These never reach API callers; the
	// sentiment signal falls back to neutral instead.
	ErrCodeLLMFailure     = "LLM_FAILURE"
	ErrCodeLLMAuthFailure = "LLM_AUTH_FAILURE"
	ErrCodeLLMRateLimited = "LLM_RATE_LIMITED"

	// Performance audit failures, likewise recovered locally.
	ErrCodeLighthouse = "LIGHTHOUSE_FAILED"
)

// ErrorResponse is the JSON body of every failed API call.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// AuditError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type AuditError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *AuditError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AuditError) Unwrap() error {
	return e.Err
}

// NewAuditError creates a new AuditError.
func NewAuditError(code, message string, err error) *AuditError {
	return &AuditError{Code: code, Message: message, Err: err}
}

// ToResponse converts an internal error to the API-facing body.
func (e *AuditError) ToResponse() ErrorResponse {
	return ErrorResponse{Error: e.Message, Code: e.Code}
}

// AsAuditError unwraps err into an AuditError, wrapping unknown errors as
// INTERNAL_ERROR.
func AsAuditError(err error) *AuditError {
	var ae *AuditError
	if errors.As(err, &ae) {
		return ae
	}
	return NewAuditError(ErrCodeInternal, "internal server error", err)
}
