// Package services computes variability indices for the HTTP handlers and
// the queue consumer. Failures are reported as ServiceError values carrying
// a stable code and the HTTP status that code maps to.
package services

import (
	"errors"
	"net/http"

	"github.com/soltixdb/varindex/internal/analytics/variability"
)

// Service error codes
const (
	CodeInvalidJSON       = "INVALID_JSON"
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeInvalidLightCurve = "INVALID_LIGHTCURVE"
	CodeStarNotFound      = "STAR_NOT_FOUND"
	CodeStoreDisabled     = "STORE_DISABLED"
	CodeInternal          = "INTERNAL_ERROR"
)

// ServiceError represents a service layer error
type ServiceError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`

	cause error
}

func (e *ServiceError) Error() string {
	return e.Message
}

// Unwrap exposes the engine or store error behind e
func (e *ServiceError) Unwrap() error {
	return e.cause
}

// HTTPStatus returns the status the API answers with for e.Code
func (e *ServiceError) HTTPStatus() int {
	switch e.Code {
	case CodeInvalidJSON, CodeInvalidRequest, CodeInvalidLightCurve:
		return http.StatusBadRequest
	case CodeStarNotFound:
		return http.StatusNotFound
	case CodeStoreDisabled:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// ClientFault reports whether the request itself was at fault, so retrying
// it unchanged cannot succeed.
func (e *ServiceError) ClientFault() bool {
	return e.HTTPStatus() < http.StatusInternalServerError
}

// NewServiceError creates a new ServiceError
func NewServiceError(code, message string) *ServiceError {
	return &ServiceError{
		Code:    code,
		Message: message,
	}
}

// wrapError builds a ServiceError whose message and cause come from err
func wrapError(code string, err error) *ServiceError {
	return &ServiceError{Code: code, Message: err.Error(), cause: err}
}

// engineError classifies an error returned by Engine.Compute for a
// lightcurve of n points. Only allocation failures are the service's fault.
func engineError(err error, n int) *ServiceError {
	if errors.Is(err, variability.ErrAllocation) {
		return wrapError(CodeInternal, err)
	}
	e := wrapError(CodeInvalidLightCurve, err)
	e.Details = map[string]interface{}{"n": n}
	if errors.Is(err, variability.ErrInsufficientData) {
		e.Details["reason"] = "insufficient_data"
	}
	return e
}
