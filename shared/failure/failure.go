package failure

import (
	"errors"
	"net/http"
)

// Reasons are the machine readable codes carried in the error envelope.
const (
	ReasonValidation       = "VALIDATION_ERROR"
	ReasonInvalidParameter = "INVALID_PARAMETER"
	ReasonNotFound         = "NOT_FOUND"
	ReasonMethodNotAllowed = "METHOD_NOT_ALLOWED"
	ReasonRateLimited      = "RATE_LIMIT_EXCEEDED"
	ReasonUnavailable      = "SERVICE_UNAVAILABLE"
	ReasonInternal         = "INTERNAL_ERROR"
)

// Failure is a wrapper for error messages and codes using standard HTTP response codes.
type Failure struct {
	Code    int               `json:"-"`
	Reason  string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

var InvalidPageParam = &Failure{Code: http.StatusBadRequest, Reason: ReasonInvalidParameter, Message: "page must be a positive integer"}
var InvalidLimitParam = &Failure{Code: http.StatusBadRequest, Reason: ReasonInvalidParameter, Message: "per_page must be a positive integer"}
var EmptyUpdate = &Failure{Code: http.StatusBadRequest, Reason: ReasonValidation, Message: "update request cannot be empty"}

// Error returns the error code and message in a formatted string.
func (e *Failure) Error() string {
	return e.Message
}

// BadRequest returns a new Failure with code for bad requests.
func BadRequest(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusBadRequest,
			Reason:  ReasonValidation,
			Message: err.Error(),
		}
	}

	return nil
}

// BadRequestFromString returns a new Failure with code for bad requests with message set from string.
func BadRequestFromString(msg string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Reason:  ReasonValidation,
		Message: msg,
	}
}

// Validation returns a bad request carrying one message per offending field.
func Validation(msg string, details map[string]string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Reason:  ReasonValidation,
		Message: msg,
		Details: details,
	}
}

// InvalidParameter returns a bad request for a malformed query or path parameter.
func InvalidParameter(msg string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Reason:  ReasonInvalidParameter,
		Message: msg,
	}
}

// InternalError returns a new Failure with code for internal error and message derived from an error interface.
func InternalError(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusInternalServerError,
			Reason:  ReasonInternal,
			Message: err.Error(),
		}
	}

	return nil
}

// NotFound returns a new Failure with code for entity not found.
func NotFound(msg string) error {
	return &Failure{
		Code:    http.StatusNotFound,
		Reason:  ReasonNotFound,
		Message: msg,
	}
}

// MethodNotAllowed returns a new Failure for a verb the resource does not support.
func MethodNotAllowed(msg string) error {
	return &Failure{
		Code:    http.StatusMethodNotAllowed,
		Reason:  ReasonMethodNotAllowed,
		Message: msg,
	}
}

func TooManyRequests(msg string) error {
	return &Failure{
		Code:    http.StatusTooManyRequests,
		Reason:  ReasonRateLimited,
		Message: msg,
	}
}

func Unavailable(msg string) error {
	return &Failure{
		Code:    http.StatusServiceUnavailable,
		Reason:  ReasonUnavailable,
		Message: msg,
	}
}

// GetCode returns the error code of an error interface.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// GetReason returns the envelope code of an error interface.
func GetReason(err error) string {
	var fail *Failure
	if errors.As(err, &fail) && fail.Reason != "" {
		return fail.Reason
	}

	return ReasonInternal
}

// GetDetails returns the per-field details of an error interface, if any.
func GetDetails(err error) map[string]string {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Details
	}

	return nil
}
