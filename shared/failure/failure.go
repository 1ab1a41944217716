// Package failure carries the HTTP status an error should be reported with.
// Anything that is not a Failure is reported as an internal error.
package failure

import (
	"errors"
	"net/http"
)

const messageValidation = "Validation error"

type Failure struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"errors,omitempty"`
}

// ForbiddenError is returned when no role table is loaded.
var ForbiddenError = &Failure{Code: http.StatusForbidden, Message: "You don't have the required permissions"}

func (e *Failure) Error() string {
	return e.Message
}

func newFailure(code int, message string) error {
	return &Failure{Code: code, Message: message}
}

func fromError(code int, err error) error {
	if err == nil {
		return nil
	}

	return newFailure(code, err.Error())
}

// BadRequest reports err as a 400. A nil err stays nil.
func BadRequest(err error) error {
	return fromError(http.StatusBadRequest, err)
}

func BadRequestFromString(msg string) error {
	return newFailure(http.StatusBadRequest, msg)
}

// Validation returns a 400 carrying one message per failing field.
func Validation(details map[string]string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Message: messageValidation,
		Details: details,
	}
}

func Unauthorized(msg string) error {
	return newFailure(http.StatusUnauthorized, msg)
}

func Forbidden(msg string) error {
	return newFailure(http.StatusForbidden, msg)
}

func NotFound(msg string) error {
	return newFailure(http.StatusNotFound, msg)
}

func Conflict(msg string) error {
	return newFailure(http.StatusConflict, msg)
}

// GetCode returns the status carried by err, or 500.
func GetCode(err error) int {
	if fail, ok := As(err); ok {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// GetDetails returns the per-field messages of a validation Failure, if any.
func GetDetails(err error) map[string]string {
	if fail, ok := As(err); ok {
		return fail.Details
	}

	return nil
}

// As unwraps err to the first Failure in its chain.
func As(err error) (*Failure, bool) {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail, true
	}

	return nil, false
}
