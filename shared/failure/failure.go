package failure

import (
	"errors"
	"net/http"
)

// Kind is the stable, machine readable class of a Failure. Clients branch on
// it, e.g. to retry a booking with other dates after KindConflict.
type Kind string

const (
	KindValidation   Kind = "VALIDATION_ERROR"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindForbidden    Kind = "FORBIDDEN"
	KindNotFound     Kind = "NOT_FOUND"
	KindConflict     Kind = "CONFLICT"
	KindIllegalState Kind = "ILLEGAL_STATE_TRANSITION"
	KindInternal     Kind = "INTERNAL_ERROR"
	KindUnknown      Kind = ""
)

// Failure is an error that knows its HTTP status.
type Failure struct {
	Code    int    `json:"code"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`

	cause error
}

var ForbiddenError = &Failure{Code: http.StatusForbidden, Kind: KindForbidden, Message: "You don't have the required permissions"}

func (e *Failure) Error() string {
	return e.Message
}

func (e *Failure) Unwrap() error {
	return e.cause
}

// Is matches another Failure of the same kind, so errors.Is(err, ForbiddenError) works on copies.
func (e *Failure) Is(target error) bool {
	var other *Failure
	if !errors.As(target, &other) {
		return false
	}

	return e.Kind == other.Kind && e.Code == other.Code
}

func newFailure(code int, kind Kind, msg string, cause error) *Failure {
	return &Failure{Code: code, Kind: kind, Message: msg, cause: cause}
}

// BadRequest keeps err as the cause. A nil err yields nil.
func BadRequest(err error) error {
	if err == nil {
		return nil
	}

	return newFailure(http.StatusBadRequest, KindValidation, err.Error(), err)
}

func BadRequestFromString(msg string) error {
	return newFailure(http.StatusBadRequest, KindValidation, msg, nil)
}

func Unauthorized(msg string) error {
	return newFailure(http.StatusUnauthorized, KindUnauthorized, msg, nil)
}

func Forbidden(msg string) error {
	return newFailure(http.StatusForbidden, KindForbidden, msg, nil)
}

// NotFound takes the full message, e.g. "room not found".
func NotFound(msg string) error {
	return newFailure(http.StatusNotFound, KindNotFound, msg, nil)
}

func Conflict(msg string) error {
	return newFailure(http.StatusConflict, KindConflict, msg, nil)
}

// IllegalStateTransition rejects an operation the entity's current status does not allow.
func IllegalStateTransition(msg string) error {
	return newFailure(http.StatusUnprocessableEntity, KindIllegalState, msg, nil)
}

// GetCode returns the HTTP status for err; anything that is not a Failure is a 500.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// GetKind returns KindInternal for errors that are not a Failure and KindUnknown for nil.
func GetKind(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Kind
	}

	return KindInternal
}
