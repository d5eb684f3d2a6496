package types

import "net/http"

type ErrorCode string

const (
	InternalServiceError ErrorCode = "INTERNAL_SERVICE_ERROR"
	ValidationError      ErrorCode = "VALIDATION_ERROR"
	BadRequest           ErrorCode = "BAD_REQUEST"
	NotFound             ErrorCode = "NOT_FOUND"
	Unauthorized         ErrorCode = "UNAUTHORIZED"
	Forbidden            ErrorCode = "FORBIDDEN"
	InvalidAmount        ErrorCode = "INVALID_AMOUNT"
	InsufficientBalance  ErrorCode = "INSUFFICIENT_BALANCE"
	InsufficientStake    ErrorCode = "INSUFFICIENT_STAKE"
	NothingToWithdraw    ErrorCode = "NOTHING_TO_WITHDRAW"
	AmountOverflow       ErrorCode = "AMOUNT_OVERFLOW"
)

// Error is the service level error. It carries the HTTP status code and the
// error code rendered to API clients.
type Error struct {
	StatusCode int
	ErrorCode  ErrorCode
	Err        error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(statusCode int, errorCode ErrorCode, err error) *Error {
	return &Error{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Err:        err,
	}
}

func NewInternalServiceError(err error) *Error {
	return NewError(http.StatusInternalServerError, InternalServiceError, err)
}

func NewValidationFailedError(err error) *Error {
	return NewError(http.StatusBadRequest, ValidationError, err)
}
