package types

import (
	"errors"
	"net/http"
)

type ErrorCode string

const (
	InternalServiceError     ErrorCode = "INTERNAL_SERVICE_ERROR"
	ValidationError          ErrorCode = "VALIDATION_ERROR"
	BadRequest               ErrorCode = "BAD_REQUEST"
	NotFound                 ErrorCode = "NOT_FOUND"
	AlreadyExists            ErrorCode = "ALREADY_EXISTS"
	Unauthorized             ErrorCode = "UNAUTHORIZED"
	InsufficientStakedAmount ErrorCode = "INSUFFICIENT_STAKED_AMOUNT"
	InsufficientFunds        ErrorCode = "INSUFFICIENT_FUNDS"
	StorageConflict          ErrorCode = "STORAGE_CONFLICT"
	Overflow                 ErrorCode = "OVERFLOW"
)

func (e ErrorCode) String() string {
	return string(e)
}

// Error is the error returned across the service boundary. StatusCode is the
// HTTP status the api layer responds with.
type Error struct {
	Err        error
	StatusCode int
	ErrorCode  ErrorCode
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(statusCode int, errorCode ErrorCode, err error) *Error {
	return &Error{
		Err:        err,
		StatusCode: statusCode,
		ErrorCode:  errorCode,
	}
}

func NewErrorWithMsg(statusCode int, errorCode ErrorCode, msg string) *Error {
	return &Error{
		Err:        errors.New(msg),
		StatusCode: statusCode,
		ErrorCode:  errorCode,
	}
}

func NewInternalServiceError(err error) *Error {
	return NewError(http.StatusInternalServerError, InternalServiceError, err)
}

func NewValidationFailedError(err error) *Error {
	return NewError(http.StatusBadRequest, ValidationError, err)
}
