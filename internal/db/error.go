package db

import "errors"

// DuplicateKeyError is an error type for duplicate key errors
type DuplicateKeyError struct {
	Key     string
	Message string
}

func (e *DuplicateKeyError) Error() string {
	return e.Message
}

func IsDuplicateKeyError(err error) bool {
	var target *DuplicateKeyError
	return errors.As(err, &target)
}

// Not found Error
type NotFoundError struct {
	Key     string
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func IsNotFoundError(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// ConflictError is returned when an optimistic update lost the race against
// a concurrent writer
type ConflictError struct {
	Key     string
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func IsConflictError(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

// InsufficientBalanceError is returned when a transfer source cannot cover the amount
type InsufficientBalanceError struct {
	Key     string
	Message string
}

func (e *InsufficientBalanceError) Error() string {
	return e.Message
}

func IsInsufficientBalanceError(err error) bool {
	var target *InsufficientBalanceError
	return errors.As(err, &target)
}
