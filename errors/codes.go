package errors

import (
	Errors "errors"
	"fmt"
)

// Code classifies an AppError
type Code string

const (
	CodeNotFound         Code = "NOT_FOUND"
	CodeAlreadyExists    Code = "ALREADY_EXISTS"
	CodeWrongCredential  Code = "WRONG_CREDENTIAL"
	CodePermissionDenied Code = "PERMISSION_DENIED"
	CodeTransportFailure Code = "TRANSPORT_FAILURE"
	CodeInvalidArgument  Code = "INVALID_ARGUMENT"
	CodeUnauthorized     Code = "UNAUTHORIZED"
)

// AppError is a failure of a domain operation
type AppError struct {
	Code    Code
	Problem string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Problem, e.Cause)
	}
	return string(e.Code) + ": " + e.Problem
}

func (e *AppError) Unwrap() error { return e.Cause }

// New creates an AppError
func New(code Code, problem string) error {
	return &AppError{Code: code, Problem: problem}
}

// Wrap creates an AppError caused by err
func Wrap(code Code, problem string, err error) error {
	return &AppError{Code: code, Problem: problem, Cause: err}
}

func NotFound(problem string) error {
	return New(CodeNotFound, problem)
}

func AlreadyExists(problem string) error {
	return New(CodeAlreadyExists, problem)
}

func WrongCredential(problem string) error {
	return New(CodeWrongCredential, problem)
}

func PermissionDenied(problem string) error {
	return New(CodePermissionDenied, problem)
}

func InvalidArgument(problem string) error {
	return New(CodeInvalidArgument, problem)
}

func Unauthorized(problem string) error {
	return New(CodeUnauthorized, problem)
}

// Transport wraps a backend failure (network, store, upload)
func Transport(problem string, err error) error {
	return Wrap(CodeTransportFailure, problem, err)
}

// CodeOf returns the code of err, or "" when err is not an AppError
func CodeOf(err error) Code {
	var appErr *AppError
	if Errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// Is reports whether err carries code
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}
