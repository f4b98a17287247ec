package models

import (
	"errors"
	"fmt"
)

// ErrorCode classifies service errors so the API layer can map them to HTTP
// statuses without string matching.
type ErrorCode string

const (
	CodeNotAuthorized           ErrorCode = "NOT_AUTHORIZED"
	CodeInsufficientPermissions ErrorCode = "INSUFFICIENT_PERMISSIONS"
	CodeNotFound                ErrorCode = "NOT_FOUND"
	CodeInvalidInput            ErrorCode = "INVALID_INPUT"
	CodeInvalidStatusTransition ErrorCode = "INVALID_STATUS_TRANSITION"
	CodeIncompleteUpload        ErrorCode = "INCOMPLETE_UPLOAD"
	CodeInvalidChunkIndex       ErrorCode = "INVALID_CHUNK_INDEX"
	CodeAlreadyProcessed        ErrorCode = "ALREADY_PROCESSED"
	CodeAlreadyExists           ErrorCode = "ALREADY_EXISTS"
	CodeExternalCallFailure     ErrorCode = "EXTERNAL_CALL_FAILURE"
	CodeInternal                ErrorCode = "INTERNAL"
)

// AppError is a service-level error with a machine-readable code.
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches any AppError with the same code, so tests can compare against a
// bare code error.
func (e *AppError) Is(target error) bool {
	var other *AppError
	if errors.As(target, &other) {
		return e.Code == other.Code
	}
	return false
}

func NewError(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func WrapError(code ErrorCode, err error, format string, args ...interface{}) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...), Err: err}
}

func ErrNotAuthorized(format string, args ...interface{}) *AppError {
	return NewError(CodeNotAuthorized, format, args...)
}

func ErrInsufficientPermissions(format string, args ...interface{}) *AppError {
	return NewError(CodeInsufficientPermissions, format, args...)
}

func ErrNotFound(format string, args ...interface{}) *AppError {
	return NewError(CodeNotFound, format, args...)
}

func ErrInvalidInput(format string, args ...interface{}) *AppError {
	return NewError(CodeInvalidInput, format, args...)
}

func ErrInvalidStatusTransition(from, to ReviewStatus) *AppError {
	return NewError(CodeInvalidStatusTransition, "transition %s -> %s is not allowed", from, to)
}

func ErrIncompleteUpload(format string, args ...interface{}) *AppError {
	return NewError(CodeIncompleteUpload, format, args...)
}

func ErrInvalidChunkIndex(index, total int) *AppError {
	return NewError(CodeInvalidChunkIndex, "chunk index %d out of range (total %d)", index, total)
}

func ErrAlreadyProcessed(format string, args ...interface{}) *AppError {
	return NewError(CodeAlreadyProcessed, format, args...)
}

func ErrAlreadyExists(format string, args ...interface{}) *AppError {
	return NewError(CodeAlreadyExists, format, args...)
}

func ErrExternalCall(err error, format string, args ...interface{}) *AppError {
	return WrapError(CodeExternalCallFailure, err, format, args...)
}

// CodeOf extracts the error code, defaulting to CodeInternal for plain errors.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}
