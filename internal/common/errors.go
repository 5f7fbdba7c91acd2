package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Error taxonomy. Fetch and decode errors are fatal for a request; page
// extraction and item validation errors are absorbed and only degrade output.
var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrFetch          = errors.New("document fetch failed")
	ErrDecode         = errors.New("document decode failed")
	ErrPageExtraction = errors.New("page extraction failed")
	ErrItemValidation = errors.New("item validation failed")
	ErrInternal       = errors.New("internal error")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// FetchError wraps err so that errors.Is(err, ErrFetch) holds.
func FetchError(message string, err error) error {
	return fmt.Errorf("%s: %w: %w", message, ErrFetch, err)
}

// DecodeError wraps err so that errors.Is(err, ErrDecode) holds.
func DecodeError(message string, err error) error {
	if err == nil {
		return fmt.Errorf("%s: %w", message, ErrDecode)
	}
	return fmt.Errorf("%s: %w: %w", message, ErrDecode, err)
}
