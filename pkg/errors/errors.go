package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeFetch represents page fetch errors (network, timeout, bad status)
	ErrorTypeFetch ErrorType = "fetch"
	// ErrorTypeStore represents seen-set persistence errors
	ErrorTypeStore ErrorType = "store"
	// ErrorTypeNotify represents notification delivery errors
	ErrorTypeNotify ErrorType = "notify"
	// ErrorTypePublish represents event publishing errors
	ErrorTypePublish ErrorType = "publish"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
)

// AppError represents a wgwatcher-specific error
type AppError struct {
	Type    ErrorType
	Op      string
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *AppError) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Op, e.Message, e.Err)
	case e.Op != "":
		return fmt.Sprintf("[%s] %s: %s", e.Type, e.Op, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("[%s] %s - %v", e.Type, e.Message, e.Err)
	default:
		return fmt.Sprintf("[%s] %s", e.Type, e.Message)
	}
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// IsType reports whether err is (or wraps) an AppError of the given type
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

// New creates a new AppError
func New(errType ErrorType, op, message string, err error) *AppError {
	return &AppError{
		Type:    errType,
		Op:      op,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewFetch creates a new fetch error
func NewFetch(op, message string, err error) *AppError {
	return New(ErrorTypeFetch, op, message, err)
}

// NewStore creates a new store error
func NewStore(op, message string, err error) *AppError {
	return New(ErrorTypeStore, op, message, err)
}

// NewNotify creates a new notify error
func NewNotify(op, message string, err error) *AppError {
	return New(ErrorTypeNotify, op, message, err)
}

// NewPublish creates a new publish error
func NewPublish(op, message string, err error) *AppError {
	return New(ErrorTypePublish, op, message, err)
}

// NewConfig creates a new configuration error
func NewConfig(message string, err error) *AppError {
	return New(ErrorTypeConfig, "", message, err)
}
