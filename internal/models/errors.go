package models

import (
	"errors"
	"fmt"
)

// ErrorType represents different categories of errors
type ErrorType int

const (
	ErrNetwork ErrorType = iota
	ErrParse
	ErrData
	ErrInvalidQuery
	ErrInvalidConfig
)

// String returns the string representation of ErrorType
func (e ErrorType) String() string {
	switch e {
	case ErrNetwork:
		return "Network"
	case ErrParse:
		return "Parse"
	case ErrData:
		return "Data"
	case ErrInvalidQuery:
		return "InvalidQuery"
	case ErrInvalidConfig:
		return "InvalidConfig"
	default:
		return "Unknown"
	}
}

// Lookup stages used in error and log context
const (
	StageOfficial   = "official"
	StageAURSuggest = "aur-suggest"
	StageAURInfo    = "aur-info"
)

// LookupError represents an error during package resolution
type LookupError struct {
	Type    ErrorType
	Stage   string
	Package string
	Err     error
}

// Error implements the error interface
func (e *LookupError) Error() string {
	prefix := fmt.Sprintf("[%s]", e.Type)
	if e.Stage != "" {
		prefix += " " + e.Stage
	}
	if e.Package != "" {
		return fmt.Sprintf("%s %s: %v", prefix, e.Package, e.Err)
	}
	return fmt.Sprintf("%s %v", prefix, e.Err)
}

// Unwrap returns the wrapped error
func (e *LookupError) Unwrap() error {
	return e.Err
}

// IsType reports whether err is, or wraps, a LookupError of type t
func IsType(err error, t ErrorType) bool {
	var le *LookupError
	return errors.As(err, &le) && le.Type == t
}

// Annotate returns err as a LookupError carrying stage and package context.
// Errors that are not LookupErrors are classified as fallback.
func Annotate(err error, fallback ErrorType, stage, pkg string) *LookupError {
	var le *LookupError
	if errors.As(err, &le) {
		return &LookupError{Type: le.Type, Stage: stage, Package: pkg, Err: le.Err}
	}
	return &LookupError{Type: fallback, Stage: stage, Package: pkg, Err: err}
}
