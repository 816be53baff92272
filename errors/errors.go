/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrConnectivity is returned when the store cannot be reached
	ErrConnectivity = errors.New("store unreachable")

	// ErrUnsupportedCursorType is returned when a cursor attribute's type cannot be used for filtering
	ErrUnsupportedCursorType = errors.New("unsupported cursor type")

	// ErrMissingCursorAttribute is returned when a declared cursor field is absent from the inferred schema
	ErrMissingCursorAttribute = errors.New("cursor attribute not in schema")

	// ErrClosed is returned when an operation is attempted on a closed iterator or client
	ErrClosed = errors.New("already closed")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)

// ConnectivityError represents a failure to reach the underlying store
type ConnectivityError struct {
	Op  string
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("%s: store unreachable: %v", e.Op, e.Err)
}

func (e *ConnectivityError) Is(target error) bool {
	return target == ErrConnectivity
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}

// UnsupportedCursorTypeError represents a cursor attribute whose inferred type
// cannot be mapped to a native comparison type
type UnsupportedCursorTypeError struct {
	Field string
	Type  string
}

func (e *UnsupportedCursorTypeError) Error() string {
	return fmt.Sprintf("cursor field %q has unsupported type %q for filtering", e.Field, e.Type)
}

func (e *UnsupportedCursorTypeError) Is(target error) bool {
	return target == ErrUnsupportedCursorType
}

// MissingCursorAttributeError represents a declared cursor field that is not
// part of the stream's inferred schema
type MissingCursorAttributeError struct {
	Stream string
	Field  string
}

func (e *MissingCursorAttributeError) Error() string {
	return fmt.Sprintf("stream %q has no attribute %q in its schema", e.Stream, e.Field)
}

func (e *MissingCursorAttributeError) Is(target error) bool {
	return target == ErrMissingCursorAttribute
}

// ValidationError represents an input validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Helper functions for creating errors

// NewConnectivityError creates a new ConnectivityError
func NewConnectivityError(op string, err error) error {
	return &ConnectivityError{Op: op, Err: err}
}

// NewUnsupportedCursorTypeError creates a new UnsupportedCursorTypeError
func NewUnsupportedCursorTypeError(field, typ string) error {
	return &UnsupportedCursorTypeError{Field: field, Type: typ}
}

// NewMissingCursorAttributeError creates a new MissingCursorAttributeError
func NewMissingCursorAttributeError(stream, field string) error {
	return &MissingCursorAttributeError{Stream: stream, Field: field}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsConnectivity checks if an error is a connectivity error
func IsConnectivity(err error) bool {
	return errors.Is(err, ErrConnectivity)
}

// IsUnsupportedCursorType checks if an error is an unsupported cursor type error
func IsUnsupportedCursorType(err error) bool {
	return errors.Is(err, ErrUnsupportedCursorType)
}

// IsMissingCursorAttribute checks if an error is a missing cursor attribute error
func IsMissingCursorAttribute(err error) bool {
	return errors.Is(err, ErrMissingCursorAttribute)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
