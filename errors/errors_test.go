/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestConnectivityError(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := NewConnectivityError("ListTables", cause)

	// Test error message
	expected := `ListTables: store unreachable: dial tcp: connection refused`
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}

	// Test Is method
	if !errors.Is(err, ErrConnectivity) {
		t.Error("ConnectivityError should match ErrConnectivity")
	}

	// Test unwrapping to the cause
	if !errors.Is(err, cause) {
		t.Error("ConnectivityError should unwrap to its cause")
	}

	// Test helper function
	if !IsConnectivity(err) {
		t.Error("IsConnectivity should return true for ConnectivityError")
	}
}

func TestUnsupportedCursorTypeError(t *testing.T) {
	err := NewUnsupportedCursorTypeError("price", "number")

	// Test error message
	expected := `cursor field "price" has unsupported type "number" for filtering`
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}

	// Test Is method
	if !errors.Is(err, ErrUnsupportedCursorType) {
		t.Error("UnsupportedCursorTypeError should match ErrUnsupportedCursorType")
	}

	// Test helper function
	if !IsUnsupportedCursorType(err) {
		t.Error("IsUnsupportedCursorType should return true for UnsupportedCursorTypeError")
	}
}

func TestMissingCursorAttributeError(t *testing.T) {
	err := NewMissingCursorAttributeError("orders", "updated_at")

	// Test error message
	expected := `stream "orders" has no attribute "updated_at" in its schema`
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}

	// Test Is method
	if !errors.Is(err, ErrMissingCursorAttribute) {
		t.Error("MissingCursorAttributeError should match ErrMissingCursorAttribute")
	}

	// Test helper function
	if !IsMissingCursorAttribute(err) {
		t.Error("IsMissingCursorAttribute should return true for MissingCursorAttributeError")
	}
}

func TestValidationError(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		message  string
		expected string
	}{
		{
			name:     "with field",
			field:    "region",
			message:  "must not be empty",
			expected: `validation failed for field "region": must not be empty`,
		},
		{
			name:     "without field",
			field:    "",
			message:  "config is nil",
			expected: "validation failed: config is nil",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewValidationError(tt.field, tt.message)
			if err.Error() != tt.expected {
				t.Errorf("Expected error message %q, got %q", tt.expected, err.Error())
			}
			if !IsValidationError(err) {
				t.Error("IsValidationError should return true for ValidationError")
			}
		})
	}
}

func TestErrorWrapping(t *testing.T) {
	base := NewMissingCursorAttributeError("orders", "updated_at")
	wrapped := fmt.Errorf("planning stream: %w", base)

	if !errors.Is(wrapped, ErrMissingCursorAttribute) {
		t.Error("wrapped error should still match ErrMissingCursorAttribute")
	}
	if !IsMissingCursorAttribute(wrapped) {
		t.Error("IsMissingCursorAttribute should see through wrapping")
	}
}
