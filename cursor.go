/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package dynasource

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/suparena/dynasource/dynamodb"
	dserrors "github.com/suparena/dynasource/errors"
	"github.com/suparena/dynasource/protocol"
)

// CursorType is the native comparison type a cursor attribute resolves to.
// Cursor values are only comparable within one resolved type.
type CursorType string

const (
	// CursorString compares values lexicographically.
	CursorString CursorType = "string"
	// CursorNumber compares values numerically with arbitrary precision.
	CursorNumber CursorType = "number"
)

// ResolveCursorType maps an inferred property type, plus its optional
// semantic annotation, to a native comparison type. Resolution happens once
// per incremental stream per run, before any row is fetched, so unsupported
// cursors fail immediately rather than mid-scan.
//
// A floating-point number cursor is rejected unless the semantic annotation
// marks it integer-valued: numeric drift across incremental boundaries is
// not supported.
func ResolveCursorType(field string, prop protocol.Property) (CursorType, error) {
	switch prop.Type {
	case "string":
		return CursorString, nil
	case "integer":
		return CursorNumber, nil
	case "number":
		if prop.AirbyteType == "integer" {
			return CursorNumber, nil
		}
		return "", dserrors.NewUnsupportedCursorTypeError(field, prop.Type)
	default:
		return "", dserrors.NewUnsupportedCursorTypeError(field, prop.Type)
	}
}

// FilterType translates the comparison type into the scan filter's native
// attribute type.
func (t CursorType) FilterType() dynamodb.FilterType {
	if t == CursorNumber {
		return dynamodb.FilterNumber
	}
	return dynamodb.FilterString
}

// Coerce converts a record's cursor attribute value into the comparable
// string form. A value of the wrong kind fails fast; comparing across types
// is undefined.
func (t CursorType) Coerce(value any) (string, error) {
	switch t {
	case CursorString:
		s, ok := value.(string)
		if !ok {
			return "", fmt.Errorf("cursor value %v (%T) is not a string", value, value)
		}
		return s, nil
	case CursorNumber:
		n, ok := value.(json.Number)
		if !ok {
			return "", fmt.Errorf("cursor value %v (%T) is not a number", value, value)
		}
		return n.String(), nil
	default:
		return "", fmt.Errorf("unknown cursor type %q", t)
	}
}

// Compare orders two cursor values under the resolved type. It returns a
// negative, zero or positive result like strings.Compare.
func (t CursorType) Compare(a, b string) (int, error) {
	switch t {
	case CursorString:
		return strings.Compare(a, b), nil
	case CursorNumber:
		af, _, err := big.ParseFloat(a, 10, 256, big.ToNearestEven)
		if err != nil {
			return 0, fmt.Errorf("malformed numeric cursor %q: %w", a, err)
		}
		bf, _, err := big.ParseFloat(b, 10, 256, big.ToNearestEven)
		if err != nil {
			return 0, fmt.Errorf("malformed numeric cursor %q: %w", b, err)
		}
		return af.Cmp(bf), nil
	default:
		return 0, fmt.Errorf("unknown cursor type %q", t)
	}
}
