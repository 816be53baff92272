/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package dynasource

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/dynasource/protocol"
)

// InferSchema derives an approximate attribute schema for a table by
// sampling up to limit rows. The attribute set is the union of attribute
// names across sampled rows; each attribute's type comes from the first
// non-null value observed. Numeric attributes start as integer and widen to
// number if any sampled value carries a fractional component.
//
// Attributes whose sampled values are all null are omitted rather than
// reported as errors. An empty table yields an empty mapping. Attributes
// that only appear beyond the sample window are not discovered; that is the
// accepted cost of keeping discovery fast on large tables.
func InferSchema(ctx context.Context, client TableClient, table string, limit int) (map[string]protocol.Property, error) {
	rows, err := client.SampleRows(ctx, table, limit)
	if err != nil {
		return nil, err
	}

	props := make(map[string]protocol.Property)
	for _, row := range rows {
		for name, av := range row {
			prop, ok := inferProperty(av)
			if !ok {
				continue
			}
			existing, seen := props[name]
			if !seen {
				props[name] = prop
				continue
			}
			// A later fractional sample widens integer to number.
			if existing.Type == "integer" && prop.Type == "number" {
				props[name] = prop
			}
		}
	}
	return props, nil
}

// inferProperty maps one attribute value to a JSON-ish type. The second
// return is false for null values, which carry no type information.
func inferProperty(av types.AttributeValue) (protocol.Property, bool) {
	switch tv := av.(type) {
	case *types.AttributeValueMemberNULL:
		return protocol.Property{}, false

	case *types.AttributeValueMemberS:
		return protocol.Property{Type: "string"}, true

	case *types.AttributeValueMemberN:
		if isIntegral(tv.Value) {
			return protocol.Property{Type: "integer"}, true
		}
		return protocol.Property{Type: "number"}, true

	case *types.AttributeValueMemberBOOL:
		return protocol.Property{Type: "boolean"}, true

	case *types.AttributeValueMemberM:
		return protocol.Property{Type: "object"}, true

	case *types.AttributeValueMemberL,
		*types.AttributeValueMemberSS,
		*types.AttributeValueMemberNS,
		*types.AttributeValueMemberBS:
		return protocol.Property{Type: "array"}, true

	case *types.AttributeValueMemberB:
		// Binary surfaces as a base64 string in records.
		return protocol.Property{Type: "string"}, true

	default:
		return protocol.Property{}, false
	}
}

// isIntegral reports whether a DynamoDB number literal has no fractional or
// exponent component.
func isIntegral(literal string) bool {
	return !strings.ContainsAny(literal, ".eE")
}
