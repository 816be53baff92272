/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package dynasource

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/dynasource/dynamodb"
	"github.com/suparena/dynasource/dynamodb/mock"
	"github.com/suparena/dynasource/protocol"
)

func attrS(v string) types.AttributeValue { return &types.AttributeValueMemberS{Value: v} }
func attrN(v string) types.AttributeValue { return &types.AttributeValueMemberN{Value: v} }
func attrBool(v bool) types.AttributeValue {
	return &types.AttributeValueMemberBOOL{Value: v}
}
func attrNull() types.AttributeValue { return &types.AttributeValueMemberNULL{Value: true} }

func TestInferSchemaUnionBelowSampleLimit(t *testing.T) {
	client := mock.New().WithTable("orders", "id",
		dynamodb.Item{"id": attrN("1"), "updated": attrS("2023-01-01")},
		dynamodb.Item{"id": attrN("2"), "amt": attrN("20")},
	)

	props, err := InferSchema(context.Background(), client, "orders", 1000)
	require.NoError(t, err)

	// With fewer rows than the sample limit, the attribute set is the
	// union across all rows.
	assert.Len(t, props, 3)
	assert.Equal(t, protocol.Property{Type: "integer"}, props["id"])
	assert.Equal(t, protocol.Property{Type: "string"}, props["updated"])
	assert.Equal(t, protocol.Property{Type: "integer"}, props["amt"])
}

func TestInferSchemaSampleLimitBoundsCoverage(t *testing.T) {
	client := mock.New().WithTable("orders", "id",
		dynamodb.Item{"id": attrN("1")},
		dynamodb.Item{"id": attrN("2"), "late": attrS("only past the window")},
	)

	props, err := InferSchema(context.Background(), client, "orders", 1)
	require.NoError(t, err)

	// An attribute that only appears beyond the sample window is not
	// discovered for this run.
	assert.Len(t, props, 1)
	_, ok := props["late"]
	assert.False(t, ok)
}

func TestInferSchemaTypes(t *testing.T) {
	client := mock.New().WithTable("mixed", "id",
		dynamodb.Item{
			"id":     attrN("1"),
			"name":   attrS("widget"),
			"price":  attrN("19.99"),
			"active": attrBool(true),
			"meta": &types.AttributeValueMemberM{Value: map[string]types.AttributeValue{
				"k": attrS("v"),
			}},
			"tags": &types.AttributeValueMemberL{Value: []types.AttributeValue{attrS("a")}},
			"blob": &types.AttributeValueMemberB{Value: []byte{1, 2}},
		},
	)

	props, err := InferSchema(context.Background(), client, "mixed", 1000)
	require.NoError(t, err)

	assert.Equal(t, "integer", props["id"].Type)
	assert.Equal(t, "string", props["name"].Type)
	assert.Equal(t, "number", props["price"].Type)
	assert.Equal(t, "boolean", props["active"].Type)
	assert.Equal(t, "object", props["meta"].Type)
	assert.Equal(t, "array", props["tags"].Type)
	assert.Equal(t, "string", props["blob"].Type)
}

func TestInferSchemaIntegerWidensToNumber(t *testing.T) {
	client := mock.New().WithTable("events", "id",
		dynamodb.Item{"id": attrN("1"), "score": attrN("10")},
		dynamodb.Item{"id": attrN("2"), "score": attrN("10.5")},
	)

	props, err := InferSchema(context.Background(), client, "events", 1000)
	require.NoError(t, err)

	assert.Equal(t, "number", props["score"].Type,
		"a fractional sample should widen the attribute to number")
}

func TestInferSchemaNullsResolveByOmission(t *testing.T) {
	client := mock.New().WithTable("sparse", "id",
		dynamodb.Item{"id": attrN("1"), "ghost": attrNull()},
		dynamodb.Item{"id": attrN("2"), "ghost": attrNull(), "late": attrS("x")},
	)

	props, err := InferSchema(context.Background(), client, "sparse", 1000)
	require.NoError(t, err)

	// All-null attributes are omitted, not errors.
	_, ok := props["ghost"]
	assert.False(t, ok)
	assert.Equal(t, "string", props["late"].Type)
}

func TestInferSchemaFirstNonNullWins(t *testing.T) {
	client := mock.New().WithTable("sparse", "id",
		dynamodb.Item{"id": attrN("1"), "v": attrNull()},
		dynamodb.Item{"id": attrN("2"), "v": attrS("later")},
	)

	props, err := InferSchema(context.Background(), client, "sparse", 1000)
	require.NoError(t, err)

	assert.Equal(t, "string", props["v"].Type)
}

func TestInferSchemaEmptyTable(t *testing.T) {
	client := mock.New().WithTable("empty", "id")

	props, err := InferSchema(context.Background(), client, "empty", 1000)
	require.NoError(t, err)
	assert.Empty(t, props)
}
