/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package dynamodb

import (
	"encoding/json"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
)

func TestItemToMapScalars(t *testing.T) {
	item := Item{
		"name":    &types.AttributeValueMemberS{Value: "widget"},
		"qty":     &types.AttributeValueMemberN{Value: "12"},
		"price":   &types.AttributeValueMemberN{Value: "19.99"},
		"active":  &types.AttributeValueMemberBOOL{Value: true},
		"deleted": &types.AttributeValueMemberNULL{Value: true},
	}

	got := ItemToMap(item)

	assert.Equal(t, "widget", got["name"])
	assert.Equal(t, json.Number("12"), got["qty"])
	assert.Equal(t, json.Number("19.99"), got["price"])
	assert.Equal(t, true, got["active"])
	assert.Nil(t, got["deleted"])
}

func TestItemToMapNested(t *testing.T) {
	item := Item{
		"address": &types.AttributeValueMemberM{Value: map[string]types.AttributeValue{
			"city": &types.AttributeValueMemberS{Value: "Oakville"},
			"zip":  &types.AttributeValueMemberN{Value: "90210"},
		}},
		"tags": &types.AttributeValueMemberL{Value: []types.AttributeValue{
			&types.AttributeValueMemberS{Value: "a"},
			&types.AttributeValueMemberN{Value: "2"},
		}},
	}

	got := ItemToMap(item)

	addr, ok := got["address"].(map[string]any)
	assert.True(t, ok)
	assert.Equal(t, "Oakville", addr["city"])
	assert.Equal(t, json.Number("90210"), addr["zip"])

	tags, ok := got["tags"].([]any)
	assert.True(t, ok)
	assert.Equal(t, []any{"a", json.Number("2")}, tags)
}

func TestItemToMapSetsAndBinary(t *testing.T) {
	item := Item{
		"blob": &types.AttributeValueMemberB{Value: []byte("hi")},
		"ss":   &types.AttributeValueMemberSS{Value: []string{"x", "y"}},
		"ns":   &types.AttributeValueMemberNS{Value: []string{"1", "2"}},
	}

	got := ItemToMap(item)

	assert.Equal(t, "aGk=", got["blob"])
	assert.Equal(t, []any{"x", "y"}, got["ss"])
	assert.Equal(t, []any{json.Number("1"), json.Number("2")}, got["ns"])
}

func TestItemToMapNumberPrecision(t *testing.T) {
	// DynamoDB numbers exceed float64 precision; the mapping must not lose digits.
	item := Item{
		"big": &types.AttributeValueMemberN{Value: "12345678901234567890123456789"},
	}

	got := ItemToMap(item)

	raw, err := json.Marshal(got)
	assert.NoError(t, err)
	assert.Contains(t, string(raw), "12345678901234567890123456789")
}
