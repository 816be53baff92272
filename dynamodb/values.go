/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package dynamodb

import (
	"encoding/base64"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ItemToMap converts a raw row into a plain attribute map suitable for the
// record envelope. Numbers become json.Number so arbitrary-precision values
// survive the round trip to JSON.
func ItemToMap(item Item) map[string]any {
	out := make(map[string]any, len(item))
	for name, av := range item {
		out[name] = attributeToValue(av)
	}
	return out
}

func attributeToValue(av types.AttributeValue) any {
	switch tv := av.(type) {
	case *types.AttributeValueMemberS:
		return tv.Value

	case *types.AttributeValueMemberN:
		return json.Number(tv.Value)

	case *types.AttributeValueMemberBOOL:
		return tv.Value

	case *types.AttributeValueMemberNULL:
		return nil

	case *types.AttributeValueMemberB:
		return base64.StdEncoding.EncodeToString(tv.Value)

	case *types.AttributeValueMemberM:
		m := make(map[string]any, len(tv.Value))
		for k, v := range tv.Value {
			m[k] = attributeToValue(v)
		}
		return m

	case *types.AttributeValueMemberL:
		l := make([]any, 0, len(tv.Value))
		for _, v := range tv.Value {
			l = append(l, attributeToValue(v))
		}
		return l

	case *types.AttributeValueMemberSS:
		l := make([]any, 0, len(tv.Value))
		for _, v := range tv.Value {
			l = append(l, v)
		}
		return l

	case *types.AttributeValueMemberNS:
		l := make([]any, 0, len(tv.Value))
		for _, v := range tv.Value {
			l = append(l, json.Number(v))
		}
		return l

	case *types.AttributeValueMemberBS:
		l := make([]any, 0, len(tv.Value))
		for _, v := range tv.Value {
			l = append(l, base64.StdEncoding.EncodeToString(v))
		}
		return l

	default:
		// fallback if an unknown type
		return nil
	}
}
