/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package dynasource

import (
	"encoding/json"

	"github.com/suparena/dynasource/protocol"
)

// connectionSpecification describes the connector's configuration shape for
// downstream tooling.
const connectionSpecification = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "DynamoDB Source Spec",
  "type": "object",
  "required": ["region"],
  "properties": {
    "endpoint": {
      "type": "string",
      "title": "Endpoint",
      "description": "Overrides the DynamoDB endpoint, e.g. for a local stack"
    },
    "region": {
      "type": "string",
      "title": "Region",
      "description": "AWS region of the target tables"
    },
    "access_key_id": {
      "type": "string",
      "title": "Access Key ID",
      "airbyte_secret": true
    },
    "secret_access_key": {
      "type": "string",
      "title": "Secret Access Key",
      "airbyte_secret": true
    },
    "sample_size": {
      "type": "integer",
      "title": "Schema Sample Size",
      "description": "Row limit for schema inference during discovery",
      "default": 1000
    }
  }
}`

// Spec returns the connector specification.
func Spec() protocol.ConnectorSpecification {
	return protocol.ConnectorSpecification{
		DocumentationURL:        "https://github.com/suparena/dynasource",
		ConnectionSpecification: json.RawMessage(connectionSpecification),
	}
}
