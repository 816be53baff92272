/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package protocol

import (
	"encoding/json"
	"time"
)

// MessageType identifies the payload carried by a Message.
type MessageType string

const (
	MessageTypeRecord           MessageType = "RECORD"
	MessageTypeState            MessageType = "STATE"
	MessageTypeCatalog          MessageType = "CATALOG"
	MessageTypeConnectionStatus MessageType = "CONNECTION_STATUS"
	MessageTypeSpec             MessageType = "SPEC"
)

// SyncMode selects the extraction strategy for a configured stream.
type SyncMode string

const (
	SyncModeFullRefresh SyncMode = "full_refresh"
	SyncModeIncremental SyncMode = "incremental"
)

// ConnectionStatusValue is the outcome of a connection check.
type ConnectionStatusValue string

const (
	StatusSucceeded ConnectionStatusValue = "SUCCEEDED"
	StatusFailed    ConnectionStatusValue = "FAILED"
)

// Message is the envelope emitted on the output sequence. Exactly one of the
// payload fields is set, indicated by Type.
type Message struct {
	Type             MessageType             `json:"type"`
	Record           *Record                 `json:"record,omitempty"`
	State            *State                  `json:"state,omitempty"`
	Catalog          *Catalog                `json:"catalog,omitempty"`
	ConnectionStatus *ConnectionStatus       `json:"connectionStatus,omitempty"`
	Spec             *ConnectorSpecification `json:"spec,omitempty"`
}

// Record carries one extracted row.
type Record struct {
	Stream    string         `json:"stream"`
	Namespace string         `json:"namespace,omitempty"`
	Data      map[string]any `json:"data"`
	EmittedAt int64          `json:"emitted_at"`
}

// State is an opaque progress blob. The contents are produced by this
// connector and handed back unmodified on the next run.
type State struct {
	Data json.RawMessage `json:"data"`
}

// Catalog is the discovery output: one Stream descriptor per table.
type Catalog struct {
	Streams []Stream `json:"streams"`
}

// Stream describes a discovered table: its inferred schema, primary key and
// supported sync modes. Immutable once discovery has produced it.
type Stream struct {
	Name                    string     `json:"name"`
	Namespace               string     `json:"namespace,omitempty"`
	JSONSchema              JSONSchema `json:"json_schema"`
	SupportedSyncModes      []SyncMode `json:"supported_sync_modes"`
	SourceDefinedPrimaryKey [][]string `json:"source_defined_primary_key,omitempty"`
}

// JSONSchema is the inferred object schema of a stream.
type JSONSchema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
}

// Property is the inferred type of a single attribute. AirbyteType is an
// optional semantic annotation refining Type (e.g. a "number" that is
// integer-valued).
type Property struct {
	Type        string `json:"type"`
	AirbyteType string `json:"airbyte_type,omitempty"`
}

// ConfiguredCatalog is the read input: the subset of discovered streams to
// pull, each with a chosen sync mode and cursor field.
type ConfiguredCatalog struct {
	Streams []ConfiguredStream `json:"streams"`
}

// ConfiguredStream pairs a discovered stream with its sync configuration.
type ConfiguredStream struct {
	Stream      Stream   `json:"stream"`
	SyncMode    SyncMode `json:"sync_mode"`
	CursorField []string `json:"cursor_field,omitempty"`
}

// ConnectionStatus is the health check output.
type ConnectionStatus struct {
	Status  ConnectionStatusValue `json:"status"`
	Message string                `json:"message,omitempty"`
}

// ConnectorSpecification describes the connector and the shape of its
// connection configuration.
type ConnectorSpecification struct {
	DocumentationURL        string          `json:"documentationUrl,omitempty"`
	ConnectionSpecification json.RawMessage `json:"connectionSpecification"`
}

// CursorFieldName returns the single configured cursor attribute name, or the
// empty string when none is configured.
func (c ConfiguredStream) CursorFieldName() string {
	if len(c.CursorField) == 0 {
		return ""
	}
	return c.CursorField[0]
}

// SelectedAttributes returns the attribute names the stream's inferred schema
// knows about. Scans are restricted to this set.
func (s Stream) SelectedAttributes() []string {
	attrs := make([]string, 0, len(s.JSONSchema.Properties))
	for name := range s.JSONSchema.Properties {
		attrs = append(attrs, name)
	}
	return attrs
}

// NewRecordMessage wraps one raw row in a record envelope.
func NewRecordMessage(stream, namespace string, data map[string]any) Message {
	return Message{
		Type: MessageTypeRecord,
		Record: &Record{
			Stream:    stream,
			Namespace: namespace,
			Data:      data,
			EmittedAt: time.Now().UnixMilli(),
		},
	}
}

// NewStateMessage wraps a serialized state blob.
func NewStateMessage(blob json.RawMessage) Message {
	return Message{
		Type:  MessageTypeState,
		State: &State{Data: blob},
	}
}

// NewCatalogMessage wraps a discovered catalog.
func NewCatalogMessage(catalog Catalog) Message {
	return Message{
		Type:    MessageTypeCatalog,
		Catalog: &catalog,
	}
}

// NewConnectionStatusMessage wraps a health check outcome.
func NewConnectionStatusMessage(status ConnectionStatusValue, message string) Message {
	return Message{
		Type:             MessageTypeConnectionStatus,
		ConnectionStatus: &ConnectionStatus{Status: status, Message: message},
	}
}

// NewSpecMessage wraps the connector specification.
func NewSpecMessage(spec ConnectorSpecification) Message {
	return Message{
		Type: MessageTypeSpec,
		Spec: &spec,
	}
}
