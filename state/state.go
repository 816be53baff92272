/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package state

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/suparena/dynasource/protocol"
)

// CursorState is the saved progress of one stream: the cursor attribute and
// the last value durably delivered downstream.
type CursorState struct {
	StreamName  string `json:"stream_name"`
	Namespace   string `json:"namespace,omitempty"`
	CursorField string `json:"cursor_field"`
	Cursor      string `json:"cursor"`
}

type streamKey struct {
	name      string
	namespace string
}

// Manager holds per-stream cursor state for one read invocation. It is the
// sole writer of emitted state messages: cursor advancement goes through
// Advance, which returns the state message to append to the output sequence.
type Manager struct {
	mu     sync.RWMutex
	states map[streamKey]CursorState
	order  []streamKey
}

// NewManager parses a prior-state blob. A nil or empty blob yields an empty
// manager, which makes every incremental stream behave like a first run.
func NewManager(blob json.RawMessage) (*Manager, error) {
	m := &Manager{states: make(map[streamKey]CursorState)}
	if len(blob) == 0 {
		return m, nil
	}

	var states []CursorState
	if err := json.Unmarshal(blob, &states); err != nil {
		return nil, fmt.Errorf("failed to parse state blob: %w", err)
	}
	for _, cs := range states {
		m.set(cs)
	}
	return m, nil
}

// Cursor returns the saved cursor state for a stream, if any.
func (m *Manager) Cursor(name, namespace string) (CursorState, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cs, ok := m.states[streamKey{name: name, namespace: namespace}]
	return cs, ok
}

// Advance records the new cursor state for a stream and returns the state
// message carrying the full blob, so a consumer persisting the latest state
// message keeps the cursors of every stream processed so far.
func (m *Manager) Advance(cs CursorState) (protocol.Message, error) {
	m.mu.Lock()
	m.set(cs)
	m.mu.Unlock()

	blob, err := m.Serialize()
	if err != nil {
		return protocol.Message{}, err
	}
	return protocol.NewStateMessage(blob), nil
}

// Serialize renders the current state map as the opaque blob handed to the
// next run. Streams serialize in first-seen order.
func (m *Manager) Serialize() (json.RawMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	states := make([]CursorState, 0, len(m.order))
	for _, k := range m.order {
		states = append(states, m.states[k])
	}
	blob, err := json.Marshal(states)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize state: %w", err)
	}
	return blob, nil
}

func (m *Manager) set(cs CursorState) {
	k := streamKey{name: cs.StreamName, namespace: cs.Namespace}
	if _, exists := m.states[k]; !exists {
		m.order = append(m.order, k)
	}
	m.states[k] = cs
}
