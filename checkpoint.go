/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package dynasource

import (
	"context"
	"errors"
	"fmt"

	dserrors "github.com/suparena/dynasource/errors"
	"github.com/suparena/dynasource/protocol"
	"github.com/suparena/dynasource/state"
	"github.com/suparena/dynasource/stream"
)

// checkpointPhase is the coordinator's per-stream state machine.
type checkpointPhase int

const (
	phaseStreaming checkpointPhase = iota
	phaseEmitCheckpoint
	phaseDone
)

// checkpointIterator decorates a stream's record sequence with exactly one
// trailing state message.
//
// While streaming, records pass through unchanged and the maximum cursor
// value seen so far is retained (ties keep the later-observed value). The
// transition to checkpoint emission happens only when the underlying
// sequence is exhausted, never on a row count threshold: a partial scan must
// not advance the saved cursor past data the caller has not consumed. If the
// run saw zero rows, the prior cursor value is re-emitted unchanged.
type checkpointIterator struct {
	inner  stream.Iterator[protocol.Message]
	states *state.Manager

	streamName  string
	namespace   string
	cursorField string
	cursorType  CursorType

	max    string
	hasMax bool
	phase  checkpointPhase
	closed bool
}

// withCheckpoint wraps a record sequence so that cursor progress is captured
// and emitted after the last record. prior is the saved cursor value from
// the previous run, or empty on a bootstrap run.
func withCheckpoint(inner stream.Iterator[protocol.Message], states *state.Manager,
	streamName, namespace, cursorField string, cursorType CursorType, prior string) stream.Iterator[protocol.Message] {
	return &checkpointIterator{
		inner:       inner,
		states:      states,
		streamName:  streamName,
		namespace:   namespace,
		cursorField: cursorField,
		cursorType:  cursorType,
		max:         prior,
		hasMax:      prior != "",
	}
}

func (c *checkpointIterator) Next(ctx context.Context) (protocol.Message, error) {
	var zero protocol.Message
	if c.closed {
		return zero, dserrors.ErrClosed
	}

	switch c.phase {
	case phaseStreaming:
		msg, err := c.inner.Next(ctx)
		if errors.Is(err, stream.Done) {
			c.phase = phaseEmitCheckpoint
			return c.emit()
		}
		if err != nil {
			return zero, err
		}
		if msg.Type == protocol.MessageTypeRecord {
			if err := c.observe(msg.Record); err != nil {
				_ = c.inner.Close()
				return zero, err
			}
		}
		return msg, nil

	case phaseEmitCheckpoint:
		return c.emit()

	default:
		return zero, stream.Done
	}
}

// observe retains the running maximum cursor value.
func (c *checkpointIterator) observe(rec *protocol.Record) error {
	value, ok := rec.Data[c.cursorField]
	if !ok || value == nil {
		return nil
	}

	coerced, err := c.cursorType.Coerce(value)
	if err != nil {
		return fmt.Errorf("stream %q: %w", c.streamName, err)
	}

	if !c.hasMax {
		c.max = coerced
		c.hasMax = true
		return nil
	}

	cmp, err := c.cursorType.Compare(coerced, c.max)
	if err != nil {
		return fmt.Errorf("stream %q: %w", c.streamName, err)
	}
	// Ties keep the later-observed value.
	if cmp >= 0 {
		c.max = coerced
	}
	return nil
}

// emit produces the single checkpoint message and moves to the terminal
// phase.
func (c *checkpointIterator) emit() (protocol.Message, error) {
	c.phase = phaseDone

	msg, err := c.states.Advance(state.CursorState{
		StreamName:  c.streamName,
		Namespace:   c.namespace,
		CursorField: c.cursorField,
		Cursor:      c.max,
	})
	if err != nil {
		return protocol.Message{}, fmt.Errorf("stream %q: failed to emit checkpoint: %w", c.streamName, err)
	}
	return msg, nil
}

func (c *checkpointIterator) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.phase = phaseDone
	return c.inner.Close()
}
