/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package dynasource

import (
	"fmt"

	"github.com/suparena/dynasource/dynamodb"
	dserrors "github.com/suparena/dynasource/errors"
	"github.com/suparena/dynasource/protocol"
	"github.com/suparena/dynasource/state"
)

// SyncPlan is one stream's extraction strategy for one run. Plans are built
// before any row is fetched, so cursor resolution errors surface up front.
type SyncPlan struct {
	StreamName string
	Namespace  string
	Mode       protocol.SyncMode

	// Attributes bounds what the scan requests: discovery-time schema
	// knowledge, even if the rows have since grown more attributes.
	Attributes []string

	// Incremental-only fields.
	CursorField string
	CursorType  CursorType
	PriorCursor string
	// Filter is the strictly-greater-than scan condition built from the
	// saved cursor. Nil on full refresh and on incremental bootstrap runs.
	Filter *dynamodb.FilterAttribute
}

// planStream selects the extraction strategy for one configured stream.
//
// Full refresh plans an unfiltered scan. Incremental without a prior cursor
// also plans an unfiltered scan (the first run is a full bootstrap) but is
// still checkpoint-decorated so a cursor is captured going forward.
// Incremental with a prior cursor plans a filtered scan that only returns
// rows whose cursor value strictly exceeds the saved one.
func planStream(configured protocol.ConfiguredStream, states *state.Manager) (*SyncPlan, error) {
	st := configured.Stream
	plan := &SyncPlan{
		StreamName: st.Name,
		Namespace:  st.Namespace,
		Mode:       configured.SyncMode,
		Attributes: st.SelectedAttributes(),
	}

	switch configured.SyncMode {
	case protocol.SyncModeFullRefresh:
		return plan, nil

	case protocol.SyncModeIncremental:
		field := configured.CursorFieldName()
		if field == "" {
			return nil, dserrors.NewValidationError("cursor_field",
				fmt.Sprintf("stream %q is incremental but has no cursor field", st.Name))
		}

		prop, ok := st.JSONSchema.Properties[field]
		if !ok {
			return nil, dserrors.NewMissingCursorAttributeError(st.Name, field)
		}

		cursorType, err := ResolveCursorType(field, prop)
		if err != nil {
			return nil, err
		}
		plan.CursorField = field
		plan.CursorType = cursorType

		// A saved cursor only carries over if it was captured on the same
		// attribute. After a cursor field reconfiguration the old value has
		// no meaning for the new field, so the run starts over as a
		// bootstrap full scan.
		if prior, ok := states.Cursor(st.Name, st.Namespace); ok && prior.Cursor != "" && prior.CursorField == field {
			plan.PriorCursor = prior.Cursor
			plan.Filter = &dynamodb.FilterAttribute{
				Name:  field,
				Value: prior.Cursor,
				Type:  cursorType.FilterType(),
			}
		}
		return plan, nil

	default:
		return nil, dserrors.NewValidationError("sync_mode",
			fmt.Sprintf("stream %q has unsupported sync mode %q", st.Name, configured.SyncMode))
	}
}
