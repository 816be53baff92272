/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package dynasource

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/suparena/dynasource/dynamodb"
	"github.com/suparena/dynasource/protocol"
	"github.com/suparena/dynasource/state"
	"github.com/suparena/dynasource/stream"
)

// defaultSampleLimit is the discovery sample size when the config does not
// override it.
const defaultSampleLimit = 1000

// TableClient is the table client surface the extraction engine depends on.
// *dynamodb.Client implements it; tests substitute fakes.
//
// The client is a scoped resource: the engine acquires one per invocation
// and releases it on every exit path. The client only ever receives cursor
// values as immutable filter arguments; it has no access to cursor state.
type TableClient interface {
	ListTables(ctx context.Context) ([]string, error)
	PrimaryKey(ctx context.Context, table string) ([]string, error)
	SampleRows(ctx context.Context, table string, limit int) ([]dynamodb.Item, error)
	ScanTable(ctx context.Context, table string, attributes []string, filter *dynamodb.FilterAttribute) (stream.Iterator[dynamodb.Item], error)
	Close() error
}

// Source extracts records from DynamoDB tables and emits them as a uniform
// event stream, supporting full re-extraction and resumable incremental
// extraction keyed on a per-stream cursor attribute.
type Source struct {
	cfg       *dynamodb.Config
	newClient func(ctx context.Context) (TableClient, error)
}

// New creates a Source for the given connection config.
func New(cfg *dynamodb.Config) *Source {
	return &Source{
		cfg: cfg,
		newClient: func(ctx context.Context) (TableClient, error) {
			return dynamodb.NewClient(ctx, cfg)
		},
	}
}

func (s *Source) sampleLimit() int {
	if s.cfg != nil && s.cfg.SampleSize > 0 {
		return s.cfg.SampleSize
	}
	return defaultSampleLimit
}

func runLogger(op string) *logrus.Entry {
	return logrus.WithFields(logrus.Fields{
		"run_id": uuid.NewString(),
		"op":     op,
	})
}

// Check verifies connectivity by listing tables against the target store.
// Failures are reported in the status rather than returned as errors.
func (s *Source) Check(ctx context.Context) protocol.ConnectionStatus {
	logger := runLogger("check")

	client, err := s.newClient(ctx)
	if err != nil {
		logger.WithError(err).Error("failed to create table client")
		return protocol.ConnectionStatus{Status: protocol.StatusFailed, Message: err.Error()}
	}
	defer client.Close()

	if _, err := client.ListTables(ctx); err != nil {
		logger.WithError(err).Error("connection check failed")
		return protocol.ConnectionStatus{Status: protocol.StatusFailed, Message: err.Error()}
	}

	logger.Info("connection check succeeded")
	return protocol.ConnectionStatus{Status: protocol.StatusSucceeded}
}

// Discover samples every visible table and returns a catalog of stream
// descriptors with inferred schemas, source-defined primary keys and the
// supported sync modes.
func (s *Source) Discover(ctx context.Context) (protocol.Catalog, error) {
	logger := runLogger("discover")

	client, err := s.newClient(ctx)
	if err != nil {
		return protocol.Catalog{}, err
	}
	defer client.Close()

	tables, err := client.ListTables(ctx)
	if err != nil {
		return protocol.Catalog{}, err
	}

	streams := make([]protocol.Stream, 0, len(tables))
	for _, table := range tables {
		keys, err := client.PrimaryKey(ctx, table)
		if err != nil {
			return protocol.Catalog{}, err
		}
		pk := make([][]string, 0, len(keys))
		for _, key := range keys {
			pk = append(pk, []string{key})
		}

		props, err := InferSchema(ctx, client, table, s.sampleLimit())
		if err != nil {
			return protocol.Catalog{}, err
		}

		streams = append(streams, protocol.Stream{
			Name: table,
			JSONSchema: protocol.JSONSchema{
				Type:       "object",
				Properties: props,
			},
			SupportedSyncModes:      []protocol.SyncMode{protocol.SyncModeFullRefresh, protocol.SyncModeIncremental},
			SourceDefinedPrimaryKey: pk,
		})
		logger.WithFields(logrus.Fields{
			"table":      table,
			"attributes": len(props),
		}).Debug("discovered stream")
	}

	logger.WithField("streams", len(streams)).Info("discovery complete")
	return protocol.Catalog{Streams: streams}, nil
}

// Read plans every configured stream, then returns one merged output
// sequence: each stream's records in order, streams concatenated, with at
// most one trailing state message per incremental stream. Closing the
// returned iterator releases the table client and every underlying scan,
// including ones that never started.
//
// Planning errors (cursor type or attribute resolution) abort the read
// before any scan is issued; there is no silent fallback to a different
// scan.
func (s *Source) Read(ctx context.Context, catalog protocol.ConfiguredCatalog, priorState json.RawMessage) (stream.Iterator[protocol.Message], error) {
	logger := runLogger("read")

	states, err := state.NewManager(priorState)
	if err != nil {
		return nil, err
	}

	client, err := s.newClient(ctx)
	if err != nil {
		return nil, err
	}

	iters := make([]stream.Iterator[protocol.Message], 0, len(catalog.Streams))
	abort := func() {
		for _, it := range iters {
			_ = it.Close()
		}
		_ = client.Close()
	}

	for _, configured := range catalog.Streams {
		plan, err := planStream(configured, states)
		if err != nil {
			abort()
			return nil, err
		}

		it, err := s.openStream(ctx, client, plan, states, logger)
		if err != nil {
			abort()
			return nil, err
		}
		iters = append(iters, it)
	}

	return &readIterator{
		inner:   stream.Concat(iters...),
		release: client.Close,
	}, nil
}

// openStream builds the record sequence for one planned stream. The scan is
// lazy: no page is fetched until the sequence is first pulled.
func (s *Source) openStream(ctx context.Context, client TableClient, plan *SyncPlan, states *state.Manager, logger *logrus.Entry) (stream.Iterator[protocol.Message], error) {
	rows, err := client.ScanTable(ctx, plan.StreamName, plan.Attributes, plan.Filter)
	if err != nil {
		return nil, err
	}

	records := stream.Map(rows, func(item dynamodb.Item) (protocol.Message, error) {
		return protocol.NewRecordMessage(plan.StreamName, plan.Namespace, dynamodb.ItemToMap(item)), nil
	})

	if plan.Mode == protocol.SyncModeIncremental {
		records = withCheckpoint(records, states,
			plan.StreamName, plan.Namespace, plan.CursorField, plan.CursorType, plan.PriorCursor)
	}

	logger.WithFields(logrus.Fields{
		"stream":    plan.StreamName,
		"sync_mode": plan.Mode,
		"filtered":  plan.Filter != nil,
	}).Info("planned stream")
	return records, nil
}

// readIterator ties the table client's lifetime to the output sequence: the
// client is released when the sequence ends, fails or is closed early.
type readIterator struct {
	inner    stream.Iterator[protocol.Message]
	release  func() error
	released bool
}

func (r *readIterator) Next(ctx context.Context) (protocol.Message, error) {
	msg, err := r.inner.Next(ctx)
	if err != nil {
		// Exhaustion and failure are both terminal for the invocation.
		r.releaseOnce()
	}
	return msg, err
}

func (r *readIterator) Close() error {
	err := r.inner.Close()
	r.releaseOnce()
	return err
}

func (r *readIterator) releaseOnce() {
	if r.released {
		return
	}
	r.released = true
	_ = r.release()
}
