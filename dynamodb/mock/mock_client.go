/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package mock provides an in-memory table client for testing
package mock

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/dynasource/dynamodb"
	dserrors "github.com/suparena/dynasource/errors"
	"github.com/suparena/dynasource/stream"
)

// ScanCall records the arguments of one ScanTable invocation.
type ScanCall struct {
	Table      string
	Attributes []string
	Filter     *dynamodb.FilterAttribute
}

// table is one in-memory table with its rows in insertion order.
type table struct {
	keys []string
	rows []dynamodb.Item
}

// Client is an in-memory implementation of the table client surface for
// testing. Scans honor attribute projection and strictly-greater-than
// filters the way the real store does.
type Client struct {
	mu     sync.RWMutex
	tables map[string]*table
	order  []string

	listErr error
	scanErr error

	// CloseCount tracks how many times Close was called.
	CloseCount int
	// Scans records every ScanTable invocation.
	Scans []ScanCall

	closed bool
}

// New creates a new mock Client
func New() *Client {
	return &Client{tables: make(map[string]*table)}
}

// WithTable adds a table with the given partition key and rows
func (c *Client) WithTable(name, primaryKey string, rows ...dynamodb.Item) *Client {
	if _, exists := c.tables[name]; !exists {
		c.order = append(c.order, name)
	}
	c.tables[name] = &table{keys: []string{primaryKey}, rows: rows}
	return c
}

// WithSortKey adds a range key to an already registered table
func (c *Client) WithSortKey(name, sortKey string) *Client {
	if tb, ok := c.tables[name]; ok {
		tb.keys = append(tb.keys, sortKey)
	}
	return c
}

// WithListTablesError makes ListTables return an error
func (c *Client) WithListTablesError(err error) *Client {
	c.listErr = err
	return c
}

// WithScanError makes every scan fail on its first pull
func (c *Client) WithScanError(err error) *Client {
	c.scanErr = err
	return c
}

func (c *Client) guard() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return dserrors.ErrClosed
	}
	return nil
}

// ListTables returns the registered table names in insertion order.
func (c *Client) ListTables(ctx context.Context) ([]string, error) {
	if err := c.guard(); err != nil {
		return nil, err
	}
	if c.listErr != nil {
		return nil, dserrors.NewConnectivityError("ListTables", c.listErr)
	}
	return append([]string(nil), c.order...), nil
}

// PrimaryKey returns a registered table's key attribute names in
// hash-then-range order.
func (c *Client) PrimaryKey(ctx context.Context, name string) ([]string, error) {
	if err := c.guard(); err != nil {
		return nil, err
	}
	tb, ok := c.tables[name]
	if !ok {
		return nil, fmt.Errorf("table %q not found", name)
	}
	return append([]string(nil), tb.keys...), nil
}

// SampleRows returns up to limit rows of a registered table.
func (c *Client) SampleRows(ctx context.Context, name string, limit int) ([]dynamodb.Item, error) {
	if err := c.guard(); err != nil {
		return nil, err
	}
	tb, ok := c.tables[name]
	if !ok {
		return nil, fmt.Errorf("table %q not found", name)
	}
	if limit > len(tb.rows) {
		limit = len(tb.rows)
	}
	return append([]dynamodb.Item(nil), tb.rows[:limit]...), nil
}

// ScanTable returns an iterator over the table's rows with projection and
// filtering applied.
func (c *Client) ScanTable(ctx context.Context, name string, attributes []string, filter *dynamodb.FilterAttribute) (stream.Iterator[dynamodb.Item], error) {
	if err := c.guard(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.Scans = append(c.Scans, ScanCall{Table: name, Attributes: attributes, Filter: filter})
	c.mu.Unlock()

	if c.scanErr != nil {
		return &failingIterator{err: c.scanErr}, nil
	}

	tb, ok := c.tables[name]
	if !ok {
		return nil, fmt.Errorf("table %q not found", name)
	}

	var out []dynamodb.Item
	for _, row := range tb.rows {
		if filter != nil {
			keep, err := matchesFilter(row, filter)
			if err != nil {
				return nil, err
			}
			if !keep {
				continue
			}
		}
		out = append(out, project(row, attributes))
	}
	return stream.FromSlice(out), nil
}

// Close marks the client released; further calls return ErrClosed.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.CloseCount++
	c.closed = true
	return nil
}

// project restricts a row to the selected attributes.
func project(row dynamodb.Item, attributes []string) dynamodb.Item {
	if len(attributes) == 0 {
		return row
	}
	out := make(dynamodb.Item, len(attributes))
	for _, attr := range attributes {
		if av, ok := row[attr]; ok {
			out[attr] = av
		}
	}
	return out
}

// matchesFilter applies a strictly-greater-than condition the way the store
// would.
func matchesFilter(row dynamodb.Item, filter *dynamodb.FilterAttribute) (bool, error) {
	av, ok := row[filter.Name]
	if !ok {
		return false, nil
	}

	switch filter.Type {
	case dynamodb.FilterString:
		s, ok := av.(*types.AttributeValueMemberS)
		if !ok {
			return false, nil
		}
		return s.Value > filter.Value, nil

	case dynamodb.FilterNumber:
		n, ok := av.(*types.AttributeValueMemberN)
		if !ok {
			return false, nil
		}
		rowVal, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return false, err
		}
		filterVal, err := strconv.ParseFloat(filter.Value, 64)
		if err != nil {
			return false, err
		}
		return rowVal > filterVal, nil

	default:
		return false, fmt.Errorf("unsupported filter type %q", filter.Type)
	}
}

// failingIterator surfaces a scan error on the first pull.
type failingIterator struct {
	err    error
	closed bool
}

func (f *failingIterator) Next(ctx context.Context) (dynamodb.Item, error) {
	if f.closed {
		return nil, dserrors.ErrClosed
	}
	return nil, f.err
}

func (f *failingIterator) Close() error {
	f.closed = true
	return nil
}
