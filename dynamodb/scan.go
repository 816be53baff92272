/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package dynamodb

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	dserrors "github.com/suparena/dynasource/errors"
	"github.com/suparena/dynasource/stream"
)

// FilterType selects the native attribute type a scan filter compares with.
type FilterType string

const (
	// FilterString compares the cursor attribute as a string (S).
	FilterString FilterType = "S"
	// FilterNumber compares the cursor attribute as a number (N).
	FilterNumber FilterType = "N"
)

// FilterAttribute is a strictly-greater-than scan condition on a single
// attribute. The value is passed in as an immutable argument; the client
// never mutates cursor state.
type FilterAttribute struct {
	Name  string
	Value string
	Type  FilterType
}

// ScanTable returns a lazy iterator over a table's rows, restricted to the
// selected attributes and optionally filtered. Pagination starts on the
// first Next call; Close cancels an in-flight scan.
func (c *Client) ScanTable(ctx context.Context, table string, attributes []string, filter *FilterAttribute) (stream.Iterator[Item], error) {
	if err := c.guard(); err != nil {
		return nil, err
	}

	input, err := buildScanInput(table, c.cfg.PageSize, attributes, filter)
	if err != nil {
		return nil, err
	}

	workerCtx, cancel := context.WithCancel(ctx)
	return &scanIterator{
		client: c,
		input:  input,
		ctx:    workerCtx,
		cancel: cancel,
		ch:     make(chan scanResult, c.cfg.PageSize),
	}, nil
}

// buildScanInput assembles the projection and filter expressions. Attribute
// names go through expression placeholders so reserved words stay usable as
// attribute names.
func buildScanInput(table string, pageSize int32, attributes []string, filter *FilterAttribute) (*sdk.ScanInput, error) {
	input := &sdk.ScanInput{
		TableName: aws.String(table),
		Limit:     aws.Int32(pageSize),
	}

	names := make(map[string]string, len(attributes)+1)
	placeholders := make(map[string]string, len(attributes)+1)

	sorted := append([]string(nil), attributes...)
	sort.Strings(sorted)

	proj := make([]string, 0, len(sorted))
	for i, attr := range sorted {
		ph := fmt.Sprintf("#a%d", i)
		names[ph] = attr
		placeholders[attr] = ph
		proj = append(proj, ph)
	}
	if len(proj) > 0 {
		input.ProjectionExpression = aws.String(strings.Join(proj, ", "))
	}

	if filter != nil {
		ph, ok := placeholders[filter.Name]
		if !ok {
			ph = "#cursor"
			names[ph] = filter.Name
		}

		var value types.AttributeValue
		switch filter.Type {
		case FilterString:
			value = &types.AttributeValueMemberS{Value: filter.Value}
		case FilterNumber:
			value = &types.AttributeValueMemberN{Value: filter.Value}
		default:
			return nil, dserrors.NewUnsupportedCursorTypeError(filter.Name, string(filter.Type))
		}

		input.FilterExpression = aws.String(ph + " > :cursor")
		input.ExpressionAttributeValues = map[string]types.AttributeValue{
			":cursor": value,
		}
	}

	if len(names) > 0 {
		input.ExpressionAttributeNames = names
	}
	return input, nil
}

type scanResult struct {
	item Item
	err  error
}

// scanIterator pages through a scan in a background worker, handing rows to
// the consumer one at a time.
type scanIterator struct {
	client  *Client
	input   *sdk.ScanInput
	ctx     context.Context
	cancel  context.CancelFunc
	ch      chan scanResult
	started bool
	closed  bool
}

func (s *scanIterator) Next(ctx context.Context) (Item, error) {
	if s.closed {
		return nil, dserrors.ErrClosed
	}
	if !s.started {
		s.started = true
		go s.run()
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res, ok := <-s.ch:
		if !ok {
			return nil, stream.Done
		}
		if res.err != nil {
			return nil, res.err
		}
		return res.item, nil
	}
}

func (s *scanIterator) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.cancel()
	return nil
}

// run drives the pagination loop until exhaustion, error or cancellation.
func (s *scanIterator) run() {
	defer close(s.ch)

	var lastKey Item
	for {
		select {
		case <-s.ctx.Done():
			return
		default:
		}

		if lastKey != nil {
			s.input.ExclusiveStartKey = lastKey
		}

		out, err := s.client.scanWithRetry(s.ctx, s.input)
		if err != nil {
			select {
			case s.ch <- scanResult{err: dserrors.NewConnectivityError("Scan", err)}:
			case <-s.ctx.Done():
			}
			return
		}

		for _, item := range out.Items {
			select {
			case <-s.ctx.Done():
				return
			case s.ch <- scanResult{item: item}:
			}
		}

		if len(out.LastEvaluatedKey) == 0 {
			return
		}
		lastKey = out.LastEvaluatedKey
	}
}

// scanWithRetry executes a scan page with bounded retries on transient
// errors.
func (c *Client) scanWithRetry(ctx context.Context, input *sdk.ScanInput) (*sdk.ScanOutput, error) {
	var lastErr error

	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		out, err := c.sdk.Scan(ctx, input)
		if err == nil {
			return out, nil
		}

		lastErr = err
		if !isRetryableError(err) {
			return nil, err
		}

		if attempt < c.cfg.MaxRetries {
			backoff := time.Duration(attempt+1) * c.cfg.RetryBackoff
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}
	}

	return nil, fmt.Errorf("scan failed after %d retries: %w", c.cfg.MaxRetries, lastErr)
}

// isRetryableError determines if a DynamoDB error is retryable
func isRetryableError(err error) bool {
	switch err.(type) {
	case *types.ProvisionedThroughputExceededException:
		return true
	case *types.RequestLimitExceeded:
		return true
	case *types.InternalServerError:
		return true
	}

	if awsErr, ok := err.(interface{ IsRetryable() bool }); ok {
		return awsErr.IsRetryable()
	}

	return false
}
