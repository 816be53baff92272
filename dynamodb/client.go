/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package dynamodb

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	dserrors "github.com/suparena/dynasource/errors"
)

// Item is one raw row as returned by the storage engine.
type Item = map[string]types.AttributeValue

// Client is a scoped table client. It is acquired once per check, discover or
// read invocation and must be released with Close on every exit path. A
// closed client must not be reused.
type Client struct {
	sdk    *sdk.Client
	httpc  *http.Client
	cfg    *Config
	closed atomic.Bool
}

// NewClient initializes a DynamoDB client from the given config. Static
// credentials are used when provided, otherwise the default AWS chain.
func NewClient(ctx context.Context, cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, dserrors.NewValidationError("", "config is nil")
	}

	httpc := &http.Client{}

	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
		config.WithHTTPClient(httpc),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	var sdkOpts []func(*sdk.Options)
	if cfg.Endpoint != "" {
		sdkOpts = append(sdkOpts, func(o *sdk.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}

	return &Client{
		sdk:   sdk.NewFromConfig(awsCfg, sdkOpts...),
		httpc: httpc,
		cfg:   cfg,
	}, nil
}

// Close releases the client's pooled connections. Further calls on the client
// return ErrClosed. Close is idempotent.
func (c *Client) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	c.httpc.CloseIdleConnections()
	return nil
}

// SampleLimit returns the configured schema inference sample size.
func (c *Client) SampleLimit() int {
	return c.cfg.SampleSize
}

func (c *Client) guard() error {
	if c.closed.Load() {
		return dserrors.ErrClosed
	}
	return nil
}

// ListTables returns the names of every table visible to the credentials.
func (c *Client) ListTables(ctx context.Context) ([]string, error) {
	if err := c.guard(); err != nil {
		return nil, err
	}

	var tables []string
	var startName *string
	for {
		out, err := c.sdk.ListTables(ctx, &sdk.ListTablesInput{
			ExclusiveStartTableName: startName,
		})
		if err != nil {
			return nil, dserrors.NewConnectivityError("ListTables", err)
		}
		tables = append(tables, out.TableNames...)
		if out.LastEvaluatedTableName == nil {
			return tables, nil
		}
		startName = out.LastEvaluatedTableName
	}
}

// PrimaryKey returns a table's key attribute names in hash-then-range order.
// Tables without a sort key return a single name.
func (c *Client) PrimaryKey(ctx context.Context, table string) ([]string, error) {
	if err := c.guard(); err != nil {
		return nil, err
	}

	out, err := c.sdk.DescribeTable(ctx, &sdk.DescribeTableInput{
		TableName: aws.String(table),
	})
	if err != nil {
		return nil, dserrors.NewConnectivityError("DescribeTable", err)
	}

	var hash, keys []string
	for _, ks := range out.Table.KeySchema {
		if ks.AttributeName == nil {
			continue
		}
		if ks.KeyType == types.KeyTypeHash {
			hash = append(hash, *ks.AttributeName)
		} else {
			keys = append(keys, *ks.AttributeName)
		}
	}
	if len(hash) == 0 {
		return nil, fmt.Errorf("table %q has no hash key", table)
	}
	return append(hash, keys...), nil
}

// SampleRows scans up to limit rows of a table and returns them raw. Used by
// schema inference so discovery stays fast on tables with huge row counts.
func (c *Client) SampleRows(ctx context.Context, table string, limit int) ([]Item, error) {
	if err := c.guard(); err != nil {
		return nil, err
	}

	var items []Item
	var lastKey Item
	for len(items) < limit {
		input := &sdk.ScanInput{
			TableName: aws.String(table),
			Limit:     aws.Int32(c.cfg.PageSize),
		}
		if lastKey != nil {
			input.ExclusiveStartKey = lastKey
		}

		out, err := c.scanWithRetry(ctx, input)
		if err != nil {
			return nil, dserrors.NewConnectivityError("Scan", err)
		}
		for _, item := range out.Items {
			items = append(items, item)
			if len(items) == limit {
				return items, nil
			}
		}
		if len(out.LastEvaluatedKey) == 0 {
			return items, nil
		}
		lastKey = out.LastEvaluatedKey
	}
	return items, nil
}
