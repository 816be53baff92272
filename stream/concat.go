/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package stream

import (
	"context"
	"errors"

	dserrors "github.com/suparena/dynasource/errors"
)

// concatIterator drains its constituents strictly in order, one at a time.
type concatIterator[T any] struct {
	iters  []Iterator[T]
	idx    int
	closed bool
}

// Concat returns an iterator over the elements of every given iterator, in
// order. Each constituent is fully drained and closed before the next one is
// started.
//
// Closing the concatenation closes the in-progress constituent and every
// not-yet-started one, so stopping consumption early never leaks a scan.
// A failure from constituent N closes constituents N..end; records already
// produced by constituents 1..N-1 are unaffected.
func Concat[T any](iters ...Iterator[T]) Iterator[T] {
	return &concatIterator[T]{iters: iters}
}

func (c *concatIterator[T]) Next(ctx context.Context) (T, error) {
	var zero T
	if c.closed {
		return zero, dserrors.ErrClosed
	}
	for c.idx < len(c.iters) {
		item, err := c.iters[c.idx].Next(ctx)
		if err == nil {
			return item, nil
		}
		if errors.Is(err, Done) {
			if cerr := c.iters[c.idx].Close(); cerr != nil {
				c.idx++
				_ = c.Close()
				return zero, cerr
			}
			c.idx++
			continue
		}
		// Mid-stream failure: release everything that has not run yet.
		_ = c.Close()
		return zero, err
	}
	return zero, Done
}

func (c *concatIterator[T]) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	var first error
	for _, it := range c.iters[c.idx:] {
		if err := it.Close(); err != nil && first == nil {
			first = err
		}
	}
	c.idx = len(c.iters)
	return first
}
