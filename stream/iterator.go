/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package stream

import (
	"context"
	"errors"

	dserrors "github.com/suparena/dynasource/errors"
)

// Done is returned by Next when an iterator is exhausted. It signals regular
// completion, not a failure.
var Done = errors.New("iterator exhausted")

// Iterator is a pull-based sequence with an explicit release operation.
//
// Next returns the next element, or Done once the sequence is exhausted.
// Close releases the underlying resources and must be safe to call more than
// once. After Close, Next returns ErrClosed.
type Iterator[T any] interface {
	Next(ctx context.Context) (T, error)
	Close() error
}

// sliceIterator yields a fixed slice of elements.
type sliceIterator[T any] struct {
	items  []T
	idx    int
	closed bool
}

// FromSlice returns an iterator over the given elements.
func FromSlice[T any](items []T) Iterator[T] {
	return &sliceIterator[T]{items: items}
}

func (s *sliceIterator[T]) Next(ctx context.Context) (T, error) {
	var zero T
	if s.closed {
		return zero, dserrors.ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	if s.idx >= len(s.items) {
		return zero, Done
	}
	item := s.items[s.idx]
	s.idx++
	return item, nil
}

func (s *sliceIterator[T]) Close() error {
	s.closed = true
	return nil
}

// mapIterator applies a transform to every element of an inner iterator.
type mapIterator[A, B any] struct {
	inner Iterator[A]
	fn    func(A) (B, error)
}

// Map returns an iterator that yields fn(x) for every element x of inner.
// A transform error terminates the sequence and closes the inner iterator.
func Map[A, B any](inner Iterator[A], fn func(A) (B, error)) Iterator[B] {
	return &mapIterator[A, B]{inner: inner, fn: fn}
}

func (m *mapIterator[A, B]) Next(ctx context.Context) (B, error) {
	var zero B
	item, err := m.inner.Next(ctx)
	if err != nil {
		return zero, err
	}
	out, err := m.fn(item)
	if err != nil {
		_ = m.inner.Close()
		return zero, err
	}
	return out, nil
}

func (m *mapIterator[A, B]) Close() error {
	return m.inner.Close()
}
