/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package stream

import (
	"context"
	"errors"
	"fmt"
	"testing"

	dserrors "github.com/suparena/dynasource/errors"
)

func drain[T any](t *testing.T, it Iterator[T]) []T {
	t.Helper()
	var out []T
	for {
		item, err := it.Next(context.Background())
		if errors.Is(err, Done) {
			return out
		}
		if err != nil {
			t.Fatalf("unexpected error draining iterator: %v", err)
		}
		out = append(out, item)
	}
}

func TestFromSlice(t *testing.T) {
	it := FromSlice([]int{1, 2, 3})
	got := drain(t, it)
	if len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Errorf("unexpected elements: %v", got)
	}

	// Exhausted iterator keeps returning Done
	if _, err := it.Next(context.Background()); !errors.Is(err, Done) {
		t.Errorf("expected Done after exhaustion, got %v", err)
	}
}

func TestFromSliceClosed(t *testing.T) {
	it := FromSlice([]string{"a"})
	if err := it.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if _, err := it.Next(context.Background()); !errors.Is(err, dserrors.ErrClosed) {
		t.Errorf("expected ErrClosed after Close, got %v", err)
	}
	// Close must be idempotent
	if err := it.Close(); err != nil {
		t.Errorf("second Close should succeed, got %v", err)
	}
}

func TestMap(t *testing.T) {
	it := Map(FromSlice([]int{1, 2, 3}), func(n int) (string, error) {
		return fmt.Sprintf("n=%d", n), nil
	})
	got := drain(t, it)
	if len(got) != 3 || got[1] != "n=2" {
		t.Errorf("unexpected elements: %v", got)
	}
}

func TestMapTransformError(t *testing.T) {
	boom := errors.New("boom")
	it := Map(FromSlice([]int{1, 2}), func(n int) (int, error) {
		if n == 2 {
			return 0, boom
		}
		return n, nil
	})

	if _, err := it.Next(context.Background()); err != nil {
		t.Fatalf("first element should map cleanly: %v", err)
	}
	if _, err := it.Next(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected transform error, got %v", err)
	}
}

// closeTrackingIterator wraps FromSlice and records Close calls.
type closeTrackingIterator[T any] struct {
	Iterator[T]
	closes int
}

func (c *closeTrackingIterator[T]) Close() error {
	c.closes++
	return c.Iterator.Close()
}

// failingIterator fails after yielding a fixed number of elements.
type failingIterator struct {
	remaining int
	err       error
	closes    int
}

func (f *failingIterator) Next(ctx context.Context) (int, error) {
	if f.remaining <= 0 {
		return 0, f.err
	}
	f.remaining--
	return f.remaining, nil
}

func (f *failingIterator) Close() error {
	f.closes++
	return nil
}

func TestConcatOrdering(t *testing.T) {
	it := Concat(
		FromSlice([]int{1, 2}),
		FromSlice([]int{3}),
		FromSlice([]int{4, 5}),
	)
	got := drain(t, it)
	want := []int{1, 2, 3, 4, 5}
	if len(got) != len(want) {
		t.Fatalf("expected %d elements, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("element %d: expected %d, got %d", i, want[i], got[i])
		}
	}
}

func TestConcatClosesDrainedConstituents(t *testing.T) {
	a := &closeTrackingIterator[int]{Iterator: FromSlice([]int{1})}
	b := &closeTrackingIterator[int]{Iterator: FromSlice([]int{2})}
	it := Concat[int](a, b)

	drain(t, it)

	if a.closes == 0 {
		t.Error("first constituent should be closed after it is drained")
	}
	if b.closes == 0 {
		t.Error("second constituent should be closed after it is drained")
	}
}

func TestConcatEagerCloseOnEarlyStop(t *testing.T) {
	a := &closeTrackingIterator[int]{Iterator: FromSlice([]int{1, 2})}
	b := &closeTrackingIterator[int]{Iterator: FromSlice([]int{3})}
	it := Concat[int](a, b)

	// Consume one element, then stop early.
	if _, err := it.Next(context.Background()); err != nil {
		t.Fatalf("next failed: %v", err)
	}
	if err := it.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	if a.closes == 0 {
		t.Error("in-progress constituent should be closed on early stop")
	}
	if b.closes == 0 {
		t.Error("not-yet-started constituent should be closed on early stop")
	}
	if _, err := it.Next(context.Background()); !errors.Is(err, dserrors.ErrClosed) {
		t.Errorf("expected ErrClosed after Close, got %v", err)
	}
}

func TestConcatFailureClosesRemaining(t *testing.T) {
	boom := errors.New("scan failed")
	a := &failingIterator{remaining: 1, err: boom}
	b := &closeTrackingIterator[int]{Iterator: FromSlice([]int{9})}
	it := Concat[int](a, b)

	if _, err := it.Next(context.Background()); err != nil {
		t.Fatalf("next failed: %v", err)
	}
	if _, err := it.Next(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected scan failure, got %v", err)
	}

	if a.closes == 0 {
		t.Error("failed constituent should be closed")
	}
	if b.closes == 0 {
		t.Error("remaining constituent should be closed after a failure")
	}
}
