package poll

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestLatestEmpty(t *testing.T) {
	var latest Latest[int]
	if _, _, ok := latest.Get(); ok {
		t.Fatal("empty slot should report no value")
	}
}

func TestPollPublishes(t *testing.T) {
	calls := 0
	p := New(time.Second, func(ctx context.Context) (int, error) {
		calls++
		return calls * 10, nil
	}, nil)

	var results []int
	p.SetOnResult(func(v int) { results = append(results, v) })

	p.poll(context.Background())
	p.poll(context.Background())

	value, _, ok := p.Latest().Get()
	if !ok || value != 20 {
		t.Fatalf("Latest = %d, %v; want 20, true", value, ok)
	}
	if len(results) != 2 || results[0] != 10 || results[1] != 20 {
		t.Fatalf("onResult saw %v, want [10 20]", results)
	}
}

func TestPollErrorKeepsPreviousValue(t *testing.T) {
	var fail bool
	p := New(time.Second, func(ctx context.Context) (int, error) {
		if fail {
			return 0, errors.New("fetch failed")
		}
		return 42, nil
	}, nil)

	p.poll(context.Background())
	fail = true
	p.poll(context.Background())

	value, _, ok := p.Latest().Get()
	if !ok || value != 42 {
		t.Fatalf("Latest = %d, %v; want previous value 42", value, ok)
	}
}

func TestRunPollsImmediatelyAndStops(t *testing.T) {
	var calls atomic.Int64
	p := New(5*time.Millisecond, func(ctx context.Context) (int, error) {
		calls.Add(1)
		return int(calls.Load()), nil
	}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 40*time.Millisecond)
	defer cancel()

	err := p.Run(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run returned %v, want deadline exceeded", err)
	}
	if calls.Load() < 1 {
		t.Fatal("expected at least the immediate poll")
	}
}

func TestRunRejectsNonPositiveInterval(t *testing.T) {
	p := New(0, func(ctx context.Context) (int, error) { return 0, nil }, nil)
	if err := p.Run(context.Background()); err == nil {
		t.Fatal("expected error for zero interval")
	}
}
