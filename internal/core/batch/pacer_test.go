package batch

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestPacerPausesAtBatchBoundaries(t *testing.T) {
	p := New(0, 10, 5*time.Second)

	var pauses []time.Duration
	p.sleep = func(_ context.Context, d time.Duration) error {
		pauses = append(pauses, d)
		return nil
	}

	var boundaries []int
	for i := 1; i <= 23; i++ {
		paused, err := p.After(context.Background())
		if err != nil {
			t.Fatalf("After(%d) returned error: %v", i, err)
		}
		if paused {
			boundaries = append(boundaries, i)
		}
	}

	// 23 operations in batches of 10 pause after the 10th and 20th.
	if len(boundaries) != 2 || boundaries[0] != 10 || boundaries[1] != 20 {
		t.Errorf("pauses after operations %v, want [10 20]", boundaries)
	}
	for i, d := range pauses {
		if d != 5*time.Second {
			t.Errorf("pause %d lasted %v, want 5s", i, d)
		}
	}
	if p.Count() != 23 {
		t.Errorf("Count = %d, want 23", p.Count())
	}
}

func TestPacerDisabledBatching(t *testing.T) {
	p := New(0, 0, time.Hour)
	p.sleep = func(context.Context, time.Duration) error {
		t.Fatal("sleep called with batching disabled")
		return nil
	}

	for i := 0; i < 50; i++ {
		if paused, err := p.After(context.Background()); paused || err != nil {
			t.Fatalf("After = (%v, %v), want (false, nil)", paused, err)
		}
	}
}

func TestPacerCancelledDuringBatchPause(t *testing.T) {
	p := New(0, 1, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	paused, err := p.After(ctx)
	if paused {
		t.Error("After reported a pause despite cancellation")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("After error = %v, want context.Canceled", err)
	}
}

func TestPacerSpacesOperations(t *testing.T) {
	p := New(20*time.Millisecond, 0, 0)

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := p.Before(context.Background()); err != nil {
			t.Fatalf("Before returned error: %v", err)
		}
	}
	elapsed := time.Since(start)

	// First operation is immediate, the next two wait 20ms each.
	if elapsed < 40*time.Millisecond {
		t.Errorf("three operations took %v, want at least 40ms", elapsed)
	}
}

func TestPacerZeroDelayDoesNotBlock(t *testing.T) {
	p := New(0, 0, 0)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			if err := p.Before(context.Background()); err != nil {
				t.Errorf("Before returned error: %v", err)
				return
			}
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Before blocked with spacing disabled")
	}
}
