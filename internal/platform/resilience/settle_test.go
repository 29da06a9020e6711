package resilience

import (
	"context"
	"errors"
	"strconv"
	"sync/atomic"
	"testing"
)

func TestSettle_CollectsSuccessesAndFailures(t *testing.T) {
	t.Parallel()

	items := []int{1, 2, 3, 4, 5}
	got := Settle(context.Background(), 2, items, func(v int) string { return strconv.Itoa(v) }, func(_ context.Context, v int) (int, error) {
		if v%2 == 0 {
			return 0, errors.New("even")
		}
		return v * 10, nil
	})

	if len(got.Outcomes) != len(items) {
		t.Fatalf("expected %d outcomes, got %d", len(items), len(got.Outcomes))
	}
	if got.SuccessCount() != 3 || got.FailureCount() != 2 {
		t.Fatalf("unexpected counts success=%d failure=%d", got.SuccessCount(), got.FailureCount())
	}
	for i, item := range got.Outcomes {
		if item.Index != i {
			t.Fatalf("expected outcomes in submission order, index %d at %d", item.Index, i)
		}
		if item.Key != strconv.Itoa(items[i]) {
			t.Fatalf("unexpected key %q at %d", item.Key, i)
		}
	}
	if got.Outcomes[2].Value != 30 {
		t.Fatalf("expected value 30, got %d", got.Outcomes[2].Value)
	}
}

func TestSettle_PanicBecomesFailure(t *testing.T) {
	t.Parallel()

	var ran atomic.Int32
	got := Settle(context.Background(), 4, []string{"a", "boom", "c"}, nil, func(_ context.Context, v string) (string, error) {
		ran.Add(1)
		if v == "boom" {
			panic("exploded")
		}
		return v, nil
	})

	if ran.Load() != 3 {
		t.Fatalf("expected every unit to run, ran=%d", ran.Load())
	}
	failed := got.Failed()
	if len(failed) != 1 || failed[0].Index != 1 {
		t.Fatalf("expected panic recorded as failure for index 1, got %+v", failed)
	}
}

func TestSettle_CanceledContextFailsUnits(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := Settle(ctx, 1, []int{1, 2}, nil, func(context.Context, int) (int, error) {
		t.Errorf("fn must not run after cancellation")
		return 0, nil
	})
	if got.FailureCount() != 2 {
		t.Fatalf("expected both units failed, got %d", got.FailureCount())
	}
}

func TestSettle_Empty(t *testing.T) {
	t.Parallel()

	got := Settle(context.Background(), 3, []int(nil), nil, func(context.Context, int) (int, error) { return 0, nil })
	if len(got.Outcomes) != 0 {
		t.Fatalf("expected no outcomes")
	}
}
