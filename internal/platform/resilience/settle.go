package resilience

import (
	"context"
	"sort"

	"github.com/sourcegraph/conc/panics"
	"github.com/sourcegraph/conc/pool"
)

// Outcome is the settled result of one unit in a batch.
type Outcome[T any] struct {
	Index int
	Key   string
	Value T
	Err   error
}

// Settled holds every outcome of a batch in submission order.
type Settled[T any] struct {
	Outcomes []Outcome[T]
}

func (s Settled[T]) Succeeded() []Outcome[T] {
	out := make([]Outcome[T], 0, len(s.Outcomes))
	for _, item := range s.Outcomes {
		if item.Err == nil {
			out = append(out, item)
		}
	}
	return out
}

func (s Settled[T]) Failed() []Outcome[T] {
	out := make([]Outcome[T], 0)
	for _, item := range s.Outcomes {
		if item.Err != nil {
			out = append(out, item)
		}
	}
	return out
}

func (s Settled[T]) SuccessCount() int {
	return len(s.Outcomes) - len(s.Failed())
}

func (s Settled[T]) FailureCount() int {
	return len(s.Failed())
}

// Settle runs fn for every item concurrently and waits for all of them.
// A failing or panicking unit never cancels its siblings.
func Settle[I, T any](
	ctx context.Context,
	maxWorkers int,
	items []I,
	key func(I) string,
	fn func(context.Context, I) (T, error),
) Settled[T] {
	if len(items) == 0 {
		return Settled[T]{}
	}
	if maxWorkers < 1 {
		maxWorkers = 1
	}

	p := pool.NewWithResults[Outcome[T]]().WithMaxGoroutines(maxWorkers)
	for idx, item := range items {
		p.Go(func() Outcome[T] {
			out := Outcome[T]{Index: idx}
			if key != nil {
				out.Key = key(item)
			}
			if err := ctx.Err(); err != nil {
				out.Err = err
				return out
			}

			var catcher panics.Catcher
			catcher.Try(func() {
				out.Value, out.Err = fn(ctx, item)
			})
			if recovered := catcher.Recovered(); recovered != nil {
				out.Err = recovered.AsError()
			}
			return out
		})
	}

	outcomes := p.Wait()
	sort.SliceStable(outcomes, func(i, j int) bool { return outcomes[i].Index < outcomes[j].Index })
	return Settled[T]{Outcomes: outcomes}
}
