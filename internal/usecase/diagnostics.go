package usecase

import (
	"sort"
	"sync"

	"github.com/riskibarqy/dart-league-stats/internal/platform/resilience"
)

// UnitFailure is one isolated fetch failure inside a batch.
type UnitFailure struct {
	Kind     string `json:"kind"`
	Key      string `json:"key"`
	SeasonID int64  `json:"season_id,omitempty"`
	Error    string `json:"error"`
}

type BatchCount struct {
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// Diagnostics collects non-fatal failures for a run. It is safe for
// concurrent use.
type Diagnostics struct {
	mu       sync.Mutex
	failures []UnitFailure
	batches  map[string]BatchCount
	notes    map[string]any
}

func NewDiagnostics() *Diagnostics {
	return &Diagnostics{
		batches: make(map[string]BatchCount, 8),
		notes:   make(map[string]any, 4),
	}
}

func (d *Diagnostics) Fail(seasonID int64, kind, key string, err error) {
	if err == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failures = append(d.failures, UnitFailure{Kind: kind, Key: key, SeasonID: seasonID, Error: err.Error()})
}

func (d *Diagnostics) Note(key string, value any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.notes[key] = value
}

// RecordBatch folds a settled batch into the per-kind counts and failure list.
func RecordBatch[T any](d *Diagnostics, seasonID int64, kind string, settled resilience.Settled[T]) {
	for _, outcome := range settled.Failed() {
		d.Fail(seasonID, kind, outcome.Key, outcome.Err)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	count := d.batches[kind]
	count.Succeeded += settled.SuccessCount()
	count.Failed += settled.FailureCount()
	d.batches[kind] = count
}

func (d *Diagnostics) FailureCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.failures)
}

func (d *Diagnostics) Failures() []UnitFailure {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := append([]UnitFailure(nil), d.failures...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SeasonID != out[j].SeasonID {
			return out[i].SeasonID < out[j].SeasonID
		}
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// Map renders the bag for persistence in the run log.
func (d *Diagnostics) Map() map[string]any {
	failures := d.Failures()

	d.mu.Lock()
	defer d.mu.Unlock()
	batches := make(map[string]any, len(d.batches))
	for kind, count := range d.batches {
		batches[kind] = map[string]any{"succeeded": count.Succeeded, "failed": count.Failed}
	}
	rows := make([]any, 0, len(failures))
	for _, item := range failures {
		row := map[string]any{"kind": item.Kind, "key": item.Key, "error": item.Error}
		if item.SeasonID > 0 {
			row["season_id"] = item.SeasonID
		}
		rows = append(rows, row)
	}
	out := map[string]any{"failures": rows, "batches": batches}
	for key, value := range d.notes {
		out[key] = value
	}
	return out
}
