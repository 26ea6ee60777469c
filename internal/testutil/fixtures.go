package testutil

import (
	"fmt"
	"sync"
)

// FixedRunIDs returns run IDs "<prefix>-0001", "<prefix>-0002", ... so
// journal rows are reproducible across test runs.
type FixedRunIDs struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewFixedRunIDs creates a generator. An empty prefix becomes "test-run".
func NewFixedRunIDs(prefix string) *FixedRunIDs {
	if prefix == "" {
		prefix = "test-run"
	}
	return &FixedRunIDs{prefix: prefix}
}

// Generate returns the next run ID.
func (g *FixedRunIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%04d", g.prefix, g.n)
}

// ExitRecorder stands in for os.Exit and records every code it is called
// with. It returns normally, so code after the exit call still runs.
type ExitRecorder struct {
	mu    sync.Mutex
	codes []int
}

// Exit records code.
func (r *ExitRecorder) Exit(code int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes = append(r.codes, code)
}

// Codes returns the recorded codes in call order.
func (r *ExitRecorder) Codes() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.codes...)
}

// Called reports whether Exit was called at least once.
func (r *ExitRecorder) Called() bool {
	return len(r.Codes()) > 0
}
