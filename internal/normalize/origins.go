package normalize

import (
	"sync"

	"pauta-cli/internal/brfmt"
)

// OriginLedger tracks the first-known date per entry identity. Once an
// identity has an origin it is never overwritten; moves only ever add
// origins for identities seen for the first time.
type OriginLedger struct {
	mu      sync.Mutex
	origins map[string]brfmt.Date
}

func NewOriginLedger() *OriginLedger {
	return &OriginLedger{origins: map[string]brfmt.Date{}}
}

// Record stores the origin for key unless one is already known.
// It returns the origin in effect after the call.
func (l *OriginLedger) Record(key string, d brfmt.Date) brfmt.Date {
	if key == "" || d.IsZero() {
		return d
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if existing, ok := l.origins[key]; ok {
		return existing
	}
	l.origins[key] = d
	return d
}

func (l *OriginLedger) Get(key string) (brfmt.Date, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, ok := l.origins[key]
	return d, ok
}

// Snapshot copies the ledger for persistence.
func (l *OriginLedger) Snapshot() map[string]string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]string, len(l.origins))
	for k, v := range l.origins {
		out[k] = v.ISO()
	}
	return out
}

// Restore seeds the ledger from persisted state. Existing origins win, so
// restoring after the session has already recorded entries is harmless.
func (l *OriginLedger) Restore(m map[string]string) {
	for k, iso := range m {
		if d, ok := brfmt.ParseDate(iso); ok {
			l.Record(k, d)
		}
	}
}
