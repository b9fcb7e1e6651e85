// Package agenda holds the panel's calendar state: the reconciled entry set,
// per-month day buckets, the month/week grid, and the single mutation entry
// point (ApplyMove). It has no TUI or HTTP dependency so the whole
// merge/bucket/move cycle is testable as plain data transforms.
package agenda

import (
	"errors"
	"fmt"
	"time"

	"pauta-cli/internal/brfmt"
	"pauta-cli/internal/model"
	"pauta-cli/internal/normalize"
)

var (
	ErrEntryNotFound = errors.New("agenda entry not found")
	// ErrPrescricaoBlocked rejects placing a supervision on or after its
	// statute-of-limitations date.
	ErrPrescricaoBlocked = errors.New("supervision cannot be scheduled on or after its prescricao date")
)

type monthKey struct {
	Year  int
	Month time.Month
}

// DayBucket partitions one day's entries strictly by type.
type DayBucket struct {
	Tasks        []model.AgendaEntry
	Prazos       []model.AgendaEntry
	Supervisions []model.AgendaEntry
}

func (b DayBucket) Count(t model.EntryType) int {
	switch t {
	case model.EntryTask:
		return len(b.Tasks)
	case model.EntryPrazo:
		return len(b.Prazos)
	case model.EntrySupervision:
		return len(b.Supervisions)
	}
	return 0
}

func (b DayBucket) Of(t model.EntryType) []model.AgendaEntry {
	switch t {
	case model.EntryTask:
		return b.Tasks
	case model.EntryPrazo:
		return b.Prazos
	case model.EntrySupervision:
		return b.Supervisions
	}
	return nil
}

func (b DayBucket) Empty() bool {
	return len(b.Tasks) == 0 && len(b.Prazos) == 0 && len(b.Supervisions) == 0
}

// State owns the current entry set and the memoized month projections.
// Month data is always disposable: any change to entries or filters goes
// through ResetMonths and the buckets are rebuilt on demand.
type State struct {
	Entries []model.AgendaEntry
	Origins *normalize.OriginLedger

	// moves is the session's move overlay, keyed by entry identity. Raw
	// sources still carry the pre-move date until the backend catches up, so
	// SetEntries re-applies these after every re-normalization; otherwise a
	// re-filter would silently revert an applied move.
	moves map[string]brfmt.Date

	months map[monthKey][]DayBucket
}

func NewState(origins *normalize.OriginLedger) *State {
	if origins == nil {
		origins = normalize.NewOriginLedger()
	}
	return &State{
		Origins: origins,
		moves:   map[string]brfmt.Date{},
		months:  map[monthKey][]DayBucket{},
	}
}

// SetEntries replaces the entry set, re-applies the session's moves and drops
// every cached month.
func (s *State) SetEntries(entries []model.AgendaEntry) {
	for i := range entries {
		if d, ok := s.moves[entries[i].Key()]; ok {
			entries[i].Date = d
		}
	}
	s.Entries = entries
	s.ResetMonths()
}

func (s *State) ResetMonths() {
	s.months = map[monthKey][]DayBucket{}
}

// MonthData returns the day buckets for (year, month), index 0 = day 1.
// Memoized per key until ResetMonths.
func (s *State) MonthData(year int, month time.Month) []DayBucket {
	key := monthKey{Year: year, Month: month}
	if cached, ok := s.months[key]; ok {
		return cached
	}
	days := brfmt.DaysInMonth(year, month)
	buckets := make([]DayBucket, days)
	for _, e := range s.Entries {
		if e.Date.Year != year || e.Date.Month != month {
			continue
		}
		if e.Date.Day < 1 || e.Date.Day > days {
			continue
		}
		b := &buckets[e.Date.Day-1]
		switch e.Type {
		case model.EntryTask:
			b.Tasks = append(b.Tasks, e)
		case model.EntryPrazo:
			b.Prazos = append(b.Prazos, e)
		case model.EntrySupervision:
			b.Supervisions = append(b.Supervisions, e)
		}
	}
	if s.months == nil {
		s.months = map[monthKey][]DayBucket{}
	}
	s.months[key] = buckets
	return buckets
}

// Find returns a pointer into Entries for in-place mutation.
func (s *State) Find(entryID string) *model.AgendaEntry {
	for i := range s.Entries {
		if s.Entries[i].ID == entryID {
			return &s.Entries[i]
		}
	}
	return nil
}

// ApplyMove is the only mutation: it validates the prescricao rule, records
// the origin before the first move of this identity, re-dates the entry and
// invalidates the month cache. The caller decides whether to persist.
func (s *State) ApplyMove(entryID string, target brfmt.Date) error {
	if target.IsZero() {
		return fmt.Errorf("apply move: invalid target date")
	}
	e := s.Find(entryID)
	if e == nil {
		return fmt.Errorf("apply move %q: %w", entryID, ErrEntryNotFound)
	}
	if e.MoveBlocked(target) {
		return fmt.Errorf("apply move %q to %s: %w", entryID, target.ISO(), ErrPrescricaoBlocked)
	}
	// Origin is immutable after first assignment; Record is a no-op when one
	// is already known.
	if s.Origins != nil {
		e.OriginalDate = s.Origins.Record(e.Key(), e.OriginalDate)
	}
	if e.OriginalDate.IsZero() {
		e.OriginalDate = e.Date
	}
	e.Date = target
	if s.moves == nil {
		s.moves = map[string]brfmt.Date{}
	}
	s.moves[e.Key()] = target
	s.ResetMonths()
	return nil
}

// EarliestActive returns the date of the chronologically earliest non-expired
// entry, used for the initial view jump after a (re)load.
func (s *State) EarliestActive() (brfmt.Date, bool) {
	var best brfmt.Date
	found := false
	for _, e := range s.Entries {
		if e.Expired || e.Date.IsZero() {
			continue
		}
		if !found || e.Date.Before(best) {
			best = e.Date
			found = true
		}
	}
	return best, found
}
