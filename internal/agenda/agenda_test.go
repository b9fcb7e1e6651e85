package agenda

import (
	"errors"
	"testing"
	"time"

	"pauta-cli/internal/brfmt"
	"pauta-cli/internal/model"
)

func entry(id string, t model.EntryType, backendID int64, date brfmt.Date) model.AgendaEntry {
	return model.AgendaEntry{ID: id, Type: t, BackendID: backendID, Date: date, OriginalDate: date}
}

func TestMonthGrid_February2024Padding(t *testing.T) {
	s := NewState(nil)
	grid := s.MonthGrid(2024, time.February)

	if len(grid)%7 != 0 {
		t.Fatalf("grid length %d not a multiple of 7", len(grid))
	}
	// Feb 1 2024 is a Thursday: Sunday-first grid has 4 leading padding cells.
	for i := 0; i < 4; i++ {
		if !grid[i].Padding() {
			t.Fatalf("cell %d should be leading padding", i)
		}
	}
	if grid[4].Day != 1 {
		t.Fatalf("cell 4 = day %d, want 1", grid[4].Day)
	}
	if grid[4+28].Day != 29 {
		t.Fatalf("leap day misplaced: cell 32 = day %d", grid[4+28].Day)
	}
	for i := 4 + 29; i < len(grid); i++ {
		if !grid[i].Padding() {
			t.Fatalf("cell %d should be trailing padding", i)
		}
	}
	if len(grid) != 35 {
		t.Fatalf("grid length = %d, want 35", len(grid))
	}
}

func TestMonthData_BucketsByTypeAndMemoizes(t *testing.T) {
	s := NewState(nil)
	s.SetEntries([]model.AgendaEntry{
		entry("t-1", model.EntryTask, 1, brfmt.NewDate(2024, time.March, 10)),
		entry("p-2", model.EntryPrazo, 2, brfmt.NewDate(2024, time.March, 10)),
		entry("s-3", model.EntrySupervision, 3, brfmt.NewDate(2024, time.March, 15)),
		entry("t-4", model.EntryTask, 4, brfmt.NewDate(2024, time.April, 2)),
	})

	buckets := s.MonthData(2024, time.March)
	if len(buckets) != 31 {
		t.Fatalf("march has %d buckets", len(buckets))
	}
	day10 := buckets[9]
	if len(day10.Tasks) != 1 || len(day10.Prazos) != 1 || len(day10.Supervisions) != 0 {
		t.Fatalf("day 10 buckets: %+v", day10)
	}
	if n := buckets[14].Count(model.EntrySupervision); n != 1 {
		t.Fatalf("day 15 supervision count = %d", n)
	}

	// Memoized until reset: mutating Entries directly must not show up.
	s.Entries = append(s.Entries, entry("t-9", model.EntryTask, 9, brfmt.NewDate(2024, time.March, 10)))
	if n := s.MonthData(2024, time.March)[9].Count(model.EntryTask); n != 1 {
		t.Fatalf("cache bypassed: count = %d", n)
	}
	s.ResetMonths()
	if n := s.MonthData(2024, time.March)[9].Count(model.EntryTask); n != 2 {
		t.Fatalf("reset did not rebuild: count = %d", n)
	}
}

func TestApplyMove_PreservesOrigin(t *testing.T) {
	s := NewState(nil)
	e := entry("t-1", model.EntryTask, 1, brfmt.NewDate(2024, time.January, 10))
	s.SetEntries([]model.AgendaEntry{e})

	if err := s.ApplyMove("t-1", brfmt.NewDate(2024, time.February, 1)); err != nil {
		t.Fatalf("first move: %v", err)
	}
	if err := s.ApplyMove("t-1", brfmt.NewDate(2024, time.March, 15)); err != nil {
		t.Fatalf("second move: %v", err)
	}
	got := s.Find("t-1")
	if got.Date.ISO() != "2024-03-15" {
		t.Fatalf("date = %v", got.Date)
	}
	if got.OriginalDate.ISO() != "2024-01-10" {
		t.Fatalf("origin changed: %v", got.OriginalDate)
	}
}

func TestSetEntries_ReappliesSessionMoves(t *testing.T) {
	s := NewState(nil)
	s.SetEntries([]model.AgendaEntry{
		entry("t-1", model.EntryTask, 1, brfmt.NewDate(2024, time.March, 10)),
	})
	if err := s.ApplyMove("t-1", brfmt.NewDate(2024, time.March, 18)); err != nil {
		t.Fatalf("move: %v", err)
	}

	// Raw sources still carry the pre-move date; a re-filter rebuilds the
	// entry set from them and must not revert the move.
	s.SetEntries([]model.AgendaEntry{
		entry("t-1", model.EntryTask, 1, brfmt.NewDate(2024, time.March, 10)),
		entry("p-2", model.EntryPrazo, 2, brfmt.NewDate(2024, time.March, 12)),
	})
	if got := s.Find("t-1"); got.Date.ISO() != "2024-03-18" {
		t.Fatalf("session move lost on SetEntries: date %s", got.Date.ISO())
	}
	if got := s.Find("p-2"); got.Date.ISO() != "2024-03-12" {
		t.Fatalf("unmoved entry touched: date %s", got.Date.ISO())
	}
}

func TestApplyMove_PrescricaoGuard(t *testing.T) {
	s := NewState(nil)
	e := entry("s-9", model.EntrySupervision, 9, brfmt.NewDate(2024, time.March, 15))
	e.PrescricaoDate = brfmt.NewDate(2024, time.June, 1)
	s.SetEntries([]model.AgendaEntry{e})

	// On the prescricao date: rejected.
	err := s.ApplyMove("s-9", brfmt.NewDate(2024, time.June, 1))
	if !errors.Is(err, ErrPrescricaoBlocked) {
		t.Fatalf("move onto prescricao date: err = %v", err)
	}
	// Past it: rejected.
	err = s.ApplyMove("s-9", brfmt.NewDate(2024, time.June, 2))
	if !errors.Is(err, ErrPrescricaoBlocked) {
		t.Fatalf("move past prescricao: err = %v", err)
	}
	// Entry snapped back (never left): still on March 15.
	if got := s.Find("s-9"); got.Date.ISO() != "2024-03-15" {
		t.Fatalf("entry moved despite rejection: %v", got.Date)
	}

	// The day before: accepted.
	if err := s.ApplyMove("s-9", brfmt.NewDate(2024, time.May, 31)); err != nil {
		t.Fatalf("move before prescricao: %v", err)
	}
}

func TestApplyMove_UnknownEntry(t *testing.T) {
	s := NewState(nil)
	err := s.ApplyMove("t-404", brfmt.NewDate(2024, time.March, 1))
	if !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestApplyMove_MovesBetweenBuckets(t *testing.T) {
	s := NewState(nil)
	s.SetEntries([]model.AgendaEntry{entry("t-1", model.EntryTask, 1, brfmt.NewDate(2024, time.March, 10))})

	if err := s.ApplyMove("t-1", brfmt.NewDate(2024, time.March, 12)); err != nil {
		t.Fatalf("move: %v", err)
	}
	buckets := s.MonthData(2024, time.March)
	if n := buckets[9].Count(model.EntryTask); n != 0 {
		t.Fatalf("source bucket still has %d", n)
	}
	if n := buckets[11].Count(model.EntryTask); n != 1 {
		t.Fatalf("target bucket has %d", n)
	}
}

func TestMerge_APIWins(t *testing.T) {
	api := entry("t-42", model.EntryTask, 42, brfmt.NewDate(2024, time.March, 12))
	api.Description = "versão da API"
	api.FromAPI = true
	form := entry("t-42", model.EntryTask, 42, brfmt.NewDate(2024, time.March, 10))
	form.Description = "versão do formulário"

	out := Merge([]model.AgendaEntry{api}, []model.AgendaEntry{form}, MergeOptions{})
	if len(out) != 1 {
		t.Fatalf("merged set size = %d", len(out))
	}
	if !out[0].FromAPI || out[0].Description != "versão da API" {
		t.Fatalf("API entry did not win: %+v", out[0])
	}
}

func TestMerge_CompletedModeIsAPIOnly(t *testing.T) {
	api := entry("t-1", model.EntryTask, 1, brfmt.NewDate(2024, time.March, 1))
	api.FromAPI = true
	form := entry("t-row-0", model.EntryTask, 0, brfmt.NewDate(2024, time.March, 2))

	out := Merge([]model.AgendaEntry{api}, []model.AgendaEntry{form}, MergeOptions{PreferAPIOnly: true})
	for _, e := range out {
		if !e.FromAPI {
			t.Fatalf("form-scraped entry leaked into completed mode: %+v", e)
		}
	}
	if len(out) != 1 {
		t.Fatalf("merged set size = %d", len(out))
	}
}

func TestMerge_UserFilterKeepsSupervisions(t *testing.T) {
	mine := entry("t-1", model.EntryTask, 1, brfmt.NewDate(2024, time.March, 1))
	mine.Responsavel = &model.Responsavel{ID: 7}
	other := entry("t-2", model.EntryTask, 2, brfmt.NewDate(2024, time.March, 1))
	other.Responsavel = &model.Responsavel{ID: 8}
	unowned := entry("p-3", model.EntryPrazo, 3, brfmt.NewDate(2024, time.March, 1))
	sup := entry("s-4", model.EntrySupervision, 4, brfmt.NewDate(2024, time.March, 2))

	out := Merge([]model.AgendaEntry{mine, other, unowned, sup}, nil, MergeOptions{ActiveUserID: 7})
	if len(out) != 2 {
		t.Fatalf("filtered set = %+v", out)
	}
	ids := map[string]bool{}
	for _, e := range out {
		ids[e.ID] = true
	}
	if !ids["t-1"] || !ids["s-4"] {
		t.Fatalf("expected own task + supervision, got %+v", ids)
	}
}

func TestMerge_FocusedProcesso(t *testing.T) {
	a := entry("t-1", model.EntryTask, 1, brfmt.NewDate(2024, time.March, 1))
	a.ProcessoID = 501
	b := entry("t-2", model.EntryTask, 2, brfmt.NewDate(2024, time.March, 1))
	b.ProcessoID = 502

	out := Merge([]model.AgendaEntry{a, b}, nil, MergeOptions{FocusProcessoID: 501})
	if len(out) != 1 || out[0].ID != "t-1" {
		t.Fatalf("focused filter: %+v", out)
	}
}

func TestMerge_SortsChronologically(t *testing.T) {
	late := entry("t-2", model.EntryTask, 2, brfmt.NewDate(2024, time.April, 1))
	early := entry("t-1", model.EntryTask, 1, brfmt.NewDate(2024, time.March, 1))
	out := Merge([]model.AgendaEntry{late, early}, nil, MergeOptions{})
	if out[0].ID != "t-1" || out[1].ID != "t-2" {
		t.Fatalf("order: %v, %v", out[0].ID, out[1].ID)
	}
}

func TestWeekSlice_SnapAndClamp(t *testing.T) {
	s := NewState(nil)
	grid := s.MonthGrid(2024, time.March) // 5 leading (Fri) + 31 = 36 -> 42 cells

	week, off := WeekSlice(grid, 0)
	if len(week) != 7 || off != 0 {
		t.Fatalf("first week: len=%d off=%d", len(week), off)
	}
	// Snapped down to a multiple of 7.
	_, off = WeekSlice(grid, 10)
	if off != 7 {
		t.Fatalf("offset 10 snapped to %d, want 7", off)
	}
	// Clamped to the last full week.
	_, off = WeekSlice(grid, 1000)
	if off != len(grid)-7 {
		t.Fatalf("offset 1000 clamped to %d, want %d", off, len(grid)-7)
	}
	_, off = WeekSlice(grid, -7)
	if off != 0 {
		t.Fatalf("negative offset clamped to %d", off)
	}
}

func TestEarliestActive_SkipsExpired(t *testing.T) {
	s := NewState(nil)
	expired := entry("s-1", model.EntrySupervision, 1, brfmt.NewDate(2024, time.January, 5))
	expired.Expired = true
	active := entry("t-2", model.EntryTask, 2, brfmt.NewDate(2024, time.February, 10))
	s.SetEntries([]model.AgendaEntry{expired, active})

	d, ok := s.EarliestActive()
	if !ok || d.ISO() != "2024-02-10" {
		t.Fatalf("earliest active = %v ok=%v", d, ok)
	}

	s.SetEntries(nil)
	if _, ok := s.EarliestActive(); ok {
		t.Fatalf("empty set should have no earliest entry")
	}
}

func TestMonthStepping(t *testing.T) {
	y, m := NextMonth(2024, time.December)
	if y != 2025 || m != time.January {
		t.Fatalf("next dec = %d %v", y, m)
	}
	y, m = PrevMonth(2024, time.January)
	if y != 2023 || m != time.December {
		t.Fatalf("prev jan = %d %v", y, m)
	}
}
