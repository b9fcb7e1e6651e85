package store

import (
	"context"
	"errors"
	"testing"

	"pauta-cli/internal/model"
)

func TestPanelState_MissingFileYieldsDefaults(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	st, err := s.LoadPanelState()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if st.Version != 1 || st.View != "" {
		t.Fatalf("defaults: %+v", st)
	}
}

func TestPanelState_Roundtrip(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	in := &PanelState{
		View:          "calendar",
		Mode:          "weekly",
		Year:          2024,
		Month:         3,
		WeekOffset:    7,
		ShowCompleted: true,
		ActiveUserID:  7,
		ActiveDay:     15,
		ActiveType:    "S",
		CollapsedSections: map[string]bool{
			"contratos": true,
		},
	}
	if err := s.SavePanelState(in); err != nil {
		t.Fatalf("save: %v", err)
	}
	out, err := s.LoadPanelState()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if out.Mode != "weekly" || out.Year != 2024 || out.Month != 3 || out.WeekOffset != 7 {
		t.Fatalf("roundtrip: %+v", out)
	}
	if !out.ShowCompleted || out.ActiveUserID != 7 || out.ActiveDay != 15 || out.ActiveType != "S" {
		t.Fatalf("roundtrip flags: %+v", out)
	}
	if !out.CollapsedSections["contratos"] {
		t.Fatalf("collapsed sections lost: %+v", out.CollapsedSections)
	}
}

func TestNormalizeWorkspaceName(t *testing.T) {
	if _, err := NormalizeWorkspaceName("  Escritorio-SP "); err != nil {
		t.Fatalf("valid name rejected: %v", err)
	}
	if _, err := NormalizeWorkspaceName(""); err == nil {
		t.Fatalf("empty name accepted")
	}
	if _, err := NormalizeWorkspaceName("a b"); err == nil {
		t.Fatalf("space accepted")
	}
}

func TestCache_SnapshotRoundtrip(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	ctx := context.Background()
	db, err := s.OpenCache(ctx)
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	defer db.Close()

	if _, _, err := s.LoadSnapshot(ctx, db, "pending"); !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("empty cache err = %v", err)
	}

	in := []model.RawAPIEntry{
		{ID: 1, Type: "T", Date: "2024-03-10", Description: "x"},
		{ID: 2, Type: "S", Date: "2024-03-15", PrescricaoDate: "2024-03-20"},
	}
	if err := s.SaveSnapshot(ctx, db, "pending", in); err != nil {
		t.Fatalf("save: %v", err)
	}
	out, ts, err := s.LoadSnapshot(ctx, db, "pending")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out) != 2 || out[1].PrescricaoDate != "2024-03-20" {
		t.Fatalf("roundtrip: %+v", out)
	}
	if ts.IsZero() {
		t.Fatalf("fetch time lost")
	}

	// Overwrite, not append.
	if err := s.SaveSnapshot(ctx, db, "pending", in[:1]); err != nil {
		t.Fatalf("resave: %v", err)
	}
	out, _, _ = s.LoadSnapshot(ctx, db, "pending")
	if len(out) != 1 {
		t.Fatalf("snapshot not replaced: %d entries", len(out))
	}
}

func TestCache_OriginsFirstWriteWins(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	ctx := context.Background()
	db, err := s.OpenCache(ctx)
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	defer db.Close()

	if err := s.SaveOrigins(ctx, db, map[string]string{"T#1": "2024-01-10"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	// A later save for the same identity must not replace the stored origin.
	if err := s.SaveOrigins(ctx, db, map[string]string{"T#1": "2024-02-01", "P#2": "2024-03-05"}); err != nil {
		t.Fatalf("second save: %v", err)
	}
	out, err := s.LoadOrigins(ctx, db)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if out["T#1"] != "2024-01-10" {
		t.Fatalf("origin overwritten: %q", out["T#1"])
	}
	if out["P#2"] != "2024-03-05" {
		t.Fatalf("new origin missing: %+v", out)
	}
}
