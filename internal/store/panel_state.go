package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const panelStateFileName = "panel_state.json"

// PanelState stores small, user-facing UI state so reopening the panel lands
// where the user left it. Best effort: callers tolerate missing/invalid data.
type PanelState struct {
	Version int `json:"version"`

	// View is "calendar" or "users".
	View string `json:"view,omitempty"`
	// Mode is "monthly" or "weekly".
	Mode string `json:"mode,omitempty"`

	Year       int `json:"year,omitempty"`
	Month      int `json:"month,omitempty"` // 1-12
	WeekOffset int `json:"weekOffset,omitempty"`

	ShowHistory   bool `json:"showHistory,omitempty"`
	ShowCompleted bool `json:"showCompleted,omitempty"`

	ActiveUserID    int64 `json:"activeUserId,omitempty"`
	FocusProcessoID int64 `json:"focusProcessoId,omitempty"`

	// Last-selected detail target, restored across re-renders and reopens.
	ActiveDay  int    `json:"activeDay,omitempty"`
	ActiveType string `json:"activeType,omitempty"`

	// CollapsedSections tracks detail-pane sections the user folded away.
	CollapsedSections map[string]bool `json:"collapsedSections,omitempty"`
}

func (s Store) panelStatePath() string {
	return filepath.Join(s.Dir, panelStateFileName)
}

func (s Store) LoadPanelState() (*PanelState, error) {
	if strings.TrimSpace(s.Dir) == "" {
		return &PanelState{Version: 1}, nil
	}
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(s.panelStatePath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &PanelState{Version: 1}, nil
		}
		return nil, err
	}
	var st PanelState
	if err := json.Unmarshal(b, &st); err != nil {
		// Best-effort; if corrupted, treat as missing.
		return &PanelState{Version: 1}, nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	return &st, nil
}

func (s Store) SavePanelState(st *PanelState) error {
	if st == nil {
		return nil
	}
	if strings.TrimSpace(s.Dir) == "" {
		return nil
	}
	if err := s.Ensure(); err != nil {
		return err
	}
	if st.Version == 0 {
		st.Version = 1
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	path := s.panelStatePath()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
