package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"pauta-cli/internal/api"
	"pauta-cli/internal/brfmt"
	"pauta-cli/internal/model"
	"pauta-cli/internal/store"
)

const requestTimeout = 20 * time.Second

// loadEntriesCmd fetches the working set for one status filter. On success the
// payload is also written to the workspace cache; on failure (or with no
// backend at all) the last cached snapshot is served instead, flagged stale.
func loadEntriesCmd(backend Backend, s store.Store, status api.Status, gen int, log *zap.Logger) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		var fetchErr error
		if backend != nil {
			entries, err := backend.Entries(ctx, status)
			if err == nil {
				cacheSnapshot(ctx, s, status, entries, log)
				return entriesLoadedMsg{gen: gen, status: status, entries: entries, fetchedAt: time.Now()}
			}
			fetchErr = err
			log.Warn("agenda fetch failed, trying cache", zap.String("status", string(status)), zap.Error(err))
		}

		entries, fetchedAt, err := loadSnapshot(ctx, s, status)
		if err != nil {
			if fetchErr == nil {
				fetchErr = err
			}
			return entriesLoadedMsg{gen: gen, status: status, err: fetchErr}
		}
		return entriesLoadedMsg{gen: gen, status: status, entries: entries, fromCache: true, fetchedAt: fetchedAt, err: fetchErr}
	}
}

func cacheSnapshot(ctx context.Context, s store.Store, status api.Status, entries []model.RawAPIEntry, log *zap.Logger) {
	db, err := s.OpenCache(ctx)
	if err != nil {
		log.Warn("open cache", zap.Error(err))
		return
	}
	defer db.Close()
	if err := s.SaveSnapshot(ctx, db, string(status), entries); err != nil {
		log.Warn("cache snapshot", zap.Error(err))
	}
}

func loadSnapshot(ctx context.Context, s store.Store, status api.Status) ([]model.RawAPIEntry, time.Time, error) {
	db, err := s.OpenCache(ctx)
	if err != nil {
		return nil, time.Time{}, err
	}
	defer db.Close()
	return s.LoadSnapshot(ctx, db, string(status))
}

func loadUsersCmd(backend Backend, gen int) tea.Cmd {
	return func() tea.Msg {
		if backend == nil {
			return usersLoadedMsg{gen: gen}
		}
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		users, err := backend.Users(ctx)
		return usersLoadedMsg{gen: gen, users: users, err: err}
	}
}

// saveDateCmd persists a reschedule that already happened locally.
func saveDateCmd(backend Backend, entryID string, typ model.EntryType, backendID int64, target brfmt.Date) tea.Cmd {
	return func() tea.Msg {
		if backend == nil || backendID == 0 || typ == model.EntrySupervision {
			// Nothing to persist: offline, unsaved row, or a supervision whose
			// placement is a client-side working view only.
			return dateSavedMsg{entryID: entryID}
		}
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := backend.UpdateDate(ctx, typ, backendID, target)
		return dateSavedMsg{entryID: entryID, err: err}
	}
}

func advanceSupervisionCmd(backend Backend, entryID string, analiseID int64, source string, index int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		result, err := backend.AdvanceSupervisionStatus(ctx, analiseID, source, index)
		return supervisionStatusMsg{entryID: entryID, result: result, err: err}
	}
}

func saveBarradoCmd(backend Backend, entryID string, analiseID int64, source string, index int, toggleActive *bool, retornoEm string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		barrado, err := backend.SetBarrado(ctx, analiseID, source, index, toggleActive, retornoEm)
		return barradoSavedMsg{entryID: entryID, barrado: barrado, err: err}
	}
}

// persistSessionState writes panel state and the origin ledger. Best effort,
// called on quit.
func (m appModel) persistSessionState() {
	_ = m.store.SavePanelState(m.panelStateForSave())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	db, err := m.store.OpenCache(ctx)
	if err != nil {
		return
	}
	defer db.Close()
	_ = m.store.SaveOrigins(ctx, db, m.hydrator.Origins.Snapshot())
}
