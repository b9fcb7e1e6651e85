// Package tui is the interactive agenda panel: a month/week calendar over the
// reconciled task/prazo/supervision set, with keyboard-driven rescheduling and
// supervision actions.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"pauta-cli/internal/model"
	"pauta-cli/internal/normalize"
	"pauta-cli/internal/store"
)

// Options wires the panel's collaborators. Backend may be nil (offline mode);
// FormRows and PageProcessoID come from a scraped case page and may be empty.
type Options struct {
	Store          store.Store
	Backend        Backend
	Hydrator       *normalize.Hydrator
	FormRows       []model.RawFormRow
	PageProcessoID int64
	Log            *zap.Logger
}

// Run starts the panel and blocks until the user quits.
func Run(opts Options) error {
	if opts.Hydrator == nil {
		opts.Hydrator = normalize.NewHydrator()
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	restoreOrigins(opts.Store, opts.Hydrator, opts.Log)

	m := newAppModel(opts.Store, opts.Backend, opts.Hydrator, opts.FormRows, opts.PageProcessoID, opts.Log)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// restoreOrigins seeds the ledger from the workspace cache so original dates
// survive across sessions. Best effort.
func restoreOrigins(s store.Store, hyd *normalize.Hydrator, log *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	db, err := s.OpenCache(ctx)
	if err != nil {
		log.Warn("open cache", zap.Error(err))
		return
	}
	defer db.Close()
	origins, err := s.LoadOrigins(ctx, db)
	if err != nil {
		log.Warn("load origins", zap.Error(err))
		return
	}
	hyd.Origins.Restore(origins)
}
