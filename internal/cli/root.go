// Package cli wires the pauta commands. Bare invocation opens the interactive
// panel; subcommands give scripts and agents the same operations with strict
// JSON output.
package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pauta-cli/internal/api"
	"pauta-cli/internal/config"
	"pauta-cli/internal/format"
	"pauta-cli/internal/logging"
	"pauta-cli/internal/model"
	"pauta-cli/internal/normalize"
	"pauta-cli/internal/scrape"
	"pauta-cli/internal/store"
	"pauta-cli/internal/tui"
)

type App struct {
	Dir        string
	Workspace  string
	PagePath   string
	PrettyJSON bool

	cfg config.Config
	log *zap.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "pauta",
		Short:        "Agenda panel for the case-management back office",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Open the interactive agenda panel
  pauta

  # Open the panel seeded with a saved case page (inline forms included)
  pauta --page processo-1234.html

  # Scriptable commands
  pauta agenda list --status pending
  pauta agenda move t-42 18/04/2026
  pauta supervision barrar s-9 --retorno 01/06/2026
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		app.cfg = cfg
		log, err := logging.New(cfg.DebugLogPath, cfg.Debug)
		if err != nil {
			return err
		}
		app.log = log
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("PAUTA_DIR", ""), "Path to workspace dir (advanced: overrides workspace resolution; for fixtures/tests)")
	cmd.PersistentFlags().StringVar(&app.Workspace, "workspace", "", "Workspace name (default: config workspace or 'default')")
	cmd.PersistentFlags().StringVar(&app.PagePath, "page", "", "Saved case page (HTML) to scrape inline-form rows from")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")

	cmd.AddCommand(newAgendaCmd(app))
	cmd.AddCommand(newSupervisionCmd(app))
	cmd.AddCommand(newScrapeCmd(app))

	return cmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (app *App) writeOut(cmd *cobra.Command, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.PrettyJSON)
}

// resolveStore picks the workspace dir: --dir wins, then --workspace, then
// the config's workspace (default "default").
func resolveStore(app *App) (store.Store, error) {
	if app.Dir != "" {
		return store.Store{Dir: app.Dir}, nil
	}
	name := app.Workspace
	if name == "" {
		name = app.cfg.Workspace
	}
	if name == "" {
		name = "default"
	}
	dir, err := store.WorkspaceDir(name)
	if err != nil {
		return store.Store{}, err
	}
	return store.Store{Dir: dir}, nil
}

// client returns the API client, or an error when no base URL is configured.
func (app *App) client() (*api.Client, error) {
	if err := app.cfg.RequireBaseURL(); err != nil {
		return nil, err
	}
	return api.New(app.cfg.BaseURL, app.cfg.Cookie, app.cfg.CSRFToken, app.log), nil
}

// loadPage scrapes the --page file when given.
func (app *App) loadPage() (scrape.Page, error) {
	if app.PagePath == "" {
		return scrape.Page{}, nil
	}
	f, err := os.Open(app.PagePath)
	if err != nil {
		return scrape.Page{}, fmt.Errorf("open page: %w", err)
	}
	defer f.Close()
	return scrape.ParseCasePage(f)
}

func runTUI(app *App) error {
	s, err := resolveStore(app)
	if err != nil {
		return err
	}
	page, err := app.loadPage()
	if err != nil {
		return err
	}

	hyd := normalize.NewHydrator()
	for id, p := range page.People {
		hyd.People.Put(id, p)
	}

	var backend tui.Backend
	if app.cfg.BaseURL != "" {
		backend, err = app.client()
		if err != nil {
			return err
		}
	}

	return tui.Run(tui.Options{
		Store:          s,
		Backend:        backend,
		Hydrator:       hyd,
		FormRows:       page.Rows,
		PageProcessoID: page.ProcessoID,
		Log:            app.log,
	})
}

// parseEntryRef splits a persisted entry id like "t-42" into its type and
// backend id. Local "t-row-N" ids are rejected: they only exist inside one
// panel session.
func parseEntryRef(ref string) (model.EntryType, int64, error) {
	ref = strings.TrimSpace(strings.ToLower(ref))
	prefix, rest, ok := strings.Cut(ref, "-")
	if !ok || rest == "" {
		return "", 0, fmt.Errorf("entry ref %q: want t-<id>, p-<id> or s-<id>", ref)
	}
	typ := model.EntryType(strings.ToUpper(prefix))
	if !typ.Valid() {
		return "", 0, fmt.Errorf("entry ref %q: unknown type %q", ref, prefix)
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || id <= 0 {
		return "", 0, fmt.Errorf("entry ref %q: bad backend id %q", ref, rest)
	}
	return typ, id, nil
}
