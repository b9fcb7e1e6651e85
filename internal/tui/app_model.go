package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"go.uber.org/zap"

	"pauta-cli/internal/agenda"
	"pauta-cli/internal/api"
	"pauta-cli/internal/brfmt"
	"pauta-cli/internal/model"
	"pauta-cli/internal/normalize"
	"pauta-cli/internal/store"
)

// Backend is the slice of the API client the panel needs. nil means offline:
// the panel runs on scraped rows plus the last cached snapshot.
type Backend interface {
	Entries(ctx context.Context, status api.Status) ([]model.RawAPIEntry, error)
	Users(ctx context.Context) ([]model.UserSummary, error)
	UpdateDate(ctx context.Context, typ model.EntryType, backendID int64, date brfmt.Date) error
	AdvanceSupervisionStatus(ctx context.Context, analiseID int64, source string, index int) (api.SupervisionStatusResult, error)
	SetBarrado(ctx context.Context, analiseID int64, source string, index int, toggleActive *bool, retornoEm string) (model.Barrado, error)
}

type appModel struct {
	store    store.Store
	backend  Backend
	hydrator *normalize.Hydrator
	state    *agenda.State
	log      *zap.Logger

	// Local source: scraped inline-form rows, fixed for the session.
	formRows []model.RawFormRow
	// Remote source: last load's raw payload, re-normalized on rebuild.
	rawAPI []model.RawAPIEntry
	// pageProcessoID is the case the scraped page belongs to ("focused" mode).
	pageProcessoID int64

	width  int
	height int
	// The very first WindowSizeMsg is initial sizing, not a user resize.
	seenWindowSize bool

	view view
	mode calMode

	year       int
	month      time.Month
	weekOffset int

	showHistory   bool
	showCompleted bool
	focused       bool

	activeUserID int64

	// Detail selection, preserved across re-renders.
	activeDay  int
	activeType model.EntryType
	entryIdx   int

	collapsed map[string]bool

	users     []model.UserSummary
	usersList list.Model

	loading   bool
	spinner   spinner.Model
	loadGen   int
	staleNote string
	// preserveView stops the post-load jump-to-earliest once the user has
	// navigated somewhere on purpose.
	preserveView bool

	modal        modalKind
	modalEntryID string
	alertText    string
	yearInput    textinput.Model
	monthInput   textinput.Model
	dayInput     textinput.Model
	dateFocus    int

	minibufferText string
}

func newAppModel(s store.Store, backend Backend, hyd *normalize.Hydrator, formRows []model.RawFormRow, pageProcessoID int64, log *zap.Logger) appModel {
	if hyd == nil {
		hyd = normalize.NewHydrator()
	}
	if log == nil {
		log = zap.NewNop()
	}
	now := hyd.Now()
	m := appModel{
		store:          s,
		backend:        backend,
		hydrator:       hyd,
		state:          agenda.NewState(hyd.Origins),
		log:            log,
		formRows:       formRows,
		pageProcessoID: pageProcessoID,
		view:           viewCalendar,
		mode:           modeMonthly,
		year:           now.Year,
		month:          now.Month,
		activeType:     model.EntryTask,
		collapsed:      map[string]bool{},
		loading:        true,
	}

	m.spinner = spinner.New()
	m.spinner.Spinner = spinner.MiniDot

	m.usersList = list.New([]list.Item{}, newUserDelegate(), 0, 0)
	m.usersList.Title = "Usuários"
	m.usersList.SetShowHelp(false)
	m.usersList.SetShowStatusBar(false)
	m.usersList.SetFilteringEnabled(false)

	m.yearInput = textinput.New()
	m.yearInput.Placeholder = "YYYY"
	m.yearInput.CharLimit = 4
	m.yearInput.Width = 6
	m.monthInput = textinput.New()
	m.monthInput.Placeholder = "MM"
	m.monthInput.CharLimit = 2
	m.monthInput.Width = 4
	m.dayInput = textinput.New()
	m.dayInput.Placeholder = "DD"
	m.dayInput.CharLimit = 2
	m.dayInput.Width = 4

	// Local data is available immediately; the API load lands async.
	m.rebuild()

	// Best-effort: restore the last panel state for this workspace.
	if st, err := s.LoadPanelState(); err == nil {
		m.applySavedPanelState(st)
	}

	return m
}

func (m *appModel) applySavedPanelState(st *store.PanelState) {
	if st == nil {
		return
	}
	if st.View != "" {
		m.view = viewFromString(st.View)
	}
	if st.Mode != "" {
		m.mode = modeFromString(st.Mode)
	}
	if st.Year != 0 && st.Month >= 1 && st.Month <= 12 {
		m.year = st.Year
		m.month = time.Month(st.Month)
		m.preserveView = true
	}
	m.weekOffset = st.WeekOffset
	m.showHistory = st.ShowHistory
	m.showCompleted = st.ShowCompleted
	m.activeUserID = st.ActiveUserID
	if st.FocusProcessoID != 0 && st.FocusProcessoID == m.pageProcessoID {
		m.focused = true
	}
	if st.ActiveDay != 0 {
		m.activeDay = st.ActiveDay
	}
	if t := model.EntryType(st.ActiveType); t.Valid() {
		m.activeType = t
	}
	for k, v := range st.CollapsedSections {
		m.collapsed[k] = v
	}
	m.rebuild()
}

func (m appModel) panelStateForSave() *store.PanelState {
	return &store.PanelState{
		View:              viewToString(m.view),
		Mode:              modeToString(m.mode),
		Year:              m.year,
		Month:             int(m.month),
		WeekOffset:        m.weekOffset,
		ShowHistory:       m.showHistory,
		ShowCompleted:     m.showCompleted,
		ActiveUserID:      m.activeUserID,
		FocusProcessoID:   m.focusProcessoID(),
		ActiveDay:         m.activeDay,
		ActiveType:        string(m.activeType),
		CollapsedSections: m.collapsed,
	}
}

func (m appModel) focusProcessoID() int64 {
	if m.focused {
		return m.pageProcessoID
	}
	return 0
}

// rebuild reconciles both sources under the active filters and refreshes the
// derived month buckets. Cheap enough to run on every toggle.
func (m *appModel) rebuild() {
	var formEntries []model.AgendaEntry
	for _, row := range m.formRows {
		if e, ok := m.hydrator.FromFormRow(row); ok {
			formEntries = append(formEntries, e)
		}
	}
	var apiEntries []model.AgendaEntry
	for _, raw := range m.rawAPI {
		if e, ok := m.hydrator.FromAPIEntry(raw); ok {
			apiEntries = append(apiEntries, e)
		}
	}
	merged := agenda.Merge(apiEntries, formEntries, agenda.MergeOptions{
		PreferAPIOnly:   m.showCompleted,
		ActiveUserID:    m.activeUserID,
		FocusProcessoID: m.focusProcessoID(),
	})
	m.state.SetEntries(merged)

	if !m.preserveView {
		if d, ok := m.state.EarliestActive(); ok {
			m.year = d.Year
			m.month = d.Month
		} else {
			now := m.hydrator.Now()
			m.year = now.Year
			m.month = now.Month
		}
	}
	m.clampSelection()
}

// clampSelection keeps the detail cursor on entries that still exist after a
// rebuild or bucket change.
func (m *appModel) clampSelection() {
	m.activeDay = brfmt.ClampDay(m.year, m.month, m.activeDay)
	entries := m.detailEntries()
	if m.entryIdx >= len(entries) {
		m.entryIdx = len(entries) - 1
	}
	if m.entryIdx < 0 {
		m.entryIdx = 0
	}
}

// detailEntries is the currently targeted (day, type) list.
func (m appModel) detailEntries() []model.AgendaEntry {
	if m.activeDay < 1 {
		return nil
	}
	buckets := m.state.MonthData(m.year, m.month)
	if m.activeDay > len(buckets) {
		return nil
	}
	return buckets[m.activeDay-1].Of(m.activeType)
}

func (m appModel) selectedEntry() *model.AgendaEntry {
	entries := m.detailEntries()
	if m.entryIdx < 0 || m.entryIdx >= len(entries) {
		return nil
	}
	return m.state.Find(entries[m.entryIdx].ID)
}

func (m appModel) status() api.Status {
	if m.showCompleted {
		return api.StatusCompleted
	}
	return api.StatusPending
}

func (m appModel) showMinibuffer(text string) appModel {
	m.minibufferText = text
	return m
}
