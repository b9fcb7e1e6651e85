package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"pauta-cli/internal/agenda"
	"pauta-cli/internal/brfmt"
	"pauta-cli/internal/model"
)

func (m appModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		loadEntriesCmd(m.backend, m.store, m.status(), m.loadGen, m.log),
		loadUsersCmd(m.backend, m.loadGen),
	)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.seenWindowSize = true
		m.usersList.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case entriesLoadedMsg:
		return m.onEntriesLoaded(msg)

	case usersLoadedMsg:
		if msg.gen != m.loadGen {
			return m, nil
		}
		if msg.err != nil {
			m.log.Warn("users fetch failed", zap.Error(msg.err))
			return m, nil
		}
		m.users = msg.users
		m.usersList.SetItems(userItems(msg.users))
		return m, nil

	case dateSavedMsg:
		if msg.err != nil {
			// The local move stands; the user decides whether to retry.
			return m.showMinibuffer("Falha ao salvar nova data: " + msg.err.Error()), nil
		}
		return m.showMinibuffer("Data salva"), nil

	case supervisionStatusMsg:
		if msg.err != nil {
			m.modal = modalAlert
			m.alertText = "Falha ao avançar status: " + msg.err.Error()
			return m, nil
		}
		if e := m.state.Find(msg.entryID); e != nil && msg.result.StatusLabel != "" {
			e.StatusLabel = msg.result.StatusLabel
			m.state.ResetMonths()
		}
		return m.showMinibuffer("Status: " + msg.result.StatusLabel), nil

	case barradoSavedMsg:
		if msg.err != nil {
			m.modal = modalAlert
			m.alertText = "Falha ao atualizar barrado: " + msg.err.Error()
			return m, nil
		}
		if e := m.state.Find(msg.entryID); e != nil {
			b := msg.barrado
			e.Barrado = &b
			m.state.ResetMonths()
		}
		if msg.barrado.Ativo {
			return m.showMinibuffer("Análise barrada"), nil
		}
		return m.showMinibuffer("Análise desbarrada"), nil

	case tea.KeyMsg:
		return m.onKey(msg)
	}
	return m, nil
}

func (m appModel) onEntriesLoaded(msg entriesLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.loadGen {
		// A newer toggle superseded this fetch; drop it.
		return m, nil
	}
	m.loading = false
	if msg.entries == nil && msg.err != nil {
		return m.showMinibuffer("Falha ao carregar agenda: " + msg.err.Error()), nil
	}
	m.rawAPI = msg.entries
	if msg.fromCache {
		m.staleNote = "dados em cache de " + msg.fetchedAt.Local().Format("02/01/2006 15:04")
	} else {
		m.staleNote = ""
	}
	m.rebuild()
	if msg.err != nil {
		return m.showMinibuffer("Sem conexão, exibindo cache"), nil
	}
	return m, nil
}

func (m appModel) onKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.minibufferText = ""

	if m.modal != modalNone {
		return m.onModalKey(msg)
	}
	if m.view == viewUsers {
		return m.onUsersKey(msg)
	}

	key := msg.String()
	switch key {
	case "q", "ctrl+c":
		m.persistSessionState()
		return m, tea.Quit

	case "r":
		return m.reload()

	case "m":
		if m.mode == modeMonthly {
			m.mode = modeWeekly
			m.weekOffset = m.activeWeekOffset()
		} else {
			m.mode = modeMonthly
			m.weekOffset = 0
		}
		return m, nil

	case "u":
		m.view = viewUsers
		return m, nil

	case "c":
		m.showCompleted = !m.showCompleted
		return m.reload()

	case "f":
		if m.pageProcessoID == 0 {
			return m.showMinibuffer("Sem processo em foco nesta sessão"), nil
		}
		m.focused = !m.focused
		m.rebuild()
		return m, nil

	case "H":
		m.showHistory = !m.showHistory
		return m, nil

	case "h":
		m.stepPeriod(-1)
		return m, nil
	case "l":
		m.stepPeriod(1)
		return m, nil

	case "left":
		m.stepDay(-1)
		return m, nil
	case "right":
		m.stepDay(1)
		return m, nil
	case "up":
		m.stepDay(-7)
		return m, nil
	case "down":
		m.stepDay(7)
		return m, nil

	case "tab":
		m.activeType = nextType(m.activeType)
		m.entryIdx = 0
		return m, nil
	case "1":
		m.activeType = model.EntryTask
		m.entryIdx = 0
		return m, nil
	case "2":
		m.activeType = model.EntryPrazo
		m.entryIdx = 0
		return m, nil
	case "3":
		m.activeType = model.EntrySupervision
		m.entryIdx = 0
		return m, nil

	case "j":
		if m.entryIdx+1 < len(m.detailEntries()) {
			m.entryIdx++
		}
		return m, nil
	case "k":
		if m.entryIdx > 0 {
			m.entryIdx--
		}
		return m, nil

	case "z":
		if e := m.selectedEntry(); e != nil {
			sec := sectionKey(e.Type)
			m.collapsed[sec] = !m.collapsed[sec]
		}
		return m, nil

	case "M", "enter":
		return m.openMoveModal()

	case "s":
		return m.advanceSupervision()

	case "b":
		return m.toggleBarrado()

	case "B":
		return m.openRetornoModal()

	case "t":
		now := m.hydrator.Now()
		m.year = now.Year
		m.month = now.Month
		m.activeDay = now.Day
		m.weekOffset = m.activeWeekOffset()
		m.preserveView = true
		m.clampSelection()
		return m, nil
	}
	return m, nil
}

func (m *appModel) reload() (tea.Model, tea.Cmd) {
	m.loadGen++
	m.loading = true
	return *m, tea.Batch(
		m.spinner.Tick,
		loadEntriesCmd(m.backend, m.store, m.status(), m.loadGen, m.log),
		loadUsersCmd(m.backend, m.loadGen),
	)
}

// stepPeriod moves one month (monthly mode) or one week (weekly mode).
func (m *appModel) stepPeriod(delta int) {
	m.preserveView = true
	if m.mode == modeWeekly {
		grid := m.state.MonthGrid(m.year, m.month)
		next := m.weekOffset + delta*7
		if next < 0 {
			m.year, m.month = agenda.PrevMonth(m.year, m.month)
			grid = m.state.MonthGrid(m.year, m.month)
			m.weekOffset = len(grid) - 7
		} else if next >= len(grid) {
			m.year, m.month = agenda.NextMonth(m.year, m.month)
			m.weekOffset = 0
		} else {
			m.weekOffset = next
		}
	} else {
		if delta < 0 {
			m.year, m.month = agenda.PrevMonth(m.year, m.month)
		} else {
			m.year, m.month = agenda.NextMonth(m.year, m.month)
		}
	}
	m.entryIdx = 0
	m.clampSelection()
}

// stepDay moves the day selection, rolling over month boundaries.
func (m *appModel) stepDay(delta int) {
	m.preserveView = true
	day := m.activeDay + delta
	if day < 1 {
		m.year, m.month = agenda.PrevMonth(m.year, m.month)
		day += brfmt.DaysInMonth(m.year, m.month)
	} else if max := brfmt.DaysInMonth(m.year, m.month); day > max {
		day -= max
		m.year, m.month = agenda.NextMonth(m.year, m.month)
	}
	m.activeDay = day
	m.weekOffset = m.activeWeekOffset()
	m.entryIdx = 0
	m.clampSelection()
}

// activeWeekOffset is the grid offset of the week holding the selected day.
func (m appModel) activeWeekOffset() int {
	day := m.activeDay
	if day < 1 {
		day = 1
	}
	grid := m.state.MonthGrid(m.year, m.month)
	for i, cell := range grid {
		if !cell.Padding() && cell.Day == day {
			return (i / 7) * 7
		}
	}
	return 0
}

func nextType(t model.EntryType) model.EntryType {
	switch t {
	case model.EntryTask:
		return model.EntryPrazo
	case model.EntryPrazo:
		return model.EntrySupervision
	}
	return model.EntryTask
}

func sectionKey(t model.EntryType) string {
	return "detail:" + string(t)
}

func (m appModel) onUsersKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.persistSessionState()
		return m, tea.Quit
	case "esc", "u":
		m.view = viewCalendar
		return m, nil
	case "0":
		m.activeUserID = 0
		m.view = viewCalendar
		m.rebuild()
		return m, nil
	case "enter":
		if it, ok := m.usersList.SelectedItem().(userItem); ok {
			m.activeUserID = it.summary.ID
			m.view = viewCalendar
			m.rebuild()
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.usersList, cmd = m.usersList.Update(msg)
	return m, cmd
}

func (m appModel) openMoveModal() (tea.Model, tea.Cmd) {
	e := m.selectedEntry()
	if e == nil {
		return m.showMinibuffer("Nenhuma entrada selecionada"), nil
	}
	if e.Expired {
		return m.showMinibuffer("Análise prescrita não pode ser remarcada"), nil
	}
	m.modal = modalMoveEntry
	m.modalEntryID = e.ID
	m.setDateInputs(e.Date)
	return m, nil
}

func (m appModel) openRetornoModal() (tea.Model, tea.Cmd) {
	e := m.selectedEntry()
	if e == nil || e.Type != model.EntrySupervision {
		return m.showMinibuffer("Retorno só se aplica a supervisões"), nil
	}
	if m.backend == nil {
		return m.showMinibuffer("Sem conexão com o servidor"), nil
	}
	m.modal = modalBarrarRetorno
	m.modalEntryID = e.ID
	seed := m.hydrator.Now()
	if e.Barrado != nil {
		if d, ok := brfmt.ParseDate(e.Barrado.RetornoEm); ok {
			seed = d
		}
	}
	m.setDateInputs(seed)
	return m, nil
}

func (m *appModel) setDateInputs(d brfmt.Date) {
	m.yearInput.SetValue(strconv.Itoa(d.Year))
	m.monthInput.SetValue(fmt.Sprintf("%02d", int(d.Month)))
	m.dayInput.SetValue(fmt.Sprintf("%02d", d.Day))
	m.dateFocus = 2
	m.yearInput.Blur()
	m.monthInput.Blur()
	m.dayInput.Focus()
}

func (m appModel) advanceSupervision() (tea.Model, tea.Cmd) {
	e := m.selectedEntry()
	if e == nil || e.Type != model.EntrySupervision {
		return m.showMinibuffer("Status só se aplica a supervisões"), nil
	}
	if m.backend == nil {
		return m.showMinibuffer("Sem conexão com o servidor"), nil
	}
	return m, advanceSupervisionCmd(m.backend, e.ID, e.AnaliseID, e.Source, e.Index)
}

func (m appModel) toggleBarrado() (tea.Model, tea.Cmd) {
	e := m.selectedEntry()
	if e == nil || e.Type != model.EntrySupervision {
		return m.showMinibuffer("Barrar só se aplica a supervisões"), nil
	}
	if m.backend == nil {
		return m.showMinibuffer("Sem conexão com o servidor"), nil
	}
	active := true
	if e.Barrado != nil {
		active = !e.Barrado.Ativo
	}
	return m, saveBarradoCmd(m.backend, e.ID, e.AnaliseID, e.Source, e.Index, &active, "")
}

func (m appModel) onModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.modal = modalNone
		m.alertText = ""
		return m, nil
	case "ctrl+c":
		m.persistSessionState()
		return m, tea.Quit
	}

	if m.modal == modalAlert {
		if msg.String() == "enter" {
			m.modal = modalNone
			m.alertText = ""
		}
		return m, nil
	}

	switch msg.String() {
	case "tab", "down":
		m.cycleDateFocus(1)
		return m, nil
	case "shift+tab", "up":
		m.cycleDateFocus(-1)
		return m, nil
	case "enter":
		return m.confirmDateModal()
	}

	var cmd tea.Cmd
	switch m.dateFocus {
	case 0:
		m.yearInput, cmd = m.yearInput.Update(msg)
	case 1:
		m.monthInput, cmd = m.monthInput.Update(msg)
	default:
		m.dayInput, cmd = m.dayInput.Update(msg)
	}
	return m, cmd
}

func (m *appModel) cycleDateFocus(delta int) {
	m.dateFocus = (m.dateFocus + delta + 3) % 3
	m.yearInput.Blur()
	m.monthInput.Blur()
	m.dayInput.Blur()
	switch m.dateFocus {
	case 0:
		m.yearInput.Focus()
	case 1:
		m.monthInput.Focus()
	default:
		m.dayInput.Focus()
	}
}

func (m appModel) modalDate() (brfmt.Date, error) {
	year, err := strconv.Atoi(strings.TrimSpace(m.yearInput.Value()))
	if err != nil || year < 1900 || year > 2200 {
		return brfmt.Date{}, fmt.Errorf("ano inválido")
	}
	monthN, err := strconv.Atoi(strings.TrimSpace(m.monthInput.Value()))
	if err != nil || monthN < 1 || monthN > 12 {
		return brfmt.Date{}, fmt.Errorf("mês inválido")
	}
	day, err := strconv.Atoi(strings.TrimSpace(m.dayInput.Value()))
	if err != nil || day < 1 || day > brfmt.DaysInMonth(year, time.Month(monthN)) {
		return brfmt.Date{}, fmt.Errorf("dia inválido")
	}
	return brfmt.Date{Year: year, Month: time.Month(monthN), Day: day}, nil
}

func (m appModel) confirmDateModal() (tea.Model, tea.Cmd) {
	target, err := m.modalDate()
	if err != nil {
		m.alertText = err.Error()
		return m, nil
	}
	m.alertText = ""

	switch m.modal {
	case modalBarrarRetorno:
		e := m.state.Find(m.modalEntryID)
		if e == nil {
			m.modal = modalNone
			return m, nil
		}
		m.modal = modalNone
		return m, saveBarradoCmd(m.backend, e.ID, e.AnaliseID, e.Source, e.Index, nil, target.ISO())

	case modalMoveEntry:
		e := m.state.Find(m.modalEntryID)
		if e == nil {
			m.modal = modalNone
			return m, nil
		}
		typ, backendID := e.Type, e.BackendID
		if err := m.state.ApplyMove(m.modalEntryID, target); err != nil {
			if errors.Is(err, agenda.ErrPrescricaoBlocked) {
				m.alertText = "Data igual ou posterior à prescrição (" + e.PrescricaoDate.Label() + ")"
				return m, nil
			}
			m.modal = modalNone
			return m.showMinibuffer(err.Error()), nil
		}
		// Optimistic: the entry already moved locally, follow it on screen.
		m.modal = modalNone
		m.preserveView = true
		m.year = target.Year
		m.month = target.Month
		m.activeDay = target.Day
		m.weekOffset = m.activeWeekOffset()
		m.clampSelection()
		m = m.showMinibuffer("Movido para " + target.Label())
		return m, saveDateCmd(m.backend, m.modalEntryID, typ, backendID, target)
	}
	m.modal = modalNone
	return m, nil
}
