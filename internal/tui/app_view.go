package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"pauta-cli/internal/agenda"
	"pauta-cli/internal/brfmt"
	"pauta-cli/internal/model"
)

var monthNames = [...]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

func monthName(m time.Month) string {
	if m < time.January || m > time.December {
		return m.String()
	}
	return monthNames[m-1]
}

func (m appModel) View() string {
	if m.view == viewUsers {
		return m.viewUsers()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCalendar())
	b.WriteString("\n")
	b.WriteString(m.renderDetail())
	b.WriteString("\n")
	b.WriteString(m.renderMinibuffer())

	out := b.String()
	if m.modal != modalNone {
		return m.overlayModal(out)
	}
	return out
}

func (m appModel) renderHeader() string {
	crumb := "pauta › agenda › " + monthName(m.month) + " " + fmt.Sprintf("%d", m.year)
	if m.mode == modeWeekly {
		crumb += " (semana)"
	}

	var flags []string
	if m.showCompleted {
		flags = append(flags, "concluídas")
	}
	if m.focused {
		flags = append(flags, fmt.Sprintf("processo %d", m.pageProcessoID))
	}
	if m.activeUserID != 0 {
		flags = append(flags, "usuário "+m.activeUserName())
	}
	if m.showHistory {
		flags = append(flags, "histórico")
	}

	line := styleBreadcrumb.Render(crumb)
	if len(flags) > 0 {
		line += "  " + styleMuted.Render("["+strings.Join(flags, " · ")+"]")
	}
	if m.loading {
		line += "  " + m.spinner.View() + styleMuted.Render(" carregando")
	} else if m.staleNote != "" {
		line += "  " + styleDanger.Render(m.staleNote)
	}
	return line
}

func (m appModel) activeUserName() string {
	for _, u := range m.users {
		if u.ID == m.activeUserID {
			return u.DisplayName()
		}
	}
	return fmt.Sprintf("#%d", m.activeUserID)
}

func (m appModel) cellWidth() int {
	w := (m.width - 2) / 7
	if w < 9 {
		w = 9
	}
	if w > 16 {
		w = 16
	}
	return w
}

func (m appModel) renderCalendar() string {
	grid := m.state.MonthGrid(m.year, m.month)
	if m.mode == modeWeekly {
		grid, _ = agenda.WeekSlice(grid, m.weekOffset)
	}

	cw := m.cellWidth()
	var b strings.Builder
	for i, h := range agenda.WeekdayHeaders {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(styleMuted.Render(padCenter(h, cw)))
	}
	b.WriteString("\n")

	today := m.hydrator.Now()
	for row := 0; row+7 <= len(grid); row += 7 {
		cells := make([]string, 7)
		for i, cell := range grid[row : row+7] {
			cells[i] = m.renderCell(cell, cw, today)
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, joinWithGap(cells)...))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func padCenter(s string, w int) string {
	gap := w - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	left := gap / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", gap-left)
}

func joinWithGap(cells []string) []string {
	out := make([]string, 0, len(cells)*2-1)
	for i, c := range cells {
		if i > 0 {
			out = append(out, " ")
		}
		out = append(out, c)
	}
	return out
}

// cardCap is how many per-day summary cards a cell shows before collapsing
// the rest into a "+N" line. Weekly cells have the vertical room for more.
func (m appModel) cardCap() int {
	if m.mode == modeWeekly {
		return 5
	}
	return 3
}

func (m appModel) renderCell(cell agenda.GridCell, width int, today brfmt.Date) string {
	inner := width - 4
	if inner < 3 {
		inner = 3
	}
	if cell.Padding() {
		return styleDayCell.Width(inner).Render(strings.Repeat(" ", inner) + "\n ")
	}

	dayLabel := fmt.Sprintf("%2d", cell.Day)
	if d, ok := agenda.CellDate(m.year, m.month, cell); ok && d.Equal(today) {
		dayLabel = styleDayToday.Render(dayLabel)
	}

	lines := []string{dayLabel, ansi.Truncate(renderBadges(cell.Bucket), inner, "…")}
	for _, card := range dayCards(cell.Bucket, m.cardCap(), inner) {
		lines = append(lines, card)
	}

	st := styleDayCell
	if cell.Day == m.activeDay {
		st = styleDaySelected
	}
	return st.Width(inner).Render(strings.Join(lines, "\n"))
}

// dayCards builds the capped per-entry summary lines for one day cell:
// the person (name, CPF when known) or the entry title, plus a trailing
// "+N" line when the day holds more than cap entries.
func dayCards(b agenda.DayBucket, limit, width int) []string {
	all := make([]model.AgendaEntry, 0, len(b.Tasks)+len(b.Prazos)+len(b.Supervisions))
	all = append(all, b.Tasks...)
	all = append(all, b.Prazos...)
	all = append(all, b.Supervisions...)
	if len(all) == 0 {
		return nil
	}

	shown := all
	if len(shown) > limit {
		shown = shown[:limit]
	}
	cards := make([]string, 0, len(shown)+1)
	for _, e := range shown {
		text := e.Nome
		if text == "" {
			text = e.Description
		}
		if text == "" {
			text = e.Type.Label()
		}
		cards = append(cards, typeStyle(string(e.Type)).Render(ansi.Truncate(text, width, "…")))
	}
	if rest := len(all) - len(shown); rest > 0 {
		cards = append(cards, styleMuted.Render(fmt.Sprintf("+%d", rest)))
	}
	return cards
}

// renderBadges shows per-type counts for a day, e.g. "2T 1P 3S".
func renderBadges(b agenda.DayBucket) string {
	var parts []string
	if n := len(b.Tasks); n > 0 {
		parts = append(parts, typeStyle("T").Render(fmt.Sprintf("%dT", n)))
	}
	if n := len(b.Prazos); n > 0 {
		parts = append(parts, typeStyle("P").Render(fmt.Sprintf("%dP", n)))
	}
	if n := len(b.Supervisions); n > 0 {
		s := typeStyle("S").Render(fmt.Sprintf("%dS", n))
		for _, e := range b.Supervisions {
			if e.Expired {
				s = styleDanger.Render(fmt.Sprintf("%dS!", n))
				break
			}
		}
		parts = append(parts, s)
	}
	if len(parts) == 0 {
		return " "
	}
	return strings.Join(parts, " ")
}

func (m appModel) renderMinibuffer() string {
	if m.minibufferText == "" {
		return styleMuted.Render("h/l mês · setas dia · tab tipo · enter mover · m semana · u usuários · q sair")
	}
	return m.minibufferText
}

func (m appModel) overlayModal(base string) string {
	var content string
	switch m.modal {
	case modalMoveEntry:
		content = m.renderMoveModal()
	case modalBarrarRetorno:
		content = m.renderRetornoModal()
	case modalAlert:
		content = m.alertText
	}
	if m.alertText != "" && m.modal != modalAlert {
		content += "\n\n" + styleDanger.Render(m.alertText)
	}
	box := styleModal.Render(content)
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return base + "\n" + box
}

func (m appModel) renderMoveModal() string {
	e := m.state.Find(m.modalEntryID)
	title := "Mover entrada"
	if e != nil {
		title = "Mover " + e.Type.Label() + ": " + ansi.Truncate(e.Description, 40, "…")
	}
	body := title + "\n\n" + m.renderDateInputs()
	if e != nil && e.Type == model.EntrySupervision && !e.PrescricaoDate.IsZero() {
		body += "\n" + styleMuted.Render("prescrição em "+e.PrescricaoDate.Label())
	}
	return body + "\n\n" + styleMuted.Render("enter confirma · esc cancela")
}

func (m appModel) renderRetornoModal() string {
	return "Retorno do barrado\n\n" + m.renderDateInputs() +
		"\n\n" + styleMuted.Render("enter confirma · esc cancela")
}

func (m appModel) renderDateInputs() string {
	return m.dayInput.View() + " / " + m.monthInput.View() + " / " + m.yearInput.View()
}
