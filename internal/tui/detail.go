package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/x/ansi"

	"pauta-cli/internal/agenda"
	"pauta-cli/internal/brfmt"
	"pauta-cli/internal/model"
)

// renderDetail draws the pane under the grid: the selected day's sections,
// one per type, with the active type's entries listed and the selected entry
// expanded.
func (m appModel) renderDetail() string {
	buckets := m.state.MonthData(m.year, m.month)
	if m.activeDay < 1 || m.activeDay > len(buckets) {
		return ""
	}
	bucket := buckets[m.activeDay-1]
	date := brfmt.NewDate(m.year, m.month, m.activeDay)

	var b strings.Builder
	b.WriteString(styleBreadcrumb.Render(date.Label()))
	b.WriteString("\n")

	for _, t := range []model.EntryType{model.EntryTask, model.EntryPrazo, model.EntrySupervision} {
		b.WriteString(m.renderSection(t, bucket))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m appModel) renderSection(t model.EntryType, bucket agenda.DayBucket) string {
	entries := bucket.Of(t)
	marker := "  "
	if t == m.activeType {
		marker = "» "
	}
	head := fmt.Sprintf("%s%s (%d)", marker, typeStyle(string(t)).Render(t.Label()+"s"), len(entries))
	if m.collapsed[sectionKey(t)] {
		return head + styleMuted.Render("  [+]") + "\n"
	}

	var b strings.Builder
	b.WriteString(head)
	b.WriteString("\n")
	for i, e := range entries {
		line := m.renderEntryLine(e)
		if t == m.activeType && i == m.entryIdx {
			line = styleSelectedRow.Render(line)
		}
		b.WriteString("    " + line + "\n")
		if t == m.activeType && i == m.entryIdx {
			b.WriteString(m.renderEntryExpanded(e))
		}
	}
	return b.String()
}

func (m appModel) renderEntryLine(e model.AgendaEntry) string {
	desc := e.Description
	if desc == "" {
		desc = styleMuted.Render("(sem descrição)")
	}
	line := desc
	if e.Nome != "" {
		line += styleMuted.Render(" · " + e.Nome)
	}
	if e.Type == model.EntrySupervision {
		if e.Expired {
			line += " " + styleDanger.Render("PRESCRITA")
		}
		if e.Barrado != nil && e.Barrado.Ativo {
			line += " " + styleOnHold.Render("BARRADA")
		}
	}
	if m.showHistory && !e.OriginalDate.IsZero() && !e.OriginalDate.Equal(e.Date) {
		line += styleMuted.Render(" (de " + e.OriginalDate.Label() + ")")
	}
	w := m.width - 8
	if w < 20 {
		w = 60
	}
	return ansi.Truncate(line, w, "…")
}

func (m appModel) renderEntryExpanded(e model.AgendaEntry) string {
	var rows []string
	add := func(label, value string) {
		if value != "" {
			rows = append(rows, "      "+styleMuted.Render(label+": ")+value)
		}
	}

	add("Prioridade", e.Priority)
	if e.Responsavel != nil {
		add("Responsável", e.Responsavel.DisplayName())
	}
	add("CPF", brfmt.FormatCPF(e.CPF))
	if e.NumeroProcesso != "" {
		add("Processo", e.NumeroProcesso)
	} else if e.ProcessoID != 0 {
		add("Processo", fmt.Sprintf("%d", e.ProcessoID))
	}
	add("Detalhe", e.Detail)

	if e.Type == model.EntrySupervision {
		if len(e.ContractNumbers) > 0 {
			add("Contratos", strings.Join(e.ContractNumbers, ", "))
		}
		if e.ValorCausa != 0 {
			add("Valor da causa", brfmt.FormatBRL(e.ValorCausa))
		}
		if e.SaldoAtualizado != 0 {
			add("Saldo atualizado", brfmt.FormatBRL(e.SaldoAtualizado))
		}
		if e.Custas != 0 {
			add("Custas", brfmt.FormatBRL(e.Custas))
		}
		if !e.PrescricaoDate.IsZero() {
			v := e.PrescricaoDate.Label()
			if e.Expired {
				v = styleDanger.Render(v + " (prescrita)")
			}
			add("Prescrição", v)
		}
		if e.StatusLabel != "" {
			v := e.StatusLabel
			if !e.Expired && (e.Barrado == nil || !e.Barrado.Ativo) {
				v = styleOk.Render(v)
			}
			add("Status", v)
		}
		if e.Barrado != nil && e.Barrado.Ativo {
			v := styleOnHold.Render("ativa")
			if e.Barrado.RetornoEm != "" {
				v += styleMuted.Render(" · retorno " + brfmt.FormatLabel(e.Barrado.RetornoEm))
			}
			add("Barrada", v)
		}
		add("Analista", e.Analyst)
		if notes := m.renderNotes(e.Notes); notes != "" {
			rows = append(rows, notes)
		}
	}

	if len(rows) == 0 {
		return ""
	}
	return strings.Join(rows, "\n") + "\n"
}

// renderNotes renders analyst notes (markdown on the backend) through glamour,
// falling back to the raw text when rendering fails.
func (m appModel) renderNotes(notes string) string {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return ""
	}
	width := m.width - 10
	if width < 20 || width > 100 {
		width = 72
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(width))
	if err != nil {
		return indentNotes(notes)
	}
	out, err := r.Render(notes)
	if err != nil {
		return indentNotes(notes)
	}
	return indentNotes(strings.TrimRight(out, "\n"))
}

func indentNotes(s string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = "      " + lines[i]
	}
	return strings.Join(lines, "\n")
}
