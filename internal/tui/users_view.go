package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pauta-cli/internal/model"
)

type userItem struct {
	summary model.UserSummary
}

func (i userItem) FilterValue() string { return i.summary.DisplayName() }

func userItems(users []model.UserSummary) []list.Item {
	items := make([]list.Item, len(users))
	for i, u := range users {
		items[i] = userItem{summary: u}
	}
	return items
}

// userDelegate renders one user tile: name plus pending/completed counters
// for tasks and prazos.
type userDelegate struct{}

func newUserDelegate() userDelegate { return userDelegate{} }

func (d userDelegate) Height() int                         { return 2 }
func (d userDelegate) Spacing() int                        { return 1 }
func (d userDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d userDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(userItem)
	if !ok {
		return
	}
	u := it.summary

	name := u.DisplayName()
	counters := fmt.Sprintf("%s %d pendentes · %d concluídas   %s %d pendentes · %d concluídos",
		typeStyle("T").Render("tarefas"), u.PendingTasks, u.CompletedTasks,
		typeStyle("P").Render("prazos"), u.PendingPrazos, u.CompletedPrazos)

	var b strings.Builder
	if index == m.Index() {
		b.WriteString(styleSelectedRow.Render("» " + name))
	} else {
		b.WriteString("  " + name)
	}
	b.WriteString("\n  ")
	b.WriteString(counters)
	fmt.Fprint(w, b.String())
}

func (m appModel) viewUsers() string {
	header := styleBreadcrumb.Render("pauta › agenda › usuários")
	hint := styleMuted.Render("enter filtra · 0 limpa filtro · esc volta")
	body := m.usersList.View()
	if len(m.users) == 0 {
		body = styleMuted.Render("nenhum usuário carregado")
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, "", body, "", hint)
}
