package tui

import "github.com/charmbracelet/lipgloss"

// Theme/palette helpers.
//
// The panel must remain readable on both light and dark terminal backgrounds,
// so colors are lipgloss.AdaptiveColor and "faint" styling is applied only on
// dark backgrounds (faint text on light terminals often becomes illegible).

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	colorMuted          lipgloss.TerminalColor = ac("240", "243")
	colorChromeMutedFg  lipgloss.TerminalColor = ac("240", "245")
	colorSelectedBg     lipgloss.TerminalColor = ac("#e9e9e9", "#262626")
	colorSelectedFg     lipgloss.TerminalColor = ac("235", "255")
	colorSelectedBorder lipgloss.TerminalColor = ac("232", "255")
	colorCardBorder     lipgloss.TerminalColor = ac("250", "243")
	colorAccent         lipgloss.TerminalColor = ac("27", "62") // blue

	// Per-type badge colors: tasks blue, prazos amber, supervisions violet.
	colorTaskFg        lipgloss.TerminalColor = ac("27", "75")
	colorPrazoFg       lipgloss.TerminalColor = ac("130", "214")
	colorSupervisionFg lipgloss.TerminalColor = ac("90", "135")

	// Danger/attention: expired supervisions, rejected moves, barrado state.
	colorDangerFg lipgloss.TerminalColor = ac("124", "203")
	colorOnHoldFg lipgloss.TerminalColor = ac("94", "179")
	colorOkFg     lipgloss.TerminalColor = ac("28", "78")
)

var (
	styleBreadcrumb = lipgloss.NewStyle().Foreground(colorChromeMutedFg)
	styleMuted      = faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
	styleDanger     = lipgloss.NewStyle().Foreground(colorDangerFg)
	styleOnHold     = lipgloss.NewStyle().Foreground(colorOnHoldFg)
	styleOk         = lipgloss.NewStyle().Foreground(colorOkFg)

	styleDayCell = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(colorCardBorder).
			Padding(0, 1)
	styleDaySelected = styleDayCell.
				BorderForeground(colorSelectedBorder)
	styleDayToday = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	styleSelectedRow = lipgloss.NewStyle().
				Background(colorSelectedBg).
				Foreground(colorSelectedFg)

	styleModal = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSelectedBorder).
			Padding(1, 2)
)

func typeStyle(code string) lipgloss.Style {
	switch code {
	case "T":
		return lipgloss.NewStyle().Foreground(colorTaskFg)
	case "P":
		return lipgloss.NewStyle().Foreground(colorPrazoFg)
	case "S":
		return lipgloss.NewStyle().Foreground(colorSupervisionFg)
	}
	return styleMuted
}
