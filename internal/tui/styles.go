package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/whiteash/scratchpad/pkg/core"
)

// styles bundles the lipgloss styles for one theme. The palette is
// chosen by the persisted preference, not by terminal detection, so the
// same profile looks the same everywhere.
type styles struct {
	text        lipgloss.Style
	subtle      lipgloss.Style
	saving      lipgloss.Style
	saved       lipgloss.Style
	errText     lipgloss.Style
	alert       lipgloss.Style
	help        lipgloss.Style
	placeholder lipgloss.Style
	cursorLine  lipgloss.Style
}

func stylesFor(theme core.Theme) styles {
	if theme == core.ThemeDark {
		return styles{
			text:        lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
			subtle:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
			saving:      lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
			saved:       lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
			errText:     lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
			alert:       lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("160")).Bold(true).Padding(0, 1),
			help:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Faint(true),
			placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
			cursorLine:  lipgloss.NewStyle().Background(lipgloss.Color("236")),
		}
	}
	return styles{
		text:        lipgloss.NewStyle().Foreground(lipgloss.Color("235")),
		subtle:      lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		saving:      lipgloss.NewStyle().Foreground(lipgloss.Color("136")),
		saved:       lipgloss.NewStyle().Foreground(lipgloss.Color("29")),
		errText:     lipgloss.NewStyle().Foreground(lipgloss.Color("160")).Bold(true),
		alert:       lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("160")).Bold(true).Padding(0, 1),
		help:        lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Faint(true),
		placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		cursorLine:  lipgloss.NewStyle().Background(lipgloss.Color("254")),
	}
}
