package ui

import "charm.land/lipgloss/v2"

// Styles holds the lipgloss styles used by the editor view.
type Styles struct {
	Title        lipgloss.Style
	Logic        lipgloss.Style
	Condition    lipgloss.Style
	Focus        lipgloss.Style
	Highlight    lipgloss.Style
	Muted        lipgloss.Style
	Prompt       lipgloss.Style
	MenuHeader   lipgloss.Style
	MenuSelected lipgloss.Style
	Status       lipgloss.Style
	Error        lipgloss.Style
	HelpKey      lipgloss.Style
	HelpText     lipgloss.Style
}

// DefaultStyles returns the color theme, or attribute-only styles when
// noColor is set.
func DefaultStyles(noColor bool) Styles {
	if noColor {
		plain := lipgloss.NewStyle()
		return Styles{
			Title:        plain.Bold(true),
			Logic:        plain,
			Condition:    plain,
			Focus:        plain.Reverse(true),
			Highlight:    plain.Underline(true),
			Muted:        plain,
			Prompt:       plain.Bold(true),
			MenuHeader:   plain.Bold(true),
			MenuSelected: plain.Reverse(true),
			Status:       plain,
			Error:        plain.Bold(true),
			HelpKey:      plain.Bold(true),
			HelpText:     plain,
		}
	}
	return Styles{
		Title:        lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Logic:        lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
		Condition:    lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("238")).Padding(0, 1),
		Focus:        lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("14")).Padding(0, 1),
		Highlight:    lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("11")).Padding(0, 1),
		Muted:        lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Prompt:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		MenuHeader:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("8")),
		MenuSelected: lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("14")),
		Status:       lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Error:        lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		HelpKey:      lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("15")),
		HelpText:     lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	}
}
