package styles

import "github.com/charmbracelet/lipgloss"

// Theme groups the colors and styles used by every panel.
type Theme struct {
	Dark bool

	Primary   lipgloss.Color
	Accent    lipgloss.Color
	GroupA    lipgloss.Color
	GroupB    lipgloss.Color
	Local     lipgloss.Color
	Muted     lipgloss.Color
	Error     lipgloss.Color
	Success   lipgloss.Color
	Text      lipgloss.Color
	Border    lipgloss.Color
	Highlight lipgloss.Color

	App          lipgloss.Style
	Header       lipgloss.Style
	Title        lipgloss.Style
	TitleMuted   lipgloss.Style
	Visible      lipgloss.Style
	Hidden       lipgloss.Style
	Completed    lipgloss.Style
	Badge        lipgloss.Style
	ErrorText    lipgloss.Style
	KeybindKey   lipgloss.Style
	KeybindLabel lipgloss.Style
}

// DefaultTheme is the light theme.
func DefaultTheme() Theme {
	return ForMode(false)
}

// ForMode returns the light or dark theme.
func ForMode(dark bool) Theme {
	t := Theme{
		Dark:      dark,
		Primary:   lipgloss.Color("63"),
		Accent:    lipgloss.Color("212"),
		GroupA:    lipgloss.Color("39"),
		GroupB:    lipgloss.Color("208"),
		Local:     lipgloss.Color("42"),
		Muted:     lipgloss.Color("245"),
		Error:     lipgloss.Color("196"),
		Success:   lipgloss.Color("34"),
		Text:      lipgloss.Color("235"),
		Border:    lipgloss.Color("250"),
		Highlight: lipgloss.Color("229"),
	}
	if dark {
		t.Text = lipgloss.Color("252")
		t.Border = lipgloss.Color("240")
		t.Muted = lipgloss.Color("243")
		t.Success = lipgloss.Color("78")
	}

	t.App = lipgloss.NewStyle().Foreground(t.Text)
	t.Header = lipgloss.NewStyle().Bold(true).Foreground(t.Primary)
	t.Title = lipgloss.NewStyle().Bold(true).Foreground(t.Text)
	t.TitleMuted = lipgloss.NewStyle().Foreground(t.Muted)
	t.Visible = lipgloss.NewStyle().Foreground(t.Success)
	t.Hidden = lipgloss.NewStyle().Foreground(t.Muted).Italic(true)
	t.Completed = lipgloss.NewStyle().Foreground(t.Muted).Strikethrough(true)
	t.Badge = lipgloss.NewStyle().Foreground(t.Highlight).Background(t.Primary).Padding(0, 1)
	t.ErrorText = lipgloss.NewStyle().Foreground(t.Error)
	t.KeybindKey = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	t.KeybindLabel = lipgloss.NewStyle().Foreground(t.Muted)
	return t
}

// GroupColor picks a border color for the i-th scope group.
func (t Theme) GroupColor(i int) lipgloss.Color {
	if i%2 == 0 {
		return t.GroupA
	}
	return t.GroupB
}
