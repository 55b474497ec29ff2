package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/go-go-golems/statekit/pkg/tui/styles"
)

// Footer renders the keybindings bar for the focused panel plus the legend.
type Footer struct {
	Keybinds []Keybind
	Legend   []string
	Width    int
	theme    styles.Theme
}

// NewFooter creates a new footer.
func NewFooter(keybinds []Keybind) Footer {
	return Footer{
		Keybinds: keybinds,
		theme:    styles.DefaultTheme(),
	}
}

// WithWidth sets the footer width.
func (f Footer) WithWidth(w int) Footer {
	f.Width = w
	return f
}

func (f Footer) WithTheme(t styles.Theme) Footer {
	f.theme = t
	return f
}

func (f Footer) WithLegend(items ...string) Footer {
	f.Legend = items
	return f
}

// Render returns the styled footer as a string.
func (f Footer) Render() string {
	theme := f.theme

	width := f.Width
	if width <= 0 {
		width = 80
	}
	separator := lipgloss.NewStyle().
		Foreground(theme.Muted).
		Render(strings.Repeat("━", width))

	keybindsLine := RenderKeybinds(f.Keybinds, theme)

	padding := (width - lipgloss.Width(keybindsLine)) / 2
	if padding < 0 {
		padding = 0
	}
	lines := []string{separator, lipgloss.NewStyle().PaddingLeft(padding).Render(keybindsLine)}

	if len(f.Legend) > 0 {
		lines = append(lines, theme.TitleMuted.Render(strings.Join(f.Legend, "   ")))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
