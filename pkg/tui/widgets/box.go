package widgets

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/go-go-golems/statekit/pkg/tui/styles"
)

// Box is a titled, bordered panel.
type Box struct {
	Title    string
	Subtitle string
	Content  string
	Width    int
	Height   int
	Focused  bool
	color    lipgloss.Color
	theme    styles.Theme
}

func NewBox(title string) Box {
	t := styles.DefaultTheme()
	return Box{Title: title, theme: t, color: t.Border}
}

func (b Box) WithSubtitle(s string) Box {
	b.Subtitle = s
	return b
}

func (b Box) WithContent(content string) Box {
	b.Content = content
	return b
}

func (b Box) WithSize(width, height int) Box {
	b.Width, b.Height = width, height
	return b
}

func (b Box) WithTheme(t styles.Theme) Box {
	b.theme = t
	b.color = t.Border
	return b
}

func (b Box) WithColor(c lipgloss.Color) Box {
	b.color = c
	return b
}

func (b Box) WithFocus(focused bool) Box {
	b.Focused = focused
	return b
}

func (b Box) Render() string {
	border := lipgloss.RoundedBorder()
	if b.Focused {
		border = lipgloss.ThickBorder()
	}
	style := lipgloss.NewStyle().
		Border(border).
		BorderForeground(b.color).
		Padding(0, 1)
	// Width/Height in lipgloss exclude the border.
	if b.Width > 2 {
		style = style.Width(b.Width - 2)
	}
	if b.Height > 2 {
		style = style.Height(b.Height - 2)
	}

	header := b.theme.Title.Render(b.Title)
	if b.Subtitle != "" {
		header = lipgloss.JoinVertical(lipgloss.Left, header, b.theme.TitleMuted.Render(b.Subtitle))
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, header, "", b.Content))
}
