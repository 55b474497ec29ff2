package widgets

import (
	"strings"

	"github.com/go-go-golems/statekit/pkg/tui/styles"
)

type Keybind struct {
	Key   string
	Label string
}

func RenderKeybinds(keybinds []Keybind, theme styles.Theme) string {
	parts := make([]string, 0, len(keybinds))
	for _, kb := range keybinds {
		parts = append(parts, theme.KeybindKey.Render(kb.Key)+" "+theme.KeybindLabel.Render(kb.Label))
	}
	return strings.Join(parts, "  ")
}
