package styles

// Status icons
const (
	IconSuccess = "✓"
	IconError   = "✗"
	IconHidden  = "⊘"
	IconLink    = "🔗"
	IconSun     = "☀"
	IconMoon    = "☾"
	IconChecked = "[x]"
	IconBox     = "[ ]"
	IconCursor  = "›"
)

// VisibilityIcon returns the icon for a group member's visibility.
func VisibilityIcon(visible bool) string {
	if visible {
		return IconSuccess
	}
	return IconHidden
}

// ThemeIcon returns the icon for the light or dark theme.
func ThemeIcon(dark bool) string {
	if dark {
		return IconMoon
	}
	return IconSun
}

// CheckIcon renders a todo checkbox.
func CheckIcon(done bool) string {
	if done {
		return IconChecked
	}
	return IconBox
}

// CursorIcon marks the selected row.
func CursorIcon(selected bool) string {
	if selected {
		return IconCursor
	}
	return " "
}
