package enums

import "fmt"

// ViewMode selects which side of the household the presentation layer renders.
type ViewMode string

const (
	ViewModeChild    ViewMode = "child"
	ViewModeGuardian ViewMode = "guardian"
)

// IsValid reports whether the mode is known.
func (m ViewMode) IsValid() bool {
	return m == ViewModeChild || m == ViewModeGuardian
}

// Toggle flips between the child and guardian views.
func (m ViewMode) Toggle() ViewMode {
	if m == ViewModeChild {
		return ViewModeGuardian
	}
	return ViewModeChild
}

// ParseViewMode converts raw input into ViewMode.
func ParseViewMode(value string) (ViewMode, error) {
	mode := ViewMode(value)
	if !mode.IsValid() {
		return "", fmt.Errorf("invalid view mode %q", value)
	}
	return mode, nil
}
