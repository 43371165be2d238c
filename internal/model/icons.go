package model

// Centralized icons for the UI components
// Using simple single-width characters for consistent terminal rendering
const (
	IconSource   = "●" // Source text shown
	IconUnmapped = "?" // No debug info
	IconError    = "!" // Tool or parse failure
	IconNotFound = "✗" // File missing locally
	IconSyncOn   = "◆"
	IconSyncOff  = "◇"
)

// StatusIcon returns the icon for a display status.
func StatusIcon(s Status) string {
	switch s {
	case StatusSource:
		return IconSource
	case StatusUnmapped:
		return IconUnmapped
	case StatusNotFound:
		return IconNotFound
	default:
		return IconError
	}
}
