// Package cli renders transaction summaries, YAML record dumps, and
// search progress for the paypal-query command.
package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/brettcs/paypal-rest/internal/record"
)

var (
	// SuccessColor marks completed transactions.
	SuccessColor = lipgloss.Color("#26DE81") // Green
	// WarningColor marks transactions that may still change.
	WarningColor = lipgloss.Color("#FED330") // Yellow
	// ErrorColor marks failed or reversed transactions.
	ErrorColor = lipgloss.Color("#FC5C65") // Red
	// SubtleColor marks less prominent output.
	SubtleColor = lipgloss.Color("#778CA3") // Gray

	// SuccessStyle formats success messages.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	// WarningStyle formats warning messages.
	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	// ErrorStyle formats error messages.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	// SubtleStyle formats less prominent text.
	SubtleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)
)

// Icons.
const (
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
)

// FormatError formats an error message with icon.
func FormatError(message string) string {
	return ErrorStyle.Render(ErrorIcon + " " + message)
}

// FormatWarning formats a warning message with icon.
func FormatWarning(message string) string {
	return WarningStyle.Render(WarningIcon + " " + message)
}

// StatusStyle returns the style used to render a transaction status.
func StatusStyle(status record.TransactionStatus) lipgloss.Style {
	switch status {
	case record.StatusSuccessful:
		return SuccessStyle
	case record.StatusPending, record.StatusPartiallyRefunded:
		return WarningStyle
	case record.StatusDenied, record.StatusReversed:
		return ErrorStyle
	default:
		return SubtleStyle
	}
}
