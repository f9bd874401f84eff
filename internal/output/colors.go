package output

import (
	"github.com/fatih/color"

	"github.com/lindsaysblock/datadetective-lblock-sub004/internal/performance/report"
)

// ColorScheme defines the colors used for different elements in report
// output
type ColorScheme struct {
	Title      *color.Color
	StatusPass *color.Color
	StatusWarn *color.Color
	StatusFail *color.Color
	Label      *color.Color
	Value      *color.Color
	Metric     *color.Color
	Success    *color.Color
	Error      *color.Color
	Highlight  *color.Color
}

// DefaultColorScheme returns the default color scheme
func DefaultColorScheme() *ColorScheme {
	return &ColorScheme{
		Title:      color.New(color.FgBlue, color.Bold),
		StatusPass: color.New(color.FgGreen, color.Bold),
		StatusWarn: color.New(color.FgYellow, color.Bold),
		StatusFail: color.New(color.FgRed, color.Bold),
		Label:      color.New(color.FgYellow),
		Value:      color.New(color.FgWhite),
		Metric:     color.New(color.FgCyan),
		Success:    color.New(color.FgGreen),
		Error:      color.New(color.FgRed),
		Highlight:  color.New(color.FgMagenta, color.Bold),
	}
}

// NoColorScheme returns a color scheme with all colors disabled
func NoColorScheme() *ColorScheme {
	scheme := DefaultColorScheme()

	// Disable all colors
	scheme.Title.DisableColor()
	scheme.StatusPass.DisableColor()
	scheme.StatusWarn.DisableColor()
	scheme.StatusFail.DisableColor()
	scheme.Label.DisableColor()
	scheme.Value.DisableColor()
	scheme.Metric.DisableColor()
	scheme.Success.DisableColor()
	scheme.Error.DisableColor()
	scheme.Highlight.DisableColor()

	return scheme
}

// StatusColor returns the scheme color for a report status
func (s *ColorScheme) StatusColor(status report.Status) *color.Color {
	switch status {
	case report.StatusPass:
		return s.StatusPass
	case report.StatusWarning:
		return s.StatusWarn
	default:
		return s.StatusFail
	}
}

// SuccessIcon returns a checkmark symbol with appropriate color
func SuccessIcon(noColor bool) string {
	if noColor {
		return "✓"
	}
	return color.New(color.FgGreen).Sprint("✓")
}

// ErrorIcon returns an X symbol with appropriate color
func ErrorIcon(noColor bool) string {
	if noColor {
		return "✗"
	}
	return color.New(color.FgRed).Sprint("✗")
}

// InfoIcon returns an info symbol with appropriate color
func InfoIcon(noColor bool) string {
	if noColor {
		return "ℹ"
	}
	return color.New(color.FgBlue).Sprint("ℹ")
}

// WarningIcon returns a warning symbol with appropriate color
func WarningIcon(noColor bool) string {
	if noColor {
		return "⚠"
	}
	return color.New(color.FgYellow).Sprint("⚠")
}
