package cmd

import (
	"strings"

	"github.com/fatih/color"
)

var (
	colorSuccess = color.New(color.FgGreen).SprintFunc()
	colorInfo    = color.New(color.FgCyan).SprintFunc()
	colorWarn    = color.New(color.FgYellow).SprintFunc()
	colorError   = color.New(color.FgRed).SprintFunc()
)

// formatStatusWithColor colours an HTTP status code by class.
func formatStatusWithColor(status string) string {
	switch {
	case strings.HasPrefix(status, "2"), strings.HasPrefix(status, "3"):
		return colorSuccess(status)
	case strings.HasPrefix(status, "4"):
		return colorWarn(status)
	case strings.HasPrefix(status, "5"), strings.EqualFold(status, "N/A"):
		return colorError(status)
	default:
		return status
	}
}
