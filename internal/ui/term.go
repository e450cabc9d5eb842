package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Color definitions for consistent styling across the UI.
var (
	// Complete bookings: green, everything covered
	colorComplete = color.New(color.FgGreen)

	// Partial bookings: yellow, still missing vehicles
	colorPartial = color.New(color.FgYellow, color.Bold)

	// Unassigned bookings: red, needs attention
	colorUnassigned = color.New(color.FgRed, color.Bold)

	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Muted: for secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // sensible default
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

func formatComplete(s string) string {
	return colorComplete.Sprint(s)
}

func formatPartial(s string) string {
	return colorPartial.Sprint(s)
}

func formatUnassigned(s string) string {
	return colorUnassigned.Sprint(s)
}

func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}
