// Package theme provides color themes for the board.
package theme

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all colors for a board theme.
type Theme struct {
	Name        string
	Bg          string // Base background
	BgHighlight string // Booking cells, subtle highlight
	BgSelection string // Cursor, selection
	Fg          string // Primary foreground
	FgMuted     string // Past days, muted elements
	Accent      string // Title, borders, primary accent
	Complete    string // Fully covered bookings
	Partial     string // Partially covered bookings
	Unassigned  string // Bookings with no vehicle yet
	Warning     string // Conflicts, move mode
	Today       string // Current day marker
}

var themes = map[string]Theme{
	"slate": {
		Name:        "slate",
		Bg:          "#1e222a",
		BgHighlight: "#2b313c",
		BgSelection: "#3e4653",
		Fg:          "#d8dee9",
		FgMuted:     "#6b7484",
		Accent:      "#81a1c1",
		Complete:    "#a3be8c",
		Partial:     "#ebcb8b",
		Unassigned:  "#bf616a",
		Warning:     "#d08770",
		Today:       "#88c0d0",
	},
	"harbor": {
		Name:        "harbor",
		Bg:          "#0f1419",
		BgHighlight: "#1c242e",
		BgSelection: "#2d3a48",
		Fg:          "#e6e1cf",
		FgMuted:     "#5c6773",
		Accent:      "#39bae6",
		Complete:    "#7fd962",
		Partial:     "#ffb454",
		Unassigned:  "#f07178",
		Warning:     "#ff8f40",
		Today:       "#59c2ff",
	},
	"paper": {
		Name:        "paper",
		Bg:          "#f5f1e8",
		BgHighlight: "#e8e2d4",
		BgSelection: "#d5ccb8",
		Fg:          "#3a3a32",
		FgMuted:     "#8a8674",
		Accent:      "#3d6b99",
		Complete:    "#3d7a3d",
		Partial:     "#9c6b1f",
		Unassigned:  "#a83a3a",
		Warning:     "#b5543b",
		Today:       "#2a6b8a",
	},
}

// Color returns a lipgloss.Color for the given hex string.
func Color(hex string) lipgloss.Color {
	return lipgloss.Color(hex)
}

// Load returns a theme by name. The empty string and "auto" pick a theme
// matching the terminal background. Unknown names fall back to slate.
func Load(name string) (*Theme, error) {
	name = strings.ToLower(name)
	if name == "" || name == "auto" {
		name = detect()
	}
	t, ok := themes[name]
	if !ok {
		if fallback, ok := themes["slate"]; ok {
			return &fallback, fmt.Errorf("unknown theme %q", name)
		}
		return nil, fmt.Errorf("unknown theme %q", name)
	}
	return &t, nil
}

// detect picks a default theme for the terminal background.
func detect() string {
	if termenv.HasDarkBackground() {
		return "slate"
	}
	return "paper"
}

// Available returns a list of available theme names.
func Available() []string {
	return []string{"slate", "harbor", "paper"}
}

// IsAvailable reports whether a theme name is available.
func IsAvailable(name string) bool {
	_, ok := themes[strings.ToLower(name)]
	return ok
}
