// Package tui provides the terminal board for fleetboard.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/mgallego/fleetboard/internal/tui/theme"
)

// Default column width - recalculated from the terminal width.
const defaultColWidth = 16

// Minimum width a vehicle column may shrink to.
const minColWidth = 8

// Styles holds all lipgloss styles for the board, derived from a theme.
type Styles struct {
	// Theme colors as lipgloss colors
	colorBg          lipgloss.Color
	colorBgHighlight lipgloss.Color
	colorBgSelection lipgloss.Color
	colorFg          lipgloss.Color
	colorFgMuted     lipgloss.Color
	colorAccent      lipgloss.Color
	colorComplete    lipgloss.Color
	colorPartial     lipgloss.Color
	colorUnassigned  lipgloss.Color
	colorWarning     lipgloss.Color
	colorToday       lipgloss.Color

	// Title bar
	TitleStyle lipgloss.Style

	// Column headers
	VehicleHeaderStyle     lipgloss.Style
	VehicleHeaderMoveStyle lipgloss.Style // target column during a move
	PendingHeaderStyle     lipgloss.Style

	// Day gutter
	DayColumnStyle lipgloss.Style
	DayTodayStyle  lipgloss.Style

	// Booking cells
	CellEmptyStyle      lipgloss.Style
	CellCompleteStyle   lipgloss.Style
	CellPartialStyle    lipgloss.Style
	CellUnassignedStyle lipgloss.Style
	CellMatchStyle      lipgloss.Style // search matches

	// Cursor and move feedback
	CursorStyle      lipgloss.Style
	MoveSourceStyle  lipgloss.Style
	MovePreviewStyle lipgloss.Style

	// Footer
	LegendStyle lipgloss.Style
	StatusStyle lipgloss.Style
	ErrorStyle  lipgloss.Style
	HelpStyle   lipgloss.Style

	// Prompt box
	PromptStyle        lipgloss.Style
	PromptFocusedStyle lipgloss.Style

	// Modal styles
	ModalStyle         lipgloss.Style
	ModalTitleStyle    lipgloss.Style
	ModalBodyStyle     lipgloss.Style
	ModalMutedStyle    lipgloss.Style
	ModalWarnStyle     lipgloss.Style
	ModalFooterStyle   lipgloss.Style
	ModalSelectedStyle lipgloss.Style

	// App container
	AppStyle lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t *theme.Theme) *Styles {
	s := &Styles{
		colorBg:          theme.Color(t.Bg),
		colorBgHighlight: theme.Color(t.BgHighlight),
		colorBgSelection: theme.Color(t.BgSelection),
		colorFg:          theme.Color(t.Fg),
		colorFgMuted:     theme.Color(t.FgMuted),
		colorAccent:      theme.Color(t.Accent),
		colorComplete:    theme.Color(t.Complete),
		colorPartial:     theme.Color(t.Partial),
		colorUnassigned:  theme.Color(t.Unassigned),
		colorWarning:     theme.Color(t.Warning),
		colorToday:       theme.Color(t.Today),
	}

	s.TitleStyle = lipgloss.NewStyle().
		Foreground(s.colorAccent).
		Background(s.colorBg).
		Bold(true).
		Padding(0, 1)

	s.VehicleHeaderStyle = lipgloss.NewStyle().
		Foreground(s.colorFg).
		Background(s.colorBgHighlight).
		Bold(true).
		Align(lipgloss.Center)

	s.VehicleHeaderMoveStyle = s.VehicleHeaderStyle.
		Foreground(s.colorBg).
		Background(s.colorWarning)

	s.PendingHeaderStyle = s.VehicleHeaderStyle.
		Foreground(s.colorUnassigned)

	s.DayColumnStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted).
		Background(s.colorBg)

	s.DayTodayStyle = lipgloss.NewStyle().
		Foreground(s.colorToday).
		Background(s.colorBg).
		Bold(true)

	s.CellEmptyStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted).
		Background(s.colorBg)

	s.CellCompleteStyle = lipgloss.NewStyle().
		Foreground(s.colorComplete).
		Background(s.colorBgHighlight)

	s.CellPartialStyle = lipgloss.NewStyle().
		Foreground(s.colorPartial).
		Background(s.colorBgHighlight)

	s.CellUnassignedStyle = lipgloss.NewStyle().
		Foreground(s.colorUnassigned).
		Background(s.colorBgHighlight)

	s.CellMatchStyle = lipgloss.NewStyle().
		Foreground(s.colorBg).
		Background(s.colorAccent)

	s.CursorStyle = lipgloss.NewStyle().
		Foreground(s.colorFg).
		Background(s.colorBgSelection).
		Bold(true)

	s.MoveSourceStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted).
		Background(s.colorBgHighlight).
		Italic(true)

	s.MovePreviewStyle = lipgloss.NewStyle().
		Foreground(s.colorBg).
		Background(s.colorWarning).
		Bold(true)

	s.LegendStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted).
		Background(s.colorBg)

	s.StatusStyle = lipgloss.NewStyle().
		Foreground(s.colorFg).
		Background(s.colorBg)

	s.ErrorStyle = lipgloss.NewStyle().
		Foreground(s.colorWarning).
		Background(s.colorBg).
		Bold(true)

	s.HelpStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted).
		Background(s.colorBg)

	s.PromptStyle = lipgloss.NewStyle().
		Foreground(s.colorFg).
		Background(s.colorBg).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.colorFgMuted)

	s.PromptFocusedStyle = s.PromptStyle.
		BorderForeground(s.colorAccent)

	s.ModalStyle = lipgloss.NewStyle().
		Background(s.colorBgHighlight).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.colorAccent).
		Padding(1, 2)

	s.ModalTitleStyle = lipgloss.NewStyle().
		Foreground(s.colorAccent).
		Background(s.colorBgHighlight).
		Bold(true)

	s.ModalBodyStyle = lipgloss.NewStyle().
		Foreground(s.colorFg).
		Background(s.colorBgHighlight)

	s.ModalMutedStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted).
		Background(s.colorBgHighlight)

	s.ModalWarnStyle = lipgloss.NewStyle().
		Foreground(s.colorWarning).
		Background(s.colorBgHighlight).
		Bold(true)

	s.ModalFooterStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted).
		Background(s.colorBgHighlight).
		Italic(true)

	s.ModalSelectedStyle = lipgloss.NewStyle().
		Foreground(s.colorBg).
		Background(s.colorAccent).
		Bold(true)

	s.AppStyle = lipgloss.NewStyle().
		Background(s.colorBg)

	return s
}
