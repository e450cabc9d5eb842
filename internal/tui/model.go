package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/mgallego/fleetboard/internal/config"
	"github.com/mgallego/fleetboard/internal/fleet"
	"github.com/mgallego/fleetboard/internal/gesture"
	"github.com/mgallego/fleetboard/internal/mutation"
	"github.com/mgallego/fleetboard/internal/schedule"
	"github.com/mgallego/fleetboard/internal/tui/commands"
	"github.com/mgallego/fleetboard/internal/tui/theme"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeMove        // A booking is picked up and being dragged
	ModeModal
	ModePrompt
)

// ModalType identifies the type of modal.
type ModalType int

const (
	ModalNone ModalType = iota
	ModalDetail
	ModalConfirm  // confirm an interpreted move before committing
	ModalConflict // show the conflicts that blocked a mutation
	ModalPick     // pick a booking to assign to an empty cell
)

// Filter selects which bookings the pending column shows.
type Filter int

const (
	FilterPending Filter = iota // unassigned and partially covered
	FilterComplete
	FilterAll
)

func (f Filter) String() string {
	switch f {
	case FilterComplete:
		return "complete"
	case FilterAll:
		return "all"
	default:
		return "pending"
	}
}

// Position is a cursor position on the board. Col 0 is the pending column;
// columns 1..V map to snapshot vehicle indexes 0..V-1.
type Position struct {
	Col int
	Day int
}

// pendingAction holds an interpreted drag waiting for confirmation.
type pendingAction struct {
	action    gesture.Action
	bookingID int64
	fromID    int64 // source vehicle, 0 when shifting dates
	toID      int64 // target vehicle, 0 when shifting dates
	summary   string
}

// Model is the main board model.
type Model struct {
	// Dependencies
	svc    fleet.Service
	coord  *mutation.Coordinator
	config *config.Config
	log    zerolog.Logger

	// Theme and styles
	theme  *theme.Theme
	styles *Styles

	// Schedule state
	anchor  time.Time // first day of the visible month
	snap    *schedule.Snapshot
	cursor  Position
	mode    Mode
	filter  Filter
	loading bool

	// Move state. The session owns the drag; colSteps and daySteps mirror
	// the cell deltas for preview rendering.
	session  *gesture.Session
	colSteps int
	daySteps int

	// Modal state
	modalType   ModalType
	detail      *fleet.Booking
	conflict    *fleet.ConflictError
	pending     *pendingAction
	pickList    []fleet.Booking
	pickIndex   int
	pickVehicle fleet.Vehicle

	// Search state
	prompt      textinput.Model
	searchQuery string

	// Terminal dimensions and layout
	width        int
	height       int
	colWidth     int
	scrollOffset int

	// Messages
	statusMsg  string
	statusTime time.Time
	statusErr  bool

	// Injectable clock for tests.
	now func() time.Time
}

// New creates a new board model.
func New(svc fleet.Service, cfg *config.Config, log zerolog.Logger) *Model {
	prompt := textinput.New()
	prompt.Placeholder = "customer name"
	prompt.CharLimit = 64

	t, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		log.Warn().Str("theme", cfg.UI.Theme).Msg("unknown theme, using default")
	}

	now := time.Now
	anchor := firstOfMonth(now())

	return &Model{
		svc:      svc,
		coord:    mutation.New(svc, log),
		config:   cfg,
		log:      log,
		theme:    t,
		styles:   NewStyles(t),
		anchor:   anchor,
		cursor:   Position{Col: 0, Day: now().Day() - 1},
		mode:     ModeNormal,
		filter:   FilterPending,
		prompt:   prompt,
		colWidth: defaultColWidth,
		loading:  true,
		now:      now,
	}
}

// gestureConfig builds the drag geometry from the config file.
func (m *Model) gestureConfig() gesture.Config {
	return gesture.Config{
		CellWidth:  float64(m.config.UI.CellWidth),
		CellHeight: float64(m.config.UI.CellHeight),
		HoldDelay:  m.config.UI.HoldDelay(),
	}
}

// vehicleCount returns the number of vehicle columns on the board.
func (m *Model) vehicleCount() int {
	if m.snap == nil {
		return 0
	}
	return len(m.snap.Vehicles)
}

// maxCol returns the highest valid cursor column.
func (m *Model) maxCol() int {
	return m.vehicleCount() // pending column plus vehicles
}

// dayCount returns the number of day rows in the visible month.
func (m *Model) dayCount() int {
	if m.snap == nil {
		return 0
	}
	return m.snap.Window.Len()
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return commands.LoadMonth(m.svc, m.anchor)
}

// Run starts the board.
func Run(svc fleet.Service, cfg *config.Config, log zerolog.Logger) error {
	model := New(svc, cfg, log)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
