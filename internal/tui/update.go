package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mgallego/fleetboard/internal/fleet"
	"github.com/mgallego/fleetboard/internal/mutation"
	"github.com/mgallego/fleetboard/internal/schedule"
	"github.com/mgallego/fleetboard/internal/tui/commands"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.colWidth = m.calculateColWidth()
		m.ensureCursorVisible()
		return m, nil

	case commands.ScheduleLoadedMsg:
		// The snapshot is rebuilt from scratch on every load. Mutations
		// never patch it in place; they reload the month instead.
		window := schedule.MonthWindow(msg.Anchor)
		m.anchor = msg.Anchor
		m.snap = schedule.BuildSnapshot(window, msg.Schedule.Vehicles, msg.Schedule.Bookings, m.log)
		m.loading = false
		m.clampCursor()
		return m, nil

	case commands.MutationDoneMsg:
		m.loading = true
		m.session = nil
		m.pending = nil
		m.mode = ModeNormal
		m.modalType = ModalNone
		return m, tea.Batch(
			commands.LoadMonth(m.svc, m.anchor),
			commands.Status("%s", mutationSummary(msg)),
		)

	case commands.ErrMsg:
		m.loading = false
		m.session = nil
		m.pending = nil

		// A failed mutation reloads the month like a successful one does.
		// The board must render the backend's state, which after a partial
		// move is not the state it last drew.
		var reload tea.Cmd
		if msg.Mutation && !errors.Is(msg.Err, mutation.ErrBusy) {
			m.loading = true
			reload = commands.LoadMonth(m.svc, m.anchor)
		}

		if msg.Move != nil && msg.Move.State == mutation.MoveCompensationFailed {
			m.mode = ModeNormal
			m.modalType = ModalNone
			m.statusMsg = fmt.Sprintf(
				"Move failed and the restore failed too: booking #%d is on neither vehicle",
				msg.Move.BookingID)
			m.statusErr = true
			m.statusTime = m.now().Add(8 * time.Second)
			return m, reload
		}

		var conflict *fleet.ConflictError
		if errors.As(msg.Err, &conflict) {
			m.conflict = conflict
			m.mode = ModeModal
			m.modalType = ModalConflict
			return m, reload
		}

		m.mode = ModeNormal
		m.modalType = ModalNone
		if errors.Is(msg.Err, mutation.ErrBusy) {
			return m, commands.Status("Another change is still in flight")
		}
		m.statusMsg = fmt.Sprintf("Error: %v", msg.Err)
		m.statusErr = true
		m.statusTime = m.now().Add(5 * time.Second)
		return m, reload

	case commands.StatusMsgCmd:
		m.statusMsg = msg.Msg
		m.statusErr = false
		m.statusTime = m.now().Add(3 * time.Second)
		return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
			return commands.ClearStatusMsg{}
		})

	case commands.ClearStatusMsg:
		if m.now().After(m.statusTime) {
			m.statusMsg = ""
			m.statusErr = false
		}
		return m, nil
	}

	if m.mode == ModePrompt {
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}

	return m, nil
}

// mutationSummary builds the status line shown after a committed mutation.
func mutationSummary(msg commands.MutationDoneMsg) string {
	name := "booking"
	if msg.Booking != nil {
		name = msg.Booking.Customer
	}
	switch msg.Verb {
	case "moved":
		if msg.Move != nil && msg.Move.State == mutation.MoveAssigned {
			return fmt.Sprintf("Moved %s", name)
		}
		return fmt.Sprintf("Move of %s did not complete", name)
	case "shifted":
		if msg.Booking != nil {
			return fmt.Sprintf("Shifted %s to %s", name, msg.Booking.FromDate.Format("Jan 2"))
		}
		return "Shifted booking"
	default:
		return fmt.Sprintf("%s %s", capitalize(msg.Verb), name)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// calculateColWidth splits the width left of the day gutter across the
// pending column and the vehicle columns.
func (m *Model) calculateColWidth() int {
	cols := m.vehicleCount() + 1
	if cols <= 0 || m.width <= 0 {
		return defaultColWidth
	}
	w := (m.width - dayGutterWidth - 1) / cols
	if w < minColWidth {
		return minColWidth
	}
	if w > defaultColWidth*2 {
		return defaultColWidth * 2
	}
	return w
}

// clampCursor keeps the cursor inside the current snapshot.
func (m *Model) clampCursor() {
	if m.cursor.Col > m.maxCol() {
		m.cursor.Col = m.maxCol()
	}
	if m.cursor.Col < 0 {
		m.cursor.Col = 0
	}
	if n := m.dayCount(); n > 0 && m.cursor.Day >= n {
		m.cursor.Day = n - 1
	}
	if m.cursor.Day < 0 {
		m.cursor.Day = 0
	}
	m.ensureCursorVisible()
}

// ensureCursorVisible scrolls the grid so the cursor row stays on screen.
func (m *Model) ensureCursorVisible() {
	visible := m.visibleRows()
	if visible <= 0 {
		return
	}
	if m.cursor.Day < m.scrollOffset {
		m.scrollOffset = m.cursor.Day
	}
	if m.cursor.Day >= m.scrollOffset+visible {
		m.scrollOffset = m.cursor.Day - visible + 1
	}
	if m.scrollOffset < 0 {
		m.scrollOffset = 0
	}
}

// visibleRows returns how many day rows fit in the terminal.
func (m *Model) visibleRows() int {
	// title + header + footer block
	rows := m.height - chromeHeight
	if rows < 1 {
		return 1
	}
	return rows
}
