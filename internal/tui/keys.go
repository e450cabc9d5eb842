package tui

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mgallego/fleetboard/internal/gesture"
	"github.com/mgallego/fleetboard/internal/tui/commands"
)

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case ModeMove:
		return m.handleMoveKeys(msg)
	case ModeModal:
		return m.handleModalKeys(msg)
	case ModePrompt:
		return m.handlePromptKeys(msg)
	default:
		return m.handleNormalKeys(msg)
	}
}

// handleNormalKeys handles keys in normal mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	// Navigation
	case "h", "left":
		if m.cursor.Col > 0 {
			m.cursor.Col--
		}
	case "l", "right":
		if m.cursor.Col < m.maxCol() {
			m.cursor.Col++
		}
	case "j", "down":
		if m.cursor.Day < m.dayCount()-1 {
			m.cursor.Day++
			m.ensureCursorVisible()
		}
	case "k", "up":
		if m.cursor.Day > 0 {
			m.cursor.Day--
			m.ensureCursorVisible()
		}
	case "pgdown", "ctrl+d":
		m.cursor.Day = min(m.dayCount()-1, m.cursor.Day+m.visibleRows())
		m.ensureCursorVisible()
	case "pgup", "ctrl+u":
		m.cursor.Day = max(0, m.cursor.Day-m.visibleRows())
		m.ensureCursorVisible()
	case "t":
		today := m.now()
		if m.snap != nil {
			if idx, ok := m.snap.Window.Index(today); ok {
				m.cursor.Day = idx
				m.ensureCursorVisible()
			}
		}

	// Month navigation
	case "[":
		m.loading = true
		m.anchor = m.anchor.AddDate(0, -1, 0)
		return m, commands.LoadMonth(m.svc, m.anchor)
	case "]":
		m.loading = true
		m.anchor = m.anchor.AddDate(0, 1, 0)
		return m, commands.LoadMonth(m.svc, m.anchor)

	case "r":
		m.loading = true
		return m, commands.LoadMonth(m.svc, m.anchor)

	case "f":
		m.filter = (m.filter + 1) % 3
		return m, commands.Status("Filter: %s", m.filter)

	case "/":
		m.mode = ModePrompt
		m.prompt.SetValue(m.searchQuery)
		m.prompt.Focus()
		return m, textinput.Blink

	case "enter":
		if b, ok := m.bookingAtCursor(); ok {
			m.detail = b
			m.mode = ModeModal
			m.modalType = ModalDetail
		}

	case "m", " ":
		return m.startMove()

	case "a":
		return m.openPickModal()

	case "x":
		return m.unassignAtCursor()
	}

	return m, nil
}

// startMove picks up the booking under the cursor and enters move mode.
func (m Model) startMove() (tea.Model, tea.Cmd) {
	if m.coord.Busy() {
		return m, commands.Status("Another change is still in flight")
	}
	seg, ok := m.segmentAtCursor()
	if !ok {
		if m.cursor.Col == 0 {
			return m, commands.Status("Pending bookings are assigned with 'a' on a vehicle cell")
		}
		return m, nil
	}

	m.session = gesture.NewSession(m.gestureConfig(), seg.Booking.ID, m.cursor.Col-1, m.cursor.Day, m.now)
	m.colSteps = 0
	m.daySteps = 0
	m.mode = ModeMove
	m.statusMsg = ""
	return m, nil
}

// handleMoveKeys handles keys while a booking is picked up. Each arrow step
// feeds one cell worth of displacement into the drag session; the session
// decides what the drag means only when it ends.
func (m Model) handleMoveKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cfg := m.gestureConfig()

	switch msg.String() {
	case "esc", "q":
		m.session = nil
		m.mode = ModeNormal
		return m, commands.Status("Move cancelled")

	case "h", "left":
		m.session.Move(-cfg.CellWidth, 0)
		if m.session.Armed() {
			m.colSteps--
		}
	case "l", "right":
		m.session.Move(cfg.CellWidth, 0)
		if m.session.Armed() {
			m.colSteps++
		}
	case "k", "up":
		m.session.Move(0, -cfg.CellHeight)
		if m.session.Armed() {
			m.daySteps--
		}
	case "j", "down":
		m.session.Move(0, cfg.CellHeight)
		if m.session.Armed() {
			m.daySteps++
		}

	case "enter":
		return m.finishMove()
	}

	return m, nil
}

// finishMove interprets the drag and either asks for confirmation or
// commits it directly.
func (m Model) finishMove() (tea.Model, tea.Cmd) {
	session := m.session
	m.session = nil
	m.mode = ModeNormal

	action := session.End()
	booking, ok := m.snap.Booking(session.BookingID)
	if !ok {
		return m, commands.Status("Booking is no longer on the board")
	}

	switch action.Kind {
	case gesture.KindNone:
		// A drag that went nowhere is a tap: open the details.
		m.detail = booking
		m.mode = ModeModal
		m.modalType = ModalDetail
		return m, nil

	case gesture.KindReassign:
		targetIdx, err := gesture.ResolveTarget(session.SourceCol, action.ColumnDelta, m.vehicleCount())
		if err != nil {
			return m, commands.Status("Same vehicle, nothing to do")
		}
		source, _ := m.snap.VehicleAt(session.SourceCol)
		target, _ := m.snap.VehicleAt(targetIdx)
		if booking.HasVehicle(target.ID) {
			return m, commands.Status("%s is already on %s", booking.Customer, target.Label())
		}

		// Advisory pre-check; the backend check remains binding.
		if conflicts := m.snap.ConflictsWith(target.ID, booking.FromDate, booking.ToDate, booking.ID); len(conflicts) > 0 {
			m.conflict = newConflictError(target.Label(), conflicts)
			m.mode = ModeModal
			m.modalType = ModalConflict
			return m, nil
		}

		pending := &pendingAction{
			action:    action,
			bookingID: booking.ID,
			fromID:    source.ID,
			toID:      target.ID,
			summary:   fmt.Sprintf("Move %s from %s to %s?", booking.Customer, source.Label(), target.Label()),
		}
		return m.commitOrConfirm(pending)

	default: // gesture.KindShiftDates
		from := addDaysLabel(booking, action.DayDelta)
		pending := &pendingAction{
			action:    action,
			bookingID: booking.ID,
			summary:   fmt.Sprintf("Shift %s by %+d days to start %s?", booking.Customer, action.DayDelta, from),
		}
		return m.commitOrConfirm(pending)
	}
}

// commitOrConfirm either opens the confirmation modal or runs the action.
func (m Model) commitOrConfirm(pending *pendingAction) (tea.Model, tea.Cmd) {
	if m.config.UI.ConfirmMoves {
		m.pending = pending
		m.mode = ModeModal
		m.modalType = ModalConfirm
		return m, nil
	}
	return m.commitPending(pending)
}

// commitPending runs a confirmed action.
func (m Model) commitPending(pending *pendingAction) (tea.Model, tea.Cmd) {
	m.loading = true
	m.pending = nil
	m.mode = ModeNormal
	m.modalType = ModalNone

	if pending.action.Kind == gesture.KindReassign {
		return m, commands.Reassign(m.coord, pending.bookingID, pending.fromID, pending.toID)
	}
	return m, commands.ShiftBooking(m.coord, pending.bookingID, pending.action.DayDelta)
}

// handleModalKeys handles keys while a modal is open.
func (m Model) handleModalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch m.modalType {
	case ModalConfirm:
		switch key {
		case "y", "enter":
			pending := m.pending
			return m.commitPending(pending)
		case "n", "esc", "q":
			m.closeModal()
			return m, commands.Status("Cancelled")
		}

	case ModalDetail:
		switch key {
		case "c":
			if m.detail != nil {
				if err := clipboard.WriteAll(m.bookingCopyText(m.detail)); err != nil {
					return m, commands.Status("Clipboard unavailable")
				}
				return m, commands.Status("Copied booking to clipboard")
			}
		case "esc", "q", "enter":
			m.closeModal()
		}

	case ModalConflict:
		switch key {
		case "esc", "q", "enter":
			m.closeModal()
		}

	case ModalPick:
		switch key {
		case "j", "down":
			if m.pickIndex < len(m.pickList)-1 {
				m.pickIndex++
			}
		case "k", "up":
			if m.pickIndex > 0 {
				m.pickIndex--
			}
		case "enter":
			if len(m.pickList) > 0 {
				bookingID := m.pickList[m.pickIndex].ID
				vehicleID := m.pickVehicle.ID
				m.closeModal()
				m.loading = true
				return m, commands.Assign(m.coord, bookingID, vehicleID)
			}
		case "esc", "q":
			m.closeModal()
		}
	}

	return m, nil
}

// handlePromptKeys handles the customer search prompt.
func (m Model) handlePromptKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searchQuery = ""
		m.prompt.SetValue("")
		m.prompt.Blur()
		m.mode = ModeNormal
		return m, nil
	case "enter":
		m.searchQuery = m.prompt.Value()
		m.prompt.Blur()
		m.mode = ModeNormal
		if m.searchQuery != "" {
			return m, commands.Status("Highlighting %q", m.searchQuery)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

// openPickModal lists assignable bookings for the vehicle cell under the
// cursor.
func (m Model) openPickModal() (tea.Model, tea.Cmd) {
	if m.cursor.Col == 0 || m.snap == nil {
		return m, commands.Status("Pick a vehicle cell to assign into")
	}
	vehicle, ok := m.snap.VehicleAt(m.cursor.Col - 1)
	if !ok {
		return m, nil
	}
	candidates := m.snap.Candidates(vehicle.ID, m.cursor.Day)
	if len(candidates) == 0 {
		return m, commands.Status("No pending bookings cover %s", m.snap.Window.Date(m.cursor.Day).Format("Jan 2"))
	}

	m.pickList = candidates
	m.pickIndex = 0
	m.pickVehicle = vehicle
	m.mode = ModeModal
	m.modalType = ModalPick
	return m, nil
}

// unassignAtCursor removes the vehicle under the cursor from its booking.
func (m Model) unassignAtCursor() (tea.Model, tea.Cmd) {
	if m.coord.Busy() {
		return m, commands.Status("Another change is still in flight")
	}
	seg, ok := m.segmentAtCursor()
	if !ok || m.cursor.Col == 0 {
		return m, nil
	}
	vehicle, ok := m.snap.VehicleAt(m.cursor.Col - 1)
	if !ok {
		return m, nil
	}
	m.loading = true
	return m, commands.Unassign(m.coord, seg.Booking.ID, vehicle.ID)
}

func (m *Model) closeModal() {
	m.mode = ModeNormal
	m.modalType = ModalNone
	m.detail = nil
	m.conflict = nil
	m.pending = nil
	m.pickList = nil
	m.pickIndex = 0
}
