package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/mgallego/fleetboard/internal/dateutil"
	"github.com/mgallego/fleetboard/internal/fleet"
	"github.com/mgallego/fleetboard/internal/gesture"
	"github.com/mgallego/fleetboard/internal/schedule"
)

// Width of the day gutter on the left edge, e.g. "02 Mon ".
const dayGutterWidth = 8

// Terminal rows taken by everything that is not the grid.
const chromeHeight = 6

// segmentAtCursor returns the segment under the cursor, if the cursor is on
// an occupied vehicle cell.
func (m *Model) segmentAtCursor() (*schedule.Segment, bool) {
	if m.snap == nil || m.cursor.Col == 0 {
		return nil, false
	}
	vehicle, ok := m.snap.VehicleAt(m.cursor.Col - 1)
	if !ok {
		return nil, false
	}
	return m.snap.SegmentAt(vehicle.ID, m.cursor.Day)
}

// bookingAtCursor returns the booking under the cursor for either column
// kind: a segment's booking on vehicle columns, the first listed booking on
// the pending column.
func (m *Model) bookingAtCursor() (*fleet.Booking, bool) {
	if m.snap == nil {
		return nil, false
	}
	if m.cursor.Col > 0 {
		seg, ok := m.segmentAtCursor()
		if !ok {
			return nil, false
		}
		return &seg.Booking, true
	}
	list := m.pendingForDay(m.cursor.Day)
	if len(list) == 0 {
		return nil, false
	}
	return list[0], true
}

// pendingForDay lists the bookings shown on the pending column for a day,
// honoring the active filter.
func (m *Model) pendingForDay(day int) []*fleet.Booking {
	if m.snap == nil || day < 0 || day >= m.dayCount() {
		return nil
	}
	date := m.snap.Window.Date(day)

	var out []*fleet.Booking
	for i := range m.snap.Bookings {
		b := &m.snap.Bookings[i]
		if !b.CoversDay(date) {
			continue
		}
		if m.matchesFilter(b) {
			out = append(out, b)
		}
	}
	return out
}

// matchesFilter reports whether the filter keeps a booking on the pending
// column.
func (m *Model) matchesFilter(b *fleet.Booking) bool {
	switch m.filter {
	case FilterComplete:
		return b.Status() == fleet.StatusComplete
	case FilterAll:
		return true
	default:
		return b.Status() != fleet.StatusComplete
	}
}

// matchesSearch reports whether a booking matches the active search query.
func (m *Model) matchesSearch(b *fleet.Booking) bool {
	if m.searchQuery == "" {
		return false
	}
	return strings.Contains(strings.ToLower(b.Customer), strings.ToLower(m.searchQuery))
}

// movePreview returns the cell the current drag would land on, and whether a
// preview should render at all.
func (m *Model) movePreview() (col, day int, ok bool) {
	if m.session == nil || !m.session.Armed() {
		return 0, 0, false
	}
	dx, dy := m.session.Displacement()
	action := gesture.Interpret(dx, dy, m.gestureConfig())
	switch action.Kind {
	case gesture.KindReassign:
		target := m.session.SourceCol + action.ColumnDelta
		if target < 0 {
			target = 0
		}
		if target > m.vehicleCount()-1 {
			target = m.vehicleCount() - 1
		}
		return target + 1, m.session.SourceDay, true
	case gesture.KindShiftDates:
		day := m.session.SourceDay + action.DayDelta
		if day < 0 {
			day = 0
		}
		if day > m.dayCount()-1 {
			day = m.dayCount() - 1
		}
		return m.session.SourceCol + 1, day, true
	default:
		return 0, 0, false
	}
}

// renderHeaderRow renders the column headers.
func (m *Model) renderHeaderRow() string {
	var sb strings.Builder
	sb.WriteString(m.styles.DayColumnStyle.Render(padCell("", dayGutterWidth)))

	previewCol, _, hasPreview := m.movePreview()

	sb.WriteString(m.styles.PendingHeaderStyle.Render(padCell("Pending", m.colWidth)))
	for i := 0; i < m.vehicleCount(); i++ {
		v, _ := m.snap.VehicleAt(i)
		label := v.Registration
		if v.Name != "" && len(label)+len(v.Name)+1 <= m.colWidth-2 {
			label += " " + v.Name
		}
		style := m.styles.VehicleHeaderStyle
		if hasPreview && previewCol == i+1 {
			style = m.styles.VehicleHeaderMoveStyle
		}
		sb.WriteString(style.Render(padCell(label, m.colWidth)))
	}
	return sb.String()
}

// renderDayRow renders one day row across all columns.
func (m *Model) renderDayRow(day int) string {
	date := m.snap.Window.Date(day)

	gutterStyle := m.styles.DayColumnStyle
	if dateutil.SameDay(date, m.now()) {
		gutterStyle = m.styles.DayTodayStyle
	}

	var sb strings.Builder
	sb.WriteString(gutterStyle.Render(padCell(date.Format("02 Mon"), dayGutterWidth)))
	sb.WriteString(m.renderPendingCell(day))
	for i := 0; i < m.vehicleCount(); i++ {
		sb.WriteString(m.renderVehicleCell(i, day))
	}
	return sb.String()
}

// renderPendingCell renders the pending column cell for a day.
func (m *Model) renderPendingCell(day int) string {
	list := m.pendingForDay(day)

	text := ""
	if len(list) > 0 {
		text = fmt.Sprintf("%s %s", statusGlyph(list[0].Status()), list[0].Customer)
		if len(list) > 1 {
			text += fmt.Sprintf(" +%d", len(list)-1)
		}
	}

	style := m.styles.CellEmptyStyle
	if len(list) > 0 {
		style = m.styles.CellUnassignedStyle
		if list[0].Status() == fleet.StatusPartial {
			style = m.styles.CellPartialStyle
		}
		if m.matchesSearch(list[0]) {
			style = m.styles.CellMatchStyle
		}
	}
	if m.cursor.Col == 0 && m.cursor.Day == day && m.mode != ModeMove {
		style = m.styles.CursorStyle
	}
	return style.Render(padCell(truncate(text, m.colWidth-1), m.colWidth))
}

// renderVehicleCell renders one vehicle cell for a day.
func (m *Model) renderVehicleCell(vehicleIdx, day int) string {
	vehicle, _ := m.snap.VehicleAt(vehicleIdx)
	col := vehicleIdx + 1

	previewCol, previewDay, hasPreview := m.movePreview()
	isPreview := hasPreview && previewCol == col && previewDay == day
	isCursor := m.cursor.Col == col && m.cursor.Day == day

	seg, occupied := m.snap.SegmentAt(vehicle.ID, day)

	text := ""
	style := m.styles.CellEmptyStyle
	if occupied {
		b := &seg.Booking
		if day == seg.StartSlot {
			text = fmt.Sprintf("%s %s", statusGlyph(b.Status()), b.Customer)
		} else {
			text = "│"
		}

		switch b.Status() {
		case fleet.StatusComplete:
			style = m.styles.CellCompleteStyle
		default:
			style = m.styles.CellPartialStyle
		}
		if !m.matchesFilter(b) {
			style = m.styles.CellEmptyStyle
		}
		if m.matchesSearch(b) {
			style = m.styles.CellMatchStyle
		}
		if m.session != nil && b.ID == m.session.BookingID {
			style = m.styles.MoveSourceStyle
		}
	}

	if isPreview {
		style = m.styles.MovePreviewStyle
		if text == "" {
			text = "◆"
		}
	} else if isCursor && m.mode != ModeMove {
		style = m.styles.CursorStyle
	}

	return style.Render(padCell(truncate(text, m.colWidth-1), m.colWidth))
}

// statusGlyph returns the one-rune marker for a booking status.
func statusGlyph(s fleet.Status) string {
	switch s {
	case fleet.StatusComplete:
		return "●"
	case fleet.StatusPartial:
		return "◐"
	default:
		return "○"
	}
}

// padCell pads or trims a string to an exact display width. Widths are
// measured in terminal cells, so wide runes in customer names count double.
func padCell(s string, width int) string {
	if width <= 0 {
		return ""
	}
	w := ansi.StringWidth(s)
	if w >= width {
		return ansi.Truncate(s, width, "")
	}
	return s + strings.Repeat(" ", width-w)
}

// truncate shortens a string to at most width cells, with an ellipsis.
func truncate(s string, width int) string {
	if width <= 1 || ansi.StringWidth(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, "…")
}

// newConflictError wraps advisory client-side conflicts in the same tagged
// error the backend produces.
func newConflictError(vehicleLabel string, conflicts []fleet.Conflict) *fleet.ConflictError {
	return &fleet.ConflictError{
		Message:   fmt.Sprintf("%s is already booked in that period", vehicleLabel),
		Conflicts: conflicts,
	}
}

// addDaysLabel formats a booking's start date shifted by the given days.
func addDaysLabel(b *fleet.Booking, days int) string {
	return dateutil.AddDays(b.FromDate, days).Format("Jan 2")
}

// bookingCopyText builds the plain-text summary copied from the detail
// modal.
func (m *Model) bookingCopyText(b *fleet.Booking) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", b.Customer)
	fmt.Fprintf(&sb, "%s to %s\n", b.FromDate.Format(dateutil.DayFormat), b.ToDate.Format(dateutil.DayFormat))
	fmt.Fprintf(&sb, "Vehicles: %d/%d\n", b.AssignedCount(), b.Required())
	for _, id := range b.VehicleIDs {
		if idx, ok := m.snap.VehicleIndex(id); ok {
			v, _ := m.snap.VehicleAt(idx)
			fmt.Fprintf(&sb, "  - %s\n", v.Label())
		}
	}
	if b.PriceCents > 0 {
		fmt.Fprintf(&sb, "Price: %.2f EUR\n", float64(b.PriceCents)/100)
	}
	if b.Notes != "" {
		fmt.Fprintf(&sb, "Notes: %s\n", b.Notes)
	}
	return sb.String()
}

// centerInBoard places modal content over the board area.
func (m *Model) centerInBoard(content string) string {
	if m.width <= 0 || m.height <= 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content,
		lipgloss.WithWhitespaceBackground(m.styles.colorBg))
}
