package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// View renders the board.
func (m Model) View() string {
	if m.mode == ModeModal && m.modalType != ModalNone {
		return m.centerInBoard(m.renderModal())
	}

	if m.snap == nil {
		return m.centerInBoard(m.styles.StatusStyle.Render("Loading schedule..."))
	}

	var sections []string
	sections = append(sections, m.renderTitle())
	sections = append(sections, m.renderHeaderRow())

	start := m.scrollOffset
	end := min(m.dayCount(), start+m.visibleRows())
	for day := start; day < end; day++ {
		sections = append(sections, m.renderDayRow(day))
	}

	sections = append(sections, m.renderFooter())

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return m.styles.AppStyle.Render(content)
}

// renderTitle renders the top bar.
func (m *Model) renderTitle() string {
	title := fmt.Sprintf("Fleetboard — %s", m.anchor.Format("January 2006"))
	if m.loading {
		title += "  (loading)"
	}
	if m.mode == ModeMove {
		title += "  MOVE"
	}
	return m.styles.TitleStyle.Render(title)
}

// renderFooter renders the legend, status line, and key help.
func (m *Model) renderFooter() string {
	legend := m.styles.LegendStyle.Render(
		fmt.Sprintf("● complete  ◐ partial  ○ unassigned   filter: %s", m.filter))

	status := ""
	switch {
	case m.mode == ModePrompt:
		status = m.styles.PromptFocusedStyle.Render("/" + m.prompt.View())
	case m.statusMsg != "" && m.statusErr:
		status = m.styles.ErrorStyle.Render(m.statusMsg)
	case m.statusMsg != "":
		status = m.styles.StatusStyle.Render(m.statusMsg)
	case m.mode == ModeMove:
		status = m.styles.StatusStyle.Render(m.moveStatusLine())
	}

	help := m.styles.HelpStyle.Render(m.helpLine())

	lines := []string{legend}
	if status != "" {
		lines = append(lines, status)
	}
	lines = append(lines, help)
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// moveStatusLine describes what releasing the drag would do right now.
func (m *Model) moveStatusLine() string {
	if m.session == nil {
		return ""
	}
	booking, ok := m.snap.Booking(m.session.BookingID)
	if !ok {
		return ""
	}
	if !m.session.Armed() {
		return fmt.Sprintf("Holding %s (move with arrows, Enter to drop, Esc to cancel)", booking.Customer)
	}

	col, day, ok := m.movePreview()
	if !ok {
		return fmt.Sprintf("Release here opens %s", booking.Customer)
	}
	if day != m.session.SourceDay {
		delta := day - m.session.SourceDay
		return fmt.Sprintf("Drop shifts %s by %+d days", booking.Customer, delta)
	}
	if v, vok := m.snap.VehicleAt(col - 1); vok {
		return fmt.Sprintf("Drop moves %s to %s", booking.Customer, v.Label())
	}
	return ""
}

// helpLine returns the context-sensitive key hints.
func (m *Model) helpLine() string {
	switch m.mode {
	case ModeMove:
		return "hjkl/arrows drag · enter drop · esc cancel"
	case ModePrompt:
		return "enter search · esc clear"
	default:
		return "hjkl move · m pick up · a assign · x unassign · enter details · f filter · / search · [ ] month · r reload · q quit"
	}
}
