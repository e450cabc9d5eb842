package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mgallego/fleetboard/internal/dateutil"
)

// renderModal renders the current modal.
func (m *Model) renderModal() string {
	switch m.modalType {
	case ModalDetail:
		return m.renderDetailModal()
	case ModalConfirm:
		return m.renderConfirmModal()
	case ModalConflict:
		return m.renderConflictModal()
	case ModalPick:
		return m.renderPickModal()
	default:
		return ""
	}
}

// modalFrame wraps a modal's parts in the shared frame.
func (m *Model) modalFrame(title string, body, footer string) string {
	parts := []string{
		m.styles.ModalTitleStyle.Render(title),
		"",
		body,
		"",
		m.styles.ModalFooterStyle.Render(footer),
	}
	return m.styles.ModalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// renderDetailModal shows one booking in full.
func (m *Model) renderDetailModal() string {
	b := m.detail
	if b == nil {
		return ""
	}

	var lines []string
	lines = append(lines, m.styles.ModalBodyStyle.Render(
		fmt.Sprintf("%s to %s (%d days)",
			b.FromDate.Format(dateutil.DayFormat),
			b.ToDate.Format(dateutil.DayFormat),
			dateutil.DaysBetween(b.FromDate, b.ToDate)+1)))
	lines = append(lines, m.styles.ModalBodyStyle.Render(
		fmt.Sprintf("Vehicles: %d of %d assigned", b.AssignedCount(), b.Required())))

	for _, id := range b.VehicleIDs {
		if idx, ok := m.snap.VehicleIndex(id); ok {
			v, _ := m.snap.VehicleAt(idx)
			lines = append(lines, m.styles.ModalMutedStyle.Render("  "+v.Label()))
		}
	}
	if b.Pending() > 0 {
		lines = append(lines, m.styles.ModalWarnStyle.Render(
			fmt.Sprintf("  %d still needed", b.Pending())))
	}
	if b.PriceCents > 0 {
		lines = append(lines, m.styles.ModalBodyStyle.Render(
			fmt.Sprintf("Price: %.2f EUR", float64(b.PriceCents)/100)))
	}
	if b.Notes != "" {
		lines = append(lines, m.styles.ModalMutedStyle.Render(b.Notes))
	}

	body := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return m.modalFrame(b.Customer, body, "c copy · esc close")
}

// renderConfirmModal asks before committing an interpreted move.
func (m *Model) renderConfirmModal() string {
	if m.pending == nil {
		return ""
	}
	body := m.styles.ModalBodyStyle.Render(m.pending.summary)
	return m.modalFrame("Confirm", body, "y/enter confirm · n cancel")
}

// renderConflictModal lists the assignments that blocked a mutation.
func (m *Model) renderConflictModal() string {
	ce := m.conflict
	if ce == nil {
		return ""
	}

	var lines []string
	if ce.Message != "" {
		lines = append(lines, m.styles.ModalBodyStyle.Render(ce.Message))
		lines = append(lines, "")
	}
	for _, c := range ce.Conflicts {
		lines = append(lines, m.styles.ModalWarnStyle.Render(
			fmt.Sprintf("%s is booked for %q", c.VehicleLabel, c.Customer)))
		lines = append(lines, m.styles.ModalMutedStyle.Render(
			fmt.Sprintf("  %s to %s",
				c.From.Format(dateutil.DayFormat), c.To.Format(dateutil.DayFormat))))
	}
	if len(ce.Conflicts) == 0 {
		lines = append(lines, m.styles.ModalMutedStyle.Render("The backend rejected the change."))
	}

	body := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return m.modalFrame("Scheduling conflict", body, "esc close")
}

// renderPickModal lists assignable bookings for the chosen vehicle cell.
func (m *Model) renderPickModal() string {
	if len(m.pickList) == 0 {
		return ""
	}

	var lines []string
	for i, b := range m.pickList {
		label := fmt.Sprintf("%s %s  %s to %s  [%d/%d]",
			statusGlyph(b.Status()), b.Customer,
			b.FromDate.Format("Jan 2"), b.ToDate.Format("Jan 2"),
			b.AssignedCount(), b.Required())
		style := m.styles.ModalBodyStyle
		if i == m.pickIndex {
			style = m.styles.ModalSelectedStyle
		}
		lines = append(lines, style.Render(label))

		// Flag choices the advisory check already knows would collide.
		if conflicts := m.snap.ConflictsWith(m.pickVehicle.ID, b.FromDate, b.ToDate, b.ID); len(conflicts) > 0 {
			names := make([]string, 0, len(conflicts))
			for _, c := range conflicts {
				names = append(names, c.Customer)
			}
			lines = append(lines, m.styles.ModalWarnStyle.Render(
				"    collides with "+strings.Join(names, ", ")))
		}
	}

	body := lipgloss.JoinVertical(lipgloss.Left, lines...)
	title := fmt.Sprintf("Assign to %s", m.pickVehicle.Label())
	return m.modalFrame(title, body, "j/k select · enter assign · esc close")
}
