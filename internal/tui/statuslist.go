package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/waabox/devopswatch/internal/domain"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	unknownStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	cursorStyle  = lipgloss.NewStyle().Bold(true)
)

// Row is one status record together with the system it was fetched from.
type Row struct {
	SystemID string
	Status   domain.StatusInformation
}

// RowsFromSnapshots flattens snapshots into rows, keeping snapshot and record order.
func RowsFromSnapshots(snapshots []domain.Snapshot) []Row {
	var rows []Row
	for _, snap := range snapshots {
		for _, st := range snap.Statuses {
			rows = append(rows, Row{SystemID: snap.SystemID, Status: st})
		}
	}
	return rows
}

// StatusListModel is an immutable Bubbletea-compatible model for the status list panel.
type StatusListModel struct {
	rows   []Row
	cursor int
	now    func() time.Time
}

// NewStatusListModel creates a status list model with the given rows.
func NewStatusListModel(rows []Row) StatusListModel {
	return StatusListModel{rows: rows, now: time.Now}
}

// UpdateRows replaces the rows, keeping the cursor on the same record when it is still listed.
func (m StatusListModel) UpdateRows(rows []Row) StatusListModel {
	selected, hadSelection := m.selectedKey()
	m.rows = rows
	m.cursor = 0
	if hadSelection {
		for i, r := range rows {
			if rowKey(r) == selected {
				m.cursor = i
				break
			}
		}
	}
	return m
}

// Rows returns the listed rows.
func (m StatusListModel) Rows() []Row {
	return m.rows
}

// MoveDown returns a new model with the cursor moved down by one.
func (m StatusListModel) MoveDown() StatusListModel {
	if m.cursor < len(m.rows)-1 {
		m.cursor++
	}
	return m
}

// MoveUp returns a new model with the cursor moved up by one.
func (m StatusListModel) MoveUp() StatusListModel {
	if m.cursor > 0 {
		m.cursor--
	}
	return m
}

// SelectedIndex returns the current cursor position.
func (m StatusListModel) SelectedIndex() int {
	return m.cursor
}

// SelectedRow returns the currently highlighted row.
// Returns a zero-value Row if the list is empty.
func (m StatusListModel) SelectedRow() Row {
	if len(m.rows) == 0 {
		return Row{}
	}
	return m.rows[m.cursor]
}

// Counts returns how many rows carry each status.
func (m StatusListModel) Counts() (success, fail, unknown int) {
	for _, r := range m.rows {
		switch r.Status.Status {
		case domain.StatusSuccess:
			success++
		case domain.StatusFail:
			fail++
		default:
			unknown++
		}
	}
	return success, fail, unknown
}

// View renders the status list as a string.
func (m StatusListModel) View() string {
	if len(m.rows) == 0 {
		return "No automations configured."
	}
	var sb strings.Builder
	for i, r := range m.rows {
		prefix := "  "
		if i == m.cursor {
			prefix = "> "
		}
		line := fmt.Sprintf("%-24s %-20s %-8s %s",
			truncate(displayName(r.Status), 24),
			truncate(r.Status.Branch, 20),
			buildLabel(r.Status.BuildNumber),
			formatAge(r.Status.BuildTime, m.now()),
		)
		if i == m.cursor {
			line = cursorStyle.Render(line)
		}
		sb.WriteString(prefix + statusIcon(r.Status.Status) + " " + line + "\n")
	}
	return sb.String()
}

func (m StatusListModel) selectedKey() (string, bool) {
	if len(m.rows) == 0 {
		return "", false
	}
	return rowKey(m.rows[m.cursor]), true
}

func rowKey(r Row) string {
	return r.SystemID + "\x00" + r.Status.RepositoryName + "\x00" + r.Status.Alias + "\x00" + r.Status.ID
}

func displayName(st domain.StatusInformation) string {
	if st.Alias != "" {
		return st.Alias
	}
	return st.RepositoryName
}

func statusIcon(s domain.Status) string {
	switch s {
	case domain.StatusSuccess:
		return successStyle.Render("✓")
	case domain.StatusFail:
		return failStyle.Render("✗")
	default:
		return unknownStyle.Render("?")
	}
}

func buildLabel(n *int) string {
	if n == nil {
		return "--"
	}
	return fmt.Sprintf("#%d", *n)
}

func formatAge(t *time.Time, now time.Time) string {
	if t == nil || t.IsZero() {
		return "--"
	}
	d := now.Sub(*t)
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 48*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

func truncate(s string, max int) string {
	if len([]rune(s)) <= max {
		return s
	}
	return string([]rune(s)[:max-1]) + "…"
}
