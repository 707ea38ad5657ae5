package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/waabox/devopswatch/internal/domain"
)

// Poller fetches every configured system once.
type Poller interface {
	PollOnce(ctx context.Context) []domain.Snapshot
}

// SnapshotsLoadedMsg is sent when a poll has completed.
// It is exported so that tests can inject it directly into AppModel.Update.
type SnapshotsLoadedMsg struct {
	Snapshots []domain.Snapshot
	At        time.Time
}

// tickMsg is sent by the auto-refresh ticker.
type tickMsg struct{}

// viewState indicates the current navigation level.
type viewState int

const (
	viewList viewState = iota
	viewDetail
)

// AppModel is the root Bubbletea model for devopswatch.
type AppModel struct {
	poller   Poller
	interval time.Duration
	ctx      context.Context

	view       viewState
	list       StatusListModel
	loading    bool
	refreshing bool
	lastPoll   time.Time
	width      int
	height     int
}

// NewAppModel creates the root application model. Polls run under ctx and
// repeat every interval.
func NewAppModel(ctx context.Context, poller Poller, interval time.Duration) AppModel {
	return AppModel{
		poller:   poller,
		interval: interval,
		ctx:      ctx,
		list:     NewStatusListModel(nil),
		loading:  true,
	}
}

// Init triggers the initial poll.
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.poll(), tickEvery(m.interval))
}

func (m AppModel) poll() tea.Cmd {
	return func() tea.Msg {
		snapshots := m.poller.PollOnce(m.ctx)
		return SnapshotsLoadedMsg{Snapshots: snapshots, At: time.Now()}
	}
}

func tickEvery(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(_ time.Time) tea.Msg {
		return tickMsg{}
	})
}

// Update handles all incoming messages and key events.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case SnapshotsLoadedMsg:
		m.loading = false
		m.refreshing = false
		m.lastPoll = msg.At
		m.list = m.list.UpdateRows(RowsFromSnapshots(msg.Snapshots))

	case tickMsg:
		if m.refreshing {
			return m, tickEvery(m.interval)
		}
		m.refreshing = true
		return m, tea.Batch(m.poll(), tickEvery(m.interval))

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r", "ctrl+r":
			if m.refreshing {
				return m, nil
			}
			m.refreshing = true
			return m, m.poll()
		}
		switch m.view {
		case viewList:
			return m.updateList(msg)
		case viewDetail:
			if msg.String() == "esc" {
				m.view = viewList
			}
		}
	}
	return m, nil
}

func (m AppModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "down", "j":
		m.list = m.list.MoveDown()
	case "up", "k":
		m.list = m.list.MoveUp()
	case "enter":
		if len(m.list.Rows()) > 0 {
			m.view = viewDetail
		}
	}
	return m, nil
}

const separator = "────────────────────────────────────────────────────────────\n"

// View renders the full TUI.
func (m AppModel) View() string {
	if m.loading {
		return "Loading statuses...\n"
	}

	success, fail, unknown := m.list.Counts()
	header := fmt.Sprintf(" devopswatch | %s %d  %s %d  %s %d",
		statusIcon(domain.StatusSuccess), success,
		statusIcon(domain.StatusFail), fail,
		statusIcon(domain.StatusUnknown), unknown)
	if !m.lastPoll.IsZero() {
		header += "  updated " + m.lastPoll.Format("15:04:05")
	}
	if m.refreshing {
		header += "  refreshing..."
	}
	header += "\n"

	if m.view == viewDetail {
		row := m.list.SelectedRow()
		footer := " esc: back   r: refresh   q: quit\n"
		return header + separator + fmt.Sprintf(" %s\n", displayName(row.Status)) + renderDetail(row) + separator + footer
	}
	footer := " ↑/↓: navigate   enter: details   r: refresh   q: quit\n"
	return header + separator + m.list.View() + "\n" + separator + footer
}

// Run starts the Bubbletea program and blocks until the user quits or ctx
// is cancelled. Cancellation is a clean exit.
func Run(ctx context.Context, poller Poller, interval time.Duration) error {
	p := tea.NewProgram(NewAppModel(ctx, poller, interval), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return exitError(ctx, err)
}

func exitError(ctx context.Context, err error) error {
	if err == nil || ctx.Err() != nil {
		return nil
	}
	return fmt.Errorf("devopswatch dashboard: %w", err)
}
