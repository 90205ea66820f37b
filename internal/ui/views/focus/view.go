package focus

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sessiondto "deskpulse/internal/modules/session/dto"
	apperrors "deskpulse/internal/platform/errors"
	"deskpulse/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type SessionPort interface {
	Start(ctx context.Context) (sessiondto.StartOutput, error)
	TogglePause(ctx context.Context) (sessiondto.StatusOutput, error)
	Stop(ctx context.Context) (sessiondto.StopOutput, error)
	Tick(ctx context.Context) (sessiondto.StatusOutput, error)
	Recent(ctx context.Context, limit int) ([]sessiondto.RecordOutput, error)
	Today(ctx context.Context) (sessiondto.TodayOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type TickedMsg struct {
	Status sessiondto.StatusOutput
	Err    error
}

type StartedMsg struct {
	Out sessiondto.StartOutput
	Err error
}

type StoppedMsg struct {
	Out sessiondto.StopOutput
	Err error
}

type RecentMsg struct {
	Records []sessiondto.RecordOutput
	Err     error
}

type TodayMsg struct {
	Out sessiondto.TodayOutput
	Err error
}

// ─── list item ───────────────────────────────────────────────────────────────

type recordItem struct {
	r sessiondto.RecordOutput
}

func (i recordItem) Title() string {
	return i.r.EndedAt.Local().Format("Mon 15:04") + "  " + fmtClock(i.r.DurationSeconds)
}

func (i recordItem) Description() string {
	return fmt.Sprintf("%d break(s)", i.r.BreaksTaken)
}

func (i recordItem) FilterValue() string {
	return i.r.EndedAt.Local().Format("2006-01-02 Mon")
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port       SessionPort
	recent     list.Model
	status     sessiondto.StatusOutput
	today      sessiondto.TodayOutput
	hasActive  bool
	statusLine string
	width      int
	height     int
}

func New(port SessionPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Blue).BorderForeground(theme.Blue)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Subtext).BorderForeground(theme.Blue)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Recent Sessions"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	return Model{port: port, recent: l}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Tick(), m.loadRecentCmd(), m.loadTodayCmd())
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case TickedMsg:
		if msg.Err != nil {
			m.hasActive = false
			if msg.Err != apperrors.ErrNoActiveSession {
				m.statusLine = "session: " + msg.Err.Error()
			}
			return m, nil
		}
		wasInBreak := m.status.InBreak
		m.hasActive = true
		m.status = msg.Status
		for _, event := range msg.Status.Events {
			if event == "break_completed" {
				m.statusLine = "Break complete — back to focus"
			}
		}
		if !wasInBreak && msg.Status.InBreak {
			m.statusLine = "Break time — step away from the desk"
		}

	case StartedMsg:
		if msg.Err != nil {
			m.statusLine = "start failed: " + msg.Err.Error()
			return m, nil
		}
		m.statusLine = "session started"
		cmds = append(cmds, m.Tick())

	case StoppedMsg:
		m.hasActive = false
		m.status = sessiondto.StatusOutput{}
		if msg.Err != nil {
			m.statusLine = "stop failed: " + msg.Err.Error()
			return m, nil
		}
		if msg.Out.Saved {
			m.statusLine = fmt.Sprintf("session saved: %s, %d break(s)", fmtClock(msg.Out.DurationSeconds), msg.Out.BreaksTaken)
		} else {
			m.statusLine = "session discarded (shorter than a minute)"
		}
		cmds = append(cmds, m.loadRecentCmd(), m.loadTodayCmd())

	case RecentMsg:
		if msg.Err != nil {
			m.statusLine = "recent load failed: " + msg.Err.Error()
			return m, nil
		}
		items := make([]list.Item, len(msg.Records))
		for i, r := range msg.Records {
			items[i] = recordItem{r: r}
		}
		cmds = append(cmds, m.recent.SetItems(items))

	case TodayMsg:
		if msg.Err == nil {
			m.today = msg.Out
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "s":
			if !m.hasActive {
				return m, m.StartCmd()
			}
		case "p":
			if m.hasActive {
				return m, m.TogglePauseCmd()
			}
		case "x":
			if m.hasActive {
				return m, m.StopCmd()
			}
		}
	}

	var lCmd tea.Cmd
	m.recent, lCmd = m.recent.Update(msg)
	cmds = append(cmds, lCmd)

	return m, tea.Batch(cmds...)
}

// Filtering reports whether the recent list's search filter is active.
func (m Model) Filtering() bool {
	return m.recent.FilterState() == list.Filtering
}

// Active reports whether a session is currently running or paused, with a
// short label for the status bar.
func (m Model) Active() (string, bool) {
	if !m.hasActive {
		return "", false
	}
	label := "focus " + fmtClock(m.status.ElapsedSeconds)
	if m.status.InBreak {
		label = "break " + fmtClock(m.status.BreakRemainingSeconds)
	} else if m.status.State == "paused" {
		label = "paused " + fmtClock(m.status.ElapsedSeconds)
	}
	return label, true
}

// ─── commands ────────────────────────────────────────────────────────────────

// Tick folds wall-clock progress into the active session and reports the
// resulting status. The app model schedules it once per second.
func (m Model) Tick() tea.Cmd {
	return func() tea.Msg {
		status, err := m.port.Tick(context.Background())
		return TickedMsg{Status: status, Err: err}
	}
}

func (m Model) StartCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.Start(context.Background())
		return StartedMsg{Out: out, Err: err}
	}
}

func (m Model) StopCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.Stop(context.Background())
		return StoppedMsg{Out: out, Err: err}
	}
}

// TogglePauseCmd flips pause on the running session. Exported for the palette.
func (m Model) TogglePauseCmd() tea.Cmd {
	return func() tea.Msg {
		status, err := m.port.TogglePause(context.Background())
		return TickedMsg{Status: status, Err: err}
	}
}

func (m Model) loadRecentCmd() tea.Cmd {
	return func() tea.Msg {
		records, err := m.port.Recent(context.Background(), 20)
		return RecentMsg{Records: records, Err: err}
	}
}

func (m Model) loadTodayCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.Today(context.Background())
		return TodayMsg{Out: out, Err: err}
	}
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	timerW := m.width * 5 / 10
	listW := m.width - timerW

	timerPane := lipgloss.NewStyle().Width(timerW).Height(m.height).Render(m.renderTimer())
	listPane := lipgloss.NewStyle().Width(listW).Height(m.height).Render(m.recent.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, timerPane, listPane)
}

func (m *Model) resize() {
	listW := m.width - m.width*5/10
	m.recent.SetSize(listW, m.height)
}

func (m Model) renderTimer() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Focus Session") + "\n\n")

	if !m.hasActive {
		sb.WriteString(theme.Muted.Render("no active session") + "\n\n")
		sb.WriteString(theme.Muted.Render("s: start a focus session") + "\n")
	} else {
		elapsed := fmtClock(m.status.ElapsedSeconds)
		switch {
		case m.status.InBreak:
			sb.WriteString(theme.Warn.Render("☕ BREAK") + "\n\n")
			sb.WriteString(theme.Hot.Render(fmtClock(m.status.BreakRemainingSeconds)) + theme.Muted.Render(" until focus resumes") + "\n")
			sb.WriteString(theme.Muted.Render("elapsed ") + elapsed + "\n")
		case m.status.State == "paused":
			sb.WriteString(theme.Muted.Render("⏸ PAUSED") + "\n\n")
			sb.WriteString(theme.Hot.Render(elapsed) + "\n")
		default:
			sb.WriteString(theme.Good.Render("● FOCUSED") + "\n\n")
			sb.WriteString(theme.Hot.Render(elapsed) + "\n")
			if m.status.NextBreakInSeconds > 0 {
				sb.WriteString(theme.Muted.Render("next break in ") + fmtClock(m.status.NextBreakInSeconds) + "\n")
			}
		}
		sb.WriteString(fmt.Sprintf("%s%d\n", theme.Muted.Render("breaks taken  "), m.status.BreaksTaken))
		sb.WriteString("\n" + theme.Muted.Render("p: pause/resume  x: stop") + "\n")
	}

	sb.WriteString("\n" + theme.Title.Render("Today") + "\n")
	sb.WriteString(fmt.Sprintf("%s%d\n", theme.Muted.Render("sessions      "), m.today.Sessions))
	sb.WriteString(fmt.Sprintf("%s%s\n", theme.Muted.Render("focused       "), fmtClock(m.today.FocusSeconds)))
	sb.WriteString(fmt.Sprintf("%s%d\n", theme.Muted.Render("breaks        "), m.today.BreaksTaken))

	if m.statusLine != "" {
		sb.WriteString("\n" + theme.Hot.Render(m.statusLine) + "\n")
	}

	return theme.Pane.Width(m.width*5/10 - 2).Render(sb.String())
}

func fmtClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	min := (seconds % 3600) / 60
	sec := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, min, sec)
	}
	return fmt.Sprintf("%02d:%02d", min, sec)
}
