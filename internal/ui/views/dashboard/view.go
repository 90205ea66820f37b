package dashboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	wellnessdto "deskpulse/internal/modules/wellness/dto"
	"deskpulse/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type WellnessPort interface {
	Summary(ctx context.Context, query wellnessdto.SummaryQuery) (wellnessdto.SummaryOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type SummaryMsg struct {
	Summary wellnessdto.SummaryOutput
	Err     error
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port        WellnessPort
	body        viewport.Model
	spinner     spinner.Model
	summary     wellnessdto.SummaryOutput
	windowHours int
	loading     bool
	loaded      bool
	errLine     string
	width       int
	height      int
}

func New(port WellnessPort) Model {
	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().Background(theme.Base).Foreground(theme.Text)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Blue)

	return Model{
		port:    port,
		body:    vp,
		spinner: sp,
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Refresh(), m.spinner.Tick)
}

// Refresh fetches a fresh summary off the Update loop.
func (m Model) Refresh() tea.Cmd {
	window := m.windowHours
	return func() tea.Msg {
		summary, err := m.port.Summary(context.Background(), wellnessdto.SummaryQuery{WindowHours: window})
		return SummaryMsg{Summary: summary, Err: err}
	}
}

// SetWindow overrides the aggregation window for subsequent refreshes.
// Zero restores the configured default.
func (m *Model) SetWindow(hours int) {
	m.windowHours = hours
}

func (m Model) Window() int { return m.windowHours }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.body.Width = m.width
		m.body.Height = m.height
		m.body.SetContent(m.renderSummary())

	case SummaryMsg:
		m.loading = false
		if msg.Err != nil {
			m.errLine = "summary refresh failed: " + msg.Err.Error()
		} else {
			m.loaded = true
			m.errLine = ""
			m.summary = msg.Summary
		}
		m.body.SetContent(m.renderSummary())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	var vCmd tea.Cmd
	m.body, vCmd = m.body.Update(msg)
	cmds = append(cmds, vCmd)

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading && !m.loaded {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Crunching health data…")
	}
	return m.body.View()
}

// ─── rendering ───────────────────────────────────────────────────────────────

func (m Model) renderSummary() string {
	s := m.summary
	var sb strings.Builder

	if m.errLine != "" {
		sb.WriteString(theme.Bad.Render(m.errLine) + "\n\n")
	}

	if s.Status != "success" {
		message := s.Message
		if message == "" {
			message = "No health data available"
		}
		sb.WriteString("\n" + theme.Muted.Render("  "+message) + "\n")
		sb.WriteString(theme.Muted.Render("  Run a harvest or enable demo mode to see the dashboard.") + "\n")
		return sb.String()
	}

	sb.WriteString(m.renderGaugeRow())
	sb.WriteString("\n")
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.renderScorePane(), m.renderTrendPane()))
	sb.WriteString("\n")
	sb.WriteString(m.renderRecommendationsPane())
	sb.WriteString("\n")
	sb.WriteString(m.renderFooter())
	return sb.String()
}

func (m Model) renderGaugeRow() string {
	s := m.summary
	panes := []string{
		renderGauge("Focus", s.LiveMetrics.FocusScore),
		renderGauge("Posture", s.LiveMetrics.PostureScore),
		renderGauge("Noise", s.LiveMetrics.NoiseLevel),
		renderGauge("Phone", s.LiveMetrics.PhoneUsage),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, panes...)
}

func renderGauge(label string, g wellnessdto.GaugeOutput) string {
	value := theme.Gauge(g.Status).Render(g.Value)
	body := theme.Muted.Render(label) + "\n" + value
	return theme.Pane.Width(14).Render(body)
}

func (m Model) renderScorePane() string {
	s := m.summary
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Session Scores") + "\n\n")
	sb.WriteString(fmt.Sprintf("%s %5.1f\n", theme.Muted.Render("focus       "), s.Metrics.FocusScore))
	sb.WriteString(fmt.Sprintf("%s %5.1f\n", theme.Muted.Render("posture     "), s.Metrics.PostureScore))
	sb.WriteString(fmt.Sprintf("%s %5.1f\n", theme.Muted.Render("distraction "), s.Metrics.DistractionLevel))
	sb.WriteString(fmt.Sprintf("%s %5.1f min\n", theme.Muted.Render("phone       "), s.Totals.PhoneUsageMinutes))
	sb.WriteString("\n" + theme.Muted.Render("grade       ") + " " + gradeStyle(s.HealthGrade).Render(s.HealthGrade))
	return theme.Pane.Width(30).Render(sb.String())
}

func (m Model) renderTrendPane() string {
	s := m.summary
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Focus Trend") + "\n\n")
	arrow, style := trendGlyph(s.Trend.Direction)
	sb.WriteString(style.Render(arrow+" "+s.Trend.Direction) + "\n\n")
	sb.WriteString(fmt.Sprintf("%s %.3f\n", theme.Muted.Render("recent "), s.Trend.RecentFocus))
	sb.WriteString(fmt.Sprintf("%s %.3f\n", theme.Muted.Render("older  "), s.Trend.OlderFocus))
	sb.WriteString(fmt.Sprintf("\n%s %.3f / %.3f / %.3f",
		theme.Muted.Render("avg f/p/n"),
		s.Averages.FocusScore, s.Averages.PostureScore, s.Averages.NoiseLevel))
	return theme.Pane.Width(34).Render(sb.String())
}

func (m Model) renderRecommendationsPane() string {
	s := m.summary
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Top Recommendations") + "\n")
	if len(s.TopRecommendations) == 0 {
		sb.WriteString("\n" + theme.Muted.Render("none recorded in this window"))
	}
	for _, rec := range s.TopRecommendations {
		sb.WriteString(fmt.Sprintf("\n%s %s", theme.Hot.Render(fmt.Sprintf("%2d×", rec.Count)), rec.Text))
	}
	return theme.Pane.Width(64).Render(sb.String())
}

func (m Model) renderFooter() string {
	s := m.summary
	window := m.windowHours
	if window == 0 {
		window = s.TimeRangeHours
	}
	agent := theme.Good
	if s.AgentStatus != "operational" {
		agent = theme.Warn
	}
	return theme.Muted.Render(fmt.Sprintf("  %d samples over %dh  ·  cycle %d  ·  agent ",
		s.DataPointCount, window, s.Cycle)) +
		agent.Render(s.AgentStatus) +
		theme.Muted.Render("  ·  updated "+s.LastUpdated.Local().Format("15:04:05"))
}

func gradeStyle(grade string) lipgloss.Style {
	switch grade {
	case "A", "B":
		return theme.Good
	case "C":
		return theme.Warn
	default:
		return theme.Bad
	}
}

func trendGlyph(direction string) (string, lipgloss.Style) {
	switch direction {
	case "improving":
		return "▲", theme.Good
	case "declining":
		return "▼", theme.Bad
	default:
		return "►", theme.Muted
	}
}
