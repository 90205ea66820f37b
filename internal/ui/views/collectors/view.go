package collectors

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	collectordto "deskpulse/internal/modules/collector/dto"
	"deskpulse/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type CollectorPort interface {
	List(ctx context.Context) ([]collectordto.CollectorInfo, error)
	Doctor(ctx context.Context) ([]collectordto.DoctorResult, error)
	Status(ctx context.Context, name string) (collectordto.StatusOutput, error)
	Harvest(ctx context.Context) (collectordto.HarvestOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type ListMsg struct {
	Collectors []collectordto.CollectorInfo
	Err        error
}

type DoctorMsg struct {
	Results []collectordto.DoctorResult
	Err     error
}

type StatusMsg struct {
	Out collectordto.StatusOutput
	Err error
}

type HarvestMsg struct {
	Out collectordto.HarvestOutput
	Err error
}

// ─── list item ───────────────────────────────────────────────────────────────

type collectorItem struct {
	c collectordto.CollectorInfo
}

func (i collectorItem) Title() string {
	title := i.c.Name + " " + i.c.Version
	if !i.c.Enabled {
		title += "  (disabled)"
	}
	return title
}

func (i collectorItem) Description() string { return strings.Join(i.c.Capabilities, ", ") }
func (i collectorItem) FilterValue() string { return i.c.Name }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port       CollectorPort
	list       list.Model
	detail     viewport.Model
	spinner    spinner.Model
	loading    bool
	statusLine string
	width      int
	height     int
}

func New(port CollectorPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Blue).BorderForeground(theme.Blue)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Subtext).BorderForeground(theme.Blue)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Collectors"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().Background(theme.Mantle).Foreground(theme.Text).Padding(1)
	vp.SetContent(theme.Muted.Render("d: doctor   enter: status probe   H: harvest now"))

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Blue)

	return Model{
		port:    port,
		list:    l,
		detail:  vp,
		spinner: sp,
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadListCmd(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case ListMsg:
		m.loading = false
		if msg.Err != nil {
			m.statusLine = "collector list failed: " + msg.Err.Error()
			m.detail.SetContent(theme.Bad.Render(m.statusLine))
			return m, nil
		}
		items := make([]list.Item, len(msg.Collectors))
		for i, c := range msg.Collectors {
			items[i] = collectorItem{c: c}
		}
		cmds = append(cmds, m.list.SetItems(items))
		if len(msg.Collectors) == 0 {
			m.detail.SetContent(theme.Muted.Render("No collectors installed.\nDrop a manifest into collectors/collectors.json to register one."))
		}

	case DoctorMsg:
		if msg.Err != nil {
			m.statusLine = "doctor failed: " + msg.Err.Error()
			return m, nil
		}
		m.statusLine = "doctor finished"
		m.detail.SetContent(renderDoctor(msg.Results))

	case StatusMsg:
		if msg.Err != nil {
			m.statusLine = "status probe failed: " + msg.Err.Error()
			m.detail.SetContent(theme.Bad.Render(m.statusLine))
			return m, nil
		}
		m.detail.SetContent(renderStatus(msg.Out))

	case HarvestMsg:
		if msg.Err != nil {
			m.statusLine = "harvest failed: " + msg.Err.Error()
			return m, nil
		}
		m.statusLine = fmt.Sprintf("harvest stored %d sample(s)", msg.Out.Stored)
		m.detail.SetContent(renderHarvest(msg.Out))

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		switch msg.String() {
		case "d":
			m.statusLine = "running doctor…"
			cmds = append(cmds, m.DoctorCmd())
		case "enter":
			if item, ok := m.list.SelectedItem().(collectorItem); ok {
				m.statusLine = "probing " + item.c.Name + "…"
				cmds = append(cmds, m.StatusCmd(item.c.Name))
			}
		case "H":
			m.statusLine = "harvesting…"
			cmds = append(cmds, m.HarvestCmd())
		}
	}

	if !m.loading {
		var lCmd tea.Cmd
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)

		var vCmd tea.Cmd
		m.detail, vCmd = m.detail.Update(msg)
		cmds = append(cmds, vCmd)
	}

	return m, tea.Batch(cmds...)
}

// Filtering reports whether the list's search filter is currently active.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading collectors…")
	}

	listW := m.width * 4 / 10
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().Width(listW).Height(m.height).Render(m.list.View())
	detailPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Background(theme.Mantle).
		Width(detailW - 2).
		Height(m.height - 2).
		Render(m.detail.View())

	body := lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
	if m.statusLine == "" {
		return body
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, theme.Hot.Render(" "+m.statusLine))
}

// ─── commands ────────────────────────────────────────────────────────────────

func (m Model) loadListCmd() tea.Cmd {
	return func() tea.Msg {
		collectors, err := m.port.List(context.Background())
		return ListMsg{Collectors: collectors, Err: err}
	}
}

// DoctorCmd checks every registered collector. Exported so the palette can
// trigger it from any tab.
func (m Model) DoctorCmd() tea.Cmd {
	return func() tea.Msg {
		results, err := m.port.Doctor(context.Background())
		return DoctorMsg{Results: results, Err: err}
	}
}

// StatusCmd probes the named collector over its own status endpoint.
func (m Model) StatusCmd(name string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.Status(context.Background(), name)
		return StatusMsg{Out: out, Err: err}
	}
}

// HarvestCmd runs a harvest and reports back into this view. The app model
// reuses it for palette-triggered and timer-driven harvests.
func (m Model) HarvestCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.Harvest(context.Background())
		return HarvestMsg{Out: out, Err: err}
	}
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	listW := m.width * 4 / 10
	detailW := m.width - listW
	contentH := m.height - 2
	if contentH < 1 {
		contentH = 1
	}
	m.list.SetSize(listW, contentH)
	m.detail.Width = detailW - 4
	m.detail.Height = contentH - 2
}

func renderDoctor(results []collectordto.DoctorResult) string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Doctor") + "\n\n")
	if len(results) == 0 {
		sb.WriteString(theme.Muted.Render("no collectors registered"))
		return sb.String()
	}
	for _, r := range results {
		sb.WriteString(theme.Hot.Render(r.Name) + "\n")
		sb.WriteString("  binary    " + check(r.BinaryReachable) + "\n")
		sb.WriteString("  checksum  " + check(r.ChecksumValid) + "\n")
		sb.WriteString("  lifecycle " + check(r.LifecycleOK) + "\n")
		if r.Error != "" {
			sb.WriteString("  " + theme.Bad.Render(r.Error) + "\n")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func renderStatus(out collectordto.StatusOutput) string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(out.Collector) + "\n\n")
	state := theme.Good
	if out.State != "operational" {
		state = theme.Warn
	}
	sb.WriteString(theme.Muted.Render("state   ") + state.Render(out.State) + "\n")
	if out.Detail != "" {
		sb.WriteString(theme.Muted.Render("detail  ") + out.Detail + "\n")
	}
	if !out.LastSampleAt.IsZero() {
		sb.WriteString(theme.Muted.Render("sample  ") + out.LastSampleAt.Local().Format("15:04:05") + "\n")
	}
	return sb.String()
}

func renderHarvest(out collectordto.HarvestOutput) string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Harvest") + "\n\n")
	if !out.Since.IsZero() {
		sb.WriteString(theme.Muted.Render("since ") + out.Since.Local().Format("15:04:05") + "\n\n")
	}
	if len(out.Results) == 0 {
		sb.WriteString(theme.Muted.Render("no enabled collectors with the samples capability"))
		return sb.String()
	}
	for _, r := range out.Results {
		line := fmt.Sprintf("%-16s pulled %3d  stored %3d", r.Collector, r.Pulled, r.Stored)
		sb.WriteString(line + "\n")
		if r.Error != "" {
			sb.WriteString("  " + theme.Bad.Render(r.Error) + "\n")
		}
	}
	sb.WriteString("\n" + theme.Hot.Render(fmt.Sprintf("total stored: %d", out.Stored)))
	return sb.String()
}

func check(ok bool) string {
	if ok {
		return theme.Good.Render("ok")
	}
	return theme.Bad.Render("fail")
}
