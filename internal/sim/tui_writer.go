package sim

import (
	"fmt"
	"os"
	"sort"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"sentinel-sim/internal/telemetry"
)

// Commander exposes the operator commands to the TUI key handler.
type Commander interface {
	InjectRogue()
	HealAll()
	DetectThreats()
	Reset()
}

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// telemetryMsg carries one node row.
type telemetryMsg struct{ telemetry.NodeRow }

// eventMsg carries an event log line for the viewport.
type eventMsg struct{ line string }

// setCommanderMsg registers the command callbacks.
type setCommanderMsg struct{ cmd Commander }

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	healthyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	compromStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	rogueStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	eventBoxStyle = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240"))
)

// TUIWriter renders telemetry and the event log using a bubbletea dashboard.
type TUIWriter struct {
	program    teaProgram
	done       chan struct{}
	sendSignal atomic.Bool
}

// NewTUIWriter starts a bubbletea program and returns a TUIWriter.
func NewTUIWriter() *TUIWriter {
	w := &TUIWriter{done: make(chan struct{})}
	w.sendSignal.Store(true)
	p := tea.NewProgram(newTUIModel(), tea.WithAltScreen())
	w.program = p
	go func() {
		_, _ = p.Run()
		close(w.done)
		if w.sendSignal.Load() {
			if proc, err := os.FindProcess(os.Getpid()); err == nil {
				_ = proc.Signal(os.Interrupt)
			}
		}
	}()
	return w
}

// SetCommander wires the operator commands to the dashboard keys.
func (w *TUIWriter) SetCommander(cmd Commander) {
	w.program.Send(setCommanderMsg{cmd: cmd})
}

// Write implements TelemetryWriter.
func (w *TUIWriter) Write(row telemetry.NodeRow) error {
	w.program.Send(telemetryMsg{row})
	return nil
}

// WriteBatch outputs multiple node rows.
func (w *TUIWriter) WriteBatch(rows []telemetry.NodeRow) error {
	for _, r := range rows {
		_ = w.Write(r)
	}
	return nil
}

// WriteEvent implements EventWriter.
func (w *TUIWriter) WriteEvent(e telemetry.EventRow) error {
	label := "event"
	style := helpStyle
	if e.Kind == telemetry.EventInfection {
		label = "infection"
		style = rogueStyle
	}
	line := fmt.Sprintf("[%s] %s %s", e.Timestamp.Local().Format("15:04:05"), style.Render(label), e.Message)
	w.program.Send(eventMsg{line: line})
	return nil
}

// WriteEvents outputs multiple security events.
func (w *TUIWriter) WriteEvents(rows []telemetry.EventRow) error {
	for _, e := range rows {
		_ = w.WriteEvent(e)
	}
	return nil
}

// Close shuts down the TUI program and waits for cleanup.
func (w *TUIWriter) Close() error {
	w.sendSignal.Store(false)
	if w.program != nil {
		w.program.Send(tea.Quit())
	}
	if w.done != nil {
		<-w.done
	}
	return nil
}

type tuiModel struct {
	table      table.Model
	vp         viewport.Model
	nodes      map[int]telemetry.NodeRow
	events     []string
	cmd        Commander
	wrap       bool
	autoscroll bool
	width      int
	height     int
}

func newTUIModel() tuiModel {
	cols := []table.Column{
		{Title: "Node", Width: 6},
		{Title: "Status", Width: 14},
		{Title: "Temp", Width: 8},
		{Title: "Battery", Width: 8},
	}
	t := table.New(table.WithColumns(cols), table.WithHeight(14))
	return tuiModel{
		table:      t,
		vp:         viewport.New(0, 0),
		nodes:      make(map[int]telemetry.NodeRow),
		autoscroll: true,
	}
}

func (m tuiModel) Init() tea.Cmd { return nil }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetWidth(msg.Width)
		m.vp.Width = msg.Width - 2
		vpHeight := msg.Height - m.table.Height() - 6
		if vpHeight < 3 {
			vpHeight = 3
		}
		m.vp.Height = vpHeight
		m.refreshEvents()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "i":
			if m.cmd != nil {
				go m.cmd.InjectRogue()
			}
		case "h":
			if m.cmd != nil {
				go m.cmd.HealAll()
			}
		case "d":
			if m.cmd != nil {
				go m.cmd.DetectThreats()
			}
		case "r":
			if m.cmd != nil {
				go m.cmd.Reset()
			}
		case "w":
			m.wrap = !m.wrap
			m.refreshEvents()
		case "a":
			m.autoscroll = !m.autoscroll
		default:
			var cmd tea.Cmd
			m.vp, cmd = m.vp.Update(msg)
			return m, cmd
		}
	case setCommanderMsg:
		m.cmd = msg.cmd
	case telemetryMsg:
		m.nodes[msg.NodeID] = msg.NodeRow
		m.refreshTable()
	case eventMsg:
		m.events = append(m.events, msg.line)
		if len(m.events) > 200 {
			m.events = m.events[len(m.events)-200:]
		}
		m.refreshEvents()
	}
	return m, nil
}

func (m *tuiModel) refreshTable() {
	ids := make([]int, 0, len(m.nodes))
	for id := range m.nodes {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	rows := make([]table.Row, 0, len(ids))
	for _, id := range ids {
		n := m.nodes[id]
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", n.NodeID),
			renderStatus(n.Status),
			fmt.Sprintf("%.1f", n.Temperature),
			fmt.Sprintf("%.1f", n.Battery),
		})
	}
	m.table.SetRows(rows)
}

func (m *tuiModel) refreshEvents() {
	content := ""
	for i, line := range m.events {
		if i > 0 {
			content += "\n"
		}
		content += line
	}
	if m.wrap && m.vp.Width > 0 {
		content = wordwrap.String(content, m.vp.Width)
	}
	m.vp.SetContent(content)
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

func renderStatus(status string) string {
	switch status {
	case telemetry.StatusRogue:
		return rogueStyle.Render(status)
	case telemetry.StatusCompromised:
		return compromStyle.Render(status)
	}
	return healthyStyle.Render(status)
}

func (m tuiModel) healthLine() string {
	var healthy, compromised, rogue int
	for _, n := range m.nodes {
		switch n.Status {
		case telemetry.StatusRogue:
			rogue++
		case telemetry.StatusCompromised:
			compromised++
		default:
			healthy++
		}
	}
	return fmt.Sprintf("%s  %s  %s",
		healthyStyle.Render(fmt.Sprintf("healthy=%d", healthy)),
		compromStyle.Render(fmt.Sprintf("compromised=%d", compromised)),
		rogueStyle.Render(fmt.Sprintf("rogue=%d", rogue)),
	)
}

func (m tuiModel) View() string {
	header := titleStyle.Render("Sentinel Network") + "  " + m.healthLine() + "  " +
		helpStyle.Render(time.Now().Format("15:04:05"))
	help := helpStyle.Render("i inject rogue · h heal · d detect · r reset · w wrap · a autoscroll · q quit")
	return header + "\n" + m.table.View() + "\n" + eventBoxStyle.Render(m.vp.View()) + "\n" + help
}
