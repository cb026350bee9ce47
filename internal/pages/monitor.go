package pages

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/spincore/pulseterm/internal/app"
	"github.com/spincore/pulseterm/internal/config"
	"github.com/spincore/pulseterm/internal/serial"
	"github.com/spincore/pulseterm/internal/ui"
)

const maxConsoleLines = 500

type consoleLineMsg string

type portsListedMsg struct {
	ports []serial.PortInfo
	err   error
}

// MonitorPage tails the instrument's diagnostic serial console.
type MonitorPage struct {
	cfg     *config.Config
	monitor *serial.Monitor

	ports    []serial.PortInfo
	cursor   int
	lines    []string
	viewport viewport.Model
	message  string

	width, height int
}

func NewMonitorPage(cfg *config.Config, monitor *serial.Monitor) *MonitorPage {
	return &MonitorPage{
		cfg:      cfg,
		monitor:  monitor,
		viewport: viewport.New(0, 0),
	}
}

func (p *MonitorPage) Init() tea.Cmd {
	return listPortsCmd
}

func listPortsCmd() tea.Msg {
	ports, err := serial.ListPorts()
	return portsListedMsg{ports: ports, err: err}
}

// waitLine blocks on the monitor's line channel and re-arms itself after
// every delivery.
func waitLine(m *serial.Monitor) tea.Cmd {
	return func() tea.Msg {
		line, ok := <-m.Lines()
		if !ok {
			return nil
		}
		return consoleLineMsg(line)
	}
}

func (p *MonitorPage) Update(msg tea.Msg) (app.Page, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if p.cursor > 0 {
				p.cursor--
			}
			return p, nil
		case "down", "j":
			if p.cursor < len(p.ports)-1 {
				p.cursor++
			}
			return p, nil
		case "c", "enter":
			return p, p.connect()
		case "d":
			p.monitor.Disconnect()
			p.message = "disconnected"
			return p, nil
		case "l":
			return p, listPortsCmd
		case "C":
			p.lines = nil
			p.viewport.SetContent("")
			return p, nil
		}

	case portsListedMsg:
		if msg.err != nil {
			p.message = ui.ErrorBadge("ERROR") + " list ports: " + msg.err.Error()
			return p, nil
		}
		p.ports = msg.ports
		if p.cursor >= len(p.ports) {
			p.cursor = 0
		}
		p.message = fmt.Sprintf("%d port(s) found", len(p.ports))
		return p, nil

	case consoleLineMsg:
		p.lines = append(p.lines, string(msg))
		if len(p.lines) > maxConsoleLines {
			p.lines = p.lines[len(p.lines)-maxConsoleLines:]
		}
		p.viewport.SetContent(strings.Join(p.lines, "\n"))
		p.viewport.GotoBottom()
		return p, waitLine(p.monitor)
	}

	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return p, cmd
}

func (p *MonitorPage) connect() tea.Cmd {
	if len(p.ports) == 0 {
		p.message = ui.ErrorBadge("ERROR") + " no serial ports"
		return nil
	}
	port := p.ports[p.cursor]
	baud := p.cfg.SerialBaudRate
	if baud == 0 {
		baud = config.DefaultBaudRate
	}
	if err := p.monitor.Connect(port.Name, baud); err != nil {
		p.message = ui.ErrorBadge("ERROR") + " " + err.Error()
		return nil
	}
	p.message = fmt.Sprintf("connected to %s @ %d", port.Name, baud)
	return waitLine(p.monitor)
}

func (p *MonitorPage) View() string {
	var inner strings.Builder

	if p.monitor.Connected() {
		inner.WriteString(ui.SuccessStyle.Render("● "+p.monitor.Port()) + "\n\n")
	} else {
		inner.WriteString(ui.DimStyle.Render("○ disconnected") + "\n\n")
	}

	if len(p.ports) == 0 {
		inner.WriteString(ui.DimStyle.Render("No ports. Press l to rescan.") + "\n")
	}
	for i, port := range p.ports {
		marker := "  "
		if i == p.cursor {
			marker = ui.AccentStyle.Render("> ")
		}
		inner.WriteString(marker + port.Label() + "\n")
	}

	inner.WriteString("\n" + p.viewport.View() + "\n")

	if p.message != "" {
		inner.WriteString("\n" + p.message + "\n")
	}

	return ui.Panel("Console", inner.String(), p.width, 0, false)
}

func (p *MonitorPage) Name() string { return "Monitor" }

func (p *MonitorPage) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "connect")),
		key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "disconnect")),
		key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "rescan")),
		key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear")),
	}
}

func (p *MonitorPage) SetSize(w, h int) {
	p.width = w
	p.height = h
	p.viewport.Width = w - 6
	p.viewport.Height = h - 14
	if p.viewport.Height < 3 {
		p.viewport.Height = 3
	}
}
