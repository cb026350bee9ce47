package pages

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/spincore/pulseterm/internal/app"
	"github.com/spincore/pulseterm/internal/config"
	"github.com/spincore/pulseterm/internal/ui"
)

type settingsField struct {
	label  string
	get    func(*config.Config) string
	set    func(*config.Config, string) error
	toggle bool
}

// SettingsPage edits the workspace configuration in place and persists
// it on demand.
type SettingsPage struct {
	cfg           *config.Config
	workspaceRoot string

	fields  []settingsField
	cursor  int
	editing bool
	input   textinput.Model
	message string

	width, height int
}

func NewSettingsPage(cfg *config.Config, workspaceRoot string) *SettingsPage {
	ti := textinput.New()
	ti.CharLimit = 128

	fields := []settingsField{
		{
			label: "Board number",
			get:   func(c *config.Config) string { return strconv.Itoa(c.Board) },
			set: func(c *config.Config, v string) error {
				n, err := strconv.Atoi(v)
				if err != nil || n < 0 {
					return fmt.Errorf("board must be a non-negative integer")
				}
				c.Board = n
				return nil
			},
		},
		{
			label: "Core clock (MHz)",
			get:   func(c *config.Config) string { return strconv.FormatFloat(c.CoreClockMHz, 'g', -1, 64) },
			set: func(c *config.Config, v string) error {
				f, err := strconv.ParseFloat(v, 64)
				if err != nil || f < 0 {
					return fmt.Errorf("clock must be a non-negative number")
				}
				c.CoreClockMHz = f
				return nil
			},
		},
		{
			label:  "Debug backend logging",
			get:    func(c *config.Config) string { return strconv.FormatBool(c.Debug) },
			set:    func(c *config.Config, _ string) error { c.Debug = !c.Debug; return nil },
			toggle: true,
		},
		{
			label: "Transport",
			get:   func(c *config.Config) string { return c.Transport },
			set: func(c *config.Config, _ string) error {
				if c.Transport == config.TransportBinary {
					c.Transport = config.TransportScript
				} else {
					c.Transport = config.TransportBinary
				}
				return nil
			},
			toggle: true,
		},
		{
			label: "Binary name",
			get:   func(c *config.Config) string { return c.BinaryName },
			set:   func(c *config.Config, v string) error { c.BinaryName = v; return nil },
		},
		{
			label: "Interpreter",
			get:   func(c *config.Config) string { return c.Interpreter },
			set:   func(c *config.Config, v string) error { c.Interpreter = v; return nil },
		},
		{
			label: "Wrapper script",
			get:   func(c *config.Config) string { return c.ScriptPath },
			set:   func(c *config.Config, v string) error { c.ScriptPath = v; return nil },
		},
		{
			label: "Serial port",
			get:   func(c *config.Config) string { return c.SerialPort },
			set:   func(c *config.Config, v string) error { c.SerialPort = v; return nil },
		},
		{
			label: "Serial baud rate",
			get:   func(c *config.Config) string { return strconv.Itoa(c.SerialBaudRate) },
			set: func(c *config.Config, v string) error {
				n, err := strconv.Atoi(v)
				if err != nil || n <= 0 {
					return fmt.Errorf("baud rate must be a positive integer")
				}
				c.SerialBaudRate = n
				return nil
			},
		},
	}

	return &SettingsPage{cfg: cfg, workspaceRoot: workspaceRoot, fields: fields, input: ti}
}

func (p *SettingsPage) Init() tea.Cmd { return nil }

func (p *SettingsPage) Update(msg tea.Msg) (app.Page, tea.Cmd) {
	msgKey, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}

	if p.editing {
		switch msgKey.String() {
		case "enter":
			field := p.fields[p.cursor]
			if err := field.set(p.cfg, strings.TrimSpace(p.input.Value())); err != nil {
				p.message = ui.ErrorBadge("ERROR") + " " + err.Error()
			} else {
				p.message = field.label + " updated (unsaved)"
			}
			p.editing = false
			p.input.Blur()
			return p, nil
		case "esc":
			p.editing = false
			p.input.Blur()
			return p, nil
		}
		var cmd tea.Cmd
		p.input, cmd = p.input.Update(msgKey)
		return p, cmd
	}

	switch msgKey.String() {
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.fields)-1 {
			p.cursor++
		}
	case "enter", "e":
		field := p.fields[p.cursor]
		if field.toggle {
			field.set(p.cfg, "")
			p.message = field.label + " is now " + field.get(p.cfg) + " (unsaved)"
			return p, nil
		}
		p.editing = true
		p.input.SetValue(field.get(p.cfg))
		p.input.CursorEnd()
		p.input.Focus()
		return p, textinput.Blink
	case "s":
		if err := config.Save(*p.cfg, p.workspaceRoot, false); err != nil {
			p.message = ui.ErrorBadge("ERROR") + " save: " + err.Error()
		} else {
			p.message = ui.SuccessBadge("OK") + " saved to workspace config"
		}
	case "S":
		if err := config.Save(*p.cfg, p.workspaceRoot, true); err != nil {
			p.message = ui.ErrorBadge("ERROR") + " save: " + err.Error()
		} else {
			p.message = ui.SuccessBadge("OK") + " saved to global config"
		}
	}
	return p, nil
}

func (p *SettingsPage) View() string {
	var inner strings.Builder

	for i, field := range p.fields {
		marker := "  "
		if i == p.cursor {
			marker = ui.AccentStyle.Render("> ")
		}
		inner.WriteString(marker + ui.BoldStyle.Render(fmt.Sprintf("%-24s", field.label)))
		if p.editing && i == p.cursor {
			inner.WriteString(p.input.View())
		} else if v := field.get(p.cfg); v != "" {
			inner.WriteString(v)
		} else {
			inner.WriteString(ui.DimStyle.Render("(unset)"))
		}
		inner.WriteString("\n")
	}

	inner.WriteString("\n" + ui.DimStyle.Render("[enter] edit/toggle   [s] save workspace   [S] save global") + "\n")

	if p.message != "" {
		inner.WriteString("\n" + p.message + "\n")
	}

	return ui.Panel("Settings", inner.String(), p.width, 0, false)
}

func (p *SettingsPage) Name() string { return "Settings" }

func (p *SettingsPage) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", "select")),
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit")),
		key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
	}
}

func (p *SettingsPage) InputCaptured() bool { return p.editing }

func (p *SettingsPage) SetSize(w, h int) {
	p.width = w
	p.height = h
}
