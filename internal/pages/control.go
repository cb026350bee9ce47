package pages

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/spincore/pulseterm/internal/app"
	"github.com/spincore/pulseterm/internal/config"
	"github.com/spincore/pulseterm/internal/pulse"
	"github.com/spincore/pulseterm/internal/store"
	"github.com/spincore/pulseterm/internal/ui"
)

// ControlPage drives the board lifecycle: initialize, start, stop, reset,
// status, and wait-until-stopped.
type ControlPage struct {
	br    Bridge
	cfg   *config.Config
	store *store.Store

	busy         bool
	message      string
	lastStatus   *pulse.Result
	editTimeout  bool
	timeoutInput textinput.Model

	width, height int
}

func NewControlPage(br Bridge, cfg *config.Config, st *store.Store) *ControlPage {
	ti := textinput.New()
	ti.CharLimit = 8
	ti.SetValue("10")
	return &ControlPage{br: br, cfg: cfg, store: st, timeoutInput: ti}
}

func (p *ControlPage) Init() tea.Cmd { return nil }

func (p *ControlPage) Update(msg tea.Msg) (app.Page, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if p.editTimeout {
			switch msg.String() {
			case "enter", "esc":
				p.editTimeout = false
				p.timeoutInput.Blur()
				return p, nil
			}
			var cmd tea.Cmd
			p.timeoutInput, cmd = p.timeoutInput.Update(msg)
			return p, cmd
		}
		if p.busy {
			return p, nil
		}

		switch msg.String() {
		case "i":
			p.busy = true
			p.message = "initializing..."
			boardCfg := p.cfg.BoardConfig()
			execCfg := p.cfg.ExecutorConfig()
			return p, hardwareCmd("initialize", func() (*pulse.Result, error) {
				return p.br.Initialize(boardCfg, execCfg)
			})
		case "s":
			p.busy = true
			return p, hardwareCmd("start", p.br.Start)
		case "x":
			p.busy = true
			return p, hardwareCmd("stop", p.br.Stop)
		case "r":
			p.busy = true
			return p, hardwareCmd("reset", p.br.Reset)
		case "u":
			p.busy = true
			return p, hardwareCmd("status", p.br.Status)
		case "w":
			timeout, err := strconv.ParseFloat(p.timeoutInput.Value(), 64)
			if err != nil || timeout < 0 {
				p.message = ui.ErrorBadge("ERROR") + " invalid wait timeout"
				return p, nil
			}
			p.busy = true
			p.message = fmt.Sprintf("waiting up to %gs for stop...", timeout)
			return p, hardwareCmd("wait", func() (*pulse.Result, error) {
				return p.br.WaitUntilStopped(timeout)
			})
		case "t":
			p.editTimeout = true
			p.timeoutInput.Focus()
			return p, textinput.Blink
		}

	case app.HaltRequestMsg:
		// Global halt key. Issued even while busy: the holder serializes
		// the stop behind whatever operation is in flight.
		if !p.br.Initialized() {
			p.message = ui.ErrorBadge("ERROR") + " halt: no session"
			return p, nil
		}
		p.busy = true
		p.message = "halting..."
		return p, hardwareCmd("stop", p.br.Stop)

	case OpResultMsg:
		p.busy = false
		p.message = summarize(msg)
		p.recordRun(msg)
		if msg.Op == "status" || msg.Op == "initialize" {
			if msg.Res != nil {
				p.lastStatus = msg.Res
			}
		}
		if msg.Op == "wait" && msg.Res != nil {
			if msg.Res.IsStopped() {
				p.message += "  " + ui.SuccessStyle.Render("stopped")
			} else {
				p.message += "  " + ui.WarningStyle.Render("still running")
			}
		}
		if msg.Op == "initialize" && msg.Err == nil {
			return p, func() tea.Msg { return app.SessionChangedMsg{} }
		}
		return p, nil
	}
	return p, nil
}

// recordRun persists state transitions to history. Status reads are not
// recorded.
func (p *ControlPage) recordRun(msg OpResultMsg) {
	switch msg.Op {
	case "start", "stop", "reset", "wait":
	default:
		return
	}
	if p.store == nil {
		return
	}
	rec := store.RunRecord{
		Board:     p.cfg.Board,
		Action:    msg.Op,
		Timestamp: time.Now(),
		Success:   msg.Err == nil,
	}
	if msg.Err != nil {
		rec.Message = msg.Err.Error()
	} else if msg.Res != nil {
		rec.Message = msg.Res.Message
	}
	p.store.AddRun(rec)
}

func (p *ControlPage) View() string {
	var inner strings.Builder

	if p.br.Initialized() {
		if bc, ok := p.br.BoardConfig(); ok {
			clock := "default"
			if bc.CoreClockMHz != nil {
				clock = fmt.Sprintf("%.1f MHz", *bc.CoreClockMHz)
			}
			inner.WriteString(fmt.Sprintf("Session: board %d, clock %s\n", bc.Board, clock))
		}
	} else {
		inner.WriteString(ui.DimStyle.Render("No session. Press i to initialize.") + "\n")
	}

	if p.lastStatus != nil {
		inner.WriteString("\n")
		if len(p.lastStatus.HardwareStatus) > 0 {
			inner.WriteString(fmt.Sprintf("Status bits: %v\n", p.lastStatus.HardwareStatus))
		}
		if p.lastStatus.StatusMessage != "" {
			inner.WriteString("Hardware:    " + p.lastStatus.StatusMessage + "\n")
		}
	}

	inner.WriteString("\nWait timeout: ")
	if p.editTimeout {
		inner.WriteString(p.timeoutInput.View())
	} else {
		inner.WriteString(p.timeoutInput.Value() + "s" + ui.DimStyle.Render("  [t] edit"))
	}
	inner.WriteString("\n")

	if p.busy {
		inner.WriteString("\n" + ui.AccentStyle.Render("working...") + "\n")
	}
	if p.message != "" {
		inner.WriteString("\n" + p.message + "\n")
	}

	return ui.Panel("Control", inner.String(), p.width, 0, false)
}

func (p *ControlPage) Name() string { return "Control" }

func (p *ControlPage) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "initialize")),
		key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start")),
		key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "stop")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "status")),
		key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "wait")),
	}
}

func (p *ControlPage) InputCaptured() bool { return p.editTimeout }

func (p *ControlPage) SetSize(w, h int) {
	p.width = w
	p.height = h
}
