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

type registerKind int

const (
	freqRegisters registerKind = iota
	phaseRegisters
	ampRegisters
)

func (k registerKind) name() string {
	switch k {
	case phaseRegisters:
		return "phase"
	case ampRegisters:
		return "amp"
	default:
		return "freq"
	}
}

func (k registerKind) label() string {
	switch k {
	case phaseRegisters:
		return "Phase (degrees)"
	case ampRegisters:
		return "Amplitude (0.0-1.0)"
	default:
		return "Frequency (MHz)"
	}
}

// RegistersPage loads DDS register banks: frequency, phase, and
// amplitude, one comma-separated row each.
type RegistersPage struct {
	br    Bridge
	cfg   *config.Config
	store *store.Store

	inputs   [3]textinput.Model
	cursor   registerKind
	editing  bool
	busy     bool
	message  string
	assigned map[string][]int
	pending  []float64

	width, height int
}

func NewRegistersPage(br Bridge, cfg *config.Config, st *store.Store) *RegistersPage {
	p := &RegistersPage{
		br:       br,
		cfg:      cfg,
		store:    st,
		assigned: make(map[string][]int),
	}
	for i := range p.inputs {
		ti := textinput.New()
		ti.Placeholder = "e.g. 10.0, 20.5, 75.0"
		ti.CharLimit = 128
		p.inputs[i] = ti
	}
	return p
}

func (p *RegistersPage) Init() tea.Cmd { return nil }

func (p *RegistersPage) Update(msg tea.Msg) (app.Page, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if p.editing {
			switch msg.String() {
			case "enter", "esc":
				p.editing = false
				p.inputs[p.cursor].Blur()
				return p, nil
			}
			var cmd tea.Cmd
			p.inputs[p.cursor], cmd = p.inputs[p.cursor].Update(msg)
			return p, cmd
		}
		if p.busy {
			return p, nil
		}

		switch msg.String() {
		case "up", "k":
			if p.cursor > 0 {
				p.cursor--
			}
		case "down", "j":
			if p.cursor < ampRegisters {
				p.cursor++
			}
		case "e", "enter":
			p.editing = true
			p.inputs[p.cursor].Focus()
			return p, textinput.Blink
		case "p":
			return p, p.program(p.cursor)
		}

	case OpResultMsg:
		// Results are broadcast to every page; only the three register
		// banks belong here. Other "program ..." ops (the Program page's
		// instruction and pattern loads) must not be picked up.
		kind, ok := strings.CutPrefix(msg.Op, "program ")
		if !ok {
			return p, nil
		}
		switch kind {
		case freqRegisters.name(), phaseRegisters.name(), ampRegisters.name():
		default:
			return p, nil
		}
		p.busy = false
		p.message = summarize(msg)
		if msg.Err == nil && msg.Res != nil {
			p.assigned[kind] = msg.Res.Registers
		}
		p.record(kind, msg)
		return p, nil
	}
	return p, nil
}

func (p *RegistersPage) program(kind registerKind) tea.Cmd {
	values, err := parseValues(p.inputs[kind].Value())
	if err != nil {
		p.message = ui.ErrorBadge("ERROR") + " " + err.Error()
		return nil
	}

	var fn func([]float64) (*pulse.Result, error)
	switch kind {
	case phaseRegisters:
		fn = p.br.ProgramPhaseRegisters
	case ampRegisters:
		fn = p.br.ProgramAmpRegisters
	default:
		fn = p.br.ProgramFreqRegisters
	}

	p.busy = true
	p.pending = values
	return hardwareCmd("program "+kind.name(), func() (*pulse.Result, error) {
		return fn(values)
	})
}

func (p *RegistersPage) record(kind string, msg OpResultMsg) {
	if p.store == nil {
		return
	}
	rec := store.RegisterRecord{
		Board:     p.cfg.Board,
		Kind:      kind,
		Timestamp: time.Now(),
		Success:   msg.Err == nil,
		Values:    p.pending,
	}
	if msg.Res != nil {
		rec.Registers = msg.Res.Registers
	}
	p.store.AddRegisters(rec)
}

// parseValues splits a comma-separated list of floats. Blank entries from
// trailing commas are skipped.
func parseValues(s string) ([]float64, error) {
	var values []float64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("bad register value %q", part)
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("no register values entered")
	}
	return values, nil
}

func (p *RegistersPage) View() string {
	var inner strings.Builder

	for kind := freqRegisters; kind <= ampRegisters; kind++ {
		marker := "  "
		if kind == p.cursor {
			marker = ui.AccentStyle.Render("> ")
		}
		inner.WriteString(marker + ui.BoldStyle.Render(fmt.Sprintf("%-20s", kind.label())))
		if p.editing && kind == p.cursor {
			inner.WriteString(p.inputs[kind].View())
		} else if v := p.inputs[kind].Value(); v != "" {
			inner.WriteString(v)
		} else {
			inner.WriteString(ui.DimStyle.Render("(empty)"))
		}
		if ids, ok := p.assigned[kind.name()]; ok {
			inner.WriteString(ui.DimStyle.Render(fmt.Sprintf("  loaded as %v", ids)))
		}
		inner.WriteString("\n")
	}

	inner.WriteString("\n" + ui.DimStyle.Render("[e] edit row   [p] program row") + "\n")

	if p.busy {
		inner.WriteString("\n" + ui.AccentStyle.Render("programming registers...") + "\n")
	}
	if p.message != "" {
		inner.WriteString("\n" + p.message + "\n")
	}

	return ui.Panel("DDS Registers", inner.String(), p.width, 0, false)
}

func (p *RegistersPage) Name() string { return "Registers" }

func (p *RegistersPage) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", "select bank")),
		key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "program")),
	}
}

func (p *RegistersPage) InputCaptured() bool { return p.editing }

func (p *RegistersPage) SetSize(w, h int) {
	p.width = w
	p.height = h
}
