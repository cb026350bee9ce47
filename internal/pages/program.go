package pages

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wrap"

	"github.com/spincore/pulseterm/internal/app"
	"github.com/spincore/pulseterm/internal/config"
	"github.com/spincore/pulseterm/internal/pulse"
	"github.com/spincore/pulseterm/internal/store"
	"github.com/spincore/pulseterm/internal/ui"
)

// ProgramPage loads a program file from disk and sends it to the board as
// one atomic payload.
type ProgramPage struct {
	br    Bridge
	cfg   *config.Config
	store *store.Store

	pathInput textinput.Model
	editing   bool
	loaded    *pulse.ProgramFile
	source    string
	busy      bool
	message   string
	output    viewport.Model

	width, height int
}

func NewProgramPage(br Bridge, cfg *config.Config, st *store.Store) *ProgramPage {
	ti := textinput.New()
	ti.Placeholder = "path/to/program.json"
	ti.CharLimit = 256
	return &ProgramPage{
		br:        br,
		cfg:       cfg,
		store:     st,
		pathInput: ti,
		output:    viewport.New(0, 0),
	}
}

func (p *ProgramPage) Init() tea.Cmd { return nil }

func (p *ProgramPage) Update(msg tea.Msg) (app.Page, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if p.editing {
			switch msg.String() {
			case "enter":
				p.editing = false
				p.pathInput.Blur()
				p.load()
				return p, nil
			case "esc":
				p.editing = false
				p.pathInput.Blur()
				return p, nil
			}
			var cmd tea.Cmd
			p.pathInput, cmd = p.pathInput.Update(msg)
			return p, cmd
		}
		if p.busy {
			return p, nil
		}

		switch msg.String() {
		case "e", "o":
			p.editing = true
			p.pathInput.Focus()
			return p, textinput.Blink
		case "p", "enter":
			return p, p.program()
		}

	case OpResultMsg:
		if msg.Op != "program" && msg.Op != "program pattern" {
			return p, nil
		}
		p.busy = false
		p.message = summarize(msg)
		p.recordProgram(msg)
		p.showWarnings(msg)
		return p, nil
	}

	var cmd tea.Cmd
	p.output, cmd = p.output.Update(msg)
	return p, cmd
}

func (p *ProgramPage) load() {
	path := strings.TrimSpace(p.pathInput.Value())
	if path == "" {
		p.message = ui.ErrorBadge("ERROR") + " no file path"
		return
	}
	file, err := pulse.LoadProgramFile(path)
	if err != nil {
		p.loaded = nil
		p.message = ui.ErrorBadge("ERROR") + " " + err.Error()
		return
	}
	p.loaded = file
	p.source = path
	if n := len(file.Instructions); n > 0 {
		p.message = fmt.Sprintf("loaded %d instructions from %s", n, path)
	} else {
		p.message = fmt.Sprintf("loaded %d patterns (repeat %d) from %s",
			len(file.Patterns), file.RepeatCount, path)
	}
}

func (p *ProgramPage) program() tea.Cmd {
	if p.loaded == nil {
		p.message = ui.ErrorBadge("ERROR") + " load a program file first"
		return nil
	}
	p.busy = true
	file := p.loaded
	if len(file.Instructions) > 0 {
		return hardwareCmd("program", func() (*pulse.Result, error) {
			return p.br.Program(file.Instructions)
		})
	}
	return hardwareCmd("program pattern", func() (*pulse.Result, error) {
		return p.br.ProgramPattern(file.Patterns, file.RepeatCount)
	})
}

func (p *ProgramPage) recordProgram(msg OpResultMsg) {
	if p.store == nil || p.loaded == nil {
		return
	}
	rec := store.ProgramRecord{
		Board:        p.cfg.Board,
		Timestamp:    time.Now(),
		Success:      msg.Err == nil,
		Instructions: len(p.loaded.Instructions),
		Patterns:     len(p.loaded.Patterns),
		RepeatCount:  p.loaded.RepeatCount,
		Source:       p.source,
	}
	if msg.Res != nil {
		rec.Warnings = msg.Res.Warnings
		rec.Message = msg.Res.Message
	}
	if msg.Err != nil {
		rec.Message = msg.Err.Error()
	}
	p.store.AddProgram(rec)
}

func (p *ProgramPage) showWarnings(msg OpResultMsg) {
	if msg.Res == nil || len(msg.Res.Warnings) == 0 {
		p.output.SetContent("")
		return
	}
	var b strings.Builder
	b.WriteString(ui.WarningStyle.Render("Warnings:") + "\n")
	for _, w := range msg.Res.Warnings {
		b.WriteString("  • " + w + "\n")
	}
	width := p.output.Width
	if width <= 0 {
		width = 80
	}
	p.output.SetContent(wrap.String(b.String(), width))
}

func (p *ProgramPage) View() string {
	var inner strings.Builder

	inner.WriteString("File: ")
	if p.editing {
		inner.WriteString(p.pathInput.View())
	} else if v := p.pathInput.Value(); v != "" {
		inner.WriteString(v + ui.DimStyle.Render("  [e] edit"))
	} else {
		inner.WriteString(ui.DimStyle.Render("(none)  [e] edit"))
	}
	inner.WriteString("\n\n")

	if p.loaded != nil {
		if n := len(p.loaded.Instructions); n > 0 {
			inner.WriteString(fmt.Sprintf("Loaded: %d instructions\n", n))
			for i, inst := range p.loaded.Instructions {
				if i == 8 {
					inner.WriteString(ui.DimStyle.Render(fmt.Sprintf("  ... %d more\n", n-i)))
					break
				}
				inner.WriteString(fmt.Sprintf("  %2d  %-10s flags=%s  %g %s\n",
					i, inst.Opcode, inst.Flags.String(), inst.Duration, inst.Units))
			}
		} else {
			inner.WriteString(fmt.Sprintf("Loaded: %d patterns, repeat %d\n",
				len(p.loaded.Patterns), p.loaded.RepeatCount))
		}
	} else {
		inner.WriteString(ui.DimStyle.Render("No program loaded.") + "\n")
	}

	if p.busy {
		inner.WriteString("\n" + ui.AccentStyle.Render("programming...") + "\n")
	}
	if p.message != "" {
		inner.WriteString("\n" + p.message + "\n")
	}
	if p.output.TotalLineCount() > 0 {
		inner.WriteString("\n" + p.output.View() + "\n")
	}

	return ui.Panel("Program", inner.String(), p.width, 0, false)
}

func (p *ProgramPage) Name() string { return "Program" }

func (p *ProgramPage) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit path")),
		key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "program board")),
	}
}

func (p *ProgramPage) InputCaptured() bool { return p.editing }

func (p *ProgramPage) SetSize(w, h int) {
	p.width = w
	p.height = h
	p.output.Width = w - 6
	p.output.Height = h / 3
}
