package pages

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/spincore/pulseterm/internal/app"
	"github.com/spincore/pulseterm/internal/store"
	"github.com/spincore/pulseterm/internal/ui"
)

type historyTab int

const (
	runsTab historyTab = iota
	programsTab
	registersTab
)

// HistoryPage lists past hardware activity from the workspace history
// files, newest first.
type HistoryPage struct {
	store *store.Store

	tab      historyTab
	viewport viewport.Model
	err      error

	width, height int
}

func NewHistoryPage(st *store.Store) *HistoryPage {
	return &HistoryPage{store: st, viewport: viewport.New(0, 0)}
}

func (p *HistoryPage) Init() tea.Cmd { return nil }

func (p *HistoryPage) Update(msg tea.Msg) (app.Page, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "h":
			if p.tab > runsTab {
				p.tab--
				p.refresh()
			}
			return p, nil
		case "l":
			if p.tab < registersTab {
				p.tab++
				p.refresh()
			}
			return p, nil
		case "R":
			p.refresh()
			return p, nil
		}
	case OpResultMsg:
		// New activity may have been recorded.
		p.refresh()
		return p, nil
	}

	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return p, cmd
}

func (p *HistoryPage) refresh() {
	p.err = nil
	var lines []string
	switch p.tab {
	case programsTab:
		records, err := p.store.Programs()
		if err != nil {
			p.err = err
			break
		}
		for _, r := range records {
			what := fmt.Sprintf("%d instructions", r.Instructions)
			if r.Patterns > 0 {
				what = fmt.Sprintf("%d patterns x%d", r.Patterns, r.RepeatCount)
			}
			line := fmt.Sprintf("%s  board %d  %-24s %s",
				r.Timestamp.Format("2006-01-02 15:04:05"), r.Board, what, outcome(r.Success))
			if len(r.Warnings) > 0 {
				line += ui.WarningStyle.Render(fmt.Sprintf("  %d warning(s)", len(r.Warnings)))
			}
			lines = append(lines, line)
		}
	case registersTab:
		records, err := p.store.Registers()
		if err != nil {
			p.err = err
			break
		}
		for _, r := range records {
			lines = append(lines, fmt.Sprintf("%s  board %d  %-6s %v -> %v  %s",
				r.Timestamp.Format("2006-01-02 15:04:05"), r.Board, r.Kind,
				r.Values, r.Registers, outcome(r.Success)))
		}
	default:
		records, err := p.store.Runs()
		if err != nil {
			p.err = err
			break
		}
		for _, r := range records {
			line := fmt.Sprintf("%s  board %d  %-6s %s",
				r.Timestamp.Format("2006-01-02 15:04:05"), r.Board, r.Action, outcome(r.Success))
			if r.Message != "" {
				line += ui.DimStyle.Render("  " + r.Message)
			}
			lines = append(lines, line)
		}
	}

	// Newest first.
	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}
	if len(lines) == 0 {
		p.viewport.SetContent(ui.DimStyle.Render("No history yet."))
		return
	}
	p.viewport.SetContent(strings.Join(lines, "\n"))
	p.viewport.GotoTop()
}

func outcome(ok bool) string {
	if ok {
		return ui.SuccessStyle.Render("ok")
	}
	return ui.ErrorStyle.Render("failed")
}

func (p *HistoryPage) View() string {
	var inner strings.Builder

	tabs := []string{"Runs", "Programs", "Registers"}
	for i, name := range tabs {
		if historyTab(i) == p.tab {
			inner.WriteString(ui.BoldStyle.Render("[" + name + "]"))
		} else {
			inner.WriteString(ui.DimStyle.Render(" " + name + " "))
		}
		inner.WriteString("  ")
	}
	inner.WriteString("\n\n")

	if p.err != nil {
		inner.WriteString(ui.ErrorBadge("ERROR") + " " + p.err.Error() + "\n")
	} else {
		inner.WriteString(p.viewport.View() + "\n")
	}

	return ui.Panel("History", inner.String(), p.width, 0, false)
}

func (p *HistoryPage) Name() string { return "History" }

func (p *HistoryPage) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("h", "l"), key.WithHelp("h/l", "switch list")),
		key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "refresh")),
	}
}

func (p *HistoryPage) SetSize(w, h int) {
	p.width = w
	p.height = h
	p.viewport.Width = w - 6
	p.viewport.Height = h - 8
	if p.viewport.Height < 3 {
		p.viewport.Height = 3
	}
	p.refresh()
}
