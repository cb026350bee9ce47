package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/spincore/pulseterm/internal/ui"
)

const sidebarWidth = 22 // 20 content + 2 border/padding

func renderBoardBar(board string, clock string, connected bool, width int) string {
	state := ui.DimStyle.Render("disconnected")
	if connected {
		state = ui.SuccessStyle.Render("connected")
	}
	content := fmt.Sprintf("Board: %s  Clock: %s  Session: %s", board, clock, state)
	return ui.StatusBarStyle.Width(width).Render(content)
}

func renderSidebar(pages []PageID, active PageID, pageMap map[PageID]Page, height int, focused bool) string {
	var b strings.Builder
	var title string
	if focused {
		title = ui.BoldStyle.Render("pulseterm [FOCUSED]")
	} else {
		title = ui.TitleStyle.Render("pulseterm")
	}
	b.WriteString(title)
	b.WriteString("\n\n")

	for _, id := range pages {
		p := pageMap[id]
		if id == active {
			b.WriteString(ui.SidebarActiveStyle.Render("▸ " + p.Name()))
		} else {
			b.WriteString(ui.SidebarItemStyle.Render("  " + p.Name()))
		}
		b.WriteString("\n")
	}

	style := ui.SidebarStyle.Height(height)
	if focused {
		style = style.BorderForeground(ui.Primary)
	}
	return style.Render(b.String())
}

func renderStatusBar(pageHelp []key.Binding, width int, focus FocusArea) string {
	var parts []string

	if focus == FocusSidebar {
		parts = append(parts,
			ui.StatusKey("↑/↓", "navigate"),
			ui.StatusKey("enter", "select"),
		)
	} else {
		for _, kb := range pageHelp {
			if kb.Enabled() {
				parts = append(parts, ui.StatusKey(kb.Help().Key, kb.Help().Desc))
			}
		}
	}

	parts = append(parts,
		ui.StatusKey("tab", "focus"),
		ui.StatusKey("ctrl+x", "halt"),
		ui.StatusKey("?", "help"),
		ui.StatusKey("q", "quit"),
	)

	line := strings.Join(parts, "  ")
	return ui.StatusBarStyle.Width(width).Render(line)
}

func renderLayout(boardBar, sidebar, content, statusBar string) string {
	main := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, content)
	return lipgloss.JoinVertical(lipgloss.Left, boardBar, main, statusBar)
}
