package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/spincore/pulseterm/internal/app"
	"github.com/spincore/pulseterm/internal/bridge"
	"github.com/spincore/pulseterm/internal/config"
	"github.com/spincore/pulseterm/internal/logging"
	"github.com/spincore/pulseterm/internal/pages"
	"github.com/spincore/pulseterm/internal/serial"
	"github.com/spincore/pulseterm/internal/store"
)

func main() {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg := config.Load(cwd)
	st := store.New(filepath.Join(cwd, ".pulseterm"))

	if logsDir, err := st.LogsDir(); err == nil {
		logging.Setup(logsDir, cfg.Debug)
	}

	holder := bridge.NewHolder()
	monitor := serial.NewMonitor()
	defer monitor.Disconnect()

	pageMap := map[app.PageID]app.Page{
		app.ControlPage:   pages.NewControlPage(holder, &cfg, st),
		app.ProgramPage:   pages.NewProgramPage(holder, &cfg, st),
		app.RegistersPage: pages.NewRegistersPage(holder, &cfg, st),
		app.MonitorPage:   pages.NewMonitorPage(&cfg, monitor),
		app.HistoryPage:   pages.NewHistoryPage(st),
		app.SettingsPage:  pages.NewSettingsPage(&cfg, cwd),
	}

	model := app.New(pageMap, holder, &cfg)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
