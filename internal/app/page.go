package app

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// PageID identifies each page in the application.
type PageID int

const (
	ControlPage PageID = iota
	ProgramPage
	RegistersPage
	MonitorPage
	HistoryPage
	SettingsPage
)

var PageOrder = []PageID{
	ControlPage,
	ProgramPage,
	RegistersPage,
	MonitorPage,
	HistoryPage,
	SettingsPage,
}

// Page is the interface every page in the application implements.
type Page interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Page, tea.Cmd)
	View() string
	Name() string
	ShortHelp() []key.Binding
	SetSize(width, height int)
}

// InputCapturer is an optional interface for pages with text inputs.
// When InputCaptured returns true, the app forwards all keys directly
// to the page instead of processing shortcuts like q, ?, left, etc.
type InputCapturer interface {
	InputCaptured() bool
}

// SessionChangedMsg is broadcast to all pages when a session is opened or
// replaced, so they can refresh board-dependent state.
type SessionChangedMsg struct{}

// HaltRequestMsg is broadcast when the global halt key is pressed; the
// page owning board control turns it into a stop operation.
type HaltRequestMsg struct{}
