// Package pages implements the front-end dispatch layer: each page is a
// thin wrapper that turns key presses into hardware operations on the
// shared session holder and renders the structured results.
package pages

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/spincore/pulseterm/internal/bridge"
	"github.com/spincore/pulseterm/internal/pulse"
	"github.com/spincore/pulseterm/internal/ui"
)

// Bridge is the subset of the shared session holder the pages drive.
// Every method maps to exactly one hardware operation.
type Bridge interface {
	Initialize(pulse.BoardConfig, bridge.ExecutorConfig) (*pulse.Result, error)
	Program([]pulse.Instruction) (*pulse.Result, error)
	ProgramPattern([]pulse.Pattern, uint) (*pulse.Result, error)
	Start() (*pulse.Result, error)
	Stop() (*pulse.Result, error)
	Reset() (*pulse.Result, error)
	Status() (*pulse.Result, error)
	WaitUntilStopped(float64) (*pulse.Result, error)
	ProgramFreqRegisters([]float64) (*pulse.Result, error)
	ProgramPhaseRegisters([]float64) (*pulse.Result, error)
	ProgramAmpRegisters([]float64) (*pulse.Result, error)
	Initialized() bool
	BoardConfig() (pulse.BoardConfig, bool)
}

// OpResultMsg reports the outcome of one hardware operation. The
// operation blocks its own goroutine, never the update loop; the holder's
// lock serializes it against every other operation.
type OpResultMsg struct {
	Op  string
	Res *pulse.Result
	Err error
}

// hardwareCmd runs one hardware operation asynchronously.
func hardwareCmd(op string, fn func() (*pulse.Result, error)) tea.Cmd {
	return func() tea.Msg {
		res, err := fn()
		return OpResultMsg{Op: op, Res: res, Err: err}
	}
}

// summarize renders an operation outcome as a status line.
func summarize(msg OpResultMsg) string {
	if msg.Err != nil {
		return ui.ErrorBadge("ERROR") + " " + msg.Op + ": " + msg.Err.Error()
	}
	if msg.Res == nil {
		return ui.SuccessBadge("OK") + " " + msg.Op
	}
	var b strings.Builder
	switch msg.Res.Status {
	case pulse.StatusWarning:
		b.WriteString(ui.WarningBadge("WARN"))
	case pulse.StatusError:
		b.WriteString(ui.ErrorBadge("ERROR"))
	default:
		b.WriteString(ui.SuccessBadge("OK"))
	}
	b.WriteString(" " + msg.Op)
	if msg.Res.Message != "" {
		b.WriteString(": " + msg.Res.Message)
	}
	return b.String()
}
