// Package bridge holds the in-process side of the hardware control path:
// a Session wrapping one initialized board connection, and the
// process-wide Holder that serializes every hardware operation against it.
package bridge

import (
	"fmt"

	"github.com/spincore/pulseterm/internal/executor"
	"github.com/spincore/pulseterm/internal/logging"
	"github.com/spincore/pulseterm/internal/pulse"
)

// ExecutorConfig selects and locates the out-of-process executor for a
// session.
type ExecutorConfig struct {
	// UseBinary switches to the compiled CLI transport; otherwise the
	// interpreter-script transport is used.
	UseBinary   bool
	BinaryName  string
	Interpreter string
	ScriptPath  string
	Env         executor.Env
}

// Session owns one initialized connection to a board: its immutable
// configuration and the resolved executor. All hardware operations are a
// single out-of-process call, attempted exactly once.
type Session struct {
	cfg  pulse.BoardConfig
	exec executor.Executor
}

// NewSession wraps an already-resolved executor. Open is the normal
// entry point; this one exists for wiring substitutes in tests.
func NewSession(cfg pulse.BoardConfig, exec executor.Executor) *Session {
	return &Session{cfg: cfg, exec: exec}
}

// Open resolves an executor for cfg, builds the matching transport, and
// probes it with a status call so a session is only handed out once the
// hardware is confirmed reachable. Resolution runs fresh on every Open; a
// re-initialize may target a different board or script.
func Open(cfg pulse.BoardConfig, ec ExecutorConfig) (*Session, *pulse.Result, error) {
	var exe executor.Executor
	if ec.UseBinary {
		path, err := executor.ResolveBinary(ec.Env, ec.BinaryName)
		if err != nil {
			return nil, nil, err
		}
		exe = &executor.CLI{Path: path}
	} else {
		path, err := executor.ResolveInterpreter(ec.Env, ec.Interpreter, ec.ScriptPath)
		if err != nil {
			return nil, nil, err
		}
		exe = &executor.Script{Interpreter: path, Wrapper: ec.ScriptPath, Config: cfg}
	}

	s := NewSession(cfg, exe)
	res, err := s.Status()
	if err != nil {
		return nil, nil, err
	}
	logging.L().Info().Int("board", cfg.Board).Msg("session opened")
	return s, res, nil
}

// Config returns the board configuration the session was opened with.
func (s *Session) Config() pulse.BoardConfig {
	return s.cfg
}

// programPayload is the wire shape of a full-program load. The whole
// sequence goes in one payload so the executor can validate it atomically
// against the running program.
type programPayload struct {
	Board        int                 `json:"board"`
	CoreClockMHz *float64            `json:"coreClockMHz,omitempty"`
	Debug        bool                `json:"debug"`
	Program      []pulse.Instruction `json:"program,omitempty"`
	Patterns     []pulse.Pattern     `json:"patterns,omitempty"`
	RepeatCount  uint                `json:"repeat_count,omitempty"`
}

// Program loads a full instruction sequence. A warning status still means
// the program is loaded; the warnings ride along on the result.
func (s *Session) Program(instructions []pulse.Instruction) (*pulse.Result, error) {
	return s.call("run", &programPayload{
		Board:        s.cfg.Board,
		CoreClockMHz: s.cfg.CoreClockMHz,
		Debug:        s.cfg.Debug,
		Program:      instructions,
	})
}

// ProgramPattern loads a simplified pattern sequence repeated repeat
// times.
func (s *Session) ProgramPattern(patterns []pulse.Pattern, repeat uint) (*pulse.Result, error) {
	return s.call("run_pattern", &programPayload{
		Board:        s.cfg.Board,
		CoreClockMHz: s.cfg.CoreClockMHz,
		Debug:        s.cfg.Debug,
		Patterns:     patterns,
		RepeatCount:  repeat,
	})
}

// Start begins execution of the loaded program.
func (s *Session) Start() (*pulse.Result, error) {
	return s.call("start", nil)
}

// Stop halts the running program.
func (s *Session) Stop() (*pulse.Result, error) {
	return s.call("stop", nil)
}

// Reset returns the board to its power-on state.
func (s *Session) Reset() (*pulse.Result, error) {
	return s.call("reset", nil)
}

// Status reads the hardware status bits and status text.
func (s *Session) Status() (*pulse.Result, error) {
	return s.call("status", nil)
}

// WaitUntilStopped blocks, inside the external process, until the board
// reaches the stopped state or timeoutSeconds elapses. An elapsed timeout
// is not an error; the result's stopped flag is simply false.
func (s *Session) WaitUntilStopped(timeoutSeconds float64) (*pulse.Result, error) {
	return s.call("wait", map[string]float64{"timeout_s": timeoutSeconds})
}

// ProgramFreqRegisters loads DDS frequency registers and returns the
// assigned register identifiers on the result.
func (s *Session) ProgramFreqRegisters(values []float64) (*pulse.Result, error) {
	return s.call("program_freq", registerPayload(values))
}

// ProgramPhaseRegisters loads DDS phase registers.
func (s *Session) ProgramPhaseRegisters(values []float64) (*pulse.Result, error) {
	return s.call("program_phase", registerPayload(values))
}

// ProgramAmpRegisters loads DDS amplitude registers.
func (s *Session) ProgramAmpRegisters(values []float64) (*pulse.Result, error) {
	return s.call("program_amp", registerPayload(values))
}

func registerPayload(values []float64) map[string][]float64 {
	return map[string][]float64{"values": values}
}

// call runs one command through the executor. Executor errors pass through
// verbatim; an error-status result becomes an error carrying the
// executor's message, with the result still returned for inspection.
func (s *Session) call(command string, payload any) (*pulse.Result, error) {
	res, err := s.exec.Execute(command, payload)
	if err != nil {
		logging.L().Error().Str("command", command).Err(err).Msg("hardware call failed")
		return nil, err
	}
	if !res.OK() {
		logging.L().Error().Str("command", command).Str("message", res.Message).Msg("executor reported error")
		return res, fmt.Errorf("%s failed: %s", command, res.Message)
	}
	return res, nil
}
