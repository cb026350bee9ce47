package bridge

import (
	"errors"
	"sync"

	"github.com/spincore/pulseterm/internal/pulse"
)

// ErrNotInitialized is returned by every operation invoked before a
// successful Initialize. It is checked before any subprocess work starts.
var ErrNotInitialized = errors.New("pulseblaster not initialized")

// Holder is the process-wide slot for the active session. It starts
// empty, is populated by Initialize, replaced by a re-initialize, and
// lives for the process lifetime. Every read and write happens under one
// exclusive lock, so hardware operations against the single board are
// serialized by construction — a long wait call holds the lock and blocks
// everything else, deliberately.
type Holder struct {
	mu      sync.Mutex
	session *Session
	open    func(pulse.BoardConfig, ExecutorConfig) (*Session, *pulse.Result, error)
}

// NewHolder returns an empty holder using the standard Open path.
func NewHolder() *Holder {
	return &Holder{open: Open}
}

// Initialize resolves an executor, opens a new session, and installs it,
// replacing any previous one. The old session needs no teardown; it holds
// no process handles between calls.
func (h *Holder) Initialize(cfg pulse.BoardConfig, ec ExecutorConfig) (*pulse.Result, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, res, err := h.open(cfg, ec)
	if err != nil {
		return nil, err
	}
	h.session = s
	return res, nil
}

// Initialized reports whether a session is live.
func (h *Holder) Initialized() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.session != nil
}

// BoardConfig returns the live session's configuration.
func (h *Holder) BoardConfig() (pulse.BoardConfig, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.session == nil {
		return pulse.BoardConfig{}, false
	}
	return h.session.Config(), true
}

// with runs fn against the live session while holding the lock.
func (h *Holder) with(fn func(*Session) (*pulse.Result, error)) (*pulse.Result, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.session == nil {
		return nil, ErrNotInitialized
	}
	return fn(h.session)
}

// Program loads a full instruction sequence.
func (h *Holder) Program(instructions []pulse.Instruction) (*pulse.Result, error) {
	return h.with(func(s *Session) (*pulse.Result, error) { return s.Program(instructions) })
}

// ProgramPattern loads a pattern sequence with a repeat count.
func (h *Holder) ProgramPattern(patterns []pulse.Pattern, repeat uint) (*pulse.Result, error) {
	return h.with(func(s *Session) (*pulse.Result, error) { return s.ProgramPattern(patterns, repeat) })
}

// Start begins execution of the loaded program.
func (h *Holder) Start() (*pulse.Result, error) {
	return h.with((*Session).Start)
}

// Stop halts the running program.
func (h *Holder) Stop() (*pulse.Result, error) {
	return h.with((*Session).Stop)
}

// Reset returns the board to its power-on state.
func (h *Holder) Reset() (*pulse.Result, error) {
	return h.with((*Session).Reset)
}

// Status reads the hardware status.
func (h *Holder) Status() (*pulse.Result, error) {
	return h.with((*Session).Status)
}

// WaitUntilStopped blocks until the board stops or the timeout elapses.
func (h *Holder) WaitUntilStopped(timeoutSeconds float64) (*pulse.Result, error) {
	return h.with(func(s *Session) (*pulse.Result, error) { return s.WaitUntilStopped(timeoutSeconds) })
}

// ProgramFreqRegisters loads DDS frequency registers.
func (h *Holder) ProgramFreqRegisters(values []float64) (*pulse.Result, error) {
	return h.with(func(s *Session) (*pulse.Result, error) { return s.ProgramFreqRegisters(values) })
}

// ProgramPhaseRegisters loads DDS phase registers.
func (h *Holder) ProgramPhaseRegisters(values []float64) (*pulse.Result, error) {
	return h.with(func(s *Session) (*pulse.Result, error) { return s.ProgramPhaseRegisters(values) })
}

// ProgramAmpRegisters loads DDS amplitude registers.
func (h *Holder) ProgramAmpRegisters(values []float64) (*pulse.Result, error) {
	return h.with(func(s *Session) (*pulse.Result, error) { return s.ProgramAmpRegisters(values) })
}
