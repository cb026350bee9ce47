package pages

import (
	"sync"

	"github.com/spincore/pulseterm/internal/bridge"
	"github.com/spincore/pulseterm/internal/pulse"
)

// fakeBridge records hardware calls and replies from a per-operation
// script.
type fakeBridge struct {
	mu      sync.Mutex
	calls   []string
	results map[string]*pulse.Result
	errs    map[string]error

	initialized bool
	boardCfg    pulse.BoardConfig

	lastInstructions []pulse.Instruction
	lastPatterns     []pulse.Pattern
	lastRepeat       uint
	lastValues       []float64
	lastTimeout      float64
}

func newFakeBridge() *fakeBridge {
	return &fakeBridge{
		results: make(map[string]*pulse.Result),
		errs:    make(map[string]error),
	}
}

func (f *fakeBridge) reply(op string) (*pulse.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, op)
	f.mu.Unlock()

	if err, ok := f.errs[op]; ok {
		return nil, err
	}
	if res, ok := f.results[op]; ok {
		return res, nil
	}
	return &pulse.Result{Status: pulse.StatusSuccess, Message: op + " ok"}, nil
}

func (f *fakeBridge) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeBridge) Initialize(cfg pulse.BoardConfig, _ bridge.ExecutorConfig) (*pulse.Result, error) {
	res, err := f.reply("initialize")
	if err == nil {
		f.initialized = true
		f.boardCfg = cfg
	}
	return res, err
}

func (f *fakeBridge) Program(instructions []pulse.Instruction) (*pulse.Result, error) {
	f.lastInstructions = instructions
	return f.reply("program")
}

func (f *fakeBridge) ProgramPattern(patterns []pulse.Pattern, repeat uint) (*pulse.Result, error) {
	f.lastPatterns = patterns
	f.lastRepeat = repeat
	return f.reply("program_pattern")
}

func (f *fakeBridge) Start() (*pulse.Result, error)  { return f.reply("start") }
func (f *fakeBridge) Stop() (*pulse.Result, error)   { return f.reply("stop") }
func (f *fakeBridge) Reset() (*pulse.Result, error)  { return f.reply("reset") }
func (f *fakeBridge) Status() (*pulse.Result, error) { return f.reply("status") }

func (f *fakeBridge) WaitUntilStopped(timeout float64) (*pulse.Result, error) {
	f.lastTimeout = timeout
	return f.reply("wait")
}

func (f *fakeBridge) ProgramFreqRegisters(values []float64) (*pulse.Result, error) {
	f.lastValues = values
	return f.reply("program_freq")
}

func (f *fakeBridge) ProgramPhaseRegisters(values []float64) (*pulse.Result, error) {
	f.lastValues = values
	return f.reply("program_phase")
}

func (f *fakeBridge) ProgramAmpRegisters(values []float64) (*pulse.Result, error) {
	f.lastValues = values
	return f.reply("program_amp")
}

func (f *fakeBridge) Initialized() bool { return f.initialized }

func (f *fakeBridge) BoardConfig() (pulse.BoardConfig, bool) {
	if !f.initialized {
		return pulse.BoardConfig{}, false
	}
	return f.boardCfg, true
}
