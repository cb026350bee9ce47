// Package pulse holds the typed data model for PulseBlaster programs:
// board configuration, timed instructions, simplified pulse patterns, and
// the structured results returned by the out-of-process executor. Pure
// data; all interpretation happens on the other side of the wire.
package pulse

// BoardConfig identifies and configures one timing board. Immutable once a
// session has been built around it; re-initializing creates a new one.
type BoardConfig struct {
	Board        int      `json:"board"`
	CoreClockMHz *float64 `json:"core_clock_MHz,omitempty"`
	Debug        bool     `json:"debug"`
}

// Opcode names understood by the SpinAPI instruction set. The bridge does
// not interpret them; they exist so the front end can offer valid choices.
const (
	OpContinue  = "CONTINUE"
	OpStop      = "STOP"
	OpLoop      = "LOOP"
	OpEndLoop   = "END_LOOP"
	OpJSR       = "JSR"
	OpRTS       = "RTS"
	OpBranch    = "BRANCH"
	OpLongDelay = "LONG_DELAY"
	OpWait      = "WAIT"
)

// Opcodes lists the known opcode names in instruction-set order.
func Opcodes() []string {
	return []string{
		OpContinue, OpStop, OpLoop, OpEndLoop,
		OpJSR, OpRTS, OpBranch, OpLongDelay, OpWait,
	}
}

// KnownOpcode reports whether name is one of the SpinAPI opcode names.
func KnownOpcode(name string) bool {
	for _, op := range Opcodes() {
		if op == name {
			return true
		}
	}
	return false
}

// Duration units accepted by the executor.
const (
	UnitNs = "ns"
	UnitUs = "us"
	UnitMs = "ms"
	UnitS  = "s"
)

// Instruction is one timed step of a hardware program. The ten DDS fields
// configure the two direct-digital-synthesis channels; they are either all
// absent or set per channel as the hardware profile requires, and the
// bridge passes them through without validating combinations.
type Instruction struct {
	Flags    Flags   `json:"flags"`
	Opcode   string  `json:"opcode"`
	Data     int     `json:"data"`
	Duration float64 `json:"duration"`
	Units    string  `json:"units"`

	Freq0       *int `json:"freq0,omitempty"`
	Phase0      *int `json:"phase0,omitempty"`
	Amp0        *int `json:"amp0,omitempty"`
	DDSEn0      *int `json:"dds_en0,omitempty"`
	PhaseReset0 *int `json:"phase_reset0,omitempty"`
	Freq1       *int `json:"freq1,omitempty"`
	Phase1      *int `json:"phase1,omitempty"`
	Amp1        *int `json:"amp1,omitempty"`
	DDSEn1      *int `json:"dds_en1,omitempty"`
	PhaseReset1 *int `json:"phase_reset1,omitempty"`
}

// Pattern is a simplified instruction for repeated simple waveforms: just
// flags and a duration, no opcode or DDS fields. A pattern sequence plus a
// repeat count is the alternate program representation.
type Pattern struct {
	Flags    Flags   `json:"flags"`
	Duration float64 `json:"duration"`
	Units    string  `json:"units"`
}
