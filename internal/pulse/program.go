package pulse

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ProgramFile is the on-disk form of a program: a full instruction
// sequence, or a pattern sequence with a repeat count. Exactly one of the
// two must be present.
type ProgramFile struct {
	Instructions []Instruction `json:"instructions,omitempty"`
	Patterns     []Pattern     `json:"patterns,omitempty"`
	RepeatCount  uint          `json:"repeat_count,omitempty"`
}

// Validate checks the file holds exactly one program representation and
// fills the repeat-count default for patterns.
func (f *ProgramFile) Validate() error {
	hasInstructions := len(f.Instructions) > 0
	hasPatterns := len(f.Patterns) > 0
	switch {
	case hasInstructions && hasPatterns:
		return errors.New("program file holds both instructions and patterns")
	case !hasInstructions && !hasPatterns:
		return errors.New("program file holds no instructions or patterns")
	}
	if hasPatterns && f.RepeatCount == 0 {
		f.RepeatCount = 1
	}
	for i, inst := range f.Instructions {
		if inst.Opcode != "" && !KnownOpcode(inst.Opcode) {
			return fmt.Errorf("instruction %d: unknown opcode %q", i, inst.Opcode)
		}
	}
	return nil
}

// LoadProgramFile reads and validates a program file.
func LoadProgramFile(path string) (*ProgramFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f ProgramFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &f, nil
}
