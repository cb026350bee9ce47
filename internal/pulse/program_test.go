package pulse

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestProgramFileValidate(t *testing.T) {
	tests := []struct {
		name    string
		file    ProgramFile
		wantErr string
	}{
		{
			name: "instructions only",
			file: ProgramFile{Instructions: []Instruction{{Flags: FlagsWord(1), Opcode: OpStop, Duration: 1, Units: UnitNs}}},
		},
		{
			name: "patterns only",
			file: ProgramFile{Patterns: []Pattern{{Flags: FlagsWord(1), Duration: 1, Units: UnitMs}}},
		},
		{
			name: "both representations",
			file: ProgramFile{
				Instructions: []Instruction{{Flags: FlagsWord(1), Opcode: OpStop, Duration: 1, Units: UnitNs}},
				Patterns:     []Pattern{{Flags: FlagsWord(1), Duration: 1, Units: UnitMs}},
			},
			wantErr: "both",
		},
		{
			name:    "empty",
			file:    ProgramFile{},
			wantErr: "no instructions",
		},
		{
			name:    "unknown opcode",
			file:    ProgramFile{Instructions: []Instruction{{Flags: FlagsWord(1), Opcode: "SPIN", Duration: 1, Units: UnitNs}}},
			wantErr: "unknown opcode",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.file.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestProgramFileRepeatDefault(t *testing.T) {
	f := ProgramFile{Patterns: []Pattern{{Flags: FlagsWord(1), Duration: 1, Units: UnitMs}}}
	if err := f.Validate(); err != nil {
		t.Fatal(err)
	}
	if f.RepeatCount != 1 {
		t.Fatalf("repeat count = %d, want default 1", f.RepeatCount)
	}
}

func TestLoadProgramFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "program.json")
	data := `{"instructions": [
		{"flags": "all_on", "opcode": "CONTINUE", "data": 0, "duration": 500, "units": "us"},
		{"flags": 0, "opcode": "STOP", "data": 0, "duration": 100, "units": "ns"}
	]}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := LoadProgramFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(f.Instructions) != 2 {
		t.Fatalf("got %d instructions", len(f.Instructions))
	}
	if name, ok := f.Instructions[0].Flags.Name(); !ok || name != "all_on" {
		t.Fatalf("flags name = %q, %v", name, ok)
	}

	if _, err := LoadProgramFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("missing file must error")
	}
}
