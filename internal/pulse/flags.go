package pulse

import (
	"encoding/json"
	"fmt"
	"strings"
)

type flagsKind int

const (
	flagsUnset flagsKind = iota
	flagsWord
	flagsName
	flagsList
)

// Flags is the output-flag specification of an instruction. The hardware
// wrapper accepts three equivalent forms: a single flag word, a symbolic
// name, or an explicit list of channel numbers. Exactly one form is set;
// the executor, not the bridge, decides what each form means.
type Flags struct {
	kind flagsKind
	word uint32
	name string
	list []uint32
}

// FlagsWord builds a Flags holding a single flag word.
func FlagsWord(w uint32) Flags {
	return Flags{kind: flagsWord, word: w}
}

// FlagsName builds a Flags holding a symbolic flag name.
func FlagsName(name string) Flags {
	return Flags{kind: flagsName, name: name}
}

// FlagsList builds a Flags holding an ordered list of channel numbers.
func FlagsList(channels ...uint32) Flags {
	if channels == nil {
		channels = []uint32{}
	}
	return Flags{kind: flagsList, list: channels}
}

// Word returns the flag word and whether that form is set.
func (f Flags) Word() (uint32, bool) {
	return f.word, f.kind == flagsWord
}

// Name returns the symbolic name and whether that form is set.
func (f Flags) Name() (string, bool) {
	return f.name, f.kind == flagsName
}

// List returns the channel list and whether that form is set.
func (f Flags) List() ([]uint32, bool) {
	return f.list, f.kind == flagsList
}

// IsZero reports whether no form has been set.
func (f Flags) IsZero() bool {
	return f.kind == flagsUnset
}

// String renders the flags for display.
func (f Flags) String() string {
	switch f.kind {
	case flagsWord:
		return fmt.Sprintf("0x%x", f.word)
	case flagsName:
		return f.name
	case flagsList:
		parts := make([]string, len(f.list))
		for i, ch := range f.list {
			parts[i] = fmt.Sprintf("%d", ch)
		}
		return "[" + strings.Join(parts, ",") + "]"
	default:
		return "(unset)"
	}
}

// MarshalJSON encodes each form to its natural JSON shape: a number, a
// string, or an array. The three shapes never collide, so decoding is
// unambiguous.
func (f Flags) MarshalJSON() ([]byte, error) {
	switch f.kind {
	case flagsWord:
		return json.Marshal(f.word)
	case flagsName:
		return json.Marshal(f.name)
	case flagsList:
		return json.Marshal(f.list)
	default:
		return nil, fmt.Errorf("flags: no form set")
	}
}

// UnmarshalJSON decodes a number, string, or array back into the
// corresponding form.
func (f *Flags) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return fmt.Errorf("flags: empty value")
	}
	switch trimmed[0] {
	case '"':
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*f = FlagsName(name)
	case '[':
		var list []uint32
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*f = FlagsList(list...)
	default:
		var word uint32
		if err := json.Unmarshal(data, &word); err != nil {
			return fmt.Errorf("flags: %w", err)
		}
		*f = FlagsWord(word)
	}
	return nil
}
