package pulse

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestFlagsWordRoundTrip(t *testing.T) {
	orig := FlagsWord(0x15)

	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != "21" {
		t.Fatalf("expected bare number encoding, got %s", data)
	}

	var got Flags
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	w, ok := got.Word()
	if !ok {
		t.Fatal("expected word form after round trip")
	}
	if w != 0x15 {
		t.Fatalf("word = %#x, want 0x15", w)
	}
}

func TestFlagsNameRoundTrip(t *testing.T) {
	orig := FlagsName("all_on")

	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"all_on"` {
		t.Fatalf("expected string encoding, got %s", data)
	}

	var got Flags
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	name, ok := got.Name()
	if !ok {
		t.Fatal("expected name form after round trip")
	}
	if name != "all_on" {
		t.Fatalf("name = %q, want all_on", name)
	}
}

func TestFlagsListRoundTrip(t *testing.T) {
	orig := FlagsList(0, 3, 7)

	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != "[0,3,7]" {
		t.Fatalf("expected array encoding, got %s", data)
	}

	var got Flags
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	list, ok := got.List()
	if !ok {
		t.Fatal("expected list form after round trip")
	}
	if !reflect.DeepEqual(list, []uint32{0, 3, 7}) {
		t.Fatalf("list = %v, want [0 3 7]", list)
	}
}

func TestFlagsEmptyListStaysList(t *testing.T) {
	data, err := json.Marshal(FlagsList())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != "[]" {
		t.Fatalf("expected [], got %s", data)
	}

	var got Flags
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := got.List(); !ok {
		t.Fatal("empty list decoded to a different form")
	}
}

func TestFlagsUnsetMarshalFails(t *testing.T) {
	var f Flags
	if _, err := json.Marshal(f); err == nil {
		t.Fatal("expected error marshalling unset flags")
	}
}

func TestFlagsRejectsNull(t *testing.T) {
	var f Flags
	if err := json.Unmarshal([]byte("null"), &f); err == nil {
		t.Fatal("expected error decoding null flags")
	}
}
