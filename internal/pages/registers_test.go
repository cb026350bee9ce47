package pages

import (
	"errors"
	"testing"

	"github.com/spincore/pulseterm/internal/config"
	"github.com/spincore/pulseterm/internal/pulse"
	"github.com/spincore/pulseterm/internal/store"
)

func TestParseValues(t *testing.T) {
	tests := []struct {
		in      string
		want    []float64
		wantErr bool
	}{
		{in: "10.0, 20.5, 75", want: []float64{10.0, 20.5, 75}},
		{in: "90,", want: []float64{90}},
		{in: "0.5", want: []float64{0.5}},
		{in: "", wantErr: true},
		{in: "10, ten", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseValues(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseValues(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseValues(%q): %v", tt.in, err)
			continue
		}
		if len(got) != len(tt.want) {
			t.Errorf("parseValues(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("parseValues(%q)[%d] = %g, want %g", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}

func TestRegistersPageProgramsSelectedBank(t *testing.T) {
	br := newFakeBridge()
	br.results["program_phase"] = &pulse.Result{Status: pulse.StatusSuccess, Registers: []int{0, 1}}
	cfg := config.Defaults()
	st := store.New(t.TempDir())
	p := NewRegistersPage(br, &cfg, st)

	p.cursor = phaseRegisters
	p.inputs[phaseRegisters].SetValue("90, 180")

	_, cmd := p.Update(keyMsg("p"))
	msg := runCmd(t, cmd)
	p.Update(msg)

	if log := br.callLog(); len(log) != 1 || log[0] != "program_phase" {
		t.Fatalf("calls = %v, want [program_phase]", log)
	}
	if len(br.lastValues) != 2 || br.lastValues[1] != 180 {
		t.Fatalf("values = %v", br.lastValues)
	}
	if ids := p.assigned["phase"]; len(ids) != 2 {
		t.Fatalf("assigned identifiers = %v", ids)
	}

	records, err := st.Registers()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Kind != "phase" || len(records[0].Values) != 2 {
		t.Fatalf("unexpected history: %+v", records)
	}
}

func TestRegistersPageRejectsBadInput(t *testing.T) {
	br := newFakeBridge()
	cfg := config.Defaults()
	p := NewRegistersPage(br, &cfg, nil)

	p.inputs[freqRegisters].SetValue("not a number")
	if _, cmd := p.Update(keyMsg("p")); cmd != nil {
		t.Fatal("bad input must not reach the bridge")
	}
	if len(br.callLog()) != 0 {
		t.Fatal("bridge called with unparseable values")
	}
}

func TestRegistersPageIgnoresOtherProgramOps(t *testing.T) {
	// Operation results are broadcast to every page; a pattern load
	// finishing on the Program page must not touch register state or
	// history.
	br := newFakeBridge()
	cfg := config.Defaults()
	st := store.New(t.TempDir())
	p := NewRegistersPage(br, &cfg, st)

	p.Update(OpResultMsg{Op: "program pattern", Res: &pulse.Result{Status: pulse.StatusSuccess, Message: "pattern sequence loaded"}})
	p.Update(OpResultMsg{Op: "program", Res: &pulse.Result{Status: pulse.StatusSuccess, Message: "program loaded"}})

	records, err := st.Registers()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Fatalf("registers history gained phantom records: %+v", records)
	}
	if len(p.assigned) != 0 {
		t.Fatalf("assigned banks = %v, want none", p.assigned)
	}
	if p.message != "" {
		t.Fatalf("message overwritten by foreign op: %q", p.message)
	}

	// A bank load in flight stays busy through a foreign result.
	p.inputs[freqRegisters].SetValue("10")
	_, cmd := p.Update(keyMsg("p"))
	p.Update(OpResultMsg{Op: "program pattern", Res: &pulse.Result{Status: pulse.StatusSuccess}})
	if !p.busy {
		t.Fatal("foreign result cleared the busy flag")
	}
	p.Update(runCmd(t, cmd))
	if p.busy {
		t.Fatal("own result should clear the busy flag")
	}
}

func TestRegistersPagePartialFailureKeepsEarlierBanks(t *testing.T) {
	// A failed amp load must not clear the freq identifiers already
	// assigned; loads are independent with no rollback.
	br := newFakeBridge()
	br.results["program_freq"] = &pulse.Result{Status: pulse.StatusSuccess, Registers: []int{0}}
	cfg := config.Defaults()
	p := NewRegistersPage(br, &cfg, store.New(t.TempDir()))

	p.inputs[freqRegisters].SetValue("10")
	_, cmd := p.Update(keyMsg("p"))
	p.Update(runCmd(t, cmd))

	br.errs["program_amp"] = errAmpFailed
	p.cursor = ampRegisters
	p.inputs[ampRegisters].SetValue("0.5")
	_, cmd = p.Update(keyMsg("p"))
	p.Update(runCmd(t, cmd))

	if ids := p.assigned["freq"]; len(ids) != 1 {
		t.Fatalf("freq identifiers lost after amp failure: %v", p.assigned)
	}
	if _, ok := p.assigned["amp"]; ok {
		t.Fatal("failed amp load must not record identifiers")
	}
}

var errAmpFailed = errors.New("amplitude registers rejected")
