package pages

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/spincore/pulseterm/internal/app"
	"github.com/spincore/pulseterm/internal/config"
	"github.com/spincore/pulseterm/internal/pulse"
	"github.com/spincore/pulseterm/internal/store"
)

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func enterMsg() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyEnter}
}

func runCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	return cmd()
}

func TestControlPageInitialize(t *testing.T) {
	br := newFakeBridge()
	cfg := config.Defaults()
	cfg.Board = 2
	p := NewControlPage(br, &cfg, store.New(t.TempDir()))

	_, cmd := p.Update(keyMsg("i"))
	msg := runCmd(t, cmd)

	res, ok := msg.(OpResultMsg)
	if !ok {
		t.Fatalf("expected OpResultMsg, got %T", msg)
	}
	if res.Op != "initialize" || res.Err != nil {
		t.Fatalf("unexpected result: %+v", res)
	}
	if !br.initialized || br.boardCfg.Board != 2 {
		t.Fatalf("bridge initialized with %+v", br.boardCfg)
	}

	// A successful initialize broadcasts the session change.
	_, cmd = p.Update(res)
	broadcast := runCmd(t, cmd)
	if _, ok := broadcast.(app.SessionChangedMsg); !ok {
		t.Fatalf("expected SessionChangedMsg, got %T", broadcast)
	}
}

func TestControlPageBusyBlocksKeys(t *testing.T) {
	br := newFakeBridge()
	cfg := config.Defaults()
	p := NewControlPage(br, &cfg, nil)

	_, cmd := p.Update(keyMsg("s"))
	if cmd == nil {
		t.Fatal("start should issue a command")
	}
	// Busy until the result lands: further keys are ignored.
	if _, cmd := p.Update(keyMsg("x")); cmd != nil {
		t.Fatal("keys while busy must be ignored")
	}

	p.Update(runCmd(t, cmd))
	if _, cmd := p.Update(keyMsg("x")); cmd == nil {
		t.Fatal("keys after the result must work again")
	}
}

func TestControlPageWaitRendersStopState(t *testing.T) {
	stopped := true
	br := newFakeBridge()
	br.results["wait"] = &pulse.Result{Status: pulse.StatusSuccess, Message: "wait finished", Stopped: &stopped}
	cfg := config.Defaults()
	p := NewControlPage(br, &cfg, store.New(t.TempDir()))

	_, cmd := p.Update(keyMsg("w"))
	msg := runCmd(t, cmd)
	p.Update(msg)

	if br.lastTimeout != 10 {
		t.Fatalf("default timeout = %g, want 10", br.lastTimeout)
	}
	if !strings.Contains(p.message, "stopped") {
		t.Fatalf("message %q should report the stop state", p.message)
	}
}

func TestControlPageInvalidTimeoutRejected(t *testing.T) {
	br := newFakeBridge()
	cfg := config.Defaults()
	p := NewControlPage(br, &cfg, nil)

	p.timeoutInput.SetValue("-3")
	if _, cmd := p.Update(keyMsg("w")); cmd != nil {
		t.Fatal("negative timeout must not reach the bridge")
	}
	if len(br.callLog()) != 0 {
		t.Fatal("bridge called with invalid timeout")
	}
}

func TestControlPageHaltRequestStopsBoard(t *testing.T) {
	br := newFakeBridge()
	cfg := config.Defaults()
	st := store.New(t.TempDir())
	p := NewControlPage(br, &cfg, st)

	// No session yet: halt must not reach the bridge.
	if _, cmd := p.Update(app.HaltRequestMsg{}); cmd != nil {
		t.Fatal("halt without a session must not issue a command")
	}

	_, cmd := p.Update(keyMsg("i"))
	p.Update(runCmd(t, cmd))

	// Halt fires even while another operation is in flight.
	_, cmd = p.Update(keyMsg("u"))
	statusResult := runCmd(t, cmd)
	_, haltCmd := p.Update(app.HaltRequestMsg{})
	stopResult := runCmd(t, haltCmd)

	res, ok := stopResult.(OpResultMsg)
	if !ok || res.Op != "stop" {
		t.Fatalf("halt produced %+v, want a stop result", stopResult)
	}
	log := br.callLog()
	if log[len(log)-1] != "stop" {
		t.Fatalf("calls = %v, want stop last", log)
	}

	p.Update(statusResult)
	p.Update(stopResult)
	runs, err := st.Runs()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].Action != "stop" {
		t.Fatalf("halt not recorded as a stop: %+v", runs)
	}
}

func TestControlPageRecordsRunHistory(t *testing.T) {
	br := newFakeBridge()
	cfg := config.Defaults()
	cfg.Board = 1
	st := store.New(t.TempDir())
	p := NewControlPage(br, &cfg, st)

	_, cmd := p.Update(keyMsg("s"))
	p.Update(runCmd(t, cmd))

	// Status reads are not recorded.
	_, cmd = p.Update(keyMsg("u"))
	p.Update(runCmd(t, cmd))

	runs, err := st.Runs()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d run records, want 1", len(runs))
	}
	if runs[0].Action != "start" || runs[0].Board != 1 || !runs[0].Success {
		t.Fatalf("unexpected record: %+v", runs[0])
	}
}
