package executor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/spincore/pulseterm/internal/pulse"
)

// Script is the interpreter transport: each call generates a small wrapper
// script, writes it to a temp file, and invokes the interpreter on it. The
// board configuration is embedded in the script; the payload travels on
// stdin. The script prints exactly one JSON result object on stdout and
// keeps diagnostics on stderr.
type Script struct {
	Interpreter string // resolved interpreter path
	Wrapper     string // path to the pulseblaster wrapper script
	Config      pulse.BoardConfig
}

func (s *Script) Execute(command string, payload any) (*pulse.Result, error) {
	body, ok := scriptBodies[command]
	if !ok {
		return nil, fmt.Errorf("executor: no script body for command %q", command)
	}

	text, err := renderScript(s.Wrapper, s.Config, body)
	if err != nil {
		return nil, err
	}

	file, err := os.CreateTemp("", "pulseterm-*.py")
	if err != nil {
		return nil, &TransportError{Op: "create script file", Err: err}
	}
	defer os.Remove(file.Name())

	if _, err := file.WriteString(text); err != nil {
		file.Close()
		return nil, &TransportError{Op: "write script file", Err: err}
	}
	if err := file.Close(); err != nil {
		return nil, &TransportError{Op: "write script file", Err: err}
	}

	out, err := run(s.Interpreter, []string{file.Name()}, payload)
	if err != nil {
		return nil, err
	}
	return parseStrictResult(out)
}

// scriptTemplate is the shell of every generated script. WrapperDir and
// ConfigJSON are pre-escaped Python string literals; Body is an
// already-indented snippet that sets `result` using the open handle `pb`.
var scriptTemplate = template.Must(template.New("script").Parse(`import json
import sys

sys.path.insert(0, {{.WrapperDir}})
from pulseblaster import PulseBlaster, PBInstruction

config = json.loads({{.ConfigJSON}})

payload = None
raw = sys.stdin.read()
if raw.strip():
    payload = json.loads(raw)

try:
    with PulseBlaster(**config) as pb:
{{.Body}}
except Exception as exc:
    result = {"status": "error", "message": str(exc)}

sys.stdout.write(json.dumps(result))
`))

// renderScript assembles the per-call script. Every embedded value goes
// through pyLiteral, so quotes and backslashes in paths or config fields
// cannot break out of the embedding context.
func renderScript(wrapper string, cfg pulse.BoardConfig, body string) (string, error) {
	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return "", &TransportError{Op: "encode board config", Err: err}
	}
	wrapperDir, err := pyLiteral(filepath.Dir(wrapper))
	if err != nil {
		return "", err
	}
	cfgLiteral, err := pyLiteral(string(cfgJSON))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	err = scriptTemplate.Execute(&b, struct {
		WrapperDir string
		ConfigJSON string
		Body       string
	}{
		WrapperDir: wrapperDir,
		ConfigJSON: cfgLiteral,
		Body:       indent(body, "        "),
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

// pyLiteral serializes s as a quoted string literal. JSON string escaping
// is a subset of Python's, so the marshalled form is a valid Python
// literal with every special character escaped.
func pyLiteral(s string) (string, error) {
	lit, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(lit), nil
}

func indent(body, prefix string) string {
	lines := strings.Split(strings.Trim(body, "\n"), "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

// scriptBodies holds the command-specific snippet for each hardware
// operation. Each runs with `pb` open and `payload` decoded, and must
// assign `result`.
var scriptBodies = map[string]string{
	"status": `
bits = pb.status_bits()
result = {
    "status": "success",
    "message": "hardware reachable",
    "hardware_status": bits,
    "status_message": pb.status_text(),
}`,

	"run": `
program = [PBInstruction(**inst) for inst in payload["program"]]
warnings = pb.program_instructions(program)
result = {
    "status": "warning" if warnings else "success",
    "message": "program loaded (%d instructions)" % len(program),
    "warnings": warnings,
}`,

	"run_pattern": `
warnings = pb.program_pulse_sequence(payload["patterns"], payload["repeat_count"])
result = {
    "status": "warning" if warnings else "success",
    "message": "pattern sequence loaded",
    "warnings": warnings,
}`,

	"start": `
pb.start()
result = {"status": "success", "message": "pulse program started"}`,

	"stop": `
pb.stop()
result = {"status": "success", "message": "pulse program stopped"}`,

	"reset": `
pb.reset()
result = {"status": "success", "message": "board reset"}`,

	"wait": `
stopped = pb.wait_until_stopped(payload["timeout_s"])
result = {
    "status": "success",
    "message": "wait finished",
    "stopped": bool(stopped),
}`,

	"program_freq": `
regs = pb.program_freq_registers(payload["values"])
result = {
    "status": "success",
    "message": "frequency registers programmed",
    "registers": regs,
}`,

	"program_phase": `
regs = pb.program_phase_registers(payload["values"])
result = {
    "status": "success",
    "message": "phase registers programmed",
    "registers": regs,
}`,

	"program_amp": `
regs = pb.program_amplitude_registers(payload["values"])
result = {
    "status": "success",
    "message": "amplitude registers programmed",
    "registers": regs,
}`,
}
