// Package executor locates and drives the out-of-process PulseBlaster
// executor. Two transports satisfy the same Execute contract: a compiled
// CLI taking a subcommand plus a JSON payload on stdin, and an interpreter
// running a per-call generated wrapper script. Every call is one child
// process, attempted exactly once, with the caller blocked until it exits.
package executor

import (
	"bytes"
	"encoding/json"
	"os/exec"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spincore/pulseterm/internal/logging"
	"github.com/spincore/pulseterm/internal/pulse"
)

// Executor runs one hardware command out of process and returns its
// structured result.
type Executor interface {
	Execute(command string, payload any) (*pulse.Result, error)
}

// CLI is the compiled-executable transport: the command becomes a
// subcommand argument and the payload, when present, is the sole JSON blob
// written to the child's stdin.
type CLI struct {
	Path string
}

func (c *CLI) Execute(command string, payload any) (*pulse.Result, error) {
	out, err := run(c.Path, []string{command}, payload)
	if err != nil {
		return nil, err
	}
	return parseLooseResult(out), nil
}

// run spawns path with args, writes the payload to stdin, closes it, and
// blocks until the child exits. Failures map onto the bridge error
// taxonomy: SpawnError, TransportError, ExecError, DecodeError.
func run(path string, args []string, payload any) (string, error) {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return "", &TransportError{Op: "encode payload", Err: err}
		}
	}

	cmd := exec.Command(path, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return "", &TransportError{Op: "open stdin pipe", Err: err}
	}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return "", &SpawnError{Path: path, Err: err}
	}

	var writeErr error
	if len(body) > 0 {
		_, writeErr = stdin.Write(body)
	}
	// Close stdin either way so the child sees end-of-input and does not
	// block waiting for more.
	if cerr := stdin.Close(); writeErr == nil {
		writeErr = cerr
	}

	waitErr := cmd.Wait()
	logging.L().Debug().
		Str("path", path).
		Strs("args", args).
		Dur("took", time.Since(start)).
		Msg("executor call finished")

	if exitErr, ok := waitErr.(*exec.ExitError); ok {
		return "", &ExecError{
			ExitCode: exitErr.ExitCode(),
			Stderr:   stderr.String(),
			Stdout:   stdout.String(),
		}
	}
	if waitErr != nil {
		return "", &TransportError{Op: "wait for exit", Err: waitErr}
	}
	if writeErr != nil {
		return "", &TransportError{Op: "write payload", Err: writeErr}
	}

	if !utf8.Valid(stdout.Bytes()) {
		return "", &DecodeError{Output: stdout.String(), Err: errInvalidUTF8}
	}
	return stdout.String(), nil
}

// parseLooseResult maps CLI output to a result. The compiled CLI replies
// with JSON for structured commands and plain text for simple ones, so a
// non-JSON body becomes a plain success message.
func parseLooseResult(out string) *pulse.Result {
	var res pulse.Result
	if err := json.Unmarshal([]byte(out), &res); err == nil && res.Status != "" {
		return &res
	}
	return &pulse.Result{
		Status:  pulse.StatusSuccess,
		Message: strings.TrimSpace(out),
	}
}

// parseStrictResult maps interpreter-script output, which must be exactly
// one JSON result object on stdout.
func parseStrictResult(out string) (*pulse.Result, error) {
	var res pulse.Result
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &res); err != nil {
		return nil, &DecodeError{Output: out, Err: err}
	}
	return &res, nil
}

var errInvalidUTF8 = &invalidUTF8Error{}

type invalidUTF8Error struct{}

func (*invalidUTF8Error) Error() string { return "output is not valid UTF-8" }
