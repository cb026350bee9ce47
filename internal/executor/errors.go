package executor

import (
	"fmt"
	"strings"
)

// ResolveError means no candidate in the search list passed its probe. It
// keeps every path that was attempted so packaging mistakes can be
// diagnosed from the message alone.
type ResolveError struct {
	Name      string
	Attempted []string
}

func (e *ResolveError) Error() string {
	if len(e.Attempted) == 0 {
		return fmt.Sprintf("no working %s found (no candidate locations)", e.Name)
	}
	return fmt.Sprintf("no working %s found; tried:\n  %s",
		e.Name, strings.Join(e.Attempted, "\n  "))
}

// SpawnError means a resolved executor could not be launched.
type SpawnError struct {
	Path string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to spawn %s: %v", e.Path, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// TransportError means the exchange with a running child failed, typically
// a write to its stdin after the child exited early.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("executor transport: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError means the child produced output that is not valid UTF-8, or
// not valid JSON where JSON is required.
type DecodeError struct {
	Output string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("undecodable executor output: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ExecError means the child exited non-zero. Stderr and stdout are carried
// verbatim for diagnosis.
type ExecError struct {
	ExitCode int
	Stderr   string
	Stdout   string
}

func (e *ExecError) Error() string {
	msg := fmt.Sprintf("executor exited with status %d", e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	if s := strings.TrimSpace(e.Stdout); s != "" {
		msg += "\noutput: " + s
	}
	return msg
}
