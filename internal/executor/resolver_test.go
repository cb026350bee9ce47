package executor

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func fakeExe(t *testing.T, path string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func noLookPath(string) (string, error) {
	return "", errors.New("not on PATH")
}

func TestResolveSelectsNthCandidateAndStopsProbing(t *testing.T) {
	tmp := t.TempDir()
	paths := []string{
		fakeExe(t, filepath.Join(tmp, "a")),
		fakeExe(t, filepath.Join(tmp, "b")),
		fakeExe(t, filepath.Join(tmp, "c")),
	}

	var candidates []candidate
	for _, p := range paths {
		candidates = append(candidates, candidate{p, statCandidate(p)})
	}

	var probed []string
	probe := func(path string) error {
		probed = append(probed, path)
		if path == paths[1] {
			return nil
		}
		return errors.New("probe failed")
	}

	got, err := resolve("thing", candidates, probe)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != paths[1] {
		t.Fatalf("resolved %q, want %q", got, paths[1])
	}
	if len(probed) != 2 {
		t.Fatalf("probed %v, want exactly the first two candidates", probed)
	}
}

func TestResolveErrorListsEveryAttemptedPath(t *testing.T) {
	tmp := t.TempDir()
	missing := filepath.Join(tmp, "missing")
	present := fakeExe(t, filepath.Join(tmp, "present"))

	candidates := []candidate{
		{"missing", statCandidate(missing)},
		{"present", statCandidate(present)},
	}

	_, err := resolve("thing", candidates, func(string) error {
		return errors.New("probe failed")
	})
	if err == nil {
		t.Fatal("expected resolution failure")
	}

	var re *ResolveError
	if !errors.As(err, &re) {
		t.Fatalf("expected *ResolveError, got %T", err)
	}
	if len(re.Attempted) != 2 {
		t.Fatalf("attempted = %v, want both paths recorded", re.Attempted)
	}
	for _, p := range []string{missing, present} {
		if !strings.Contains(err.Error(), p) {
			t.Errorf("error message missing attempted path %q:\n%s", p, err)
		}
	}
}

func TestResolveInterpreterPrefersScriptVenv(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("probe runs a shell script")
	}

	tmp := t.TempDir()
	script := filepath.Join(tmp, "wrapper", "pulseblaster.py")
	if err := os.MkdirAll(filepath.Dir(script), 0o755); err != nil {
		t.Fatal(err)
	}
	venvPython := fakeExe(t, filepath.Join(tmp, "wrapper", ".venv", "bin", "python3"))
	// A system interpreter also exists; the venv must still win.
	sysPython := fakeExe(t, filepath.Join(tmp, "sys", "python3"))

	env := Env{
		WorkDir: tmp,
		LookPath: func(name string) (string, error) {
			return sysPython, nil
		},
	}

	got, err := ResolveInterpreter(env, "python3", script)
	if err != nil {
		t.Fatalf("ResolveInterpreter: %v", err)
	}
	if got != venvPython {
		t.Fatalf("resolved %q, want venv interpreter %q", got, venvPython)
	}
}

func TestResolveInterpreterFallsBackToSystem(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("probe runs a shell script")
	}

	tmp := t.TempDir()
	sysPython := fakeExe(t, filepath.Join(tmp, "sys", "python3"))

	env := Env{
		WorkDir: tmp,
		LookPath: func(name string) (string, error) {
			if name == "python3" {
				return sysPython, nil
			}
			return "", errors.New("not found")
		},
	}

	got, err := ResolveInterpreter(env, "python3", filepath.Join(tmp, "none", "pulseblaster.py"))
	if err != nil {
		t.Fatalf("ResolveInterpreter: %v", err)
	}
	if got != sysPython {
		t.Fatalf("resolved %q, want system interpreter %q", got, sysPython)
	}
}

func TestResolveBinaryFindsWorkDirDevTree(t *testing.T) {
	tmp := t.TempDir()
	bin := fakeExe(t, filepath.Join(tmp, backendDir, "bin", exeName("pulseblaster")))

	env := Env{WorkDir: tmp, LookPath: noLookPath}

	got, err := ResolveBinary(env, "pulseblaster")
	if err != nil {
		t.Fatalf("ResolveBinary: %v", err)
	}
	if got != bin {
		t.Fatalf("resolved %q, want %q", got, bin)
	}
}

func TestResolveBinaryFailsWithDiagnostic(t *testing.T) {
	env := Env{WorkDir: t.TempDir(), LookPath: noLookPath}

	_, err := ResolveBinary(env, "pulseblaster")
	if err == nil {
		t.Fatal("expected resolution failure")
	}
	var re *ResolveError
	if !errors.As(err, &re) {
		t.Fatalf("expected *ResolveError, got %T", err)
	}
}
