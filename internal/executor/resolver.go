package executor

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/spincore/pulseterm/internal/logging"
)

// backendDir is the development-tree directory holding the hardware
// backend (wrapper script and bundled CLI builds).
const backendDir = "backend"

// Env supplies the ambient locations the candidate search list is built
// from. HostEnv fills it from the running process; tests substitute their
// own.
type Env struct {
	ExePath     string // path of the running executable
	WorkDir     string // current working directory
	ResourceDir string // packaged resource directory supplied by the host shell
	LookPath    func(string) (string, error)
}

// HostEnv builds an Env from the current process. Missing pieces stay
// empty and their candidate rules produce nothing.
func HostEnv() Env {
	env := Env{LookPath: exec.LookPath}
	if exe, err := os.Executable(); err == nil {
		env.ExePath = exe
		env.ResourceDir = filepath.Join(filepath.Dir(exe), "resources")
	}
	if wd, err := os.Getwd(); err == nil {
		env.WorkDir = wd
	}
	return env
}

// candidate is one rule in the ordered search list. locate is evaluated
// lazily and reports the concrete path it looked at plus whether the path
// exists. Rules that do not apply return "".
type candidate struct {
	desc   string
	locate func() (string, bool)
}

// resolve walks the candidate list in order, probing each existing path,
// and returns the first one that passes. Candidates after the first
// success are never probed. Every concrete path looked at is recorded for
// the failure diagnostic.
func resolve(name string, candidates []candidate, probe func(string) error) (string, error) {
	var attempted []string
	for _, c := range candidates {
		path, exists := c.locate()
		if path == "" {
			continue
		}
		attempted = append(attempted, path)
		if !exists {
			continue
		}
		if err := probe(path); err != nil {
			logging.L().Debug().Str("path", path).Err(err).Msg("executor candidate failed probe")
			continue
		}
		logging.L().Debug().Str("path", path).Str("rule", c.desc).Msg("executor resolved")
		return path, nil
	}
	return "", &ResolveError{Name: name, Attempted: attempted}
}

// ResolveInterpreter finds a working interpreter for the wrapper script.
// Search order: venv next to the script, bundled runtimes near the
// packaged executable, the development tree, the working directory, then
// system-installed interpreter names. The winning interpreter must run a
// trivial no-op with exit status zero.
func ResolveInterpreter(env Env, interpreter, scriptPath string) (string, error) {
	exe := exeName(interpreter)
	exeDir := ""
	if env.ExePath != "" {
		exeDir = filepath.Dir(env.ExePath)
	}

	candidates := []candidate{
		{"script venv", statCandidate(venvInterpreter(filepath.Dir(scriptPath), interpreter))},
		{"bundled alongside executable", statCandidate(joinIf(exeDir, exe))},
		{"bundled bin dir", statCandidate(joinIf(exeDir, "bin", exe))},
		{"resource dir", statCandidate(joinIf(env.ResourceDir, exe))},
		{"macOS bundle resources", statCandidate(macBundleResource(exeDir, exe))},
		{"development tree venv", statCandidate(venvInterpreter(backendDir, interpreter))},
		{"working dir development tree", statCandidate(venvInterpreter(joinIf(env.WorkDir, backendDir), interpreter))},
		{"system " + interpreter, lookPathCandidate(env, interpreter)},
		{"system python3", lookPathCandidate(env, "python3")},
	}

	return resolve(interpreter+" interpreter", candidates, probeInterpreter)
}

// ResolveBinary finds the compiled CLI executable. For a compiled binary
// existence is the probe; the session's initialize status call exercises
// it immediately afterwards.
func ResolveBinary(env Env, name string) (string, error) {
	exe := exeName(name)
	exeDir := ""
	if env.ExePath != "" {
		exeDir = filepath.Dir(env.ExePath)
	}

	candidates := []candidate{
		{"resource bin dir", statCandidate(joinIf(env.ResourceDir, "bin", exe))},
		{"resource dir", statCandidate(joinIf(env.ResourceDir, exe))},
		{"alongside executable", statCandidate(joinIf(exeDir, exe))},
		{"bundled bin dir", statCandidate(joinIf(exeDir, "bin", exe))},
		{"macOS bundle resources", statCandidate(macBundleResource(exeDir, exe))},
		{"development tree", statCandidate(filepath.Join(backendDir, "bin", exe))},
		{"working dir development tree", statCandidate(joinIf(env.WorkDir, backendDir, "bin", exe))},
		{"system PATH", lookPathCandidate(env, name)},
	}

	return resolve(name+" executable", candidates, func(string) error { return nil })
}

// probeInterpreter runs a no-op program and requires a clean exit.
func probeInterpreter(path string) error {
	return exec.Command(path, "-c", "pass").Run()
}

// statCandidate wraps a concrete path into a locate func checking plain
// file existence.
func statCandidate(path string) func() (string, bool) {
	return func() (string, bool) {
		if path == "" {
			return "", false
		}
		info, err := os.Stat(path)
		return path, err == nil && !info.IsDir()
	}
}

// lookPathCandidate defers to the system PATH search.
func lookPathCandidate(env Env, name string) func() (string, bool) {
	return func() (string, bool) {
		if env.LookPath == nil {
			return "", false
		}
		path, err := env.LookPath(name)
		if err != nil {
			return name, false
		}
		return path, true
	}
}

// venvInterpreter returns the interpreter path inside a virtual
// environment rooted next to dir.
func venvInterpreter(dir, interpreter string) string {
	if dir == "" {
		return ""
	}
	bin := "bin"
	if runtime.GOOS == "windows" {
		bin = "Scripts"
	}
	return filepath.Join(dir, ".venv", bin, exeName(interpreter))
}

// macBundleResource maps an exe dir inside a .app bundle to its Resources
// sibling.
func macBundleResource(exeDir, exe string) string {
	if runtime.GOOS != "darwin" || exeDir == "" {
		return ""
	}
	return filepath.Join(exeDir, "..", "Resources", exe)
}

func joinIf(dir string, elems ...string) string {
	if dir == "" {
		return ""
	}
	return filepath.Join(append([]string{dir}, elems...)...)
}

// exeName appends the platform executable suffix.
func exeName(name string) string {
	if runtime.GOOS == "windows" {
		return name + ".exe"
	}
	return name
}
