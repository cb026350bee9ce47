package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spincore/pulseterm/internal/bridge"
	"github.com/spincore/pulseterm/internal/executor"
	"github.com/spincore/pulseterm/internal/pulse"
)

const (
	DefaultBaudRate     = 115200
	DefaultInterpreter  = "python3"
	DefaultBinaryName   = "pulseblaster"
	DefaultScriptPath   = "backend/pulseblaster.py"
	DefaultCoreClockMHz = 500.0
)

// Transport kinds.
const (
	TransportScript = "script"
	TransportBinary = "binary"
)

// Config holds all pulseterm configuration.
type Config struct {
	Board          int     `json:"board"`
	CoreClockMHz   float64 `json:"core_clock_MHz,omitempty"`
	Debug          bool    `json:"debug,omitempty"`
	Transport      string  `json:"transport,omitempty"`
	BinaryName     string  `json:"binary_name,omitempty"`
	Interpreter    string  `json:"interpreter,omitempty"`
	ScriptPath     string  `json:"script_path,omitempty"`
	SerialPort     string  `json:"serial_port,omitempty"`
	SerialBaudRate int     `json:"serial_baud_rate,omitempty"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		CoreClockMHz:   DefaultCoreClockMHz,
		Transport:      TransportScript,
		BinaryName:     DefaultBinaryName,
		Interpreter:    DefaultInterpreter,
		ScriptPath:     DefaultScriptPath,
		SerialBaudRate: DefaultBaudRate,
	}
}

// Load reads and merges global and workspace configs.
// Order: defaults → global (~/.config/pulseterm/config.json) → workspace
// (.pulseterm/config.json).
func Load(workspaceRoot string) Config {
	cfg := Defaults()

	if home, err := os.UserHomeDir(); err == nil {
		mergeFromFile(&cfg, filepath.Join(home, ".config", "pulseterm", "config.json"))
	}
	if workspaceRoot != "" {
		mergeFromFile(&cfg, filepath.Join(workspaceRoot, ".pulseterm", "config.json"))
	}

	return cfg
}

// Save writes the config to the workspace .pulseterm/config.json by
// default, or to the global config if global is true.
func Save(cfg Config, workspaceRoot string, global bool) error {
	var dir string
	if global {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		dir = filepath.Join(home, ".config", "pulseterm")
	} else {
		dir = filepath.Join(workspaceRoot, ".pulseterm")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0o644)
}

func mergeFromFile(cfg *Config, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	var fileCfg Config
	if err := json.Unmarshal(data, &fileCfg); err != nil {
		return
	}

	if fileCfg.Board != 0 {
		cfg.Board = fileCfg.Board
	}
	if fileCfg.CoreClockMHz != 0 {
		cfg.CoreClockMHz = fileCfg.CoreClockMHz
	}
	if fileCfg.Debug {
		cfg.Debug = true
	}
	if fileCfg.Transport != "" {
		cfg.Transport = fileCfg.Transport
	}
	if fileCfg.BinaryName != "" {
		cfg.BinaryName = fileCfg.BinaryName
	}
	if fileCfg.Interpreter != "" {
		cfg.Interpreter = fileCfg.Interpreter
	}
	if fileCfg.ScriptPath != "" {
		cfg.ScriptPath = fileCfg.ScriptPath
	}
	if fileCfg.SerialPort != "" {
		cfg.SerialPort = fileCfg.SerialPort
	}
	if fileCfg.SerialBaudRate != 0 {
		cfg.SerialBaudRate = fileCfg.SerialBaudRate
	}
}

// BoardConfig converts the app config into the wire-level board
// configuration. A zero clock is treated as unset.
func (c Config) BoardConfig() pulse.BoardConfig {
	bc := pulse.BoardConfig{Board: c.Board, Debug: c.Debug}
	if c.CoreClockMHz != 0 {
		clock := c.CoreClockMHz
		bc.CoreClockMHz = &clock
	}
	return bc
}

// ExecutorConfig builds the executor selection for a session from the app
// config and the host environment.
func (c Config) ExecutorConfig() bridge.ExecutorConfig {
	return bridge.ExecutorConfig{
		UseBinary:   c.Transport == TransportBinary,
		BinaryName:  c.BinaryName,
		Interpreter: c.Interpreter,
		ScriptPath:  c.ScriptPath,
		Env:         executor.HostEnv(),
	}
}
