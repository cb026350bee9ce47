package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// Store manages persistence of program/run/register history under the
// workspace .pulseterm directory.
type Store struct {
	root string
	mu   sync.Mutex
}

// New creates a Store rooted at the given directory (typically .pulseterm/).
func New(root string) *Store {
	return &Store{root: root}
}

func (s *Store) historyDir() string {
	return filepath.Join(s.root, "history")
}

// AddProgram appends a program-load record.
func (s *Store) AddProgram(r ProgramRecord) error {
	return s.appendRecord("programs.json", r)
}

// AddRun appends a state-transition record.
func (s *Store) AddRun(r RunRecord) error {
	return s.appendRecord("runs.json", r)
}

// AddRegisters appends a register-load record.
func (s *Store) AddRegisters(r RegisterRecord) error {
	return s.appendRecord("registers.json", r)
}

// Programs returns all program-load records.
func (s *Store) Programs() ([]ProgramRecord, error) {
	var records []ProgramRecord
	err := s.loadRecords("programs.json", &records)
	return records, err
}

// Runs returns all state-transition records.
func (s *Store) Runs() ([]RunRecord, error) {
	var records []RunRecord
	err := s.loadRecords("runs.json", &records)
	return records, err
}

// Registers returns all register-load records.
func (s *Store) Registers() ([]RegisterRecord, error) {
	var records []RegisterRecord
	err := s.loadRecords("registers.json", &records)
	return records, err
}

// LogsDir returns the path to the logs directory, creating it if needed.
func (s *Store) LogsDir() (string, error) {
	dir := filepath.Join(s.root, "logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

func (s *Store) appendRecord(filename string, record any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := s.historyDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	path := filepath.Join(dir, filename)

	var records []json.RawMessage
	if data, err := os.ReadFile(path); err == nil {
		json.Unmarshal(data, &records)
	}

	raw, err := json.Marshal(record)
	if err != nil {
		return err
	}
	records = append(records, raw)

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (s *Store) loadRecords(filename string, dest any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.historyDir(), filename)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return json.Unmarshal(data, dest)
}
