package store

import "time"

// ProgramRecord captures one program load.
type ProgramRecord struct {
	Board        int       `json:"board"`
	Timestamp    time.Time `json:"timestamp"`
	Success      bool      `json:"success"`
	Instructions int       `json:"instructions,omitempty"`
	Patterns     int       `json:"patterns,omitempty"`
	RepeatCount  uint      `json:"repeat_count,omitempty"`
	Warnings     []string  `json:"warnings,omitempty"`
	Message      string    `json:"message,omitempty"`
	Source       string    `json:"source,omitempty"`
}

// RunRecord captures a hardware state transition (start/stop/reset/wait).
type RunRecord struct {
	Board     int       `json:"board"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
	Success   bool      `json:"success"`
	Message   string    `json:"message,omitempty"`
}

// RegisterRecord captures one DDS register load.
type RegisterRecord struct {
	Board     int       `json:"board"`
	Kind      string    `json:"kind"` // freq, phase, amp
	Timestamp time.Time `json:"timestamp"`
	Success   bool      `json:"success"`
	Values    []float64 `json:"values"`
	Registers []int     `json:"registers,omitempty"`
}
