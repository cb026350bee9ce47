package pulse

// Result status tags reported by the executor.
const (
	StatusSuccess = "success"
	StatusWarning = "warning"
	StatusError   = "error"
)

// Result is the parsed outcome of one executor invocation. The bridge only
// interprets Status; everything else is forwarded upward as-is.
type Result struct {
	Status         string   `json:"status"`
	Message        string   `json:"message"`
	Warnings       []string `json:"warnings,omitempty"`
	HardwareStatus []int    `json:"hardware_status,omitempty"`
	StatusMessage  string   `json:"status_message,omitempty"`
	Stopped        *bool    `json:"stopped,omitempty"`
	Registers      []int    `json:"registers,omitempty"`
}

// OK reports whether the invocation succeeded. A warning still counts as
// loaded/applied; only an explicit error status is a failure.
func (r *Result) OK() bool {
	return r.Status == StatusSuccess || r.Status == StatusWarning
}

// IsStopped reports the stopped flag of a wait result, false when the
// executor did not include one.
func (r *Result) IsStopped() bool {
	return r.Stopped != nil && *r.Stopped
}
