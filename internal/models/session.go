package models

import "time"

// MaskingRules controls which trace fields the backend redacts before
// storing or evaluating them.
type MaskingRules struct {
	MaskInputs  bool     `json:"maskInputs" yaml:"mask_inputs"`
	MaskOutputs bool     `json:"maskOutputs" yaml:"mask_outputs"`
	Fields      []string `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// Session is a backend-issued evaluation session. It exists only in memory
// for the lifetime of an open panel.
type Session struct {
	ID      string       `json:"id"`
	Type    string       `json:"type"` // "live"
	Masking MaskingRules `json:"maskingRules"`
}

// Run is the execution payload carried by a run-completed notification.
type Run struct {
	Action string         `json:"action"`
	Status string         `json:"status"`
	Extra  map[string]any `json:"-"`
}

// TraceEvent is one unit of agent execution reported by the backend.
// Traces are appended in arrival order and never removed.
type TraceEvent struct {
	Run        Run       `json:"run"`
	ReceivedAt time.Time `json:"receivedAt"`
}
