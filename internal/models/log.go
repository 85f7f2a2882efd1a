package models

// TraceLogEntry represents metadata for a single session trace log.
type TraceLogEntry struct {
	LogID     string `yaml:"log_id"`
	SessionID string `yaml:"session_id"`
	Action    string `yaml:"action"`
	Status    string `yaml:"status"`
	StartedAt string `yaml:"started_at"`
}

// FeedbackRecord is one piece of free-text feedback captured when the user
// denies a proposed prompt change.
type FeedbackRecord struct {
	ID        string `yaml:"id"`
	SessionID string `yaml:"session_id"`
	Text      string `yaml:"text"`
	CreatedAt string `yaml:"created_at"`
}
