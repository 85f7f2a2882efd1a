package models

// InsightStatus tracks an insight from detection to completion.
type InsightStatus string

const (
	InsightPending   InsightStatus = "pending"
	InsightCompleted InsightStatus = "completed"
)

// Insight is a detected issue in a prompt, derived from evaluating traces.
type Insight struct {
	Problem  string        `json:"problem"`
	Solution string        `json:"solution"`
	Status   InsightStatus `json:"status"`
}

// Optimization is a proposed prompt rewrite produced by applying insights.
// Applied is false for entries the backend returned without an optimized
// prompt; partial success is the normal case, not an error.
type Optimization struct {
	OriginalPrompt  string `json:"originalPrompt"`
	OptimizedPrompt string `json:"optimizedPrompt"`
	Applied         bool   `json:"optimizationApplied"`
	Status          string `json:"status"`
}

// Provider describes an AI provider the backend can hold credentials for.
type Provider struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
