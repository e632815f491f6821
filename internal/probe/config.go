// Package probe drives a running validation service with generated CIs and
// checks every response against the local validator.
package probe

import "time"

// Config holds configuration for a probe run.
type Config struct {
	BaseURL string        // Base URL of the service
	Count   int           // Number of generated cases on top of the fixed scenarios
	Workers int           // Number of concurrent workers
	Timeout time.Duration // HTTP request timeout
	Seed    int64         // Seed for case generation
	Verbose bool          // Log every case
}

// Case is one candidate CI sent to the service.
type Case struct {
	CI    string `json:"ci"`
	Label string `json:"label"`
}

// Response mirrors the JSON body of GET /validar/{ci}.
type Response struct {
	Value   string   `json:"value"`
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

// Outcome is the verified result of one case.
type Outcome struct {
	Case      Case
	RequestID string
	Status    int
	Err       error
}

// Stats holds probe statistics.
type Stats struct {
	CasesGenerated int
	CasesSubmitted int
	CasesMatched   int
	CasesMismatch  int
	CasesFailed    int
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
}
