package pipeline

import "cfpipe/internal/join"

// HTTPOutcome mirrors one fetch result into the diagnostics document.
// Status is null when no HTTP response was obtained.
type HTTPOutcome struct {
	OK     bool   `json:"ok"`
	Status *int   `json:"status"`
	Err    string `json:"error,omitempty"`
}

// HTTPSection reports both retrievals.
type HTTPSection struct {
	Feedback HTTPOutcome `json:"feedback"`
	Customer HTTPOutcome `json:"customer"`
}

// ShapeSection reports the envelope check per source: "ok" or the
// classified rejection reason.
type ShapeSection struct {
	Feedback  string `json:"feedback"`
	Customers string `json:"customers"`
}

// RunDiagnostics is the triage document written on every run outcome,
// including early failures. The embedded join diagnostics keep their
// sections at the top level of the JSON.
type RunDiagnostics struct {
	RunID       string        `json:"run_id"`
	FeedbackURL string        `json:"feedback_url"`
	CustomerURL string        `json:"customer_url"`
	HTTP        *HTTPSection  `json:"http,omitempty"`
	Shape       *ShapeSection `json:"shape,omitempty"`

	join.Diagnostics

	OutputCSV string `json:"output_csv,omitempty"`
}
