// Package analysis implements the document analysis submission workflow:
// a Controller that owns one submission at a time and a Poller that reads
// job progress on a fixed interval until the job reaches a terminal status.
package analysis

import (
	"time"

	"github.com/jrycodes/typotrace/pkg/typocheck"
)

// State is the lifecycle position of the controller's current submission.
type State string

// Controller states.
const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StatePolling    State = "polling"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
)

// Terminal reports whether the submission has finished, successfully or not.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}

// View is a point-in-time copy of the controller state for presentation.
type View struct {
	State      State                     `json:"state"`
	Generation uint64                    `json:"generation"`
	Filename   string                    `json:"filename,omitempty"`
	SizeBytes  int64                     `json:"size_bytes,omitempty"`
	PageCount  *int                      `json:"page_count,omitempty"`
	JobID      string                    `json:"job_id,omitempty"`
	Status     typocheck.Status          `json:"status,omitempty"`
	Progress   float64                   `json:"progress"`
	Message    string                    `json:"message,omitempty"`
	Error      string                    `json:"error,omitempty"`
	Result     *typocheck.AnalysisResult `json:"result,omitempty"`
	UpdatedAt  time.Time                 `json:"updated_at"`
}
