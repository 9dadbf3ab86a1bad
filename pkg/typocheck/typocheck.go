// Package typocheck is the HTTP client for the remote typo-checking service.
// It submits PDF documents, reads job progress snapshots, and downloads the
// corrected result. The client performs no retries and no caching; every
// failure is returned to the caller as a typed error.
package typocheck

import (
	"encoding/json"
	"fmt"
)

// Status is the remote job status reported by the progress endpoint.
type Status string

// Job statuses reported by the remote service.
const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// Terminal reports whether no further progress will be reported for the job.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusError
}

// Valid reports whether s is one of the known job statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusError:
		return true
	}
	return false
}

// SubmitStatus is the outcome the remote service reports for an upload.
type SubmitStatus string

// Upload outcomes.
const (
	SubmitSuccess SubmitStatus = "success"
	SubmitError   SubmitStatus = "error"
)

// SubmissionResult is the decoded response of the upload endpoint.
type SubmissionResult struct {
	Filename string       `json:"original_filename"`
	Status   SubmitStatus `json:"status"`
	Message  string       `json:"message"`
	JobID    string       `json:"job_id"`
}

// Accepted reports whether the upload produced a job that can be polled.
func (r *SubmissionResult) Accepted() bool {
	return r.Status == SubmitSuccess && r.JobID != ""
}

// AnalysisResult holds the descriptive counts of a completed job.
type AnalysisResult struct {
	TotalPages        int `json:"total_pages"`
	TotalTypos        int `json:"total_typos"`
	TotalWords        int `json:"total_words"`
	TotalForeignWords int `json:"total_foreign_words"`
}

// Accuracy returns the share of words without typos as a percentage.
// A result with no words reports 100.
func (r AnalysisResult) Accuracy() float64 {
	if r.TotalWords <= 0 {
		return 100
	}
	return float64(r.TotalWords-r.TotalTypos) / float64(r.TotalWords) * 100
}

// Snapshot is the most recent progress report for a job.
//
// Result is only set when Status is StatusCompleted and Error is only set
// when Status is StatusError. Progress is always within [0, 100].
type Snapshot struct {
	Status   Status          `json:"status"`
	Progress float64         `json:"progress"`
	Message  string          `json:"message,omitempty"`
	Error    string          `json:"error,omitempty"`
	Result   *AnalysisResult `json:"result,omitempty"`

	cause error
}

// FailureSnapshot builds an error snapshot for a status call that failed
// before a report was received. The original error is available from Cause.
func FailureSnapshot(err error) Snapshot {
	return Snapshot{
		Status: StatusError,
		Error:  err.Error(),
		cause:  err,
	}
}

// Terminal reports whether the snapshot ends polling.
func (s Snapshot) Terminal() bool {
	return s.Status.Terminal()
}

// Cause returns the local error that produced a failure snapshot, or nil
// for snapshots decoded from the remote service.
func (s Snapshot) Cause() error {
	return s.cause
}

type snapshotWire struct {
	Status   Status          `json:"status"`
	Progress *float64        `json:"progress"`
	Message  string          `json:"message"`
	Error    string          `json:"error"`
	Result   *AnalysisResult `json:"result"`
}

// UnmarshalJSON decodes a progress payload and keeps only the fields that
// are meaningful for the reported status.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var w snapshotWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if !w.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, w.Status)
	}

	snap := Snapshot{
		Status:  w.Status,
		Message: w.Message,
	}
	if w.Progress != nil {
		snap.Progress = min(max(*w.Progress, 0), 100)
	}

	switch w.Status {
	case StatusCompleted:
		snap.Progress = 100
		snap.Result = w.Result
	case StatusError:
		snap.Error = w.Error
		if snap.Error == "" {
			snap.Error = w.Message
		}
	}

	*s = snap
	return nil
}
