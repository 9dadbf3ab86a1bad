package typocheck

import (
	"errors"
	"fmt"
)

// Sentinel errors for client operations.
var (
	ErrNotPDF           = errors.New("please upload a PDF")
	ErrEmptyResult      = errors.New("result body is empty")
	ErrMissingJobID     = errors.New("job id missing")
	ErrUnexpectedStatus = errors.New("unexpected response status")
	ErrUnknownStatus    = errors.New("unknown job status")
)

// ValidationError reports a document rejected before any network call.
type ValidationError struct {
	Filename    string
	ContentType string
	Err         error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Filename, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// TransportError reports a failed HTTP exchange with the remote service:
// a network failure, a non-success status, or an unusable body.
// StatusCode is zero when no response was received.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s failed: status %d: %v", e.Op, e.StatusCode, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RemoteJobError reports a job the remote service itself marked as failed.
// Message is the text returned by the service, kept verbatim.
type RemoteJobError struct {
	JobID   string
	Message string
	Err     error
}

func (e *RemoteJobError) Error() string {
	if e.JobID == "" {
		return "remote job failed: " + e.Message
	}
	return fmt.Sprintf("remote job %s failed: %s", e.JobID, e.Message)
}

func (e *RemoteJobError) Unwrap() error {
	return e.Err
}

// Message returns the text suitable for showing to a user: the remote
// message for job failures, the underlying cause otherwise.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var remote *RemoteJobError
	if errors.As(err, &remote) && remote.Message != "" {
		return remote.Message
	}

	var invalid *ValidationError
	if errors.As(err, &invalid) {
		return invalid.Err.Error()
	}

	return err.Error()
}
