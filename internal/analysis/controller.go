package analysis

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jrycodes/typotrace/pkg/typocheck"
)

// Transport is the remote service surface the controller drives.
// *typocheck.Client satisfies it.
type Transport interface {
	Submit(ctx context.Context, doc typocheck.Document) (*typocheck.SubmissionResult, error)
	Status(ctx context.Context, jobID string) (typocheck.Snapshot, error)
	Download(ctx context.Context, jobID string) (*typocheck.Result, error)
}

type document struct {
	filename  string
	size      int64
	pageCount *int
}

// Controller owns a single submission at a time and is the only writer of
// its state. Every Submit and Reset starts a new generation; responses and
// snapshots produced for an older generation are discarded.
type Controller struct {
	transport Transport
	poller    *Poller
	interval  time.Duration
	logger    *slog.Logger

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	state      State
	doc        *document
	submission *typocheck.SubmissionResult
	snapshot   *typocheck.Snapshot
	err        error
	done       chan struct{}
	doneClosed bool
	updatedAt  time.Time
	observers  []func(View)
}

// NewController creates an idle Controller that polls every interval.
func NewController(transport Transport, interval time.Duration, logger *slog.Logger) *Controller {
	done := make(chan struct{})
	close(done)

	return &Controller{
		transport:  transport,
		poller:     NewPoller(transport.Status),
		interval:   interval,
		logger:     logger.With("system", "analysis"),
		state:      StateIdle,
		done:       done,
		doneClosed: true,
		updatedAt:  time.Now(),
	}
}

// Observe registers fn to receive a View after every state change.
// Observers run on the goroutine that caused the change, outside the
// controller lock.
func (c *Controller) Observe(fn func(View)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

// Submit validates doc, uploads it, and starts polling on success.
//
// A document that is not a PDF returns a *typocheck.ValidationError without
// any network call and leaves the controller idle. Submit is only allowed
// while idle. Upload failures and rejected uploads move the controller to
// StateFailed and are returned. If Reset runs while the upload is in flight
// the response is discarded and ErrDiscarded is returned.
func (c *Controller) Submit(ctx context.Context, doc typocheck.Document) error {
	if err := doc.Validate(); err != nil {
		c.logger.Info("document rejected", "filename", doc.Filename, "error", err)
		return err
	}

	info := &document{
		filename:  doc.Filename,
		size:      doc.Size(),
		pageCount: c.pageCount(doc),
	}

	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return ErrBusy
	}

	c.generation++
	gen := c.generation
	genCtx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.state = StateSubmitting
	c.doc = info
	c.done = make(chan struct{})
	c.doneClosed = false
	notify := c.changedLocked()
	c.mu.Unlock()
	notify()

	callCtx, callCancel := context.WithCancel(ctx)
	defer callCancel()
	stop := context.AfterFunc(genCtx, callCancel)
	defer stop()

	result, err := c.transport.Submit(callCtx, doc)

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		c.logger.Info("discarding stale upload response", "filename", doc.Filename, "generation", gen)
		return ErrDiscarded
	}

	switch {
	case err != nil:
		c.failLocked(err)
	case result.Status != typocheck.SubmitSuccess:
		c.submission = result
		c.failLocked(&typocheck.RemoteJobError{
			JobID:   result.JobID,
			Message: messageOr(result.Message, "upload rejected"),
		})
	case result.JobID == "":
		c.submission = result
		c.failLocked(&typocheck.RemoteJobError{
			Message: typocheck.ErrMissingJobID.Error(),
			Err:     typocheck.ErrMissingJobID,
		})
	default:
		c.submission = result
		c.state = StatePolling
		c.poller.Start(genCtx, result.JobID, c.interval, func(snap typocheck.Snapshot) {
			c.apply(gen, snap)
		})
		c.logger.Info("polling started", "job_id", result.JobID, "generation", gen)
	}

	failure := c.err
	notify = c.changedLocked()
	c.mu.Unlock()
	notify()

	return failure
}

// Reset abandons the current submission: it stops the poller, aborts
// in-flight calls, and returns the controller to StateIdle.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.generation++
	c.poller.Stop()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.state = StateIdle
	c.doc = nil
	c.submission = nil
	c.snapshot = nil
	c.err = nil
	c.finishLocked()
	notify := c.changedLocked()
	c.mu.Unlock()
	notify()
}

// View returns a copy of the current state.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

// Done returns a channel closed once the current submission is completed,
// failed, or reset. It is already closed while the controller is idle.
func (c *Controller) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}

// Wait blocks until the current submission finishes or ctx is done.
func (c *Controller) Wait(ctx context.Context) (View, error) {
	select {
	case <-c.Done():
		return c.View(), nil
	case <-ctx.Done():
		return c.View(), ctx.Err()
	}
}

// Err returns the error that failed the current submission, if any.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Download opens the corrected document of a completed submission.
// The result is always named after the original file, replacing any
// name the service sent in Content-Disposition.
func (c *Controller) Download(ctx context.Context) (*typocheck.Result, error) {
	c.mu.Lock()
	if c.state != StateCompleted {
		c.mu.Unlock()
		return nil, ErrNotCompleted
	}
	jobID := c.submission.JobID
	filename := c.doc.filename
	c.mu.Unlock()

	result, err := c.transport.Download(ctx, jobID)
	if err != nil {
		return nil, err
	}
	result.Filename = typocheck.CorrectedName(filename)
	return result, nil
}

func (c *Controller) apply(gen uint64, snap typocheck.Snapshot) {
	c.mu.Lock()
	if gen != c.generation || c.state != StatePolling {
		c.mu.Unlock()
		c.logger.Debug("dropping stale snapshot", "generation", gen, "status", snap.Status)
		return
	}

	c.snapshot = &snap

	switch snap.Status {
	case typocheck.StatusCompleted:
		c.state = StateCompleted
		c.poller.Stop()
		c.finishLocked()
		c.logger.Info("analysis completed", "job_id", c.submission.JobID)
	case typocheck.StatusError:
		err := snap.Cause()
		if err == nil {
			err = &typocheck.RemoteJobError{
				JobID:   c.submission.JobID,
				Message: messageOr(snap.Error, "analysis failed"),
			}
		}
		c.failLocked(err)
	}

	notify := c.changedLocked()
	c.mu.Unlock()
	notify()
}

func (c *Controller) failLocked(err error) {
	c.state = StateFailed
	c.err = err
	c.poller.Stop()
	c.finishLocked()
	c.logger.Warn("submission failed", "error", err)
}

func (c *Controller) finishLocked() {
	if !c.doneClosed {
		close(c.done)
		c.doneClosed = true
	}
}

func (c *Controller) changedLocked() func() {
	c.updatedAt = time.Now()
	view := c.viewLocked()
	observers := c.observers
	return func() {
		for _, fn := range observers {
			fn(view)
		}
	}
}

func (c *Controller) viewLocked() View {
	v := View{
		State:      c.state,
		Generation: c.generation,
		UpdatedAt:  c.updatedAt,
	}

	if c.doc != nil {
		v.Filename = c.doc.filename
		v.SizeBytes = c.doc.size
		v.PageCount = c.doc.pageCount
	}
	if c.submission != nil {
		v.JobID = c.submission.JobID
		v.Message = c.submission.Message
	}
	if c.snapshot != nil {
		v.Status = c.snapshot.Status
		v.Progress = c.snapshot.Progress
		if c.snapshot.Message != "" {
			v.Message = c.snapshot.Message
		}
		v.Result = c.snapshot.Result
	}
	if c.err != nil {
		v.Error = typocheck.Message(c.err)
	}

	return v
}

func (c *Controller) pageCount(doc typocheck.Document) *int {
	n, err := doc.PageCount()
	if err != nil {
		c.logger.Debug("page count unavailable", "filename", doc.Filename, "error", err)
		return nil
	}
	return &n
}

func messageOr(msg, fallback string) string {
	if msg == "" {
		return fallback
	}
	return msg
}
