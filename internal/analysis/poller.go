package analysis

import (
	"context"
	"sync"
	"time"

	"github.com/jrycodes/typotrace/pkg/typocheck"
)

// StatusFunc fetches the current snapshot for a job.
type StatusFunc func(ctx context.Context, jobID string) (typocheck.Snapshot, error)

// Poller calls a StatusFunc on a fixed interval and hands each snapshot to
// a callback. Ticks are not queued: every tick issues its own call, and
// calls that outlive a Stop or a newer Start are dropped by epoch.
type Poller struct {
	status StatusFunc

	mu     sync.Mutex
	epoch  uint64
	cancel context.CancelFunc
}

// NewPoller creates a stopped Poller.
func NewPoller(status StatusFunc) *Poller {
	return &Poller{status: status}
}

// Start begins polling jobID every interval, replacing any active run.
// A failed call is reported once as an error snapshot and stops the poller;
// a terminal snapshot also stops it. Cancelling ctx stops the run and aborts
// in-flight calls.
func (p *Poller) Start(ctx context.Context, jobID string, interval time.Duration, onSnapshot func(typocheck.Snapshot)) {
	p.mu.Lock()
	p.stopLocked()
	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	epoch := p.epoch
	p.mu.Unlock()

	go p.run(runCtx, epoch, jobID, interval, onSnapshot)
}

// Stop cancels the active run. It is safe to call when not running.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

// Running reports whether a run is active.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}

func (p *Poller) stopLocked() {
	p.epoch++
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

func (p *Poller) run(ctx context.Context, epoch uint64, jobID string, interval time.Duration, onSnapshot func(typocheck.Snapshot)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			go p.tick(ctx, epoch, jobID, onSnapshot)
		}
	}
}

func (p *Poller) tick(ctx context.Context, epoch uint64, jobID string, onSnapshot func(typocheck.Snapshot)) {
	snap, err := p.status(ctx, jobID)

	p.mu.Lock()
	if p.epoch != epoch {
		p.mu.Unlock()
		return
	}
	if err != nil {
		snap = typocheck.FailureSnapshot(err)
	}
	if snap.Terminal() {
		p.stopLocked()
	}
	p.mu.Unlock()

	onSnapshot(snap)
}
