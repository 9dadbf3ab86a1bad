package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jrycodes/typotrace/internal/analysis"
	"github.com/jrycodes/typotrace/pkg/formatting"
	"github.com/jrycodes/typotrace/pkg/storage"
	"github.com/jrycodes/typotrace/pkg/typocheck"
)

const barWidth = 20

type runner struct {
	transport   analysis.Transport
	store       storage.System
	interval    time.Duration
	deadline    time.Duration
	concurrency int
	stderr      io.Writer
	logger      *slog.Logger

	mu sync.Mutex
}

// run processes every path and returns the joined per-file failures.
// A failing file does not stop the others.
func (r *runner) run(ctx context.Context, paths []string) error {
	errs := make([]error, len(paths))

	var g errgroup.Group
	g.SetLimit(max(r.concurrency, 1))

	for i, p := range paths {
		g.Go(func() error {
			if err := r.process(ctx, p); err != nil {
				errs[i] = fmt.Errorf("%s: %w", filepath.Base(p), err)
				r.printf("%s: failed: %s\n", filepath.Base(p), typocheck.Message(err))
			}
			return nil
		})
	}
	g.Wait()

	return errors.Join(errs...)
}

func (r *runner) process(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	name := filepath.Base(path)
	doc := typocheck.NewDocument(name, mime.TypeByExtension(filepath.Ext(name)), data)

	ctrl := analysis.NewController(r.transport, r.interval, r.logger)
	ctrl.Observe(r.report)
	defer ctrl.Reset()

	if err := ctrl.Submit(ctx, doc); err != nil {
		return err
	}

	waitCtx, cancel := context.WithTimeout(ctx, r.deadline)
	defer cancel()

	view, err := ctrl.Wait(waitCtx)
	if err != nil {
		return fmt.Errorf("waiting for job %s: %w", view.JobID, err)
	}
	if view.State == analysis.StateFailed {
		return ctrl.Err()
	}

	result, err := ctrl.Download(ctx)
	if err != nil {
		return err
	}
	defer result.Body.Close()

	if err := r.store.Upload(ctx, result.Filename, result.Body, result.ContentType); err != nil {
		return fmt.Errorf("save %s: %w", result.Filename, err)
	}

	r.printf("%s: saved %s%s\n", name, result.Filename, summary(view.Result))
	return nil
}

func (r *runner) report(v analysis.View) {
	switch v.State {
	case analysis.StateSubmitting:
		size := formatting.FormatBytes(v.SizeBytes, 1)
		if v.PageCount != nil {
			r.printf("%s: uploading %s, %d pages\n", v.Filename, size, *v.PageCount)
		} else {
			r.printf("%s: uploading %s\n", v.Filename, size)
		}
	case analysis.StatePolling:
		status := v.Status
		if status == "" {
			status = typocheck.StatusPending
		}
		r.printf("%s: %-10s %s %6s %s\n", v.Filename, status, formatting.ProgressBar(v.Progress, barWidth), formatting.FormatPercent(v.Progress), v.Message)
	case analysis.StateCompleted:
		r.printf("%s: completed  %s %6s\n", v.Filename, formatting.ProgressBar(100, barWidth), formatting.FormatPercent(100))
	}
}

func (r *runner) printf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.stderr, format, args...)
}

func summary(res *typocheck.AnalysisResult) string {
	if res == nil {
		return ""
	}
	return fmt.Sprintf(" (%d typos, %d foreign words in %d words over %d pages, %s accurate)",
		res.TotalTypos, res.TotalForeignWords, res.TotalWords, res.TotalPages, formatting.FormatPercent(res.Accuracy()))
}
