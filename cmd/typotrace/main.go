// Command typotrace submits local PDFs to the typo-checking service, reports
// progress on stderr, and saves the corrected documents.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jrycodes/typotrace/internal/config"
	"github.com/jrycodes/typotrace/pkg/storage"
	"github.com/jrycodes/typotrace/pkg/typocheck"
)

func main() {
	var (
		baseURL     = flag.String("base-url", "", "Typo-checking service base URL")
		out         = flag.String("out", ".", "Directory corrected documents are written to")
		interval    = flag.Duration("interval", 0, "Progress poll interval")
		timeout     = flag.Duration("timeout", 0, "Per-request timeout")
		deadline    = flag.Duration("deadline", 30*time.Minute, "Maximum time to wait for each document")
		concurrency = flag.Int("concurrency", 2, "Documents processed at once")
		verbose     = flag.Bool("v", false, "Log workflow details")
	)
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "usage: typotrace [flags] file.pdf...")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := clientConfig(*baseURL, *timeout, *interval)
	if err != nil {
		fmt.Fprintln(os.Stderr, "typotrace:", err)
		os.Exit(2)
	}

	client, err := typocheck.New(cfg, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "typotrace:", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := &runner{
		transport:   client,
		store:       storage.NewLocal(*out, logger),
		interval:    cfg.PollIntervalDuration(),
		deadline:    *deadline,
		concurrency: *concurrency,
		stderr:      os.Stderr,
		logger:      logger,
	}

	if err := r.run(ctx, flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, "typotrace:", err)
		os.Exit(1)
	}
}

// clientConfig resolves the client settings: defaults, then TYPOTRACE_CLIENT_*
// environment overrides, then flags.
func clientConfig(baseURL string, timeout, interval time.Duration) (*typocheck.Config, error) {
	cfg := &typocheck.Config{}
	if err := cfg.Finalize(config.ClientEnv); err != nil {
		return nil, err
	}

	overlay := &typocheck.Config{BaseURL: baseURL}
	if timeout > 0 {
		overlay.Timeout = timeout.String()
	}
	if interval > 0 {
		overlay.PollInterval = interval.String()
	}
	cfg.Merge(overlay)

	if err := cfg.Finalize(nil); err != nil {
		return nil, err
	}
	return cfg, nil
}
