package storage_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jrycodes/typotrace/pkg/lifecycle"
	"github.com/jrycodes/typotrace/pkg/storage"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func newLocal(t *testing.T) (storage.System, string) {
	t.Helper()

	root := filepath.Join(t.TempDir(), "store")
	cfg := &storage.Config{Root: root}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	store, err := storage.New(context.Background(), cfg, discard)
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	return store, root
}

func TestLocalStartCreatesRoot(t *testing.T) {
	store, root := newLocal(t)
	lc := lifecycle.New()

	if err := store.Start(lc); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	lc.WaitForStartup()
	defer lc.Shutdown(time.Second)

	if !store.Ready() {
		t.Error("store should be ready after startup")
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		t.Errorf("root not created: %v", err)
	}
}

func TestLocalRoundTrip(t *testing.T) {
	store, root := newLocal(t)
	ctx := context.Background()
	key := "results/abc123/corrected_report.pdf"

	if err := store.Upload(ctx, key, strings.NewReader("%PDF-corrected"), "application/pdf"); err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(root, "results", "abc123", "corrected_report.pdf")); err != nil {
		t.Fatalf("object not on disk: %v", err)
	}

	exists, err := store.Exists(ctx, key)
	if err != nil || !exists {
		t.Fatalf("exists: got %v, %v", exists, err)
	}

	rc, err := store.Download(ctx, key)
	if err != nil {
		t.Fatalf("download failed: %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()

	if string(data) != "%PDF-corrected" {
		t.Errorf("content: got %q", data)
	}

	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := store.Delete(ctx, key); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("second delete: got %v, want ErrNotFound", err)
	}
}

func TestLocalOverwrite(t *testing.T) {
	store, _ := newLocal(t)
	ctx := context.Background()

	store.Upload(ctx, "feedback/a.json", strings.NewReader("one"), "application/json")
	store.Upload(ctx, "feedback/a.json", strings.NewReader("two"), "application/json")

	rc, err := store.Download(ctx, "feedback/a.json")
	if err != nil {
		t.Fatalf("download failed: %v", err)
	}
	defer rc.Close()

	data, _ := io.ReadAll(rc)
	if string(data) != "two" {
		t.Errorf("content: got %q, want two", data)
	}
}

func TestLocalMissing(t *testing.T) {
	store, _ := newLocal(t)
	ctx := context.Background()

	if _, err := store.Download(ctx, "missing.pdf"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("download: got %v, want ErrNotFound", err)
	}

	exists, err := store.Exists(ctx, "missing.pdf")
	if err != nil || exists {
		t.Errorf("exists: got %v, %v", exists, err)
	}
}

func TestKeyValidation(t *testing.T) {
	store, _ := newLocal(t)
	ctx := context.Background()

	tests := []struct {
		name string
		key  string
		want error
	}{
		{"empty", "", storage.ErrEmptyKey},
		{"traversal", "../etc/passwd", storage.ErrInvalidKey},
		{"absolute", "/etc/passwd", storage.ErrInvalidKey},
		{"nested traversal", "results/../../etc/passwd", storage.ErrInvalidKey},
		{"trailing traversal", "results/job/..", storage.ErrInvalidKey},
		{"dots in name", "results/job/corrected_final..v2.pdf", nil},
		{"dotted directory", "results/job..1/report.pdf", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.Upload(ctx, tt.key, strings.NewReader("x"), "text/plain")
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{storage.ErrNotFound, http.StatusNotFound},
		{storage.ErrEmptyKey, http.StatusBadRequest},
		{storage.ErrInvalidKey, http.StatusBadRequest},
		{errors.New("disk full"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := storage.MapHTTPStatus(tt.err); got != tt.want {
			t.Errorf("%v: got %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestNewUnknownProvider(t *testing.T) {
	_, err := storage.New(context.Background(), &storage.Config{Provider: "ftp"}, discard)
	if !errors.Is(err, storage.ErrUnknownProvider) {
		t.Errorf("got %v, want ErrUnknownProvider", err)
	}
}
