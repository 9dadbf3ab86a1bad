package lifecycle_test

import (
	"context"
	"slices"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jrycodes/typotrace/pkg/lifecycle"
)

func TestNotReadyBeforeStartup(t *testing.T) {
	lc := lifecycle.New()
	if lc.Ready() {
		t.Error("should not be ready before WaitForStartup")
	}
}

func TestReadyAfterStartup(t *testing.T) {
	lc := lifecycle.New()
	lc.WaitForStartup()

	if !lc.Ready() {
		t.Error("should be ready after WaitForStartup")
	}
}

func TestStartupHooksExecute(t *testing.T) {
	lc := lifecycle.New()

	var count atomic.Int32
	for range 3 {
		lc.OnStartup(func() {
			count.Add(1)
		})
	}

	lc.WaitForStartup()

	if got := count.Load(); got != 3 {
		t.Errorf("startup hooks: got %d, want 3", got)
	}
}

func TestReadinessChecks(t *testing.T) {
	lc := lifecycle.New()

	var storeReady atomic.Bool
	lc.Check("store", lifecycle.ReadinessFunc(storeReady.Load))
	lc.Check("client", lifecycle.ReadinessFunc(func() bool { return true }))
	lc.WaitForStartup()

	if lc.Ready() {
		t.Error("should not be ready while a check is pending")
	}
	if got := lc.Pending(); !slices.Equal(got, []string{"store"}) {
		t.Errorf("pending: got %v, want [store]", got)
	}

	storeReady.Store(true)

	if !lc.Ready() {
		t.Error("should be ready once every check passes")
	}
	if got := lc.Pending(); len(got) != 0 {
		t.Errorf("pending: got %v, want none", got)
	}
}

func TestEveryRunsUntilShutdown(t *testing.T) {
	lc := lifecycle.New()

	var runs atomic.Int32
	lc.Every(5*time.Millisecond, func(ctx context.Context) {
		runs.Add(1)
	})

	deadline := time.Now().Add(time.Second)
	for runs.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if runs.Load() < 2 {
		t.Fatal("worker did not tick")
	}

	if err := lc.Shutdown(time.Second); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}

	stopped := runs.Load()
	time.Sleep(20 * time.Millisecond)
	if got := runs.Load(); got != stopped {
		t.Errorf("worker ran after shutdown: %d -> %d", stopped, got)
	}
}

func TestShutdownHooksExecute(t *testing.T) {
	lc := lifecycle.New()

	var cleaned atomic.Bool
	lc.OnShutdown(func() {
		<-lc.Context().Done()
		cleaned.Store(true)
	})

	lc.WaitForStartup()

	if err := lc.Shutdown(5 * time.Second); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}

	if !cleaned.Load() {
		t.Error("shutdown hook did not execute")
	}
}

func TestShutdownTimeout(t *testing.T) {
	lc := lifecycle.New()

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		time.Sleep(500 * time.Millisecond)
	})

	lc.WaitForStartup()

	if err := lc.Shutdown(50 * time.Millisecond); err == nil {
		t.Error("expected timeout error, got nil")
	}
}
