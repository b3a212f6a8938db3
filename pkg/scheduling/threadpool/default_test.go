package threadpool

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/vnykmshr/taskpool/internal/testutil"
	tperrors "github.com/vnykmshr/taskpool/pkg/common/errors"
	"github.com/vnykmshr/taskpool/pkg/future"
)

func TestDefaultWorkers(t *testing.T) {
	tests := []struct {
		env  string
		want int
	}{
		{"3", 3},
		{"0", 0},
		{"-2", 0},
		{"lots", 0},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv(EnvWorkers, tt.env)
			got := DefaultWorkers()
			if tt.want > 0 {
				testutil.AssertEqual(t, got, tt.want)
			} else if got < 1 {
				t.Errorf("fallback worker count = %d", got)
			}
		})
	}
}

func TestDefaultPool(t *testing.T) {
	t.Setenv(EnvWorkers, "3")
	ShutdownDefault()
	defer ShutdownDefault()

	p := Default()
	if Default() != p {
		t.Fatal("Default should return the same pool")
	}
	testutil.AssertEqual(t, p.Size(), 3)
	testutil.AssertEqual(t, p.Name(), "default")

	f, err := Go(func() (string, error) { return "hi", nil })
	testutil.AssertNoError(t, err)
	v, err := f.Get()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, v, "hi")

	ShutdownDefault()
	_, err = p.Submit(func() error { return nil })
	testutil.AssertErrorIs(t, err, tperrors.ErrClosed)

	if Default() == p {
		t.Error("Default after shutdown should create a fresh pool")
	}
}

func TestDeferred(t *testing.T) {
	p := startedPool(t, 1)
	defer p.Finish()

	d, err := NewDeferred(p, func() (int, error) { return 11, nil })
	testutil.AssertNoError(t, err)
	if d.Pool() != p {
		t.Error("deferred value bound to the wrong pool")
	}

	v, err := d.Get()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, v, 11)
	testutil.AssertEqual(t, d.Wait(0).String(), "ready")
	testutil.AssertEqual(t, d.Future().IsReady(), true)
}

func TestDefaultPoolStartFailure(t *testing.T) {
	ShutdownDefault()
	defer ShutdownDefault()

	var logs bytes.Buffer
	hookErr := errors.New("no workers allowed")
	orig := defaultConfig
	defaultConfig = func() Config {
		cfg := orig()
		cfg.Logger = slog.New(slog.NewTextHandler(&logs, nil))
		cfg.OnWorkerStart = func(int) error { return hookErr }
		return cfg
	}
	defer func() { defaultConfig = orig }()

	func() {
		defer func() {
			r := recover()
			err, ok := r.(error)
			if !ok {
				t.Fatalf("expected panic with an error, got %v", r)
			}
			testutil.AssertErrorIs(t, err, hookErr)
		}()
		Default()
	}()

	if !strings.Contains(logs.String(), "default pool failed to start") {
		t.Errorf("start failure not logged: %q", logs.String())
	}

	defaultConfig = orig
	p := Default()
	testutil.AssertEqual(t, p.Size() > 0, true)
}

func TestDeferredWaitWithElapsedDeadline(t *testing.T) {
	p := startedPool(t, 1)
	defer p.Finish()

	release := make(chan struct{})
	d, err := NewDeferred(p, func() (int, error) {
		<-release
		return 4, nil
	})
	testutil.AssertNoError(t, err)

	deadline := time.Now().Add(-time.Millisecond)
	testutil.AssertEqual(t, d.Wait(time.Until(deadline)), future.StatusTimeout)

	close(release)
	testutil.AssertEqual(t, d.Wait(time.Second), future.StatusReady)
}

func TestDeferredRejectsNilPool(t *testing.T) {
	var p *Pool
	_, err := NewDeferred(p, func() (int, error) { return 0, nil })
	if !tperrors.IsValidationError(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestDeferredOnClosedPool(t *testing.T) {
	p := startedPool(t, 1)
	p.Finish()

	_, err := NewDeferred(p, func() (int, error) { return 0, nil })
	testutil.AssertErrorIs(t, err, tperrors.ErrClosed)
}

func TestDeferDefault(t *testing.T) {
	ShutdownDefault()
	defer ShutdownDefault()

	d, err := DeferDefault(func() (int, error) { return 4, nil })
	testutil.AssertNoError(t, err)
	if d.Pool() != Default() {
		t.Error("DeferDefault should use the default pool")
	}
	v, err := d.Get()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, v, 4)
}
