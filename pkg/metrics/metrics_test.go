package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPoolMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewRegistry(reg).ForPool("unit")

	m.SetWorkers(4)
	m.Busy()
	m.Busy()
	m.Busy()
	m.Idle()
	m.Submitted()
	m.Submitted()
	m.Dequeued(1)
	m.Cancelled(3)
	m.Cancelled(0)
	m.Started(0.01)
	m.Finished(0.2, false, false)
	m.Finished(0.1, true, false)
	m.Finished(0.1, true, true)

	checks := []struct {
		name string
		c    prometheus.Collector
		want float64
	}{
		{"workers", m.workers, 4},
		{"active", m.active, 2},
		{"queued", m.queued, 1},
		{"submitted", m.submitted, 2},
		{"cancelled", m.cancelled, 3},
		{"completed", m.completed, 1},
		{"failed", m.failed, 2},
		{"panicked", m.panicked, 1},
	}
	for _, c := range checks {
		if got := promtest.ToFloat64(c.c); got != c.want {
			t.Errorf("%s = %v, want %v", c.name, got, c.want)
		}
	}

	if n := promtest.CollectAndCount(reg, "taskpool_pool_task_duration_seconds"); n != 1 {
		t.Errorf("expected one duration series, got %d", n)
	}
}

func TestNilPoolMetrics(t *testing.T) {
	var r *Registry
	m := r.ForPool("none")

	// all calls are no-ops on nil
	m.SetWorkers(1)
	m.Busy()
	m.Dequeued(2)
	m.Submitted()
	m.Finished(1, true, true)
}

func TestConfigBuild(t *testing.T) {
	if (Config{Enabled: false}).Build() != nil {
		t.Error("disabled config should build nil registry")
	}

	reg := prometheus.NewRegistry()
	built := Config{Enabled: true, Registry: reg, Namespace: "custom"}.Build()
	built.ForPool("p").Submitted()

	if n := promtest.CollectAndCount(reg, "custom_pool_tasks_submitted_total"); n != 1 {
		t.Errorf("expected custom namespace metric, got %d series", n)
	}

	if DefaultConfig().Build() != Default() {
		t.Error("default registerer should map to the shared registry")
	}
}
