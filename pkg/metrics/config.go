package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the registry bound to prometheus.DefaultRegisterer,
// creating it on first use. Metrics can only be registered once per
// registerer, so every component sharing the default registerer shares it.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry(prometheus.DefaultRegisterer)
	})
	return defaultRegistry
}

// Config holds configuration for metrics collection.
type Config struct {
	// Enabled controls whether metrics collection is active.
	Enabled bool

	// Registry is the Prometheus registry to use. If nil, uses prometheus.DefaultRegisterer.
	Registry prometheus.Registerer

	// Namespace overrides the default "taskpool" namespace for metrics.
	Namespace string

	// Labels are constant labels added to all metrics.
	Labels prometheus.Labels
}

// DefaultConfig returns a default metrics configuration.
func DefaultConfig() Config {
	return Config{
		Enabled:   true,
		Registry:  prometheus.DefaultRegisterer,
		Namespace: DefaultNamespace,
	}
}

// Build creates a Registry from the configuration, or returns nil when
// metrics are disabled.
func (c Config) Build() *Registry {
	if !c.Enabled {
		return nil
	}
	reg := c.Registry
	if reg == nil || reg == prometheus.DefaultRegisterer {
		return Default()
	}
	return NewRegistryWithOptions(reg, c.Namespace, c.Labels)
}
