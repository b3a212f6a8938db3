package threadpool

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	tperrors "github.com/vnykmshr/taskpool/pkg/common/errors"
)

// EnvName overrides the configured pool name.
const EnvName = "TASKPOOL_NAME"

// FileConfig is the on-disk layout of a pool configuration file.
type FileConfig struct {
	Pool PoolFileConfig `yaml:"pool" json:"pool"`
}

// PoolFileConfig holds the serializable subset of Config.
type PoolFileConfig struct {
	Name         string  `yaml:"name" json:"name"`
	Workers      int     `yaml:"workers" json:"workers"`
	RateLimit    float64 `yaml:"rate_limit" json:"rate_limit"`
	RateBurst    int     `yaml:"rate_burst" json:"rate_burst"`
	LockOSThread bool    `yaml:"lock_os_thread" json:"lock_os_thread"`
	PinWorkers   bool    `yaml:"pin_workers" json:"pin_workers"`
}

// LoadFile reads a YAML (.yaml, .yml) or JSON (.json) configuration file.
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fc FileConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	return &fc, nil
}

// Config converts the file settings into a pool Config.
func (fc *FileConfig) Config() Config {
	return Config{
		Name:         fc.Pool.Name,
		Workers:      fc.Pool.Workers,
		RateLimit:    fc.Pool.RateLimit,
		RateBurst:    fc.Pool.RateBurst,
		LockOSThread: fc.Pool.LockOSThread,
		PinWorkers:   fc.Pool.PinWorkers,
	}
}

// LoadConfig reads path, applies environment overrides and validates the
// result.
func LoadConfig(path string) (Config, error) {
	fc, err := LoadFile(path)
	if err != nil {
		return Config{}, err
	}

	cfg := fc.Config()
	if err := ApplyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overrides cfg with TASKPOOL_NAME and TASKPOOL_WORKERS when set.
func ApplyEnv(cfg *Config) error {
	if v := os.Getenv(EnvName); v != "" {
		cfg.Name = v
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return tperrors.NewValidationError(module, EnvWorkers, v, "not an integer")
		}
		cfg.Workers = n
	}
	return nil
}
