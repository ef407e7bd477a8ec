// control/config.go
// Author: momentics <momentics@gmail.com>
//
// Ring configuration: defaults, YAML loading, validation, and a thread-safe
// store with reload listeners.

package control

import (
	"os"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/momentics/circfifo/api"
	"github.com/momentics/circfifo/pool"
)

// Config holds the parameters of one ring and the loop that feeds it.
type Config struct {
	Capacity    int           `yaml:"capacity"`     // Physical ring capacity in bytes; usable is one less
	ChunkSize   int           `yaml:"chunk_size"`   // Largest single Write/Read issued by adapters
	Storage     string        `yaml:"storage"`      // Backing allocator: "heap" or "mmap"
	Concurrent  bool          `yaml:"concurrent"`   // Run producer and consumer on separate goroutines
	MaxBackoff  time.Duration `yaml:"max_backoff"`  // Upper bound of pump idle sleep
	ProducerCPU int           `yaml:"producer_cpu"` // CPU to pin the producer to in concurrent mode, -1 for none
	ConsumerCPU int           `yaml:"consumer_cpu"` // CPU to pin the consumer to in concurrent mode, -1 for none
	LogLevel    string        `yaml:"log_level"`    // zap level name
}

// DefaultConfig returns default configuration values.
func DefaultConfig() *Config {
	return &Config{
		Capacity:    64 * 1024,     // 64 KiB ring
		ChunkSize:   4 * 1024,      // 4 KiB per transfer
		Storage:     pool.KindHeap, // Go heap backing
		Concurrent:  false,         // Single goroutine copy loop
		MaxBackoff:  time.Millisecond,
		ProducerCPU: -1,
		ConsumerCPU: -1,
		LogLevel:    "info",
	}
}

// Validate reports the first invalid field as ErrInvalidArgument.
func (c *Config) Validate() error {
	switch {
	case c.Capacity < 2:
		return api.InvalidArgument("config", "capacity must be at least 2").
			WithContext("capacity", c.Capacity)
	case c.ChunkSize < 1:
		return api.InvalidArgument("config", "chunk_size must be positive").
			WithContext("chunk_size", c.ChunkSize)
	case c.Storage != pool.KindHeap && c.Storage != pool.KindMmap:
		return api.InvalidArgument("config", "unknown storage kind").
			WithContext("storage", c.Storage)
	case c.MaxBackoff < 0:
		return api.InvalidArgument("config", "max_backoff must not be negative").
			WithContext("max_backoff", c.MaxBackoff)
	case c.ProducerCPU < -1 || c.ConsumerCPU < -1:
		return api.InvalidArgument("config", "cpu pin must be -1 or a cpu index").
			WithContext("producer_cpu", c.ProducerCPU).
			WithContext("consumer_cpu", c.ConsumerCPU)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return api.InvalidArgument("config", "unknown log level").
			WithContext("log_level", c.LogLevel)
	}
	return nil
}

// Level returns the parsed log level. Call Validate first.
func (c *Config) Level() zapcore.Level {
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

// ParseConfig overlays YAML data on the defaults and validates the result.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	return ParseConfig(data)
}

// ConfigStore keeps the current Config and notifies listeners on change.
type ConfigStore struct {
	mu        sync.RWMutex
	config    Config
	listeners []func(Config)
}

// NewConfigStore initializes a store holding cfg, or the defaults when nil.
func NewConfigStore(cfg *Config) *ConfigStore {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &ConfigStore{config: *cfg}
}

// GetSnapshot returns a copy of the current config.
func (cs *ConfigStore) GetSnapshot() Config {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.config
}

// Update applies fn to a copy of the config, validates it, stores it and
// calls every listener with the new value. An invalid result is discarded.
func (cs *ConfigStore) Update(fn func(*Config)) error {
	cs.mu.Lock()
	next := cs.config
	fn(&next)
	if err := next.Validate(); err != nil {
		cs.mu.Unlock()
		return err
	}
	cs.config = next
	listeners := append([]func(Config){}, cs.listeners...)
	cs.mu.Unlock()

	for _, l := range listeners {
		l(next)
	}
	return nil
}

// OnReload registers a listener hook called on config changes.
func (cs *ConfigStore) OnReload(fn func(Config)) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.listeners = append(cs.listeners, fn)
}
