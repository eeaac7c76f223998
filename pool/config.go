package pool

import (
	"fmt"
	"time"

	"gopkg.in/guregu/null.v3"

	"github.com/fairq/fairq/types"
)

const (
	// DefaultCapacity is the pool size used when Capacity is not set.
	DefaultCapacity = 5

	// DefaultTimeout is the checkout wait bound used when Timeout is not
	// set.
	DefaultTimeout = 30 * time.Second
)

// Config holds the serialisable pool settings. Unset fields fall back to
// the defaults at construction.
type Config struct {
	// Capacity is the number of resources the pool may have live at once.
	// Zero disables pooling altogether: every checkout provisions a fresh
	// resource and returns are dropped.
	Capacity null.Int `json:"capacity" envconfig:"FAIRQ_POOL_CAPACITY"`

	// Timeout bounds how long a checkout may wait for a free slot. Zero
	// fails an exhausted checkout immediately; a negative value waits
	// without bound.
	Timeout types.NullDuration `json:"timeout" envconfig:"FAIRQ_POOL_TIMEOUT"`
}

// NewConfig returns the default pool configuration. Every field carries its
// default but is left unset, so any later layer can override it.
func NewConfig() Config {
	return Config{
		Capacity: null.NewInt(DefaultCapacity, false),
		Timeout:  types.NewNullDuration(DefaultTimeout, false),
	}
}

// Apply returns c with cfg's set fields layered on top of it.
func (c Config) Apply(cfg Config) Config {
	if cfg.Capacity.Valid {
		c.Capacity = cfg.Capacity
	}
	if cfg.Timeout.Valid {
		c.Timeout = cfg.Timeout
	}
	return c
}

// Validate checks the configured values and returns all problems found.
func (c Config) Validate() []error {
	var errs []error
	if c.Capacity.Valid && c.Capacity.Int64 < 0 {
		errs = append(errs, fmt.Errorf("pool capacity must not be negative, got %d", c.Capacity.Int64))
	}
	return errs
}
