// Package quota tracks how many calls were made to a metered API today.
// The count lives in a small JSON file so it survives between runs and
// resets on the first call of a new local day.
package quota

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/seenimoa/insiderscan/pkg/utils"
)

// usage is the on-disk document.
type usage struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Counter is a per-day call counter persisted at Path.
type Counter struct {
	path string
	now  func() time.Time
	mu   sync.Mutex
}

// Option configures a Counter.
type Option func(*Counter)

// WithClock replaces the clock used to decide the current day.
func WithClock(now func() time.Time) Option {
	return func(c *Counter) { c.now = now }
}

// NewCounter creates a counter stored at path.
func NewCounter(path string, opts ...Option) *Counter {
	c := &Counter{path: path, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Path returns the backing file.
func (c *Counter) Path() string { return c.path }

// Increment records one call and returns today's total.
func (c *Counter) Increment() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	today := c.now().Format(utils.ISODate)
	u := c.load()
	if u.Date != today {
		u = usage{Date: today}
	}
	u.Count++
	if err := c.save(u); err != nil {
		return u.Count, err
	}
	return u.Count, nil
}

// Count returns today's total, or 0 when the file is missing, unreadable
// or from another day.
func (c *Counter) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	u := c.load()
	if u.Date != c.now().Format(utils.ISODate) {
		return 0
	}
	return u.Count
}

// load never fails: a missing or corrupt file reads as no usage.
func (c *Counter) load() usage {
	var u usage
	data, err := os.ReadFile(c.path)
	if err != nil {
		return usage{}
	}
	if err := json.Unmarshal(data, &u); err != nil {
		return usage{}
	}
	return u
}

func (c *Counter) save(u usage) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create usage dir: %w", err)
	}
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode usage: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("write usage %s: %w", c.path, err)
	}
	return nil
}
