// Package options loads candidate values for filter properties whose options
// come from an asynchronous source. Requests are debounced per property,
// overlapping fetches for one property are skipped, and results are cached
// per property as one entry that is replaced, never merged.
package options

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/oakwood-commons/fxed/pkg/filter"
)

// DefaultDebounce is the quiet period before a fetch starts.
const DefaultDebounce = 300 * time.Millisecond

// Entry is the cached result of one search for one property.
type Entry struct {
	Options []filter.Option
	Search  string
}

// Cache owns the pending timers, in-flight flags, results and errors of one
// editor scope. It is safe for concurrent use; timers fire on their own goroutines.
type Cache struct {
	debounce time.Duration
	log      logr.Logger
	notify   func(name string)
	metrics  *cacheMetrics

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	closed  bool
	timers  map[string]*time.Timer
	gens    map[string]uint64
	loading map[string]bool
	entries map[string]Entry
	errs    map[string]string
}

// Option configures a Cache.
type Option func(*Cache)

// WithDebounce overrides the debounce window.
func WithDebounce(d time.Duration) Option {
	return func(c *Cache) {
		if d >= 0 {
			c.debounce = d
		}
	}
}

// WithLogger sets the logger used for fetch diagnostics.
func WithLogger(lgr logr.Logger) Option {
	return func(c *Cache) {
		c.log = lgr
	}
}

// WithNotify registers a callback invoked, without locks held, whenever a
// property starts or finishes loading.
func WithNotify(fn func(name string)) Option {
	return func(c *Cache) {
		c.notify = fn
	}
}

// WithMetrics registers fetch, hit and skip counters with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *Cache) {
		c.metrics = newCacheMetrics(reg)
	}
}

// New creates a cache bound to ctx; cancelling ctx has the same effect on
// in-flight fetches as Close.
func New(ctx context.Context, opts ...Option) *Cache {
	c := &Cache{
		debounce: DefaultDebounce,
		log:      logr.Discard(),
		timers:   make(map[string]*time.Timer),
		gens:     make(map[string]uint64),
		loading:  make(map[string]bool),
		entries:  make(map[string]Entry),
		errs:     make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.metrics == nil {
		c.metrics = newCacheMetrics(nil)
	}
	c.ctx, c.cancel = context.WithCancel(ctx)
	return c
}

// Load requests options for property p matching search. Static and
// synchronous sources are ignored. An exact (name, search) cache hit returns
// immediately and drops any pending request for p; otherwise the fetch is
// scheduled after the debounce window, replacing any request still pending
// for p. When the timer fires while p is already loading the request is dropped.
func (c *Cache) Load(p filter.Property, search string) {
	fetch, ok := p.Options.(filter.AsyncOptions)
	if !ok || fetch == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	if e, ok := c.entries[p.Name]; ok && e.Search == search {
		c.stopLocked(p.Name)
		c.metrics.hits.WithLabelValues(p.Name).Inc()
		return
	}

	c.stopLocked(p.Name)
	gen := c.gens[p.Name]
	c.timers[p.Name] = time.AfterFunc(c.debounce, func() {
		c.fire(p, fetch, search, gen)
	})
}

func (c *Cache) stopLocked(name string) {
	if t, ok := c.timers[name]; ok {
		t.Stop()
		delete(c.timers, name)
	}
	c.gens[name]++
}

func (c *Cache) fire(p filter.Property, fetch filter.AsyncOptions, search string, gen uint64) {
	c.mu.Lock()
	if c.closed || c.gens[p.Name] != gen {
		c.mu.Unlock()
		return
	}
	delete(c.timers, p.Name)
	if c.loading[p.Name] {
		c.mu.Unlock()
		c.metrics.skipped.WithLabelValues(p.Name).Inc()
		c.log.V(1).Info("skipping option fetch, previous fetch still running", "property", p.Name, "search", search)
		return
	}
	c.loading[p.Name] = true
	ctx := c.ctx
	c.mu.Unlock()
	c.emit(p.Name)

	start := time.Now()
	raw, err := fetch(ctx, search)

	c.mu.Lock()
	delete(c.loading, p.Name)
	if c.closed {
		c.mu.Unlock()
		return
	}
	if err != nil {
		c.errs[p.Name] = fmt.Sprintf("failed to load options for %s: %v", p.DisplayLabel(), err)
	} else {
		c.entries[p.Name] = Entry{Options: filter.NormalizeOptions(raw), Search: search}
		delete(c.errs, p.Name)
	}
	c.mu.Unlock()

	if err != nil {
		c.metrics.fetches.WithLabelValues(p.Name, "error").Inc()
		c.log.Error(err, "option fetch failed", "property", p.Name, "search", search)
	} else {
		c.metrics.fetches.WithLabelValues(p.Name, "ok").Inc()
		c.log.V(1).Info("options loaded", "property", p.Name, "search", search, "count", len(raw), "elapsed", time.Since(start).String())
	}
	c.emit(p.Name)
}

func (c *Cache) emit(name string) {
	if c.notify != nil {
		c.notify(name)
	}
}

// Resolve returns the options to show for p and search: static and sync
// sources are resolved directly, async sources only from an exact cache hit.
func (c *Cache) Resolve(p filter.Property, search string) []filter.Option {
	if !p.IsAsync() {
		return p.StaticResolve(search)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[p.Name]; ok && e.Search == search {
		return append([]filter.Option(nil), e.Options...)
	}
	return nil
}

// Entry returns the cached entry for a property.
func (c *Cache) Entry(name string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[name]
	return e, ok
}

// Pending reports whether a debounced request is waiting for name.
func (c *Cache) Pending(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.timers[name]
	return ok
}

// Loading reports whether a fetch for name is in flight.
func (c *Cache) Loading(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading[name]
}

// IsLoading reports whether any fetch is in flight.
func (c *Cache) IsLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.loading) > 0
}

// Error returns the last fetch error message for name, or "".
func (c *Cache) Error(name string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errs[name]
}

// Err joins the current per-property errors, ordered by property name.
func (c *Cache) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.errs) == 0 {
		return nil
	}
	names := make([]string, 0, len(c.errs))
	for name := range c.errs {
		names = append(names, name)
	}
	sort.Strings(names)
	errs := make([]error, 0, len(names))
	for _, name := range names {
		errs = append(errs, errors.New(c.errs[name]))
	}
	return errors.Join(errs...)
}

// Close stops every pending timer and cancels in-flight fetches. Later
// Load calls do nothing.
func (c *Cache) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	for name, t := range c.timers {
		t.Stop()
		delete(c.timers, name)
	}
	c.mu.Unlock()
	c.cancel()
}
