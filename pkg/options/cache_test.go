package options

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/fxed/pkg/filter"
)

const testDebounce = 20 * time.Millisecond

// recorder is an async option source that records every search it serves.
type recorder struct {
	mu       sync.Mutex
	searches []string
	result   []any
	err      error
	block    chan struct{}
}

func (r *recorder) fetch(ctx context.Context, search string) ([]any, error) {
	r.mu.Lock()
	r.searches = append(r.searches, search)
	block := r.block
	r.mu.Unlock()
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return r.result, r.err
}

func (r *recorder) calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.searches...)
}

func asyncProp(name string, r *recorder) filter.Property {
	return filter.Property{Label: "Label " + name, Name: name, Type: filter.TypeString, Options: filter.AsyncOptions(r.fetch)}
}

func newTestCache(t *testing.T, opts ...Option) *Cache {
	t.Helper()
	c := New(context.Background(), append([]Option{WithDebounce(testDebounce)}, opts...)...)
	t.Cleanup(c.Close)
	return c
}

func settle() { time.Sleep(5 * testDebounce) }

func TestDebounceCollapsesBursts(t *testing.T) {
	r := &recorder{result: []any{"abc-1", "abc-2"}}
	c := newTestCache(t)
	p := asyncProp("status", r)

	c.Load(p, "a")
	c.Load(p, "ab")
	c.Load(p, "abc")
	assert.True(t, c.Pending("status"))

	require.Eventually(t, func() bool {
		e, ok := c.Entry("status")
		return ok && e.Search == "abc"
	}, time.Second, 5*time.Millisecond)
	settle()

	assert.Equal(t, []string{"abc"}, r.calls())
	assert.False(t, c.Pending("status"))
	assert.Equal(t, []filter.Option{{Label: "abc-1", Value: "abc-1"}, {Label: "abc-2", Value: "abc-2"}}, c.Resolve(p, "abc"))
}

func TestExactCacheHitSkipsFetch(t *testing.T) {
	r := &recorder{result: []any{"x"}}
	reg := prometheus.NewRegistry()
	c := newTestCache(t, WithMetrics(reg))
	p := asyncProp("status", r)

	c.Load(p, "x")
	require.Eventually(t, func() bool { _, ok := c.Entry("status"); return ok }, time.Second, 5*time.Millisecond)

	c.Load(p, "x")
	assert.False(t, c.Pending("status"), "a hit must not schedule a fetch")
	settle()
	assert.Equal(t, []string{"x"}, r.calls())
	assert.InDelta(t, 1, testutil.ToFloat64(c.metrics.hits.WithLabelValues("status")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.metrics.fetches.WithLabelValues("status", "ok")), 0)

	// prefix of a cached search is a miss
	c.Load(p, "")
	require.Eventually(t, func() bool { return len(r.calls()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Nil(t, c.Resolve(p, "x"), "entry was replaced by the newer search")
}

func TestCacheHitDropsPendingRequest(t *testing.T) {
	r := &recorder{result: []any{"x"}}
	c := newTestCache(t)
	p := asyncProp("status", r)

	c.Load(p, "x")
	require.Eventually(t, func() bool { _, ok := c.Entry("status"); return ok }, time.Second, 5*time.Millisecond)

	c.Load(p, "xy")
	c.Load(p, "x")
	settle()
	assert.Equal(t, []string{"x"}, r.calls())
	e, _ := c.Entry("status")
	assert.Equal(t, "x", e.Search)
}

func TestInFlightFetchSkipsNewOne(t *testing.T) {
	r := &recorder{result: []any{"first"}, block: make(chan struct{})}
	c := newTestCache(t)
	p := asyncProp("status", r)

	c.Load(p, "first")
	require.Eventually(t, func() bool { return c.Loading("status") }, time.Second, 5*time.Millisecond)
	assert.True(t, c.IsLoading())

	c.Load(p, "second")
	require.Eventually(t, func() bool {
		return testutil.ToFloat64(c.metrics.skipped.WithLabelValues("status")) == 1
	}, time.Second, 5*time.Millisecond)

	close(r.block)
	require.Eventually(t, func() bool { return !c.IsLoading() }, time.Second, 5*time.Millisecond)

	assert.Equal(t, []string{"first"}, r.calls())
	e, ok := c.Entry("status")
	require.True(t, ok)
	assert.Equal(t, "first", e.Search)
}

func TestFetchErrorIsPropertyScoped(t *testing.T) {
	good := &recorder{result: []any{"ok"}}
	bad := &recorder{err: errors.New("boom")}
	c := newTestCache(t)
	gp := asyncProp("good", good)
	bp := asyncProp("bad", bad)

	c.Load(gp, "")
	require.Eventually(t, func() bool { _, ok := c.Entry("good"); return ok }, time.Second, 5*time.Millisecond)

	c.Load(bp, "")
	require.Eventually(t, func() bool { return c.Error("bad") != "" }, time.Second, 5*time.Millisecond)

	assert.Contains(t, c.Error("bad"), "Label bad")
	assert.Contains(t, c.Error("bad"), "boom")
	assert.Empty(t, c.Error("good"))
	_, ok := c.Entry("good")
	assert.True(t, ok, "other properties keep their cache")
	require.Error(t, c.Err())
	assert.Contains(t, c.Err().Error(), "Label bad")

	// a later success clears the error
	bad.mu.Lock()
	bad.err = nil
	bad.result = []any{"fine"}
	bad.mu.Unlock()
	c.Load(bp, "f")
	require.Eventually(t, func() bool { return c.Error("bad") == "" }, time.Second, 5*time.Millisecond)
	assert.NoError(t, c.Err())
}

func TestStaticSourcesAreIgnored(t *testing.T) {
	c := newTestCache(t)
	static := filter.Property{Name: "s", Options: filter.StaticOptions{{Label: "Alpha", Value: "a"}, {Label: "Beta", Value: "b"}}}
	c.Load(static, "a")
	assert.False(t, c.Pending("s"))
	assert.Equal(t, []filter.Option{{Label: "Beta", Value: "b"}}, c.Resolve(static, "bet"))

	none := filter.Property{Name: "n"}
	c.Load(none, "")
	assert.False(t, c.Pending("n"))
	assert.Nil(t, c.Resolve(none, ""))
}

func TestCloseCancelsPendingTimers(t *testing.T) {
	r := &recorder{result: []any{"x"}}
	c := New(context.Background(), WithDebounce(testDebounce))
	p := asyncProp("status", r)

	c.Load(p, "x")
	require.True(t, c.Pending("status"))
	c.Close()
	assert.False(t, c.Pending("status"))
	settle()
	assert.Empty(t, r.calls())

	c.Load(p, "y")
	assert.False(t, c.Pending("status"))
	c.Close()
}

func TestNotifyFiresOnStartAndFinish(t *testing.T) {
	r := &recorder{result: []any{"x"}}
	var mu sync.Mutex
	var names []string
	c := newTestCache(t, WithNotify(func(name string) {
		mu.Lock()
		names = append(names, name)
		mu.Unlock()
	}))

	c.Load(asyncProp("status", r), "x")
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(names) == 2
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"status", "status"}, names)
}
