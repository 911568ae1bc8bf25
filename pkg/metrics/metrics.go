// Package metrics provides an in-process metrics registry used by the
// analysis checks and the run reports.
package metrics

import (
	"sort"
	"strconv"
	"sync"
	"time"
)

// Registry holds named metrics for a run.
type Registry struct {
	mu      sync.RWMutex
	metrics map[string]Metric
	enabled bool
	labels  map[string]string
}

// Metric is the interface implemented by all metric types.
type Metric interface {
	GetName() string
	GetType() string
	GetValue() interface{}
	GetHelp() string
	GetLabels() map[string]string
}

// Counter is a monotonically increasing counter.
type Counter struct {
	name   string
	help   string
	labels map[string]string
	mu     sync.RWMutex
	value  int64
}

// Gauge is a value that can go up and down.
type Gauge struct {
	name   string
	help   string
	labels map[string]string
	mu     sync.RWMutex
	value  int64
}

// Histogram tracks the distribution of observed values.
type Histogram struct {
	name    string
	help    string
	labels  map[string]string
	buckets []float64
	mu      sync.RWMutex
	counts  []int64
	sum     float64
	total   int64
}

// Timer tracks durations of operations.
type Timer struct {
	name      string
	help      string
	labels    map[string]string
	mu        sync.RWMutex
	durations []time.Duration
}

var (
	globalRegistry *Registry
	globalOnce     sync.Once
)

// GetRegistry returns the global metrics registry.
func GetRegistry() *Registry {
	globalOnce.Do(func() {
		globalRegistry = NewRegistry()
	})
	return globalRegistry
}

// NewRegistry creates a new metrics registry.
func NewRegistry() *Registry {
	return &Registry{
		metrics: make(map[string]Metric),
		enabled: true,
		labels:  make(map[string]string),
	}
}

// SetEnabled enables or disables metrics collection.
func (r *Registry) SetEnabled(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enabled = enabled
}

// IsEnabled returns whether metrics collection is enabled.
func (r *Registry) IsEnabled() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.enabled
}

// AddGlobalLabel adds a label applied to all new metrics.
func (r *Registry) AddGlobalLabel(key, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.labels[key] = value
}

func (r *Registry) mergedLabels(labels map[string]string) map[string]string {
	merged := make(map[string]string, len(r.labels)+len(labels))
	for k, v := range r.labels {
		merged[k] = v
	}
	for k, v := range labels {
		merged[k] = v
	}
	return merged
}

// NewCounter creates or returns an existing counter.
func (r *Registry) NewCounter(name, help string, labels map[string]string) *Counter {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.metrics[name]; ok {
		if counter, ok := existing.(*Counter); ok {
			return counter
		}
	}

	counter := &Counter{
		name:   name,
		help:   help,
		labels: r.mergedLabels(labels),
	}
	r.metrics[name] = counter
	return counter
}

// NewGauge creates or returns an existing gauge.
func (r *Registry) NewGauge(name, help string, labels map[string]string) *Gauge {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.metrics[name]; ok {
		if gauge, ok := existing.(*Gauge); ok {
			return gauge
		}
	}

	gauge := &Gauge{
		name:   name,
		help:   help,
		labels: r.mergedLabels(labels),
	}
	r.metrics[name] = gauge
	return gauge
}

// NewHistogram creates or returns an existing histogram.
func (r *Registry) NewHistogram(name, help string, buckets []float64, labels map[string]string) *Histogram {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.metrics[name]; ok {
		if histogram, ok := existing.(*Histogram); ok {
			return histogram
		}
	}

	if len(buckets) == 0 {
		buckets = []float64{0.5, 1, 2, 3, 4, 5, 10}
	}
	sorted := make([]float64, len(buckets))
	copy(sorted, buckets)
	sort.Float64s(sorted)

	histogram := &Histogram{
		name:    name,
		help:    help,
		labels:  r.mergedLabels(labels),
		buckets: sorted,
		counts:  make([]int64, len(sorted)+1),
	}
	r.metrics[name] = histogram
	return histogram
}

// NewTimer creates or returns an existing timer.
func (r *Registry) NewTimer(name, help string, labels map[string]string) *Timer {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.metrics[name]; ok {
		if timer, ok := existing.(*Timer); ok {
			return timer
		}
	}

	timer := &Timer{
		name:   name,
		help:   help,
		labels: r.mergedLabels(labels),
	}
	r.metrics[name] = timer
	return timer
}

// GetMetrics returns all registered metrics.
func (r *Registry) GetMetrics() map[string]Metric {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]Metric, len(r.metrics))
	for name, metric := range r.metrics {
		out[name] = metric
	}
	return out
}

// MetricValue is the serialized form of a metric.
type MetricValue struct {
	Type   string            `json:"type"`
	Help   string            `json:"help,omitempty"`
	Labels map[string]string `json:"labels,omitempty"`
	Value  interface{}       `json:"value"`
}

// Snapshot returns a serializable view of all metrics, suitable for
// embedding in run reports.
func (r *Registry) Snapshot() map[string]MetricValue {
	snapshot := make(map[string]MetricValue)
	for name, metric := range r.GetMetrics() {
		snapshot[name] = MetricValue{
			Type:   metric.GetType(),
			Help:   metric.GetHelp(),
			Labels: metric.GetLabels(),
			Value:  metric.GetValue(),
		}
	}
	return snapshot
}

// Inc increments the counter by 1.
func (c *Counter) Inc() {
	c.Add(1)
}

// Add adds a value to the counter.
func (c *Counter) Add(value int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value += value
}

// GetName returns the metric name
func (c *Counter) GetName() string { return c.name }

// GetType returns the metric type
func (c *Counter) GetType() string { return "counter" }

// GetValue returns the current value
func (c *Counter) GetValue() interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// GetHelp returns the help text
func (c *Counter) GetHelp() string { return c.help }

// GetLabels returns the labels
func (c *Counter) GetLabels() map[string]string { return c.labels }

// Set sets the gauge value.
func (g *Gauge) Set(value int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.value = value
}

// Inc increments the gauge by 1.
func (g *Gauge) Inc() { g.Add(1) }

// Dec decrements the gauge by 1.
func (g *Gauge) Dec() { g.Add(-1) }

// Add adds a value to the gauge.
func (g *Gauge) Add(value int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.value += value
}

// GetName returns the metric name
func (g *Gauge) GetName() string { return g.name }

// GetType returns the metric type
func (g *Gauge) GetType() string { return "gauge" }

// GetValue returns the current value
func (g *Gauge) GetValue() interface{} {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.value
}

// GetHelp returns the help text
func (g *Gauge) GetHelp() string { return g.help }

// GetLabels returns the labels
func (g *Gauge) GetLabels() map[string]string { return g.labels }

// Observe records a value in the histogram.
func (h *Histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.sum += value
	h.total++

	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			return
		}
	}
	h.counts[len(h.buckets)]++
}

// GetName returns the metric name
func (h *Histogram) GetName() string { return h.name }

// GetType returns the metric type
func (h *Histogram) GetType() string { return "histogram" }

// GetValue returns bucket counts plus sum and count
func (h *Histogram) GetValue() interface{} {
	h.mu.RLock()
	defer h.mu.RUnlock()

	buckets := make(map[string]int64, len(h.buckets)+1)
	for i, bound := range h.buckets {
		buckets[strconv.FormatFloat(bound, 'g', -1, 64)] = h.counts[i]
	}
	buckets["+Inf"] = h.counts[len(h.buckets)]

	return map[string]interface{}{
		"buckets": buckets,
		"sum":     h.sum,
		"count":   h.total,
	}
}

// GetHelp returns the help text
func (h *Histogram) GetHelp() string { return h.help }

// GetLabels returns the labels
func (h *Histogram) GetLabels() map[string]string { return h.labels }

// Start begins timing and returns a function that records the elapsed
// duration when called.
func (t *Timer) Start() func() {
	start := time.Now()
	return func() {
		t.Record(time.Since(start))
	}
}

// Record records a duration.
func (t *Timer) Record(duration time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.durations = append(t.durations, duration)

	// Keep only the last 1000 measurements.
	if len(t.durations) > 1000 {
		t.durations = t.durations[len(t.durations)-1000:]
	}
}

// GetName returns the metric name
func (t *Timer) GetName() string { return t.name }

// GetType returns the metric type
func (t *Timer) GetType() string { return "timer" }

// GetValue returns timer statistics in milliseconds
func (t *Timer) GetValue() interface{} {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if len(t.durations) == 0 {
		return map[string]interface{}{
			"count": 0,
			"min":   0,
			"max":   0,
			"avg":   0,
		}
	}

	var total time.Duration
	min := t.durations[0]
	max := t.durations[0]
	for _, d := range t.durations {
		total += d
		if d < min {
			min = d
		}
		if d > max {
			max = d
		}
	}
	avg := total / time.Duration(len(t.durations))

	return map[string]interface{}{
		"count": len(t.durations),
		"min":   min.Milliseconds(),
		"max":   max.Milliseconds(),
		"avg":   avg.Milliseconds(),
	}
}

// GetHelp returns the help text
func (t *Timer) GetHelp() string { return t.help }

// GetLabels returns the labels
func (t *Timer) GetLabels() map[string]string { return t.labels }

// Convenience constructors using the global registry

// NewCounter creates a counter in the global registry
func NewCounter(name, help string, labels map[string]string) *Counter {
	return GetRegistry().NewCounter(name, help, labels)
}

// NewGauge creates a gauge in the global registry
func NewGauge(name, help string, labels map[string]string) *Gauge {
	return GetRegistry().NewGauge(name, help, labels)
}

// NewHistogram creates a histogram in the global registry
func NewHistogram(name, help string, buckets []float64, labels map[string]string) *Histogram {
	return GetRegistry().NewHistogram(name, help, buckets, labels)
}

// NewTimer creates a timer in the global registry
func NewTimer(name, help string, labels map[string]string) *Timer {
	return GetRegistry().NewTimer(name, help, labels)
}
