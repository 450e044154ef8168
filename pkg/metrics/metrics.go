// Package metrics provides Prometheus instrumentation for Triton's object
// storage core.
//
// # Overview
//
// Pools and factories report through a small recorder handle bound to
// their name, so the hot paths only touch pre-resolved label children:
//
//	rec := metrics.NewPoolRecorder("actors", "Actor")
//	rec.Lookup(metrics.LookupCacheHit)
//	rec.SetLive(128)
//
// The vectors are registered once with the default registry through
// promauto and exposed by whatever HTTP handler the host application
// mounts.
//
// # Performance Considerations
//
// Label children are resolved when the recorder is built, so recording is
// a single atomic add or store.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// LookupResult labels the path a pool lookup took.
type LookupResult string

const (
	// LookupCacheHit is a lookup answered by the hash cache
	LookupCacheHit LookupResult = "cache_hit"
	// LookupFallback is a lookup answered by the linear scan
	LookupFallback LookupResult = "fallback"
	// LookupMiss is a lookup for an identifier not in the pool
	LookupMiss LookupResult = "miss"
)

var (
	// PoolLiveElements tracks the live element count of each pool.
	// Labels: pool, type
	PoolLiveElements = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "triton",
			Subsystem: "pool",
			Name:      "live_elements",
			Help:      "Number of live elements in the pool",
		},
		[]string{"pool", "type"},
	)

	// PoolChunks tracks the allocated chunk count of each pool.
	PoolChunks = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "triton",
			Subsystem: "pool",
			Name:      "chunks",
			Help:      "Number of allocated chunks in the pool",
		},
		[]string{"pool", "type"},
	)

	// PoolLookups counts lookups by the path that answered them.
	// Labels: pool, type, result (cache_hit/fallback/miss)
	PoolLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "triton",
			Subsystem: "pool",
			Name:      "lookups_total",
			Help:      "Total identifier lookups by result",
		},
		[]string{"pool", "type", "result"},
	)

	// PoolCapacityFailures counts Add calls rejected at the chunk ceiling.
	PoolCapacityFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "triton",
			Subsystem: "pool",
			Name:      "capacity_failures_total",
			Help:      "Total Add calls rejected because the pool was full",
		},
		[]string{"pool", "type"},
	)

	// FactoryCreated counts successful creations.
	// Labels: type, ownership (owned/external)
	FactoryCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "triton",
			Subsystem: "factory",
			Name:      "created_total",
			Help:      "Total objects created by factories",
		},
		[]string{"type", "ownership"},
	)

	// FactoryDestroyed counts destroyed objects.
	FactoryDestroyed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "triton",
			Subsystem: "factory",
			Name:      "destroyed_total",
			Help:      "Total objects destroyed by factories",
		},
		[]string{"type", "ownership"},
	)

	// FactoryFailures counts failed creations.
	// Labels: type, reason (counter/allocator/construct)
	FactoryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "triton",
			Subsystem: "factory",
			Name:      "failures_total",
			Help:      "Total failed object creations by reason",
		},
		[]string{"type", "reason"},
	)

	// OperationLatency tracks pool and factory operation latency in
	// nanoseconds. Only sampled by the bench command.
	OperationLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "triton",
			Name:      "operation_latency_nanoseconds",
			Help:      "Operation latency in nanoseconds",
			Buckets: []float64{
				10,    // 10ns - cache hits
				100,   // 100ns
				1000,  // 1μs
				10000, // 10μs - short fallback scans
				1e5,   // 100μs
				1e6,   // 1ms - long fallback scans
			},
		},
		[]string{"operation"},
	)
)

// PoolRecorder records the metrics of one pool.
type PoolRecorder struct {
	live     prometheus.Gauge
	chunks   prometheus.Gauge
	hits     prometheus.Counter
	fallback prometheus.Counter
	misses   prometheus.Counter
	full     prometheus.Counter
}

// NewPoolRecorder resolves the label children of a pool.
func NewPoolRecorder(pool, typ string) *PoolRecorder {
	return &PoolRecorder{
		live:     PoolLiveElements.WithLabelValues(pool, typ),
		chunks:   PoolChunks.WithLabelValues(pool, typ),
		hits:     PoolLookups.WithLabelValues(pool, typ, string(LookupCacheHit)),
		fallback: PoolLookups.WithLabelValues(pool, typ, string(LookupFallback)),
		misses:   PoolLookups.WithLabelValues(pool, typ, string(LookupMiss)),
		full:     PoolCapacityFailures.WithLabelValues(pool, typ),
	}
}

// SetLive records the live element count. Nil recorders are ignored.
func (r *PoolRecorder) SetLive(n int) {
	if r == nil {
		return
	}
	r.live.Set(float64(n))
}

// SetChunks records the chunk count.
func (r *PoolRecorder) SetChunks(n int) {
	if r == nil {
		return
	}
	r.chunks.Set(float64(n))
}

// Lookup counts one lookup.
func (r *PoolRecorder) Lookup(result LookupResult) {
	if r == nil {
		return
	}
	switch result {
	case LookupCacheHit:
		r.hits.Inc()
	case LookupFallback:
		r.fallback.Inc()
	default:
		r.misses.Inc()
	}
}

// Full counts one capacity failure.
func (r *PoolRecorder) Full() {
	if r == nil {
		return
	}
	r.full.Inc()
}

// FactoryRecorder records the metrics of one factory.
type FactoryRecorder struct {
	typ string
}

// NewFactoryRecorder returns a recorder labelled with the element type tag.
func NewFactoryRecorder(typ string) *FactoryRecorder {
	return &FactoryRecorder{typ: typ}
}

// Created counts one creation.
func (r *FactoryRecorder) Created(ownership string) {
	if r == nil {
		return
	}
	FactoryCreated.WithLabelValues(r.typ, ownership).Inc()
}

// Destroyed counts one destruction.
func (r *FactoryRecorder) Destroyed(ownership string) {
	if r == nil {
		return
	}
	FactoryDestroyed.WithLabelValues(r.typ, ownership).Inc()
}

// Failed counts one failed creation.
func (r *FactoryRecorder) Failed(reason string) {
	if r == nil {
		return
	}
	FactoryFailures.WithLabelValues(r.typ, reason).Inc()
}

// Timer provides a simple timing mechanism for measuring operation durations.
type Timer struct {
	start time.Time
	name  string
}

// NewTimer creates a new timer and starts timing immediately.
func NewTimer(name string) *Timer {
	return &Timer{
		start: time.Now(),
		name:  name,
	}
}

// Stop returns the elapsed duration since creation and observes it in
// OperationLatency under the timer's name.
func (t *Timer) Stop() time.Duration {
	duration := time.Since(t.start)
	OperationLatency.WithLabelValues(t.name).Observe(float64(duration.Nanoseconds()))
	return duration
}
