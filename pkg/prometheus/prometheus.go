// Package prometheus reports sieve pipeline activity as Prometheus metrics.
//
//	reg := prometheus.NewRegistry()
//	metrics := sieveprom.New(reg, "sieve")
//	store := sieve.NewStore().Metrics(metrics)
//	view := sieve.NewView(store.Changes(), filters).Metrics(metrics)
package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/zoobzio/sieve"
)

// Provider implements sieve.MetricsProvider.
type Provider struct {
	SnapshotsTotal    prometheus.Counter
	SnapshotSize      prometheus.Gauge
	InputSettled      *prometheus.CounterVec
	InputSuppressed   *prometheus.CounterVec
	RecomputesTotal   prometheus.Counter
	RecomputeDuration prometheus.Histogram
	ViewMatched       prometheus.Gauge
	RecordsSkipped    prometheus.Counter
	FeedState         prometheus.Gauge
	FeedTransitions   *prometheus.CounterVec
	FeedChanges       prometheus.Counter
	FeedProcessed     *prometheus.CounterVec
	FeedDuration      *prometheus.HistogramVec
}

// New registers every sieve metric with reg under namespace.
func New(reg prometheus.Registerer, namespace string) *Provider {
	factory := promauto.With(reg)

	return &Provider{
		SnapshotsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "snapshots_total",
			Help:      "Total snapshots published by the store",
		}),
		SnapshotSize: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "records",
			Help:      "Number of records in the latest snapshot",
		}),
		InputSettled: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "input",
			Name:      "settled_total",
			Help:      "Filter input values that settled and were emitted",
		}, []string{"input"}),
		InputSuppressed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "input",
			Name:      "suppressed_total",
			Help:      "Settled filter input values dropped as unchanged",
		}, []string{"input"}),
		RecomputesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "view",
			Name:      "recomputes_total",
			Help:      "Total view recomputations",
		}),
		RecomputeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "view",
			Name:      "recompute_duration_seconds",
			Help:      "View recomputation latency in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 2, 14), // 10µs to ~80ms
		}),
		ViewMatched: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "view",
			Name:      "matched_records",
			Help:      "Records in the latest view output",
		}),
		RecordsSkipped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "view",
			Name:      "skipped_records_total",
			Help:      "Records excluded because their progress is not a number",
		}),
		FeedState: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "state",
			Help:      "Current feed state (0=loading, 1=healthy, 2=degraded, 3=empty)",
		}),
		FeedTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "state_transitions_total",
			Help:      "Feed state transitions",
		}, []string{"from", "to"}),
		FeedChanges: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "changes_total",
			Help:      "Raw documents received from the watcher",
		}),
		FeedProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "processed_total",
			Help:      "Processed documents by result",
		}, []string{"result"}),
		FeedDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "process_duration_seconds",
			Help:      "Document processing latency in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12), // 0.1ms to ~400ms
		}, []string{"result"}),
	}
}

func (p *Provider) OnSnapshotPublished(size int) {
	p.SnapshotsTotal.Inc()
	p.SnapshotSize.Set(float64(size))
}

func (p *Provider) OnInputSettled(input string) {
	p.InputSettled.WithLabelValues(input).Inc()
}

func (p *Provider) OnInputSuppressed(input string) {
	p.InputSuppressed.WithLabelValues(input).Inc()
}

func (p *Provider) OnRecompute(d time.Duration, _, matched int) {
	p.RecomputesTotal.Inc()
	p.RecomputeDuration.Observe(d.Seconds())
	p.ViewMatched.Set(float64(matched))
}

func (p *Provider) OnRecordSkipped() {
	p.RecordsSkipped.Inc()
}

func (p *Provider) OnStateChange(from, to sieve.State) {
	p.FeedState.Set(float64(to))
	p.FeedTransitions.WithLabelValues(from.String(), to.String()).Inc()
}

func (p *Provider) OnChangeReceived() {
	p.FeedChanges.Inc()
}

func (p *Provider) OnProcessSuccess(d time.Duration) {
	p.FeedProcessed.WithLabelValues("success").Inc()
	p.FeedDuration.WithLabelValues("success").Observe(d.Seconds())
}

// OnProcessFailure labels the result with the failing stage.
func (p *Provider) OnProcessFailure(stage string, d time.Duration) {
	p.FeedProcessed.WithLabelValues(stage).Inc()
	p.FeedDuration.WithLabelValues(stage).Observe(d.Seconds())
}

var _ sieve.MetricsProvider = (*Provider)(nil)
