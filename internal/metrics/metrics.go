// Package metrics exposes Prometheus collectors for batch loads,
// validation runs, tool calls and HTTP requests.
//
// A nil *Collector is valid and records nothing, so callers do not need to
// check whether metrics are enabled.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JonMunkholm/cfop/internal/core"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "cfop"

// Collector owns a private registry and the application's metrics.
type Collector struct {
	registry *prometheus.Registry

	batchLoads        *prometheus.CounterVec
	batchLoadDuration *prometheus.HistogramVec
	batchRows         *prometheus.GaugeVec
	loadWarnings      prometheus.Counter

	validationRuns     prometheus.Counter
	itemsValidated     prometheus.Counter
	discrepanciesFound prometheus.Counter
	lastDiscrepancies  prometheus.Gauge

	toolCalls *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// NewCollector registers the collectors on reg. A nil reg creates a fresh
// registry that also carries the Go runtime and process collectors.
func NewCollector(namespace string, reg *prometheus.Registry) *Collector {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	c := &Collector{
		registry: reg,

		batchLoads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "batch_loads_total",
				Help:      "Batch loads by source and result",
			},
			[]string{"source", "result"},
		),
		batchLoadDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "batch_load_duration_seconds",
				Help:      "Time spent parsing a batch",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~20s
			},
			[]string{"source"},
		),
		batchRows: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "batch_rows",
				Help:      "Rows per table in the active batch",
			},
			[]string{"table"},
		),
		loadWarnings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "load_warnings_total",
			Help:      "Malformed cells loaded as-is",
		}),
		validationRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_runs_total",
			Help:      "Full-batch validation runs",
		}),
		itemsValidated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_validated_total",
			Help:      "Line items analyzed by validation runs",
		}),
		discrepanciesFound: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discrepancies_total",
			Help:      "Discrepancies reported by validation runs",
		}),
		lastDiscrepancies: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_validation_discrepancies",
			Help:      "Discrepancies found by the most recent validation run",
		}),
		toolCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tool_calls_total",
				Help:      "Tool invocations by tool and result",
			},
			[]string{"tool", "result"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}

	reg.MustRegister(
		c.batchLoads, c.batchLoadDuration, c.batchRows, c.loadWarnings,
		c.validationRuns, c.itemsValidated, c.discrepanciesFound, c.lastDiscrepancies,
		c.toolCalls, c.httpRequests, c.httpDuration,
	)
	return c
}

// Registry returns the registry backing the collector.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// ObserveLoad records a batch load attempt.
func (c *Collector) ObserveLoad(source string, d time.Duration, warnings int, err error) {
	if c == nil {
		return
	}
	c.batchLoads.WithLabelValues(source, result(err)).Inc()
	if err != nil {
		return
	}
	c.batchLoadDuration.WithLabelValues(source).Observe(d.Seconds())
	c.loadWarnings.Add(float64(warnings))
}

// SetActiveBatch publishes the table sizes of the active batch. A nil
// batch resets them to zero.
func (c *Collector) SetActiveBatch(b *core.Batch) {
	if c == nil {
		return
	}
	for _, table := range []core.TableName{core.TableHeaders, core.TableItems, core.TableReference} {
		n := 0
		if b != nil {
			n = b.Count(table)
		}
		c.batchRows.WithLabelValues(string(table)).Set(float64(n))
	}
}

// ObserveValidation records a full-batch validation run.
func (c *Collector) ObserveValidation(r core.ValidationReport) {
	if c == nil {
		return
	}
	c.validationRuns.Inc()
	c.itemsValidated.Add(float64(r.TotalAnalyzed))
	c.discrepanciesFound.Add(float64(r.DiscrepancyCount))
	c.lastDiscrepancies.Set(float64(r.DiscrepancyCount))
}

// ObserveTool records a tool invocation.
func (c *Collector) ObserveTool(name string, err error) {
	if c == nil {
		return
	}
	c.toolCalls.WithLabelValues(name, result(err)).Inc()
}

// ObserveHTTP records a served request. route is the matched pattern, not
// the raw path, to keep label cardinality bounded.
func (c *Collector) ObserveHTTP(method, route string, status int, d time.Duration) {
	if c == nil {
		return
	}
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
