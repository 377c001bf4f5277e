// Package metrics exports PageList activity as Prometheus metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dshills/termcore/internal/screen/pagelist"
)

const namespace = "termcore"

// Collector holds the PageList metrics. It implements pagelist.Observer.
type Collector struct {
	PageEvents     *prometheus.CounterVec
	AllocatedBytes prometheus.Counter
	EvictedRows    prometheus.Counter
	GrownBytes     prometheus.Counter
	ReflowDuration prometheus.Histogram

	Pages      prometheus.Gauge
	Rows       prometheus.Gauge
	Bytes      prometheus.Gauge
	Styles     prometheus.Gauge
	Graphemes  prometheus.Gauge
	Hyperlinks prometheus.Gauge
}

var _ pagelist.Observer = (*Collector)(nil)

// New registers the metrics on reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	gauge := func(name, help string) prometheus.Gauge {
		return f.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Subsystem: "pagelist", Name: name, Help: help})
	}

	return &Collector{
		PageEvents: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "pagelist",
				Name:      "page_events_total",
				Help:      "Page lifecycle events by kind",
			},
			[]string{"event"},
		),
		AllocatedBytes: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pagelist",
			Name:      "allocated_bytes_total",
			Help:      "Bytes of page memory allocated",
		}),
		EvictedRows: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pagelist",
			Name:      "evicted_rows_total",
			Help:      "Scrollback rows dropped by eviction",
		}),
		GrownBytes: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pagelist",
			Name:      "grown_bytes_total",
			Help:      "Bytes added by growing full pages",
		}),
		ReflowDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pagelist",
			Name:      "reflow_duration_seconds",
			Help:      "Time spent rewrapping the page list",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		}),

		Pages:      gauge("pages", "Pages currently retained"),
		Rows:       gauge("rows", "Rows currently retained"),
		Bytes:      gauge("bytes", "Page memory currently retained"),
		Styles:     gauge("styles", "Styles interned across all pages"),
		Graphemes:  gauge("graphemes", "Cells carrying multi-codepoint graphemes"),
		Hyperlinks: gauge("hyperlinks", "Cells carrying hyperlinks"),
	}
}

// PageAllocated implements pagelist.Observer.
func (c *Collector) PageAllocated(bytes int) {
	c.PageEvents.WithLabelValues("allocated").Inc()
	c.AllocatedBytes.Add(float64(bytes))
}

// PageEvicted implements pagelist.Observer.
func (c *Collector) PageEvicted(rows, _ int) {
	c.PageEvents.WithLabelValues("evicted").Inc()
	c.EvictedRows.Add(float64(rows))
}

// PageGrown implements pagelist.Observer.
func (c *Collector) PageGrown(oldBytes, newBytes int) {
	c.PageEvents.WithLabelValues("grown").Inc()
	c.GrownBytes.Add(float64(newBytes - oldBytes))
}

// Reflowed implements pagelist.Observer.
func (c *Collector) Reflowed(d time.Duration, rows int) {
	c.PageEvents.WithLabelValues("reflowed").Inc()
	c.ReflowDuration.Observe(d.Seconds())
	c.Rows.Set(float64(rows))
}

// Observe sets the gauges from a stats walk.
func (c *Collector) Observe(s pagelist.Stats) {
	c.Pages.Set(float64(s.Pages))
	c.Rows.Set(float64(s.Rows))
	c.Bytes.Set(float64(s.Bytes))
	c.Styles.Set(float64(s.Styles))
	c.Graphemes.Set(float64(s.Graphemes))
	c.Hyperlinks.Set(float64(s.Hyperlinks))
}
