package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fairq"

// poolCollector exposes the pool's occupancy as prometheus metrics. It
// implements prometheus.Collector.
type poolCollector struct {
	cs *ControlSurface

	capacity *prometheus.Desc
	inUse    *prometheus.Desc
	idle     *prometheus.Desc
	waiting  *prometheus.Desc
	workDone *prometheus.Desc
}

func newPoolCollector(cs *ControlSurface) *poolCollector {
	return &poolCollector{
		cs: cs,
		capacity: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "pool_capacity"),
			"Maximum number of concurrently live sessions",
			nil,
			nil),
		inUse: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "pool_in_use"),
			"Sessions currently checked out",
			nil,
			nil),
		idle: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "pool_idle"),
			"Sessions sitting idle in the pool",
			nil,
			nil),
		waiting: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "pool_waiting"),
			"Checkouts queued for a free slot",
			nil,
			nil),
		workDone: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "work_done_total"),
			"Completed work requests",
			nil,
			nil),
	}
}

// Describe implements prometheus.Collector.
func (c *poolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.capacity
	ch <- c.inUse
	ch <- c.idle
	ch <- c.waiting
	ch <- c.workDone
}

// Collect implements prometheus.Collector.
func (c *poolCollector) Collect(ch chan<- prometheus.Metric) {
	stats := c.cs.Pool.Stats()
	ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(stats.Capacity))
	ch <- prometheus.MustNewConstMetric(c.inUse, prometheus.GaugeValue, float64(stats.InUse))
	ch <- prometheus.MustNewConstMetric(c.idle, prometheus.GaugeValue, float64(stats.Idle))
	ch <- prometheus.MustNewConstMetric(c.waiting, prometheus.GaugeValue, float64(stats.Waiting))
	ch <- prometheus.MustNewConstMetric(c.workDone, prometheus.CounterValue, float64(c.cs.workDone.Load()))
}

// handleMetrics serves the pool metrics from a private registry, so tests
// can run any number of servers side by side.
func handleMetrics(cs *ControlSurface) http.Handler {
	registry := prometheus.NewRegistry()
	registry.MustRegister(newPoolCollector(cs))
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
