package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const Namespace = "sn_liquidator"

type Metricer interface {
	RecordInfo(version, network string)
	RecordHeight(height uint64)
	RecordCandidates(total, liquidatable int)
	RecordAttempt(outcome string)
	RecordPollError(stage string)
}

type Metrics struct {
	registry *prometheus.Registry

	info         *prometheus.GaugeVec
	height       prometheus.Gauge
	candidates   prometheus.Gauge
	liquidatable prometheus.Gauge
	attempts     *prometheus.CounterVec
	pollErrors   *prometheus.CounterVec
}

var _ Metricer = (*Metrics)(nil)

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registry.MustRegister(collectors.NewGoCollector())

	m := &Metrics{
		registry: registry,
		info: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "info",
			Help:      "Information about the liquidator",
		}, []string{"version", "network"}),
		height: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "oxend_height",
			Help:      "Last chain height reported by oxend",
		}),
		candidates: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "candidates",
			Help:      "Entries in the last liquidation list",
		}),
		liquidatable: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "liquidatable",
			Help:      "Entries of the last liquidation list selected for liquidation",
		}),
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "attempts_total",
			Help:      "Liquidation attempts by outcome",
		}, []string{"outcome"}),
		pollErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "poll_errors_total",
			Help:      "Poll iterations aborted early, by stage",
		}, []string{"stage"}),
	}
	registry.MustRegister(m.info, m.height, m.candidates, m.liquidatable, m.attempts, m.pollErrors)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) RecordInfo(version, network string) {
	m.info.WithLabelValues(version, network).Set(1)
}

func (m *Metrics) RecordHeight(height uint64) {
	m.height.Set(float64(height))
}

func (m *Metrics) RecordCandidates(total, liquidatable int) {
	m.candidates.Set(float64(total))
	m.liquidatable.Set(float64(liquidatable))
}

func (m *Metrics) RecordAttempt(outcome string) {
	m.attempts.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordPollError(stage string) {
	m.pollErrors.WithLabelValues(stage).Inc()
}

type noopMetrics struct{}

var NoopMetrics Metricer = noopMetrics{}

func (noopMetrics) RecordInfo(string, string) {}
func (noopMetrics) RecordHeight(uint64) {}
func (noopMetrics) RecordCandidates(int, int) {}
func (noopMetrics) RecordAttempt(string) {}
func (noopMetrics) RecordPollError(string) {}
