// Copyright (c) 2025 The Sorcha developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sorcha-ledger/sorcha/log"
)

const namespace = "sorcha_metrics"

var logger = log.WithContext("pkg", "metrics")

// InitializePrometheusMetrics installs the Prometheus backend as the
// process-wide metrics service. Once installed it cannot be reset.
func InitializePrometheusMetrics() {
	if _, ok := service.(*prometheusMetrics); !ok {
		service = &prometheusMetrics{}
	}
}

type prometheusMetrics struct {
	meters sync.Map // name -> meter
}

func (p *prometheusMetrics) getOrCreate(name string, create func() any) any {
	if m, ok := p.meters.Load(name); ok {
		return m
	}
	m, _ := p.meters.LoadOrStore(name, create())
	return m
}

func (p *prometheusMetrics) GetOrCreateCounter(name string) CountMeter {
	return p.getOrCreate(name, func() any {
		meter := prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: name})
		register(meter)
		return &promCounter{meter}
	}).(CountMeter)
}

func (p *prometheusMetrics) GetOrCreateCounterVec(name string, labels []string) CountVecMeter {
	return p.getOrCreate(name, func() any {
		meter := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: name}, labels)
		register(meter)
		return &promCounterVec{meter}
	}).(CountVecMeter)
}

func (p *prometheusMetrics) GetOrCreateGauge(name string) GaugeMeter {
	return p.getOrCreate(name, func() any {
		meter := prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: name})
		register(meter)
		return &promGauge{meter}
	}).(GaugeMeter)
}

func (p *prometheusMetrics) GetOrCreateGaugeVec(name string, labels []string) GaugeVecMeter {
	return p.getOrCreate(name, func() any {
		meter := prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: namespace, Name: name}, labels)
		register(meter)
		return &promGaugeVec{meter}
	}).(GaugeVecMeter)
}

func (p *prometheusMetrics) GetOrCreateHistogram(name string, buckets []int64) HistogramMeter {
	return p.getOrCreate(name, func() any {
		floatBuckets := make([]float64, 0, len(buckets))
		for _, b := range buckets {
			floatBuckets = append(floatBuckets, float64(b))
		}
		meter := prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      name,
			Buckets:   floatBuckets,
		})
		register(meter)
		return &promHistogram{meter}
	}).(HistogramMeter)
}

func (p *prometheusMetrics) GetOrCreateHandler() http.Handler {
	return promhttp.Handler()
}

func register(c prometheus.Collector) {
	if err := prometheus.Register(c); err != nil {
		logger.Warn("unable to register metric", "err", err)
	}
}

type promCounter struct {
	counter prometheus.Counter
}

func (c *promCounter) Add(i int64) { c.counter.Add(float64(i)) }

type promCounterVec struct {
	counter *prometheus.CounterVec
}

func (c *promCounterVec) AddWithLabel(i int64, labels map[string]string) {
	c.counter.With(labels).Add(float64(i))
}

type promGauge struct {
	gauge prometheus.Gauge
}

func (g *promGauge) Add(i int64) { g.gauge.Add(float64(i)) }
func (g *promGauge) Set(i int64) { g.gauge.Set(float64(i)) }

type promHistogram struct {
	histogram prometheus.Histogram
}

func (h *promHistogram) Observe(i int64) { h.histogram.Observe(float64(i)) }

type promGaugeVec struct {
	gauge *prometheus.GaugeVec
}

func (g *promGaugeVec) AddWithLabel(i int64, labels map[string]string) {
	g.gauge.With(labels).Add(float64(i))
}

func (g *promGaugeVec) SetWithLabel(i int64, labels map[string]string) {
	g.gauge.With(labels).Set(float64(i))
}
