// Copyright (c) 2025 The Sorcha developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package metrics provides global access to a set of meters. It wraps
// multiple implementations and defaults to a no-op implementation, so
// instrumented code pays nothing unless a backend is initialized.
package metrics

import (
	"net/http"
	"sync"
)

var service Metrics = noopMetrics{}

// Metrics defines the interface for metrics service implementations.
type Metrics interface {
	GetOrCreateCounter(name string) CountMeter
	GetOrCreateCounterVec(name string, labels []string) CountVecMeter
	GetOrCreateGauge(name string) GaugeMeter
	GetOrCreateGaugeVec(name string, labels []string) GaugeVecMeter
	GetOrCreateHistogram(name string, buckets []int64) HistogramMeter
	GetOrCreateHandler() http.Handler
}

// HTTPHandler returns the http handler for scraping metrics, nil when the
// no-op backend is active.
func HTTPHandler() http.Handler {
	return service.GetOrCreateHandler()
}

// Bucket10s is the standard bucket set for durations up to 10 seconds, in ms.
var Bucket10s = []int64{0, 500, 1000, 2000, 3000, 4000, 5000, 7500, 10_000}

// CountMeter is a monotonically increasing counter.
type CountMeter interface {
	Add(int64)
}

// Counter returns the named counter.
func Counter(name string) CountMeter { return service.GetOrCreateCounter(name) }

// CountVecMeter is a counter with labels.
type CountVecMeter interface {
	AddWithLabel(int64, map[string]string)
}

// CounterVec returns the named labeled counter.
func CounterVec(name string, labels []string) CountVecMeter {
	return service.GetOrCreateCounterVec(name, labels)
}

// GaugeMeter is a single numeric value that can go up and down.
type GaugeMeter interface {
	Add(int64)
	Set(int64)
}

// Gauge returns the named gauge.
func Gauge(name string) GaugeMeter { return service.GetOrCreateGauge(name) }

// GaugeVecMeter is a gauge with labels.
type GaugeVecMeter interface {
	AddWithLabel(int64, map[string]string)
	SetWithLabel(int64, map[string]string)
}

// GaugeVec returns the named labeled gauge.
func GaugeVec(name string, labels []string) GaugeVecMeter {
	return service.GetOrCreateGaugeVec(name, labels)
}

// HistogramMeter aggregates reported measurements into buckets.
type HistogramMeter interface {
	Observe(int64)
}

// Histogram returns the named histogram.
func Histogram(name string, buckets []int64) HistogramMeter {
	return service.GetOrCreateHistogram(name, buckets)
}

// LazyLoad defers the instantiation of a meter so metrics can be declared
// package wide before the backend is chosen.
func LazyLoad[T any](f func() T) func() T {
	var result T
	var once sync.Once
	return func() T {
		once.Do(func() {
			result = f()
		})
		return result
	}
}

// LazyLoadCounter declares a counter resolved on first use.
func LazyLoadCounter(name string) func() CountMeter {
	return LazyLoad(func() CountMeter { return Counter(name) })
}

// LazyLoadCounterVec declares a labeled counter resolved on first use.
func LazyLoadCounterVec(name string, labels []string) func() CountVecMeter {
	return LazyLoad(func() CountVecMeter { return CounterVec(name, labels) })
}

// LazyLoadGauge declares a gauge resolved on first use.
func LazyLoadGauge(name string) func() GaugeMeter {
	return LazyLoad(func() GaugeMeter { return Gauge(name) })
}

// LazyLoadGaugeVec declares a labeled gauge resolved on first use.
func LazyLoadGaugeVec(name string, labels []string) func() GaugeVecMeter {
	return LazyLoad(func() GaugeVecMeter { return GaugeVec(name, labels) })
}

// LazyLoadHistogram declares a histogram resolved on first use.
func LazyLoadHistogram(name string, buckets []int64) func() HistogramMeter {
	return LazyLoad(func() HistogramMeter { return Histogram(name, buckets) })
}
