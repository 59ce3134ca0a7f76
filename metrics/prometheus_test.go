// Copyright (c) 2025 The Sorcha developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromMetrics(t *testing.T) {
	InitializePrometheusMetrics()

	count1 := Counter("count1")
	countVec := CounterVec("countVec1", []string{"kind"})
	gauge1 := Gauge("gauge1")
	gaugeVec := GaugeVec("gaugeVec1", []string{"kind"})
	hist := Histogram("hist1", Bucket10s)

	count1.Add(1)
	count1.Add(2)

	totalVec := 0
	for i := 0; i < 10; i++ {
		countVec.AddWithLabel(int64(i), map[string]string{"kind": strconv.Itoa(i % 2)})
		totalVec += i
	}

	gauge1.Set(42)
	gauge1.Add(-2)
	gaugeVec.SetWithLabel(7, map[string]string{"kind": "a"})

	histTotal := 0
	for i := 0; i < 20; i++ {
		hist.Observe(int64(i * 100))
		histTotal += i * 100
	}

	families, err := prometheus.Gatherers{prometheus.DefaultGatherer}.Gather()
	require.NoError(t, err)

	byName := make(map[string]*dto.MetricFamily)
	for _, mf := range families {
		byName[mf.GetName()] = mf
	}

	require.Contains(t, byName, "sorcha_metrics_count1")
	assert.Equal(t, float64(3), byName["sorcha_metrics_count1"].Metric[0].GetCounter().GetValue())

	sumVec := byName["sorcha_metrics_countVec1"].Metric[0].GetCounter().GetValue() +
		byName["sorcha_metrics_countVec1"].Metric[1].GetCounter().GetValue()
	assert.Equal(t, float64(totalVec), sumVec)

	assert.Equal(t, float64(40), byName["sorcha_metrics_gauge1"].Metric[0].GetGauge().GetValue())
	assert.Equal(t, float64(7), byName["sorcha_metrics_gaugeVec1"].Metric[0].GetGauge().GetValue())
	assert.Equal(t, float64(histTotal), byName["sorcha_metrics_hist1"].Metric[0].GetHistogram().GetSampleSum())
}

func TestHandlerExposition(t *testing.T) {
	InitializePrometheusMetrics()
	Counter("handler_count").Add(5)

	srv := httptest.NewServer(HTTPHandler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var parser expfmt.TextParser
	families, err := parser.TextToMetricFamilies(resp.Body)
	require.NoError(t, err)
	require.Contains(t, families, "sorcha_metrics_handler_count")
}

func TestLazyLoading(t *testing.T) {
	service = noopMetrics{}

	for _, m := range []any{
		Counter("noopCounter"),
		CounterVec("noopCounterVec", nil),
		Gauge("noopGauge"),
		GaugeVec("noopGaugeVec", nil),
		Histogram("noopHist", nil),
	} {
		require.IsType(t, noopMeter{}, m)
	}

	lazyCounter := LazyLoadCounter("lazyCounter")
	lazyGauge := LazyLoadGauge("lazyGauge")

	InitializePrometheusMetrics()

	require.IsType(t, &promCounter{}, lazyCounter())
	require.IsType(t, &promGauge{}, lazyGauge())
}
