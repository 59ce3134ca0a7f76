// Copyright (c) 2025 The Sorcha developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import "net/http"

// noopMetrics implements a no operations metrics service.
type noopMetrics struct{}

func (noopMetrics) GetOrCreateCounter(string) CountMeter                    { return noopMeter{} }
func (noopMetrics) GetOrCreateCounterVec(string, []string) CountVecMeter    { return noopMeter{} }
func (noopMetrics) GetOrCreateGauge(string) GaugeMeter                      { return noopMeter{} }
func (noopMetrics) GetOrCreateGaugeVec(string, []string) GaugeVecMeter      { return noopMeter{} }
func (noopMetrics) GetOrCreateHistogram(string, []int64) HistogramMeter     { return noopMeter{} }
func (noopMetrics) GetOrCreateHandler() http.Handler                        { return nil }

type noopMeter struct{}

func (noopMeter) Add(int64)                                {}
func (noopMeter) Set(int64)                                {}
func (noopMeter) AddWithLabel(int64, map[string]string)    {}
func (noopMeter) SetWithLabel(int64, map[string]string)    {}
func (noopMeter) Observe(int64)                            {}
