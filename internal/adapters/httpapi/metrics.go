package httpapi

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricRouteResponses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tabworker",
		Name:      "route_responses_total",
		Help:      "Asset routing responses by status code.",
	}, []string{"status"})
	metricRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tabworker",
		Name:      "test_runs_total",
		Help:      "Test runs by outcome.",
	}, []string{"outcome"})
	metricTestsExecuted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tabworker",
		Name:      "tests_executed_total",
		Help:      "Tests that produced a result.",
	})
	metricNeededAssets = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "tabworker",
		Name:      "sync_needed_assets",
		Help:      "Assets reported as missing from storage per sync.",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 6),
	})
)

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

func observeRoute(status int) {
	metricRouteResponses.WithLabelValues(strconv.Itoa(status)).Inc()
}
