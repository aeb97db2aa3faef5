package stats

import (
	"bufio"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-custody/pkg/retry"
)

const namespace = "custody"

var (
	callAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "call_attempts_total",
		Help:      "Attempts made by retried calls, by executor and outcome.",
	}, []string{"executor", "outcome"})

	callRetries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "call_retries_total",
		Help:      "Retries scheduled by executor.",
	}, []string{"executor"})

	excludedAssets = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "excluded_assets_total",
		Help:      "Assets left out of an enumeration because annotation failed.",
	}, []string{"operation"})

	assetsAnnotated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "assets_annotated_total",
		Help:      "Assets classified by custody status.",
	}, []string{"status"})

	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status code.",
	}, []string{"route", "method", "status"})

	httpLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
	}, []string{"route", "method"})
)

// Registry holds all the custody metrics.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		callAttempts, callRetries, excludedAssets, assetsAnnotated,
		httpRequests, httpLatency,
	)
}

// RetryObserver reports retry transitions as metrics.
func RetryObserver(name string, t retry.Transition) {
	switch t.To {
	case retry.Succeeded:
		callAttempts.WithLabelValues(name, "success").Inc()
	case retry.Waiting:
		callAttempts.WithLabelValues(name, "failure").Inc()
		callRetries.WithLabelValues(name).Inc()
	case retry.Failed:
		callAttempts.WithLabelValues(name, "failure").Inc()
	}
}

// AssetExcluded counts an asset skipped by the given operation.
func AssetExcluded(operation string) {
	excludedAssets.WithLabelValues(operation).Inc()
}

// AssetAnnotated counts a classified asset.
func AssetAnnotated(status string) {
	assetsAnnotated.WithLabelValues(status).Inc()
}

// HTTPRequest counts a served request and observes its latency.
func HTTPRequest(route, method string, status int, elapsed time.Duration) {
	httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	httpLatency.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// DumpMetrics appends the current value of all custody metrics to the file
// at the given path.
func DumpMetrics(path string) error {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	metricFamily, err := Registry.Gather()
	if err != nil {
		return err
	}
	for _, v := range metricFamily {
		if _, err := writer.WriteString(v.String() + "\n"); err != nil {
			return err
		}
	}
	if err := writer.Flush(); err != nil {
		return err
	}

	log.Debugf("metrics dumped to %s (%d families)", path, len(metricFamily))
	return nil
}
