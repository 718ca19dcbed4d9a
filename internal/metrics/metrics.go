// Package metrics exposes Prometheus collectors for outbound API calls and
// workflow outcomes.
package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "utility_client"

var (
	// GatewayRequests counts remote API calls by method, normalized
	// endpoint and outcome (ok, error, transport, cache_hit).
	GatewayRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gateway_requests_total",
		Help:      "Remote API calls issued by the gateway.",
	}, []string{"method", "endpoint", "outcome"})

	// WorkflowResults counts finished workflows (signin, checkout, ...) by
	// outcome.
	WorkflowResults = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "workflow_results_total",
		Help:      "Completed client workflows by outcome.",
	}, []string{"workflow", "outcome"})

	// Notifications counts emitted notices by severity.
	Notifications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Transient notices emitted to visitors.",
	}, []string{"severity"})
)

// Register adds all collectors to reg.
func Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{GatewayRequests, WorkflowResults, Notifications} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Outcome labels a workflow result.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// EndpointLabel collapses numeric path segments so per-order endpoints
// share one label: /orders/12/track/ becomes /orders/:id/track/.
func EndpointLabel(endpoint string) string {
	if i := strings.IndexByte(endpoint, '?'); i >= 0 {
		endpoint = endpoint[:i]
	}
	parts := strings.Split(endpoint, "/")
	for i, p := range parts {
		if p != "" && strings.Trim(p, "0123456789") == "" {
			parts[i] = ":id"
		}
	}
	return strings.Join(parts, "/")
}
