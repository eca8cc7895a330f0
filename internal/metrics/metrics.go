// Package metrics defines all Prometheus metrics for dhcpwatch.
// All metrics use the "dhcpwatch_" prefix.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dhcpwatch"

var (
	// PacketsObserved counts decoded DHCP packets by op and message type.
	PacketsObserved = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "packets_observed_total",
		Help:      "Total DHCP packets observed and decoded, by op and message type.",
	}, []string{"op", "msg_type"})

	// DecodeErrors counts malformed packets by decode failure kind.
	DecodeErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "decode_errors_total",
		Help:      "Total malformed DHCP packets, by decode error kind.",
	}, []string{"kind"})

	// DecodeDuration tracks packet decode latency.
	DecodeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "decode_duration_seconds",
		Help:      "DHCP packet decode duration in seconds.",
		Buckets:   []float64{0.000001, 0.000005, 0.00001, 0.00005, 0.0001, 0.0005, 0.001},
	})

	// BytesObserved counts raw datagram bytes seen on the wire.
	BytesObserved = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bytes_observed_total",
		Help:      "Total raw DHCP datagram bytes observed.",
	})

	// DevicesKnown is a gauge of distinct client devices recorded.
	DevicesKnown = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "devices_known",
		Help:      "Number of distinct client devices observed.",
	})

	// ServersKnown is a gauge of distinct DHCP servers sighted.
	ServersKnown = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "servers_known",
		Help:      "Number of distinct DHCP servers sighted.",
	})

	// UnexpectedServers counts replies seen from servers not on the allowlist.
	UnexpectedServers = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "unexpected_server_replies_total",
		Help:      "Total DHCP replies observed from servers not on the expected list.",
	})

	// StartTime is the process start timestamp.
	StartTime = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "start_time_seconds",
		Help:      "Unix timestamp of process start.",
	})
)

// Handler returns the Prometheus exposition handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
