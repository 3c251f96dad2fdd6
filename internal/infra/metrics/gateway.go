package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(gatewayCallLatencyMs)
}

var gatewayCallLatencyMs = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "gateway_call_latency_ms",
		Help:    "Payment gateway call latency distribution in milliseconds.",
		Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000, 15000},
	},
	[]string{"op", "success"},
)

func ObserveGatewayCall(op string, success bool, d time.Duration) {
	gatewayCallLatencyMs.WithLabelValues(norm(op), strconv.FormatBool(success)).
		Observe(float64(d.Milliseconds()))
}
