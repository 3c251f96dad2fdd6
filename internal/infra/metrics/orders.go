package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		ordersTotal,
		ordersRevenueTotal,
		activationsTotal,
	)
}

var (
	ordersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_total",
			Help: "Order transitions by resulting status (created/pending/completed/failed/user_dropped/membership_error).",
		},
		[]string{"status"},
	)

	ordersRevenueTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_revenue_paise_total",
			Help: "Total monetary value of completed orders in paise, labeled by plan.",
		},
		[]string{"plan"},
	)

	activationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "membership_activations_total",
			Help: "Membership activations by plan.",
		},
		[]string{"plan"},
	)
)

func IncOrder(status string) {
	ordersTotal.WithLabelValues(norm(status)).Inc()
}

func AddOrderRevenue(plan string, amountPaise int64) {
	ordersRevenueTotal.WithLabelValues(norm(plan)).Add(float64(amountPaise))
}

func IncActivation(plan string) {
	activationsTotal.WithLabelValues(norm(plan)).Inc()
}
