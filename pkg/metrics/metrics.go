package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type ServerMetrics struct {
	Requests  *prometheus.CounterVec
	LatencyMS *prometheus.HistogramVec

	CheckoutOrders   prometheus.Counter
	CheckoutFailures *prometheus.CounterVec
}

func NewServerMetrics(service string) *ServerMetrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "agromart",
		Subsystem: service,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"handler", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "agromart",
		Subsystem: service,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"handler"})
	orders := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "agromart",
		Subsystem: service,
		Name:      "checkout_orders_total",
		Help:      "Orders created by successful checkouts.",
	})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "agromart",
		Subsystem: service,
		Name:      "checkout_failures_total",
		Help:      "Checkout attempts rejected, by reason.",
	}, []string{"reason"})

	prometheus.MustRegister(requests, latency, orders, failures)
	return &ServerMetrics{
		Requests:         requests,
		LatencyMS:        latency,
		CheckoutOrders:   orders,
		CheckoutFailures: failures,
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}
