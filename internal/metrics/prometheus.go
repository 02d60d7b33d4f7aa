package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "housekeeping"

// Prometheus implements Recorder with Prometheus collectors
type Prometheus struct {
	registry *prometheus.Registry

	requestsCreated     *prometheus.CounterVec
	requestTransitions  *prometheus.CounterVec
	deliveriesAssigned  prometheus.Counter
	sweepRuns           *prometheus.CounterVec
	sweepBookings       *prometheus.CounterVec
	realtimeConnections prometheus.Gauge
}

var _ Recorder = (*Prometheus)(nil)

// NewPrometheus creates a recorder with its own registry, including Go and
// process collectors
func NewPrometheus() *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		requestsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "requests",
			Name:      "created_total",
			Help:      "Housekeeping requests created, by resulting status.",
		}, []string{"status"}),
		requestTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "requests",
			Name:      "transitions_total",
			Help:      "Lifecycle actions applied to housekeeping tasks.",
		}, []string{"action"}),
		deliveriesAssigned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "deliveries",
			Name:      "assigned_total",
			Help:      "Borrowed-item deliveries assigned to housekeepers.",
		}),
		sweepRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "checkout_sweep",
			Name:      "runs_total",
			Help:      "Checkout sweep runs by result (success, failure).",
		}, []string{"result"}),
		sweepBookings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "checkout_sweep",
			Name:      "bookings_total",
			Help:      "Expired bookings seen by the checkout sweep, by outcome (archived, blocked).",
		}, []string{"outcome"}),
		realtimeConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "realtime",
			Name:      "connections",
			Help:      "Connected websocket clients.",
		}),
	}

	p.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		p.requestsCreated,
		p.requestTransitions,
		p.deliveriesAssigned,
		p.sweepRuns,
		p.sweepBookings,
		p.realtimeConnections,
	)
	return p
}

// Handler serves the registry in the Prometheus text format
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

func (p *Prometheus) RequestCreated(status string) {
	p.requestsCreated.WithLabelValues(status).Inc()
}

func (p *Prometheus) RequestTransition(action string) {
	p.requestTransitions.WithLabelValues(action).Inc()
}

func (p *Prometheus) DeliveryAssigned() {
	p.deliveriesAssigned.Inc()
}

func (p *Prometheus) CheckoutSweep(archived, blocked int, failed bool) {
	result := "success"
	if failed {
		result = "failure"
	}
	p.sweepRuns.WithLabelValues(result).Inc()
	p.sweepBookings.WithLabelValues("archived").Add(float64(archived))
	p.sweepBookings.WithLabelValues("blocked").Add(float64(blocked))
}

func (p *Prometheus) RealtimeConnections(n int) {
	p.realtimeConnections.Set(float64(n))
}
