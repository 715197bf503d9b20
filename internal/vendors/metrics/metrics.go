package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the vendor module: lifecycle volume,
// guard denials, and the latency of the transition critical path.
type Metrics struct {
	VendorsCreated     prometheus.Counter
	Transitions        *prometheus.CounterVec
	TransitionDenied   *prometheus.CounterVec
	GuardDenied        *prometheus.CounterVec
	TransitionDuration prometheus.Histogram
}

// New creates a Metrics instance with all vendor module metrics registered.
func New() *Metrics {
	return &Metrics{
		VendorsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vendra_vendors_created_total",
			Help: "Total number of vendor records created",
		}),
		Transitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vendra_vendor_transitions_total",
			Help: "Successful vendor status transitions by target status",
		}, []string{"target"}),
		TransitionDenied: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vendra_vendor_transitions_denied_total",
			Help: "Rejected vendor status transitions by reason code",
		}, []string{"code"}),
		GuardDenied: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vendra_vendor_guard_denied_total",
			Help: "Guarded operations denied by operation",
		}, []string{"operation"}),
		TransitionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "vendra_vendor_transition_duration_seconds",
			Help:    "Duration of vendor status transitions (lock, validate, commit)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementVendorsCreated records a successful vendor creation.
func (m *Metrics) IncrementVendorsCreated() {
	m.VendorsCreated.Inc()
}

// ObserveTransition records one successful transition and its duration.
// Call with time.Now() captured at the start of the operation.
func (m *Metrics) ObserveTransition(target string, start time.Time) {
	m.Transitions.WithLabelValues(target).Inc()
	m.TransitionDuration.Observe(time.Since(start).Seconds())
}

// IncrementTransitionDenied records a rejected transition by error code.
func (m *Metrics) IncrementTransitionDenied(code string) {
	m.TransitionDenied.WithLabelValues(code).Inc()
}

// IncrementGuardDenied records a guard denial for an operation.
func (m *Metrics) IncrementGuardDenied(operation string) {
	m.GuardDenied.WithLabelValues(operation).Inc()
}
