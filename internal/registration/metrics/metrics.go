package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Allocation and validation results used as label values.
const (
	ResultSuccess          = "success"
	ResultAlreadyAllocated = "already_allocated"
	ResultConflict         = "concurrent_conflict"
	ResultRejected         = "rejected"
	ResultError            = "error"
)

// Metrics provides observability for mark allocation and the dossier workflow.
type Metrics struct {
	Allocations        *prometheus.CounterVec
	AllocationAttempts prometheus.Histogram
	AllocationDuration prometheus.Histogram
	Validations        *prometheus.CounterVec
	Reconciliations    *prometheus.CounterVec
	Submissions        prometheus.Counter
}

// New registers the module metrics on the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Allocations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "immat_allocations_total",
			Help: "Mark allocations by result",
		}, []string{"result"}),
		AllocationAttempts: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "immat_allocation_attempts",
			Help:    "Attempts needed per allocation, including conflict retries",
			Buckets: []float64{1, 2, 3, 4, 5, 8},
		}),
		AllocationDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "immat_allocation_duration_seconds",
			Help:    "Duration of allocations, retries included",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		Validations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "immat_validations_total",
			Help: "Dossier validations by result",
		}, []string{"result"}),
		Reconciliations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "immat_reconciliations_total",
			Help: "Reconciled dossiers by repair kind",
		}, []string{"repair"}),
		Submissions: f.NewCounter(prometheus.CounterOpts{
			Name: "immat_dossiers_submitted_total",
			Help: "Dossiers submitted",
		}),
	}
}

func (m *Metrics) IncrementAllocation(result string) {
	m.Allocations.WithLabelValues(result).Inc()
}

// ObserveAllocation records the attempt count and the duration since start.
func (m *Metrics) ObserveAllocation(start time.Time, attempts int) {
	m.AllocationDuration.Observe(time.Since(start).Seconds())
	m.AllocationAttempts.Observe(float64(attempts))
}

func (m *Metrics) IncrementValidation(result string) {
	m.Validations.WithLabelValues(result).Inc()
}

func (m *Metrics) IncrementReconciliation(repair string) {
	m.Reconciliations.WithLabelValues(repair).Inc()
}

func (m *Metrics) IncrementSubmission() {
	m.Submissions.Inc()
}
