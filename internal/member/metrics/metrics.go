package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the member registry module.
// Tracks registration volume, profile churn, and critical path durations.
type Metrics struct {
	MembersRegistered prometheus.Counter
	ProfileUpdates    prometheus.Counter
	KycSubmissions    prometheus.Counter
	KycStatusChanges  prometheus.Counter
	RegisterDuration  prometheus.Histogram
	UpdateDuration    prometheus.Histogram
}

// New creates a Metrics instance with all member registry metrics registered.
func New() *Metrics {
	return &Metrics{
		MembersRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rollbook_members_registered_total",
			Help: "Total number of member profiles registered",
		}),
		ProfileUpdates: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rollbook_member_updates_total",
			Help: "Total number of member profile updates that changed at least one field",
		}),
		KycSubmissions: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rollbook_kyc_submissions_total",
			Help: "Total number of KYC document submissions",
		}),
		KycStatusChanges: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rollbook_kyc_status_changes_total",
			Help: "Total number of KYC status transitions",
		}),
		RegisterDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "rollbook_register_member_duration_seconds",
			Help:    "Duration of register operations (registration critical path)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		UpdateDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "rollbook_update_member_duration_seconds",
			Help:    "Duration of update operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementMembersRegistered records a successful registration.
func (m *Metrics) IncrementMembersRegistered() {
	m.MembersRegistered.Inc()
}

// IncrementProfileUpdates records an update that changed the profile.
func (m *Metrics) IncrementProfileUpdates() {
	m.ProfileUpdates.Inc()
}

// IncrementKycSubmissions records a document submission.
func (m *Metrics) IncrementKycSubmissions() {
	m.KycSubmissions.Inc()
}

// IncrementKycStatusChanges records a status transition.
func (m *Metrics) IncrementKycStatusChanges() {
	m.KycStatusChanges.Inc()
}

// ObserveRegister records the duration of a register operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveRegister(start time.Time) {
	m.RegisterDuration.Observe(time.Since(start).Seconds())
}

// ObserveUpdate records the duration of an update operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveUpdate(start time.Time) {
	m.UpdateDuration.Observe(time.Since(start).Seconds())
}
