package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	EntriesRecorded prometheus.Counter
	ExitsRecorded   prometheus.Counter
	CodesIssued     prometheus.Counter
	CodeRejections  prometheus.Counter
	UsersCreated    prometheus.Counter
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		EntriesRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "condo_gate_entries_recorded_total",
			Help: "Total number of visitor entry events recorded",
		}),
		ExitsRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "condo_gate_exits_recorded_total",
			Help: "Total number of visitor exit events recorded",
		}),
		CodesIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "condo_access_codes_issued_total",
			Help: "Total number of visitor access codes issued",
		}),
		CodeRejections: promauto.NewCounter(prometheus.CounterOpts{
			Name: "condo_access_code_rejections_total",
			Help: "Total number of access code validations rejected",
		}),
		UsersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "condo_users_created_total",
			Help: "Total number of portal accounts created",
		}),
	}
}

// IncrementEntriesRecorded increments the entries recorded counter by 1
func (m *Metrics) IncrementEntriesRecorded() {
	m.EntriesRecorded.Inc()
}

// IncrementExitsRecorded increments the exits recorded counter by 1
func (m *Metrics) IncrementExitsRecorded() {
	m.ExitsRecorded.Inc()
}

// IncrementCodesIssued increments the codes issued counter by 1
func (m *Metrics) IncrementCodesIssued() {
	m.CodesIssued.Inc()
}

// IncrementCodeRejections increments the code rejections counter by 1
func (m *Metrics) IncrementCodeRejections() {
	m.CodeRejections.Inc()
}

// IncrementUsersCreated increments the users created counter by 1
func (m *Metrics) IncrementUsersCreated() {
	m.UsersCreated.Inc()
}
