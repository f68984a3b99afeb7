package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the screening workflow collectors. A nil *Metrics is valid
// and records nothing, so wiring stays optional in tests.
type Metrics struct {
	screeningsStarted   *prometheus.CounterVec
	screeningsCompleted *prometheus.CounterVec
	screeningsFailed    *prometheus.CounterVec
	adverseActions      *prometheus.CounterVec
}

// New registers the screening collectors on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		screeningsStarted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rentflow_screenings_started_total",
			Help: "Screening workflow runs started, by screening type.",
		}, []string{"type"}),
		screeningsCompleted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rentflow_screenings_completed_total",
			Help: "Screening workflow runs completed, by screening type and result.",
		}, []string{"type", "result"}),
		screeningsFailed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rentflow_screenings_failed_total",
			Help: "Screening workflow runs that ended in a failed record, by screening type.",
		}, []string{"type"}),
		adverseActions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rentflow_adverse_actions_total",
			Help: "Adverse action records created, by reason code.",
		}, []string{"reason"}),
	}
}

func (m *Metrics) ScreeningStarted(screeningType string) {
	if m == nil {
		return
	}
	m.screeningsStarted.WithLabelValues(screeningType).Inc()
}

func (m *Metrics) ScreeningCompleted(screeningType, result string) {
	if m == nil {
		return
	}
	m.screeningsCompleted.WithLabelValues(screeningType, result).Inc()
}

func (m *Metrics) ScreeningFailed(screeningType string) {
	if m == nil {
		return
	}
	m.screeningsFailed.WithLabelValues(screeningType).Inc()
}

func (m *Metrics) AdverseActionCreated(reason string) {
	if m == nil {
		return
	}
	m.adverseActions.WithLabelValues(reason).Inc()
}
