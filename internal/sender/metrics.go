package sender

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records engine activity. A nil *Metrics is valid and records nothing.
type Metrics struct {
	submissions *prometheus.CounterVec
	simulations *prometheus.CounterVec
	polls       *prometheus.CounterVec
	sends       *prometheus.CounterVec
	duration    prometheus.Histogram
}

// NewMetrics registers the engine collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ore",
			Subsystem: "sender",
			Name:      "submissions_total",
			Help:      "Transaction submissions by channel and outcome.",
		}, []string{"channel", "outcome"}),
		simulations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ore",
			Subsystem: "sender",
			Name:      "simulations_total",
			Help:      "Budget simulations by result.",
		}, []string{"result"}),
		polls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ore",
			Subsystem: "sender",
			Name:      "status_polls_total",
			Help:      "Signature status queries by observed status.",
		}, []string{"status"}),
		sends: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ore",
			Subsystem: "sender",
			Name:      "sends_total",
			Help:      "Completed Send calls by result class.",
		}, []string{"result"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ore",
			Subsystem: "sender",
			Name:      "send_duration_seconds",
			Help:      "Wall time of Send calls.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
		}),
	}
}

func (m *Metrics) observeSubmission(channel, outcome string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(channel, outcome).Inc()
}

func (m *Metrics) observeSimulation(result string) {
	if m == nil {
		return
	}
	m.simulations.WithLabelValues(result).Inc()
}

func (m *Metrics) observePoll(status string) {
	if m == nil {
		return
	}
	m.polls.WithLabelValues(status).Inc()
}

func (m *Metrics) observeSend(result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.sends.WithLabelValues(result).Inc()
	m.duration.Observe(elapsed.Seconds())
}
