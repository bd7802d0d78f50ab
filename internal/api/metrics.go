package api

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts backend calls by operation and outcome.
type Metrics struct {
	requestsTotal *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "barberbook",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total backend REST calls",
		}, []string{"operation", "outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.requestsTotal)
	return m
}

func (m *Metrics) ObserveRequest(operation string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.requestsTotal.WithLabelValues(operation, outcome).Inc()
}
