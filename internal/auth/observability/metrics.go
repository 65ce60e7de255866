// Package observability содержит метрики Prometheus и сервер проб сервиса.
package observability

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics содержит метрики сервиса аутентификации.
type Metrics struct {
	RequestsTotal *prometheus.CounterVec
	OutcomesTotal *prometheus.CounterVec
}

// NewMetrics создает и регистрирует метрики в reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sessionauth_http_requests_total",
				Help: "Total number of HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
		OutcomesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sessionauth_auth_outcomes_total",
				Help: "Total number of authentication operations by outcome",
			},
			[]string{"operation", "outcome"},
		),
	}

	reg.MustRegister(m.RequestsTotal, m.OutcomesTotal)

	return m
}

// RecordRequest учитывает обработанный HTTP-запрос.
func (m *Metrics) RecordRequest(method, route string, status int) {
	m.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// RecordOutcome учитывает исход операции аутентификации.
func (m *Metrics) RecordOutcome(operation, outcome string) {
	m.OutcomesTotal.WithLabelValues(operation, outcome).Inc()
}
