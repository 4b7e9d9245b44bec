// Package metrics содержит Prometheus-метрики сервиса аутентификации.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Исходы попыток входа и регистрации.
const (
	ResultSuccess            = "success"
	ResultInvalidCredentials = "invalid_credentials"
	ResultDuplicate          = "duplicate"
	ResultInvalid            = "invalid"
	ResultError              = "error"
)

// Metrics хранит коллекторы сервиса.
type Metrics struct {
	LoginAttempts   *prometheus.CounterVec
	Signups         *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// New создаёт коллекторы и регистрирует их в reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		LoginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_login_attempts_total",
			Help: "Number of login attempts by result.",
		}, []string{"result"}),
		Signups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_signups_total",
			Help: "Number of signup attempts by result.",
		}, []string{"result"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	reg.MustRegister(m.LoginAttempts, m.Signups, m.RequestDuration)
	return m
}

// LoginAttempt учитывает попытку входа.
func (m *Metrics) LoginAttempt(result string) {
	m.LoginAttempts.WithLabelValues(result).Inc()
}

// Signup учитывает попытку регистрации.
func (m *Metrics) Signup(result string) {
	m.Signups.WithLabelValues(result).Inc()
}

// ObserveRequest записывает длительность HTTP-запроса.
func (m *Metrics) ObserveRequest(method, route, status string, d time.Duration) {
	m.RequestDuration.WithLabelValues(method, route, status).Observe(d.Seconds())
}
