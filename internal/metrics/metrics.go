package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github/chapool/ledger-signer/internal/ledger"
)

const namespace = "ledger_signer"

// Service collects signer metrics in its own registry and implements ledger.Observer.
type Service struct {
	registry *prometheus.Registry

	sessionInits  *prometheus.CounterVec
	attempts      *prometheus.CounterVec
	signedTotal   prometheus.Counter
	broadcastErrs prometheus.Counter
}

// New creates a metrics service with Go runtime and process collectors registered.
func New() *Service {
	registry := prometheus.NewRegistry()

	s := &Service{
		registry: registry,
		sessionInits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_init_total",
			Help:      "Device session initializations by result.",
		}, []string{"result"}),
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "device_attempts_total",
			Help:      "Device calls by operation and outcome.",
		}, []string{"op", "outcome"}),
		signedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_signed_total",
			Help:      "Transactions signed by the device.",
		}),
		broadcastErrs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "broadcast_errors_total",
			Help:      "Signed transactions the provider failed to broadcast.",
		}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		s.sessionInits,
		s.attempts,
		s.signedTotal,
		s.broadcastErrs,
	)

	return s
}

func (s *Service) ObserveSessionInit(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	s.sessionInits.WithLabelValues(result).Inc()
}

func (s *Service) ObserveAttempt(op string, outcome ledger.Outcome) {
	s.attempts.WithLabelValues(op, string(outcome)).Inc()
}

func (s *Service) TransactionSigned() {
	s.signedTotal.Inc()
}

func (s *Service) BroadcastFailed() {
	s.broadcastErrs.Inc()
}

// Registry returns the underlying registry.
func (s *Service) Registry() *prometheus.Registry {
	return s.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (s *Service) Handler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{Registry: s.registry})
}
