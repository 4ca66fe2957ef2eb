package observability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/drovertool/drover/pkg/domain"
)

// Metrics holds the Prometheus collectors for pipeline and gateway
// activity.
//
// Collectors:
//   - drover_steps_total{phase,outcome} - pipeline step executions
//   - drover_step_duration_seconds{phase} - pipeline step latency
//   - drover_gateway_calls_total{system,op,outcome} - capability calls
//   - drover_gateway_call_duration_seconds{system} - capability call latency
type Metrics struct {
	StepsTotal      *prometheus.CounterVec
	StepDuration    *prometheus.HistogramVec
	GatewayCalls    *prometheus.CounterVec
	GatewayDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg. A nil reg
// falls back to the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		StepsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "drover_steps_total",
				Help: "Total number of pipeline step executions",
			},
			[]string{"phase", "outcome"},
		),
		StepDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "drover_step_duration_seconds",
				Help:    "Duration of pipeline steps in seconds",
				Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
			},
			[]string{"phase"},
		),
		GatewayCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "drover_gateway_calls_total",
				Help: "Total number of capability gateway calls",
			},
			[]string{"system", "op", "outcome"},
		),
		GatewayDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "drover_gateway_call_duration_seconds",
				Help:    "Duration of capability gateway calls in seconds",
				Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
			},
			[]string{"system"},
		),
	}
}

// Hooks returns callbacks that record every finished step and every
// gateway call. Step outcomes are labeled with the error kind so a
// dashboard can tell auth failures from push rejections.
func (m *Metrics) Hooks() domain.Hooks {
	return domain.Hooks{
		OnStepEnd: func(_ context.Context, e *domain.StepEvent) {
			outcome := "ok"
			if e.Err != nil {
				outcome = string(e.Err.Kind)
			}
			m.StepsTotal.WithLabelValues(string(e.Phase), outcome).Inc()
			m.StepDuration.WithLabelValues(string(e.Phase)).Observe(e.Duration.Seconds())
		},
		OnGatewayCall: func(_ context.Context, e *domain.GatewayEvent) {
			outcome := "ok"
			if e.Err != "" {
				outcome = "error"
			}
			m.GatewayCalls.WithLabelValues(string(e.System), e.Op, outcome).Inc()
			m.GatewayDuration.WithLabelValues(string(e.System)).Observe(e.Duration.Seconds())
		},
	}
}

// Listen serves /metrics on addr in the background. Binding happens
// before returning, so a bad address fails here instead of in the
// goroutine. The returned server's Addr carries the bound address;
// stop it with Shutdown.
func Listen(addr string, gatherer prometheus.Gatherer, logger *slog.Logger) (*http.Server, error) {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to bind metrics listener: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	srv := &http.Server{Addr: ln.Addr().String(), Handler: mux}
	go func() {
		logger.Info("metrics listener started", "addr", srv.Addr)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics listener stopped", "err", err)
		}
	}()
	return srv, nil
}
