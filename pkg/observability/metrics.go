package observability

import (
	"context"
	"errors"

	"github.com/aretw0/mosaic/pkg/determinant"
	"github.com/aretw0/mosaic/pkg/dictionary"
	"github.com/aretw0/mosaic/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the service collectors.
type Metrics struct {
	AvatarsGenerated  *prometheus.CounterVec
	AvatarDuration    *prometheus.HistogramVec
	DefinitionLookups *prometheus.CounterVec
	Determinants      *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		AvatarsGenerated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mosaic_avatars_generated_total",
				Help: "Total number of avatar requests by format and cache outcome",
			},
			[]string{"format", "cache"},
		),
		AvatarDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mosaic_avatar_generation_seconds",
				Help:    "Duration of avatar requests, cache hits included",
				Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
			},
			[]string{"format"},
		),
		DefinitionLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mosaic_definition_lookups_total",
				Help: "Total number of dictionary lookups by result",
			},
			[]string{"result"},
		),
		Determinants: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mosaic_determinants_total",
				Help: "Total number of determinant evaluations by result",
			},
			[]string{"result"},
		),
	}
	for _, c := range []prometheus.Collector{m.AvatarsGenerated, m.AvatarDuration, m.DefinitionLookups, m.Determinants} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks records every event on the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnAvatar: func(ctx context.Context, e *domain.AvatarEvent) {
			m.AvatarsGenerated.WithLabelValues(string(e.Format), cacheLabel(e)).Inc()
			if e.Err == nil {
				m.AvatarDuration.WithLabelValues(string(e.Format)).Observe(e.Duration.Seconds())
			}
		},
		OnDefinition: func(ctx context.Context, e *domain.DefinitionEvent) {
			m.DefinitionLookups.WithLabelValues(dictionary.Kind(e.Err)).Inc()
		},
		OnDeterminant: func(ctx context.Context, e *domain.DeterminantEvent) {
			m.Determinants.WithLabelValues(determinantResult(e.Err)).Inc()
		},
	}
}

func cacheLabel(e *domain.AvatarEvent) string {
	switch {
	case e.Err != nil:
		return "error"
	case e.Cached:
		return "hit"
	default:
		return "miss"
	}
}

func determinantResult(err error) string {
	var (
		parseErr *determinant.ParseError
		calcErr  *determinant.CalculationError
	)
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, determinant.ErrNotMatrix):
		return "not_matrix"
	case errors.As(err, &parseErr):
		return "parse_error"
	case errors.As(err, &calcErr):
		return "calculation_error"
	default:
		return "error"
	}
}
