package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/mosaic/pkg/domain"
)

// LogHooks writes one structured line per event. Failures log at warn.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnAvatar: func(ctx context.Context, e *domain.AvatarEvent) {
			if e.Err != nil {
				logger.WarnContext(ctx, "avatar_failed", "seed", e.Seed, "format", e.Format, "error", e.Err)
				return
			}
			logger.InfoContext(ctx, "avatar",
				"seed", e.Seed,
				"format", e.Format,
				"cached", e.Cached,
				"duration", e.Duration,
			)
		},
		OnDefinition: func(ctx context.Context, e *domain.DefinitionEvent) {
			if e.Err != nil {
				logger.WarnContext(ctx, "definition_failed", "word", e.Word, "error", e.Err)
				return
			}
			logger.InfoContext(ctx, "definition", "word", e.Word)
		},
		OnDeterminant: func(ctx context.Context, e *domain.DeterminantEvent) {
			if e.Err != nil {
				logger.DebugContext(ctx, "determinant_failed", "error", e.Err)
				return
			}
			logger.DebugContext(ctx, "determinant")
		},
	}
}
