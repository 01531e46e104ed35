package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventAvatar      EventType = "avatar"
	EventDefinition  EventType = "definition"
	EventDeterminant EventType = "determinant"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// AvatarEvent is emitted after an avatar request completes.
type AvatarEvent struct {
	EventBase
	Seed     uint32        `json:"seed"`
	Format   Format        `json:"format"`
	Cached   bool          `json:"cached"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// DefinitionEvent is emitted after a dictionary lookup.
type DefinitionEvent struct {
	EventBase
	Word string `json:"word"`
	Err  error  `json:"-"`
}

// DeterminantEvent is emitted after a determinant evaluation.
type DeterminantEvent struct {
	EventBase
	Err error `json:"-"`
}

// LifecycleHooks defines callbacks for service observability.
type LifecycleHooks struct {
	OnAvatar      func(context.Context, *AvatarEvent)
	OnDefinition  func(context.Context, *DefinitionEvent)
	OnDeterminant func(context.Context, *DeterminantEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnAvatar: func(ctx context.Context, e *AvatarEvent) {
			if h.OnAvatar != nil {
				h.OnAvatar(ctx, e)
			}
			if other.OnAvatar != nil {
				other.OnAvatar(ctx, e)
			}
		},
		OnDefinition: func(ctx context.Context, e *DefinitionEvent) {
			if h.OnDefinition != nil {
				h.OnDefinition(ctx, e)
			}
			if other.OnDefinition != nil {
				other.OnDefinition(ctx, e)
			}
		},
		OnDeterminant: func(ctx context.Context, e *DeterminantEvent) {
			if h.OnDeterminant != nil {
				h.OnDeterminant(ctx, e)
			}
			if other.OnDeterminant != nil {
				other.OnDeterminant(ctx, e)
			}
		},
	}
}
