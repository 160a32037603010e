package telemetry

import (
	"context"
	"log"
	"time"

	"event-service/internal/models"
)

// Publisher is the event bus surface the emitter needs.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
	Close() error
}

// ActivityEmitter publishes activity-feed entries to the event bus.
// Emission is best effort: failures are logged, never propagated, so a
// broken bus cannot fail the request that triggered the activity.
type ActivityEmitter struct {
	publisher   Publisher
	routingKey  string
	service     string
	environment string
}

// ActivityEnvelope wraps an activity entry for the bus.
type ActivityEnvelope struct {
	SchemaVersion int             `json:"schema_version"`
	EventType     string          `json:"event_type"`
	OccurredAt    string          `json:"occurred_at"`
	Service       string          `json:"service"`
	Environment   string          `json:"environment"`
	RequestID     string          `json:"request_id"`
	Payload       models.Activity `json:"payload"`
}

// NewActivityEmitter constructs an ActivityEmitter.
func NewActivityEmitter(publisher Publisher, routingKey, service, environment string) *ActivityEmitter {
	return &ActivityEmitter{
		publisher:   publisher,
		routingKey:  routingKey,
		service:     service,
		environment: environment,
	}
}

// Emit publishes one activity entry.
func (e *ActivityEmitter) Emit(ctx context.Context, activity models.Activity, requestID string) {
	if e == nil || e.publisher == nil {
		return
	}

	envelope := ActivityEnvelope{
		SchemaVersion: 1,
		EventType:     "activity",
		OccurredAt:    time.Now().UTC().Format(time.RFC3339Nano),
		Service:       e.service,
		Environment:   e.environment,
		RequestID:     requestID,
		Payload:       activity,
	}

	if err := e.publisher.Publish(ctx, e.routingKey, envelope); err != nil {
		log.Printf("activity publish failed: %v", err)
	}
}
