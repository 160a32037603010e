package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"event-service/internal/models"
)

type publisherMock struct {
	mock.Mock
}

func (m *publisherMock) Publish(ctx context.Context, routingKey string, event any) error {
	args := m.Called(ctx, routingKey, event)
	return args.Error(0)
}

func (m *publisherMock) Close() error {
	args := m.Called()
	return args.Error(0)
}

func TestEmitWrapsActivity(t *testing.T) {
	publisher := new(publisherMock)
	emitter := NewActivityEmitter(publisher, "activity.events", "event-service", "test")

	publisher.On("Publish", mock.Anything, "activity.events", mock.MatchedBy(func(e any) bool {
		envelope, ok := e.(ActivityEnvelope)
		return ok && envelope.EventType == "activity" &&
			envelope.Service == "event-service" &&
			envelope.RequestID == "req-1" &&
			envelope.Payload.Type == "joined"
	})).Return(nil).Once()

	emitter.Emit(context.Background(), models.Activity{
		Type:      "joined",
		User:      "alice",
		Action:    "joined the app",
		Timestamp: time.Now(),
	}, "req-1")

	publisher.AssertExpectations(t)
}

func TestEmitSwallowsPublishError(t *testing.T) {
	publisher := new(publisherMock)
	emitter := NewActivityEmitter(publisher, "activity.events", "event-service", "test")

	publisher.On("Publish", mock.Anything, "activity.events", mock.Anything).
		Return(assert.AnError).Once()

	// Must not panic or propagate.
	emitter.Emit(context.Background(), models.Activity{Type: "joined"}, "")
	publisher.AssertExpectations(t)
}

func TestEmitNilEmitterIsSafe(t *testing.T) {
	var emitter *ActivityEmitter
	require.NotPanics(t, func() {
		emitter.Emit(context.Background(), models.Activity{}, "")
	})
}
