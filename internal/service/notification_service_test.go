package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eop-planner-be/internal/repository/memory"
	"eop-planner-be/pkg/events"
)

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

type recordingDelivery struct {
	sessionID string
	payload   []byte
}

func (d *recordingDelivery) Send(sessionID string, payload []byte) {
	d.sessionID = sessionID
	d.payload = payload
}

func TestHandleEventPersistsAndDelivers(t *testing.T) {
	factory := memory.NewFactory()
	delivery := &recordingDelivery{}
	svc := NewNotificationService(factory, nil, delivery, noopLogger{})
	ctx := context.Background()

	err := svc.handleEvent(ctx, events.NewSectionCompleted("sess-1", "information"))
	require.NoError(t, err)

	feed, err := svc.GetFeed(ctx, "sess-1", 20, 0)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, events.TypeSectionCompleted, feed[0].TypeCode)
	assert.Equal(t, "Section completed", feed[0].Title)
	assert.Contains(t, feed[0].Message, "information")

	assert.Equal(t, "sess-1", delivery.sessionID)
	assert.NotEmpty(t, delivery.payload)
}

func TestHandleEventSkipsMissingSession(t *testing.T) {
	factory := memory.NewFactory()
	svc := NewNotificationService(factory, nil, nil, noopLogger{})

	event := events.BaseEvent{
		Type:       "proposal.created",
		Data:       map[string]interface{}{},
		OccurredAt: time.Now(),
	}
	err := svc.handleEvent(context.Background(), event)
	require.NoError(t, err)

	feed, err := svc.GetFeed(context.Background(), "", 20, 0)
	require.NoError(t, err)
	assert.Empty(t, feed)
}
