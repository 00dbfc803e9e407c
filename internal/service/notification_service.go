package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"eop-planner-be/internal/entity"
	"eop-planner-be/internal/pkg/logger"
	"eop-planner-be/internal/repository/specification"
	"eop-planner-be/internal/repository/unitofwork"
	"eop-planner-be/pkg/events"
	pktNats "eop-planner-be/pkg/nats"
)

// notificationTitles maps event codes to activity-feed titles. Unknown codes
// are recorded verbatim.
var notificationTitles = map[string]string{
	events.TypeProposalCreated:    "Questionnaire started",
	events.TypeProposalAdvanced:   "Question answered",
	events.TypeSectionCompleted:   "Section completed",
	events.TypePlanCompleted:      "Plan completed",
	events.TypeNarrativeGenerated: "Narrative generated",
}

// NotificationService consumes proposal lifecycle events off the bus,
// persists them as activity-feed rows, and pushes them to any live dashboard
// connections for the session.
type NotificationService struct {
	uowFactory unitofwork.RepositoryFactory
	subscriber *pktNats.Subscriber
	delivery   ProposalDelivery
	logger     logger.ILogger
}

func NewNotificationService(
	uowFactory unitofwork.RepositoryFactory,
	sub *pktNats.Subscriber,
	delivery ProposalDelivery,
	log logger.ILogger,
) *NotificationService {
	return &NotificationService{
		uowFactory: uowFactory,
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins listening to the event bus with a durable consumer.
func (s *NotificationService) Start() {
	if s.subscriber == nil {
		s.logger.Warn("NotificationService", "No event subscriber configured, activity feed disabled", nil)
		return
	}
	if err := s.subscriber.Subscribe("eop.>", "notif-service-worker", s.handleEvent); err != nil {
		s.logger.Error("NotificationService", "Failed to start notification subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("NotificationService", "Notification service started, listening to eop.>", nil)
}

func (s *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	payload := event.Payload()
	sessionId, _ := payload["session_id"].(string)
	if sessionId == "" {
		s.logger.Warn("NotificationService", "Event without session_id, skipping", map[string]interface{}{"type": event.EventType()})
		return nil
	}

	title, ok := notificationTitles[event.EventType()]
	if !ok {
		title = event.EventType()
	}

	notification := &entity.Notification{
		Id:        uuid.New(),
		SessionId: sessionId,
		TypeCode:  event.EventType(),
		Title:     title,
		Message:   describeEvent(event),
		Metadata:  payload,
		CreatedAt: time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.NotificationRepository().Create(ctx, notification); err != nil {
		return fmt.Errorf("failed to persist notification: %w", err)
	}

	if s.delivery != nil {
		if data, err := json.Marshal(notification); err == nil {
			s.delivery.Send(sessionId, data)
		}
	}

	return nil
}

// GetFeed returns the persisted activity feed for one session, newest first.
func (s *NotificationService) GetFeed(ctx context.Context, sessionId string, limit, offset int) ([]*entity.Notification, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.NotificationRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
}

func describeEvent(event events.Event) string {
	payload := event.Payload()
	switch event.EventType() {
	case events.TypeProposalCreated:
		return "A new Emergency Operations Plan questionnaire was started."
	case events.TypeProposalAdvanced:
		return fmt.Sprintf("Progressed to rule %v of the %v section.", payload["rule_index"], payload["section"])
	case events.TypeSectionCompleted:
		return fmt.Sprintf("The %v section is complete.", payload["section"])
	case events.TypePlanCompleted:
		return "All sections are answered and the final plan has been assembled."
	case events.TypeNarrativeGenerated:
		return fmt.Sprintf("Narrative text was generated for the %v step.", payload["step"])
	default:
		return event.EventType()
	}
}
