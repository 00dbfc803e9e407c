package service

import (
	"context"
	"encoding/json"

	"eop-planner-be/internal/dto"
	"eop-planner-be/internal/entity"
	"eop-planner-be/internal/pkg/logger"
	"eop-planner-be/pkg/events"
	pktNats "eop-planner-be/pkg/nats"
	"eop-planner-be/pkg/realtime"
)

// ProposalDelivery pushes a snapshot to live dashboard connections.
// Implemented by the websocket Hub.
type ProposalDelivery interface {
	Send(sessionID string, payload []byte)
}

// ProposalNotifier fans one proposal mutation out to every notification
// surface: the in-process SSE broker, the websocket hub, and the NATS event
// bus. All three are best-effort; the persisted proposal is the only source
// of truth.
type ProposalNotifier struct {
	broker    *realtime.Broker
	delivery  ProposalDelivery
	publisher *pktNats.Publisher
	logger    logger.ILogger
}

func NewProposalNotifier(
	broker *realtime.Broker,
	delivery ProposalDelivery,
	publisher *pktNats.Publisher,
	log logger.ILogger,
) *ProposalNotifier {
	return &ProposalNotifier{
		broker:    broker,
		delivery:  delivery,
		publisher: publisher,
		logger:    log,
	}
}

func (n *ProposalNotifier) Notify(ctx context.Context, proposal *entity.Proposal, event events.Event) {
	if n == nil || proposal == nil {
		return
	}

	snapshot, err := json.Marshal(dto.NewProposalResponse(proposal))
	if err != nil {
		if n.logger != nil {
			n.logger.Error("ProposalNotifier", "Failed to marshal snapshot", map[string]interface{}{"error": err})
		}
		return
	}

	if n.broker != nil {
		if err := n.broker.Publish(snapshot); err != nil && n.logger != nil {
			n.logger.Warn("ProposalNotifier", "Broker publish failed", map[string]interface{}{"error": err})
		}
	}

	if n.delivery != nil {
		n.delivery.Send(proposal.SessionId, snapshot)
	}

	if n.publisher != nil && event != nil {
		if err := n.publisher.Publish(ctx, event); err != nil && n.logger != nil {
			n.logger.Warn("ProposalNotifier", "NATS publish failed", map[string]interface{}{
				"error": err,
				"event": event.EventType(),
			})
		}
	}
}
