package events

import "time"

// Proposal lifecycle event codes. They double as NATS subject suffixes
// (published under "eop.<code>").
const (
	TypeProposalCreated    = "proposal.created"
	TypeProposalAdvanced   = "proposal.advanced"
	TypeSectionCompleted   = "proposal.section_completed"
	TypePlanCompleted      = "proposal.plan_completed"
	TypeNarrativeGenerated = "proposal.narrative_generated"
)

func NewProposalCreated(sessionId string) Event {
	return BaseEvent{
		Type:       TypeProposalCreated,
		Data:       map[string]interface{}{"session_id": sessionId},
		OccurredAt: time.Now(),
	}
}

func NewProposalAdvanced(sessionId, section string, ruleIndex int) Event {
	return BaseEvent{
		Type: TypeProposalAdvanced,
		Data: map[string]interface{}{
			"session_id": sessionId,
			"section":    section,
			"rule_index": ruleIndex,
		},
		OccurredAt: time.Now(),
	}
}

func NewSectionCompleted(sessionId, section string) Event {
	return BaseEvent{
		Type: TypeSectionCompleted,
		Data: map[string]interface{}{
			"session_id": sessionId,
			"section":    section,
		},
		OccurredAt: time.Now(),
	}
}

func NewPlanCompleted(sessionId string) Event {
	return BaseEvent{
		Type:       TypePlanCompleted,
		Data:       map[string]interface{}{"session_id": sessionId},
		OccurredAt: time.Now(),
	}
}

func NewNarrativeGenerated(sessionId, step string) Event {
	return BaseEvent{
		Type: TypeNarrativeGenerated,
		Data: map[string]interface{}{
			"session_id": sessionId,
			"step":       step,
		},
		OccurredAt: time.Now(),
	}
}
