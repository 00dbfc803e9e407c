package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"eop-planner-be/internal/constant"
	"eop-planner-be/internal/dto"
	"eop-planner-be/internal/entity"
	"eop-planner-be/internal/pkg/logger"
	"eop-planner-be/internal/pkg/mailer"
	"eop-planner-be/internal/repository/contract"
	"eop-planner-be/internal/repository/specification"
	"eop-planner-be/internal/repository/unitofwork"
	"eop-planner-be/pkg/conversation"
	"eop-planner-be/pkg/events"
)

// conflictRetryBudget bounds how many times one inbound message may be
// re-driven after losing a version race to a concurrent writer.
const conflictRetryBudget = 3

const allCompleteMessage = "Your Emergency Operations Plan questionnaire is complete. All sections have been answered and your final document is ready."

type IChatService interface {
	Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error)
}

type chatService struct {
	uowFactory   unitofwork.RepositoryFactory
	rulesService IRulesService
	classifier   *conversation.Classifier
	validator    *conversation.Validator
	responder    *conversation.Responder
	notifier     *ProposalNotifier
	emailService mailer.IEmailService
	logger       logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	rulesService IRulesService,
	classifier *conversation.Classifier,
	validator *conversation.Validator,
	responder *conversation.Responder,
	notifier *ProposalNotifier,
	emailService mailer.IEmailService,
	log logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory:   uowFactory,
		rulesService: rulesService,
		classifier:   classifier,
		validator:    validator,
		responder:    responder,
		notifier:     notifier,
		emailService: emailService,
		logger:       log,
	}
}

// Chat maps one inbound message to one outbound reply and at most one
// persisted proposal mutation. A lost version race restarts the whole turn
// against the fresh state, up to conflictRetryBudget attempts.
func (s *chatService) Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	catalog, err := s.rulesService.GetCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load rule catalog: %w", err)
	}

	for attempt := 0; attempt < conflictRetryBudget; attempt++ {
		resp, err := s.driveTurn(ctx, catalog, req)
		if errors.Is(err, contract.ErrVersionConflict) {
			if s.logger != nil {
				s.logger.Warn("ChatService", "Version conflict, re-driving turn", map[string]interface{}{
					"session_id": req.SessionId,
					"attempt":    attempt + 1,
				})
			}
			continue
		}
		return resp, err
	}

	return nil, ErrConflictRetriesExhausted
}

func (s *chatService) driveTurn(ctx context.Context, catalog *entity.RuleCatalog, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.ProposalRepository()

	proposal, err := repo.FindOne(ctx, specification.BySessionID{SessionID: req.SessionId})
	if err != nil {
		return nil, err
	}
	if proposal == nil {
		proposal = entity.NewProposal(req.SessionId)
		if err := repo.Create(ctx, proposal); err != nil {
			return nil, err
		}
		s.notify(ctx, proposal, events.NewProposalCreated(proposal.SessionId))
	}

	active := proposal.ActiveSection()
	if active == "" {
		return &dto.ChatResponse{
			Response:  allCompleteMessage,
			SessionId: req.SessionId,
			Status:    constant.ChatStatusDone,
		}, nil
	}

	rules := catalog.SectionRules(active)
	if len(rules) == 0 {
		return nil, fmt.Errorf("%w: section %q has no rules", ErrStateMismatch, active)
	}

	section := proposal.Section(active)

	// First turn in the section: nothing to validate yet, just ask rule 0.
	if section.LastRuleIndexAsked == -1 {
		section.LastRuleIndexAsked = 0
		if err := repo.UpdateVersioned(ctx, proposal); err != nil {
			return nil, err
		}
		s.notify(ctx, proposal, events.NewProposalAdvanced(proposal.SessionId, active, 0))
		return &dto.ChatResponse{
			Response:  rules[0].Text,
			SessionId: req.SessionId,
			Status:    constant.ChatStatusSuccess,
		}, nil
	}

	idx := section.LastRuleIndexAsked
	if idx < 0 || idx >= len(rules) {
		return nil, fmt.Errorf("%w: section %q index %d, %d rules", ErrStateMismatch, active, idx, len(rules))
	}
	currentRule := rules[idx].Text

	if s.classifier.Classify(ctx, req.Message) == conversation.IntentConversation {
		reply := s.responder.Reply(ctx, currentRule, req.Message)
		if err := repo.Touch(ctx, req.SessionId); err != nil && s.logger != nil {
			s.logger.Warn("ChatService", "Failed to touch proposal", map[string]interface{}{"error": err})
		}
		return &dto.ChatResponse{
			Response:  reply,
			SessionId: req.SessionId,
			Status:    constant.ChatStatusSuccess,
		}, nil
	}

	verdict := s.validator.Validate(ctx, currentRule, req.Message)
	if !verdict.Valid {
		if err := repo.Touch(ctx, req.SessionId); err != nil && s.logger != nil {
			s.logger.Warn("ChatService", "Failed to touch proposal", map[string]interface{}{"error": err})
		}
		return &dto.ChatResponse{
			Response:  verdict.Guidance,
			SessionId: req.SessionId,
			Status:    constant.ChatStatusRetry,
		}, nil
	}

	section.Responses = append(section.Responses, req.Message)

	if idx+1 < len(rules) {
		section.LastRuleIndexAsked = idx + 1
		if err := repo.UpdateVersioned(ctx, proposal); err != nil {
			return nil, err
		}
		s.notify(ctx, proposal, events.NewProposalAdvanced(proposal.SessionId, active, idx+1))
		return &dto.ChatResponse{
			Response:  fmt.Sprintf("Got it, thanks! Next question: %s", rules[idx+1].Text),
			SessionId: req.SessionId,
			Status:    constant.ChatStatusSuccess,
		}, nil
	}

	// Last rule of the section answered.
	section.Completed = true

	planDone := active == constant.SectionReview
	if planDone {
		doc := assembleFinalDocument(proposal)
		proposal.Review.Completed = true
		proposal.Review.FinalDocument = &doc
	}

	if err := repo.UpdateVersioned(ctx, proposal); err != nil {
		return nil, err
	}

	if planDone {
		s.notify(ctx, proposal, events.NewPlanCompleted(proposal.SessionId))
		s.deliverFinalDocument(proposal)
		return &dto.ChatResponse{
			Response:  "That was the last question. Your Emergency Operations Plan has been assembled — thank you!",
			SessionId: req.SessionId,
			Status:    constant.ChatStatusSectionCompleted,
		}, nil
	}

	s.notify(ctx, proposal, events.NewSectionCompleted(proposal.SessionId, active))
	return &dto.ChatResponse{
		Response:  fmt.Sprintf("Great, that completes the %s section. Send any message to start the next one.", active),
		SessionId: req.SessionId,
		Status:    constant.ChatStatusSectionCompleted,
	}, nil
}

func (s *chatService) notify(ctx context.Context, proposal *entity.Proposal, event events.Event) {
	if s.notifier != nil {
		s.notifier.Notify(ctx, proposal, event)
	}
}

// deliverFinalDocument emails the assembled plan to the contact address
// captured during the information section. Delivery is best-effort.
func (s *chatService) deliverFinalDocument(proposal *entity.Proposal) {
	if s.emailService == nil || proposal.Review.FinalDocument == nil {
		return
	}

	info := proposal.Section(constant.SectionInformation)
	if len(info.Responses) < 2 {
		return
	}
	contact := strings.TrimSpace(info.Responses[1])
	if !strings.Contains(contact, "@") {
		return
	}

	if err := s.emailService.SendPlanDocument(contact, proposal.SessionId, *proposal.Review.FinalDocument); err != nil && s.logger != nil {
		s.logger.Warn("ChatService", "Failed to email final plan", map[string]interface{}{
			"session_id": proposal.SessionId,
			"error":      err,
		})
	}
}

// assembleFinalDocument composes the full plan text from the per-section
// narratives, falling back to the raw responses for sections that were never
// run through the generator.
func assembleFinalDocument(p *entity.Proposal) string {
	headings := map[string]string{
		constant.SectionInformation:  "Introduction",
		constant.SectionAssessment:   "Hazard Assessment",
		constant.SectionResponsePlan: "Emergency Response Plan",
		constant.SectionReview:       "Review & Maintenance",
	}

	var b strings.Builder
	b.WriteString("Emergency Operations Plan\n")

	for _, name := range constant.SectionOrder {
		sec := p.Section(name)
		b.WriteString("\n## ")
		b.WriteString(headings[name])
		b.WriteString("\n")

		if sec.GeneratedText != nil && strings.TrimSpace(*sec.GeneratedText) != "" {
			b.WriteString(strings.TrimSpace(*sec.GeneratedText))
			b.WriteString("\n")
			continue
		}
		for _, r := range sec.Responses {
			b.WriteString(fmt.Sprintf("• %s\n", r))
		}
	}

	return b.String()
}
