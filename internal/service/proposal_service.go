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
	"eop-planner-be/internal/repository/contract"
	"eop-planner-be/internal/repository/specification"
	"eop-planner-be/internal/repository/unitofwork"
	"eop-planner-be/pkg/events"
	"eop-planner-be/pkg/llm"
)

type IProposalService interface {
	// GetBySession returns the proposal for the session, or
	// ErrProposalNotFound when none exists.
	GetBySession(ctx context.Context, sessionId string) (*dto.ProposalResponse, error)

	// GetOrCreate returns the proposal for the session, creating a fresh one
	// when the session is new.
	GetOrCreate(ctx context.Context, req *dto.CreateProposalRequest) (*dto.ProposalResponse, error)

	// GenerateSection produces the narrative text for one generation step and
	// stores it on the backing section.
	GenerateSection(ctx context.Context, req *dto.GenerateProposalRequest) (*dto.GenerateProposalResponse, error)
}

// generationStep describes how one narrative step reads its section.
type generationStep struct {
	section  string
	heading  string
	prompt   string
	labels   [3]string
	minCount int
}

var generationSteps = map[string]generationStep{
	constant.GenerateStepInformation: {
		section:  constant.SectionInformation,
		heading:  "Introduction",
		prompt:   "Generate a professional and concise introduction for an Emergency Operations Plan proposal using the following information:",
		labels:   [3]string{"Organization Name", "Primary Contact Email", "Facility Address"},
		minCount: 3,
	},
	constant.GenerateStepHazard: {
		section:  constant.SectionAssessment,
		heading:  "Hazard Assessment",
		prompt:   "Generate a detailed hazard assessment section for an Emergency Operations Plan proposal using the following responses:",
		labels:   [3]string{"Risk Assessment", "Documented Risks", "Management Review"},
		minCount: 3,
	},
	constant.GenerateStepResponse: {
		section:  constant.SectionResponsePlan,
		heading:  "Emergency Response Plan",
		prompt:   "Generate a comprehensive emergency response plan section for an Emergency Operations Plan proposal using the following responses:",
		labels:   [3]string{"Written Plan", "Plan Updates", "Staff Training"},
		minCount: 3,
	},
}

type proposalService struct {
	uowFactory unitofwork.RepositoryFactory
	provider   llm.LLMProvider
	notifier   *ProposalNotifier
	logger     logger.ILogger
}

func NewProposalService(
	uowFactory unitofwork.RepositoryFactory,
	provider llm.LLMProvider,
	notifier *ProposalNotifier,
	log logger.ILogger,
) IProposalService {
	return &proposalService{
		uowFactory: uowFactory,
		provider:   provider,
		notifier:   notifier,
		logger:     log,
	}
}

func (s *proposalService) GetBySession(ctx context.Context, sessionId string) (*dto.ProposalResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	proposal, err := uow.ProposalRepository().FindOne(ctx, specification.BySessionID{SessionID: sessionId})
	if err != nil {
		return nil, err
	}
	if proposal == nil {
		return nil, ErrProposalNotFound
	}
	return dto.NewProposalResponse(proposal), nil
}

func (s *proposalService) GetOrCreate(ctx context.Context, req *dto.CreateProposalRequest) (*dto.ProposalResponse, error) {
	for attempt := 0; attempt < conflictRetryBudget; attempt++ {
		resp, err := s.getOrCreateOnce(ctx, req)
		if errors.Is(err, contract.ErrVersionConflict) {
			continue
		}
		return resp, err
	}
	return nil, ErrConflictRetriesExhausted
}

func (s *proposalService) getOrCreateOnce(ctx context.Context, req *dto.CreateProposalRequest) (*dto.ProposalResponse, error) {
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
		if s.notifier != nil {
			s.notifier.Notify(ctx, proposal, events.NewProposalCreated(proposal.SessionId))
		}
	}
	return dto.NewProposalResponse(proposal), nil
}

func (s *proposalService) GenerateSection(ctx context.Context, req *dto.GenerateProposalRequest) (*dto.GenerateProposalResponse, error) {
	step, ok := generationSteps[req.Step]
	if !ok {
		return nil, fmt.Errorf("unsupported generation step %q", req.Step)
	}

	for attempt := 0; attempt < conflictRetryBudget; attempt++ {
		resp, err := s.generateOnce(ctx, step, req)
		if errors.Is(err, contract.ErrVersionConflict) {
			continue
		}
		return resp, err
	}
	return nil, ErrConflictRetriesExhausted
}

func (s *proposalService) generateOnce(ctx context.Context, step generationStep, req *dto.GenerateProposalRequest) (*dto.GenerateProposalResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.ProposalRepository()

	proposal, err := repo.FindOne(ctx, specification.BySessionID{SessionID: req.SessionId})
	if err != nil {
		return nil, err
	}
	if proposal == nil {
		return nil, ErrProposalNotFound
	}

	section := proposal.Section(step.section)
	if len(section.Responses) < step.minCount {
		return nil, fmt.Errorf("%w: step %s needs %d, has %d", ErrInsufficientResponses, req.Step, step.minCount, len(section.Responses))
	}

	text := s.generateNarrative(ctx, step, section.Responses)
	section.GeneratedText = &text

	if err := repo.UpdateVersioned(ctx, proposal); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, proposal, events.NewNarrativeGenerated(proposal.SessionId, req.Step))
	}

	return &dto.GenerateProposalResponse{
		GeneratedText: text,
		Step:          req.Step,
		Status:        constant.ChatStatusSuccess,
	}, nil
}

// generateNarrative asks the model for the section narrative. When the model
// is unreachable it degrades to a labeled bullet list of the raw responses so
// the document is never empty.
func (s *proposalService) generateNarrative(ctx context.Context, step generationStep, responses []string) string {
	var prompt strings.Builder
	prompt.WriteString(step.prompt)
	prompt.WriteString("\n\n")
	for i, label := range step.labels {
		prompt.WriteString(fmt.Sprintf("%s: %s\n", label, responses[i]))
	}

	text, err := s.provider.Generate(ctx, prompt.String())
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("ProposalService", "Narrative generation failed, using fallback", map[string]interface{}{
				"step":  step.section,
				"error": err,
			})
		}
		var fallback strings.Builder
		fallback.WriteString(step.heading)
		fallback.WriteString(":\n")
		for _, r := range responses {
			fallback.WriteString(fmt.Sprintf("• %s\n", r))
		}
		return fallback.String()
	}
	return strings.TrimSpace(text)
}
