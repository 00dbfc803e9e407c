package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eop-planner-be/internal/constant"
	"eop-planner-be/internal/dto"
	"eop-planner-be/internal/entity"
	"eop-planner-be/internal/repository/memory"
	"eop-planner-be/internal/repository/specification"
)

func seedProposalWithResponses(t *testing.T, factory interface {
	Create(ctx context.Context, p *entity.Proposal) error
}, sessionId, section string, responses []string) *entity.Proposal {
	t.Helper()
	proposal := entity.NewProposal(sessionId)
	proposal.Section(section).Responses = responses
	require.NoError(t, factory.Create(context.Background(), proposal))
	return proposal
}

func TestGetOrCreateIsLazy(t *testing.T) {
	factory := memory.NewFactory()
	svc := NewProposalService(factory, answerProvider(), nil, nil)
	ctx := context.Background()

	first, err := svc.GetOrCreate(ctx, &dto.CreateProposalRequest{SessionId: "sess-a"})
	require.NoError(t, err)
	assert.Equal(t, "sess-a", first.SessionId)
	assert.Equal(t, int64(1), first.Version)
	for _, name := range constant.SectionOrder {
		assert.Equal(t, -1, first.Sections[name].LastRuleIndexAsked)
		assert.False(t, first.Sections[name].Completed)
	}

	second, err := svc.GetOrCreate(ctx, &dto.CreateProposalRequest{SessionId: "sess-a"})
	require.NoError(t, err)
	assert.Equal(t, first.Id, second.Id)
}

func TestGetBySessionNotFound(t *testing.T) {
	factory := memory.NewFactory()
	svc := NewProposalService(factory, answerProvider(), nil, nil)

	_, err := svc.GetBySession(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrProposalNotFound)
}

func TestGenerateSectionStoresNarrative(t *testing.T) {
	factory := memory.NewFactory()
	provider := &stubProvider{casualReply: "Acme Org operates a facility at 123 Main St."}
	svc := NewProposalService(factory, provider, nil, nil)
	ctx := context.Background()

	seedProposalWithResponses(t, factory.Proposals, "sess-b", constant.SectionInformation,
		[]string{"Acme Org", "contact@acme.org", "123 Main St"})

	res, err := svc.GenerateSection(ctx, &dto.GenerateProposalRequest{SessionId: "sess-b", Step: constant.GenerateStepInformation})
	require.NoError(t, err)

	assert.Equal(t, constant.GenerateStepInformation, res.Step)
	assert.Equal(t, constant.ChatStatusSuccess, res.Status)
	assert.Equal(t, "Acme Org operates a facility at 123 Main St.", res.GeneratedText)

	stored, _ := factory.Proposals.FindOne(ctx, specification.BySessionID{SessionID: "sess-b"})
	require.NotNil(t, stored.Section(constant.SectionInformation).GeneratedText)
	assert.Equal(t, res.GeneratedText, *stored.Section(constant.SectionInformation).GeneratedText)
}

func TestGenerateSectionMapsStepsToSections(t *testing.T) {
	factory := memory.NewFactory()
	provider := &stubProvider{casualReply: "narrative"}
	svc := NewProposalService(factory, provider, nil, nil)
	ctx := context.Background()

	proposal := entity.NewProposal("sess-c")
	proposal.Section(constant.SectionAssessment).Responses = []string{"annual", "flood, fire", "board reviews"}
	proposal.Section(constant.SectionResponsePlan).Responses = []string{"yes", "after incidents", "all staff"}
	require.NoError(t, factory.Proposals.Create(ctx, proposal))

	_, err := svc.GenerateSection(ctx, &dto.GenerateProposalRequest{SessionId: "sess-c", Step: constant.GenerateStepHazard})
	require.NoError(t, err)
	_, err = svc.GenerateSection(ctx, &dto.GenerateProposalRequest{SessionId: "sess-c", Step: constant.GenerateStepResponse})
	require.NoError(t, err)

	stored, _ := factory.Proposals.FindOne(ctx, specification.BySessionID{SessionID: "sess-c"})
	assert.NotNil(t, stored.Section(constant.SectionAssessment).GeneratedText)
	assert.NotNil(t, stored.Section(constant.SectionResponsePlan).GeneratedText)
	assert.Nil(t, stored.Section(constant.SectionInformation).GeneratedText)
}

func TestGenerateSectionFallsBackWhenModelFails(t *testing.T) {
	factory := memory.NewFactory()
	provider := &stubProvider{err: errors.New("model unreachable")}
	svc := NewProposalService(factory, provider, nil, nil)
	ctx := context.Background()

	seedProposalWithResponses(t, factory.Proposals, "sess-d", constant.SectionInformation,
		[]string{"Acme Org", "contact@acme.org", "123 Main St"})

	res, err := svc.GenerateSection(ctx, &dto.GenerateProposalRequest{SessionId: "sess-d", Step: constant.GenerateStepInformation})
	require.NoError(t, err)

	assert.Contains(t, res.GeneratedText, "Introduction:")
	assert.Contains(t, res.GeneratedText, "• Acme Org")
	assert.Contains(t, res.GeneratedText, "• 123 Main St")
}

func TestGenerateSectionRequiresEnoughResponses(t *testing.T) {
	factory := memory.NewFactory()
	svc := NewProposalService(factory, answerProvider(), nil, nil)
	ctx := context.Background()

	seedProposalWithResponses(t, factory.Proposals, "sess-e", constant.SectionInformation, []string{"Acme Org"})

	_, err := svc.GenerateSection(ctx, &dto.GenerateProposalRequest{SessionId: "sess-e", Step: constant.GenerateStepInformation})
	assert.ErrorIs(t, err, ErrInsufficientResponses)
}

func TestGenerateSectionUnknownStep(t *testing.T) {
	factory := memory.NewFactory()
	svc := NewProposalService(factory, answerProvider(), nil, nil)

	_, err := svc.GenerateSection(context.Background(), &dto.GenerateProposalRequest{SessionId: "sess-f", Step: "review"})
	assert.Error(t, err)
}

func TestGenerateSectionMissingProposal(t *testing.T) {
	factory := memory.NewFactory()
	svc := NewProposalService(factory, answerProvider(), nil, nil)

	_, err := svc.GenerateSection(context.Background(), &dto.GenerateProposalRequest{SessionId: "nope", Step: constant.GenerateStepInformation})
	assert.ErrorIs(t, err, ErrProposalNotFound)
}

func TestGetOrCreateAbsorbsLostCreateRace(t *testing.T) {
	inner := memory.NewFactory()
	factory := &racingFactory{Factory: inner}
	svc := NewProposalService(factory, answerProvider(), nil, nil)

	res, err := svc.GetOrCreate(context.Background(), &dto.CreateProposalRequest{SessionId: "sess-race"})
	require.NoError(t, err)
	assert.True(t, factory.raced)
	assert.Equal(t, "sess-race", res.SessionId)
	assert.Equal(t, int64(1), res.Version)
}
