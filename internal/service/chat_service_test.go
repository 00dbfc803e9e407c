package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eop-planner-be/internal/constant"
	"eop-planner-be/internal/dto"
	"eop-planner-be/internal/entity"
	"eop-planner-be/internal/pkg/mailer"
	"eop-planner-be/internal/repository/contract"
	"eop-planner-be/internal/repository/memory"
	"eop-planner-be/internal/repository/specification"
	"eop-planner-be/internal/repository/unitofwork"
	"eop-planner-be/pkg/conversation"
	"eop-planner-be/pkg/llm"
)

// stubProvider scripts the model: intent prompts get intentReply, validation
// prompts get validationReply, everything else gets casualReply.
type stubProvider struct {
	intentReply     string
	validationReply string
	casualReply     string
	err             error
}

func (s *stubProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return "", errors.New("not used")
}

func (s *stubProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	switch {
	case strings.Contains(prompt, "classify the user's intent"):
		return s.intentReply, nil
	case strings.Contains(prompt, "validating a user's answer"):
		return s.validationReply, nil
	default:
		return s.casualReply, nil
	}
}

type stubMailer struct {
	sentTo  string
	sentDoc string
}

func (m *stubMailer) SendPlanDocument(toEmail, sessionId, document string) error {
	m.sentTo = toEmail
	m.sentDoc = document
	return nil
}

func newTestChatService(factory unitofwork.RepositoryFactory, provider llm.LLMProvider, mail *stubMailer) IChatService {
	quiet := log.New(log.Writer(), "", 0)
	rules := NewRulesService(factory, nil, nil)
	var emailService mailer.IEmailService
	if mail != nil {
		emailService = mail
	}
	return NewChatService(
		factory,
		rules,
		conversation.NewClassifier(provider, quiet),
		conversation.NewValidator(provider, quiet),
		conversation.NewResponder(provider, quiet),
		nil,
		emailService,
		nil,
	)
}

func answerProvider() *stubProvider {
	return &stubProvider{
		intentReply:     "validation",
		validationReply: "VALID",
		casualReply:     "Hi!",
	}
}

func TestChatFirstMessageAsksFirstRule(t *testing.T) {
	factory := memory.NewFactory()
	svc := newTestChatService(factory, answerProvider(), nil)

	res, err := svc.Chat(context.Background(), &dto.ChatRequest{SessionId: "sess-1", Message: "hi"})
	require.NoError(t, err)

	assert.Equal(t, constant.ChatStatusSuccess, res.Status)
	assert.Equal(t, "Organization name must be provided.", res.Response)
	assert.Equal(t, "sess-1", res.SessionId)

	stored, err := factory.Proposals.FindOne(context.Background(), specification.BySessionID{SessionID: "sess-1"})
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, 0, stored.Section(constant.SectionInformation).LastRuleIndexAsked)
	assert.Empty(t, stored.Section(constant.SectionInformation).Responses)
}

func TestChatValidAnswersWalkTheInformationSection(t *testing.T) {
	factory := memory.NewFactory()
	svc := newTestChatService(factory, answerProvider(), nil)
	ctx := context.Background()

	// First turn asks rule 0; the three answers then complete the section.
	turns := []struct {
		message    string
		wantStatus string
	}{
		{"hi", constant.ChatStatusSuccess},
		{"Acme Org", constant.ChatStatusSuccess},
		{"contact@acme.org", constant.ChatStatusSuccess},
		{"123 Main St", constant.ChatStatusSectionCompleted},
	}

	lastIdx := -1
	for _, turn := range turns {
		res, err := svc.Chat(ctx, &dto.ChatRequest{SessionId: "sess-2", Message: turn.message})
		require.NoError(t, err)
		assert.Equal(t, turn.wantStatus, res.Status)

		stored, _ := factory.Proposals.FindOne(ctx, specification.BySessionID{SessionID: "sess-2"})
		idx := stored.Section(constant.SectionInformation).LastRuleIndexAsked
		assert.GreaterOrEqual(t, idx, lastIdx, "rule index must never move backwards")
		lastIdx = idx
	}

	stored, _ := factory.Proposals.FindOne(ctx, specification.BySessionID{SessionID: "sess-2"})
	info := stored.Section(constant.SectionInformation)
	assert.True(t, info.Completed)
	assert.Equal(t, []string{"Acme Org", "contact@acme.org", "123 Main St"}, info.Responses)
	assert.Equal(t, constant.SectionAssessment, stored.ActiveSection())
}

func TestChatInvalidAnswerRetriesWithoutAdvancing(t *testing.T) {
	factory := memory.NewFactory()
	provider := &stubProvider{
		intentReply:     "validation",
		validationReply: "We're expecting something like: your organization's legal name. Could you please try again?",
	}
	svc := newTestChatService(factory, provider, nil)
	ctx := context.Background()

	_, err := svc.Chat(ctx, &dto.ChatRequest{SessionId: "sess-3", Message: "hi"})
	require.NoError(t, err)

	res, err := svc.Chat(ctx, &dto.ChatRequest{SessionId: "sess-3", Message: "asdf"})
	require.NoError(t, err)

	assert.Equal(t, constant.ChatStatusRetry, res.Status)
	assert.Contains(t, res.Response, "We're expecting something like")

	stored, _ := factory.Proposals.FindOne(ctx, specification.BySessionID{SessionID: "sess-3"})
	info := stored.Section(constant.SectionInformation)
	assert.Equal(t, 0, info.LastRuleIndexAsked)
	assert.Empty(t, info.Responses)
	assert.False(t, info.Completed)
}

func TestChatCasualMessageIsRedirectedWithoutMutation(t *testing.T) {
	factory := memory.NewFactory()
	provider := &stubProvider{
		intentReply: "conversation",
		casualReply: "Hi there! Let's get back to the form.",
	}
	svc := newTestChatService(factory, provider, nil)
	ctx := context.Background()

	_, err := svc.Chat(ctx, &dto.ChatRequest{SessionId: "sess-4", Message: "hi"})
	require.NoError(t, err)
	before, _ := factory.Proposals.FindOne(ctx, specification.BySessionID{SessionID: "sess-4"})

	res, err := svc.Chat(ctx, &dto.ChatRequest{SessionId: "sess-4", Message: "how are you today?"})
	require.NoError(t, err)

	assert.Equal(t, constant.ChatStatusSuccess, res.Status)
	assert.Equal(t, "Hi there! Let's get back to the form.", res.Response)

	after, _ := factory.Proposals.FindOne(ctx, specification.BySessionID{SessionID: "sess-4"})
	assert.Equal(t, before.Version, after.Version)
	assert.Equal(t, before.Section(constant.SectionInformation).LastRuleIndexAsked,
		after.Section(constant.SectionInformation).LastRuleIndexAsked)
}

func TestChatCompletedPlanReturnsDoneWithoutMutation(t *testing.T) {
	factory := memory.NewFactory()
	svc := newTestChatService(factory, answerProvider(), nil)
	ctx := context.Background()

	proposal := entity.NewProposal("sess-5")
	for _, name := range constant.SectionOrder {
		proposal.Section(name).Completed = true
	}
	proposal.Review.Completed = true
	require.NoError(t, factory.Proposals.Create(ctx, proposal))

	res, err := svc.Chat(ctx, &dto.ChatRequest{SessionId: "sess-5", Message: "anything"})
	require.NoError(t, err)

	assert.Equal(t, constant.ChatStatusDone, res.Status)

	stored, _ := factory.Proposals.FindOne(ctx, specification.BySessionID{SessionID: "sess-5"})
	assert.Equal(t, proposal.Version, stored.Version)
}

func TestChatReviewCompletionAssemblesAndEmailsFinalDocument(t *testing.T) {
	factory := memory.NewFactory()
	mail := &stubMailer{}
	svc := newTestChatService(factory, answerProvider(), mail)
	ctx := context.Background()

	proposal := entity.NewProposal("sess-6")
	info := proposal.Section(constant.SectionInformation)
	info.Completed = true
	info.Responses = []string{"Acme Org", "contact@acme.org", "123 Main St"}
	proposal.Section(constant.SectionAssessment).Completed = true
	proposal.Section(constant.SectionResponsePlan).Completed = true
	review := proposal.Section(constant.SectionReview)
	review.LastRuleIndexAsked = 1
	review.Responses = []string{"every 6 months"}
	require.NoError(t, factory.Proposals.Create(ctx, proposal))

	res, err := svc.Chat(ctx, &dto.ChatRequest{SessionId: "sess-6", Message: "findings are shared with all staff"})
	require.NoError(t, err)

	assert.Equal(t, constant.ChatStatusSectionCompleted, res.Status)

	stored, _ := factory.Proposals.FindOne(ctx, specification.BySessionID{SessionID: "sess-6"})
	assert.True(t, stored.Review.Completed)
	require.NotNil(t, stored.Review.FinalDocument)
	assert.Contains(t, *stored.Review.FinalDocument, "Emergency Operations Plan")
	assert.Contains(t, *stored.Review.FinalDocument, "Acme Org")

	assert.Equal(t, "contact@acme.org", mail.sentTo)
	assert.Contains(t, mail.sentDoc, "Acme Org")
}

func TestChatOutOfRangeIndexIsStateMismatch(t *testing.T) {
	factory := memory.NewFactory()
	svc := newTestChatService(factory, answerProvider(), nil)
	ctx := context.Background()

	proposal := entity.NewProposal("sess-7")
	proposal.Section(constant.SectionInformation).LastRuleIndexAsked = 99
	require.NoError(t, factory.Proposals.Create(ctx, proposal))

	_, err := svc.Chat(ctx, &dto.ChatRequest{SessionId: "sess-7", Message: "Acme Org"})
	assert.ErrorIs(t, err, ErrStateMismatch)
}

// conflictingFactory wraps the in-memory store so the first n versioned
// updates lose a simulated race.
type conflictingFactory struct {
	*memory.Factory
	remaining int
}

func (f *conflictingFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &conflictingUow{UnitOfWork: f.Factory.NewUnitOfWork(ctx), parent: f}
}

type conflictingUow struct {
	unitofwork.UnitOfWork
	parent *conflictingFactory
}

func (u *conflictingUow) ProposalRepository() contract.ProposalRepository {
	return &conflictingProposals{ProposalRepository: u.UnitOfWork.ProposalRepository(), parent: u.parent}
}

type conflictingProposals struct {
	contract.ProposalRepository
	parent *conflictingFactory
}

func (r *conflictingProposals) UpdateVersioned(ctx context.Context, proposal *entity.Proposal) error {
	if r.parent.remaining > 0 {
		r.parent.remaining--
		return contract.ErrVersionConflict
	}
	return r.ProposalRepository.UpdateVersioned(ctx, proposal)
}

func TestChatRetriesVersionConflicts(t *testing.T) {
	inner := memory.NewFactory()
	factory := &conflictingFactory{Factory: inner, remaining: 2}
	svc := newTestChatService(factory, answerProvider(), nil)

	res, err := svc.Chat(context.Background(), &dto.ChatRequest{SessionId: "sess-8", Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, constant.ChatStatusSuccess, res.Status)

	stored, _ := inner.Proposals.FindOne(context.Background(), specification.BySessionID{SessionID: "sess-8"})
	assert.Equal(t, 0, stored.Section(constant.SectionInformation).LastRuleIndexAsked)
}

func TestChatGivesUpAfterRepeatedConflicts(t *testing.T) {
	inner := memory.NewFactory()
	factory := &conflictingFactory{Factory: inner, remaining: 100}
	svc := newTestChatService(factory, answerProvider(), nil)

	_, err := svc.Chat(context.Background(), &dto.ChatRequest{SessionId: "sess-9", Message: "hi"})
	assert.ErrorIs(t, err, ErrConflictRetriesExhausted)
}

// racingFactory wraps the in-memory store so the first proposal create loses
// a simulated race: a rival writer lands the session row just before the
// insert, which surfaces as a version conflict.
type racingFactory struct {
	*memory.Factory
	raced bool
}

func (f *racingFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &racingUow{UnitOfWork: f.Factory.NewUnitOfWork(ctx), parent: f}
}

type racingUow struct {
	unitofwork.UnitOfWork
	parent *racingFactory
}

func (u *racingUow) ProposalRepository() contract.ProposalRepository {
	return &racingProposals{ProposalRepository: u.UnitOfWork.ProposalRepository(), parent: u.parent}
}

type racingProposals struct {
	contract.ProposalRepository
	parent *racingFactory
}

func (r *racingProposals) Create(ctx context.Context, proposal *entity.Proposal) error {
	if !r.parent.raced {
		r.parent.raced = true
		rival := entity.NewProposal(proposal.SessionId)
		if err := r.ProposalRepository.Create(ctx, rival); err != nil {
			return err
		}
	}
	return r.ProposalRepository.Create(ctx, proposal)
}

func TestChatAbsorbsLostCreateRace(t *testing.T) {
	inner := memory.NewFactory()
	factory := &racingFactory{Factory: inner}
	svc := newTestChatService(factory, answerProvider(), nil)

	res, err := svc.Chat(context.Background(), &dto.ChatRequest{SessionId: "sess-10", Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, constant.ChatStatusSuccess, res.Status)
	assert.True(t, factory.raced)

	stored, findErr := inner.Proposals.FindOne(context.Background(), specification.BySessionID{SessionID: "sess-10"})
	require.NoError(t, findErr)
	require.NotNil(t, stored)
	assert.Equal(t, 0, stored.Section(constant.SectionInformation).LastRuleIndexAsked)
}
