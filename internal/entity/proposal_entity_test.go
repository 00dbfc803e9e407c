package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"eop-planner-be/internal/constant"
)

func TestNewProposalStartsEverySectionFresh(t *testing.T) {
	p := NewProposal("sess")

	assert.Equal(t, "sess", p.SessionId)
	assert.Equal(t, int64(1), p.Version)
	for _, name := range constant.SectionOrder {
		sec := p.Section(name)
		assert.False(t, sec.Completed)
		assert.Equal(t, -1, sec.LastRuleIndexAsked)
		assert.Empty(t, sec.Responses)
	}
	assert.False(t, p.Review.Completed)
	assert.Nil(t, p.Review.FinalDocument)
}

func TestActiveSectionFollowsCatalogOrder(t *testing.T) {
	p := NewProposal("sess")
	assert.Equal(t, constant.SectionInformation, p.ActiveSection())

	p.Section(constant.SectionInformation).Completed = true
	assert.Equal(t, constant.SectionAssessment, p.ActiveSection())

	p.Section(constant.SectionAssessment).Completed = true
	p.Section(constant.SectionResponsePlan).Completed = true
	assert.Equal(t, constant.SectionReview, p.ActiveSection())

	p.Section(constant.SectionReview).Completed = true
	assert.Equal(t, "", p.ActiveSection())
}

func TestSectionCreatesMissingEntries(t *testing.T) {
	p := &Proposal{SessionId: "old-doc"}

	sec := p.Section(constant.SectionInformation)
	assert.NotNil(t, sec)
	assert.Equal(t, -1, sec.LastRuleIndexAsked)

	// Same pointer comes back on subsequent calls.
	sec.LastRuleIndexAsked = 2
	assert.Equal(t, 2, p.Section(constant.SectionInformation).LastRuleIndexAsked)
}
