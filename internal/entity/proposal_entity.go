package entity

import (
	"time"

	"github.com/google/uuid"

	"eop-planner-be/internal/constant"
)

// SectionProgress tracks one section of a proposal questionnaire.
// LastRuleIndexAsked is -1 until the section's first rule has been asked and
// is monotonically non-decreasing afterwards.
type SectionProgress struct {
	Completed          bool     `json:"completed"`
	LastRuleIndexAsked int      `json:"last_rule_index_asked"`
	Responses          []string `json:"responses"`
	GeneratedText      *string  `json:"generated_text"`
}

// ReviewState holds the terminal state of a proposal: once the review section
// completes, FinalDocument carries the assembled EOP text.
type ReviewState struct {
	Completed     bool    `json:"completed"`
	FinalDocument *string `json:"final_document"`
}

// Proposal is the per-session progress record of one EOP questionnaire run.
type Proposal struct {
	Id          uuid.UUID
	SessionId   string
	Sections    map[string]*SectionProgress
	Review      ReviewState
	Version     int64
	CreatedAt   time.Time
	LastUpdated time.Time
}

// NewProposal returns a fresh proposal for the session: every section
// incomplete with no rule asked yet.
func NewProposal(sessionId string) *Proposal {
	sections := make(map[string]*SectionProgress, len(constant.SectionOrder))
	for _, name := range constant.SectionOrder {
		sections[name] = &SectionProgress{
			Completed:          false,
			LastRuleIndexAsked: -1,
			Responses:          []string{},
		}
	}
	now := time.Now()
	return &Proposal{
		Id:          uuid.New(),
		SessionId:   sessionId,
		Sections:    sections,
		Review:      ReviewState{},
		Version:     1,
		CreatedAt:   now,
		LastUpdated: now,
	}
}

// ActiveSection returns the first section in catalog order that is not yet
// completed, or "" when the whole questionnaire is done.
func (p *Proposal) ActiveSection() string {
	for _, name := range constant.SectionOrder {
		sec := p.Sections[name]
		if sec == nil || !sec.Completed {
			return name
		}
	}
	return ""
}

// Section returns the progress record for the named section, creating an
// empty one if the stored document predates the section.
func (p *Proposal) Section(name string) *SectionProgress {
	if p.Sections == nil {
		p.Sections = make(map[string]*SectionProgress)
	}
	sec, ok := p.Sections[name]
	if !ok || sec == nil {
		sec = &SectionProgress{LastRuleIndexAsked: -1, Responses: []string{}}
		p.Sections[name] = sec
	}
	return sec
}
