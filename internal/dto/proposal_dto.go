package dto

import (
	"time"

	"github.com/google/uuid"

	"eop-planner-be/internal/entity"
)

type CreateProposalRequest struct {
	SessionId string `json:"session_id" validate:"required"`
}

type SectionProgressDTO struct {
	Completed          bool     `json:"completed"`
	LastRuleIndexAsked int      `json:"last_rule_index_asked"`
	Responses          []string `json:"responses"`
	GeneratedText      *string  `json:"generated_text"`
}

type ReviewStateDTO struct {
	Completed     bool    `json:"completed"`
	FinalDocument *string `json:"final_document"`
}

type ProposalResponse struct {
	Id          uuid.UUID                     `json:"id"`
	SessionId   string                        `json:"session_id"`
	Sections    map[string]SectionProgressDTO `json:"sections"`
	Review      ReviewStateDTO                `json:"review"`
	Version     int64                         `json:"version"`
	CreatedAt   time.Time                     `json:"created_at"`
	LastUpdated time.Time                     `json:"last_updated"`
}

func NewProposalResponse(p *entity.Proposal) *ProposalResponse {
	if p == nil {
		return nil
	}
	sections := make(map[string]SectionProgressDTO, len(p.Sections))
	for name, sec := range p.Sections {
		if sec == nil {
			continue
		}
		sections[name] = SectionProgressDTO{
			Completed:          sec.Completed,
			LastRuleIndexAsked: sec.LastRuleIndexAsked,
			Responses:          sec.Responses,
			GeneratedText:      sec.GeneratedText,
		}
	}
	return &ProposalResponse{
		Id:        p.Id,
		SessionId: p.SessionId,
		Sections:  sections,
		Review: ReviewStateDTO{
			Completed:     p.Review.Completed,
			FinalDocument: p.Review.FinalDocument,
		},
		Version:     p.Version,
		CreatedAt:   p.CreatedAt,
		LastUpdated: p.LastUpdated,
	}
}

type GenerateProposalRequest struct {
	SessionId string `json:"session_id" validate:"required"`
	Step      string `json:"step" validate:"required,oneof=information hazard response"`
}

type GenerateProposalResponse struct {
	GeneratedText string `json:"generatedText"`
	Step          string `json:"step"`
	Status        string `json:"status"`
}
