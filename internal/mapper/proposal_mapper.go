package mapper

import (
	"encoding/json"

	"gorm.io/datatypes"

	"eop-planner-be/internal/entity"
	"eop-planner-be/internal/model"
)

type ProposalMapper struct{}

func NewProposalMapper() *ProposalMapper {
	return &ProposalMapper{}
}

func (m *ProposalMapper) ToEntity(p *model.Proposal) (*entity.Proposal, error) {
	if p == nil {
		return nil, nil
	}

	sections := make(map[string]*entity.SectionProgress)
	if len(p.Sections) > 0 {
		if err := json.Unmarshal(p.Sections, &sections); err != nil {
			return nil, err
		}
	}

	var review entity.ReviewState
	if len(p.Review) > 0 {
		if err := json.Unmarshal(p.Review, &review); err != nil {
			return nil, err
		}
	}

	return &entity.Proposal{
		Id:          p.Id,
		SessionId:   p.SessionId,
		Sections:    sections,
		Review:      review,
		Version:     p.Version,
		CreatedAt:   p.CreatedAt,
		LastUpdated: p.LastUpdated,
	}, nil
}

func (m *ProposalMapper) ToModel(p *entity.Proposal) (*model.Proposal, error) {
	if p == nil {
		return nil, nil
	}

	sections, err := json.Marshal(p.Sections)
	if err != nil {
		return nil, err
	}
	review, err := json.Marshal(p.Review)
	if err != nil {
		return nil, err
	}

	return &model.Proposal{
		Id:          p.Id,
		SessionId:   p.SessionId,
		Sections:    datatypes.JSON(sections),
		Review:      datatypes.JSON(review),
		Version:     p.Version,
		CreatedAt:   p.CreatedAt,
		LastUpdated: p.LastUpdated,
	}, nil
}
