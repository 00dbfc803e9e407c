package mapper

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"eop-planner-be/internal/constant"
	"eop-planner-be/internal/entity"
	"eop-planner-be/internal/model"
)

// ruleDoc is the stored JSON shape of one catalog rule.
type ruleDoc struct {
	Rule string `json:"rule"`
}

type CatalogMapper struct{}

func NewCatalogMapper() *CatalogMapper {
	return &CatalogMapper{}
}

func (m *CatalogMapper) ToEntity(c *model.RuleCatalog) (*entity.RuleCatalog, error) {
	if c == nil {
		return nil, nil
	}

	sections := make(map[string][]entity.Rule, 4)
	columns := map[string]datatypes.JSON{
		constant.SectionInformation:  c.Information,
		constant.SectionAssessment:   c.Assessment,
		constant.SectionResponsePlan: c.ResponsePlan,
		constant.SectionReview:       c.Review,
	}
	for name, raw := range columns {
		rules, err := decodeRules(raw)
		if err != nil {
			return nil, err
		}
		sections[name] = rules
	}

	var updatedAt *time.Time
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		updatedAt = &t
	}

	return &entity.RuleCatalog{
		Id:        c.Id,
		Sections:  sections,
		CreatedAt: c.CreatedAt,
		UpdatedAt: updatedAt,
	}, nil
}

func (m *CatalogMapper) ToModel(c *entity.RuleCatalog) (*model.RuleCatalog, error) {
	if c == nil {
		return nil, nil
	}

	info, err := encodeRules(c.SectionRules(constant.SectionInformation))
	if err != nil {
		return nil, err
	}
	assessment, err := encodeRules(c.SectionRules(constant.SectionAssessment))
	if err != nil {
		return nil, err
	}
	responsePlan, err := encodeRules(c.SectionRules(constant.SectionResponsePlan))
	if err != nil {
		return nil, err
	}
	review, err := encodeRules(c.SectionRules(constant.SectionReview))
	if err != nil {
		return nil, err
	}

	return &model.RuleCatalog{
		Id:           c.Id,
		Singleton:    1,
		Information:  info,
		Assessment:   assessment,
		ResponsePlan: responsePlan,
		Review:       review,
		CreatedAt:    c.CreatedAt,
	}, nil
}

func decodeRules(raw datatypes.JSON) ([]entity.Rule, error) {
	if len(raw) == 0 {
		return []entity.Rule{}, nil
	}
	var docs []ruleDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, err
	}
	rules := make([]entity.Rule, len(docs))
	for i, d := range docs {
		rules[i] = entity.Rule{Text: d.Rule}
	}
	return rules, nil
}

func encodeRules(rules []entity.Rule) (datatypes.JSON, error) {
	docs := make([]ruleDoc, len(rules))
	for i, r := range rules {
		docs[i] = ruleDoc{Rule: r.Text}
	}
	raw, err := json.Marshal(docs)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
