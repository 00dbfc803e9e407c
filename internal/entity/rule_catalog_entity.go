package entity

import (
	"time"

	"github.com/google/uuid"
)

// Rule is one catalog question the user must answer to complete a section.
type Rule struct {
	Text string
}

// RuleCatalog is the static rules bank: four named sections, each an ordered
// list of rules. Immutable after seeding.
type RuleCatalog struct {
	Id        uuid.UUID
	Sections  map[string][]Rule
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// NewRuleCatalog builds a catalog from per-section rule lists.
func NewRuleCatalog(sections map[string][]Rule) *RuleCatalog {
	return &RuleCatalog{
		Id:        uuid.New(),
		Sections:  sections,
		CreatedAt: time.Now(),
	}
}

// SectionRules returns the ordered rules of the named section. A missing
// section yields an empty slice.
func (c *RuleCatalog) SectionRules(name string) []Rule {
	if c == nil || c.Sections == nil {
		return nil
	}
	return c.Sections[name]
}
