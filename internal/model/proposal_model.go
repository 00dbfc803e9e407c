package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Proposal persists one session's questionnaire progress. Version is the
// optimistic-concurrency token: every logical state change increments it, and
// writers compare-and-swap on it.
type Proposal struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId   string         `gorm:"type:text;not null;uniqueIndex"`
	Sections    datatypes.JSON `gorm:"type:jsonb;not null"`
	Review      datatypes.JSON `gorm:"type:jsonb;not null"`
	Version     int64          `gorm:"not null;default:1"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	LastUpdated time.Time      `gorm:"column:last_updated;autoUpdateTime"`
}

func (Proposal) TableName() string {
	return "proposals"
}
