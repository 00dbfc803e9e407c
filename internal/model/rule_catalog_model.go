package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// RuleCatalog persists the rules bank as one row; the uniqueIndex on
// Singleton gives the idempotent-seed guarantee (a concurrent second insert
// fails with a duplicate-key error instead of creating a second catalog).
type RuleCatalog struct {
	Id           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Singleton    int16          `gorm:"not null;default:1;uniqueIndex"`
	Information  datatypes.JSON `gorm:"type:jsonb;not null"`
	Assessment   datatypes.JSON `gorm:"type:jsonb;not null"`
	ResponsePlan datatypes.JSON `gorm:"type:jsonb;not null"`
	Review       datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime"`
}

func (RuleCatalog) TableName() string {
	return "rule_catalogs"
}
