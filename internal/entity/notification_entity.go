package entity

import (
	"time"

	"github.com/google/uuid"
)

// Notification is one delivered domain-event record, kept as an audit trail
// for the dashboard's activity feed.
type Notification struct {
	Id        uuid.UUID
	SessionId string
	TypeCode  string
	Title     string
	Message   string
	Metadata  map[string]interface{}
	CreatedAt time.Time
}
