package memory

import (
	"context"
	"sync"

	"eop-planner-be/internal/entity"
	"eop-planner-be/internal/repository/specification"
)

// NotificationRepository is an in-memory contract.NotificationRepository.
type NotificationRepository struct {
	mu    sync.RWMutex
	items []*entity.Notification
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

func (r *NotificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *notification
	r.items = append(r.items, &copied)
	return nil
}

func (r *NotificationRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sessionFilter := ""
	for _, spec := range specs {
		if s, ok := spec.(specification.BySessionID); ok {
			sessionFilter = s.SessionID
		}
	}
	out := make([]*entity.Notification, 0, len(r.items))
	for _, n := range r.items {
		if sessionFilter != "" && n.SessionId != sessionFilter {
			continue
		}
		copied := *n
		out = append(out, &copied)
	}
	return out, nil
}
