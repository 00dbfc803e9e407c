package contract

import (
	"context"

	"eop-planner-be/internal/entity"
	"eop-planner-be/internal/repository/specification"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Notification, error)
}
