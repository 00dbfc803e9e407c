package unitofwork

import (
	"context"

	"eop-planner-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	ProposalRepository() contract.ProposalRepository
	RuleCatalogRepository() contract.RuleCatalogRepository
	NotificationRepository() contract.NotificationRepository
}
