package memory

import (
	"context"

	"eop-planner-be/internal/repository/contract"
	"eop-planner-be/internal/repository/unitofwork"
)

// Factory is an in-memory unitofwork.RepositoryFactory. Begin/Commit are
// no-ops: the fakes mutate shared state directly.
type Factory struct {
	Users         *UserRepository
	Proposals     *ProposalRepository
	Catalogs      *RuleCatalogRepository
	Notifications *NotificationRepository
}

func NewFactory() *Factory {
	return &Factory{
		Users:         NewUserRepository(),
		Proposals:     NewProposalRepository(),
		Catalogs:      NewRuleCatalogRepository(),
		Notifications: NewNotificationRepository(),
	}
}

func (f *Factory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &unitOfWork{factory: f}
}

type unitOfWork struct {
	factory *Factory
}

func (u *unitOfWork) Begin(ctx context.Context) error { return nil }
func (u *unitOfWork) Commit() error                   { return nil }
func (u *unitOfWork) Rollback() error                 { return nil }

func (u *unitOfWork) UserRepository() contract.UserRepository {
	return u.factory.Users
}

func (u *unitOfWork) ProposalRepository() contract.ProposalRepository {
	return u.factory.Proposals
}

func (u *unitOfWork) RuleCatalogRepository() contract.RuleCatalogRepository {
	return u.factory.Catalogs
}

func (u *unitOfWork) NotificationRepository() contract.NotificationRepository {
	return u.factory.Notifications
}
