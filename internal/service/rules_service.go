package service

import (
	"context"
	"errors"

	"eop-planner-be/internal/constant"
	"eop-planner-be/internal/entity"
	"eop-planner-be/internal/pkg/logger"
	"eop-planner-be/internal/repository/contract"
	"eop-planner-be/internal/repository/unitofwork"
	"eop-planner-be/pkg/cache"
)

type IRulesService interface {
	// GetCatalog returns the rules catalog, seeding the default one when
	// storage holds none yet.
	GetCatalog(ctx context.Context) (*entity.RuleCatalog, error)

	// Seed inserts the default catalog. Idempotent: a second call reports
	// created=false and leaves the stored catalog untouched.
	Seed(ctx context.Context) (created bool, err error)
}

type rulesService struct {
	uowFactory unitofwork.RepositoryFactory
	cache      *cache.CatalogCache
	logger     logger.ILogger
}

func NewRulesService(uowFactory unitofwork.RepositoryFactory, catalogCache *cache.CatalogCache, log logger.ILogger) IRulesService {
	return &rulesService{
		uowFactory: uowFactory,
		cache:      catalogCache,
		logger:     log,
	}
}

func (s *rulesService) GetCatalog(ctx context.Context) (*entity.RuleCatalog, error) {
	if s.cache != nil {
		if catalog, ok := s.cache.Get(); ok {
			return catalog, nil
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	catalog, err := uow.RuleCatalogRepository().Get(ctx)
	if err != nil {
		return nil, err
	}

	if catalog == nil {
		if _, err := s.Seed(ctx); err != nil {
			return nil, err
		}
		catalog, err = uow.RuleCatalogRepository().Get(ctx)
		if err != nil {
			return nil, err
		}
		if catalog == nil {
			return nil, errors.New("rule catalog missing after seed")
		}
	}

	if s.cache != nil {
		s.cache.Set(catalog)
	}
	return catalog, nil
}

func (s *rulesService) Seed(ctx context.Context) (bool, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.RuleCatalogRepository().Get(ctx)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}

	catalog := defaultCatalog()
	if err := uow.RuleCatalogRepository().Create(ctx, catalog); err != nil {
		// A concurrent seeder won the unique-constraint race. That still
		// means the catalog exists, which is all the caller wanted.
		if errors.Is(err, contract.ErrCatalogExists) {
			return false, nil
		}
		return false, err
	}

	if s.cache != nil {
		s.cache.Set(catalog)
	}
	if s.logger != nil {
		s.logger.Info("RulesService", "Default rule catalog seeded", nil)
	}
	return true, nil
}

// defaultCatalog is the built-in demo rules bank used until an operator loads
// a real one.
func defaultCatalog() *entity.RuleCatalog {
	return entity.NewRuleCatalog(map[string][]entity.Rule{
		constant.SectionInformation: {
			{Text: "Organization name must be provided."},
			{Text: "Primary contact must have a valid email address."},
			{Text: "Facility address should be complete and up to date."},
		},
		constant.SectionAssessment: {
			{Text: "Risk assessment must be conducted annually."},
			{Text: "All identified risks should be documented."},
			{Text: "Assessment results must be reviewed by management."},
		},
		constant.SectionResponsePlan: {
			{Text: "A written emergency response plan is required."},
			{Text: "Plan must be updated after every major incident."},
			{Text: "All staff must be trained on the response plan."},
		},
		constant.SectionReview: {
			{Text: "Plans and assessments must be reviewed every 6 months."},
			{Text: "Review findings should be documented and shared."},
		},
	})
}
