package memory

import (
	"context"
	"sync"

	"eop-planner-be/internal/entity"
	"eop-planner-be/internal/repository/contract"
)

// RuleCatalogRepository is an in-memory contract.RuleCatalogRepository with
// the same insert-once guarantee as the unique-constrained table.
type RuleCatalogRepository struct {
	mu      sync.Mutex
	catalog *entity.RuleCatalog
}

func NewRuleCatalogRepository() *RuleCatalogRepository {
	return &RuleCatalogRepository{}
}

func (r *RuleCatalogRepository) Get(ctx context.Context) (*entity.RuleCatalog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.catalog, nil
}

func (r *RuleCatalogRepository) Create(ctx context.Context, catalog *entity.RuleCatalog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.catalog != nil {
		return contract.ErrCatalogExists
	}
	r.catalog = catalog
	return nil
}
