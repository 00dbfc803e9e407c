package contract

import (
	"context"
	"errors"

	"eop-planner-be/internal/entity"
)

// ErrCatalogExists reports that the singleton catalog row is already present.
var ErrCatalogExists = errors.New("rule catalog already exists")

type RuleCatalogRepository interface {
	// Get returns the catalog, or nil when no catalog has been seeded yet.
	Get(ctx context.Context) (*entity.RuleCatalog, error)

	// Create inserts the singleton catalog row. A concurrent duplicate insert
	// surfaces as ErrCatalogExists (backed by the unique constraint).
	Create(ctx context.Context, catalog *entity.RuleCatalog) error
}
