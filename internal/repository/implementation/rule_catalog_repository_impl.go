package implementation

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"eop-planner-be/internal/entity"
	"eop-planner-be/internal/mapper"
	"eop-planner-be/internal/model"
	"eop-planner-be/internal/repository/contract"
)

type RuleCatalogRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CatalogMapper
}

func NewRuleCatalogRepository(db *gorm.DB) contract.RuleCatalogRepository {
	return &RuleCatalogRepositoryImpl{
		db:     db,
		mapper: mapper.NewCatalogMapper(),
	}
}

func (r *RuleCatalogRepositoryImpl) Get(ctx context.Context) (*entity.RuleCatalog, error) {
	var m model.RuleCatalog
	if err := r.db.WithContext(ctx).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m)
}

func (r *RuleCatalogRepositoryImpl) Create(ctx context.Context, catalog *entity.RuleCatalog) error {
	m, err := r.mapper.ToModel(catalog)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "duplicate key") {
			return contract.ErrCatalogExists
		}
		return err
	}
	created, err := r.mapper.ToEntity(m)
	if err != nil {
		return err
	}
	*catalog = *created
	return nil
}
