package implementation

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"eop-planner-be/internal/entity"
	"eop-planner-be/internal/mapper"
	"eop-planner-be/internal/model"
	"eop-planner-be/internal/repository/contract"
	"eop-planner-be/internal/repository/specification"
)

type ProposalRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ProposalMapper
}

func NewProposalRepository(db *gorm.DB) contract.ProposalRepository {
	return &ProposalRepositoryImpl{
		db:     db,
		mapper: mapper.NewProposalMapper(),
	}
}

func (r *ProposalRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ProposalRepositoryImpl) Create(ctx context.Context, proposal *entity.Proposal) error {
	m, err := r.mapper.ToModel(proposal)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		// Two racing first messages both pass the FindOne nil check; the
		// loser's insert trips the session_id unique index. Surface it as a
		// version conflict so callers re-drive against the winner's row.
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "duplicate key") {
			return contract.ErrVersionConflict
		}
		return err
	}
	created, err := r.mapper.ToEntity(m)
	if err != nil {
		return err
	}
	*proposal = *created
	return nil
}

func (r *ProposalRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Proposal, error) {
	var m model.Proposal
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m)
}

func (r *ProposalRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Proposal, error) {
	var models []*model.Proposal
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Proposal, len(models))
	for i, m := range models {
		e, err := r.mapper.ToEntity(m)
		if err != nil {
			return nil, err
		}
		entities[i] = e
	}
	return entities, nil
}

func (r *ProposalRepositoryImpl) UpdateVersioned(ctx context.Context, proposal *entity.Proposal) error {
	m, err := r.mapper.ToModel(proposal)
	if err != nil {
		return err
	}

	now := time.Now()
	result := r.db.WithContext(ctx).Model(&model.Proposal{}).
		Where("id = ? AND version = ?", m.Id, m.Version).
		Updates(map[string]interface{}{
			"sections":     m.Sections,
			"review":       m.Review,
			"version":      m.Version + 1,
			"last_updated": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return contract.ErrVersionConflict
	}

	proposal.Version = m.Version + 1
	proposal.LastUpdated = now
	return nil
}

func (r *ProposalRepositoryImpl) Touch(ctx context.Context, sessionId string) error {
	return r.db.WithContext(ctx).Model(&model.Proposal{}).
		Where("session_id = ?", sessionId).
		UpdateColumn("last_updated", time.Now()).Error
}
