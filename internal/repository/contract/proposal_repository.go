package contract

import (
	"context"
	"errors"

	"eop-planner-be/internal/entity"
	"eop-planner-be/internal/repository/specification"
)

// ErrVersionConflict reports that a versioned update lost a race: the stored
// proposal changed between read and write. Callers reload and retry.
var ErrVersionConflict = errors.New("proposal version conflict")

type ProposalRepository interface {
	Create(ctx context.Context, proposal *entity.Proposal) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Proposal, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Proposal, error)

	// UpdateVersioned persists the proposal's sections and review state iff
	// the stored version still equals proposal.Version, then increments the
	// version. Returns ErrVersionConflict when the compare fails.
	UpdateVersioned(ctx context.Context, proposal *entity.Proposal) error

	// Touch bumps last_updated without any logical state change (used for
	// rejected answers and casual turns).
	Touch(ctx context.Context, sessionId string) error
}
