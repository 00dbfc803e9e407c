package memory

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"eop-planner-be/internal/entity"
	"eop-planner-be/internal/repository/contract"
	"eop-planner-be/internal/repository/specification"
)

// ProposalRepository is an in-memory contract.ProposalRepository. It honors
// the same versioned-update semantics as the gorm implementation, which makes
// it usable both as a test double and as a degraded single-process store.
type ProposalRepository struct {
	mu        sync.RWMutex
	bySession map[string]*entity.Proposal
}

func NewProposalRepository() *ProposalRepository {
	return &ProposalRepository{
		bySession: make(map[string]*entity.Proposal),
	}
}

func cloneProposal(p *entity.Proposal) *entity.Proposal {
	raw, _ := json.Marshal(p)
	var out entity.Proposal
	_ = json.Unmarshal(raw, &out)
	out.Id = p.Id
	return &out
}

func (r *ProposalRepository) Create(ctx context.Context, proposal *entity.Proposal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	// Mirrors the session_id unique index: a lost create race reads back as
	// a version conflict, not a silent overwrite.
	if _, exists := r.bySession[proposal.SessionId]; exists {
		return contract.ErrVersionConflict
	}
	r.bySession[proposal.SessionId] = cloneProposal(proposal)
	return nil
}

func (r *ProposalRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Proposal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, spec := range specs {
		if s, ok := spec.(specification.BySessionID); ok {
			if p, found := r.bySession[s.SessionID]; found {
				return cloneProposal(p), nil
			}
			return nil, nil
		}
	}
	return nil, nil
}

func (r *ProposalRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Proposal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.Proposal, 0, len(r.bySession))
	for _, p := range r.bySession {
		out = append(out, cloneProposal(p))
	}
	return out, nil
}

func (r *ProposalRepository) UpdateVersioned(ctx context.Context, proposal *entity.Proposal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, found := r.bySession[proposal.SessionId]
	if !found || stored.Version != proposal.Version {
		return contract.ErrVersionConflict
	}
	next := cloneProposal(proposal)
	next.Version = proposal.Version + 1
	next.LastUpdated = time.Now()
	r.bySession[proposal.SessionId] = next
	proposal.Version = next.Version
	proposal.LastUpdated = next.LastUpdated
	return nil
}

func (r *ProposalRepository) Touch(ctx context.Context, sessionId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, found := r.bySession[sessionId]; found {
		p.LastUpdated = time.Now()
	}
	return nil
}
