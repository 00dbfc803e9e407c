package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"eop-planner-be/internal/entity"
	"eop-planner-be/internal/repository/specification"
)

// UserRepository is an in-memory contract.UserRepository keyed by email.
type UserRepository struct {
	mu      sync.RWMutex
	byEmail map[string]*entity.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{byEmail: make(map[string]*entity.User)}
}

func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *user
	r.byEmail[user.Email] = &copied
	return nil
}

func (r *UserRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByEmail:
			if u, found := r.byEmail[s.Email]; found {
				copied := *u
				return &copied, nil
			}
			return nil, nil
		case specification.ByID:
			for _, u := range r.byEmail {
				if u.Id == s.ID {
					copied := *u
					return &copied, nil
				}
			}
			return nil, nil
		}
	}
	return nil, nil
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for email, u := range r.byEmail {
		if u.Id == id {
			delete(r.byEmail, email)
			return nil
		}
	}
	return nil
}

func (r *UserRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.byEmail)), nil
}
