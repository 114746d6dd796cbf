package repository

import (
	"context"
	"sync"
	"time"

	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/utils"
)

// MemoryUserRepo is a process-local UserStore used when no database is
// configured.
type MemoryUserRepo struct {
	mu      sync.RWMutex
	byID    map[string]model.User
	byEmail map[string]string
}

func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{
		byID:    make(map[string]model.User),
		byEmail: make(map[string]string),
	}
}

// Create hashes the password and stores the user under a fresh ID.
func (r *MemoryUserRepo) Create(_ context.Context, nu model.NewUser, cost int) (model.User, error) {
	hash, err := utils.HashPassword(nu.Password, cost)
	if err != nil {
		return model.User{}, err
	}
	u := model.User{
		ID:           newTimeOrderedID(),
		Name:         nu.Name,
		Email:        normalizeEmail(nu.Email),
		Phone:        nu.Phone,
		Role:         nu.Role,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := r.Put(u); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// Put stores a fully formed user, keeping its ID.  Used for seeding.
func (r *MemoryUserRepo) Put(u model.User) error {
	u.Email = normalizeEmail(u.Email)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byEmail[u.Email]; taken {
		return ErrEmailExists
	}
	r.byID[u.ID] = u
	r.byEmail[u.Email] = u.ID
	return nil
}

func (r *MemoryUserRepo) GetByEmail(_ context.Context, email string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[normalizeEmail(email)]
	if !ok {
		return model.User{}, ErrUserNotFound
	}
	return r.byID[id], nil
}

func (r *MemoryUserRepo) GetByID(_ context.Context, id string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return model.User{}, ErrUserNotFound
	}
	return u, nil
}
