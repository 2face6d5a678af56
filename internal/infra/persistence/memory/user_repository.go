package memory

import (
	"context"
	"time"

	"bloom/internal/domain/entity"
	"bloom/internal/domain/repository"

	"github.com/google/uuid"
)

// userRepository implements repository.UserRepository over the store.
type userRepository struct {
	store *Store
}

// NewUserRepository is the constructor for the in-memory user repository.
func NewUserRepository(store *Store) repository.UserRepository {
	return &userRepository{store: store}
}

func (repo *userRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	user, ok := repo.store.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return copyUser(user), nil
}

// FindByIDForUpdate behaves like FindByID: the store has no row locks.
func (repo *userRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return repo.FindByID(ctx, id)
}

func (repo *userRepository) UpdateLoyaltyProgress(_ context.Context, id uuid.UUID, lifetimePoints int, tier entity.Tier) error {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	user, ok := repo.store.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}

	user.TotalLifetimePoints = lifetimePoints
	user.LoyaltyTier = tier
	user.UpdatedAt = time.Now()

	return nil
}

func (repo *userRepository) SetReferralCode(_ context.Context, id uuid.UUID, code string) error {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	user, ok := repo.store.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}

	user.ReferralCode = &code
	user.UpdatedAt = time.Now()

	return nil
}
