package memory

import (
	"context"

	"bloom/internal/domain/repository"
)

// memoryTransactionManager implements repository.TransactionManager against
// the in-memory store. There is no rollback: a failed callback may leave
// partial writes behind. Acceptable for tests, not a substitute for Postgres.
type memoryTransactionManager struct {
	store *Store
}

// memoryRepositoryFactory hands out repositories bound to the shared store.
type memoryRepositoryFactory struct {
	store *Store
}

// NewGiftCardRepository returns a gift card repository bound to the store.
func (f *memoryRepositoryFactory) NewGiftCardRepository() repository.GiftCardRepository {
	return NewGiftCardRepository(f.store)
}

// NewLoyaltyRepository returns a loyalty repository bound to the store.
func (f *memoryRepositoryFactory) NewLoyaltyRepository() repository.LoyaltyRepository {
	return NewLoyaltyRepository(f.store)
}

// NewReferralRepository returns a referral repository bound to the store.
func (f *memoryRepositoryFactory) NewReferralRepository() repository.ReferralRepository {
	return NewReferralRepository(f.store)
}

// NewUserRepository returns a user repository bound to the store.
func (f *memoryRepositoryFactory) NewUserRepository() repository.UserRepository {
	return NewUserRepository(f.store)
}

// NewTransactionManager creates an in-memory TransactionManager over the store.
func NewTransactionManager(store *Store) repository.TransactionManager {
	return &memoryTransactionManager{store: store}
}

// Execute runs the callback with a factory bound to the shared store.
func (tm *memoryTransactionManager) Execute(_ context.Context, fn func(repoFactory repository.RepositoryFactory) error) error {
	return fn(&memoryRepositoryFactory{store: tm.store})
}
