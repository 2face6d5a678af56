package repository

import (
	"context"
	"errors"

	"bloom/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrUserNotFound is a domain-specific error returned when a user is not found.
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines the operations the ledger needs against the
// externally-owned user identity: reading and updating the denormalized
// loyalty fields and the lazily-assigned referral code.
type UserRepository interface {
	// FindByID retrieves a single user by their unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByIDForUpdate retrieves a user while holding a row-level lock.
	// Must be called inside TransactionManager.Execute.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// UpdateLoyaltyProgress writes the user's new lifetime points and recomputed tier.
	UpdateLoyaltyProgress(ctx context.Context, id uuid.UUID, lifetimePoints int, tier entity.Tier) error

	// SetReferralCode assigns the user's default referral code.
	SetReferralCode(ctx context.Context, id uuid.UUID, code string) error
}
