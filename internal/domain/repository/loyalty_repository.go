package repository

import (
	"context"
	"errors"
	"time"

	"bloom/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrDuplicateEarning is returned when an earning insert collides with the
// (user, source, reference) dedup index. Bonus awards translate it to an
// already-awarded no-op instead of surfacing a database error.
var ErrDuplicateEarning = errors.New("earning already recorded for this event")

// LoyaltyRepository defines the standard operations for the loyalty point ledgers.
type LoyaltyRepository interface {
	// CreateEarning appends an earn event. Implementations must enforce the
	// (UserID, Source, Reference) uniqueness and return ErrDuplicateEarning
	// on conflict.
	CreateEarning(ctx context.Context, earning *entity.LoyaltyEarning) error

	// HasEarning reports whether an earn event already exists for the keyed event.
	HasEarning(ctx context.Context, userID uuid.UUID, source entity.PointSource, reference string) (bool, error)

	// SumActivePoints sums all earned points that have not expired as of now.
	SumActivePoints(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error)

	// SumRedeemedPoints sums all points used by applied redemptions.
	SumRedeemedPoints(ctx context.Context, userID uuid.UUID) (int64, error)

	// CreateRedemption appends a redemption record.
	CreateRedemption(ctx context.Context, redemption *entity.LoyaltyRedemption) error
}
