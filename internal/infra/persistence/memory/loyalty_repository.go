package memory

import (
	"context"
	"time"

	"bloom/internal/domain/entity"
	"bloom/internal/domain/repository"

	"github.com/google/uuid"
)

// loyaltyRepository implements repository.LoyaltyRepository over the store.
type loyaltyRepository struct {
	store *Store
}

// NewLoyaltyRepository is the constructor for the in-memory loyalty repository.
func NewLoyaltyRepository(store *Store) repository.LoyaltyRepository {
	return &loyaltyRepository{store: store}
}

func (repo *loyaltyRepository) CreateEarning(_ context.Context, earning *entity.LoyaltyEarning) error {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	for _, existing := range repo.store.loyaltyEarnings {
		if existing.UserID == earning.UserID && existing.Source == earning.Source && existing.Reference == earning.Reference {
			return repository.ErrDuplicateEarning
		}
	}

	if earning.ID == uuid.Nil {
		earning.ID = uuid.New()
	}
	if earning.EarnedAt.IsZero() {
		earning.EarnedAt = time.Now()
	}

	cloned := *earning
	repo.store.loyaltyEarnings = append(repo.store.loyaltyEarnings, &cloned)

	return nil
}

func (repo *loyaltyRepository) HasEarning(_ context.Context, userID uuid.UUID, source entity.PointSource, reference string) (bool, error) {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	for _, earning := range repo.store.loyaltyEarnings {
		if earning.UserID == userID && earning.Source == source && earning.Reference == reference {
			return true, nil
		}
	}

	return false, nil
}

func (repo *loyaltyRepository) SumActivePoints(_ context.Context, userID uuid.UUID, now time.Time) (int64, error) {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	var total int64
	for _, earning := range repo.store.loyaltyEarnings {
		if earning.UserID != userID {
			continue
		}
		if earning.Expired(now) {
			continue
		}
		total += int64(earning.Points)
	}

	return total, nil
}

func (repo *loyaltyRepository) SumRedeemedPoints(_ context.Context, userID uuid.UUID) (int64, error) {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	var total int64
	for _, redemption := range repo.store.loyaltyRedeems {
		if redemption.UserID == userID && redemption.Status == entity.RedemptionStatusApplied {
			total += int64(redemption.PointsUsed)
		}
	}

	return total, nil
}

func (repo *loyaltyRepository) CreateRedemption(_ context.Context, redemption *entity.LoyaltyRedemption) error {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	if redemption.ID == uuid.Nil {
		redemption.ID = uuid.New()
	}
	if redemption.RedeemedAt.IsZero() {
		redemption.RedeemedAt = time.Now()
	}

	cloned := *redemption
	repo.store.loyaltyRedeems = append(repo.store.loyaltyRedeems, &cloned)

	return nil
}
