package memory

import (
	"context"
	"sort"
	"time"

	"bloom/internal/domain/entity"
	"bloom/internal/domain/repository"

	"github.com/google/uuid"
)

// referralRepository implements repository.ReferralRepository over the store.
type referralRepository struct {
	store *Store
}

// NewReferralRepository is the constructor for the in-memory referral repository.
func NewReferralRepository(store *Store) repository.ReferralRepository {
	return &referralRepository{store: store}
}

func (repo *referralRepository) CreateCode(_ context.Context, code *entity.ReferralCode) error {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	for _, existing := range repo.store.referralCodes {
		if existing.Code == code.Code {
			return repository.ErrDuplicateCode
		}
	}

	if code.ID == uuid.Nil {
		code.ID = uuid.New()
	}
	now := time.Now()
	if code.CreatedAt.IsZero() {
		code.CreatedAt = now
	}
	code.UpdatedAt = now

	repo.store.referralCodes[code.ID] = copyReferralCode(code)

	return nil
}

func (repo *referralRepository) FindCodeByCode(_ context.Context, code string) (*entity.ReferralCode, error) {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	for _, existing := range repo.store.referralCodes {
		if existing.Code == code {
			return copyReferralCode(existing), nil
		}
	}

	return nil, repository.ErrReferralCodeNotFound
}

func (repo *referralRepository) FindCodeByID(_ context.Context, id uuid.UUID) (*entity.ReferralCode, error) {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	code, ok := repo.store.referralCodes[id]
	if !ok {
		return nil, repository.ErrReferralCodeNotFound
	}

	return copyReferralCode(code), nil
}

func (repo *referralRepository) CodeExists(_ context.Context, code string) (bool, error) {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	for _, existing := range repo.store.referralCodes {
		if existing.Code == code {
			return true, nil
		}
	}

	return false, nil
}

func (repo *referralRepository) IncrementCodeUsage(_ context.Context, codeID uuid.UUID) error {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	code, ok := repo.store.referralCodes[codeID]
	if !ok {
		return repository.ErrReferralCodeNotFound
	}

	code.UsageCount++
	code.UpdatedAt = time.Now()

	return nil
}

func (repo *referralRepository) CreateReferral(_ context.Context, referral *entity.Referral) error {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	if _, exists := repo.store.refereeToReferal[referral.RefereeID]; exists {
		return repository.ErrRefereeAlreadyReferred
	}

	if referral.ID == uuid.Nil {
		referral.ID = uuid.New()
	}
	now := time.Now()
	if referral.CreatedAt.IsZero() {
		referral.CreatedAt = now
	}
	referral.UpdatedAt = now

	repo.store.referrals[referral.ID] = copyReferral(referral)
	repo.store.refereeToReferal[referral.RefereeID] = referral.ID

	return nil
}

func (repo *referralRepository) FindReferralByReferee(_ context.Context, refereeID uuid.UUID) (*entity.Referral, error) {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	referralID, ok := repo.store.refereeToReferal[refereeID]
	if !ok {
		return nil, repository.ErrReferralNotFound
	}

	return copyReferral(repo.store.referrals[referralID]), nil
}

func (repo *referralRepository) UpdateReferral(_ context.Context, referral *entity.Referral) error {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	existing, ok := repo.store.referrals[referral.ID]
	if !ok {
		return repository.ErrReferralNotFound
	}

	existing.Status = referral.Status
	existing.RewardPoints = referral.RewardPoints
	existing.DiscountApplied = referral.DiscountApplied
	existing.RefereeOrderID = referral.RefereeOrderID
	existing.CompletedAt = referral.CompletedAt
	existing.RewardedAt = referral.RewardedAt
	existing.UpdatedAt = time.Now()

	return nil
}

func (repo *referralRepository) FindReferralsByReferrer(_ context.Context, referrerID uuid.UUID) ([]*entity.Referral, error) {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	var referrals []*entity.Referral
	for _, referral := range repo.store.referrals {
		if referral.ReferrerID == referrerID {
			referrals = append(referrals, copyReferral(referral))
		}
	}

	sort.SliceStable(referrals, func(i, j int) bool {
		return referrals[i].CreatedAt.After(referrals[j].CreatedAt)
	})

	return referrals, nil
}
