package memory

import (
	"context"
	"sort"
	"time"

	"bloom/internal/domain/entity"
	"bloom/internal/domain/repository"

	"github.com/google/uuid"
)

// giftCardRepository implements repository.GiftCardRepository over the store.
type giftCardRepository struct {
	store *Store
}

// NewGiftCardRepository is the constructor for the in-memory gift card repository.
func NewGiftCardRepository(store *Store) repository.GiftCardRepository {
	return &giftCardRepository{store: store}
}

func (repo *giftCardRepository) CreateCard(_ context.Context, card *entity.GiftCard) error {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	for _, existing := range repo.store.giftCards {
		if existing.Code == card.Code {
			return repository.ErrDuplicateCode
		}
	}

	if card.ID == uuid.Nil {
		card.ID = uuid.New()
	}
	now := time.Now()
	if card.CreatedAt.IsZero() {
		card.CreatedAt = now
	}
	card.UpdatedAt = now

	repo.store.giftCards[card.ID] = copyGiftCard(card)

	return nil
}

func (repo *giftCardRepository) CreateTransaction(_ context.Context, txn *entity.GiftCardTransaction) error {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	if txn.ID == uuid.Nil {
		txn.ID = uuid.New()
	}
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now()
	}

	repo.store.giftCardTxns = append(repo.store.giftCardTxns, copyGiftCardTxn(txn))

	return nil
}

func (repo *giftCardRepository) FindByCode(_ context.Context, code string) (*entity.GiftCard, error) {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	for _, card := range repo.store.giftCards {
		if card.Code == code {
			return copyGiftCard(card), nil
		}
	}

	return nil, repository.ErrGiftCardNotFound
}

// FindByCodeForUpdate behaves like FindByCode: the store has no row locks.
func (repo *giftCardRepository) FindByCodeForUpdate(ctx context.Context, code string) (*entity.GiftCard, error) {
	return repo.FindByCode(ctx, code)
}

func (repo *giftCardRepository) FindByIDForUpdate(_ context.Context, id uuid.UUID) (*entity.GiftCard, error) {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	card, ok := repo.store.giftCards[id]
	if !ok {
		return nil, repository.ErrGiftCardNotFound
	}

	return copyGiftCard(card), nil
}

func (repo *giftCardRepository) ExistsByCode(_ context.Context, code string) (bool, error) {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	for _, card := range repo.store.giftCards {
		if card.Code == code {
			return true, nil
		}
	}

	return false, nil
}

func (repo *giftCardRepository) UpdateBalanceAndStatus(_ context.Context, id uuid.UUID, balance float64, status entity.GiftCardStatus) error {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	card, ok := repo.store.giftCards[id]
	if !ok {
		return repository.ErrGiftCardNotFound
	}

	card.CurrentBalance = balance
	card.Status = status
	card.UpdatedAt = time.Now()

	return nil
}

func (repo *giftCardRepository) FindTransactionsByCard(_ context.Context, cardID uuid.UUID) ([]*entity.GiftCardTransaction, error) {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	var txns []*entity.GiftCardTransaction
	for _, txn := range repo.store.giftCardTxns {
		if txn.GiftCardID == cardID {
			txns = append(txns, copyGiftCardTxn(txn))
		}
	}

	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].CreatedAt.Before(txns[j].CreatedAt)
	})

	return txns, nil
}

func (repo *giftCardRepository) FindRedemptionByOrder(_ context.Context, cardID uuid.UUID, orderID string) (*entity.GiftCardTransaction, error) {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	for _, txn := range repo.store.giftCardTxns {
		if txn.GiftCardID == cardID && txn.OrderID == orderID && txn.Type == entity.GiftCardTxnRedemption {
			return copyGiftCardTxn(txn), nil
		}
	}

	return nil, repository.ErrGiftCardTransactionNotFound
}

func (repo *giftCardRepository) ExpireActiveBefore(_ context.Context, now time.Time) (int64, error) {
	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	var affected int64
	for _, card := range repo.store.giftCards {
		if card.Status == entity.GiftCardStatusActive && card.ExpiresAt != nil && card.ExpiresAt.Before(now) {
			card.Status = entity.GiftCardStatusExpired
			card.UpdatedAt = now
			affected++
		}
	}

	return affected, nil
}
