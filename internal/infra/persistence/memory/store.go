// Package memory provides an in-memory implementation of the persistence
// layer. It backs unit tests and local development without a database; the
// uniqueness rules the SQL schema enforces with indexes are enforced here in
// code so conflict paths behave the same.
package memory

import (
	"sync"

	"bloom/internal/domain/entity"

	"github.com/google/uuid"
)

// Store holds all ledger state behind one mutex. Repositories lock per
// operation; Execute does not hold the lock across the callback, so the
// in-memory manager serializes statements, not transactions.
type Store struct {
	mu sync.Mutex

	users            map[uuid.UUID]*entity.User
	giftCards        map[uuid.UUID]*entity.GiftCard
	giftCardTxns     []*entity.GiftCardTransaction
	loyaltyEarnings  []*entity.LoyaltyEarning
	loyaltyRedeems   []*entity.LoyaltyRedemption
	referralCodes    map[uuid.UUID]*entity.ReferralCode
	referrals        map[uuid.UUID]*entity.Referral
	refereeToReferal map[uuid.UUID]uuid.UUID
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		users:            make(map[uuid.UUID]*entity.User),
		giftCards:        make(map[uuid.UUID]*entity.GiftCard),
		referralCodes:    make(map[uuid.UUID]*entity.ReferralCode),
		referrals:        make(map[uuid.UUID]*entity.Referral),
		refereeToReferal: make(map[uuid.UUID]uuid.UUID),
	}
}

// SeedUser inserts a user directly, bypassing repository interfaces. Test helper.
func (s *Store) SeedUser(user *entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	cloned := *user
	s.users[user.ID] = &cloned
}

// copyGiftCard returns a detached copy so callers cannot mutate stored state.
func copyGiftCard(card *entity.GiftCard) *entity.GiftCard {
	if card == nil {
		return nil
	}
	cloned := *card

	return &cloned
}

func copyGiftCardTxn(txn *entity.GiftCardTransaction) *entity.GiftCardTransaction {
	if txn == nil {
		return nil
	}
	cloned := *txn

	return &cloned
}

func copyUser(user *entity.User) *entity.User {
	if user == nil {
		return nil
	}
	cloned := *user

	return &cloned
}

func copyReferralCode(code *entity.ReferralCode) *entity.ReferralCode {
	if code == nil {
		return nil
	}
	cloned := *code

	return &cloned
}

func copyReferral(referral *entity.Referral) *entity.Referral {
	if referral == nil {
		return nil
	}
	cloned := *referral

	return &cloned
}
