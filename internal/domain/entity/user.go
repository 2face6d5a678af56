package entity

import (
	"time"

	"github.com/google/uuid"
)

// User carries the loyalty fields the ledger owns. Identity itself (sessions,
// credentials, profile) is resolved by an external collaborator; the ledger
// only consumes the opaque ID.
type User struct {
	ID                  uuid.UUID
	Email               string
	Name                string  // Display name, used for name-derived referral codes when usable.
	ReferralCode        *string // The user's default referral code. Nil until lazily generated.
	LoyaltyTier         Tier    // Denormalized: always a pure function of TotalLifetimePoints.
	TotalLifetimePoints int     // Monotonically non-decreasing. Redemption never reduces it.
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
