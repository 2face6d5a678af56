package model

import (
	"time"

	"github.com/google/uuid"
)

// LoyaltyEarningModel is the GORM-specific struct for the 'loyalty_earnings' table.
// The composite unique index on (user_id, source, reference) is the dedup
// barrier for one-time bonuses: a second signup/review/referral earning for
// the same event violates it.
type LoyaltyEarningModel struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_loyalty_earnings_dedup"`
	Points     int        `gorm:"not null"`
	Source     string     `gorm:"type:text;not null;uniqueIndex:idx_loyalty_earnings_dedup"`
	Reference  string     `gorm:"type:text;not null;uniqueIndex:idx_loyalty_earnings_dedup"`
	OrderID    *string    `gorm:"type:text"`
	ReviewID   *string    `gorm:"type:text"`
	ReferralID *uuid.UUID `gorm:"type:uuid"`
	ExpiresAt  *time.Time `gorm:"index"`
	EarnedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (LoyaltyEarningModel) TableName() string {
	return "loyalty_earnings"
}

// LoyaltyRedemptionModel is the GORM-specific struct for the 'loyalty_redemptions' table.
type LoyaltyRedemptionModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index"`
	PointsUsed     int       `gorm:"not null"`
	DiscountAmount float64   `gorm:"type:decimal(10,2);not null"`
	OrderID        *string   `gorm:"type:text"`
	Status         string    `gorm:"type:text;not null;default:'applied'"`
	RedeemedAt     time.Time
}

// TableName explicitly sets the table name for GORM.
func (LoyaltyRedemptionModel) TableName() string {
	return "loyalty_redemptions"
}
