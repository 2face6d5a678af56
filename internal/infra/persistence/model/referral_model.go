package model

import (
	"time"

	"github.com/google/uuid"
)

// ReferralCodeModel is the GORM-specific struct for the 'referral_codes' table.
type ReferralCodeModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Code            string    `gorm:"type:text;not null;uniqueIndex"`
	OwnerID         uuid.UUID `gorm:"type:uuid;not null;index"`
	IsActive        bool      `gorm:"not null;default:true"`
	DiscountPercent float64   `gorm:"type:decimal(5,2);not null"`
	UsageLimit      *int
	UsageCount      int `gorm:"not null;default:0"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName explicitly sets the table name for GORM.
func (ReferralCodeModel) TableName() string {
	return "referral_codes"
}

// ReferralModel is the GORM-specific struct for the 'referrals' table.
// The unique index on referee_id enforces that a user can be referred at
// most once, ever.
type ReferralModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	ReferrerID      uuid.UUID `gorm:"type:uuid;not null;index"`
	RefereeID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	ReferralCodeID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Status          string    `gorm:"type:text;not null;default:'PENDING'"`
	RewardPoints    int       `gorm:"not null;default:0"`
	DiscountApplied *float64  `gorm:"type:decimal(10,2)"`
	RefereeOrderID  *string   `gorm:"type:text"`
	CompletedAt     *time.Time
	RewardedAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName explicitly sets the table name for GORM.
func (ReferralModel) TableName() string {
	return "referrals"
}
