package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel is the GORM-specific struct for the 'users' table. Identity is
// owned by an external service; the ledger reads the row and maintains only
// the denormalized loyalty fields and the lazily-assigned referral code.
type UserModel struct {
	ID                  uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Email               string    `gorm:"type:text;not null;uniqueIndex"`
	Name                string    `gorm:"type:text;not null"`
	ReferralCode        *string   `gorm:"type:text;uniqueIndex"`
	LoyaltyTier         string    `gorm:"type:text;not null;default:'SEEDLING'"`
	TotalLifetimePoints int       `gorm:"not null;default:0"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}
