package model

import (
	"time"

	"github.com/google/uuid"
)

// GiftCardModel is the GORM-specific struct for the 'gift_cards' table.
// It represents stored value issued at purchase time.
type GiftCardModel struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Code           string     `gorm:"type:text;not null;uniqueIndex"`
	InitialBalance float64    `gorm:"type:decimal(10,2);not null"`
	CurrentBalance float64    `gorm:"type:decimal(10,2);not null"`
	Status         string     `gorm:"type:text;not null;default:'ACTIVE';index"`
	ExpiresAt      *time.Time `gorm:"index"`
	PurchaserID    *uuid.UUID `gorm:"type:uuid;index"`
	RecipientEmail string     `gorm:"type:text"`
	RecipientName  string     `gorm:"type:text"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName explicitly sets the table name for GORM.
func (GiftCardModel) TableName() string {
	return "gift_cards"
}

// GiftCardTransactionModel is the GORM-specific struct for the
// 'gift_card_transactions' table. Rows are append-only: the ledger never
// updates or deletes them.
type GiftCardTransactionModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	GiftCardID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Amount      float64   `gorm:"type:decimal(10,2);not null"`
	Type        string    `gorm:"type:text;not null"`
	OrderID     *string   `gorm:"type:text;index"`
	Description string    `gorm:"type:text"`
	CreatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (GiftCardTransactionModel) TableName() string {
	return "gift_card_transactions"
}
