package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGiftCard_ValidateForUse(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(24 * time.Hour)

	tests := []struct {
		name       string
		card       GiftCard
		wantOK     bool
		wantReason string
	}{
		{
			name:   "Active card with balance",
			card:   GiftCard{Status: GiftCardStatusActive, CurrentBalance: 25, ExpiresAt: &future},
			wantOK: true,
		},
		{
			name:   "Active card without expiration",
			card:   GiftCard{Status: GiftCardStatusActive, CurrentBalance: 5},
			wantOK: true,
		},
		{
			name:       "Fully redeemed",
			card:       GiftCard{Status: GiftCardStatusRedeemed, CurrentBalance: 0},
			wantOK:     false,
			wantReason: "gift card has already been fully redeemed",
		},
		{
			name:       "Expired status",
			card:       GiftCard{Status: GiftCardStatusExpired, CurrentBalance: 10},
			wantOK:     false,
			wantReason: "gift card has expired",
		},
		{
			name:       "Cancelled",
			card:       GiftCard{Status: GiftCardStatusCancelled, CurrentBalance: 10},
			wantOK:     false,
			wantReason: "gift card has been cancelled",
		},
		{
			name:       "Active but past expiry",
			card:       GiftCard{Status: GiftCardStatusActive, CurrentBalance: 10, ExpiresAt: &past},
			wantOK:     false,
			wantReason: "gift card has expired",
		},
		{
			name:       "Active with zero balance",
			card:       GiftCard{Status: GiftCardStatusActive, CurrentBalance: 0},
			wantOK:     false,
			wantReason: "gift card has no remaining balance",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := tt.card.ValidateForUse(now)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantReason, reason)
		})
	}
}
