package config

import "testing"

func TestCanonicalizeEnvKey_UsesExistingCamelCaseKeys(t *testing.T) {
	existing := map[string]any{
		"postgres": map[string]any{
			"sslMode": "disable",
			"master": map[string]any{
				"userName": "user",
			},
		},
		"giftCard": map[string]any{
			"expiresInDays": 365,
		},
		"loyalty": map[string]any{
			"pointsPerDollar": 1,
		},
		"secretKey": map[string]any{
			"service": "",
		},
	}

	tests := []struct {
		envKey string
		want   string
	}{
		{envKey: "POSTGRES_SSLMODE", want: "postgres.sslMode"},
		{envKey: "POSTGRES_MASTER_USERNAME", want: "postgres.master.userName"},
		{envKey: "GIFTCARD_EXPIRESINDAYS", want: "giftCard.expiresInDays"},
		{envKey: "LOYALTY_POINTSPERDOLLAR", want: "loyalty.pointsPerDollar"},
		{envKey: "SECRETKEY_SERVICE", want: "secretKey.service"},
		{envKey: "NEW_FEATURE_FLAG", want: "new.feature.flag"},
	}

	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			if got := canonicalizeEnvKey(tt.envKey, existing); got != tt.want {
				t.Fatalf("canonicalizeEnvKey(%q) = %q, want %q", tt.envKey, got, tt.want)
			}
		})
	}
}

func TestApplyLedgerDefaults(t *testing.T) {
	cfg := &Config{}
	applyLedgerDefaults(cfg)

	if len(cfg.GiftCard.PresetAmounts) == 0 {
		t.Fatal("expected preset amounts to be defaulted")
	}
	if cfg.GiftCard.CodeLength != 16 {
		t.Fatalf("expected default code length 16, got %d", cfg.GiftCard.CodeLength)
	}
	if cfg.Loyalty.PointsPerDollarDiscount != 100 {
		t.Fatalf("expected 100 points per dollar of discount, got %d", cfg.Loyalty.PointsPerDollarDiscount)
	}
	if cfg.Referral.CodePrefix != "ECO" {
		t.Fatalf("expected default code prefix ECO, got %q", cfg.Referral.CodePrefix)
	}

	// Defaults never override explicit values.
	cfg2 := &Config{GiftCard: &GiftCardConfig{CodeLength: 12}}
	applyLedgerDefaults(cfg2)
	if cfg2.GiftCard.CodeLength != 12 {
		t.Fatalf("expected explicit code length to survive, got %d", cfg2.GiftCard.CodeLength)
	}
}
