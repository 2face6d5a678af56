package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateTier_Bands(t *testing.T) {
	tests := []struct {
		name           string
		lifetimePoints int
		expected       Tier
	}{
		{"Zero points", 0, TierSeedling},
		{"Just below sprout", 499, TierSeedling},
		{"Sprout lower bound", 500, TierSprout},
		{"Just below bloom", 1499, TierSprout},
		{"Bloom lower bound", 1500, TierBloom},
		{"Just below flourish", 2999, TierBloom},
		{"Flourish lower bound", 3000, TierFlourish},
		{"Far beyond flourish", 100000, TierFlourish},
		{"Negative clamps to seedling", -10, TierSeedling},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CalculateTier(tt.lifetimePoints))
		})
	}
}

func TestCalculateTier_Monotonic(t *testing.T) {
	rank := map[Tier]int{
		TierSeedling: 0,
		TierSprout:   1,
		TierBloom:    2,
		TierFlourish: 3,
	}

	prev := CalculateTier(0)
	for points := 1; points <= 5000; points++ {
		cur := CalculateTier(points)
		require.GreaterOrEqual(t, rank[cur], rank[prev],
			"tier must never decrease as lifetime points grow (at %d points)", points)
		prev = cur
	}
}

func TestTier_Multiplier(t *testing.T) {
	assert.Equal(t, 1.0, TierSeedling.Multiplier())
	assert.Equal(t, 1.1, TierSprout.Multiplier())
	assert.Equal(t, 1.25, TierBloom.Multiplier())
	assert.Equal(t, 1.5, TierFlourish.Multiplier())
}

func TestTier_Benefits(t *testing.T) {
	for _, tier := range []Tier{TierSeedling, TierSprout, TierBloom, TierFlourish} {
		assert.NotEmpty(t, tier.Benefits(), "every tier carries a benefits list")
	}
	assert.Greater(t, len(TierFlourish.Benefits()), len(TierSeedling.Benefits()))
}

func TestPointsToNextTier(t *testing.T) {
	next, points, ok := PointsToNextTier(0)
	require.True(t, ok)
	assert.Equal(t, TierSprout, next)
	assert.Equal(t, 500, points)

	next, points, ok = PointsToNextTier(450)
	require.True(t, ok)
	assert.Equal(t, TierSprout, next)
	assert.Equal(t, 50, points)

	next, points, ok = PointsToNextTier(1500)
	require.True(t, ok)
	assert.Equal(t, TierFlourish, next)
	assert.Equal(t, 1500, points)

	_, _, ok = PointsToNextTier(3000)
	assert.False(t, ok, "no next tier at the top band")

	_, _, ok = PointsToNextTier(999999)
	assert.False(t, ok)
}

func TestTier_IsValid(t *testing.T) {
	assert.True(t, TierSeedling.IsValid())
	assert.True(t, TierFlourish.IsValid())
	assert.False(t, Tier("GOLD").IsValid())
}
