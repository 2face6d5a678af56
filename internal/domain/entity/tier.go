package entity

// Tier is a discrete loyalty rank derived purely from lifetime earned points.
// It is denormalized onto User for fast reads but must always be recomputed
// through CalculateTier on every award, never hand-set.
type Tier string

const (
	// TierSeedling covers [0, 500) lifetime points.
	TierSeedling Tier = "SEEDLING"
	// TierSprout covers [500, 1500) lifetime points.
	TierSprout Tier = "SPROUT"
	// TierBloom covers [1500, 3000) lifetime points.
	TierBloom Tier = "BLOOM"
	// TierFlourish covers [3000, ∞) lifetime points.
	TierFlourish Tier = "FLOURISH"
)

// tierThresholds lists the lower bound of each band, ascending.
var tierThresholds = []struct {
	tier Tier
	min  int
}{
	{TierSeedling, 0},
	{TierSprout, 500},
	{TierBloom, 1500},
	{TierFlourish, 3000},
}

// String returns the string representation of the Tier.
func (t Tier) String() string {
	return string(t)
}

// IsValid checks if the Tier is a valid value.
func (t Tier) IsValid() bool {
	switch t {
	case TierSeedling, TierSprout, TierBloom, TierFlourish:
		return true
	default:
		return false
	}
}

// Multiplier returns the purchase-point multiplier carried by the tier.
func (t Tier) Multiplier() float64 {
	switch t {
	case TierSprout:
		return 1.1
	case TierBloom:
		return 1.25
	case TierFlourish:
		return 1.5
	default:
		return 1.0
	}
}

// Benefits returns the static benefits list for the tier.
func (t Tier) Benefits() []string {
	switch t {
	case TierSprout:
		return []string{
			"1.1x points on every purchase",
			"Early access to seasonal sales",
		}
	case TierBloom:
		return []string{
			"1.25x points on every purchase",
			"Early access to seasonal sales",
			"Free standard shipping",
		}
	case TierFlourish:
		return []string{
			"1.5x points on every purchase",
			"Early access to seasonal sales",
			"Free standard shipping",
			"Annual thank-you gift",
		}
	default:
		return []string{
			"1x points on every purchase",
		}
	}
}

// CalculateTier is the pure, total step function mapping lifetime points to a
// tier. Negative input is clamped into the lowest band.
func CalculateTier(lifetimePoints int) Tier {
	tier := TierSeedling
	for _, band := range tierThresholds {
		if lifetimePoints >= band.min {
			tier = band.tier
		}
	}

	return tier
}

// PointsToNextTier is the inverse query of CalculateTier: given current
// lifetime points it returns the next tier and the point delta needed to
// reach it. ok is false at the top band.
func PointsToNextTier(lifetimePoints int) (next Tier, points int, ok bool) {
	for _, band := range tierThresholds {
		if lifetimePoints < band.min {
			return band.tier, band.min - lifetimePoints, true
		}
	}

	return "", 0, false
}
