package impl

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"bloom/config"
	"bloom/internal/domain/entity"
	"bloom/internal/domain/service"
	"bloom/internal/infra/codegen"
	"bloom/internal/infra/persistence/memory"

	"github.com/google/uuid"
)

// newTestConfig builds the business constants the services read, mirroring
// the production defaults.
func newTestConfig() *config.Config {
	return &config.Config{
		GiftCard: &config.GiftCardConfig{
			PresetAmounts:   []float64{25, 50, 100, 200},
			MinCustomAmount: 10,
			MaxCustomAmount: 500,
			ExpiresInDays:   0,
			CodeLength:      16,
		},
		Loyalty: &config.LoyaltyConfig{
			PointsPerDollar:         1,
			PointsPerDollarDiscount: 100,
			SignupBonusPoints:       100,
			ReviewBonusPoints:       25,
		},
		Referral: &config.ReferralConfig{
			CodePrefix:             "ECO",
			DefaultDiscountPercent: 10,
			RewardPoints:           200,
		},
	}
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recordingPublisher captures published events for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	events []*service.RewardEvent
}

func (p *recordingPublisher) PublishRewardEvent(_ context.Context, event *service.RewardEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)

	return nil
}

func (p *recordingPublisher) Close() error {
	return nil
}

func (p *recordingPublisher) Events() []*service.RewardEvent {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]*service.RewardEvent(nil), p.events...)
}

// fixture bundles the in-memory wiring shared by the service tests.
type fixture struct {
	store     *memory.Store
	cfg       *config.Config
	publisher *recordingPublisher
	generator service.CodeGenerator
}

func newFixture() *fixture {
	return &fixture{
		store:     memory.NewStore(),
		cfg:       newTestConfig(),
		publisher: &recordingPublisher{},
		generator: codegen.New(),
	}
}

func (f *fixture) seedUser(name string, lifetimePoints int) *entity.User {
	user := &entity.User{
		ID:                  uuid.New(),
		Email:               uuid.NewString() + "@example.com",
		Name:                name,
		LoyaltyTier:         entity.CalculateTier(lifetimePoints),
		TotalLifetimePoints: lifetimePoints,
	}
	f.store.SeedUser(user)

	return user
}
