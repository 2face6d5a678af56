package impl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"bloom/config"
	"bloom/internal/domain/entity"
	domainerrors "bloom/internal/domain/errors"
	"bloom/internal/domain/repository"
	"bloom/internal/domain/service"
	"bloom/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// randomReferralSuffixLength is the random tail behind the fixed code prefix.
const randomReferralSuffixLength = 6

// nameSuffixHexLength is the hex tail of a name-derived referral code.
const nameSuffixHexLength = 4

type referralService struct {
	txManager    repository.TransactionManager
	referralRepo repository.ReferralRepository
	userRepo     repository.UserRepository
	codeGen      service.CodeGenerator
	publisher    service.EventPublisher
	config       *config.Config
	logger       *slog.Logger
}

// NewReferralService creates a new referral engine service instance
func NewReferralService(
	txManager repository.TransactionManager,
	referralRepo repository.ReferralRepository,
	userRepo repository.UserRepository,
	codeGen service.CodeGenerator,
	publisher service.EventPublisher,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.ReferralUsecase {
	return &referralService{
		txManager:    txManager,
		referralRepo: referralRepo,
		userRepo:     userRepo,
		codeGen:      codeGen,
		publisher:    publisher,
		config:       cfg,
		logger:       logger,
	}
}

// GetUserReferralCode returns the user's default code, generating it lazily
// at most once. The first attempt derives the code from the user's display
// name; any collision falls back to a fully random code.
func (s *referralService) GetUserReferralCode(ctx context.Context, userID uuid.UUID) (string, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", domainerrors.ErrUserNotFound
		}

		return "", errors.Wrap(err, "failed to find user")
	}

	if user.ReferralCode != nil && *user.ReferralCode != "" {
		return *user.ReferralCode, nil
	}

	for attempt := 0; attempt < maxCodeGenerationAttempts; attempt++ {
		code, err := s.generateCandidateCode(user.Name, attempt)
		if err != nil {
			return "", errors.Wrap(err, "failed to generate referral code")
		}

		referralCode := &entity.ReferralCode{
			Code:            code,
			OwnerID:         user.ID,
			IsActive:        true,
			DiscountPercent: s.config.Referral.DefaultDiscountPercent,
			UsageLimit:      s.defaultUsageLimit(),
		}

		err = s.txManager.Execute(ctx, func(f repository.RepositoryFactory) error {
			if err := f.NewReferralRepository().CreateCode(ctx, referralCode); err != nil {
				return err
			}

			return f.NewUserRepository().SetReferralCode(ctx, user.ID, code)
		})
		if errors.Is(err, repository.ErrDuplicateCode) {
			continue
		}
		if err != nil {
			return "", err
		}

		return code, nil
	}

	s.logger.Error("referral code generation exhausted",
		slog.String("user_id", userID.String()),
		slog.Int("attempts", maxCodeGenerationAttempts),
	)

	return "", domainerrors.ErrCodeGenerationExhausted
}

// ValidateReferralCode checks, in order: existence, activity, usage limit,
// self-referral, and whether the current user has already been referred.
// Business rejections come back as Valid=false, never as an error.
func (s *referralService) ValidateReferralCode(ctx context.Context, code string, currentUserID *uuid.UUID) (*usecase.ValidateReferralCodeResult, error) {
	canonical := canonicalReferralCode(code)

	referralCode, err := s.referralRepo.FindCodeByCode(ctx, canonical)
	if err != nil {
		if errors.Is(err, repository.ErrReferralCodeNotFound) {
			return &usecase.ValidateReferralCodeResult{Valid: false, Error: "referral code not found"}, nil
		}

		return nil, errors.Wrap(err, "failed to find referral code")
	}

	if !referralCode.IsActive {
		return &usecase.ValidateReferralCodeResult{Valid: false, Error: "referral code is no longer active"}, nil
	}

	if referralCode.UsageExceeded() {
		return &usecase.ValidateReferralCodeResult{Valid: false, Error: "referral code has reached its usage limit"}, nil
	}

	if currentUserID != nil {
		if *currentUserID == referralCode.OwnerID {
			return &usecase.ValidateReferralCodeResult{Valid: false, Error: "you cannot use your own referral code"}, nil
		}

		_, err := s.referralRepo.FindReferralByReferee(ctx, *currentUserID)
		if err == nil {
			return &usecase.ValidateReferralCodeResult{Valid: false, Error: "you have already used a referral code"}, nil
		}
		if !errors.Is(err, repository.ErrReferralNotFound) {
			return nil, errors.Wrap(err, "failed to check existing referral")
		}
	}

	return &usecase.ValidateReferralCodeResult{
		Valid:           true,
		Code:            referralCode.Code,
		ReferrerID:      referralCode.OwnerID,
		DiscountPercent: referralCode.DiscountPercent,
	}, nil
}

// ApplyReferralCode re-validates and then atomically creates the PENDING
// referral while incrementing the code's usage count. A racing second signup
// for the same referee hits the unique referee index and is translated into
// the same "already referred" rejection.
func (s *referralService) ApplyReferralCode(ctx context.Context, code string, refereeID uuid.UUID) (*usecase.ApplyReferralCodeResult, error) {
	validation, err := s.ValidateReferralCode(ctx, code, &refereeID)
	if err != nil {
		return nil, err
	}
	if !validation.Valid {
		return &usecase.ApplyReferralCodeResult{Success: false, Error: validation.Error}, nil
	}

	canonical := canonicalReferralCode(code)
	result := &usecase.ApplyReferralCodeResult{}

	err = s.txManager.Execute(ctx, func(f repository.RepositoryFactory) error {
		referralRepo := f.NewReferralRepository()

		referralCode, err := referralRepo.FindCodeByCode(ctx, canonical)
		if err != nil {
			return errors.Wrap(err, "failed to find referral code")
		}

		referral := &entity.Referral{
			ReferrerID:     referralCode.OwnerID,
			RefereeID:      refereeID,
			ReferralCodeID: referralCode.ID,
			Status:         entity.ReferralStatusPending,
			RewardPoints:   s.config.Referral.RewardPoints,
		}
		if err := referralRepo.CreateReferral(ctx, referral); err != nil {
			return err
		}

		if err := referralRepo.IncrementCodeUsage(ctx, referralCode.ID); err != nil {
			return errors.Wrap(err, "failed to increment code usage")
		}

		result.Success = true
		result.ReferralID = referral.ID
		result.DiscountPercent = referralCode.DiscountPercent

		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrRefereeAlreadyReferred) {
			return &usecase.ApplyReferralCodeResult{Success: false, Error: "you have already used a referral code"}, nil
		}

		return nil, err
	}

	return result, nil
}

// CompleteReferral rewards the PENDING referral at the referee's first order.
// Repeat calls are success no-ops. Points are returned, never awarded here:
// composition with the loyalty engine is explicit and caller-driven.
func (s *referralService) CompleteReferral(ctx context.Context, refereeID uuid.UUID, orderID string, orderAmount float64) (*usecase.CompleteReferralResult, error) {
	result := &usecase.CompleteReferralResult{}

	var event *service.RewardEvent

	err := s.txManager.Execute(ctx, func(f repository.RepositoryFactory) error {
		referralRepo := f.NewReferralRepository()

		referral, err := referralRepo.FindReferralByReferee(ctx, refereeID)
		if err != nil {
			if errors.Is(err, repository.ErrReferralNotFound) {
				result.Success = true

				return nil
			}

			return errors.Wrap(err, "failed to find referral")
		}

		// Already rewarded (or otherwise past PENDING): idempotent no-op.
		if referral.Status != entity.ReferralStatusPending {
			result.Success = true

			return nil
		}

		referralCode, err := referralRepo.FindCodeByID(ctx, referral.ReferralCodeID)
		if err != nil {
			return errors.Wrap(err, "failed to find referral code")
		}

		now := time.Now()
		discount := orderAmount * referralCode.DiscountPercent / 100

		referral.Status = entity.ReferralStatusRewarded
		referral.DiscountApplied = &discount
		referral.RefereeOrderID = orderID
		referral.CompletedAt = &now
		referral.RewardedAt = &now

		if err := referralRepo.UpdateReferral(ctx, referral); err != nil {
			return errors.Wrap(err, "failed to update referral")
		}

		result.Success = true
		result.ReferralID = &referral.ID
		result.ReferrerID = &referral.ReferrerID
		result.PointsAwarded = &referral.RewardPoints
		result.DiscountApplied = &discount

		event = &service.RewardEvent{
			Type:       service.EventReferralRewarded,
			UserID:     referral.ReferrerID.String(),
			OrderID:    orderID,
			Points:     referral.RewardPoints,
			Amount:     discount,
			ReferralID: referral.ID.String(),
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, event)

	return result, nil
}

// GetReferralStats returns read-only referral counts and code usage.
func (s *referralService) GetReferralStats(ctx context.Context, userID uuid.UUID) (*usecase.ReferralStats, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	stats := &usecase.ReferralStats{}
	if user.ReferralCode != nil {
		stats.Code = *user.ReferralCode

		referralCode, err := s.referralRepo.FindCodeByCode(ctx, *user.ReferralCode)
		if err == nil {
			stats.UsageCount = referralCode.UsageCount
		} else if !errors.Is(err, repository.ErrReferralCodeNotFound) {
			return nil, errors.Wrap(err, "failed to find referral code")
		}
	}

	referrals, err := s.referralRepo.FindReferralsByReferrer(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list referrals")
	}

	stats.TotalReferrals = len(referrals)
	for _, referral := range referrals {
		switch referral.Status {
		case entity.ReferralStatusPending:
			stats.PendingCount++
		case entity.ReferralStatusRewarded:
			stats.RewardedCount++
			stats.PointsEarned += referral.RewardPoints
		}
	}

	return stats, nil
}

// generateCandidateCode derives a referral code from the owner's name on the
// first attempt, then falls back to prefix + random suffix.
func (s *referralService) generateCandidateCode(name string, attempt int) (string, error) {
	if attempt == 0 {
		if prefix := namePrefix(name); prefix != "" {
			suffix, err := s.codeGen.Generate(service.HexCharset, nameSuffixHexLength)
			if err != nil {
				return "", err
			}

			return fmt.Sprintf("%s%d%s", prefix, time.Now().Year(), suffix), nil
		}
	}

	suffix, err := s.codeGen.Generate(service.CodeCharset, randomReferralSuffixLength)
	if err != nil {
		return "", err
	}

	return s.config.Referral.CodePrefix + "-" + suffix, nil
}

// defaultUsageLimit maps the configured limit to the entity representation,
// where nil means unlimited.
func (s *referralService) defaultUsageLimit() *int {
	if s.config.Referral.DefaultUsageLimit <= 0 {
		return nil
	}

	limit := s.config.Referral.DefaultUsageLimit

	return &limit
}

// publishEvent emits a reward event after the owning transaction committed.
func (s *referralService) publishEvent(ctx context.Context, event *service.RewardEvent) {
	if event == nil || s.publisher == nil {
		return
	}

	if err := s.publisher.PublishRewardEvent(ctx, event); err != nil {
		s.logger.Warn("failed to publish reward event",
			slog.String("event_type", event.Type),
			slog.String("error", err.Error()),
		)
	}
}

// canonicalReferralCode canonicalizes user input. Referral codes keep their
// dash (ECO-AB12CD), so only surrounding whitespace and case are normalized.
func canonicalReferralCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// namePrefix extracts an uppercase letter prefix from a display name, or ""
// when the name yields nothing usable.
func namePrefix(name string) string {
	first := strings.Fields(name)
	if len(first) == 0 {
		return ""
	}

	var prefix strings.Builder
	for _, r := range first[0] {
		if !unicode.IsLetter(r) || r > unicode.MaxASCII {
			continue
		}
		prefix.WriteRune(unicode.ToUpper(r))
		if prefix.Len() >= 8 {
			break
		}
	}

	if prefix.Len() < 3 {
		return ""
	}

	return prefix.String()
}
