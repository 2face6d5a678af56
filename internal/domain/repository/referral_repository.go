package repository

import (
	"context"
	"errors"

	"bloom/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrReferralCodeNotFound is returned when a referral code does not exist.
var ErrReferralCodeNotFound = errors.New("referral code not found")

// ErrReferralNotFound is returned when a referral row does not exist.
var ErrReferralNotFound = errors.New("referral not found")

// ErrRefereeAlreadyReferred is returned when a referral insert collides with
// the unique referee index: the user has already been referred, ever.
var ErrRefereeAlreadyReferred = errors.New("user has already been referred")

// ReferralRepository defines the standard operations for referral persistence.
type ReferralRepository interface {
	// CreateCode persists a new referral code. Returns ErrDuplicateCode when
	// the code collides with the unique index.
	CreateCode(ctx context.Context, code *entity.ReferralCode) error

	// FindCodeByCode retrieves a referral code by its normalized code value.
	FindCodeByCode(ctx context.Context, code string) (*entity.ReferralCode, error)

	// FindCodeByID retrieves a referral code by its unique ID.
	FindCodeByID(ctx context.Context, id uuid.UUID) (*entity.ReferralCode, error)

	// CodeExists reports whether a referral code with the given value exists.
	CodeExists(ctx context.Context, code string) (bool, error)

	// IncrementCodeUsage bumps the code's usage counter by one.
	IncrementCodeUsage(ctx context.Context, codeID uuid.UUID) error

	// CreateReferral persists a new referral. Returns ErrRefereeAlreadyReferred
	// when the referee already has a referral row (unique constraint).
	CreateReferral(ctx context.Context, referral *entity.Referral) error

	// FindReferralByReferee retrieves the referral row for a referee, if any.
	FindReferralByReferee(ctx context.Context, refereeID uuid.UUID) (*entity.Referral, error)

	// UpdateReferral writes the referral's status, reward and completion stamps.
	UpdateReferral(ctx context.Context, referral *entity.Referral) error

	// FindReferralsByReferrer lists all referrals initiated with the referrer's codes.
	FindReferralsByReferrer(ctx context.Context, referrerID uuid.UUID) ([]*entity.Referral, error)
}
