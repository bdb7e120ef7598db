package db

import (
	"context"
	"time"

	"github.com/fishmap/fishmap/pkg/domain"
)

type UserInterface interface {
	// Create registers a new, unverified user.
	//
	// Returns
	//
	// - domain.User: created user
	//
	// - error: Conflict (wrapping ErrConflict) when email or phone is taken.
	Create(ctx context.Context, param domain.UserParam) (domain.User, error)

	// Get finds a user by id. Missing user causes ErrMissing.
	Get(ctx context.Context, id int) (domain.User, error)

	// GetByEmail finds a user by email. Missing user causes ErrMissing.
	GetByEmail(ctx context.Context, email string) (domain.User, error)

	// GetByRefreshToken finds the user holding the refresh token. Missing user causes ErrMissing.
	GetByRefreshToken(ctx context.Context, token string) (domain.User, error)

	// Delete removes a user. Missing user causes ErrMissing.
	Delete(ctx context.Context, id int) error

	// SetOTP replaces the OTP code of the user.
	SetOTP(ctx context.Context, id int, code string, expires time.Time) error

	// MarkVerified marks email of the user verified at `at`, and clears the OTP code.
	MarkVerified(ctx context.Context, id int, at time.Time) (domain.User, error)

	// SetRefreshToken replaces the refresh token. nil clears it.
	SetRefreshToken(ctx context.Context, id int, token *string) error

	// UpdateProfile updates the profile partially.
	//
	// When the update changes the password, the refresh token is cleared.
	//
	// Conflict (wrapping ErrConflict) is returned when email or phone is taken.
	UpdateProfile(ctx context.Context, id int, update domain.ProfileUpdate) (domain.User, error)

	// SetPassword replaces the password hash and clears the refresh token.
	SetPassword(ctx context.Context, id int, hash string) error

	// RequestCatalogAccess moves the catalog request of the user from none to pending.
	//
	// When the request is not in none, it returns InvalidState (wrapping ErrInvalidState).
	RequestCatalogAccess(ctx context.Context, id int, at time.Time) (domain.User, error)

	// DecideCatalogRequest moves a pending catalog request to approved or rejected.
	//
	// Approval makes the user a contributor, records who approved it and clears
	// the rejection reason. Rejection records the reason and clears the approval.
	//
	// When the request is not pending, it returns InvalidState (wrapping ErrInvalidState).
	// The check and the update are one statement, so concurrent decisions on
	// the same request cannot both succeed.
	DecideCatalogRequest(ctx context.Context, id int, decision domain.CatalogDecision) (domain.User, error)

	// SetKTP records the uploaded identity card image.
	SetKTP(ctx context.Context, id int, path string, url string) (domain.User, error)

	// FindByCatalogStatus lists users by catalog request status.
	//
	// Pending users are ordered by request date, oldest first.
	// Others are ordered by approval date (or update), newest first.
	FindByCatalogStatus(ctx context.Context, status domain.CatalogRequestStatus) ([]domain.User, error)

	// Count counts users matching the filter.
	Count(ctx context.Context, filter domain.UserCountFilter) (int, error)
}
