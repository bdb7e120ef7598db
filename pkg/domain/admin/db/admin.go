package db

import (
	"context"

	"github.com/fishmap/fishmap/pkg/domain"
)

type AdminInterface interface {
	// Create registers a new active admin with default permissions of its role.
	//
	// Conflict (wrapping ErrConflict) is returned when email or phone is taken.
	Create(ctx context.Context, param domain.AdminParam) (domain.Admin, error)

	// Get finds an admin by id. Missing admin causes ErrMissing.
	Get(ctx context.Context, id int) (domain.Admin, error)

	// GetByEmail finds an admin by email. Missing admin causes ErrMissing.
	GetByEmail(ctx context.Context, email string) (domain.Admin, error)

	// GetByRefreshToken finds the admin holding the refresh token. Missing admin causes ErrMissing.
	GetByRefreshToken(ctx context.Context, token string) (domain.Admin, error)

	// List lists all admins, newest first, with their creator's name.
	List(ctx context.Context) ([]domain.Admin, error)

	// SetStatus changes status of the admin `id`, recorded as updated by `by`.
	SetStatus(ctx context.Context, id int, status domain.AdminStatus, by int) (domain.Admin, error)

	// SetPassword replaces the password hash and clears the refresh token.
	SetPassword(ctx context.Context, id int, hash string, by int) error

	// SetRefreshToken replaces the refresh token.
	//
	// Non-nil token means a login, so last login time is updated too. nil clears the token.
	SetRefreshToken(ctx context.Context, id int, token *string) error

	// Count counts admins matching the filter.
	Count(ctx context.Context, filter domain.AdminCountFilter) (int, error)
}
