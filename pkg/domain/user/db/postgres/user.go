package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	kpool "github.com/fishmap/fishmap/pkg/conn/db/postgres/pool"
	"github.com/fishmap/fishmap/pkg/domain"
	pgerrors "github.com/fishmap/fishmap/pkg/domain/errors/dberrors/postgres"
	"github.com/fishmap/fishmap/pkg/domain/user/db"
	xe "github.com/fishmap/fishmap/pkg/errors"
	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"
)

type pgUser struct {
	pool kpool.Pool
}

var _ db.UserInterface = &pgUser{}

func New(pool kpool.Pool) db.UserInterface {
	return &pgUser{pool: pool}
}

var uniqueFields = map[string]string{
	"users_email_key": "email",
	"users_phone_key": "phone",
}

const userColumns = `
	"id", "name", "phone", "email", "gender", "birthday", "password",
	coalesce("otp_code", ''), "otp_expires", "is_verified", "email_verified_at", "refresh_token",
	"role", "catalog_request_status", "catalog_request_date", "catalog_approved_date",
	"catalog_approved_by", coalesce("catalog_rejection_reason", ''),
	coalesce("ktp_image_path", ''), coalesce("ktp_image_url", ''),
	"created_at", "updated_at"
`

func scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	var birthday pgtype.Date
	var gender, role, status string
	if err := row.Scan(
		&u.Id, &u.Name, &u.Phone, &u.Email, &gender, &birthday, &u.Password,
		&u.OTPCode, &u.OTPExpires, &u.IsVerified, &u.EmailVerifiedAt, &u.RefreshToken,
		&role, &status, &u.Catalog.RequestedAt, &u.Catalog.ApprovedAt,
		&u.Catalog.ApprovedBy, &u.Catalog.RejectionReason,
		&u.KTPImagePath, &u.KTPImageURL,
		&u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return domain.User{}, err
	}
	u.Gender = domain.Gender(gender)
	u.Role = domain.Role(role)
	u.Catalog.Status = domain.CatalogRequestStatus(status)
	if birthday.Status == pgtype.Present {
		b := birthday.Time
		u.Birthday = &b
	}
	return u, nil
}

// getOne runs a query returning one user.
//
// identity is used in the error message when no rows are found.
func getOne(ctx context.Context, q kpool.Queryer, identity string, query string, args ...any) (domain.User, error) {
	u, err := scanUser(q.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, xe.Wrap(pgerrors.Missing{Table: "users", Identity: identity})
	}
	if err != nil {
		return domain.User{}, xe.Wrap(err)
	}
	return u, nil
}

func (m *pgUser) Create(ctx context.Context, param domain.UserParam) (domain.User, error) {
	u, err := scanUser(m.pool.QueryRow(
		ctx,
		`
		INSERT INTO "users" (
			"name", "phone", "email", "gender", "password", "otp_code", "otp_expires"
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+userColumns,
		param.Name, param.Phone, param.Email, string(param.Gender), param.Password,
		param.OTPCode, param.OTPExpires,
	))
	if err != nil {
		return domain.User{}, xe.Wrap(pgerrors.AsConflict(err, "users", uniqueFields))
	}
	return u, nil
}

func (m *pgUser) Get(ctx context.Context, id int) (domain.User, error) {
	return getOne(
		ctx, m.pool, fmt.Sprintf("id=%d", id),
		`SELECT `+userColumns+` FROM "users" WHERE "id" = $1`, id,
	)
}

func (m *pgUser) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return getOne(
		ctx, m.pool, "email="+email,
		`SELECT `+userColumns+` FROM "users" WHERE "email" = $1`, email,
	)
}

func (m *pgUser) GetByRefreshToken(ctx context.Context, token string) (domain.User, error) {
	return getOne(
		ctx, m.pool, "refresh token",
		`SELECT `+userColumns+` FROM "users" WHERE "refresh_token" = $1`, token,
	)
}

// execOne runs a command which should affect exactly one user.
func execOne(ctx context.Context, q kpool.Queryer, id int, query string, args ...any) error {
	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return xe.Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return xe.Wrap(pgerrors.Missing{Table: "users", Identity: fmt.Sprintf("id=%d", id)})
	}
	return nil
}

func (m *pgUser) Delete(ctx context.Context, id int) error {
	return execOne(ctx, m.pool, id, `DELETE FROM "users" WHERE "id" = $1`, id)
}

func (m *pgUser) SetOTP(ctx context.Context, id int, code string, expires time.Time) error {
	return execOne(
		ctx, m.pool, id,
		`UPDATE "users" SET "otp_code" = $2, "otp_expires" = $3 WHERE "id" = $1`,
		id, code, expires,
	)
}

func (m *pgUser) MarkVerified(ctx context.Context, id int, at time.Time) (domain.User, error) {
	return getOne(
		ctx, m.pool, fmt.Sprintf("id=%d", id),
		`
		UPDATE "users"
		SET "is_verified" = true, "email_verified_at" = $2,
			"otp_code" = NULL, "otp_expires" = NULL
		WHERE "id" = $1
		RETURNING `+userColumns,
		id, at,
	)
}

func (m *pgUser) SetRefreshToken(ctx context.Context, id int, token *string) error {
	return execOne(
		ctx, m.pool, id,
		`UPDATE "users" SET "refresh_token" = $2 WHERE "id" = $1`, id, token,
	)
}

func (m *pgUser) UpdateProfile(ctx context.Context, id int, update domain.ProfileUpdate) (domain.User, error) {
	if update.IsEmpty() {
		return m.Get(ctx, id)
	}

	sets := []string{}
	args := []any{id}
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf(`"%s" = $%d`, column, len(args)))
	}
	if update.Name != nil {
		set("name", *update.Name)
	}
	if update.Email != nil {
		set("email", *update.Email)
	}
	if update.Phone != nil {
		set("phone", *update.Phone)
	}
	if update.Gender != nil {
		set("gender", string(*update.Gender))
	}
	if update.Birthday != nil {
		set("birthday", pgtype.Date{Time: *update.Birthday, Status: pgtype.Present})
	}
	if update.Password != nil {
		set("password", *update.Password)
		sets = append(sets, `"refresh_token" = NULL`)
	}

	u, err := getOne(
		ctx, m.pool, fmt.Sprintf("id=%d", id),
		`UPDATE "users" SET `+strings.Join(sets, ", ")+` WHERE "id" = $1 RETURNING `+userColumns,
		args...,
	)
	if err != nil {
		return domain.User{}, pgerrors.AsConflict(err, "users", uniqueFields)
	}
	return u, nil
}

func (m *pgUser) SetPassword(ctx context.Context, id int, hash string) error {
	return execOne(
		ctx, m.pool, id,
		`UPDATE "users" SET "password" = $2, "refresh_token" = NULL WHERE "id" = $1`,
		id, hash,
	)
}

// explainTransition tells why a conditional update on catalog request status matched no rows.
func (m *pgUser) explainTransition(ctx context.Context, id int, expected domain.CatalogRequestStatus) error {
	u, err := m.Get(ctx, id)
	if err != nil {
		return err
	}
	return xe.Wrap(pgerrors.InvalidState{
		Table:    "users",
		Identity: fmt.Sprintf("catalog request of id=%d", id),
		Expected: string(expected),
		Actual:   string(u.Catalog.Status),
	})
}

func (m *pgUser) RequestCatalogAccess(ctx context.Context, id int, at time.Time) (domain.User, error) {
	u, err := scanUser(m.pool.QueryRow(
		ctx,
		`
		UPDATE "users"
		SET "catalog_request_status" = 'pending', "catalog_request_date" = $2,
			"catalog_rejection_reason" = NULL
		WHERE "id" = $1 AND "catalog_request_status" = 'none'
		RETURNING `+userColumns,
		id, at,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, m.explainTransition(ctx, id, domain.CatalogRequestNone)
	}
	if err != nil {
		return domain.User{}, xe.Wrap(err)
	}
	return u, nil
}

func (m *pgUser) DecideCatalogRequest(ctx context.Context, id int, decision domain.CatalogDecision) (domain.User, error) {
	if err := decision.Validate(); err != nil {
		return domain.User{}, xe.Wrap(err)
	}

	var row pgx.Row
	if decision.Approve {
		row = m.pool.QueryRow(
			ctx,
			`
			UPDATE "users"
			SET "role" = 'contributor', "catalog_request_status" = 'approved',
				"catalog_approved_date" = $2, "catalog_approved_by" = $3,
				"catalog_rejection_reason" = NULL
			WHERE "id" = $1 AND "catalog_request_status" = 'pending'
			RETURNING `+userColumns,
			id, decision.At, decision.AdminId,
		)
	} else {
		row = m.pool.QueryRow(
			ctx,
			`
			UPDATE "users"
			SET "catalog_request_status" = 'rejected', "catalog_rejection_reason" = $2,
				"catalog_approved_date" = NULL, "catalog_approved_by" = NULL
			WHERE "id" = $1 AND "catalog_request_status" = 'pending'
			RETURNING `+userColumns,
			id, decision.Reason,
		)
	}

	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, m.explainTransition(ctx, id, domain.CatalogRequestPending)
	}
	if err != nil {
		return domain.User{}, xe.Wrap(err)
	}
	return u, nil
}

func (m *pgUser) SetKTP(ctx context.Context, id int, path string, url string) (domain.User, error) {
	return getOne(
		ctx, m.pool, fmt.Sprintf("id=%d", id),
		`
		UPDATE "users" SET "ktp_image_path" = $2, "ktp_image_url" = $3
		WHERE "id" = $1
		RETURNING `+userColumns,
		id, path, url,
	)
}

func (m *pgUser) FindByCatalogStatus(ctx context.Context, status domain.CatalogRequestStatus) ([]domain.User, error) {
	order := `"catalog_approved_date" DESC NULLS LAST, "updated_at" DESC`
	if status == domain.CatalogRequestPending {
		order = `"catalog_request_date" ASC NULLS LAST, "id" ASC`
	}

	rows, err := m.pool.Query(
		ctx,
		`SELECT `+userColumns+` FROM "users" WHERE "catalog_request_status" = $1 ORDER BY `+order,
		string(status),
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, xe.Wrap(err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, xe.Wrap(err)
	}
	return users, nil
}

func (m *pgUser) Count(ctx context.Context, filter domain.UserCountFilter) (int, error) {
	where := []string{"true"}
	args := []any{}
	cond := func(format string, value any) {
		args = append(args, value)
		where = append(where, fmt.Sprintf(format, len(args)))
	}
	if filter.Role != "" {
		cond(`"role" = $%d`, string(filter.Role))
	}
	if filter.CatalogStatus != "" {
		cond(`"catalog_request_status" = $%d`, string(filter.CatalogStatus))
	}
	if filter.RequestedSince != nil {
		cond(`"catalog_request_date" >= $%d`, *filter.RequestedSince)
	}

	var n int
	if err := m.pool.QueryRow(
		ctx,
		`SELECT count(*) FROM "users" WHERE `+strings.Join(where, " AND "),
		args...,
	).Scan(&n); err != nil {
		return 0, xe.Wrap(err)
	}
	return n, nil
}
