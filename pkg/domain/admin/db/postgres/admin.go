package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	kpool "github.com/fishmap/fishmap/pkg/conn/db/postgres/pool"
	"github.com/fishmap/fishmap/pkg/domain"
	"github.com/fishmap/fishmap/pkg/domain/admin/db"
	pgerrors "github.com/fishmap/fishmap/pkg/domain/errors/dberrors/postgres"
	xe "github.com/fishmap/fishmap/pkg/errors"
	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"
)

type pgAdmin struct {
	pool kpool.Pool
}

var _ db.AdminInterface = &pgAdmin{}

func New(pool kpool.Pool) db.AdminInterface {
	return &pgAdmin{pool: pool}
}

var uniqueFields = map[string]string{
	"admins_email_key": "email",
	"admins_phone_key": "phone",
}

// columns of "admins" aliased as "a", and creator's name from "admins" aliased as "c".
const adminColumns = `
	"a"."id", "a"."name", "a"."phone", "a"."email", "a"."gender", "a"."password",
	"a"."role", "a"."permissions", "a"."status", "a"."refresh_token", "a"."last_login",
	"a"."created_by", "a"."updated_by", coalesce("c"."name", ''),
	"a"."created_at", "a"."updated_at"
`

const adminFrom = `"admins" AS "a" LEFT JOIN "admins" AS "c" ON "c"."id" = "a"."created_by"`

func scanAdmin(row pgx.Row) (domain.Admin, error) {
	var a domain.Admin
	var gender, role, status string
	var perms pgtype.JSONB
	if err := row.Scan(
		&a.Id, &a.Name, &a.Phone, &a.Email, &gender, &a.Password,
		&role, &perms, &status, &a.RefreshToken, &a.LastLogin,
		&a.CreatedBy, &a.UpdatedBy, &a.CreatorName,
		&a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return domain.Admin{}, err
	}
	a.Gender = domain.Gender(gender)
	a.Role = domain.AdminRole(role)
	a.Status = domain.AdminStatus(status)
	if perms.Status == pgtype.Present {
		if err := perms.AssignTo(&a.Permissions); err != nil {
			return domain.Admin{}, err
		}
	}
	return a, nil
}

func (m *pgAdmin) getOne(ctx context.Context, identity string, where string, args ...any) (domain.Admin, error) {
	a, err := scanAdmin(m.pool.QueryRow(
		ctx, `SELECT `+adminColumns+` FROM `+adminFrom+` WHERE `+where, args...,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Admin{}, xe.Wrap(pgerrors.Missing{Table: "admins", Identity: identity})
	}
	if err != nil {
		return domain.Admin{}, xe.Wrap(err)
	}
	return a, nil
}

func (m *pgAdmin) Create(ctx context.Context, param domain.AdminParam) (domain.Admin, error) {
	var id int
	if err := m.pool.QueryRow(
		ctx,
		`
		INSERT INTO "admins" (
			"name", "phone", "email", "gender", "password", "role", "permissions", "created_by"
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING "id"
		`,
		param.Name, param.Phone, param.Email, string(param.Gender), param.Password,
		string(param.Role), domain.DefaultPermissions(param.Role), param.CreatedBy,
	).Scan(&id); err != nil {
		return domain.Admin{}, xe.Wrap(pgerrors.AsConflict(err, "admins", uniqueFields))
	}
	return m.Get(ctx, id)
}

func (m *pgAdmin) Get(ctx context.Context, id int) (domain.Admin, error) {
	return m.getOne(ctx, fmt.Sprintf("id=%d", id), `"a"."id" = $1`, id)
}

func (m *pgAdmin) GetByEmail(ctx context.Context, email string) (domain.Admin, error) {
	return m.getOne(ctx, "email="+email, `"a"."email" = $1`, email)
}

func (m *pgAdmin) GetByRefreshToken(ctx context.Context, token string) (domain.Admin, error) {
	return m.getOne(ctx, "refresh token", `"a"."refresh_token" = $1`, token)
}

func (m *pgAdmin) List(ctx context.Context) ([]domain.Admin, error) {
	rows, err := m.pool.Query(
		ctx,
		`SELECT `+adminColumns+` FROM `+adminFrom+` ORDER BY "a"."created_at" DESC, "a"."id" DESC`,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer rows.Close()

	admins := []domain.Admin{}
	for rows.Next() {
		a, err := scanAdmin(rows)
		if err != nil {
			return nil, xe.Wrap(err)
		}
		admins = append(admins, a)
	}
	if err := rows.Err(); err != nil {
		return nil, xe.Wrap(err)
	}
	return admins, nil
}

func (m *pgAdmin) update(ctx context.Context, id int, set string, args ...any) error {
	tag, err := m.pool.Exec(
		ctx, `UPDATE "admins" SET `+set+` WHERE "id" = $1`, append([]any{id}, args...)...,
	)
	if err != nil {
		return xe.Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return xe.Wrap(pgerrors.Missing{Table: "admins", Identity: fmt.Sprintf("id=%d", id)})
	}
	return nil
}

func (m *pgAdmin) SetStatus(ctx context.Context, id int, status domain.AdminStatus, by int) (domain.Admin, error) {
	if err := m.update(
		ctx, id, `"status" = $2, "updated_by" = $3`, string(status), by,
	); err != nil {
		return domain.Admin{}, err
	}
	return m.Get(ctx, id)
}

func (m *pgAdmin) SetPassword(ctx context.Context, id int, hash string, by int) error {
	return m.update(
		ctx, id, `"password" = $2, "refresh_token" = NULL, "updated_by" = $3`, hash, by,
	)
}

func (m *pgAdmin) SetRefreshToken(ctx context.Context, id int, token *string) error {
	if token == nil {
		return m.update(ctx, id, `"refresh_token" = NULL`)
	}
	return m.update(ctx, id, `"refresh_token" = $2, "last_login" = now()`, *token)
}

func (m *pgAdmin) Count(ctx context.Context, filter domain.AdminCountFilter) (int, error) {
	where := []string{"true"}
	args := []any{}
	if filter.Role != "" {
		args = append(args, string(filter.Role))
		where = append(where, fmt.Sprintf(`"role" = $%d`, len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		where = append(where, fmt.Sprintf(`"status" = $%d`, len(args)))
	}

	var n int
	if err := m.pool.QueryRow(
		ctx, `SELECT count(*) FROM "admins" WHERE `+strings.Join(where, " AND "), args...,
	).Scan(&n); err != nil {
		return 0, xe.Wrap(err)
	}
	return n, nil
}
