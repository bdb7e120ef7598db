package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	kpool "github.com/fishmap/fishmap/pkg/conn/db/postgres/pool"
	"github.com/fishmap/fishmap/pkg/domain"
	pgerrors "github.com/fishmap/fishmap/pkg/domain/errors/dberrors/postgres"
	"github.com/fishmap/fishmap/pkg/domain/gallery/db"
	xe "github.com/fishmap/fishmap/pkg/errors"
	"github.com/jackc/pgx/v4"
)

type pgGallery struct {
	pool kpool.Pool
}

var _ db.GalleryInterface = &pgGallery{}

func New(pool kpool.Pool) db.GalleryInterface {
	return &pgGallery{pool: pool}
}

const galleryColumns = `
	"id", "title", coalesce("description", ''), "image_url", coalesce("location", ''),
	"created_by", "created_at", "updated_at"
`

func scanItem(row pgx.Row) (domain.GalleryItem, error) {
	var g domain.GalleryItem
	err := row.Scan(
		&g.Id, &g.Title, &g.Description, &g.ImageURL, &g.Location,
		&g.CreatedBy, &g.CreatedAt, &g.UpdatedAt,
	)
	return g, err
}

func missing(id int) error {
	return xe.Wrap(pgerrors.Missing{Table: "gallery", Identity: fmt.Sprintf("id=%d", id)})
}

func (m *pgGallery) Create(ctx context.Context, param domain.GalleryParam) (domain.GalleryItem, error) {
	g, err := scanItem(m.pool.QueryRow(
		ctx,
		`
		INSERT INTO "gallery" ("title", "description", "image_url", "location", "created_by")
		VALUES ($1, nullif($2, ''), $3, nullif($4, ''), $5)
		RETURNING `+galleryColumns,
		strings.TrimSpace(param.Title), param.Description, param.ImageURL, param.Location, param.CreatedBy,
	))
	if err != nil {
		return domain.GalleryItem{}, xe.Wrap(err)
	}
	return g, nil
}

func (m *pgGallery) Get(ctx context.Context, id int) (domain.GalleryItem, error) {
	g, err := scanItem(m.pool.QueryRow(
		ctx, `SELECT `+galleryColumns+` FROM "gallery" WHERE "id" = $1`, id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.GalleryItem{}, missing(id)
	}
	if err != nil {
		return domain.GalleryItem{}, xe.Wrap(err)
	}
	return g, nil
}

func (m *pgGallery) List(ctx context.Context) ([]domain.GalleryItem, error) {
	rows, err := m.pool.Query(
		ctx, `SELECT `+galleryColumns+` FROM "gallery" ORDER BY "created_at" DESC, "id" DESC`,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer rows.Close()

	items := []domain.GalleryItem{}
	for rows.Next() {
		g, err := scanItem(rows)
		if err != nil {
			return nil, xe.Wrap(err)
		}
		items = append(items, g)
	}
	if err := rows.Err(); err != nil {
		return nil, xe.Wrap(err)
	}
	return items, nil
}

func (m *pgGallery) Update(ctx context.Context, id int, update domain.GalleryUpdate) (domain.GalleryItem, error) {
	sets := []string{}
	args := []any{id}
	set := func(column string, value string) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf(`"%s" = nullif($%d, '')`, column, len(args)))
	}
	if update.Title != nil {
		set("title", strings.TrimSpace(*update.Title))
	}
	if update.Description != nil {
		set("description", *update.Description)
	}
	if update.ImageURL != nil {
		set("image_url", *update.ImageURL)
	}
	if update.Location != nil {
		set("location", *update.Location)
	}
	if len(sets) == 0 {
		return m.Get(ctx, id)
	}

	g, err := scanItem(m.pool.QueryRow(
		ctx,
		`UPDATE "gallery" SET `+strings.Join(sets, ", ")+` WHERE "id" = $1 RETURNING `+galleryColumns,
		args...,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.GalleryItem{}, missing(id)
	}
	if err != nil {
		return domain.GalleryItem{}, xe.Wrap(err)
	}
	return g, nil
}

func (m *pgGallery) Delete(ctx context.Context, id int) error {
	tag, err := m.pool.Exec(ctx, `DELETE FROM "gallery" WHERE "id" = $1`, id)
	if err != nil {
		return xe.Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return missing(id)
	}
	return nil
}
