package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	kpool "github.com/fishmap/fishmap/pkg/conn/db/postgres/pool"
	"github.com/fishmap/fishmap/pkg/domain"
	pgerrors "github.com/fishmap/fishmap/pkg/domain/errors/dberrors/postgres"
	"github.com/fishmap/fishmap/pkg/domain/prediction/db"
	xe "github.com/fishmap/fishmap/pkg/errors"
	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"
)

type pgPrediction struct {
	pool kpool.Pool
}

var _ db.PredictionInterface = &pgPrediction{}

func New(pool kpool.Pool) db.PredictionInterface {
	return &pgPrediction{pool: pool}
}

// Columns of "fish_predictions" aliased as "p", joined with "fish_catalog_entries" aliased as "ce".
//
// Exported for the catalog repository, which reads predictions together with entries.
const Columns = `
	"p"."id", "p"."user_id", "p"."predicted_fish_name", "p"."probability",
	"p"."habitat", "p"."consumption_safety",
	coalesce("p"."fish_image", ''), coalesce("p"."image_path", ''),
	"p"."top_predictions", "p"."boxes", coalesce("p"."notes", ''),
	"p"."prediction_date", "ce"."id", "p"."created_at", "p"."updated_at"
`

const from = `"fish_predictions" AS "p" LEFT JOIN "fish_catalog_entries" AS "ce" ON "ce"."prediction_id" = "p"."id"`

// Targets returns scan destinations in the order of Columns.
//
// After scanning, call the returned function to complete p.
func Targets(p *domain.Prediction) ([]any, func()) {
	var top, boxes pgtype.JSONB
	return []any{
			&p.Id, &p.UserId, &p.PredictedFishName, &p.Probability,
			&p.Habitat, &p.ConsumptionSafety,
			&p.FishImage, &p.ImagePath,
			&top, &boxes, &p.Notes,
			&p.PredictionDate, &p.CatalogEntryId, &p.CreatedAt, &p.UpdatedAt,
		}, func() {
			p.TopPredictions = rawJSON(top)
			p.Boxes = rawJSON(boxes)
		}
}

func rawJSON(j pgtype.JSONB) json.RawMessage {
	if j.Status != pgtype.Present {
		return nil
	}
	return json.RawMessage(j.Bytes)
}

// JSONB converts raw JSON into a query parameter. Empty raw is NULL.
func JSONB(raw json.RawMessage) pgtype.JSONB {
	if len(raw) == 0 {
		return pgtype.JSONB{Status: pgtype.Null}
	}
	return pgtype.JSONB{Bytes: raw, Status: pgtype.Present}
}

func scanPrediction(row pgx.Row) (domain.Prediction, error) {
	p := domain.Prediction{}
	targets, done := Targets(&p)
	if err := row.Scan(targets...); err != nil {
		return domain.Prediction{}, err
	}
	done()
	return p, nil
}

// Insert stores a prediction with q, and returns its id.
func Insert(ctx context.Context, q kpool.Queryer, param domain.PredictionParam) (int, error) {
	var id int
	err := q.QueryRow(
		ctx,
		`
		INSERT INTO "fish_predictions" (
			"user_id", "predicted_fish_name", "probability", "habitat", "consumption_safety",
			"fish_image", "image_path", "top_predictions", "boxes", "notes", "prediction_date"
		) VALUES ($1, $2, $3, $4, $5, nullif($6, ''), nullif($7, ''), $8, $9, nullif($10, ''), $11)
		RETURNING "id"
		`,
		param.UserId, param.PredictedFishName, param.Probability,
		param.Habitat, param.ConsumptionSafety,
		param.FishImage, param.ImagePath,
		JSONB(param.TopPredictions), JSONB(param.Boxes), param.Notes, param.PredictionDate,
	).Scan(&id)
	return id, err
}

func (m *pgPrediction) Create(ctx context.Context, param domain.PredictionParam) (domain.Prediction, error) {
	id, err := Insert(ctx, m.pool, param)
	if err != nil {
		return domain.Prediction{}, xe.Wrap(err)
	}
	return m.Get(ctx, id)
}

func (m *pgPrediction) Get(ctx context.Context, id int) (domain.Prediction, error) {
	p, err := scanPrediction(m.pool.QueryRow(
		ctx, `SELECT `+Columns+` FROM `+from+` WHERE "p"."id" = $1`, id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Prediction{}, xe.Wrap(pgerrors.Missing{
			Table: "fish_predictions", Identity: fmt.Sprintf("id=%d", id),
		})
	}
	if err != nil {
		return domain.Prediction{}, xe.Wrap(err)
	}
	return p, nil
}

func (m *pgPrediction) query(ctx context.Context, query string, args ...any) ([]domain.Prediction, error) {
	rows, err := m.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer rows.Close()

	preds := []domain.Prediction{}
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, xe.Wrap(err)
		}
		preds = append(preds, p)
	}
	if err := rows.Err(); err != nil {
		return nil, xe.Wrap(err)
	}
	return preds, nil
}

func (m *pgPrediction) FindByUser(ctx context.Context, query domain.PredictionQuery) ([]domain.Prediction, int, error) {
	where := `"p"."user_id" = $1`
	if query.InCatalogOnly {
		where += ` AND "ce"."id" IS NOT NULL`
	}

	var total int
	if err := m.pool.QueryRow(
		ctx, `SELECT count(*) FROM `+from+` WHERE `+where, query.UserId,
	).Scan(&total); err != nil {
		return nil, 0, xe.Wrap(err)
	}

	limit := query.Limit
	if limit <= 0 {
		limit = 10
	}
	preds, err := m.query(
		ctx,
		`SELECT `+Columns+` FROM `+from+` WHERE `+where+`
		ORDER BY "p"."created_at" DESC, "p"."id" DESC LIMIT $2 OFFSET $3`,
		query.UserId, limit, query.Offset,
	)
	if err != nil {
		return nil, 0, err
	}
	return preds, total, nil
}

func (m *pgPrediction) Latest(ctx context.Context, userId *int, limit int) ([]domain.Prediction, error) {
	return m.query(
		ctx,
		`SELECT `+Columns+` FROM `+from+`
		WHERE $1::int IS NULL OR "p"."user_id" = $1
		ORDER BY "p"."created_at" DESC, "p"."id" DESC LIMIT $2`,
		userId, limit,
	)
}

func (m *pgPrediction) Count(ctx context.Context, inCatalogOnly bool) (int, error) {
	query := `SELECT count(*) FROM "fish_predictions"`
	if inCatalogOnly {
		query = `SELECT count(*) FROM "fish_catalog_entries"`
	}
	var n int
	if err := m.pool.QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, xe.Wrap(err)
	}
	return n, nil
}
