package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	kpool "github.com/fishmap/fishmap/pkg/conn/db/postgres/pool"
	"github.com/fishmap/fishmap/pkg/domain"
	"github.com/fishmap/fishmap/pkg/domain/catalog/db"
	pgerrors "github.com/fishmap/fishmap/pkg/domain/errors/dberrors/postgres"
	pgprediction "github.com/fishmap/fishmap/pkg/domain/prediction/db/postgres"
	xe "github.com/fishmap/fishmap/pkg/errors"
	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"
)

type pgCatalog struct {
	pool kpool.Pool
}

var _ db.CatalogInterface = &pgCatalog{}

func New(pool kpool.Pool) db.CatalogInterface {
	return &pgCatalog{pool: pool}
}

const entryColumns = `
	"ce"."id", "ce"."prediction_id", "ce"."user_id", "ce"."nama_ikan", "ce"."kategori",
	coalesce("ce"."deskripsi_tambahan", ''), "ce"."tanggal_ditemukan",
	coalesce("ce"."lokasi_penangkapan", ''), "ce"."kondisi_ikan", "ce"."tingkat_keamanan",
	"ce"."aman_dikonsumsi", "ce"."jauh_dari_pabrik", "u"."name",
	"ce"."created_at", "ce"."updated_at"
`

const from = `
	"fish_catalog_entries" AS "ce"
	INNER JOIN "fish_predictions" AS "p" ON "p"."id" = "ce"."prediction_id"
	INNER JOIN "users" AS "u" ON "u"."id" = "ce"."user_id"
`

func scanEntry(row pgx.Row) (domain.CatalogEntry, error) {
	var e domain.CatalogEntry
	var kategori, kondisi string
	var ditemukan pgtype.Date

	predTargets, done := pgprediction.Targets(&e.Prediction)
	targets := append([]any{
		&e.Id, &e.PredictionId, &e.UserId, &e.NamaIkan, &kategori,
		&e.DeskripsiTambahan, &ditemukan,
		&e.LokasiPenangkapan, &kondisi, &e.TingkatKeamanan,
		&e.AmanDikonsumsi, &e.JauhDariPabrik, &e.UserName,
		&e.CreatedAt, &e.UpdatedAt,
	}, predTargets...)

	if err := row.Scan(targets...); err != nil {
		return domain.CatalogEntry{}, err
	}
	done()
	e.Kategori = domain.Kategori(kategori)
	e.KondisiIkan = domain.Kondisi(kondisi)
	if ditemukan.Status == pgtype.Present {
		t := ditemukan.Time
		e.TanggalDitemukan = &t
	}
	return e, nil
}

func dateOf(c domain.CatalogParam) pgtype.Date {
	if c.TanggalDitemukan == nil {
		return pgtype.Date{Status: pgtype.Null}
	}
	return pgtype.Date{Time: *c.TanggalDitemukan, Status: pgtype.Present}
}

// upsert writes the catalog entry for the prediction. c should be normalized.
func upsert(ctx context.Context, q kpool.Queryer, c domain.CatalogParam) (int, error) {
	var id int
	err := q.QueryRow(
		ctx,
		`
		INSERT INTO "fish_catalog_entries" (
			"prediction_id", "user_id", "nama_ikan", "kategori", "deskripsi_tambahan",
			"tanggal_ditemukan", "lokasi_penangkapan", "kondisi_ikan", "tingkat_keamanan",
			"aman_dikonsumsi", "jauh_dari_pabrik"
		) VALUES ($1, $2, $3, $4, nullif($5, ''), $6, nullif($7, ''), $8, $9, $10, $11)
		ON CONFLICT ("prediction_id") DO UPDATE SET
			"nama_ikan" = EXCLUDED."nama_ikan",
			"kategori" = EXCLUDED."kategori",
			"deskripsi_tambahan" = EXCLUDED."deskripsi_tambahan",
			"tanggal_ditemukan" = EXCLUDED."tanggal_ditemukan",
			"lokasi_penangkapan" = EXCLUDED."lokasi_penangkapan",
			"kondisi_ikan" = EXCLUDED."kondisi_ikan",
			"tingkat_keamanan" = EXCLUDED."tingkat_keamanan",
			"aman_dikonsumsi" = EXCLUDED."aman_dikonsumsi",
			"jauh_dari_pabrik" = EXCLUDED."jauh_dari_pabrik"
		RETURNING "id"
		`,
		c.PredictionId, c.UserId, c.NamaIkan, string(c.Kategori), c.DeskripsiTambahan,
		dateOf(c), c.LokasiPenangkapan, string(c.KondisiIkan), *c.TingkatKeamanan,
		*c.AmanDikonsumsi, *c.JauhDariPabrik,
	).Scan(&id)
	return id, err
}

func (m *pgCatalog) get(ctx context.Context, q kpool.Queryer, id int) (domain.CatalogEntry, error) {
	e, err := scanEntry(q.QueryRow(
		ctx,
		`SELECT `+entryColumns+`, `+pgprediction.Columns+` FROM `+from+` WHERE "ce"."id" = $1`,
		id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.CatalogEntry{}, xe.Wrap(pgerrors.Missing{
			Table: "fish_catalog_entries", Identity: fmt.Sprintf("id=%d", id),
		})
	}
	if err != nil {
		return domain.CatalogEntry{}, xe.Wrap(err)
	}
	return e, nil
}

func (m *pgCatalog) Promote(ctx context.Context, param domain.CatalogParam) (domain.CatalogEntry, error) {
	var entry domain.CatalogEntry
	err := kpool.InTx(ctx, m.pool, func(tx kpool.Tx) error {
		var pred domain.Prediction
		{
			var id, userId int
			var name, safety string
			err := tx.QueryRow(
				ctx,
				`
				SELECT "id", "user_id", "predicted_fish_name", "consumption_safety"
				FROM "fish_predictions" WHERE "id" = $1 AND "user_id" = $2
				FOR UPDATE
				`,
				param.PredictionId, param.UserId,
			).Scan(&id, &userId, &name, &safety)
			if errors.Is(err, pgx.ErrNoRows) {
				return xe.Wrap(pgerrors.Missing{
					Table:    "fish_predictions",
					Identity: fmt.Sprintf("id=%d of user id=%d", param.PredictionId, param.UserId),
				})
			}
			if err != nil {
				return xe.Wrap(err)
			}
			pred = domain.Prediction{Id: id, UserId: userId, PredictedFishName: name, ConsumptionSafety: safety}
		}

		c, err := param.Normalize(pred)
		if err != nil {
			return xe.Wrap(err)
		}
		id, err := upsert(ctx, tx, c)
		if err != nil {
			return xe.Wrap(err)
		}
		entry, err = m.get(ctx, tx, id)
		return err
	})
	if err != nil {
		return domain.CatalogEntry{}, err
	}
	return entry, nil
}

func (m *pgCatalog) CreateWithPrediction(
	ctx context.Context, prediction domain.PredictionParam, catalog domain.CatalogParam,
) (domain.CatalogEntry, error) {
	prediction, err := prediction.Normalize()
	if err != nil {
		return domain.CatalogEntry{}, xe.Wrap(err)
	}

	var entry domain.CatalogEntry
	err = kpool.InTx(ctx, m.pool, func(tx kpool.Tx) error {
		predId, err := pgprediction.Insert(ctx, tx, prediction)
		if err != nil {
			return xe.Wrap(err)
		}
		catalog.PredictionId = predId
		catalog.UserId = prediction.UserId
		c, err := catalog.Normalize(domain.Prediction{
			Id:                predId,
			UserId:            prediction.UserId,
			PredictedFishName: prediction.PredictedFishName,
			ConsumptionSafety: prediction.ConsumptionSafety,
		})
		if err != nil {
			return xe.Wrap(err)
		}
		id, err := upsert(ctx, tx, c)
		if err != nil {
			return xe.Wrap(err)
		}
		entry, err = m.get(ctx, tx, id)
		return err
	})
	if err != nil {
		return domain.CatalogEntry{}, err
	}
	return entry, nil
}

func (m *pgCatalog) Find(ctx context.Context, query domain.CatalogQuery) ([]domain.CatalogEntry, int, error) {
	where := []string{"true"}
	args := []any{}
	cond := func(format string, value any) {
		args = append(args, value)
		where = append(where, strings.ReplaceAll(format, "$?", fmt.Sprintf("$%d", len(args))))
	}
	if query.Kategori != "" {
		cond(`"ce"."kategori" = $?`, string(query.Kategori))
	}
	if query.Lokasi != "" {
		cond(`"ce"."lokasi_penangkapan" ILIKE $?`, "%"+escapeLike(query.Lokasi)+"%")
	}
	if query.Search != "" {
		cond(
			`("ce"."nama_ikan" ILIKE $? OR "p"."predicted_fish_name" ILIKE $? OR "ce"."deskripsi_tambahan" ILIKE $?)`,
			"%"+escapeLike(query.Search)+"%",
		)
	}
	if query.UserId != nil {
		cond(`"ce"."user_id" = $?`, *query.UserId)
	}
	whereClause := strings.Join(where, " AND ")

	var total int
	if err := m.pool.QueryRow(
		ctx, `SELECT count(*) FROM `+from+` WHERE `+whereClause, args...,
	).Scan(&total); err != nil {
		return nil, 0, xe.Wrap(err)
	}

	limit := query.Limit
	if limit <= 0 {
		limit = 50
	}
	nargs := len(args)
	rows, err := m.pool.Query(
		ctx,
		fmt.Sprintf(
			`SELECT %s, %s FROM %s WHERE %s
			ORDER BY "ce"."created_at" DESC, "ce"."id" DESC LIMIT $%d OFFSET $%d`,
			entryColumns, pgprediction.Columns, from, whereClause, nargs+1, nargs+2,
		),
		append(args, limit, query.Offset)...,
	)
	if err != nil {
		return nil, 0, xe.Wrap(err)
	}
	defer rows.Close()

	entries := []domain.CatalogEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, 0, xe.Wrap(err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, xe.Wrap(err)
	}
	return entries, total, nil
}

func (m *pgCatalog) Count(ctx context.Context) (int, error) {
	var n int
	if err := m.pool.QueryRow(
		ctx, `SELECT count(*) FROM "fish_catalog_entries"`,
	).Scan(&n); err != nil {
		return 0, xe.Wrap(err)
	}
	return n, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
