package postgres_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	testctx "github.com/fishmap/fishmap/internal/testutils/context"
	"github.com/fishmap/fishmap/pkg/conn/db/postgres/pool/testenv"
	"github.com/fishmap/fishmap/pkg/domain"
	domerr "github.com/fishmap/fishmap/pkg/domain/errors"
	"github.com/fishmap/fishmap/pkg/domain/prediction/db/postgres"
	"github.com/fishmap/fishmap/pkg/utils/try"
)

func TestPrediction(t *testing.T) {
	ctx := testctx.For(t)
	pool := testenv.NewPoolBroaker(ctx, t, testenv.WithSchema()).GetPool(ctx, t)

	users := []int{}
	for _, email := range []string{"a@example.com", "b@example.com"} {
		var id int
		if err := pool.QueryRow(
			ctx,
			`INSERT INTO "users" ("name", "phone", "email", "gender", "password")
			VALUES ('User', $1, $1, 'male', 'x') RETURNING "id"`,
			email,
		).Scan(&id); err != nil {
			t.Fatal(err)
		}
		users = append(users, id)
	}

	testee := postgres.New(pool)
	base := time.Now().Truncate(time.Second)

	created := []domain.Prediction{}
	for i, userId := range []int{users[0], users[0], users[1]} {
		p := try.To(domain.PredictionParam{
			UserId:            userId,
			PredictedFishName: "Ikan Nila",
			Probability:       0.9,
			TopPredictions:    json.RawMessage(`[{"class":"Ikan Nila","confidence":0.9}]`),
			PredictionDate:    base.Add(time.Duration(i) * time.Minute),
		}.Normalize()).OrFatal(t)
		created = append(created, try.To(testee.Create(ctx, p)).OrFatal(t))
	}

	t.Run("created prediction keeps JSON and defaults", func(t *testing.T) {
		got := try.To(testee.Get(ctx, created[0].Id)).OrFatal(t)
		if got.Habitat != domain.Unknown || got.InCatalog() {
			t.Errorf("unexpected prediction: %+v", got)
		}
		var top []map[string]any
		if err := json.Unmarshal(got.TopPredictions, &top); err != nil || len(top) != 1 {
			t.Errorf("top predictions: %s (%v)", got.TopPredictions, err)
		}
		if got.Boxes != nil {
			t.Errorf("boxes should be nil: %s", got.Boxes)
		}
	})

	t.Run("missing prediction", func(t *testing.T) {
		if _, err := testee.Get(ctx, 9999); !errors.Is(err, domerr.ErrMissing) {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("FindByUser pages own predictions", func(t *testing.T) {
		got, total, err := testee.FindByUser(ctx, domain.PredictionQuery{UserId: users[0], Limit: 1})
		if err != nil {
			t.Fatal(err)
		}
		if total != 2 || len(got) != 1 || got[0].Id != created[1].Id {
			t.Errorf("unexpected page: total=%d, %+v", total, got)
		}
	})

	t.Run("FindByUser with in-catalog filter", func(t *testing.T) {
		if _, err := pool.Exec(
			ctx,
			`INSERT INTO "fish_catalog_entries" ("prediction_id", "user_id", "nama_ikan", "kategori")
			VALUES ($1, $2, 'Nila', 'Ikan Konsumsi')`,
			created[0].Id, users[0],
		); err != nil {
			t.Fatal(err)
		}
		got, total, err := testee.FindByUser(ctx, domain.PredictionQuery{UserId: users[0], InCatalogOnly: true})
		if err != nil {
			t.Fatal(err)
		}
		if total != 1 || len(got) != 1 || !got[0].InCatalog() {
			t.Errorf("unexpected result: total=%d, %+v", total, got)
		}
		if n := try.To(testee.Count(ctx, true)).OrFatal(t); n != 1 {
			t.Errorf("count in catalog = %d", n)
		}
		if n := try.To(testee.Count(ctx, false)).OrFatal(t); n != 3 {
			t.Errorf("count = %d", n)
		}
	})

	t.Run("Latest with and without user", func(t *testing.T) {
		all := try.To(testee.Latest(ctx, nil, 20)).OrFatal(t)
		if len(all) != 3 {
			t.Errorf("all: %d", len(all))
		}
		mine := try.To(testee.Latest(ctx, &users[1], 20)).OrFatal(t)
		if len(mine) != 1 || mine[0].UserId != users[1] {
			t.Errorf("mine: %+v", mine)
		}
	})
}
