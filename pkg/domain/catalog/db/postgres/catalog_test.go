package postgres_test

import (
	"errors"
	"testing"
	"time"

	testctx "github.com/fishmap/fishmap/internal/testutils/context"
	"github.com/fishmap/fishmap/pkg/conn/db/postgres/pool/testenv"
	"github.com/fishmap/fishmap/pkg/domain"
	"github.com/fishmap/fishmap/pkg/domain/catalog/db/postgres"
	domerr "github.com/fishmap/fishmap/pkg/domain/errors"
	pgprediction "github.com/fishmap/fishmap/pkg/domain/prediction/db/postgres"
	"github.com/fishmap/fishmap/pkg/utils/pointer"
	"github.com/fishmap/fishmap/pkg/utils/try"
)

func TestCatalog(t *testing.T) {
	ctx := testctx.For(t)
	pool := testenv.NewPoolBroaker(ctx, t, testenv.WithSchema()).GetPool(ctx, t)

	var owner, other int
	for _, u := range []struct {
		email string
		id    *int
	}{{"owner@example.com", &owner}, {"other@example.com", &other}} {
		if err := pool.QueryRow(
			ctx,
			`INSERT INTO "users" ("name", "phone", "email", "gender", "password", "role")
			VALUES ('Owner', $1, $1, 'female', 'x', 'contributor') RETURNING "id"`,
			u.email,
		).Scan(u.id); err != nil {
			t.Fatal(err)
		}
	}

	preds := pgprediction.New(pool)
	pred := try.To(preds.Create(ctx, try.To(domain.PredictionParam{
		UserId: owner, PredictedFishName: "Ikan Buntal", Probability: 0.8,
		ConsumptionSafety: "Beracun",
	}.Normalize()).OrFatal(t))).OrFatal(t)

	testee := postgres.New(pool)

	t.Run("promoting a prediction of someone else is missing", func(t *testing.T) {
		_, err := testee.Promote(ctx, domain.CatalogParam{PredictionId: pred.Id, UserId: other})
		if !errors.Is(err, domerr.ErrMissing) {
			t.Errorf("unexpected error: %v", err)
		}
	})

	var entry domain.CatalogEntry
	t.Run("promote fills defaults from the prediction", func(t *testing.T) {
		entry = try.To(testee.Promote(ctx, domain.CatalogParam{
			PredictionId: pred.Id, UserId: owner, LokasiPenangkapan: "Danau Toba",
		})).OrFatal(t)
		if entry.NamaIkan != "Ikan Buntal" || entry.Kategori != domain.KategoriHias ||
			entry.AmanDikonsumsi || entry.KondisiIkan != domain.KondisiMati {
			t.Errorf("unexpected entry: %+v", entry)
		}
		if entry.Prediction.Id != pred.Id || !entry.Prediction.InCatalog() || entry.UserName != "Owner" {
			t.Errorf("prediction is not joined: %+v", entry.Prediction)
		}
	})

	t.Run("promoting again updates the same entry", func(t *testing.T) {
		again := try.To(testee.Promote(ctx, domain.CatalogParam{
			PredictionId: pred.Id, UserId: owner, NamaIkan: "Buntal",
		})).OrFatal(t)
		if again.Id != entry.Id || again.NamaIkan != "Buntal" {
			t.Errorf("unexpected entry: %+v", again)
		}
	})

	found := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	second := try.To(testee.CreateWithPrediction(
		ctx,
		domain.PredictionParam{
			UserId: other, PredictedFishName: "Ikan Mas", Probability: 0.95,
			ConsumptionSafety: "Aman dikonsumsi",
		},
		domain.CatalogParam{
			LokasiPenangkapan: "Waduk Jatiluhur",
			DeskripsiTambahan: "warna 100% emas",
			TanggalDitemukan:  &found,
			TingkatKeamanan:   pointer.Ref(0.7),
		},
	)).OrFatal(t)
	if second.UserId != other || second.Kategori != domain.KategoriKonsumsi {
		t.Errorf("unexpected entry: %+v", second)
	}
	if second.TanggalDitemukan == nil || !second.TanggalDitemukan.Equal(found) {
		t.Errorf("tanggal ditemukan: %v", second.TanggalDitemukan)
	}

	for name, tc := range map[string]struct {
		when domain.CatalogQuery
		then []int
	}{
		"all, newest first":     {when: domain.CatalogQuery{}, then: []int{second.Id, entry.Id}},
		"kategori":              {when: domain.CatalogQuery{Kategori: domain.KategoriHias}, then: []int{entry.Id}},
		"lokasi partial":        {when: domain.CatalogQuery{Lokasi: "toba"}, then: []int{entry.Id}},
		"search predicted name": {when: domain.CatalogQuery{Search: "mas"}, then: []int{second.Id}},
		"search escapes like":   {when: domain.CatalogQuery{Search: "100%"}, then: []int{second.Id}},
		"user":                  {when: domain.CatalogQuery{UserId: &owner}, then: []int{entry.Id}},
		"paging":                {when: domain.CatalogQuery{Limit: 1, Offset: 1}, then: []int{entry.Id}},
	} {
		t.Run("find: "+name, func(t *testing.T) {
			got, total, err := testee.Find(ctx, tc.when)
			if err != nil {
				t.Fatal(err)
			}
			ids := []int{}
			for _, e := range got {
				ids = append(ids, e.Id)
			}
			if len(ids) != len(tc.then) {
				t.Fatalf("got %v, want %v", ids, tc.then)
			}
			for i := range ids {
				if ids[i] != tc.then[i] {
					t.Errorf("got %v, want %v", ids, tc.then)
				}
			}
			if tc.when.Limit == 0 && total != len(tc.then) {
				t.Errorf("total = %d", total)
			}
		})
	}

	if n := try.To(testee.Count(ctx)).OrFatal(t); n != 2 {
		t.Errorf("count = %d", n)
	}
}
