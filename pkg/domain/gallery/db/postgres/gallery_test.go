package postgres_test

import (
	"errors"
	"testing"

	testctx "github.com/fishmap/fishmap/internal/testutils/context"
	"github.com/fishmap/fishmap/pkg/conn/db/postgres/pool/testenv"
	"github.com/fishmap/fishmap/pkg/domain"
	domerr "github.com/fishmap/fishmap/pkg/domain/errors"
	"github.com/fishmap/fishmap/pkg/domain/gallery/db/postgres"
	"github.com/fishmap/fishmap/pkg/utils/pointer"
	"github.com/fishmap/fishmap/pkg/utils/try"
)

func TestGallery(t *testing.T) {
	ctx := testctx.For(t)
	pool := testenv.NewPoolBroaker(ctx, t, testenv.WithSchema()).GetPool(ctx, t)
	testee := postgres.New(pool)

	first := try.To(testee.Create(ctx, domain.GalleryParam{
		Title: "Nila", ImageURL: "/uploads/nila.png", Location: "Bogor",
	})).OrFatal(t)
	second := try.To(testee.Create(ctx, domain.GalleryParam{
		Title: "Mas", ImageURL: "/uploads/mas.png",
	})).OrFatal(t)

	list := try.To(testee.List(ctx)).OrFatal(t)
	if len(list) != 2 || list[0].Id != second.Id {
		t.Errorf("unexpected list: %+v", list)
	}

	updated := try.To(testee.Update(ctx, first.Id, domain.GalleryUpdate{
		Description: pointer.Ref("ikan air tawar"),
	})).OrFatal(t)
	if updated.Title != "Nila" || updated.Description != "ikan air tawar" || updated.Location != "Bogor" {
		t.Errorf("unexpected item: %+v", updated)
	}

	if err := testee.Delete(ctx, first.Id); err != nil {
		t.Fatal(err)
	}
	if _, err := testee.Get(ctx, first.Id); !errors.Is(err, domerr.ErrMissing) {
		t.Errorf("unexpected error: %v", err)
	}
	if err := testee.Delete(ctx, first.Id); !errors.Is(err, domerr.ErrMissing) {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := testee.Update(ctx, first.Id, domain.GalleryUpdate{Title: pointer.Ref("x")}); !errors.Is(err, domerr.ErrMissing) {
		t.Errorf("unexpected error: %v", err)
	}
}
