package db

import (
	"context"

	"github.com/fishmap/fishmap/pkg/domain"
)

type CatalogInterface interface {
	// Promote makes a catalog entry from a prediction of the user.
	//
	// When the prediction already has an entry, the entry is updated.
	// param is normalized against the prediction in this method.
	//
	// ErrMissing is returned when the prediction is not found or is not owned by param.UserId.
	Promote(ctx context.Context, param domain.CatalogParam) (domain.CatalogEntry, error)

	// CreateWithPrediction stores a prediction and its catalog entry at once.
	//
	// PredictionId of catalog is ignored.
	CreateWithPrediction(
		ctx context.Context, prediction domain.PredictionParam, catalog domain.CatalogParam,
	) (domain.CatalogEntry, error)

	// Find queries catalog entries, newest first.
	//
	// Returns entries in the page and the number of all entries matching the query.
	Find(ctx context.Context, query domain.CatalogQuery) ([]domain.CatalogEntry, int, error)

	// Count counts all catalog entries.
	Count(ctx context.Context) (int, error)
}
