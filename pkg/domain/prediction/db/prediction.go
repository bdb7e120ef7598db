package db

import (
	"context"

	"github.com/fishmap/fishmap/pkg/domain"
)

type PredictionInterface interface {
	// Create stores a prediction. param should be normalized.
	Create(ctx context.Context, param domain.PredictionParam) (domain.Prediction, error)

	// Get finds a prediction by id. Missing prediction causes ErrMissing.
	Get(ctx context.Context, id int) (domain.Prediction, error)

	// FindByUser lists predictions of a user, newest first.
	//
	// Returns
	//
	// - []domain.Prediction: predictions in the page
	//
	// - int: number of all predictions matching the query, regardless of paging
	//
	// - error
	FindByUser(ctx context.Context, query domain.PredictionQuery) ([]domain.Prediction, int, error)

	// Latest lists latest predictions, of the user if userId is not nil.
	Latest(ctx context.Context, userId *int, limit int) ([]domain.Prediction, error)

	// Count counts predictions. With inCatalogOnly, only those promoted into the catalog.
	Count(ctx context.Context, inCatalogOnly bool) (int, error)
}
