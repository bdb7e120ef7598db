package db

import (
	"context"

	"github.com/fishmap/fishmap/pkg/domain"
)

type GalleryInterface interface {
	Create(ctx context.Context, param domain.GalleryParam) (domain.GalleryItem, error)

	// Get finds an item. Missing item causes ErrMissing.
	Get(ctx context.Context, id int) (domain.GalleryItem, error)

	// List lists all items, newest first.
	List(ctx context.Context) ([]domain.GalleryItem, error)

	// Update updates an item partially. Missing item causes ErrMissing.
	Update(ctx context.Context, id int, update domain.GalleryUpdate) (domain.GalleryItem, error)

	// Delete removes an item. Missing item causes ErrMissing.
	Delete(ctx context.Context, id int) error
}
