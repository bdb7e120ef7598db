package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	domerr "github.com/fishmap/fishmap/pkg/domain/errors"
)

// GalleryItem is a picture on the public gallery.
type GalleryItem struct {
	Id          int
	Title       string
	Description string
	ImageURL    string
	Location    string
	CreatedBy   *int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

const maxGalleryTitleLength = 200

type GalleryParam struct {
	Title       string
	Description string
	ImageURL    string
	Location    string
	CreatedBy   *int
}

func (g GalleryParam) Validate() error {
	if err := validateGalleryTitle(g.Title); err != nil {
		return err
	}
	if strings.TrimSpace(g.ImageURL) == "" {
		return fmt.Errorf("%w: image_url is required", domerr.ErrBadInput)
	}
	return nil
}

// GalleryUpdate is a partial update. nil fields are kept.
type GalleryUpdate struct {
	Title       *string
	Description *string
	ImageURL    *string
	Location    *string
}

func (g GalleryUpdate) Validate() error {
	if g.Title != nil {
		if err := validateGalleryTitle(*g.Title); err != nil {
			return err
		}
	}
	if g.ImageURL != nil && strings.TrimSpace(*g.ImageURL) == "" {
		return fmt.Errorf("%w: image_url should not be empty", domerr.ErrBadInput)
	}
	return nil
}

func validateGalleryTitle(title string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(title))
	if n == 0 {
		return fmt.Errorf("%w: title is required", domerr.ErrBadInput)
	}
	if maxGalleryTitleLength < n {
		return fmt.Errorf(
			"%w: title should be at most %d characters", domerr.ErrBadInput, maxGalleryTitleLength,
		)
	}
	return nil
}
