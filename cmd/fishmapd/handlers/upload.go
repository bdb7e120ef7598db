package handlers

import (
	"errors"
	"net/http"

	apierr "github.com/fishmap/fishmap/pkg/api/errors"
	"github.com/fishmap/fishmap/pkg/uploads"
	"github.com/labstack/echo/v4"
)

// receive stores the multipart file in the field.
//
// When the field is missing, it returns nil image and nil error unless required.
func receive(c echo.Context, store *uploads.Store, field string, required bool) (*uploads.Image, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		if required {
			return nil, apierr.BadRequest(field + " file is required")
		}
		return nil, nil
	} else if err != nil {
		return nil, apierr.BadRequest("can not read multipart form", apierr.WithError(err))
	}

	img, err := store.Save(fh)
	if errors.Is(err, uploads.ErrUnsupportedImage) {
		return nil, apierr.BadRequest(
			err.Error(),
			apierr.WithAdvice("upload jpeg, png, webp, bmp, heic, tiff, mpo, pfm or dng image."),
		)
	} else if errors.Is(err, uploads.ErrTooLarge) {
		return nil, apierr.NewErrorMessage(http.StatusRequestEntityTooLarge, err.Error())
	} else if err != nil {
		return nil, apierr.InternalServerError(err)
	}
	return &img, nil
}

// discard removes the uploaded file, logging failures.
func discard(c echo.Context, store *uploads.Store, img *uploads.Image) {
	if img == nil {
		return
	}
	if err := store.Remove(*img); err != nil {
		c.Logger().Warnf("upload %s is left: %s", img.Path, err)
	}
}
