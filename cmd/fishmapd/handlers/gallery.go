package handlers

import (
	"errors"
	"net/http"

	apierr "github.com/fishmap/fishmap/pkg/api/errors"
	"github.com/fishmap/fishmap/pkg/domain"
	adb "github.com/fishmap/fishmap/pkg/domain/admin/db"
	domerr "github.com/fishmap/fishmap/pkg/domain/errors"
	gdb "github.com/fishmap/fishmap/pkg/domain/gallery/db"
	"github.com/labstack/echo/v4"
)

// curator loads the signed-in admin and checks they can moderate content.
func curator(c echo.Context, admins adb.AdminInterface) (domain.Admin, error) {
	a, err := currentAdmin(c, admins)
	if err != nil {
		return a, err
	}
	if !a.CanModerateContent() {
		return a, apierr.Forbidden("admin is not allowed to edit the gallery")
	}
	return a, nil
}

func galleryError(err error) error {
	if errors.Is(err, domerr.ErrMissing) {
		return apierr.NotFound("gallery item not found")
	}
	return badInput(err)
}

func ListGalleryHandler(gallery gdb.GalleryInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		items, err := gallery.List(c.Request().Context())
		if err != nil {
			return apierr.InternalServerError(err)
		}
		views := make([]GalleryView, 0, len(items))
		for _, g := range items {
			views = append(views, ViewGallery(g))
		}
		return c.JSON(http.StatusOK, views)
	}
}

func GetGalleryHandler(gallery gdb.GalleryInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := pathId(c, "id")
		if err != nil {
			return err
		}
		g, err := gallery.Get(c.Request().Context(), id)
		if err != nil {
			return galleryError(err)
		}
		return c.JSON(http.StatusOK, ViewGallery(g))
	}
}

type galleryRequest struct {
	Title       *string `json:"title" form:"title"`
	Description *string `json:"description" form:"description"`
	ImageURL    *string `json:"image_url" form:"image_url"`
	Location    *string `json:"location" form:"location"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func CreateGalleryHandler(admins adb.AdminInterface, gallery gdb.GalleryInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		a, err := curator(c, admins)
		if err != nil {
			return err
		}
		req := galleryRequest{}
		if err := bind(c, &req); err != nil {
			return err
		}
		param := domain.GalleryParam{
			Title:       deref(req.Title),
			Description: deref(req.Description),
			ImageURL:    deref(req.ImageURL),
			Location:    deref(req.Location),
			CreatedBy:   &a.Id,
		}
		if err := param.Validate(); err != nil {
			return badInput(err)
		}

		g, err := gallery.Create(c.Request().Context(), param)
		if err != nil {
			return galleryError(err)
		}
		return c.JSON(http.StatusCreated, ViewGallery(g))
	}
}

func UpdateGalleryHandler(admins adb.AdminInterface, gallery gdb.GalleryInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := curator(c, admins); err != nil {
			return err
		}
		id, err := pathId(c, "id")
		if err != nil {
			return err
		}
		req := galleryRequest{}
		if err := bind(c, &req); err != nil {
			return err
		}
		update := domain.GalleryUpdate{
			Title:       req.Title,
			Description: req.Description,
			ImageURL:    req.ImageURL,
			Location:    req.Location,
		}
		if err := update.Validate(); err != nil {
			return badInput(err)
		}

		g, err := gallery.Update(c.Request().Context(), id, update)
		if err != nil {
			return galleryError(err)
		}
		return c.JSON(http.StatusOK, ViewGallery(g))
	}
}

func DeleteGalleryHandler(admins adb.AdminInterface, gallery gdb.GalleryInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := curator(c, admins); err != nil {
			return err
		}
		id, err := pathId(c, "id")
		if err != nil {
			return err
		}
		if err := gallery.Delete(c.Request().Context(), id); err != nil {
			return galleryError(err)
		}
		return c.JSON(http.StatusOK, map[string]any{"msg": "gallery item is deleted"})
	}
}
