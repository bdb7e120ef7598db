package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/fishmap/fishmap/pkg/classifier"
	"github.com/fishmap/fishmap/pkg/uploads"
	"github.com/labstack/echo/v4"
)

// modelError is the body of failed classification responses.
type modelError struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

func respondModelError(c echo.Context, code int, msg string) error {
	return c.JSON(code, modelError{Status: "error", Error: msg})
}

// respondClassified writes the model output as it is, or the error in modelError.
func respondClassified(c echo.Context, result classifier.Result, err error) error {
	if err == nil {
		return c.JSONBlob(http.StatusOK, result.Raw)
	}

	c.Logger().Errorf("classification failed: %s", err)
	switch {
	case errors.Is(err, classifier.ErrTimeout):
		return respondModelError(c, http.StatusInternalServerError, "model timeout")
	case errors.Is(err, classifier.ErrMalformedOutput):
		return respondModelError(c, http.StatusInternalServerError, "failed to parse output: "+err.Error())
	case errors.Is(err, classifier.ErrModelFailed):
		msg := "model prediction failed"
		if ferr := new(classifier.FailedError); errors.As(err, &ferr) && ferr.Stderr != "" {
			msg += ": " + ferr.Stderr
		}
		return respondModelError(c, http.StatusInternalServerError, msg)
	case errors.Is(err, context.Canceled):
		return respondModelError(c, http.StatusServiceUnavailable, "request is cancelled")
	default:
		return respondModelError(c, http.StatusInternalServerError, "model prediction failed")
	}
}

type featuresRequest struct {
	Features []float64 `json:"features"`
}

// PredictHandler classifies tabular features.
func PredictHandler(model classifier.Classifier) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := featuresRequest{}
		if err := c.Bind(&req); err != nil || req.Features == nil {
			return respondModelError(c, http.StatusBadRequest, "features array is required")
		}
		result, err := model.ClassifyFeatures(c.Request().Context(), req.Features)
		return respondClassified(c, result, err)
	}
}

// PredictImageHandler classifies the uploaded image `image`.
//
// `confThreshold` form value overrides defaultThreshold.
func PredictImageHandler(model classifier.Classifier, store *uploads.Store, defaultThreshold float64) echo.HandlerFunc {
	return func(c echo.Context) error {
		threshold := defaultThreshold
		if v := c.FormValue("confThreshold"); v != "" {
			t, err := strconv.ParseFloat(v, 64)
			if err != nil || t < 0 || 1 < t {
				return respondModelError(c, http.StatusBadRequest, "confThreshold should be a number in [0, 1]")
			}
			threshold = t
		}

		img, err := receive(c, store, "image", false)
		if err != nil {
			return err
		}
		if img == nil {
			return respondModelError(c, http.StatusBadRequest, "image file is required")
		}
		defer discard(c, store, img)

		result, err := model.ClassifyImage(c.Request().Context(), img.Path, threshold)
		return respondClassified(c, result, err)
	}
}
