package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	apierr "github.com/fishmap/fishmap/pkg/api/errors"
	"github.com/fishmap/fishmap/pkg/auth/session"
	"github.com/fishmap/fishmap/pkg/domain"
	pdb "github.com/fishmap/fishmap/pkg/domain/prediction/db"
	"github.com/fishmap/fishmap/pkg/uploads"
	"github.com/labstack/echo/v4"
)

const latestLimit = 20

// rawJSON turns a form value into JSON. Empty value is nil.
func rawJSON(v string) json.RawMessage {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return json.RawMessage(v)
}

// scanForm reads fields of a scan result common to save-scan and save-to-catalog.
//
// probability is read from the field `probField`.
func scanForm(c echo.Context, probField string) (domain.PredictionParam, error) {
	fishName := strings.TrimSpace(c.FormValue("fish_name"))
	predictedClass := strings.TrimSpace(c.FormValue("predicted_class"))
	prob := strings.TrimSpace(c.FormValue(probField))
	if fishName == "" || predictedClass == "" || prob == "" {
		return domain.PredictionParam{}, apierr.BadRequest(
			fmt.Sprintf("fish_name, predicted_class and %s are required", probField),
		)
	}
	p, err := strconv.ParseFloat(strings.TrimSuffix(prob, "%"), 64)
	if err != nil {
		return domain.PredictionParam{}, apierr.BadRequest(probField + " should be a number")
	}

	return domain.PredictionParam{
		PredictedFishName: fishName,
		Probability:       p,
		Habitat:           c.FormValue("habitat"),
		ConsumptionSafety: c.FormValue("konsumsi"),
		TopPredictions:    rawJSON(c.FormValue("top_predictions")),
		Boxes:             rawJSON(c.FormValue("boxes")),
		Notes:             c.FormValue("notes"),
		PredictionDate:    time.Now(),
	}, nil
}

// attachImage stores the image into the param as a data URI, and archives it with prefix.
func attachImage(c echo.Context, store *uploads.Store, img *uploads.Image, prefix string, param *domain.PredictionParam) error {
	if img == nil {
		return nil
	}
	uri, err := uploads.DataURI(*img)
	if err != nil {
		return apierr.InternalServerError(err)
	}
	param.FishImage = uri

	if path, err := store.Archive(*img, prefix); err != nil {
		c.Logger().Warnf("image %s is not archived: %s", img.Path, err)
	} else {
		param.ImagePath = path
	}
	return nil
}

type scanView struct {
	Id                int             `json:"id"`
	FishName          string          `json:"fish_name"`
	PredictedClass    string          `json:"predicted_class"`
	Confidence        string          `json:"confidence"`
	Habitat           string          `json:"habitat"`
	ConsumptionSafety string          `json:"consumption_safety"`
	PredictionDate    time.Time       `json:"prediction_date"`
	CreatedAt         time.Time       `json:"created_at"`
	Boxes             json.RawMessage `json:"boxes"`
}

// SaveScanHandler stores a scan result of the signed-in user.
//
// `confidence` is in percent.
func SaveScanHandler(predictions pdb.PredictionInterface, store *uploads.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := signedIn(c)
		if err != nil {
			return err
		}
		param, err := scanForm(c, "confidence")
		if err != nil {
			return err
		}
		param.UserId = claims.UserId
		param.Probability /= 100

		img, err := receive(c, store, "image", false)
		if err != nil {
			return err
		}
		defer discard(c, store, img)
		if err := attachImage(c, store, img, "scan_", &param); err != nil {
			return err
		}

		param, err = param.Normalize()
		if err != nil {
			return badInput(err)
		}
		p, err := predictions.Create(c.Request().Context(), param)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, map[string]any{
			"status":  "success",
			"success": true,
			"message": "scan is saved",
			"data": scanView{
				Id:                p.Id,
				FishName:          p.PredictedFishName,
				PredictedClass:    p.PredictedFishName,
				Confidence:        p.Percentage(),
				Habitat:           p.Habitat,
				ConsumptionSafety: p.ConsumptionSafety,
				PredictionDate:    p.PredictionDate,
				CreatedAt:         p.CreatedAt,
				Boxes:             rawOrEmpty(p.Boxes),
			},
		})
	}
}

// latest lists latest predictions, own ones when signed in.
func latest(c echo.Context, predictions pdb.PredictionInterface) ([]domain.Prediction, error) {
	var userId *int
	if claims, ok := session.Claims(c); ok {
		userId = &claims.UserId
	}
	found, err := predictions.Latest(c.Request().Context(), userId, latestLimit)
	if err != nil {
		return nil, apierr.InternalServerError(err)
	}
	return found, nil
}

func GetScansHandler(predictions pdb.PredictionInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		found, err := latest(c, predictions)
		if err != nil {
			return err
		}
		data := make([]PredictionView, 0, len(found))
		for _, p := range found {
			data = append(data, ViewPrediction(p))
		}
		return c.JSON(http.StatusOK, map[string]any{
			"status": "success",
			"data":   data,
			"count":  len(data),
		})
	}
}

type historyFish struct {
	Name           string          `json:"name"`
	PredictedClass string          `json:"predicted_class"`
	Confidence     string          `json:"confidence"`
	Habitat        string          `json:"habitat"`
	Konsumsi       string          `json:"konsumsi"`
	TopPredictions json.RawMessage `json:"top_predictions"`
}

type historyItem struct {
	Id       int         `json:"id"`
	Date     time.Time   `json:"date"`
	Status   string      `json:"status"`
	FishData historyFish `json:"fishData"`
	Image    *string     `json:"image"`
}

// DataIkanHandler lists latest predictions in the form of the scan history page.
func DataIkanHandler(predictions pdb.PredictionInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		found, err := latest(c, predictions)
		if err != nil {
			return err
		}
		data := make([]historyItem, 0, len(found))
		for _, p := range found {
			data = append(data, historyItem{
				Id:     p.Id,
				Date:   p.CreatedAt,
				Status: "completed",
				FishData: historyFish{
					Name:           p.PredictedFishName,
					PredictedClass: p.PredictedFishName,
					Confidence:     fmt.Sprintf("%.1f%%", p.Probability*100),
					Habitat:        p.Habitat,
					Konsumsi:       p.ConsumptionSafety,
					TopPredictions: rawOrEmpty(p.TopPredictions),
				},
				Image: nonEmpty(p.FishImage),
			})
		}
		return c.JSON(http.StatusOK, map[string]any{"status": "success", "data": data})
	}
}
