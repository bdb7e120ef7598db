package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	domerr "github.com/fishmap/fishmap/pkg/domain/errors"
)

// placeholder for habitat and consumption safety the model did not tell.
const Unknown = "Tidak diketahui"

// Prediction is a stored result of one classification.
type Prediction struct {
	Id     int
	UserId int

	PredictedFishName string

	// 0.0 - 1.0
	Probability float64

	Habitat           string
	ConsumptionSafety string

	// image as data URI (data:<mime>;base64,...). may be empty.
	FishImage string

	// archived copy of the image. may be empty.
	ImagePath string

	// raw JSON given by the model (array). nil when not given.
	TopPredictions json.RawMessage
	Boxes          json.RawMessage

	Notes          string
	PredictionDate time.Time

	// catalog entry made from this prediction, if any.
	CatalogEntryId *int

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p Prediction) InCatalog() bool {
	return p.CatalogEntryId != nil
}

// Percentage is Probability in percent, like "87.25%".
func (p Prediction) Percentage() string {
	return fmt.Sprintf("%.2f%%", p.Probability*100)
}

type PredictionParam struct {
	UserId            int
	PredictedFishName string
	Probability       float64
	Habitat           string
	ConsumptionSafety string
	FishImage         string
	ImagePath         string
	TopPredictions    json.RawMessage
	Boxes             json.RawMessage
	Notes             string
	PredictionDate    time.Time
}

// Normalize fills defaults and validates.
func (p PredictionParam) Normalize() (PredictionParam, error) {
	p.PredictedFishName = strings.TrimSpace(p.PredictedFishName)
	if p.PredictedFishName == "" {
		return p, fmt.Errorf("%w: predicted fish name is required", domerr.ErrBadInput)
	}
	if p.Probability < 0 || 1 < p.Probability {
		return p, fmt.Errorf("%w: probability should be in [0, 1]: %f", domerr.ErrBadInput, p.Probability)
	}
	if strings.TrimSpace(p.Habitat) == "" {
		p.Habitat = Unknown
	}
	if strings.TrimSpace(p.ConsumptionSafety) == "" {
		p.ConsumptionSafety = Unknown
	}
	for name, raw := range map[string]json.RawMessage{
		"top_predictions": p.TopPredictions, "boxes": p.Boxes,
	} {
		if len(raw) != 0 && !json.Valid(raw) {
			return p, fmt.Errorf("%w: %s is not valid JSON", domerr.ErrBadInput, name)
		}
	}
	if p.PredictionDate.IsZero() {
		p.PredictionDate = time.Now()
	}
	return p, nil
}

// PredictionQuery is a query for predictions of a user.
type PredictionQuery struct {
	UserId        int
	InCatalogOnly bool
	Limit         int
	Offset        int
}
