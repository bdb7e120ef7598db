package domain

import (
	"fmt"
	"strings"
	"time"

	domerr "github.com/fishmap/fishmap/pkg/domain/errors"
)

type Kategori string

const (
	KategoriKonsumsi Kategori = "Ikan Konsumsi"
	KategoriHias     Kategori = "Ikan Hias"
)

type Kondisi string

const (
	KondisiHidup Kondisi = "hidup"
	KondisiMati  Kondisi = "mati"
)

func AsKondisi(s string) (Kondisi, error) {
	switch k := Kondisi(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return KondisiMati, nil
	case KondisiHidup, KondisiMati:
		return k, nil
	default:
		return "", fmt.Errorf("%w: kondisi should be hidup or mati: %s", domerr.ErrBadInput, s)
	}
}

const DefaultTingkatKeamanan = 0.98

// IsConsumable tells consumption safety text says the fish is edible.
//
// Empty text is treated as edible. Unknown safety is not.
func IsConsumable(consumptionSafety string) bool {
	s := strings.ToLower(strings.TrimSpace(consumptionSafety))
	if s == "" {
		return true
	}
	for _, word := range []string{"aman", "konsumsi", "dimakan"} {
		if strings.Contains(s, word) {
			return true
		}
	}
	return false
}

// KategoriOf derives kategori from consumption safety text.
func KategoriOf(consumptionSafety string) Kategori {
	if IsConsumable(consumptionSafety) {
		return KategoriKonsumsi
	}
	return KategoriHias
}

// CatalogEntry is a prediction published in the catalog.
type CatalogEntry struct {
	Id           int
	PredictionId int
	UserId       int

	NamaIkan          string
	Kategori          Kategori
	DeskripsiTambahan string
	TanggalDitemukan  *time.Time
	LokasiPenangkapan string
	KondisiIkan       Kondisi
	TingkatKeamanan   float64
	AmanDikonsumsi    bool
	JauhDariPabrik    bool

	// the prediction this entry is made of.
	Prediction Prediction

	// name of the contributor.
	UserName string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CatalogParam is parameter to promote a prediction into the catalog.
//
// Zero values are filled with defaults by Normalize.
type CatalogParam struct {
	PredictionId int
	UserId       int

	NamaIkan          string
	Kategori          Kategori
	DeskripsiTambahan string
	TanggalDitemukan  *time.Time
	LokasiPenangkapan string
	KondisiIkan       Kondisi
	TingkatKeamanan   *float64
	AmanDikonsumsi    *bool
	JauhDariPabrik    *bool
}

// Normalize fills defaults which come from the prediction, and validates.
func (c CatalogParam) Normalize(p Prediction) (CatalogParam, error) {
	if strings.TrimSpace(c.NamaIkan) == "" {
		c.NamaIkan = p.PredictedFishName
	}
	if c.Kategori == "" {
		c.Kategori = KategoriOf(p.ConsumptionSafety)
	}
	if c.KondisiIkan == "" {
		c.KondisiIkan = KondisiMati
	}
	if c.TingkatKeamanan == nil {
		v := DefaultTingkatKeamanan
		c.TingkatKeamanan = &v
	} else if *c.TingkatKeamanan < 0 || 1 < *c.TingkatKeamanan {
		return c, fmt.Errorf(
			"%w: tingkat keamanan should be in [0, 1]: %f", domerr.ErrBadInput, *c.TingkatKeamanan,
		)
	}
	if c.AmanDikonsumsi == nil {
		v := IsConsumable(p.ConsumptionSafety)
		c.AmanDikonsumsi = &v
	}
	if c.JauhDariPabrik == nil {
		v := true
		c.JauhDariPabrik = &v
	}
	return c, nil
}

// CatalogQuery is a query for catalog entries.
type CatalogQuery struct {
	Kategori Kategori

	// partial match, case insensitive
	Lokasi string

	// partial match over nama ikan, predicted name and description
	Search string

	// only entries of this user, if not nil
	UserId *int

	Limit  int
	Offset int
}
