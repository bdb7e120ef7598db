package handlers

import (
	"encoding/json"
	"time"

	"github.com/fishmap/fishmap/pkg/domain"
)

const dateLayout = "2006-01-02"

type UserView struct {
	Id       int     `json:"id"`
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Phone    string  `json:"phone"`
	Gender   string  `json:"gender"`
	Birthday *string `json:"birthday"`
	Role     string  `json:"role"`

	IsVerified       bool `json:"is_verified"`
	IsEmailVerified  bool `json:"is_email_verified"`
	CanAccessCatalog bool `json:"can_access_catalog"`

	CatalogRequestStatus   string     `json:"catalog_request_status"`
	CatalogRequestDate     *time.Time `json:"catalog_request_date"`
	CatalogApprovedDate    *time.Time `json:"catalog_approved_date"`
	CatalogApprovedBy      *int       `json:"catalog_approved_by"`
	CatalogRejectionReason *string    `json:"catalog_rejection_reason"`
	KTPImageURL            *string    `json:"ktp_image_url"`

	CreatedAt time.Time `json:"created_at"`
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func ViewUser(u domain.User) UserView {
	var birthday *string
	if u.Birthday != nil {
		b := u.Birthday.Format(dateLayout)
		birthday = &b
	}
	return UserView{
		Id:       u.Id,
		Name:     u.Name,
		Email:    u.Email,
		Phone:    u.Phone,
		Gender:   string(u.Gender),
		Birthday: birthday,
		Role:     string(u.Role),

		IsVerified:       u.IsVerified,
		IsEmailVerified:  u.IsVerified,
		CanAccessCatalog: u.CanAccessCatalog(),

		CatalogRequestStatus:   string(u.Catalog.Status),
		CatalogRequestDate:     u.Catalog.RequestedAt,
		CatalogApprovedDate:    u.Catalog.ApprovedAt,
		CatalogApprovedBy:      u.Catalog.ApprovedBy,
		CatalogRejectionReason: nonEmpty(u.Catalog.RejectionReason),
		KTPImageURL:            nonEmpty(u.KTPImageURL),

		CreatedAt: u.CreatedAt,
	}
}

type PermissionsView struct {
	ApproveCatalogRequests bool `json:"approve_catalog_requests"`
	ManageUsers            bool `json:"manage_users"`
	ManageAdmins           bool `json:"manage_admins"`
	ViewAnalytics          bool `json:"view_analytics"`
	ModerateContent        bool `json:"moderate_content"`
}

type AdminView struct {
	Id          int             `json:"id"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	Phone       string          `json:"phone"`
	Gender      string          `json:"gender"`
	Role        string          `json:"role"`
	Status      string          `json:"status"`
	Permissions PermissionsView `json:"permissions"`
	LastLogin   *time.Time      `json:"last_login"`
	CreatedBy   *int            `json:"created_by"`
	CreatorName *string         `json:"creator_name"`
	CreatedAt   time.Time       `json:"created_at"`
}

func ViewAdmin(a domain.Admin) AdminView {
	return AdminView{
		Id:     a.Id,
		Name:   a.Name,
		Email:  a.Email,
		Phone:  a.Phone,
		Gender: string(a.Gender),
		Role:   string(a.Role),
		Status: string(a.Status),
		Permissions: PermissionsView{
			ApproveCatalogRequests: a.Permissions.ApproveCatalogRequests,
			ManageUsers:            a.Permissions.ManageUsers,
			ManageAdmins:           a.Permissions.ManageAdmins,
			ViewAnalytics:          a.Permissions.ViewAnalytics,
			ModerateContent:        a.Permissions.ModerateContent,
		},
		LastLogin:   a.LastLogin,
		CreatedBy:   a.CreatedBy,
		CreatorName: nonEmpty(a.CreatorName),
		CreatedAt:   a.CreatedAt,
	}
}

func rawOrEmpty(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage("[]")
	}
	return raw
}

type PredictionView struct {
	Id                int             `json:"id"`
	UserId            int             `json:"user_id"`
	FishName          string          `json:"fish_name"`
	PredictedClass    string          `json:"predicted_class"`
	Probability       float64         `json:"probability"`
	Confidence        string          `json:"confidence"`
	Habitat           string          `json:"habitat"`
	ConsumptionSafety string          `json:"consumption_safety"`
	FishImage         *string         `json:"fish_image"`
	ImagePath         *string         `json:"image_path"`
	TopPredictions    json.RawMessage `json:"top_predictions"`
	Boxes             json.RawMessage `json:"boxes"`
	Notes             string          `json:"notes"`
	PredictionDate    time.Time       `json:"prediction_date"`
	IsInCatalog       bool            `json:"is_in_catalog"`
	CatalogEntryId    *int            `json:"catalog_entry_id"`
	CreatedAt         time.Time       `json:"created_at"`
}

func ViewPrediction(p domain.Prediction) PredictionView {
	return PredictionView{
		Id:                p.Id,
		UserId:            p.UserId,
		FishName:          p.PredictedFishName,
		PredictedClass:    p.PredictedFishName,
		Probability:       p.Probability,
		Confidence:        p.Percentage(),
		Habitat:           p.Habitat,
		ConsumptionSafety: p.ConsumptionSafety,
		FishImage:         nonEmpty(p.FishImage),
		ImagePath:         nonEmpty(p.ImagePath),
		TopPredictions:    rawOrEmpty(p.TopPredictions),
		Boxes:             rawOrEmpty(p.Boxes),
		Notes:             p.Notes,
		PredictionDate:    p.PredictionDate,
		IsInCatalog:       p.InCatalog(),
		CatalogEntryId:    p.CatalogEntryId,
		CreatedAt:         p.CreatedAt,
	}
}

type CatalogEntryView struct {
	Id                int       `json:"id"`
	PredictionId      int       `json:"prediction_id"`
	UserId            int       `json:"user_id"`
	UserName          string    `json:"user_name"`
	NamaIkan          string    `json:"nama_ikan"`
	Kategori          string    `json:"kategori"`
	DeskripsiTambahan string    `json:"deskripsi_tambahan"`
	TanggalDitemukan  *string   `json:"tanggal_ditemukan"`
	LokasiPenangkapan string    `json:"lokasi_penangkapan"`
	KondisiIkan       string    `json:"kondisi_ikan"`
	TingkatKeamanan   float64   `json:"tingkat_keamanan"`
	AmanDikonsumsi    bool      `json:"aman_dikonsumsi"`
	JauhDariPabrik    bool      `json:"jauh_dari_pabrik"`
	CreatedAt         time.Time `json:"created_at"`

	PredictedFishName string          `json:"predicted_fish_name"`
	Probability       string          `json:"probability"`
	Habitat           string          `json:"habitat"`
	ConsumptionSafety string          `json:"consumption_safety"`
	FishImage         *string         `json:"fish_image"`
	Boxes             json.RawMessage `json:"boxes"`
}

func ViewCatalogEntry(e domain.CatalogEntry) CatalogEntryView {
	var found *string
	if e.TanggalDitemukan != nil {
		f := e.TanggalDitemukan.Format(dateLayout)
		found = &f
	}
	return CatalogEntryView{
		Id:                e.Id,
		PredictionId:      e.PredictionId,
		UserId:            e.UserId,
		UserName:          e.UserName,
		NamaIkan:          e.NamaIkan,
		Kategori:          string(e.Kategori),
		DeskripsiTambahan: e.DeskripsiTambahan,
		TanggalDitemukan:  found,
		LokasiPenangkapan: e.LokasiPenangkapan,
		KondisiIkan:       string(e.KondisiIkan),
		TingkatKeamanan:   e.TingkatKeamanan,
		AmanDikonsumsi:    e.AmanDikonsumsi,
		JauhDariPabrik:    e.JauhDariPabrik,
		CreatedAt:         e.CreatedAt,

		PredictedFishName: e.Prediction.PredictedFishName,
		Probability:       e.Prediction.Percentage(),
		Habitat:           e.Prediction.Habitat,
		ConsumptionSafety: e.Prediction.ConsumptionSafety,
		FishImage:         nonEmpty(e.Prediction.FishImage),
		Boxes:             rawOrEmpty(e.Prediction.Boxes),
	}
}

type GalleryView struct {
	Id          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	Location    string    `json:"location"`
	CreatedBy   *int      `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func ViewGallery(g domain.GalleryItem) GalleryView {
	return GalleryView{
		Id:          g.Id,
		Title:       g.Title,
		Description: g.Description,
		ImageURL:    g.ImageURL,
		Location:    g.Location,
		CreatedBy:   g.CreatedBy,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}
