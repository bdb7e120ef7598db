package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	apierr "github.com/fishmap/fishmap/pkg/api/errors"
	"github.com/fishmap/fishmap/pkg/auth/session"
	"github.com/fishmap/fishmap/pkg/domain"
	adb "github.com/fishmap/fishmap/pkg/domain/admin/db"
	cdb "github.com/fishmap/fishmap/pkg/domain/catalog/db"
	domerr "github.com/fishmap/fishmap/pkg/domain/errors"
	pdb "github.com/fishmap/fishmap/pkg/domain/prediction/db"
	udb "github.com/fishmap/fishmap/pkg/domain/user/db"
	"github.com/fishmap/fishmap/pkg/mailer"
	"github.com/fishmap/fishmap/pkg/uploads"
	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"
)

const (
	catalogRequestSubmittedCookie = "catalogRequestSubmitted"
	adminApprovalStatusCookie     = "adminApprovalStatus"

	catalogFlagsMaxAge = 7 * 24 * time.Hour
)

type catalogStatus struct {
	CanAccessCatalog bool       `json:"can_access_catalog"`
	Role             string     `json:"role"`
	RequestStatus    string     `json:"request_status"`
	RequestDate      *time.Time `json:"request_date"`
	ApprovedDate     *time.Time `json:"approved_date"`
	RejectionReason  *string    `json:"rejection_reason"`
	IsEmailVerified  bool       `json:"is_email_verified"`
	IsVerified       bool       `json:"is_verified"`
	UserInfo         struct {
		Id    int    `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"user_info"`
}

func catalogStatusOf(u domain.User) catalogStatus {
	st := catalogStatus{
		CanAccessCatalog: u.CanAccessCatalog(),
		Role:             string(u.Role),
		RequestStatus:    string(u.Catalog.Status),
		RequestDate:      u.Catalog.RequestedAt,
		ApprovedDate:     u.Catalog.ApprovedAt,
		RejectionReason:  nonEmpty(u.Catalog.RejectionReason),
		IsEmailVerified:  u.IsVerified,
		IsVerified:       u.IsVerified,
	}
	st.UserInfo.Id = u.Id
	st.UserInfo.Name = u.Name
	st.UserInfo.Email = u.Email
	return st
}

// RequestCatalogAccessHandler moves the catalog request of the signed-in user to pending.
func RequestCatalogAccessHandler(users udb.UserInterface, mail mailer.Mailer) echo.HandlerFunc {
	return func(c echo.Context) error {
		u, err := currentUser(c, users)
		if err != nil {
			return err
		}
		if err := u.CheckCatalogRequest(); err != nil {
			return catalogRequestRefused(u, err)
		}

		ctx := c.Request().Context()
		u, err = users.RequestCatalogAccess(ctx, u.Id, time.Now())
		if errors.Is(err, domerr.ErrInvalidState) {
			return apierr.BadRequest("catalog access request is already made", apierr.WithError(err))
		} else if err != nil {
			return apierr.InternalServerError(err)
		}

		if err := mail.SendCatalogReview(ctx, recipient(u)); err != nil {
			c.Logger().Warnf("review notification to user %d is not sent: %s", u.Id, err)
		}

		return c.JSON(http.StatusOK, map[string]any{
			"msg": "catalog access is requested. it will be reviewed in 1-3 business days.",
			"data": map[string]any{
				"request_status": u.Catalog.Status,
				"request_date":   u.Catalog.RequestedAt,
			},
		})
	}
}

func catalogRequestRefused(u domain.User, err error) error {
	switch {
	case !u.IsVerified:
		return apierr.BadRequest(
			"email is not verified", apierr.WithAdvice("verify email before requesting catalog access."),
		)
	case u.CanAccessCatalog():
		return apierr.BadRequest("catalog access is already granted")
	case u.Catalog.Status == domain.CatalogRequestPending:
		return apierr.BadRequest("catalog access request is under review")
	case u.Catalog.Status == domain.CatalogRequestRejected:
		return apierr.BadRequest(
			"catalog access request is rejected: "+u.Catalog.RejectionReason,
			apierr.WithAdvice("contact an admin for details."),
		)
	default:
		return badInput(err)
	}
}

// CatalogStatusHandler shows the catalog access status of the signed-in user.
func CatalogStatusHandler(users udb.UserInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		u, err := currentUser(c, users)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, map[string]any{
			"msg":  "catalog access status",
			"data": catalogStatusOf(u),
		})
	}
}

type catalogFlags struct {
	CatalogRequestSubmitted *bool   `json:"catalogRequestSubmitted"`
	AdminApprovalStatus     *string `json:"adminApprovalStatus"`
}

// GetCatalogFlagsHandler reads UI flags of the catalog request kept in cookies.
func GetCatalogFlagsHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		submitted := session.Cookie(c, catalogRequestSubmittedCookie) == "true"
		approval := session.Cookie(c, adminApprovalStatusCookie)
		if approval == "" {
			approval = string(domain.CatalogRequestPending)
		}
		return c.JSON(http.StatusOK, map[string]any{
			"status": "success",
			"data":   catalogFlags{CatalogRequestSubmitted: &submitted, AdminApprovalStatus: &approval},
		})
	}
}

// SetCatalogFlagsHandler stores UI flags given in the body into cookies. Absent flags are kept.
func SetCatalogFlagsHandler(jar session.Jar) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := catalogFlags{}
		if err := bind(c, &req); err != nil {
			return err
		}
		if req.CatalogRequestSubmitted != nil {
			jar.SetFlag(
				c, catalogRequestSubmittedCookie,
				strconv.FormatBool(*req.CatalogRequestSubmitted), catalogFlagsMaxAge,
			)
		}
		if req.AdminApprovalStatus != nil {
			if _, err := domain.AsCatalogRequestStatus(*req.AdminApprovalStatus); err != nil {
				return badInput(err)
			}
			jar.SetFlag(c, adminApprovalStatusCookie, *req.AdminApprovalStatus, catalogFlagsMaxAge)
		}
		return c.JSON(http.StatusOK, map[string]any{
			"status": "success",
			"msg":    "catalog status is saved",
			"data":   req,
		})
	}
}

func ClearCatalogFlagsHandler(jar session.Jar) echo.HandlerFunc {
	return func(c echo.Context) error {
		jar.Clear(c, catalogRequestSubmittedCookie)
		jar.Clear(c, adminApprovalStatusCookie)
		return c.JSON(http.StatusOK, map[string]any{
			"status": "success",
			"msg":    "catalog status is cleared",
		})
	}
}

// UploadKTPHandler stores the identity card image `ktp` of the signed-in user.
func UploadKTPHandler(users udb.UserInterface, store *uploads.Store, baseURL string) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := signedIn(c)
		if err != nil {
			return err
		}
		img, err := receive(c, store, "ktp", true)
		if err != nil {
			return err
		}

		u, err := users.SetKTP(c.Request().Context(), claims.UserId, img.Path, uploads.URL(baseURL, *img))
		if err != nil {
			discard(c, store, img)
			if errors.Is(err, domerr.ErrMissing) {
				return apierr.NotFound("user not found")
			}
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, map[string]any{
			"msg":    "KTP is uploaded",
			"ktpUrl": u.KTPImageURL,
		})
	}
}

// contributor loads the signed-in user, who should be allowed to add catalog entries.
func contributor(c echo.Context, users udb.UserInterface) (domain.User, error) {
	u, err := currentUser(c, users)
	if err != nil {
		return u, err
	}
	if !u.CanAccessCatalog() {
		return u, apierr.Forbidden(
			"catalog access is not granted",
			apierr.WithAdvice("request catalog access and wait for approval."),
		)
	}
	return u, nil
}

func asKategori(s string) (domain.Kategori, error) {
	switch k := domain.Kategori(strings.TrimSpace(s)); k {
	case "", domain.KategoriKonsumsi, domain.KategoriHias:
		return k, nil
	default:
		return "", fmt.Errorf(
			"%w: kategori should be %q or %q: %s", domerr.ErrBadInput,
			domain.KategoriKonsumsi, domain.KategoriHias, s,
		)
	}
}

func asDate(field string, s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %s should be YYYY-MM-DD", domerr.ErrBadInput, field)
	}
	return &t, nil
}

type savePredictionRequest struct {
	PredictionId      int      `json:"predictionId"`
	NamaIkan          string   `json:"namaIkan"`
	Kategori          string   `json:"kategori"`
	DeskripsiTambahan string   `json:"deskripsiTambahan"`
	TanggalDitemukan  string   `json:"tanggalDitemukan"`
	LokasiPenangkapan string   `json:"lokasiPenangkapan"`
	KondisiIkan       string   `json:"kondisiIkan"`
	TingkatKeamanan   *float64 `json:"tingkatKeamanan"`
	AmanDikonsumsi    *bool    `json:"amanDikonsumsi"`
	JauhDariPabrik    *bool    `json:"jauhDariPabrik"`
}

func (req savePredictionRequest) param(userId int) (domain.CatalogParam, error) {
	kategori, err := asKategori(req.Kategori)
	if err != nil {
		return domain.CatalogParam{}, err
	}
	kondisi, err := domain.AsKondisi(req.KondisiIkan)
	if err != nil {
		return domain.CatalogParam{}, err
	}
	found, err := asDate("tanggalDitemukan", req.TanggalDitemukan)
	if err != nil {
		return domain.CatalogParam{}, err
	}
	return domain.CatalogParam{
		PredictionId:      req.PredictionId,
		UserId:            userId,
		NamaIkan:          strings.TrimSpace(req.NamaIkan),
		Kategori:          kategori,
		DeskripsiTambahan: req.DeskripsiTambahan,
		TanggalDitemukan:  found,
		LokasiPenangkapan: req.LokasiPenangkapan,
		KondisiIkan:       kondisi,
		TingkatKeamanan:   req.TingkatKeamanan,
		AmanDikonsumsi:    req.AmanDikonsumsi,
		JauhDariPabrik:    req.JauhDariPabrik,
	}, nil
}

// SavePredictionHandler promotes a prediction of the signed-in contributor into the catalog.
func SavePredictionHandler(users udb.UserInterface, catalog cdb.CatalogInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		u, err := contributor(c, users)
		if err != nil {
			return err
		}
		req := savePredictionRequest{}
		if err := bind(c, &req); err != nil {
			return err
		}
		if req.PredictionId <= 0 {
			return apierr.BadRequest("predictionId is required")
		}
		param, err := req.param(u.Id)
		if err != nil {
			return badInput(err)
		}

		entry, err := catalog.Promote(c.Request().Context(), param)
		if errors.Is(err, domerr.ErrMissing) {
			return apierr.NotFound("prediction is not found or not yours")
		} else if err != nil {
			return badInput(err)
		}

		return c.JSON(http.StatusOK, map[string]any{
			"msg":  "prediction is saved to the catalog",
			"data": ViewCatalogEntry(entry),
		})
	}
}

// catalogForm reads catalog fields of save-to-catalog.
func catalogForm(c echo.Context, userId int) (domain.CatalogParam, error) {
	kondisi, err := domain.AsKondisi(c.FormValue("kondisi_ikan"))
	if err != nil {
		return domain.CatalogParam{}, err
	}
	found, err := asDate("tanggal_ditemukan", c.FormValue("tanggal_ditemukan"))
	if err != nil {
		return domain.CatalogParam{}, err
	}
	param := domain.CatalogParam{
		UserId:            userId,
		NamaIkan:          strings.TrimSpace(c.FormValue("fish_name")),
		DeskripsiTambahan: c.FormValue("deskripsi_tambahan"),
		TanggalDitemukan:  found,
		LokasiPenangkapan: c.FormValue("lokasi_penangkapan"),
		KondisiIkan:       kondisi,
	}
	if v := c.FormValue("jauh_dari_pabrik"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return domain.CatalogParam{}, fmt.Errorf("%w: jauh_dari_pabrik should be a boolean", domerr.ErrBadInput)
		}
		param.JauhDariPabrik = &b
	}
	return param, nil
}

// asFraction reads probability given as a fraction in [0, 1], or a percent in (1, 100].
func asFraction(p float64) float64 {
	if 1 < p && p <= 100 {
		return p / 100
	}
	return p
}

// SaveToCatalogHandler stores a scan result and its catalog entry at once.
func SaveToCatalogHandler(users udb.UserInterface, catalog cdb.CatalogInterface, store *uploads.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		u, err := contributor(c, users)
		if err != nil {
			return err
		}
		prediction, err := scanForm(c, "probability")
		if err != nil {
			return err
		}
		prediction.UserId = u.Id
		prediction.Probability = asFraction(prediction.Probability)

		param, err := catalogForm(c, u.Id)
		if err != nil {
			return badInput(err)
		}

		img, err := receive(c, store, "image", false)
		if err != nil {
			return err
		}
		defer discard(c, store, img)
		if err := attachImage(c, store, img, fmt.Sprintf("catalog_%d_", u.Id), &prediction); err != nil {
			return err
		}

		prediction, err = prediction.Normalize()
		if err != nil {
			return badInput(err)
		}
		entry, err := catalog.CreateWithPrediction(c.Request().Context(), prediction, param)
		if err != nil {
			return badInput(err)
		}
		entry.UserName = u.Name

		return c.JSON(http.StatusOK, map[string]any{
			"status":  "success",
			"success": true,
			"message": "added to the catalog by " + u.Name,
			"data":    ViewCatalogEntry(entry),
		})
	}
}

// CatalogEntriesHandler queries the catalog.
//
// With `my_data_only=true`, only entries of the signed-in user are listed.
// Anonymous requests for them get an empty list.
func CatalogEntriesHandler(catalog cdb.CatalogInterface, predictions pdb.PredictionInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, err := paging(c, 50, 100)
		if err != nil {
			return err
		}
		kategori, err := asKategori(c.QueryParam("kategori"))
		if err != nil {
			return badInput(err)
		}
		query := domain.CatalogQuery{
			Kategori: kategori,
			Lokasi:   strings.TrimSpace(c.QueryParam("lokasi")),
			Search:   strings.TrimSpace(c.QueryParam("search")),
			Limit:    p.Limit,
			Offset:   p.Offset(),
		}

		claims, signedIn := session.Claims(c)
		myDataOnly := isTrue(c.QueryParam("my_data_only"))
		if myDataOnly {
			if !signedIn {
				return c.JSON(http.StatusOK, map[string]any{
					"msg":        "sign in to see your own entries",
					"data":       []CatalogEntryView{},
					"pagination": p.Of(0),
					"info": map[string]any{
						"requires_login": true,
					},
				})
			}
			query.UserId = &claims.UserId
		}

		ctx := c.Request().Context()
		var entries []domain.CatalogEntry
		var total, inDatabase, inCatalog int
		eg, gctx := errgroup.WithContext(ctx)
		eg.Go(func() (err error) {
			entries, total, err = catalog.Find(gctx, query)
			return err
		})
		eg.Go(func() (err error) {
			inDatabase, err = predictions.Count(gctx, false)
			return err
		})
		eg.Go(func() (err error) {
			inCatalog, err = catalog.Count(gctx)
			return err
		})
		if err := eg.Wait(); err != nil {
			return apierr.InternalServerError(err)
		}

		data := make([]CatalogEntryView, 0, len(entries))
		for _, e := range entries {
			data = append(data, ViewCatalogEntry(e))
		}

		filterInfo := map[string]any{
			"is_personal_data":   myDataOnly,
			"authenticated_user": nil,
			"user_name":          nil,
			"total_in_database":  inDatabase,
			"total_in_catalog":   inCatalog,
		}
		if signedIn {
			filterInfo["authenticated_user"] = claims.UserId
			filterInfo["user_name"] = claims.Name
		}
		return c.JSON(http.StatusOK, map[string]any{
			"msg":         "catalog entries",
			"data":        data,
			"pagination":  p.Of(total),
			"filter_info": filterInfo,
		})
	}
}

// GetCatalogHandler lists latest catalog entries, own ones when signed in.
func GetCatalogHandler(catalog cdb.CatalogInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		query := domain.CatalogQuery{Limit: latestLimit}
		if claims, ok := session.Claims(c); ok {
			query.UserId = &claims.UserId
		}
		entries, _, err := catalog.Find(c.Request().Context(), query)
		if err != nil {
			return apierr.InternalServerError(err)
		}
		data := make([]CatalogEntryView, 0, len(entries))
		for _, e := range entries {
			data = append(data, ViewCatalogEntry(e))
		}
		return c.JSON(http.StatusOK, map[string]any{
			"status": "success",
			"data":   data,
			"count":  len(data),
		})
	}
}

// moderator loads the signed-in admin, who should be able to decide catalog requests.
func moderator(c echo.Context, admins adb.AdminInterface) (domain.Admin, error) {
	a, err := currentAdmin(c, admins)
	if err != nil {
		return a, err
	}
	if !a.CanApproveCatalogRequests() {
		return a, apierr.Forbidden("admin is not allowed to review catalog requests")
	}
	return a, nil
}

type pendingRequest struct {
	Id           int        `json:"id"`
	Nama         string     `json:"nama"`
	Email        string     `json:"email"`
	Telepon      string     `json:"telepon"`
	Gender       string     `json:"gender"`
	Status       string     `json:"status"`
	RequestDate  *time.Time `json:"tanggalDaftar"`
	RegisteredAt time.Time  `json:"tanggalRegistrasi"`
	DaysWaiting  int        `json:"daysWaiting"`
	FotoKTP      *string    `json:"fotoKtp"`
	KTPPath      *string    `json:"ktpPath"`
}

func PendingRequestsHandler(admins adb.AdminInterface, users udb.UserInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := moderator(c, admins); err != nil {
			return err
		}
		found, err := users.FindByCatalogStatus(c.Request().Context(), domain.CatalogRequestPending)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		now := time.Now()
		data := make([]pendingRequest, 0, len(found))
		for _, u := range found {
			days := 0
			if u.Catalog.RequestedAt != nil {
				days = int(now.Sub(*u.Catalog.RequestedAt) / (24 * time.Hour))
			}
			data = append(data, pendingRequest{
				Id:           u.Id,
				Nama:         u.Name,
				Email:        u.Email,
				Telepon:      u.Phone,
				Gender:       string(u.Gender),
				Status:       string(u.Catalog.Status),
				RequestDate:  u.Catalog.RequestedAt,
				RegisteredAt: u.CreatedAt,
				DaysWaiting:  days,
				FotoKTP:      nonEmpty(u.KTPImageURL),
				KTPPath:      nonEmpty(u.KTPImagePath),
			})
		}
		return c.JSON(http.StatusOK, map[string]any{
			"msg":   "pending catalog requests",
			"data":  data,
			"total": len(data),
		})
	}
}

// decide applies the decision of the admin to the catalog request of the user, and notifies the user.
func decide(c echo.Context, users udb.UserInterface, mail mailer.Mailer, admin domain.Admin, userId int, approve bool, reason string) error {
	decision := domain.CatalogDecision{
		Approve: approve, AdminId: admin.Id, At: time.Now(), Reason: strings.TrimSpace(reason),
	}
	if err := decision.Validate(); err != nil {
		return badInput(err)
	}

	ctx := c.Request().Context()
	u, err := users.DecideCatalogRequest(ctx, userId, decision)
	if errors.Is(err, domerr.ErrMissing) {
		return apierr.NotFound("user not found")
	} else if errors.Is(err, domerr.ErrInvalidState) {
		return apierr.BadRequest("user has no pending catalog request", apierr.WithError(err))
	} else if err != nil {
		return apierr.InternalServerError(err)
	}

	data := map[string]any{
		"user_id":    u.Id,
		"user_name":  u.Name,
		"user_email": u.Email,
	}
	var notify error
	var msg string
	if approve {
		notify = mail.SendCatalogApproved(ctx, recipient(u))
		msg = "catalog access of " + u.Name + " is approved"
		data["new_role"] = u.Role
		data["approved_by"] = admin.Name
		data["approved_date"] = u.Catalog.ApprovedAt
	} else {
		notify = mail.SendCatalogRejected(ctx, recipient(u), decision.Reason)
		msg = "catalog access of " + u.Name + " is rejected"
		data["rejection_reason"] = decision.Reason
		data["rejected_by"] = admin.Name
		data["rejected_date"] = decision.At
	}
	if notify != nil {
		c.Logger().Warnf("decision notification to user %d is not sent: %s", u.Id, notify)
	}
	data["email_sent"] = notify == nil

	return c.JSON(http.StatusOK, map[string]any{"msg": msg, "data": data})
}

type rejectRequest struct {
	RejectionReason string `json:"rejection_reason" form:"rejection_reason"`
}

func ApproveRequestHandler(admins adb.AdminInterface, users udb.UserInterface, mail mailer.Mailer) echo.HandlerFunc {
	return func(c echo.Context) error {
		a, err := moderator(c, admins)
		if err != nil {
			return err
		}
		userId, err := pathId(c, "userId")
		if err != nil {
			return err
		}
		return decide(c, users, mail, a, userId, true, "")
	}
}

func RejectRequestHandler(admins adb.AdminInterface, users udb.UserInterface, mail mailer.Mailer) echo.HandlerFunc {
	return func(c echo.Context) error {
		a, err := moderator(c, admins)
		if err != nil {
			return err
		}
		userId, err := pathId(c, "userId")
		if err != nil {
			return err
		}
		req := rejectRequest{}
		if err := bind(c, &req); err != nil {
			return err
		}
		if strings.TrimSpace(req.RejectionReason) == "" {
			return apierr.BadRequest("rejection_reason is required")
		}
		return decide(c, users, mail, a, userId, false, req.RejectionReason)
	}
}

func CatalogStatisticsHandler(
	admins adb.AdminInterface,
	users udb.UserInterface,
	predictions pdb.PredictionInterface,
	catalog cdb.CatalogInterface,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := moderator(c, admins); err != nil {
			return err
		}

		var (
			totalUsers, contributors, recent int
			pending, approved, rejected      int
			totalEntries, totalPredictions   int
		)
		weekAgo := time.Now().AddDate(0, 0, -7)

		eg, ctx := errgroup.WithContext(c.Request().Context())
		countUsers := func(dest *int, filter domain.UserCountFilter) {
			eg.Go(func() (err error) {
				*dest, err = users.Count(ctx, filter)
				return err
			})
		}
		countUsers(&totalUsers, domain.UserCountFilter{})
		countUsers(&contributors, domain.UserCountFilter{Role: domain.RoleContributor})
		countUsers(&recent, domain.UserCountFilter{RequestedSince: &weekAgo})
		countUsers(&pending, domain.UserCountFilter{CatalogStatus: domain.CatalogRequestPending})
		countUsers(&approved, domain.UserCountFilter{CatalogStatus: domain.CatalogRequestApproved})
		countUsers(&rejected, domain.UserCountFilter{CatalogStatus: domain.CatalogRequestRejected})
		eg.Go(func() (err error) {
			totalEntries, err = catalog.Count(ctx)
			return err
		})
		eg.Go(func() (err error) {
			totalPredictions, err = predictions.Count(ctx, false)
			return err
		})
		if err := eg.Wait(); err != nil {
			return apierr.InternalServerError(err)
		}

		conversion := "0%"
		if 0 < totalPredictions {
			conversion = fmt.Sprintf("%.2f%%", float64(totalEntries)/float64(totalPredictions)*100)
		}

		return c.JSON(http.StatusOK, map[string]any{
			"msg": "catalog statistics",
			"data": map[string]any{
				"users": map[string]any{
					"total":           totalUsers,
					"contributors":    contributors,
					"recent_requests": recent,
				},
				"requests": map[string]any{
					"pending":  pending,
					"approved": approved,
					"rejected": rejected,
					"total":    pending + approved + rejected,
				},
				"catalog": map[string]any{
					"total_entries":     totalEntries,
					"total_predictions": totalPredictions,
					"conversion_rate":   conversion,
				},
			},
		})
	}
}
