package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/fishmap/fishmap/cmd/fishmapd/handlers"
	httptestutil "github.com/fishmap/fishmap/internal/testutils/http"
	"github.com/fishmap/fishmap/pkg/auth/session"
	"github.com/fishmap/fishmap/pkg/domain"
	amocks "github.com/fishmap/fishmap/pkg/domain/admin/db/mock"
	cmocks "github.com/fishmap/fishmap/pkg/domain/catalog/db/mock"
	domerr "github.com/fishmap/fishmap/pkg/domain/errors"
	"github.com/fishmap/fishmap/pkg/domain/errors/dberrors/postgres"
	pmocks "github.com/fishmap/fishmap/pkg/domain/prediction/db/mock"
	umocks "github.com/fishmap/fishmap/pkg/domain/user/db/mock"
	mmocks "github.com/fishmap/fishmap/pkg/mailer/mock"
	"github.com/labstack/echo/v4"
)

func TestRequestCatalogAccessHandler(t *testing.T) {
	type Then struct {
		status    int
		requested bool
	}

	theory := func(user domain.User, then Then) func(*testing.T) {
		return func(t *testing.T) {
			users := umocks.NewUserInterface()
			users.Impl.Get = func(context.Context, int) (domain.User, error) { return user, nil }
			users.Impl.RequestCatalogAccess = func(_ context.Context, id int, at time.Time) (domain.User, error) {
				u := user
				u.Catalog = domain.CatalogRequest{Status: domain.CatalogRequestPending, RequestedAt: &at}
				return u, nil
			}
			mail := mmocks.New()

			e := echo.New()
			c, resp := httptestutil.Post(e, "/users/request-catalog-access", nil)
			err := handlers.RequestCatalogAccessHandler(users, mail)(withUser(c, user.Id))
			if got := statusOf(err); got != then.status {
				t.Fatalf("status: want %d, got %d (%v)", then.status, got, err)
			}
			if then.requested != (users.Calls.RequestCatalogAccess.Times() == 1) {
				t.Fatalf("RequestCatalogAccess is called %d times", users.Calls.RequestCatalogAccess.Times())
			}
			if !then.requested {
				return
			}
			if len(mail.Of("catalog-review")) != 1 {
				t.Error("review mail is not sent")
			}
			data, _ := body(t, resp)["data"].(map[string]any)
			if data["request_status"] != "pending" {
				t.Errorf("unexpected data: %v", data)
			}
		}
	}

	base := domain.User{
		Id: 3, Name: "Sari", Email: "sari@example.com", IsVerified: true, Role: domain.RoleUser,
		Catalog: domain.CatalogRequest{Status: domain.CatalogRequestNone},
	}
	with := func(f func(*domain.User)) domain.User {
		u := base
		f(&u)
		return u
	}

	t.Run("verified user without request can request", theory(
		base, Then{status: http.StatusOK, requested: true},
	))
	t.Run("unverified user can not request", theory(
		with(func(u *domain.User) { u.IsVerified = false }),
		Then{status: http.StatusBadRequest},
	))
	t.Run("pending request can not be made again", theory(
		with(func(u *domain.User) { u.Catalog.Status = domain.CatalogRequestPending }),
		Then{status: http.StatusBadRequest},
	))
	t.Run("rejected user can not request again", theory(
		with(func(u *domain.User) {
			u.Catalog.Status = domain.CatalogRequestRejected
			u.Catalog.RejectionReason = "blurry KTP"
		}),
		Then{status: http.StatusBadRequest},
	))
	t.Run("contributors already have access", theory(
		with(func(u *domain.User) {
			u.Role = domain.RoleContributor
			u.Catalog.Status = domain.CatalogRequestApproved
		}),
		Then{status: http.StatusBadRequest},
	))
}

func TestCatalogFlags(t *testing.T) {
	jar := session.Jar{}

	t.Run("flags default to not submitted and pending", func(t *testing.T) {
		e := echo.New()
		c, resp := httptestutil.Get(e, "/api/catalog-status")
		if err := handlers.GetCatalogFlagsHandler()(c); err != nil {
			t.Fatal(err)
		}
		data, _ := body(t, resp)["data"].(map[string]any)
		if data["catalogRequestSubmitted"] != false || data["adminApprovalStatus"] != "pending" {
			t.Errorf("unexpected flags: %v", data)
		}
	})

	t.Run("flags are read from cookies", func(t *testing.T) {
		e := echo.New()
		c, resp := httptestutil.Get(
			e, "/api/catalog-status",
			httptestutil.WithCookie("catalogRequestSubmitted", "true"),
			httptestutil.WithCookie("adminApprovalStatus", "approved"),
		)
		if err := handlers.GetCatalogFlagsHandler()(c); err != nil {
			t.Fatal(err)
		}
		data, _ := body(t, resp)["data"].(map[string]any)
		if data["catalogRequestSubmitted"] != true || data["adminApprovalStatus"] != "approved" {
			t.Errorf("unexpected flags: %v", data)
		}
	})

	t.Run("given flags are set into cookies", func(t *testing.T) {
		e := echo.New()
		c, resp := httptestutil.Post(
			e, "/api/catalog-status",
			httptestutil.JSON(t, map[string]any{"catalogRequestSubmitted": true}),
			httptestutil.ContentType(echo.MIMEApplicationJSON),
		)
		if err := handlers.SetCatalogFlagsHandler(jar)(c); err != nil {
			t.Fatal(err)
		}
		ck, ok := httptestutil.Cookie(resp, "catalogRequestSubmitted")
		if !ok || ck.Value != "true" || ck.MaxAge != 7*24*60*60 {
			t.Errorf("unexpected cookie: %+v", ck)
		}
		if _, ok := httptestutil.Cookie(resp, "adminApprovalStatus"); ok {
			t.Error("absent flag is overwritten")
		}
	})

	t.Run("unknown approval status is rejected", func(t *testing.T) {
		e := echo.New()
		c, _ := httptestutil.Post(
			e, "/api/catalog-status",
			httptestutil.JSON(t, map[string]any{"adminApprovalStatus": "maybe"}),
			httptestutil.ContentType(echo.MIMEApplicationJSON),
		)
		if got := statusOf(handlers.SetCatalogFlagsHandler(jar)(c)); got != http.StatusBadRequest {
			t.Errorf("status: want 400, got %d", got)
		}
	})

	t.Run("flags are cleared", func(t *testing.T) {
		e := echo.New()
		c, resp := httptestutil.Delete(e, "/api/catalog-status")
		if err := handlers.ClearCatalogFlagsHandler(jar)(c); err != nil {
			t.Fatal(err)
		}
		if !cleared(resp, "catalogRequestSubmitted") || !cleared(resp, "adminApprovalStatus") {
			t.Error("flags are not cleared")
		}
	})
}

func TestUploadKTPHandler(t *testing.T) {
	t.Run("KTP image is stored and linked", func(t *testing.T) {
		store := newStore(t)
		users := umocks.NewUserInterface()
		users.Impl.SetKTP = func(_ context.Context, id int, path string, url string) (domain.User, error) {
			return domain.User{Id: id, KTPImagePath: path, KTPImageURL: url}, nil
		}

		form, ctype := httptestutil.Multipart(t, nil, pngImage("ktp"))
		e := echo.New()
		c, resp := httptestutil.Post(e, "/users/upload-ktp", form, ctype)
		if err := handlers.UploadKTPHandler(users, store, "http://localhost:5000/")(withUser(c, 3)); err != nil {
			t.Fatal(err)
		}

		set := users.Calls.SetKTP.Last()
		if _, err := os.Stat(set.Path); err != nil {
			t.Errorf("KTP is not stored: %s", err)
		}
		if !strings.HasPrefix(set.Url, "http://localhost:5000/uploads/") {
			t.Errorf("unexpected url: %s", set.Url)
		}
		if body(t, resp)["ktpUrl"] != set.Url {
			t.Error("ktpUrl is not responded")
		}
	})

	t.Run("non image is rejected", func(t *testing.T) {
		store := newStore(t)
		users := umocks.NewUserInterface()
		form, ctype := httptestutil.Multipart(t, nil, httptestutil.FilePart{
			Field: "ktp", FileName: "ktp.txt", Content: []byte("hello"), MimeType: "text/plain",
		})
		e := echo.New()
		c, _ := httptestutil.Post(e, "/users/upload-ktp", form, ctype)
		err := handlers.UploadKTPHandler(users, store, "http://localhost:5000")(withUser(c, 3))
		if got := statusOf(err); got != http.StatusBadRequest {
			t.Errorf("status: want 400, got %d", got)
		}
	})

	t.Run("missing file is rejected", func(t *testing.T) {
		store := newStore(t)
		users := umocks.NewUserInterface()
		form, ctype := httptestutil.Multipart(t, map[string]string{"note": "no file"})
		e := echo.New()
		c, _ := httptestutil.Post(e, "/users/upload-ktp", form, ctype)
		err := handlers.UploadKTPHandler(users, store, "http://localhost:5000")(withUser(c, 3))
		if got := statusOf(err); got != http.StatusBadRequest {
			t.Errorf("status: want 400, got %d", got)
		}
	})
}

func TestSavePredictionHandler(t *testing.T) {
	contributor := domain.User{
		Id: 3, Name: "Sari", IsVerified: true, Role: domain.RoleContributor,
		Catalog: domain.CatalogRequest{Status: domain.CatalogRequestApproved},
	}

	type When struct {
		user       domain.User
		body       map[string]any
		promoteErr error
	}

	theory := func(when When, then int) func(*testing.T) {
		return func(t *testing.T) {
			users := umocks.NewUserInterface()
			users.Impl.Get = func(context.Context, int) (domain.User, error) { return when.user, nil }
			catalog := cmocks.NewCatalogInterface()
			catalog.Impl.Promote = func(_ context.Context, p domain.CatalogParam) (domain.CatalogEntry, error) {
				return domain.CatalogEntry{Id: 1, PredictionId: p.PredictionId, UserId: p.UserId, NamaIkan: p.NamaIkan}, when.promoteErr
			}

			e := echo.New()
			c, _ := httptestutil.Post(
				e, "/users/save-prediction", httptestutil.JSON(t, when.body),
				httptestutil.ContentType(echo.MIMEApplicationJSON),
			)
			err := handlers.SavePredictionHandler(users, catalog)(withUser(c, when.user.Id))
			if got := statusOf(err); got != then {
				t.Fatalf("status: want %d, got %d (%v)", then, got, err)
			}
			if then != http.StatusOK {
				return
			}
			p := catalog.Calls.Promote.Last().Param
			if p.UserId != 3 || p.PredictionId != 11 || p.Kategori != domain.KategoriHias {
				t.Errorf("unexpected param: %+v", p)
			}
			if p.TanggalDitemukan == nil || p.TanggalDitemukan.Format("2006-01-02") != "2024-05-01" {
				t.Errorf("unexpected date: %v", p.TanggalDitemukan)
			}
		}
	}

	valid := map[string]any{
		"predictionId":     11,
		"namaIkan":         "Cupang",
		"kategori":         "Ikan Hias",
		"tanggalDitemukan": "2024-05-01",
		"kondisiIkan":      "hidup",
	}

	t.Run("contributor saves own prediction", theory(
		When{user: contributor, body: valid}, http.StatusOK,
	))
	t.Run("regular user is forbidden", theory(
		When{
			user: domain.User{Id: 3, IsVerified: true, Role: domain.RoleUser},
			body: valid,
		},
		http.StatusForbidden,
	))
	t.Run("missing prediction id is rejected", theory(
		When{user: contributor, body: map[string]any{"namaIkan": "Cupang"}}, http.StatusBadRequest,
	))
	t.Run("unknown kategori is rejected", theory(
		When{user: contributor, body: map[string]any{"predictionId": 11, "kategori": "Ikan Terbang"}},
		http.StatusBadRequest,
	))
	t.Run("others' prediction is not found", theory(
		When{user: contributor, body: valid, promoteErr: postgres.Missing{Table: "predictions"}},
		http.StatusNotFound,
	))
}

func TestSaveToCatalogHandler(t *testing.T) {
	users := umocks.NewUserInterface()
	users.Impl.Get = func(_ context.Context, id int) (domain.User, error) {
		return domain.User{
			Id: id, Name: "Sari", IsVerified: true, Role: domain.RoleContributor,
			Catalog: domain.CatalogRequest{Status: domain.CatalogRequestApproved},
		}, nil
	}

	theory := func(probability string, want float64) func(*testing.T) {
		return func(t *testing.T) {
			store := newStore(t)
			catalog := cmocks.NewCatalogInterface()
			catalog.Impl.CreateWithPrediction = func(_ context.Context, p domain.PredictionParam, cp domain.CatalogParam) (domain.CatalogEntry, error) {
				return domain.CatalogEntry{
					Id: 1, UserId: cp.UserId, NamaIkan: cp.NamaIkan,
					Prediction: domain.Prediction{PredictedFishName: p.PredictedFishName, Probability: p.Probability},
				}, nil
			}

			form, ctype := httptestutil.Multipart(t, map[string]string{
				"fish_name":          "Nila",
				"predicted_class":    "Nila",
				"probability":        probability,
				"habitat":            "Air tawar",
				"lokasi_penangkapan": "Waduk Jatiluhur",
				"jauh_dari_pabrik":   "true",
			}, pngImage("image"))
			e := echo.New()
			c, resp := httptestutil.Post(e, "/api/save-to-dataikan", form, ctype)
			if err := handlers.SaveToCatalogHandler(users, catalog, store)(withUser(c, 3)); err != nil {
				t.Fatal(err)
			}

			call := catalog.Calls.CreateWithPrediction.Last()
			if call.Prediction.Probability != want {
				t.Errorf("probability: want %v, got %v", want, call.Prediction.Probability)
			}
			if !strings.HasPrefix(call.Prediction.FishImage, "data:image/png;base64,") {
				t.Errorf("image is not embedded: %.40s", call.Prediction.FishImage)
			}
			if !strings.Contains(call.Prediction.ImagePath, "catalog_3_") {
				t.Errorf("image is not archived: %s", call.Prediction.ImagePath)
			}
			if call.Catalog.JauhDariPabrik == nil || !*call.Catalog.JauhDariPabrik {
				t.Errorf("jauh_dari_pabrik: %v", call.Catalog.JauhDariPabrik)
			}
			if b := body(t, resp); b["success"] != true {
				t.Errorf("unexpected body: %v", b)
			}
		}
	}

	t.Run("fraction probability is kept", theory("0.85", 0.85))
	t.Run("percent probability is converted", theory("85", 0.85))
	t.Run("percent with sign is converted", theory("85%", 0.85))
}

func TestCatalogEntriesHandler(t *testing.T) {
	newMocks := func() (*cmocks.CatalogInterface, *pmocks.PredictionInterface) {
		catalog := cmocks.NewCatalogInterface()
		catalog.Impl.Find = func(context.Context, domain.CatalogQuery) ([]domain.CatalogEntry, int, error) {
			return []domain.CatalogEntry{{Id: 1, NamaIkan: "Nila"}}, 1, nil
		}
		catalog.Impl.Count = func(context.Context) (int, error) { return 5, nil }
		predictions := pmocks.NewPredictionInterface()
		predictions.Impl.Count = func(context.Context, bool) (int, error) { return 20, nil }
		return catalog, predictions
	}

	t.Run("filters are passed to the query", func(t *testing.T) {
		catalog, predictions := newMocks()
		e := echo.New()
		c, resp := httptestutil.Get(e, "/api/catalog-entries?kategori=Ikan%20Konsumsi&lokasi=Bogor&search=nil&page=2&limit=10")
		if err := handlers.CatalogEntriesHandler(catalog, predictions)(c); err != nil {
			t.Fatal(err)
		}
		q := catalog.Calls.Find.Last().Query
		if q.Kategori != domain.KategoriKonsumsi || q.Lokasi != "Bogor" || q.Search != "nil" ||
			q.Limit != 10 || q.Offset != 10 || q.UserId != nil {
			t.Errorf("unexpected query: %+v", q)
		}
		info, _ := body(t, resp)["filter_info"].(map[string]any)
		if info["total_in_database"] != float64(20) || info["total_in_catalog"] != float64(5) {
			t.Errorf("unexpected filter_info: %v", info)
		}
	})

	t.Run("own entries of signed-in user", func(t *testing.T) {
		catalog, predictions := newMocks()
		e := echo.New()
		c, _ := httptestutil.Get(e, "/api/catalog-entries?my_data_only=true")
		if err := handlers.CatalogEntriesHandler(catalog, predictions)(withUser(c, 3)); err != nil {
			t.Fatal(err)
		}
		q := catalog.Calls.Find.Last().Query
		if q.UserId == nil || *q.UserId != 3 || q.Limit != 50 {
			t.Errorf("unexpected query: %+v", q)
		}
	})

	t.Run("own entries of anonymous is empty", func(t *testing.T) {
		catalog, predictions := newMocks()
		e := echo.New()
		c, resp := httptestutil.Get(e, "/api/catalog-entries?my_data_only=true")
		if err := handlers.CatalogEntriesHandler(catalog, predictions)(c); err != nil {
			t.Fatal(err)
		}
		if catalog.Calls.Find.Times() != 0 {
			t.Error("catalog is queried")
		}
		b := body(t, resp)
		info, _ := b["info"].(map[string]any)
		if data, _ := b["data"].([]any); len(data) != 0 || info["requires_login"] != true {
			t.Errorf("unexpected body: %v", b)
		}
	})

	t.Run("limit is capped", func(t *testing.T) {
		catalog, predictions := newMocks()
		e := echo.New()
		c, _ := httptestutil.Get(e, "/api/catalog-entries?limit=1000")
		if err := handlers.CatalogEntriesHandler(catalog, predictions)(c); err != nil {
			t.Fatal(err)
		}
		if q := catalog.Calls.Find.Last().Query; q.Limit != 100 {
			t.Errorf("limit: %d", q.Limit)
		}
	})
}

func TestDecideCatalogRequest(t *testing.T) {
	moderator := activeAdmin(t, 1, domain.AdminRoleCatalogModerator)
	analyst := activeAdmin(t, 2, domain.AdminRoleAdmin)

	type When struct {
		admin     domain.Admin
		approve   bool
		reason    string
		decideErr error
		mailErr   error
	}
	type Then struct {
		status    int
		mail      string
		emailSent bool
	}

	theory := func(when When, then Then) func(*testing.T) {
		return func(t *testing.T) {
			admins := amocks.NewAdminInterface()
			admins.Impl.Get = func(context.Context, int) (domain.Admin, error) { return when.admin, nil }
			users := umocks.NewUserInterface()
			users.Impl.DecideCatalogRequest = func(_ context.Context, id int, d domain.CatalogDecision) (domain.User, error) {
				if when.decideErr != nil {
					return domain.User{}, when.decideErr
				}
				u := domain.User{Id: id, Name: "Sari", Email: "sari@example.com", Role: domain.RoleUser}
				if d.Approve {
					u.Role = domain.RoleContributor
					u.Catalog = domain.CatalogRequest{Status: domain.CatalogRequestApproved, ApprovedAt: &d.At, ApprovedBy: &d.AdminId}
				} else {
					u.Catalog = domain.CatalogRequest{Status: domain.CatalogRequestRejected, RejectionReason: d.Reason}
				}
				return u, nil
			}
			mail := mmocks.New()
			mail.Impl.Send = func(mmocks.Mail) error { return when.mailErr }

			e := echo.New()
			var c echo.Context
			var resp *httptest.ResponseRecorder
			var handler echo.HandlerFunc
			if when.approve {
				c, resp = httptestutil.Put(e, "/admin/approve-request/3", nil)
				handler = handlers.ApproveRequestHandler(admins, users, mail)
			} else {
				c, resp = httptestutil.Put(
					e, "/admin/reject-request/3",
					httptestutil.JSON(t, map[string]string{"rejection_reason": when.reason}),
					httptestutil.ContentType(echo.MIMEApplicationJSON),
				)
				handler = handlers.RejectRequestHandler(admins, users, mail)
			}
			c.SetParamNames("userId")
			c.SetParamValues("3")

			err := handler(withAdmin(c, when.admin.Id, string(when.admin.Role)))
			if got := statusOf(err); got != then.status {
				t.Fatalf("status: want %d, got %d (%v)", then.status, got, err)
			}
			if then.status != http.StatusOK {
				if len(mail.Sent) != 0 {
					t.Errorf("mails are sent: %+v", mail.Sent)
				}
				return
			}

			d := users.Calls.DecideCatalogRequest.Last()
			if d.Id != 3 || d.Decision.Approve != when.approve || d.Decision.AdminId != when.admin.Id {
				t.Errorf("unexpected decision: %+v", d)
			}
			sent := mail.Of(then.mail)
			if len(sent) != 1 || sent[0].To.Email != "sari@example.com" {
				t.Errorf("unexpected mails: %+v", mail.Sent)
			}
			if !when.approve && sent[0].Reason != when.reason {
				t.Errorf("reason is not mailed: %+v", sent[0])
			}
			data, _ := body(t, resp)["data"].(map[string]any)
			if data["email_sent"] != then.emailSent {
				t.Errorf("email_sent: want %v, got %v", then.emailSent, data["email_sent"])
			}
		}
	}

	t.Run("moderator approves", theory(
		When{admin: moderator, approve: true},
		Then{status: http.StatusOK, mail: "catalog-approved", emailSent: true},
	))
	t.Run("moderator rejects with a reason", theory(
		When{admin: moderator, reason: "KTP is blurry"},
		Then{status: http.StatusOK, mail: "catalog-rejected", emailSent: true},
	))
	t.Run("rejection needs a reason", theory(
		When{admin: moderator, reason: "  "},
		Then{status: http.StatusBadRequest},
	))
	t.Run("decision stands when mail fails", theory(
		When{admin: moderator, approve: true, mailErr: errors.New("smtp is down")},
		Then{status: http.StatusOK, mail: "catalog-approved", emailSent: false},
	))
	t.Run("admin without permission is forbidden", theory(
		When{admin: analyst, approve: true},
		Then{status: http.StatusForbidden},
	))
	t.Run("user without pending request is a bad request", theory(
		When{admin: moderator, approve: true, decideErr: postgres.InvalidState{Table: "users", Expected: "pending", Actual: "none"}},
		Then{status: http.StatusBadRequest},
	))
	t.Run("unknown user is not found", theory(
		When{admin: moderator, approve: true, decideErr: domerr.ErrMissing},
		Then{status: http.StatusNotFound},
	))
}

func TestPendingRequestsHandler(t *testing.T) {
	admins := amocks.NewAdminInterface()
	admins.Impl.Get = func(context.Context, int) (domain.Admin, error) {
		return activeAdmin(t, 1, domain.AdminRoleSuperAdmin), nil
	}
	requested := time.Now().Add(-49 * time.Hour)
	users := umocks.NewUserInterface()
	users.Impl.FindByCatalogStatus = func(context.Context, domain.CatalogRequestStatus) ([]domain.User, error) {
		return []domain.User{{
			Id: 3, Name: "Sari", Phone: "0812345678",
			Catalog:     domain.CatalogRequest{Status: domain.CatalogRequestPending, RequestedAt: &requested},
			KTPImageURL: "http://localhost:5000/uploads/ktp.png",
		}}, nil
	}

	e := echo.New()
	c, resp := httptestutil.Get(e, "/admin/pending-requests")
	if err := handlers.PendingRequestsHandler(admins, users)(withAdmin(c, 1, "super_admin")); err != nil {
		t.Fatal(err)
	}
	if st := users.Calls.FindByCatalogStatus.Last().Status; st != domain.CatalogRequestPending {
		t.Errorf("unexpected status: %s", st)
	}
	data, _ := body(t, resp)["data"].([]any)
	if len(data) != 1 {
		t.Fatalf("unexpected data: %v", data)
	}
	item, _ := data[0].(map[string]any)
	if item["daysWaiting"] != float64(2) || item["telepon"] != "0812345678" || item["ktpPath"] != nil {
		t.Errorf("unexpected item: %v", item)
	}
}
