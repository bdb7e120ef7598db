package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fishmap/fishmap/pkg/auth/token"
	cmocks "github.com/fishmap/fishmap/pkg/classifier/mock"
	"github.com/fishmap/fishmap/pkg/configs/server"
	"github.com/fishmap/fishmap/pkg/domain"
	adb "github.com/fishmap/fishmap/pkg/domain/admin/db"
	amocks "github.com/fishmap/fishmap/pkg/domain/admin/db/mock"
	cdb "github.com/fishmap/fishmap/pkg/domain/catalog/db"
	catmocks "github.com/fishmap/fishmap/pkg/domain/catalog/db/mock"
	gdb "github.com/fishmap/fishmap/pkg/domain/gallery/db"
	gmocks "github.com/fishmap/fishmap/pkg/domain/gallery/db/mock"
	pdb "github.com/fishmap/fishmap/pkg/domain/prediction/db"
	pmocks "github.com/fishmap/fishmap/pkg/domain/prediction/db/mock"
	sdb "github.com/fishmap/fishmap/pkg/domain/schema/db"
	udb "github.com/fishmap/fishmap/pkg/domain/user/db"
	umocks "github.com/fishmap/fishmap/pkg/domain/user/db/mock"
	mmocks "github.com/fishmap/fishmap/pkg/mailer/mock"
	"github.com/fishmap/fishmap/pkg/uploads"
	"github.com/fishmap/fishmap/pkg/utils/try"
	"github.com/labstack/echo/v4"
)

type fakeDB struct {
	users       *umocks.UserInterface
	admins      *amocks.AdminInterface
	predictions *pmocks.PredictionInterface
	catalog     *catmocks.CatalogInterface
	gallery     *gmocks.GalleryInterface
}

func (f *fakeDB) Users() udb.UserInterface             { return f.users }
func (f *fakeDB) Admins() adb.AdminInterface           { return f.admins }
func (f *fakeDB) Predictions() pdb.PredictionInterface { return f.predictions }
func (f *fakeDB) Catalog() cdb.CatalogInterface        { return f.catalog }
func (f *fakeDB) Gallery() gdb.GalleryInterface        { return f.gallery }
func (f *fakeDB) Schema() sdb.SchemaInterface          { return nil }
func (f *fakeDB) Close() error                         { return nil }

func testServer(t *testing.T) (*echo.Echo, *fakeDB, Deps) {
	t.Helper()
	dir := t.TempDir()
	conf := try.To(server.Unmarshal([]byte(fmt.Sprintf(`
port: 8080
database: postgres://fishmap@localhost/fishmap
tokens:
  user:
    accessSecret: user-access
    refreshSecret: user-refresh
  admin:
    accessSecret: admin-access
    refreshSecret: admin-refresh
classifier:
  script: model/predict.py
uploads:
  dir: %s/uploads
  archiveDir: %s/archive
`, dir, dir)))).OrFatal(t)

	userTokens, adminTokens, err := issuers(conf.Tokens())
	if err != nil {
		t.Fatal(err)
	}
	up := conf.Uploads()
	store := try.To(uploads.New(up.Dir(), up.ArchiveDir(), up.MaxBytes())).OrFatal(t)

	db := &fakeDB{
		users:       umocks.NewUserInterface(),
		admins:      amocks.NewAdminInterface(),
		predictions: pmocks.NewPredictionInterface(),
		catalog:     catmocks.NewCatalogInterface(),
		gallery:     gmocks.NewGalleryInterface(),
	}
	deps := Deps{
		Conf: conf, DB: db, Model: cmocks.New(), Mail: mmocks.New(), Store: store,
		UserTokens: userTokens, AdminTokens: adminTokens,
	}
	e := echo.New()
	Setup(e, "off", deps)
	return e, db, deps
}

func TestSetup_Routes(t *testing.T) {
	e, _, _ := testServer(t)

	registered := map[string]bool{}
	for _, r := range e.Routes() {
		registered[r.Method+" "+r.Path] = true
	}

	for _, want := range []string{
		"POST /users", "POST /verify-otp", "POST /resend-otp", "POST /login",
		"POST /token", "DELETE /logout",
		"GET /users", "PUT /users/update", "PUT /users/password", "GET /users/predictions",
		"POST /admin/login", "GET /admin/token", "DELETE /admin/logout",
		"POST /admin/create", "GET /admin/profile", "GET /admin/permissions",
		"GET /admin/dashboard-stats", "GET /admin/all",
		"PUT /admin/:adminId/status", "PUT /admin/:adminId/password",
		"GET /api/admin/approved-users",
		"POST /predict", "POST /predict-image",
		"POST /api/save-scan", "POST /api/save-to-dataikan", "GET /api/get-scans", "GET /api/data-ikan",
		"POST /api/catalog/request-access", "GET /api/catalog/my-status", "GET /api/catalog/approval-status",
		"GET /api/catalog/status", "POST /api/catalog/status", "DELETE /api/catalog/status",
		"POST /api/catalog/upload-ktp", "POST /api/catalog/save-prediction", "POST /api/save-to-catalog",
		"GET /api/catalog/entries", "GET /api/get-catalog",
		"GET /api/catalog/admin/pending-requests", "POST /api/catalog/admin/approve/:userId",
		"POST /api/catalog/admin/reject/:userId", "GET /api/catalog/admin/statistics",
		"GET /api/email/test-connection", "POST /api/email/catalog-review",
		"POST /api/email/catalog-approved", "POST /api/email/catalog-rejected",
		"POST /api/email/admin/approve-user", "POST /api/email/admin/reject-user",
		"GET /api/galery", "GET /api/galery/:id", "POST /api/galery",
		"PUT /api/galery/:id", "DELETE /api/galery/:id",
	} {
		if !registered[want] {
			t.Errorf("route is not registered: %s", want)
		}
	}
}

func TestSetup_Guards(t *testing.T) {
	e, db, deps := testServer(t)
	db.gallery.Impl.List = func(context.Context) ([]domain.GalleryItem, error) {
		return []domain.GalleryItem{}, nil
	}

	bearer := func(iss token.Issuer, sub token.Subject) string {
		tok, _, err := iss.Issue(sub, token.Access)
		if err != nil {
			t.Fatal(err)
		}
		return "Bearer " + tok
	}
	userToken := bearer(deps.UserTokens, token.Subject{Id: 3, Role: string(domain.RoleUser)})
	moderatorToken := bearer(deps.AdminTokens, token.Subject{Id: 1, Role: string(domain.AdminRoleCatalogModerator)})

	for name, tc := range map[string]struct {
		method string
		path   string
		auth   string
		then   int
	}{
		"gallery is public":                  {http.MethodGet, "/api/galery", "", http.StatusOK},
		"trailing slash is ignored":          {http.MethodGet, "/api/galery/", "", http.StatusOK},
		"profile needs sign-in":              {http.MethodGet, "/users", "", http.StatusUnauthorized},
		"admin routes need admin token":      {http.MethodGet, "/admin/profile", userToken, http.StatusForbidden},
		"admin list is for super admin only": {http.MethodGet, "/admin/all", moderatorToken, http.StatusForbidden},
		"gallery edit needs admin":           {http.MethodDelete, "/api/galery/1", "", http.StatusUnauthorized},
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			if tc.auth != "" {
				req.Header.Set(echo.HeaderAuthorization, tc.auth)
			}
			resp := httptest.NewRecorder()
			e.ServeHTTP(resp, req)
			if resp.Code != tc.then {
				t.Errorf("status: want %d, got %d (%s)", tc.then, resp.Code, resp.Body.String())
			}
		})
	}
}

func TestIssuers_SecretsAreNotShared(t *testing.T) {
	conf := try.To(server.Unmarshal([]byte(`
port: 8080
database: postgres://fishmap@localhost/fishmap
tokens:
  user:
    accessSecret: shared
    refreshSecret: user-refresh
  admin:
    accessSecret: shared
    refreshSecret: admin-refresh
classifier:
  script: model/predict.py
`))).OrFatal(t)

	if _, _, err := issuers(conf.Tokens()); err == nil {
		t.Error("issuers with shared secrets are created")
	}
}
