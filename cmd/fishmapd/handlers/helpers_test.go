package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/fishmap/fishmap/cmd/fishmapd/handlers"
	httptestutil "github.com/fishmap/fishmap/internal/testutils/http"
	"github.com/fishmap/fishmap/pkg/auth/password"
	"github.com/fishmap/fishmap/pkg/auth/session"
	"github.com/fishmap/fishmap/pkg/auth/token"
	"github.com/fishmap/fishmap/pkg/uploads"
	"github.com/fishmap/fishmap/pkg/utils/try"
	"github.com/google/go-cmp/cmp"
	"github.com/labstack/echo/v4"
)

func userAuth(t *testing.T) handlers.Auth {
	t.Helper()
	iss := try.To(token.New(token.ScopeUser, token.Keys{
		AccessSecret: []byte("user-access"), RefreshSecret: []byte("user-refresh"),
		AccessTTL: 15 * time.Minute, RefreshTTL: 7 * 24 * time.Hour,
	})).OrFatal(t)
	return handlers.Auth{Issuer: iss, Jar: session.Jar{}}
}

func adminAuth(t *testing.T) handlers.Auth {
	t.Helper()
	iss := try.To(token.New(token.ScopeAdmin, token.Keys{
		AccessSecret: []byte("admin-access"), RefreshSecret: []byte("admin-refresh"),
		AccessTTL: 15 * time.Minute, RefreshTTL: 7 * 24 * time.Hour,
	})).OrFatal(t)
	return handlers.Auth{Issuer: iss, Jar: session.Jar{}}
}

// statusOf tells the status code which the error would be responded with.
//
// nil error is http.StatusOK.
func statusOf(err error) int {
	if err == nil {
		return http.StatusOK
	}
	herr := new(echo.HTTPError)
	if errors.As(err, &herr) {
		return herr.Code
	}
	return -1
}

func issue(t *testing.T, iss token.Issuer, sub token.Subject, kind token.Kind) string {
	t.Helper()
	tok, _, err := iss.Issue(sub, kind)
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

func hash(t *testing.T, plain string) string {
	t.Helper()
	return try.To(password.Hash(plain)).OrFatal(t)
}

// body decodes the JSON response body.
func body(t *testing.T, resp *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	ret := map[string]any{}
	if err := json.Unmarshal(resp.Body.Bytes(), &ret); err != nil {
		t.Fatalf("response is not a JSON object: %s (%s)", err, resp.Body.String())
	}
	return ret
}

// cleared tells whether the cookie is set to be removed in the response.
func cleared(resp *httptest.ResponseRecorder, name string) bool {
	for _, c := range resp.Result().Cookies() {
		if c.Name == name {
			return c.MaxAge < 0 || c.Value == ""
		}
	}
	return false
}

func withUser(c echo.Context, id int) echo.Context {
	return session.WithClaims(c, &token.Claims{
		UserId: id, Scope: token.ScopeUser, Kind: token.Access, Role: "user",
	})
}

func withAdmin(c echo.Context, id int, role string) echo.Context {
	return session.WithClaims(c, &token.Claims{
		UserId: id, Scope: token.ScopeAdmin, Kind: token.Access, Role: role,
	})
}

func newStore(t *testing.T) *uploads.Store {
	t.Helper()
	root := t.TempDir()
	return try.To(uploads.New(
		filepath.Join(root, "uploads"), filepath.Join(root, "archive"), 1<<20,
	)).OrFatal(t)
}

// pngImage is a multipart file part of a tiny PNG.
func pngImage(field string) httptestutil.FilePart {
	return httptestutil.FilePart{
		Field:    field,
		FileName: "fish.png",
		Content:  []byte("\x89PNG\r\n\x1a\nfake"),
		MimeType: "image/png",
	}
}

// assertJSONEq compares JSON documents ignoring formatting.
func assertJSONEq(t *testing.T, want string, got string) {
	t.Helper()
	var w, g any
	if err := json.Unmarshal([]byte(want), &w); err != nil {
		t.Fatalf("expectation is not JSON: %s", err)
	}
	if err := json.Unmarshal([]byte(got), &g); err != nil {
		t.Fatalf("response is not JSON: %s (%s)", err, got)
	}
	if diff := cmp.Diff(w, g); diff != "" {
		t.Errorf("unexpected JSON (-want +got):\n%s", diff)
	}
}
