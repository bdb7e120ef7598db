// Package handlers implements HTTP endpoints of fishmapd.
package handlers

import (
	"errors"
	"math"
	"strconv"
	"strings"

	apierr "github.com/fishmap/fishmap/pkg/api/errors"
	"github.com/fishmap/fishmap/pkg/auth/session"
	"github.com/fishmap/fishmap/pkg/auth/token"
	"github.com/fishmap/fishmap/pkg/domain"
	adb "github.com/fishmap/fishmap/pkg/domain/admin/db"
	domerr "github.com/fishmap/fishmap/pkg/domain/errors"
	udb "github.com/fishmap/fishmap/pkg/domain/user/db"
	"github.com/labstack/echo/v4"
)

// Auth is what handlers need to sign in and out in a scope.
type Auth struct {
	Issuer token.Issuer
	Jar    session.Jar
}

func (a Auth) cookies() session.CookieNames {
	return session.CookiesOf(a.Issuer.Scope())
}

// signIn issues an access token and a refresh token, and sets them to cookies.
//
// The refresh token is passed to store before cookies are set.
//
// It returns the access token.
func (a Auth) signIn(c echo.Context, sub token.Subject, store func(refresh *string) error) (string, error) {
	access, accessExp, err := a.Issuer.Issue(sub, token.Access)
	if err != nil {
		return "", err
	}
	refresh, refreshExp, err := a.Issuer.Issue(sub, token.Refresh)
	if err != nil {
		return "", err
	}
	if err := store(&refresh); err != nil {
		return "", err
	}

	names := a.cookies()
	a.Jar.SetToken(c, names.Access, access, accessExp)
	a.Jar.SetToken(c, names.Refresh, refresh, refreshExp)
	return access, nil
}

// reissue issues a new access token and sets it to the cookie.
func (a Auth) reissue(c echo.Context, sub token.Subject) (string, error) {
	access, exp, err := a.Issuer.Issue(sub, token.Access)
	if err != nil {
		return "", err
	}
	a.Jar.SetToken(c, a.cookies().Access, access, exp)
	return access, nil
}

// refreshClaims verifies the refresh token in the cookie.
//
// It returns the token and its claims.
func (a Auth) refreshClaims(c echo.Context) (string, *token.Claims, error) {
	tok := session.Cookie(c, a.cookies().Refresh)
	if tok == "" {
		return "", nil, apierr.Unauthorized("refresh token required")
	}
	claims, err := a.Issuer.Verify(tok, token.Refresh)
	if err != nil {
		return "", nil, apierr.Forbidden("invalid refresh token", apierr.WithError(err))
	}
	return tok, claims, nil
}

func (a Auth) signOut(c echo.Context) {
	names := a.cookies()
	a.Jar.Clear(c, names.Access)
	a.Jar.Clear(c, names.Refresh)
}

func userSubject(u domain.User) token.Subject {
	return token.Subject{Id: u.Id, Name: u.Name, Email: u.Email, Role: string(u.Role)}
}

func adminSubject(a domain.Admin) token.Subject {
	return token.Subject{Id: a.Id, Name: a.Name, Email: a.Email, Role: string(a.Role)}
}

func bind(c echo.Context, v any) error {
	if err := c.Bind(v); err != nil {
		return apierr.BadRequest("can not understand the request body", apierr.WithError(err))
	}
	return nil
}

func pathId(c echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, apierr.BadRequest(name+" should be a positive integer", apierr.WithError(err))
	}
	return id, nil
}

// badInput converts validation errors to 400, and others to 500.
func badInput(err error) error {
	if errors.Is(err, domerr.ErrBadInput) {
		return apierr.BadRequest(err.Error(), apierr.WithError(err))
	}
	return apierr.InternalServerError(err)
}

// conflictAsBadRequest converts unique key conflicts of users and admins to 400.
func conflictAsBadRequest(err error) error {
	switch domerr.ConflictingField(err) {
	case "email":
		return apierr.BadRequest("email is already registered", apierr.WithError(err))
	case "phone":
		return apierr.BadRequest("phone is already registered", apierr.WithError(err))
	default:
		return apierr.BadRequest("email or phone is already registered", apierr.WithError(err))
	}
}

// signedIn returns claims of the authenticated request.
func signedIn(c echo.Context) (*token.Claims, error) {
	claims, ok := session.Claims(c)
	if !ok {
		return nil, apierr.Unauthorized("sign-in required")
	}
	return claims, nil
}

// currentUser loads the signed-in user.
func currentUser(c echo.Context, users udb.UserInterface) (domain.User, error) {
	claims, err := signedIn(c)
	if err != nil {
		return domain.User{}, err
	}
	u, err := users.Get(c.Request().Context(), claims.UserId)
	if errors.Is(err, domerr.ErrMissing) {
		return domain.User{}, apierr.NotFound("user not found")
	} else if err != nil {
		return domain.User{}, apierr.InternalServerError(err)
	}
	return u, nil
}

// currentAdmin loads the signed-in admin. Admins who are not active are forbidden.
func currentAdmin(c echo.Context, admins adb.AdminInterface) (domain.Admin, error) {
	claims, err := signedIn(c)
	if err != nil {
		return domain.Admin{}, err
	}
	a, err := admins.Get(c.Request().Context(), claims.UserId)
	if errors.Is(err, domerr.ErrMissing) {
		return domain.Admin{}, apierr.Unauthorized("admin not found")
	} else if err != nil {
		return domain.Admin{}, apierr.InternalServerError(err)
	}
	if !a.IsActive() {
		return domain.Admin{}, apierr.Forbidden("admin account is " + string(a.Status))
	}
	return a, nil
}

type page struct {
	Page  int
	Limit int
}

func (p page) Offset() int {
	return (p.Page - 1) * p.Limit
}

func (p page) Of(total int) pagination {
	return pagination{
		TotalItems:   total,
		TotalPages:   int(math.Ceil(float64(total) / float64(p.Limit))),
		CurrentPage:  p.Page,
		ItemsPerPage: p.Limit,
	}
}

type pagination struct {
	TotalItems   int `json:"total_items"`
	TotalPages   int `json:"total_pages"`
	CurrentPage  int `json:"current_page"`
	ItemsPerPage int `json:"items_per_page"`
}

// paging reads `page` and `limit` query parameters.
func paging(c echo.Context, defaultLimit int, maxLimit int) (page, error) {
	p := page{Page: 1, Limit: defaultLimit}
	if q := c.QueryParam("page"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 1 {
			return p, apierr.BadRequest("page should be a positive integer")
		}
		p.Page = n
	}
	if q := c.QueryParam("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 1 {
			return p, apierr.BadRequest("limit should be a positive integer")
		}
		p.Limit = min(n, maxLimit)
	}
	return p, nil
}

func isTrue(s string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	return err == nil && b
}
