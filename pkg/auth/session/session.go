// Package session connects tokens to HTTP: middlewares which authenticate requests,
// and cookies which carry tokens.
package session

import (
	"errors"
	"net/http"
	"strings"
	"time"

	apierr "github.com/fishmap/fishmap/pkg/api/errors"
	"github.com/fishmap/fishmap/pkg/auth/token"
	"github.com/fishmap/fishmap/pkg/domain"
	"github.com/labstack/echo/v4"
)

const (
	UserAccessCookie   = "accessToken"
	UserRefreshCookie  = "refreshToken"
	AdminAccessCookie  = "adminAccessToken"
	AdminRefreshCookie = "adminRefreshToken"
)

const claimsKey = "fishmap.session.claims"

// CookieNames are names of cookies carrying tokens of a scope.
type CookieNames struct {
	Access  string
	Refresh string
}

func CookiesOf(scope token.Scope) CookieNames {
	if scope == token.ScopeAdmin {
		return CookieNames{Access: AdminAccessCookie, Refresh: AdminRefreshCookie}
	}
	return CookieNames{Access: UserAccessCookie, Refresh: UserRefreshCookie}
}

// Jar builds cookies for responses.
type Jar struct {
	// Secure sets Secure attribute to cookies.
	Secure bool
}

// SetToken sets an HttpOnly, SameSite=Strict cookie expiring at expires.
func (j Jar) SetToken(c echo.Context, name string, value string, expires time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(time.Until(expires).Seconds()),
		HttpOnly: true,
		Secure:   j.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// SetFlag sets an HttpOnly, SameSite=Lax cookie living for maxAge.
func (j Jar) SetFlag(c echo.Context, name string, value string, maxAge time.Duration) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   j.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear expires the cookie.
func (j Jar) Clear(c echo.Context, name string) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   j.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// Cookie returns the value of the request cookie, or "" if not sent.
func Cookie(c echo.Context, name string) string {
	ck, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	return ck.Value
}

// accessToken looks up a token from Authorization header, then from the access cookie.
func accessToken(c echo.Context, scope token.Scope) string {
	if h := c.Request().Header.Get(echo.HeaderAuthorization); h != "" {
		if t, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(t)
		}
	}
	return Cookie(c, CookiesOf(scope).Access)
}

func authenticate(c echo.Context, iss token.Issuer) error {
	tok := accessToken(c, iss.Scope())
	if tok == "" {
		return apierr.Unauthorized("access token required")
	}
	claims, err := iss.Verify(tok, token.Access)
	if errors.Is(err, token.ErrExpired) {
		return apierr.Unauthorized(
			"access token expired",
			apierr.WithAdvice("refresh the access token and retry"),
		)
	} else if err != nil {
		return apierr.Forbidden("invalid access token")
	}
	c.Set(claimsKey, claims)
	return nil
}

// Require rejects requests without a valid access token of the issuer's scope.
func Require(iss token.Issuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := authenticate(c, iss); err != nil {
				return err
			}
			return next(c)
		}
	}
}

// RequireUser = Require(users)
func RequireUser(users token.Issuer) echo.MiddlewareFunc {
	return Require(users)
}

// RequireAdmin = Require(admins)
func RequireAdmin(admins token.Issuer) echo.MiddlewareFunc {
	return Require(admins)
}

// OptionalUser authenticates requests carrying a user token, and passes anonymous ones.
//
// Requests with a bad token are handled as anonymous.
func OptionalUser(users token.Issuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if accessToken(c, users.Scope()) != "" {
				if err := authenticate(c, users); err != nil {
					c.Logger().Debugf("anonymous access with bad token: %s", err)
				}
			}
			return next(c)
		}
	}
}

// RequireSuperAdmin passes only tokens issued for super admins. It should be placed after RequireAdmin.
//
// The claim reflects the admin at sign-in time. Handlers still check the stored admin.
func RequireSuperAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := Claims(c)
		if !ok || claims.Scope != token.ScopeAdmin {
			return apierr.Unauthorized("admin access token required")
		}
		if domain.AdminRole(claims.Role) != domain.AdminRoleSuperAdmin {
			return apierr.Forbidden("super admin only")
		}
		return next(c)
	}
}

// Claims returns claims of the authenticated request.
func Claims(c echo.Context) (*token.Claims, bool) {
	claims, ok := c.Get(claimsKey).(*token.Claims)
	return claims, ok && claims != nil
}

// WithClaims puts claims into the context, as authentication middlewares do.
func WithClaims(c echo.Context, claims *token.Claims) echo.Context {
	c.Set(claimsKey, claims)
	return c
}
