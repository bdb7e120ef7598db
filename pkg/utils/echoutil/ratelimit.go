package echoutil

import (
	"math"
	"time"

	apierr "github.com/fishmap/fishmap/pkg/api/errors"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// RateLimit limits requests per client IP to perSecond, allowing bursts up to twice that.
func RateLimit(perSecond float64) echo.MiddlewareFunc {
	burst := int(math.Ceil(perSecond * 2))
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(perSecond),
				Burst:     burst,
				ExpiresIn: 3 * time.Minute,
			},
		),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return apierr.Forbidden("client can not be identified")
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return apierr.TooManyRequests()
		},
	})
}
