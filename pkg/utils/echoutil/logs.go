package echoutil

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

// LogHandlerFunc logs each request and its outcome with the logger of the context.
//
// Outcomes with status 500 or above are logged at error level, others at info level.
func LogHandlerFunc(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		begin := time.Now()
		c.Logger().Debugf("< %s %s from %s", req.Method, req.URL, c.RealIP())

		err := next(c)

		status := c.Response().Status
		if herr := new(echo.HTTPError); errors.As(err, &herr) {
			status = herr.Code
		} else if err != nil {
			status = http.StatusInternalServerError
		}
		elapsed := time.Since(begin)
		if status >= http.StatusInternalServerError {
			c.Logger().Errorf("> %s %s: %d in %v: %+v", req.Method, req.URL, status, elapsed, err)
		} else {
			c.Logger().Infof("> %s %s: %d in %v", req.Method, req.URL, status, elapsed)
		}
		return err
	}
}

// SetLevel sets log level of the echo logger.
//
// loglevel is one of debug, info, warn, error or off. Unknown (or empty) levels are warn.
func SetLevel(e *echo.Echo, loglevel string) {
	switch strings.ToLower(loglevel) {
	case "debug":
		e.Logger.SetLevel(log.DEBUG)
	case "info":
		e.Logger.SetLevel(log.INFO)
	case "warn", "":
		e.Logger.SetLevel(log.WARN)
	case "error":
		e.Logger.SetLevel(log.ERROR)
	case "off":
		e.Logger.SetLevel(log.OFF)
	default:
		e.Logger.SetLevel(log.WARN)
		e.Logger.Warnf("unknown loglevel: %s . fall-backed to warn", loglevel)
	}
}
