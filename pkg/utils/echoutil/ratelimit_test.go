package echoutil_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fishmap/fishmap/pkg/utils/echoutil"
	"github.com/labstack/echo/v4"
)

func TestRateLimit(t *testing.T) {
	e := echo.New()
	e.POST("/login", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, echoutil.RateLimit(1))

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = ip + ":12345"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	// burst is 2
	for i := 0; i < 2; i++ {
		if code := send("192.0.2.1"); code != http.StatusOK {
			t.Fatalf("request #%d: status = %d", i, code)
		}
	}
	if code := send("192.0.2.1"); code != http.StatusTooManyRequests {
		t.Errorf("request over the limit: status = %d", code)
	}
	if code := send("192.0.2.2"); code != http.StatusOK {
		t.Errorf("request from another client: status = %d", code)
	}
}
