package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/fishmap/fishmap/cmd/fishmapd/handlers"
	httptestutil "github.com/fishmap/fishmap/internal/testutils/http"
	"github.com/fishmap/fishmap/pkg/classifier"
	cmocks "github.com/fishmap/fishmap/pkg/classifier/mock"
	"github.com/labstack/echo/v4"
)

func TestPredictHandler(t *testing.T) {
	type When struct {
		body   string
		result classifier.Result
		err    error
	}
	type Then struct {
		status int
		body   string
	}

	theory := func(when When, then Then) func(*testing.T) {
		return func(t *testing.T) {
			model := cmocks.New()
			model.Impl.ClassifyFeatures = func(context.Context, []float64) (classifier.Result, error) {
				return when.result, when.err
			}

			e := echo.New()
			c, resp := httptestutil.Post(
				e, "/predict", strings.NewReader(when.body),
				httptestutil.ContentType(echo.MIMEApplicationJSON),
			)
			if err := handlers.PredictHandler(model)(c); err != nil {
				t.Fatal(err)
			}
			if resp.Code != then.status {
				t.Fatalf("status: want %d, got %d (%s)", then.status, resp.Code, resp.Body.String())
			}
			assertJSONEq(t, then.body, resp.Body.String())
		}
	}

	raw := json.RawMessage(`{"status":"success","predicted_class":"Nila","confidence":0.93}`)

	t.Run("model output is responded as it is", theory(
		When{
			body:   `{"features": [1.5, 2.0, 3.25]}`,
			result: classifier.Result{Status: "success", PredictedClass: "Nila", Confidence: 0.93, Raw: raw},
		},
		Then{status: http.StatusOK, body: string(raw)},
	))
	t.Run("missing features is a bad request", theory(
		When{body: `{}`},
		Then{status: http.StatusBadRequest, body: `{"status":"error","error":"features array is required"}`},
	))
	t.Run("timeout is reported", theory(
		When{body: `{"features": [1]}`, err: fmt.Errorf("%w: 30s", classifier.ErrTimeout)},
		Then{status: http.StatusInternalServerError, body: `{"status":"error","error":"model timeout"}`},
	))
	t.Run("stderr of failed model is reported", theory(
		When{body: `{"features": [1]}`, err: &classifier.FailedError{ExitCode: 1, Stderr: "no module named torch"}},
		Then{
			status: http.StatusInternalServerError,
			body:   `{"status":"error","error":"model prediction failed: no module named torch"}`,
		},
	))
	t.Run("cancelled request is unavailable", theory(
		When{body: `{"features": [1]}`, err: context.Canceled},
		Then{status: http.StatusServiceUnavailable, body: `{"status":"error","error":"request is cancelled"}`},
	))
}

func TestPredictImageHandler(t *testing.T) {
	t.Run("uploaded image is classified and removed", func(t *testing.T) {
		store := newStore(t)
		model := cmocks.New()
		var seen string
		model.Impl.ClassifyImage = func(_ context.Context, path string, _ float64) (classifier.Result, error) {
			seen = path
			if _, err := os.Stat(path); err != nil {
				t.Errorf("image is not stored while classifying: %s", err)
			}
			return classifier.Result{Raw: json.RawMessage(`{"status":"success"}`)}, nil
		}

		form, ctype := httptestutil.Multipart(t, map[string]string{"confThreshold": "0.4"}, pngImage("image"))
		e := echo.New()
		c, resp := httptestutil.Post(e, "/predict-image", form, ctype)
		if err := handlers.PredictImageHandler(model, store, 0.25)(c); err != nil {
			t.Fatal(err)
		}
		if resp.Code != http.StatusOK {
			t.Errorf("status: %d", resp.Code)
		}
		if th := model.Calls.ClassifyImage[0].ConfThreshold; th != 0.4 {
			t.Errorf("threshold: %v", th)
		}
		if _, err := os.Stat(seen); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("uploaded image is left: %v", err)
		}
	})

	t.Run("default threshold is used when not given", func(t *testing.T) {
		model := cmocks.New()
		model.Impl.ClassifyImage = func(context.Context, string, float64) (classifier.Result, error) {
			return classifier.Result{Raw: json.RawMessage(`{}`)}, nil
		}
		form, ctype := httptestutil.Multipart(t, nil, pngImage("image"))
		e := echo.New()
		c, _ := httptestutil.Post(e, "/predict-image", form, ctype)
		if err := handlers.PredictImageHandler(model, newStore(t), 0.25)(c); err != nil {
			t.Fatal(err)
		}
		if th := model.Calls.ClassifyImage[0].ConfThreshold; th != 0.25 {
			t.Errorf("threshold: %v", th)
		}
	})

	for name, fields := range map[string]map[string]string{
		"threshold out of range": {"confThreshold": "1.5"},
		"threshold not a number": {"confThreshold": "high"},
	} {
		t.Run(name+" is a bad request", func(t *testing.T) {
			model := cmocks.New()
			form, ctype := httptestutil.Multipart(t, fields, pngImage("image"))
			e := echo.New()
			c, resp := httptestutil.Post(e, "/predict-image", form, ctype)
			if err := handlers.PredictImageHandler(model, newStore(t), 0.25)(c); err != nil {
				t.Fatal(err)
			}
			if resp.Code != http.StatusBadRequest {
				t.Errorf("status: %d", resp.Code)
			}
		})
	}

	t.Run("missing image is a bad request", func(t *testing.T) {
		model := cmocks.New()
		form, ctype := httptestutil.Multipart(t, map[string]string{"confThreshold": "0.3"})
		e := echo.New()
		c, resp := httptestutil.Post(e, "/predict-image", form, ctype)
		if err := handlers.PredictImageHandler(model, newStore(t), 0.25)(c); err != nil {
			t.Fatal(err)
		}
		if resp.Code != http.StatusBadRequest {
			t.Errorf("status: %d", resp.Code)
		}
		assertJSONEq(t, `{"status":"error","error":"image file is required"}`, resp.Body.String())
	})
}
