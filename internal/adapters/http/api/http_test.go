package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/okian/cedula/internal/adapters/http/api"
	"github.com/okian/cedula/internal/adapters/http/site"
	service "github.com/okian/cedula/internal/app"
	"github.com/okian/cedula/internal/domain/cedula"
	"github.com/okian/cedula/pkg/logger"
	"github.com/okian/cedula/pkg/metrics"
	. "github.com/smartystreets/goconvey/convey"
)

type nopRecorder struct{}

func (nopRecorder) RecordValidation(bool, []string, float64) {}

// newMux wires the production routes against a real service.
func newMux() (*http.ServeMux, *api.Server) {
	svc := service.New(service.WithRecorder(nopRecorder{}))
	server := api.NewServer(svc, nil)
	mux := http.NewServeMux()
	server.Register(context.Background(), mux)
	site.Register(context.Background(), mux, api.MetricsMiddleware)
	return mux, server
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(w *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
	return body
}

func TestValidateEndpoint_Scenarios(t *testing.T) {
	Convey("Given the registered routes", t, func() {
		mux, _ := newMux()

		Convey("When the CI is valid", func() {
			w := get(mux, "/validar/0548912345")

			Convey("Then it should answer 200 with isValid true and no errors key", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldEqual, "application/json")
				So(strings.TrimSpace(w.Body.String()), ShouldEqual, `{"value":"0548912345","isValid":true}`)
			})
		})

		Convey("When the province code is 99", func() {
			w := get(mux, "/validar/9948912345")

			Convey("Then it should answer 400 with the province message", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(w.Header().Get("Content-Type"), ShouldEqual, "application/json")
				So(strings.TrimSpace(w.Body.String()), ShouldEqual,
					`{"value":"9948912345","isValid":false,"errors":["the first two digits must not be a number greater than 24"]}`)
			})
		})

		Convey("When the CI has 9 characters", func() {
			w := get(mux, "/validar/054891234")

			Convey("Then only the length error should be reported", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				body := decode(w)
				So(body["value"], ShouldEqual, "054891234")
				So(body["isValid"], ShouldEqual, false)
				So(body["errors"], ShouldResemble, []interface{}{"CI must be 10 characters long"})
			})
		})

		Convey("When the CI is ten letters", func() {
			w := get(mux, "/validar/abcdefghij")

			Convey("Then only the digits error should be reported", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				body := decode(w)
				So(body["errors"], ShouldResemble, []interface{}{"the CI can only contain numeric characters"})
			})
		})

		Convey("When the CI is beyond the 32-bit range", func() {
			w := get(mux, "/validar/2147483658")

			Convey("Then it should be valid", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decode(w)["isValid"], ShouldEqual, true)
			})
		})

		Convey("When requesting /validar/ with no parameter", func() {
			w := get(mux, "/validar/")

			Convey("Then the static usage page should be served", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
				So(w.Body.String(), ShouldEqual, string(site.UsageHTML))
			})
		})
	})
}

func TestValidateEndpoint_Contract(t *testing.T) {
	Convey("Given the registered routes", t, func() {
		mux, _ := newMux()

		Convey("When every rule fails", func() {
			w := get(mux, "/validar/99x")

			Convey("Then errors should appear in rule order", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decode(w)["errors"], ShouldResemble, []interface{}{
					"CI must be 10 characters long",
					"the first two digits must not be a number greater than 24",
					"the CI can only contain numeric characters",
				})
			})
		})

		Convey("When the input contains characters that need escaping", func() {
			raw := `<a&"b>`
			w := get(mux, "/validar/"+url.PathEscape(raw))

			Convey("Then value should echo the raw input verbatim", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decode(w)["value"], ShouldEqual, raw)
				So(w.Body.String(), ShouldContainSubstring, `"value":"<a&\"b>"`)
			})
		})

		Convey("When the JSON keys are inspected", func() {
			w := get(mux, "/validar/9948912345")

			Convey("Then they should be in contract order", func() {
				body := w.Body.String()
				So(strings.Index(body, `"value"`), ShouldBeLessThan, strings.Index(body, `"isValid"`))
				So(strings.Index(body, `"isValid"`), ShouldBeLessThan, strings.Index(body, `"errors"`))
			})
		})

		Convey("When the value matches what the validator says", func() {
			for _, ci := range []string{"0548912345", "1", "2599999999", "12345678901", "-123456789"} {
				w := get(mux, "/validar/"+url.PathEscape(ci))
				res := cedula.Validate(ci)
				body := decode(w)

				So(body["value"], ShouldEqual, ci)
				So(body["isValid"], ShouldEqual, res.Valid())
				if res.Valid() {
					So(w.Code, ShouldEqual, http.StatusOK)
					So(body, ShouldNotContainKey, "errors")
				} else {
					So(w.Code, ShouldEqual, http.StatusBadRequest)
					So(len(body["errors"].([]interface{})), ShouldEqual, len(res.Messages()))
				}
			}
		})

		Convey("When using a method other than GET", func() {
			req := httptest.NewRequest(http.MethodPost, "/validar/0548912345", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should not be allowed", func() {
				So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
			})
		})

		Convey("When a nested path is requested", func() {
			w := get(mux, "/validar/05/48912345")

			Convey("Then no route should match", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestServer_Routes(t *testing.T) {
	Convey("Given a new API server", t, func() {
		mux, _ := newMux()

		Convey("Then health endpoint should be accessible", func() {
			w := get(mux, "/healthz")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(decode(w)["status"], ShouldEqual, "ok")
		})

		Convey("And stats endpoint should report counts", func() {
			get(mux, "/validar/0548912345")
			get(mux, "/validar/abc")
			w := get(mux, "/stats")

			So(w.Code, ShouldEqual, http.StatusOK)
			body := decode(w)
			So(body["validations"], ShouldEqual, float64(2))
			So(body["valid"], ShouldEqual, float64(1))
			So(body["invalid"], ShouldEqual, float64(1))
		})

		Convey("And metrics endpoint should expose the custom registry", func() {
			get(mux, "/validar/0548912345")
			w := get(mux, "/metrics")

			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "cedula_validator_http_requests_total")
		})

		Convey("And unknown paths should 404", func() {
			So(get(mux, "/unknown").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("And registering on a nil mux should panic", func() {
			server := api.NewServer(service.New(), nil)
			So(func() { server.Register(context.Background(), nil) }, ShouldPanic)
		})
	})
}

func TestStatsHandler_NoProvider(t *testing.T) {
	Convey("Given a stats handler without a provider", t, func() {
		h := api.NewStatsHandler(nil)
		w := httptest.NewRecorder()
		h.HandleStats(w, httptest.NewRequest(http.MethodGet, "/stats", nil))

		Convey("Then it should answer 503", func() {
			So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
			So(decode(w)["message"], ShouldEqual, api.ErrNoStats.Error())
		})
	})
}

func TestMiddleware(t *testing.T) {
	Convey("Given the full middleware chain", t, func() {
		var buf bytes.Buffer
		So(logger.Init(logger.WithWriter(&buf)), ShouldBeNil)
		So(logger.SetLevelString("debug"), ShouldBeNil)
		defer func() { _ = logger.SetLevelString("info") }()

		mux := http.NewServeMux()
		server := api.NewServer(service.New(service.WithRecorder(nopRecorder{})), logger.Get())
		server.Register(context.Background(), mux)
		h := server.Handler(mux)

		Convey("When no request ID is sent", func() {
			w := get(h, "/validar/0548912345")

			Convey("Then a UUID should be generated and echoed", func() {
				id := w.Header().Get(api.RequestIDHeader)
				So(len(id), ShouldEqual, 36)
				So(buf.String(), ShouldContainSubstring, "request_id="+id)
				So(buf.String(), ShouldContainSubstring, "request completed")
				So(buf.String(), ShouldContainSubstring, "status=200")
			})
		})

		Convey("When a request ID is sent", func() {
			req := httptest.NewRequest(http.MethodGet, "/validar/9948912345", nil)
			req.Header.Set(api.RequestIDHeader, "client-id-1")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			Convey("Then it should be reused", func() {
				So(w.Header().Get(api.RequestIDHeader), ShouldEqual, "client-id-1")
				So(buf.String(), ShouldContainSubstring, "request_id=client-id-1")
				So(buf.String(), ShouldContainSubstring, "status=400")
			})
		})
	})
}

func TestMetricsMiddleware(t *testing.T) {
	Convey("Given a handler wrapped with metrics", t, func() {
		h := api.MetricsMiddleware(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}, "metrics_test_endpoint")

		before, err := metrics.CounterValue(metrics.GetRegistry(), "cedula_validator_http_errors_total",
			map[string]string{"endpoint": "metrics_test_endpoint", "error_type": "client_error"})
		So(err, ShouldBeNil)

		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodGet, "/", nil))

		Convey("Then the error should be counted as a client error", func() {
			after, err := metrics.CounterValue(metrics.GetRegistry(), "cedula_validator_http_errors_total",
				map[string]string{"endpoint": "metrics_test_endpoint", "error_type": "client_error"})
			So(err, ShouldBeNil)
			So(after-before, ShouldEqual, 1)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}
