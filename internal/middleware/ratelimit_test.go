package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestRateKey_IPAndRoute(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/auth/login")

	got := rateKey("rl", c)
	want := "rl:ip:192.0.2.1:route:POST /v1/auth/login"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestRateKey_RouteSeparatesBuckets(t *testing.T) {
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/v1/species", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/species")
	a := rateKey("rl", c)

	req = httptest.NewRequest(http.MethodGet, "/v1/ranches", nil)
	c = e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/ranches")
	b := rateKey("rl", c)

	if a == b {
		t.Fatalf("distinct routes must not share a bucket: %q", a)
	}
}
