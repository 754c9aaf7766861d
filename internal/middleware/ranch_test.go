package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/smartruga/livestock-api/internal/model"
)

func roleTestCtx(role model.RanchRole) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(ctxMembership, model.RanchMember{Role: role, Status: model.MemberStatusActive})
	return c, rec
}

func TestRequireRanchRole_Allowed(t *testing.T) {
	mw := RequireRanchRole(model.RanchRoleOwner, model.RanchRoleManager)
	called := false
	h := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	c, rec := roleTestCtx(model.RanchRoleManager)
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatal("next handler not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequireRanchRole_Denied(t *testing.T) {
	mw := RequireRanchRole(model.RanchRoleOwner, model.RanchRoleManager)
	h := mw(func(c echo.Context) error {
		t.Fatal("next handler must not run")
		return nil
	})

	c, rec := roleTestCtx(model.RanchRoleWorker)
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestRequireRanchRole_NoMembership(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := RequireRanchRole(model.RanchRoleOwner)
	h := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without membership, got %d", rec.Code)
	}
}
