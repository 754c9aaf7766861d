package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"

	"github.com/smartruga/livestock-api/internal/config"
	"github.com/smartruga/livestock-api/internal/model"
	"github.com/smartruga/livestock-api/internal/repository"
)

func newTestCtx(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("auth_user", model.User{ID: 1, Email: "owner@example.com"})
	c.Set("ranch", model.Ranch{ID: 4, Slug: "green-hills"})
	c.Set("membership", model.RanchMember{RanchID: 4, UserID: 1, Role: model.RanchRoleOwner, Status: model.MemberStatusActive})
	return c, rec
}

func animalDetailRows(status model.AnimalStatus) *sqlmock.Rows {
	tag := "T-100"
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "public_id", "ranch_id", "species_id", "tag_number", "sex",
		"date_of_birth", "status", "created_at", "updated_at", "name", "code", "health",
	}).AddRow(uint64(9), "pub-9", uint64(4), uint64(2), tag, "female",
		nil, string(status), now, now, "Cattle", "cattle", "healthy")
}

func TestAnimalUpdate_TerminalStatusFrozen(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM animals a JOIN species s").
		WillReturnRows(animalDetailRows(model.AnimalStatusSold))

	h := NewAnimalHandler(config.Config{}, repository.NewAnimalRepo(db), nil, nil)
	c, rec := newTestCtx(http.MethodPatch, "/v1/ranches/green-hills/animals/9", `{"status":"active"}`)
	c.SetParamNames("animalId")
	c.SetParamValues("9")

	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "status transition not allowed") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestAnimalUpdate_TerminalStatusNeedsNotes(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM animals a JOIN species s").
		WillReturnRows(animalDetailRows(model.AnimalStatusActive))

	h := NewAnimalHandler(config.Config{}, repository.NewAnimalRepo(db), nil, nil)
	c, rec := newTestCtx(http.MethodPatch, "/v1/ranches/green-hills/animals/9", `{"status":"deceased"}`)
	c.SetParamNames("animalId")
	c.SetParamValues("9")

	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "notes required") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestAnimalUpdate_UnknownAnimal(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM animals a JOIN species s").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "public_id", "ranch_id", "species_id", "tag_number", "sex",
			"date_of_birth", "status", "created_at", "updated_at", "name", "code", "health",
		}))

	h := NewAnimalHandler(config.Config{}, repository.NewAnimalRepo(db), nil, nil)
	c, rec := newTestCtx(http.MethodPatch, "/v1/ranches/green-hills/animals/99", `{"status":"sold","notes":"auction"}`)
	c.SetParamNames("animalId")
	c.SetParamValues("99")

	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAnimalCreate_InvalidSex(t *testing.T) {
	h := NewAnimalHandler(config.Config{}, nil, nil, nil)
	c, rec := newTestCtx(http.MethodPost, "/v1/ranches/green-hills/animals", `{"speciesId":2,"sex":"other"}`)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAnimalCreate_BadDateOfBirth(t *testing.T) {
	h := NewAnimalHandler(config.Config{}, nil, nil, nil)
	c, rec := newTestCtx(http.MethodPost, "/v1/ranches/green-hills/animals", `{"speciesId":2,"sex":"male","dateOfBirth":"31-12-2024"}`)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "YYYY-MM-DD") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
