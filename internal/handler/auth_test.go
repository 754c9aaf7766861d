package handler

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/smartruga/livestock-api/internal/config"
	"github.com/smartruga/livestock-api/internal/repository"
	"github.com/smartruga/livestock-api/internal/utils"
)

func clearedRefreshCookie(rec *httptest.ResponseRecorder) bool {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == refreshCookie && ck.MaxAge < 0 {
			return true
		}
	}
	return false
}

func TestLogout_NoToken(t *testing.T) {
	h := NewAuthHandler(config.Config{}, nil, nil)
	c, rec := newTestCtx(http.MethodPost, "/v1/auth/logout", "")

	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 without a token, got %d", rec.Code)
	}
	if !clearedRefreshCookie(rec) {
		t.Fatal("refresh cookie not cleared")
	}
}

func TestLogout_AlreadyRevokedToken(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	// Zero rows affected: the token was already revoked.  Logout must still
	// succeed.
	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE refresh_tokens SET revoked_at=NOW() WHERE token_hash=? AND revoked_at IS NULL")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	h := NewAuthHandler(config.Config{}, nil, repository.NewTokenRepo(db))
	c, rec := newTestCtx(http.MethodPost, "/v1/auth/logout", "")
	c.Request().AddCookie(&http.Cookie{Name: refreshCookie, Value: "spent-token"})

	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for a revoked token, got %d", rec.Code)
	}
	if !clearedRefreshCookie(rec) {
		t.Fatal("refresh cookie not cleared")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRefresh_ExpiredStoredToken(t *testing.T) {
	cfg := config.Config{JWTAccessSecret: "acc", JWTRefreshSecret: "ref", AccessTTLMin: 15, RefreshTTLDays: 30}
	signed, err := utils.NewRefreshToken(cfg.JWTRefreshSecret, utils.TokenClaims{UserID: 7, PlatformRole: "user"}, cfg.RefreshTTLDays)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM refresh_tokens WHERE token_hash").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "token_hash", "expires_at", "revoked_at", "replaced_by_hash", "created_at",
		}).AddRow(uint64(1), uint64(7), "hash", time.Now().Add(-time.Hour), nil, nil, time.Now().Add(-48*time.Hour)))

	h := NewAuthHandler(cfg, nil, repository.NewTokenRepo(db))
	c, rec := newTestCtx(http.MethodPost, "/v1/auth/refresh", `{"refresh_token":"`+signed.Token+`"}`)

	if err := h.Refresh(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired stored token, got %d: %s", rec.Code, rec.Body.String())
	}
}
