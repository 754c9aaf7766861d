package handler

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/smartruga/livestock-api/internal/config"
	"github.com/smartruga/livestock-api/internal/model"
	"github.com/smartruga/livestock-api/internal/repository"
)

func inviteRows(email string, expiresAt time.Time, usedAt *time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "ranch_id", "email", "role", "token_hash", "expires_at", "created_by", "used_at", "created_at",
	}).AddRow(uint64(5), uint64(4), email, "vet", "hash", expiresAt, uint64(1), usedAt, time.Now())
}

func TestInviteAccept_AlreadyUsed(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	used := time.Now().Add(-time.Hour)
	mock.ExpectQuery("FROM invites WHERE token_hash").
		WillReturnRows(inviteRows("owner@example.com", time.Now().Add(time.Hour), &used))

	h := NewInviteHandler(config.Config{}, repository.NewInviteRepo(db), nil, nil)
	c, rec := newTestCtx(http.MethodPost, "/v1/invites/accept", `{"token":"raw-token"}`)

	if err := h.Accept(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "invite already used") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestInviteAccept_Expired(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM invites WHERE token_hash").
		WillReturnRows(inviteRows("owner@example.com", time.Now().Add(-time.Minute), nil))

	h := NewInviteHandler(config.Config{}, repository.NewInviteRepo(db), nil, nil)
	c, rec := newTestCtx(http.MethodPost, "/v1/invites/accept", `{"token":"raw-token"}`)

	if err := h.Accept(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "invite expired") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestInviteAccept_WrongEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM invites WHERE token_hash").
		WillReturnRows(inviteRows("someone-else@example.com", time.Now().Add(time.Hour), nil))

	h := NewInviteHandler(config.Config{}, repository.NewInviteRepo(db), nil, nil)
	c, rec := newTestCtx(http.MethodPost, "/v1/invites/accept", `{"token":"raw-token"}`)

	if err := h.Accept(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestInviteAccept_MissingToken(t *testing.T) {
	h := NewInviteHandler(config.Config{}, nil, nil, nil)
	c, rec := newTestCtx(http.MethodPost, "/v1/invites/accept", `{"token":"  "}`)

	if err := h.Accept(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestInviteCreate_OwnerInviteRequiresOwner(t *testing.T) {
	h := NewInviteHandler(config.Config{}, nil, nil, nil)
	c, rec := newTestCtx(http.MethodPost, "/v1/ranches/green-hills/invites", `{"email":"new@example.com","ranchRole":"owner"}`)
	c.Set("membership", model.RanchMember{RanchID: 4, UserID: 1, Role: model.RanchRoleManager, Status: model.MemberStatusActive})

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", rec.Code, rec.Body.String())
	}
}

func userRows(id uint64, email string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "email", "password_hash", "first_name", "last_name",
		"platform_role", "is_active", "deleted_at", "created_at", "updated_at",
	}).AddRow(id, email, "hash", nil, nil, "user", true, nil, now, now)
}

func TestInviteCreate_PendingMembershipForExistingUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	// Invitee already has an account but no membership in the ranch.
	mock.ExpectQuery("FROM users WHERE email").
		WillReturnRows(userRows(2, "vet@example.com"))
	mock.ExpectQuery("FROM ranch_members WHERE ranch_id").
		WillReturnRows(sqlmock.NewRows([]string{"id", "ranch_id", "user_id", "role", "status", "created_at", "updated_at"}))
	mock.ExpectQuery("FROM invites WHERE ranch_id").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("INSERT INTO invites").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec("ON DUPLICATE KEY UPDATE").
		WithArgs(uint64(4), uint64(2), model.RanchRoleVet, model.MemberStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))

	h := NewInviteHandler(config.Config{InviteTTLDays: 7},
		repository.NewInviteRepo(db), repository.NewMemberRepo(db), repository.NewUserRepo(db))
	c, rec := newTestCtx(http.MethodPost, "/v1/ranches/green-hills/invites", `{"email":"vet@example.com","ranchRole":"vet"}`)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "token") {
		t.Fatalf("raw token missing from response: %s", rec.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("pending membership upsert not issued: %v", err)
	}
}

func TestInviteCreate_OpenInviteConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM users WHERE email").
		WillReturnRows(userRows(2, "vet@example.com"))
	mock.ExpectQuery("FROM ranch_members WHERE ranch_id").
		WillReturnRows(sqlmock.NewRows([]string{"id", "ranch_id", "user_id", "role", "status", "created_at", "updated_at"}))
	mock.ExpectQuery("FROM invites WHERE ranch_id").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	h := NewInviteHandler(config.Config{InviteTTLDays: 7},
		repository.NewInviteRepo(db), repository.NewMemberRepo(db), repository.NewUserRepo(db))
	c, rec := newTestCtx(http.MethodPost, "/v1/ranches/green-hills/invites", `{"email":"vet@example.com","ranchRole":"vet"}`)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 while an invite is open, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestInviteCreate_RejectsUnknownRole(t *testing.T) {
	h := NewInviteHandler(config.Config{}, nil, nil, nil)
	c, rec := newTestCtx(http.MethodPost, "/v1/ranches/green-hills/invites", `{"email":"new@example.com","ranchRole":"superuser"}`)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}
