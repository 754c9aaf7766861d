package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"

	"github.com/smartruga/livestock-api/internal/model"
)

func TestInviteRepo_Create_NormalizesEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	exp := time.Now().Add(7 * 24 * time.Hour)
	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO invites (ranch_id, email, role, token_hash, expires_at, created_by) VALUES (?,?,?,?,?,?)")).
		WithArgs(uint64(3), "vet@example.com", model.RanchRoleVet, "hash", exp, uint64(1)).
		WillReturnResult(sqlmock.NewResult(11, 1))

	inv := model.Invite{
		RanchID:   3,
		Email:     "  Vet@Example.COM ",
		Role:      model.RanchRoleVet,
		TokenHash: "hash",
		ExpiresAt: exp,
		CreatedBy: 1,
	}
	repo := NewInviteRepo(db)
	if err := repo.Create(context.Background(), &inv); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if inv.ID != 11 {
		t.Fatalf("expected id 11, got %d", inv.ID)
	}
	if inv.Email != "vet@example.com" {
		t.Fatalf("email not normalized: %s", inv.Email)
	}
}

func TestInviteRepo_Create_OpenDuplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO invites").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	inv := model.Invite{RanchID: 3, Email: "vet@example.com", Role: model.RanchRoleVet}
	repo := NewInviteRepo(db)
	if err := repo.Create(context.Background(), &inv); !errors.Is(err, ErrInviteExists) {
		t.Fatalf("expected ErrInviteExists, got %v", err)
	}
}

func TestInviteRepo_MarkUsed_AlreadyUsed(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	// Zero rows affected: a concurrent accept or revoke won.
	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE invites SET used_at=NOW() WHERE id=? AND used_at IS NULL")).
		WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewInviteRepo(db)
	if err := repo.MarkUsed(context.Background(), 5); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestInviteRepo_RotateToken_UsedInvite(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE invites SET token_hash=?, expires_at=? WHERE id=? AND used_at IS NULL")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewInviteRepo(db)
	err = repo.RotateToken(context.Background(), 5, "fresh-hash", time.Now())
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}
