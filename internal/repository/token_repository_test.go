package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestTokenRepo_Rotate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	exp := time.Now().Add(30 * 24 * time.Hour)
	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE refresh_tokens SET revoked_at=NOW(), replaced_by_hash=? WHERE token_hash=? AND revoked_at IS NULL")).
		WithArgs("new-hash", "old-hash").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?,?,?)")).
		WithArgs(uint64(7), "new-hash", exp).
		WillReturnResult(sqlmock.NewResult(2, 1))

	repo := NewTokenRepo(db)
	if err := repo.Rotate(context.Background(), "old-hash", "new-hash", 7, exp); err != nil {
		t.Fatalf("rotate failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTokenRepo_Rotate_AlreadySpent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	// Zero rows affected means another caller spent the token first.
	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE refresh_tokens SET revoked_at=NOW(), replaced_by_hash=? WHERE token_hash=? AND revoked_at IS NULL")).
		WithArgs("new-hash", "old-hash").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewTokenRepo(db)
	err = repo.Rotate(context.Background(), "old-hash", "new-hash", 7, time.Now())
	if !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("expected ErrTokenRevoked, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTokenRepo_Revoke_AlreadyRevoked(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	// Zero rows affected is not an error: logout must always succeed.
	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE refresh_tokens SET revoked_at=NOW() WHERE token_hash=? AND revoked_at IS NULL")).
		WithArgs("spent-hash").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewTokenRepo(db)
	if err := repo.Revoke(context.Background(), "spent-hash"); err != nil {
		t.Fatalf("revoke of spent token must not fail, got %v", err)
	}
}

func TestTokenRepo_GetByHash_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, user_id, token_hash, expires_at, revoked_at, replaced_by_hash, created_at FROM refresh_tokens WHERE token_hash=? LIMIT 1")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "token_hash", "expires_at", "revoked_at", "replaced_by_hash", "created_at"}))

	repo := NewTokenRepo(db)
	if _, err := repo.GetByHash(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
