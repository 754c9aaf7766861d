package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"

	"github.com/smartruga/livestock-api/internal/model"
)

func TestMemberRepo_Create_DuplicatePair(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO ranch_members").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	m := model.RanchMember{RanchID: 4, UserID: 2, Role: model.RanchRoleWorker, Status: model.MemberStatusActive}
	repo := NewMemberRepo(db)
	if err := repo.Create(context.Background(), &m); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestMemberRepo_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("ON DUPLICATE KEY UPDATE").
		WithArgs(uint64(4), uint64(2), model.RanchRoleVet, model.MemberStatusActive).
		WillReturnResult(sqlmock.NewResult(0, 2))

	repo := NewMemberRepo(db)
	if err := repo.Upsert(context.Background(), 4, 2, model.RanchRoleVet, model.MemberStatusActive); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMemberRepo_Get_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM ranch_members WHERE ranch_id").
		WillReturnRows(sqlmock.NewRows([]string{"id", "ranch_id", "user_id", "role", "status", "created_at", "updated_at"}))

	repo := NewMemberRepo(db)
	if _, err := repo.Get(context.Background(), 4, 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
