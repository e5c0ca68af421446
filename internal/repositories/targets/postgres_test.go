package targets

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/krsbot-dev/krsbot/internal/common"
	"github.com/krsbot-dev/krsbot/internal/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+course_targets\s*\(id,\s*account_id,\s*course_id,\s*course_name,\s*priority,\s*status,\s*created_at,\s*updated_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6,\s*\$7,\s*\$8\)\s*$`

	mock.ExpectExec(q).
		WithArgs(sqlmock.AnyArg(), "a-1", "C100", "Algoritma", 1, models.TargetPending, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	got, err := repo.Create(context.Background(), &models.CourseTarget{
		AccountID: "a-1", CourseID: "C100", CourseName: "Algoritma", Priority: 1,
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID == "" || got.Status != models.TargetPending {
		t.Fatalf("unexpected target: %+v", got)
	}
}

func TestListPending_FiltersOnStatus(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*account_id,.*FROM\s+course_targets\s+WHERE\s+account_id\s*=\s*\$1\s+AND\s+status\s*=\s*\$2\s+ORDER\s+BY\s+priority,\s*created_at,\s*id\s*$`

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "account_id", "course_id", "course_name", "priority", "status", "created_at", "updated_at"}).
		AddRow("t-1", "a-1", "C100", "Algoritma", 1, "pending", now, now)
	mock.ExpectQuery(q).
		WithArgs("a-1", models.TargetPending).
		WillReturnRows(rows)

	got, err := repo.ListPending(context.Background(), "a-1")
	if err != nil {
		t.Fatalf("ListPending error: %v", err)
	}
	if len(got) != 1 || got[0].CourseID != "C100" {
		t.Fatalf("unexpected targets: %+v", got)
	}
}

func TestMarkCompleted_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE\s+course_targets\s+SET\s+status`).
		WithArgs(models.TargetCompleted, sqlmock.AnyArg(), "ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkCompleted(context.Background(), "ghost")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want common.ErrNotFound, got %v", err)
	}
}

func TestDeleteByAccount_ZeroRowsIsFine(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+course_targets\s+WHERE\s+account_id\s*=\s*\$1`).
		WithArgs("a-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.DeleteByAccount(context.Background(), "a-1"); err != nil {
		t.Fatalf("DeleteByAccount error: %v", err)
	}
}

func TestListByAccount_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+id,\s*account_id,`).
		WithArgs("a-1").
		WillReturnError(errors.New("db down"))

	_, err := repo.ListByAccount(context.Background(), "a-1")
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}
