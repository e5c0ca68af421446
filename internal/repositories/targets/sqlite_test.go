package targets

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/krsbot-dev/krsbot/internal/common"
	"github.com/krsbot-dev/krsbot/internal/models"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:targetsrepo?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE IF NOT EXISTS course_targets (
  id TEXT PRIMARY KEY,
  account_id TEXT NOT NULL,
  course_id TEXT NOT NULL,
  course_name TEXT NOT NULL DEFAULT '',
  priority INTEGER NOT NULL DEFAULT 0,
  status TEXT NOT NULL DEFAULT 'pending',
  created_at TIMESTAMP NOT NULL,
  updated_at TIMESTAMP NOT NULL
);
`)
	require.NoError(t, err)
	return db
}

func addTarget(t *testing.T, repo *SQLiteRepository, accountID, courseID string, priority int) *models.CourseTarget {
	t.Helper()
	created, err := repo.Create(context.Background(), &models.CourseTarget{
		AccountID:  accountID,
		CourseID:   courseID,
		CourseName: "Course " + courseID,
		Priority:   priority,
	})
	require.NoError(t, err)
	return created
}

func TestSQLite_CreateDefaultsToPending(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))

	created := addTarget(t, repo, "a-1", "C100", 1)
	require.NotEmpty(t, created.ID)
	require.Equal(t, models.TargetPending, created.Status)
	require.False(t, created.CreatedAt.IsZero())
}

func TestSQLite_ListPending_PriorityOrder(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))

	addTarget(t, repo, "a-1", "low", 9)
	addTarget(t, repo, "a-1", "high", 1)
	mid := addTarget(t, repo, "a-1", "mid", 5)
	addTarget(t, repo, "other", "foreign", 1)

	require.NoError(t, repo.MarkCompleted(context.Background(), mid.ID))

	pending, err := repo.ListPending(context.Background(), "a-1")
	require.NoError(t, err)
	require.Len(t, pending, 2)
	require.Equal(t, "high", pending[0].CourseID)
	require.Equal(t, "low", pending[1].CourseID)

	all, err := repo.ListByAccount(context.Background(), "a-1")
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, models.TargetCompleted, all[1].Status)
}

func TestSQLite_ListPending_SamePriorityKeepsCreationOrder(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))

	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	for i, course := range []string{"first", "second", "third"} {
		_, err := repo.Create(context.Background(), &models.CourseTarget{
			AccountID: "a-1",
			CourseID:  course,
			Priority:  3,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
		require.NoError(t, err)
	}

	pending, err := repo.ListPending(context.Background(), "a-1")
	require.NoError(t, err)
	require.Len(t, pending, 3)
	require.Equal(t, "first", pending[0].CourseID)
	require.Equal(t, "third", pending[2].CourseID)
}

func TestSQLite_MarkCompleted_NotFound(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))

	err := repo.MarkCompleted(context.Background(), "ghost")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestSQLite_DeleteByAccount(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))

	addTarget(t, repo, "a-1", "C100", 1)
	addTarget(t, repo, "a-1", "C200", 2)
	keep := addTarget(t, repo, "a-2", "C300", 1)

	require.NoError(t, repo.DeleteByAccount(context.Background(), "a-1"))
	// Removing an account with no targets is not an error.
	require.NoError(t, repo.DeleteByAccount(context.Background(), "a-1"))

	gone, err := repo.ListByAccount(context.Background(), "a-1")
	require.NoError(t, err)
	require.Empty(t, gone)

	left, err := repo.ListByAccount(context.Background(), "a-2")
	require.NoError(t, err)
	require.Len(t, left, 1)
	require.Equal(t, keep.ID, left[0].ID)
}

func TestSQLite_Delete(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))

	created := addTarget(t, repo, "a-1", "C100", 1)
	require.NoError(t, repo.Delete(context.Background(), created.ID))
	require.ErrorIs(t, repo.Delete(context.Background(), created.ID), common.ErrNotFound)
}
