package accounts

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
	db, err := sql.Open("sqlite", "file:accountsrepo?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE IF NOT EXISTS accounts (
  id TEXT PRIMARY KEY,
  owner_id TEXT NOT NULL,
  username TEXT NOT NULL,
  password_encrypted TEXT NOT NULL,
  name TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT 'active',
  created_at TIMESTAMP NOT NULL,
  updated_at TIMESTAMP NOT NULL
);
`)
	require.NoError(t, err)
	return db
}

func TestSQLite_CreateAndGet(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))

	a := &models.Account{OwnerID: "local", Username: "student1", PasswordEncrypted: "enc-blob", Name: "Budi"}
	created, err := repo.Create(context.Background(), a)
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, models.AccountActive, created.Status)

	got, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, "student1", got.Username)
	require.Equal(t, "enc-blob", got.PasswordEncrypted)
	require.Equal(t, "Budi", got.Name)
	require.True(t, got.Active())
}

func TestSQLite_List_OwnerScopedAndOrdered(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))

	base := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	for i, spec := range []struct {
		owner, username string
	}{
		{"local", "first"},
		{"local", "second"},
		{"other", "foreign"},
	} {
		_, err := repo.Create(context.Background(), &models.Account{
			OwnerID:           spec.owner,
			Username:          spec.username,
			PasswordEncrypted: "enc",
			CreatedAt:         base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	got, err := repo.List(context.Background(), "local")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "first", got[0].Username)
	require.Equal(t, "second", got[1].Username)
}

func TestSQLite_UpdateAndRotate(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))

	created, err := repo.Create(context.Background(), &models.Account{
		OwnerID: "local", Username: "old", PasswordEncrypted: "enc-1",
	})
	require.NoError(t, err)

	created.Username = "new"
	created.Name = "Renamed"
	require.NoError(t, repo.Update(context.Background(), created))
	require.NoError(t, repo.UpdatePassword(context.Background(), created.ID, "enc-2"))

	got, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, "new", got.Username)
	require.Equal(t, "Renamed", got.Name)
	require.Equal(t, "enc-2", got.PasswordEncrypted)
}

func TestSQLite_SetStatus(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))

	created, err := repo.Create(context.Background(), &models.Account{
		OwnerID: "local", Username: "u", PasswordEncrypted: "enc",
	})
	require.NoError(t, err)

	require.NoError(t, repo.SetStatus(context.Background(), created.ID, models.AccountInactive))

	got, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, models.AccountInactive, got.Status)
	require.False(t, got.Active())
}

func TestSQLite_Delete(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))

	created, err := repo.Create(context.Background(), &models.Account{
		OwnerID: "local", Username: "u", PasswordEncrypted: "enc",
	})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(context.Background(), created.ID))

	_, err = repo.GetByID(context.Background(), created.ID)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestSQLite_MutationsOnMissingID(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))

	err := repo.SetStatus(context.Background(), "ghost", models.AccountInactive)
	require.ErrorIs(t, err, common.ErrNotFound)

	err = repo.UpdatePassword(context.Background(), "ghost", "enc")
	require.ErrorIs(t, err, common.ErrNotFound)

	err = repo.Update(context.Background(), &models.Account{ID: "ghost", Username: "u"})
	require.ErrorIs(t, err, common.ErrNotFound)

	err = repo.Delete(context.Background(), "ghost")
	require.ErrorIs(t, err, common.ErrNotFound)
}
