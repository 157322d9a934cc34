package repository

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"cinegram/internal/models"
)

// newTestDB opens a migrated throwaway database in a temp directory.
func newTestDB(t *testing.T) *SQLiteDB {
	t.Helper()

	db, err := NewSQLiteDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.Migrate())
	return db
}

// seedItem inserts a summary-only catalog item and returns the stored row.
func seedItem(t *testing.T, repo *CatalogRepository, tmdbID int, title string) *models.CatalogItem {
	t.Helper()

	item, err := repo.Create(&models.CatalogItem{
		TMDBID:    tmdbID,
		MediaType: models.MediaTypeMovie,
		Title:     title,
		Genres:    []models.Genre{},
		Cast:      []models.CastMember{},
	})
	require.NoError(t, err)
	require.NotNil(t, item)
	return item
}

// seedUser inserts a user and returns the stored row.
func seedUser(t *testing.T, repo *UserRepository, telegramID int64, firstName string) *models.User {
	t.Helper()

	user, err := repo.GetOrCreate(&models.User{
		TelegramID: telegramID,
		FirstName:  firstName,
	})
	require.NoError(t, err)
	require.NotNil(t, user)
	return user
}
