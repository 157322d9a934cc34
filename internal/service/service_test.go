package service

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"cinegram/internal/models"
	"cinegram/internal/repository"
)

// testEnv bundles a migrated throwaway database with its repositories.
type testEnv struct {
	db            *repository.SQLiteDB
	catalogRepo   *repository.CatalogRepository
	userRepo      *repository.UserRepository
	progressRepo  *repository.ProgressRepository
	watchlistRepo *repository.WatchlistRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := repository.NewSQLiteDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.Migrate())

	return &testEnv{
		db:            db,
		catalogRepo:   repository.NewCatalogRepository(db),
		userRepo:      repository.NewUserRepository(db),
		progressRepo:  repository.NewProgressRepository(db),
		watchlistRepo: repository.NewWatchlistRepository(db),
	}
}

func (e *testEnv) seedItem(t *testing.T, tmdbID int, title string) *models.CatalogItem {
	t.Helper()

	item, err := e.catalogRepo.Create(&models.CatalogItem{
		TMDBID:    tmdbID,
		MediaType: models.MediaTypeMovie,
		Title:     title,
		Genres:    []models.Genre{},
		Cast:      []models.CastMember{},
	})
	require.NoError(t, err)
	return item
}

func (e *testEnv) seedUser(t *testing.T, telegramID int64) *models.User {
	t.Helper()

	user, err := e.userRepo.GetOrCreate(&models.User{TelegramID: telegramID, FirstName: "Test"})
	require.NoError(t, err)
	return user
}
