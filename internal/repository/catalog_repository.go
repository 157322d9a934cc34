package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"cinegram/internal/models"
	"cinegram/internal/timeutil"
)

// CatalogRepository handles catalog item database operations.
type CatalogRepository struct {
	db *sql.DB
}

// NewCatalogRepository creates a new CatalogRepository.
func NewCatalogRepository(sqliteDB *SQLiteDB) *CatalogRepository {
	return &CatalogRepository{db: sqliteDB.db}
}

const catalogColumns = `id, tmdb_id, media_type, title, overview, poster_path, backdrop_path,
	release_date, vote_average, vote_count, runtime, genres_json, cast_json, detail_checked_at, created_at`

// Create inserts a new catalog item with summary fields. If a row with the
// same TMDB id already exists the insert is a no-op and the existing row is
// returned, so repeated discovery calls never overwrite the first summary.
func (r *CatalogRepository) Create(item *models.CatalogItem) (*models.CatalogItem, error) {
	genresJSON, err := json.Marshal(item.Genres)
	if err != nil {
		return nil, fmt.Errorf("encode genres: %w", err)
	}
	castJSON, err := json.Marshal(item.Cast)
	if err != nil {
		return nil, fmt.Errorf("encode cast: %w", err)
	}

	now := timeutil.Now()
	_, err = r.db.Exec(`
		INSERT INTO catalog_items (tmdb_id, media_type, title, overview, poster_path, backdrop_path,
			release_date, vote_average, vote_count, runtime, genres_json, cast_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(tmdb_id) DO NOTHING
	`, item.TMDBID, item.MediaType, item.Title, item.Overview, item.PosterPath, item.BackdropPath,
		item.ReleaseDate, item.VoteAverage, item.VoteCount, item.Runtime, string(genresJSON), string(castJSON), now)
	if err != nil {
		return nil, err
	}

	return r.GetByTMDBID(item.TMDBID)
}

// GetByTMDBID retrieves a catalog item by its external TMDB id.
func (r *CatalogRepository) GetByTMDBID(tmdbID int) (*models.CatalogItem, error) {
	row := r.db.QueryRow(`SELECT `+catalogColumns+` FROM catalog_items WHERE tmdb_id = ?`, tmdbID)
	return scanCatalogItem(row)
}

// GetByID retrieves a catalog item by its internal id.
func (r *CatalogRepository) GetByID(id int64) (*models.CatalogItem, error) {
	row := r.db.QueryRow(`SELECT `+catalogColumns+` FROM catalog_items WHERE id = ?`, id)
	return scanCatalogItem(row)
}

// UpdateDetail merges the detail backfill (runtime, full genre list, cast)
// into the stored record and stamps detail_checked_at so empty upstream
// credits are not re-fetched until the recheck window passes.
func (r *CatalogRepository) UpdateDetail(id int64, runtime int, genres []models.Genre, cast []models.CastMember) error {
	genresJSON, err := json.Marshal(genres)
	if err != nil {
		return fmt.Errorf("encode genres: %w", err)
	}
	castJSON, err := json.Marshal(cast)
	if err != nil {
		return fmt.Errorf("encode cast: %w", err)
	}

	_, err = r.db.Exec(`
		UPDATE catalog_items
		SET runtime = ?, genres_json = ?, cast_json = ?, detail_checked_at = ?
		WHERE id = ?
	`, runtime, string(genresJSON), string(castJSON), timeutil.Now(), id)
	return err
}

// ListAll returns every cached catalog item, newest first. Used by the
// admin surface.
func (r *CatalogRepository) ListAll() ([]models.CatalogItem, error) {
	rows, err := r.db.Query(`SELECT ` + catalogColumns + ` FROM catalog_items ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.CatalogItem
	for rows.Next() {
		item, err := scanCatalogItemRow(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// DeleteCascade removes a catalog item together with every progress and
// watchlist row referencing it, in one transaction. Dependents are deleted
// before the parent so a failure never leaves dangling references.
func (r *CatalogRepository) DeleteCascade(id int64) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM watch_progress WHERE item_id = ?`, id); err != nil {
		return fmt.Errorf("delete progress rows: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM watchlist WHERE item_id = ?`, id); err != nil {
		return fmt.Errorf("delete watchlist rows: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM catalog_items WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete catalog item: %w", err)
	}

	return tx.Commit()
}

// prefixedCatalogColumns qualifies the catalog column list with a table
// alias for join queries.
func prefixedCatalogColumns(alias string) string {
	return alias + `.id, ` + alias + `.tmdb_id, ` + alias + `.media_type, ` + alias + `.title, ` + alias + `.overview,
	       ` + alias + `.poster_path, ` + alias + `.backdrop_path, ` + alias + `.release_date,
	       ` + alias + `.vote_average, ` + alias + `.vote_count, ` + alias + `.runtime,
	       ` + alias + `.genres_json, ` + alias + `.cast_json, ` + alias + `.detail_checked_at, ` + alias + `.created_at`
}

// decodeItemJSON fills the JSON-encoded columns scanned from a join row.
func decodeItemJSON(item *models.CatalogItem, genresJSON, castJSON string, checkedAt sql.NullTime) error {
	if err := json.Unmarshal([]byte(genresJSON), &item.Genres); err != nil {
		return fmt.Errorf("decode genres for item %d: %w", item.ID, err)
	}
	if err := json.Unmarshal([]byte(castJSON), &item.Cast); err != nil {
		return fmt.Errorf("decode cast for item %d: %w", item.ID, err)
	}
	if checkedAt.Valid {
		t := checkedAt.Time
		item.DetailCheckedAt = &t
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCatalogItem(row *sql.Row) (*models.CatalogItem, error) {
	item, err := scanCatalogItemRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return item, err
}

func scanCatalogItemRow(row rowScanner) (*models.CatalogItem, error) {
	item := &models.CatalogItem{}
	var genresJSON, castJSON string
	var checkedAt sql.NullTime

	err := row.Scan(
		&item.ID, &item.TMDBID, &item.MediaType, &item.Title, &item.Overview,
		&item.PosterPath, &item.BackdropPath, &item.ReleaseDate,
		&item.VoteAverage, &item.VoteCount, &item.Runtime,
		&genresJSON, &castJSON, &checkedAt, &item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(genresJSON), &item.Genres); err != nil {
		return nil, fmt.Errorf("decode genres for item %d: %w", item.ID, err)
	}
	if err := json.Unmarshal([]byte(castJSON), &item.Cast); err != nil {
		return nil, fmt.Errorf("decode cast for item %d: %w", item.ID, err)
	}
	if checkedAt.Valid {
		t := checkedAt.Time
		item.DetailCheckedAt = &t
	}
	return item, nil
}
