package repository

import (
	"database/sql"

	"cinegram/internal/models"
	"cinegram/internal/timeutil"
)

// ProgressRepository handles watch progress database operations.
type ProgressRepository struct {
	db *sql.DB
}

// NewProgressRepository creates a new ProgressRepository.
func NewProgressRepository(sqliteDB *SQLiteDB) *ProgressRepository {
	return &ProgressRepository{db: sqliteDB.db}
}

// Upsert writes the playback bookmark for a (user, item) pair as a single
// atomic statement. The UNIQUE(user_id, item_id) constraint makes
// concurrent first-writes collapse into one row.
func (r *ProgressRepository) Upsert(record *models.WatchProgress) (*models.WatchProgress, error) {
	now := timeutil.Now()
	_, err := r.db.Exec(`
		INSERT INTO watch_progress (user_id, item_id, position_secs, duration_secs, completed, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, item_id) DO UPDATE SET
			position_secs = excluded.position_secs,
			duration_secs = excluded.duration_secs,
			completed = excluded.completed,
			updated_at = excluded.updated_at
	`, record.UserID, record.ItemID, record.PositionSecs, record.DurationSecs, record.Completed, now)
	if err != nil {
		return nil, err
	}

	return r.Get(record.UserID, record.ItemID)
}

// Get retrieves the bookmark for a (user, item) pair, or nil when absent.
func (r *ProgressRepository) Get(userID, itemID int64) (*models.WatchProgress, error) {
	record := &models.WatchProgress{}
	err := r.db.QueryRow(`
		SELECT id, user_id, item_id, position_secs, duration_secs, completed, updated_at
		FROM watch_progress WHERE user_id = ? AND item_id = ?
	`, userID, itemID).Scan(
		&record.ID, &record.UserID, &record.ItemID,
		&record.PositionSecs, &record.DurationSecs, &record.Completed, &record.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

// ProgressWithItem pairs a bookmark with its resolved catalog item.
type ProgressWithItem struct {
	Progress models.WatchProgress `json:"progress"`
	Item     models.CatalogItem   `json:"item"`
}

// ListByUser returns a user's bookmarks joined to their catalog items,
// newest-touched first. The inner join guarantees no dangling references.
func (r *ProgressRepository) ListByUser(userID int64) ([]ProgressWithItem, error) {
	rows, err := r.db.Query(`
		SELECT p.id, p.user_id, p.item_id, p.position_secs, p.duration_secs, p.completed, p.updated_at,
		       `+prefixedCatalogColumns("c")+`
		FROM watch_progress p
		JOIN catalog_items c ON p.item_id = c.id
		WHERE p.user_id = ?
		ORDER BY p.updated_at DESC, p.id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []ProgressWithItem
	for rows.Next() {
		var entry ProgressWithItem
		var genresJSON, castJSON string
		var checkedAt sql.NullTime
		err := rows.Scan(
			&entry.Progress.ID, &entry.Progress.UserID, &entry.Progress.ItemID,
			&entry.Progress.PositionSecs, &entry.Progress.DurationSecs, &entry.Progress.Completed, &entry.Progress.UpdatedAt,
			&entry.Item.ID, &entry.Item.TMDBID, &entry.Item.MediaType, &entry.Item.Title, &entry.Item.Overview,
			&entry.Item.PosterPath, &entry.Item.BackdropPath, &entry.Item.ReleaseDate,
			&entry.Item.VoteAverage, &entry.Item.VoteCount, &entry.Item.Runtime,
			&genresJSON, &castJSON, &checkedAt, &entry.Item.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		if err := decodeItemJSON(&entry.Item, genresJSON, castJSON, checkedAt); err != nil {
			return nil, err
		}
		results = append(results, entry)
	}
	return results, rows.Err()
}
