package repository

import (
	"database/sql"

	"cinegram/internal/models"
	"cinegram/internal/timeutil"
)

// WatchlistRepository handles watchlist database operations.
type WatchlistRepository struct {
	db *sql.DB
}

// NewWatchlistRepository creates a new WatchlistRepository.
func NewWatchlistRepository(sqliteDB *SQLiteDB) *WatchlistRepository {
	return &WatchlistRepository{db: sqliteDB.db}
}

// Add inserts a membership row for the (user, item) pair. Membership is a
// set: a duplicate add is a no-op against the UNIQUE(user_id, item_id)
// constraint and the existing entry is returned.
func (r *WatchlistRepository) Add(userID, itemID int64) (*models.WatchlistEntry, error) {
	_, err := r.db.Exec(`
		INSERT INTO watchlist (user_id, item_id, added_at)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id, item_id) DO NOTHING
	`, userID, itemID, timeutil.Now())
	if err != nil {
		return nil, err
	}

	return r.Get(userID, itemID)
}

// Get retrieves the entry for a (user, item) pair, or nil when absent.
func (r *WatchlistRepository) Get(userID, itemID int64) (*models.WatchlistEntry, error) {
	entry := &models.WatchlistEntry{}
	err := r.db.QueryRow(`
		SELECT id, user_id, item_id, added_at
		FROM watchlist WHERE user_id = ? AND item_id = ?
	`, userID, itemID).Scan(&entry.ID, &entry.UserID, &entry.ItemID, &entry.AddedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Remove deletes by composite key. Removing an absent pair is not an error.
func (r *WatchlistRepository) Remove(userID, itemID int64) error {
	_, err := r.db.Exec(`DELETE FROM watchlist WHERE user_id = ? AND item_id = ?`, userID, itemID)
	return err
}

// Contains reports membership for the (user, item) pair.
func (r *WatchlistRepository) Contains(userID, itemID int64) (bool, error) {
	var one int
	err := r.db.QueryRow(`SELECT 1 FROM watchlist WHERE user_id = ? AND item_id = ?`, userID, itemID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// EntryWithItem pairs a watchlist entry with its resolved catalog item.
type EntryWithItem struct {
	Entry models.WatchlistEntry `json:"entry"`
	Item  models.CatalogItem    `json:"item"`
}

// ListByUser returns a user's watchlist joined to catalog items,
// most-recently-added first. The inner join guarantees no dangling
// references.
func (r *WatchlistRepository) ListByUser(userID int64) ([]EntryWithItem, error) {
	rows, err := r.db.Query(`
		SELECT w.id, w.user_id, w.item_id, w.added_at,
		       `+prefixedCatalogColumns("c")+`
		FROM watchlist w
		JOIN catalog_items c ON w.item_id = c.id
		WHERE w.user_id = ?
		ORDER BY w.added_at DESC, w.id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []EntryWithItem
	for rows.Next() {
		var entry EntryWithItem
		var genresJSON, castJSON string
		var checkedAt sql.NullTime
		err := rows.Scan(
			&entry.Entry.ID, &entry.Entry.UserID, &entry.Entry.ItemID, &entry.Entry.AddedAt,
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
