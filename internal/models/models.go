package models

import "time"

// MediaType distinguishes movies from series in the catalog.
type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeTV    MediaType = "tv"
)

// Valid reports whether the media type is one of the known variants.
func (m MediaType) Valid() bool {
	return m == MediaTypeMovie || m == MediaTypeTV
}

// Genre is a (TMDB genre id, display name) pair attached to a catalog item.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CastMember is a single credited cast entry, capped at ten per item.
type CastMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path,omitempty"`
}

// CatalogItem is a locally cached catalog entry. Summary fields are written
// once on first reference; runtime, the full genre list and cast arrive
// later via the single detail backfill.
type CatalogItem struct {
	ID              int64        `json:"id"`
	TMDBID          int          `json:"tmdb_id"`
	MediaType       MediaType    `json:"media_type"`
	Title           string       `json:"title"`
	Overview        string       `json:"overview"`
	PosterPath      string       `json:"poster_path"`
	BackdropPath    string       `json:"backdrop_path"`
	ReleaseDate     string       `json:"release_date"` // YYYY-MM-DD
	VoteAverage     float64      `json:"vote_average"`
	VoteCount       int          `json:"vote_count"`
	Runtime         int          `json:"runtime,omitempty"` // minutes, 0 until backfill
	Genres          []Genre      `json:"genres"`
	Cast            []CastMember `json:"cast"`
	DetailCheckedAt *time.Time   `json:"-"`
	CreatedAt       time.Time    `json:"created_at"`
}

// HasDetail reports whether the detail backfill has populated cast entries.
func (c *CatalogItem) HasDetail() bool {
	return len(c.Cast) > 0
}

// User is an account created on the first Telegram handshake. Profile
// fields are first-write-wins and never updated afterwards.
type User struct {
	ID         int64     `json:"id"`
	TelegramID int64     `json:"telegram_id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name,omitempty"`
	Username   string    `json:"username,omitempty"`
	PhotoURL   string    `json:"photo_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// WatchProgress is the single playback bookmark for a (user, item) pair.
// Position is not validated against duration; completed is caller-asserted.
type WatchProgress struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	ItemID       int64     `json:"item_id"`
	PositionSecs float64   `json:"position_secs"`
	DurationSecs float64   `json:"duration_secs"`
	Completed    bool      `json:"completed"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// WatchlistEntry is a per-user saved-item membership row.
type WatchlistEntry struct {
	ID      int64     `json:"id"`
	UserID  int64     `json:"user_id"`
	ItemID  int64     `json:"item_id"`
	AddedAt time.Time `json:"added_at"`
}
