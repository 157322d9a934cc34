package repository

import (
	"database/sql"

	"cinegram/internal/models"
	"cinegram/internal/timeutil"
)

// UserRepository handles user account database operations.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(sqliteDB *SQLiteDB) *UserRepository {
	return &UserRepository{db: sqliteDB.db}
}

// GetOrCreate returns the account for a Telegram identity, creating it on
// first handshake. Profile fields are first-write-wins: a concurrent or
// repeated insert for the same telegram_id is a no-op and the stored row
// is returned unchanged.
func (r *UserRepository) GetOrCreate(user *models.User) (*models.User, error) {
	_, err := r.db.Exec(`
		INSERT INTO users (telegram_id, first_name, last_name, username, photo_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(telegram_id) DO NOTHING
	`, user.TelegramID, user.FirstName, user.LastName, user.Username, user.PhotoURL, timeutil.Now())
	if err != nil {
		return nil, err
	}

	return r.GetByTelegramID(user.TelegramID)
}

// GetByTelegramID retrieves a user by the external Telegram account id.
func (r *UserRepository) GetByTelegramID(telegramID int64) (*models.User, error) {
	return r.scanOne(r.db.QueryRow(`
		SELECT id, telegram_id, first_name, last_name, username, photo_url, created_at
		FROM users WHERE telegram_id = ?
	`, telegramID))
}

// GetByID retrieves a user by internal id.
func (r *UserRepository) GetByID(id int64) (*models.User, error) {
	return r.scanOne(r.db.QueryRow(`
		SELECT id, telegram_id, first_name, last_name, username, photo_url, created_at
		FROM users WHERE id = ?
	`, id))
}

// ListAll returns every account, newest first. Used by the admin surface.
func (r *UserRepository) ListAll() ([]models.User, error) {
	rows, err := r.db.Query(`
		SELECT id, telegram_id, first_name, last_name, username, photo_url, created_at
		FROM users ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.TelegramID, &u.FirstName, &u.LastName, &u.Username, &u.PhotoURL, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) scanOne(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.TelegramID, &user.FirstName, &user.LastName, &user.Username, &user.PhotoURL, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
