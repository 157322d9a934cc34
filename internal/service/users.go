package service

import (
	"fmt"

	"cinegram/internal/models"
	"cinegram/internal/repository"
)

// UserService manages accounts created from the Telegram identity
// handshake. Accounts are never deleted and profile fields are
// first-write-wins.
type UserService struct {
	repo *repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(repo *repository.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// Login returns the account for the Telegram identity, creating it on the
// first handshake. Profile fields from later logins are ignored.
func (s *UserService) Login(telegramID int64, firstName, lastName, username, photoURL string) (*models.User, error) {
	if telegramID <= 0 {
		return nil, fmt.Errorf("%w: telegram id must be positive", ErrInvalidInput)
	}

	return s.repo.GetOrCreate(&models.User{
		TelegramID: telegramID,
		FirstName:  firstName,
		LastName:   lastName,
		Username:   username,
		PhotoURL:   photoURL,
	})
}

// GetByID retrieves a user by internal id.
func (s *UserService) GetByID(id int64) (*models.User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %d", ErrNotFound, id)
	}
	return user, nil
}

// ListAll returns every account for the admin surface.
func (s *UserService) ListAll() ([]models.User, error) {
	return s.repo.ListAll()
}
