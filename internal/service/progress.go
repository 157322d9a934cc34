package service

import (
	"fmt"

	"cinegram/internal/models"
	"cinegram/internal/repository"
)

// ProgressService is the durable single-record-per-pair playback bookmark.
// Every write is an in-place upsert; no history is retained and the
// completed flag is caller-asserted, never derived. A completed record may
// move back to in-progress when a client re-sends completed=false (a
// rewatch); nothing forbids that transition.
type ProgressService struct {
	repo        *repository.ProgressRepository
	catalogRepo *repository.CatalogRepository
}

// NewProgressService creates a new ProgressService.
func NewProgressService(repo *repository.ProgressRepository, catalogRepo *repository.CatalogRepository) *ProgressService {
	return &ProgressService{repo: repo, catalogRepo: catalogRepo}
}

// Upsert writes the bookmark for a (user, item) pair. The position is not
// checked against the duration; rewinding and position > duration are both
// accepted.
func (s *ProgressService) Upsert(userID, itemID int64, positionSecs, durationSecs float64, completed bool) (*models.WatchProgress, error) {
	if positionSecs < 0 || durationSecs < 0 {
		return nil, fmt.Errorf("%w: position and duration must be non-negative", ErrInvalidInput)
	}

	item, err := s.catalogRepo.GetByID(itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: catalog item %d", ErrNotFound, itemID)
	}

	return s.repo.Upsert(&models.WatchProgress{
		UserID:       userID,
		ItemID:       itemID,
		PositionSecs: positionSecs,
		DurationSecs: durationSecs,
		Completed:    completed,
	})
}

// Get returns the bookmark for a (user, item) pair, or nil when absent.
func (s *ProgressService) Get(userID, itemID int64) (*models.WatchProgress, error) {
	return s.repo.Get(userID, itemID)
}

// ListForUser returns the user's bookmarks newest-touched first, each
// joined to its catalog item.
func (s *ProgressService) ListForUser(userID int64) ([]repository.ProgressWithItem, error) {
	return s.repo.ListByUser(userID)
}
