package service

import (
	"fmt"

	"cinegram/internal/models"
	"cinegram/internal/repository"
)

// WatchlistService is the per-user saved-items set. Membership is enforced
// by a composite uniqueness constraint, so Add and Remove are both
// idempotent.
type WatchlistService struct {
	repo        *repository.WatchlistRepository
	catalogRepo *repository.CatalogRepository
}

// NewWatchlistService creates a new WatchlistService.
func NewWatchlistService(repo *repository.WatchlistRepository, catalogRepo *repository.CatalogRepository) *WatchlistService {
	return &WatchlistService{repo: repo, catalogRepo: catalogRepo}
}

// Add inserts the (user, item) membership. Adding an existing pair is a
// no-op returning the stored entry.
func (s *WatchlistService) Add(userID, itemID int64) (*models.WatchlistEntry, error) {
	item, err := s.catalogRepo.GetByID(itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: catalog item %d", ErrNotFound, itemID)
	}

	return s.repo.Add(userID, itemID)
}

// Remove deletes by composite key. Removing a pair that was never added
// succeeds with no state change.
func (s *WatchlistService) Remove(userID, itemID int64) error {
	return s.repo.Remove(userID, itemID)
}

// Contains reports membership for the (user, item) pair.
func (s *WatchlistService) Contains(userID, itemID int64) (bool, error) {
	return s.repo.Contains(userID, itemID)
}

// ListForUser returns the user's watchlist most-recently-added first, each
// joined to its catalog item.
func (s *WatchlistService) ListForUser(userID int64) ([]repository.EntryWithItem, error) {
	return s.repo.ListByUser(userID)
}
