package service

import (
	"context"
	"fmt"
	"time"

	"cinegram/internal/models"
	"cinegram/internal/repository"
	"cinegram/internal/timeutil"
	"cinegram/internal/tmdb"
)

const maxCastEntries = 10

// CatalogService is the local mirror of the upstream catalog. Items are
// created lazily on first reference from a discovery or search flow with
// summary fields only, and enriched once with runtime, full genres and
// cast when a client first asks for detail.
type CatalogService struct {
	tmdbClient *tmdb.Client
	repo       *repository.CatalogRepository
	recheckTTL time.Duration
}

// NewCatalogService creates a new CatalogService. recheckTTL bounds how
// often an item whose upstream credits came back empty is re-queried.
func NewCatalogService(tmdbClient *tmdb.Client, repo *repository.CatalogRepository, recheckTTL time.Duration) *CatalogService {
	if recheckTTL <= 0 {
		recheckTTL = 6 * time.Hour
	}
	return &CatalogService{
		tmdbClient: tmdbClient,
		repo:       repo,
		recheckTTL: recheckTTL,
	}
}

// GetOrCreate returns the mirrored item for an external id, inserting it
// from the summary payload when absent. Summary fields are first-write-wins:
// a second summary for the same external id never overwrites the stored row.
func (s *CatalogService) GetOrCreate(mediaType models.MediaType, summary tmdb.SummaryResult) (*models.CatalogItem, error) {
	if !mediaType.Valid() {
		return nil, fmt.Errorf("%w: unknown media type %q", ErrInvalidInput, mediaType)
	}
	if summary.ID <= 0 {
		return nil, fmt.Errorf("%w: external id must be positive", ErrInvalidInput)
	}

	item := &models.CatalogItem{
		TMDBID:       summary.ID,
		MediaType:    mediaType,
		Title:        summary.DisplayTitle(),
		Overview:     summary.Overview,
		PosterPath:   summary.PosterPath,
		BackdropPath: summary.BackdropPath,
		ReleaseDate:  summary.DisplayDate(),
		VoteAverage:  summary.VoteAverage,
		VoteCount:    summary.VoteCount,
		Genres:       models.ResolveGenres(mediaType, summary.GenreIDs),
		Cast:         []models.CastMember{},
	}

	return s.repo.Create(item)
}

// Trending fetches the upstream trending list and mirrors every entry.
func (s *CatalogService) Trending(ctx context.Context, mediaType models.MediaType) ([]models.CatalogItem, error) {
	return s.discover(mediaType, func() ([]tmdb.SummaryResult, error) {
		return s.tmdbClient.Trending(ctx, string(mediaType))
	})
}

// Popular fetches the upstream popular list and mirrors every entry.
func (s *CatalogService) Popular(ctx context.Context, mediaType models.MediaType) ([]models.CatalogItem, error) {
	return s.discover(mediaType, func() ([]tmdb.SummaryResult, error) {
		return s.tmdbClient.Popular(ctx, string(mediaType))
	})
}

// Search queries the upstream search endpoint and mirrors every result.
func (s *CatalogService) Search(ctx context.Context, mediaType models.MediaType, query string) ([]models.CatalogItem, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: search query is required", ErrInvalidInput)
	}
	return s.discover(mediaType, func() ([]tmdb.SummaryResult, error) {
		return s.tmdbClient.Search(ctx, string(mediaType), query)
	})
}

func (s *CatalogService) discover(mediaType models.MediaType, fetch func() ([]tmdb.SummaryResult, error)) ([]models.CatalogItem, error) {
	if !mediaType.Valid() {
		return nil, fmt.Errorf("%w: unknown media type %q", ErrInvalidInput, mediaType)
	}

	results, err := fetch()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}

	items := make([]models.CatalogItem, 0, len(results))
	for _, summary := range results {
		if summary.ID <= 0 || summary.DisplayTitle() == "" {
			continue
		}
		item, err := s.GetOrCreate(mediaType, summary)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, nil
}

// GetDetail returns the item by internal id, running the lazy detail
// backfill when the cached record has no cast entries. Items whose
// upstream credits are genuinely empty are stamped and not re-queried
// until the recheck window passes.
func (s *CatalogService) GetDetail(ctx context.Context, id int64) (*models.CatalogItem, error) {
	item, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: catalog item %d", ErrNotFound, id)
	}

	if item.HasDetail() || s.recentlyChecked(item) {
		return item, nil
	}

	details, err := s.tmdbClient.GetDetails(ctx, string(item.MediaType), item.TMDBID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}

	genres := make([]models.Genre, 0, len(details.Genres))
	for _, g := range details.Genres {
		genres = append(genres, models.Genre{ID: g.ID, Name: g.Name})
	}

	cast := make([]models.CastMember, 0, maxCastEntries)
	for i, c := range details.Credits.Cast {
		if i >= maxCastEntries {
			break
		}
		cast = append(cast, models.CastMember{
			ID:          c.ID,
			Name:        c.Name,
			Character:   c.Character,
			ProfilePath: c.ProfilePath,
		})
	}

	if err := s.repo.UpdateDetail(item.ID, details.RuntimeMinutes(), genres, cast); err != nil {
		return nil, err
	}

	return s.repo.GetByID(id)
}

// GetByID returns the mirrored item without triggering enrichment.
func (s *CatalogService) GetByID(id int64) (*models.CatalogItem, error) {
	item, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: catalog item %d", ErrNotFound, id)
	}
	return item, nil
}

// ListAll returns every mirrored item for the admin surface.
func (s *CatalogService) ListAll() ([]models.CatalogItem, error) {
	return s.repo.ListAll()
}

// Delete removes an item and every progress and watchlist row referencing
// it, atomically. Administrative use only.
func (s *CatalogService) Delete(id int64) error {
	item, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if item == nil {
		return fmt.Errorf("%w: catalog item %d", ErrNotFound, id)
	}
	return s.repo.DeleteCascade(id)
}

func (s *CatalogService) recentlyChecked(item *models.CatalogItem) bool {
	if item.DetailCheckedAt == nil {
		return false
	}
	return timeutil.Now().Sub(*item.DetailCheckedAt) < s.recheckTTL
}
