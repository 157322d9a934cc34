package service

import (
	"fmt"
	"strings"

	"cinegram/internal/models"
)

// StreamService produces playable embed URLs from the third-party embed
// provider by simple string templating. No token exchange happens here;
// the provider is addressed purely by external id and variant.
type StreamService struct {
	baseURL string
}

// NewStreamService creates a StreamService for the given provider base URL,
// e.g. "https://vidsrc.to/embed".
func NewStreamService(baseURL string) *StreamService {
	return &StreamService{baseURL: strings.TrimRight(baseURL, "/")}
}

// EmbedURL builds the embed player URL for a mirrored catalog item.
func (s *StreamService) EmbedURL(item *models.CatalogItem) string {
	return fmt.Sprintf("%s/%s/%d", s.baseURL, item.MediaType, item.TMDBID)
}
