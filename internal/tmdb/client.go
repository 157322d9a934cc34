package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"
)

const (
	defaultBaseURL  = "https://api.themoviedb.org/3"
	defaultTimeout  = 10 * time.Second
	requestInterval = 100 * time.Millisecond // spacing between calls to stay under TMDB rate limits
)

// Client handles all interactions with the TMDB API. One instance is shared
// by all request goroutines; mu guards the rate-limit bookkeeping.
type Client struct {
	apiKey     string
	baseURL    string
	language   string
	httpClient *http.Client

	mu          sync.Mutex
	lastRequest time.Time
}

// SummaryResult is one entry of a trending, popular or search response.
// Only summary fields are present; runtime and credits require the detail
// endpoint.
type SummaryResult struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`          // movies
	Name         string  `json:"name"`           // tv
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	ReleaseDate  string  `json:"release_date"`   // movies
	FirstAirDate string  `json:"first_air_date"` // tv
	VoteAverage  float64 `json:"vote_average"`
	VoteCount    int     `json:"vote_count"`
	GenreIDs     []int   `json:"genre_ids"`
}

// DisplayTitle returns the title for movies and the name for tv entries.
func (s SummaryResult) DisplayTitle() string {
	if s.Title != "" {
		return s.Title
	}
	return s.Name
}

// DisplayDate returns the release date for movies and the first air date
// for tv entries.
func (s SummaryResult) DisplayDate() string {
	if s.ReleaseDate != "" {
		return s.ReleaseDate
	}
	return s.FirstAirDate
}

// GenreRef is a full (id, name) genre pair from a detail response.
type GenreRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CastEntry is one credited cast member from a detail response.
type CastEntry struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path"`
}

// Details is the per-item detail payload, fetched with credits appended.
type Details struct {
	ID             int        `json:"id"`
	Title          string     `json:"title"`
	Name           string     `json:"name"`
	Overview       string     `json:"overview"`
	PosterPath     string     `json:"poster_path"`
	BackdropPath   string     `json:"backdrop_path"`
	ReleaseDate    string     `json:"release_date"`
	FirstAirDate   string     `json:"first_air_date"`
	VoteAverage    float64    `json:"vote_average"`
	VoteCount      int        `json:"vote_count"`
	Runtime        int        `json:"runtime"`          // movies
	EpisodeRunTime []int      `json:"episode_run_time"` // tv
	Genres         []GenreRef `json:"genres"`
	Credits        struct {
		Cast []CastEntry `json:"cast"`
	} `json:"credits"`
}

// RuntimeMinutes normalises the movie/tv runtime shapes into minutes.
func (d *Details) RuntimeMinutes() int {
	if d.Runtime > 0 {
		return d.Runtime
	}
	if len(d.EpisodeRunTime) > 0 {
		return d.EpisodeRunTime[0]
	}
	return 0
}

// listResponse wraps TMDB list endpoints (trending, popular, search).
type listResponse struct {
	Results []SummaryResult `json:"results"`
}

// APIError represents an error returned by the TMDB API. Upstream failures
// are retryable from the caller's point of view.
type APIError struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("TMDB API error (code %d): %s", e.StatusCode, e.StatusMessage)
}

// NewClient creates a new TMDB API client.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:   apiKey,
		baseURL:  defaultBaseURL,
		language: "en-US",
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// NewClientWithHTTP creates a new TMDB API client with a custom HTTP client.
func NewClientWithHTTP(apiKey string, httpClient *http.Client) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		language:   "en-US",
		httpClient: httpClient,
	}
}

// SetBaseURL allows overriding the base URL (useful for testing).
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

// Trending fetches the weekly trending list for a media type ("movie" or "tv").
func (c *Client) Trending(ctx context.Context, mediaType string) ([]SummaryResult, error) {
	endpoint := fmt.Sprintf("%s/trending/%s/week?api_key=%s&language=%s",
		c.baseURL, mediaType, c.apiKey, c.language)
	return c.getList(ctx, endpoint)
}

// Popular fetches the popular list for a media type.
func (c *Client) Popular(ctx context.Context, mediaType string) ([]SummaryResult, error) {
	endpoint := fmt.Sprintf("%s/%s/popular?api_key=%s&language=%s",
		c.baseURL, mediaType, c.apiKey, c.language)
	return c.getList(ctx, endpoint)
}

// Search queries a media type's search endpoint.
func (c *Client) Search(ctx context.Context, mediaType, query string) ([]SummaryResult, error) {
	if query == "" {
		return []SummaryResult{}, nil
	}
	endpoint := fmt.Sprintf("%s/search/%s?api_key=%s&query=%s&language=%s",
		c.baseURL, mediaType, c.apiKey, url.QueryEscape(query), c.language)
	return c.getList(ctx, endpoint)
}

// GetDetails fetches full detail for one item with credits appended, so a
// single call covers runtime, genres and cast.
func (c *Client) GetDetails(ctx context.Context, mediaType string, tmdbID int) (*Details, error) {
	if tmdbID <= 0 {
		return nil, fmt.Errorf("invalid TMDB ID: %d", tmdbID)
	}

	c.rateLimit()

	endpoint := fmt.Sprintf("%s/%s/%d?api_key=%s&language=%s&append_to_response=credits",
		c.baseURL, mediaType, tmdbID, c.apiKey, c.language)

	resp, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to get details: %w", err)
	}
	defer resp.Body.Close()

	if err := c.checkResponse(resp); err != nil {
		return nil, err
	}

	var details Details
	if err := json.NewDecoder(resp.Body).Decode(&details); err != nil {
		return nil, fmt.Errorf("failed to decode details response: %w", err)
	}

	return &details, nil
}

func (c *Client) getList(ctx context.Context, endpoint string) ([]SummaryResult, error) {
	c.rateLimit()

	resp, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch list: %w", err)
	}
	defer resp.Body.Close()

	if err := c.checkResponse(resp); err != nil {
		return nil, err
	}

	var result listResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode list response: %w", err)
	}

	return result.Results, nil
}

func (c *Client) get(ctx context.Context, endpoint string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	return c.httpClient.Do(req)
}

// checkResponse checks the HTTP response for errors.
func (c *Client) checkResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{
			StatusCode:    resp.StatusCode,
			StatusMessage: fmt.Sprintf("HTTP %d: failed to read error response", resp.StatusCode),
		}
	}

	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err != nil {
		return &APIError{
			StatusCode:    resp.StatusCode,
			StatusMessage: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, string(body)),
		}
	}

	if apiErr.StatusCode == 0 {
		apiErr.StatusCode = resp.StatusCode
	}
	if apiErr.StatusMessage == "" {
		apiErr.StatusMessage = fmt.Sprintf("HTTP %d error", resp.StatusCode)
	}

	return &apiErr
}

// rateLimit spaces requests out to avoid hitting API limits. Concurrent
// callers serialise on mu so the last-request read-modify-write is safe.
func (c *Client) rateLimit() {
	c.mu.Lock()
	defer c.mu.Unlock()

	elapsed := time.Since(c.lastRequest)
	if elapsed < requestInterval {
		time.Sleep(requestInterval - elapsed)
	}
	c.lastRequest = time.Now()
}
