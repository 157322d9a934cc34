package tmdb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient("test-key")
	client.SetBaseURL(server.URL)
	return client
}

func TestTrendingDecodesResults(t *testing.T) {
	var gotPath, gotQuery string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, `{"results":[
			{"id":550,"title":"Fight Club","overview":"ok","release_date":"1999-10-15","vote_average":8.4,"vote_count":26000,"genre_ids":[18,53]},
			{"id":1399,"name":"Game of Thrones","first_air_date":"2011-04-17","vote_average":8.4}
		]}`)
	}))

	results, err := client.Trending(context.Background(), "movie")
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "/trending/movie/week", gotPath)
	assert.Contains(t, gotQuery, "api_key=test-key")

	assert.Equal(t, 550, results[0].ID)
	assert.Equal(t, "Fight Club", results[0].DisplayTitle())
	assert.Equal(t, "1999-10-15", results[0].DisplayDate())
	assert.Equal(t, []int{18, 53}, results[0].GenreIDs)

	// TV entries carry name and first_air_date instead.
	assert.Equal(t, "Game of Thrones", results[1].DisplayTitle())
	assert.Equal(t, "2011-04-17", results[1].DisplayDate())
}

func TestSearchEmptyQueryShortCircuits(t *testing.T) {
	called := false
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	results, err := client.Search(context.Background(), "movie", "")
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.False(t, called)
}

func TestSearchEscapesQuery(t *testing.T) {
	var gotQuery string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		fmt.Fprint(w, `{"results":[]}`)
	}))

	_, err := client.Search(context.Background(), "movie", "fight club & friends")
	require.NoError(t, err)
	assert.Equal(t, "fight club & friends", gotQuery)
}

func TestGetDetailsAppendsCredits(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/550", r.URL.Path)
		assert.Equal(t, "credits", r.URL.Query().Get("append_to_response"))
		fmt.Fprint(w, `{"id":550,"title":"Fight Club","runtime":139,
			"genres":[{"id":18,"name":"Drama"}],
			"credits":{"cast":[{"id":819,"name":"Edward Norton","character":"The Narrator","profile_path":"/en.jpg"}]}}`)
	}))

	details, err := client.GetDetails(context.Background(), "movie", 550)
	require.NoError(t, err)
	assert.Equal(t, 139, details.RuntimeMinutes())
	require.Len(t, details.Genres, 1)
	require.Len(t, details.Credits.Cast, 1)
	assert.Equal(t, "Edward Norton", details.Credits.Cast[0].Name)
}

func TestRuntimeMinutesFallsBackToEpisodeRunTime(t *testing.T) {
	details := &Details{EpisodeRunTime: []int{55, 60}}
	assert.Equal(t, 55, details.RuntimeMinutes())

	assert.Equal(t, 0, (&Details{}).RuntimeMinutes())
}

func TestGetDetailsRejectsInvalidID(t *testing.T) {
	client := NewClient("test-key")

	_, err := client.GetDetails(context.Background(), "movie", 0)
	assert.Error(t, err)
}

func TestAPIErrorMapping(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"status_code":34,"status_message":"The resource you requested could not be found."}`)
	}))

	_, err := client.GetDetails(context.Background(), "movie", 999999)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 34, apiErr.StatusCode)
	assert.Contains(t, apiErr.Error(), "could not be found")
}

func TestConcurrentCallsShareOneClient(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":[]}`)
	}))

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := client.Trending(context.Background(), "movie")
			assert.NoError(t, err)
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := client.Popular(context.Background(), "movie")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}

func TestAPIErrorNonJSONBody(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, "upstream exploded")
	}))

	_, err := client.Trending(context.Background(), "movie")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
}
