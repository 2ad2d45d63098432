package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/pders01/marquee/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.TestConfig().TMDB
	cfg.BaseURL = server.URL + "/3"

	c, err := NewClient(cfg)
	require.NoError(t, err)
	return c
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestClient_SendsHeadersAndEscapesQuery(t *testing.T) {
	t.Parallel()

	var (
		mu      sync.Mutex
		gotReq  *http.Request
		gotText string
	)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		gotReq = r
		gotText = r.URL.Query().Get("query")
		mu.Unlock()
		_ = json.NewEncoder(w).Encode(Page{Page: 1, Results: []Movie{{ID: 603, Title: "The Matrix"}}})
	})

	page, err := c.SearchMovies(testContext(t), "matrix & co/2")
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "The Matrix", page.Results[0].Title)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "/3/search/movie", gotReq.URL.Path)
	assert.Equal(t, "matrix & co/2", gotText)
	assert.Contains(t, gotReq.URL.RawQuery, "query=matrix+%26+co%2F2")
	assert.Equal(t, "application/json", gotReq.Header.Get("Accept"))
	assert.Equal(t, "Bearer test-token", gotReq.Header.Get("Authorization"))
	assert.Equal(t, "marquee-test/1.0", gotReq.Header.Get("User-Agent"))
}

func TestClient_Endpoints(t *testing.T) {
	t.Parallel()

	paths := make(chan string, 8)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths <- r.URL.Path
		_, _ = w.Write([]byte(`{"page":1,"results":[],"total_pages":1,"total_results":0}`))
	})
	ctx := testContext(t)

	for _, cat := range Categories() {
		_, err := c.MoviesByCategory(ctx, cat)
		require.NoError(t, err)
		assert.Equal(t, "/3/movie/"+string(cat), <-paths)
	}

	_, err := c.TrendingMovies(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/3/trending/movie/week", <-paths)
}

func TestClient_UnknownCategoryIsRejectedLocally(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request to %s", r.URL.Path)
	})

	_, err := c.MoviesByCategory(testContext(t), Category("latest"))
	assert.Error(t, err)
}

func TestClient_StatusError(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status_code":7,"status_message":"Invalid API key: You must be granted a valid key.","success":false}`))
	})

	page, err := c.SearchMovies(testContext(t), "x")
	require.Error(t, err)
	assert.Nil(t, page)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.Equal(t, "/search/movie", statusErr.Endpoint)
	assert.Contains(t, statusErr.Message, "Invalid API key")
	assert.True(t, IsStatus(err, http.StatusUnauthorized))
	assert.False(t, IsStatus(err, http.StatusNotFound))
}

func TestClient_StatusErrorWithoutBody(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.TrendingMovies(testContext(t))
	require.Error(t, err)
	assert.Equal(t, "tmdb /trending/movie/week returned status 502", err.Error())
}

func TestClient_MissingResultsDecodesToNil(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"page":1}`))
	})

	page, err := c.MoviesByCategory(testContext(t), CategoryUpcoming)
	require.NoError(t, err)
	assert.Nil(t, page.Results)
}

func TestClient_MalformedBody(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	})

	_, err := c.SearchMovies(testContext(t), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestClient_LanguageParameter(t *testing.T) {
	t.Parallel()

	langs := make(chan string, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		langs <- r.URL.Query().Get("language")
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	t.Cleanup(server.Close)

	cfg := config.TestConfig().TMDB
	cfg.BaseURL = server.URL
	cfg.Language = "de-DE"
	c, err := NewClient(cfg)
	require.NoError(t, err)

	_, err = c.TrendingMovies(testContext(t))
	require.NoError(t, err)
	assert.Equal(t, "de-DE", <-langs)
}

func TestClient_ContextCancelled(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	t.Cleanup(func() { close(release) })

	ctx, cancel := context.WithCancel(context.Background())
	errs := make(chan error, 1)
	go func() {
		_, err := c.SearchMovies(ctx, "slow")
		errs <- err
	}()
	cancel()

	select {
	case err := <-errs:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("request was not aborted by context cancellation")
	}
}

func TestNewClient_RejectsRelativeBaseURL(t *testing.T) {
	cfg := config.TestConfig().TMDB
	cfg.BaseURL = "api.themoviedb.org/3"

	_, err := NewClient(cfg)
	assert.Error(t, err)
}

func TestNilClient(t *testing.T) {
	var c *Client
	_, err := c.TrendingMovies(context.Background())
	assert.ErrorIs(t, err, ErrNilClient)
}
