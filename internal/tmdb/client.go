package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pders01/marquee/internal/config"
	"github.com/pders01/marquee/internal/debuglog"
	"golang.org/x/time/rate"
)

// MovieFetcher is implemented by *Client and can be faked in tests.
type MovieFetcher interface {
	SearchMovies(ctx context.Context, query string) (*Page, error)
	MoviesByCategory(ctx context.Context, category Category) (*Page, error)
	TrendingMovies(ctx context.Context) (*Page, error)
}

// Ensure Client implements MovieFetcher at compile time.
var _ MovieFetcher = (*Client)(nil)

// Client talks to the TMDB v3 API. It is safe for concurrent use.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	limiter   *rate.Limiter
	token     string
	userAgent string
	language  string
}

const (
	defaultUserAgent = "marquee/1.0"
	maxErrorBody     = 4 << 10
)

// NewClient builds a Client from the tmdb config section. The base URL is
// expected to be validated already.
func NewClient(cfg config.TMDBConfig) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("parse tmdb base url %q: %w", cfg.BaseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("tmdb base url %q must be absolute", cfg.BaseURL)
	}

	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: timeout},
		limiter:   rate.NewLimiter(limit, burst),
		token:     cfg.Token,
		userAgent: userAgent,
		language:  strings.TrimSpace(cfg.Language),
	}, nil
}

// SearchMovies runs a free-text title search.
func (c *Client) SearchMovies(ctx context.Context, query string) (*Page, error) {
	if c == nil {
		return nil, ErrNilClient
	}
	values := url.Values{}
	values.Set("query", query)
	return c.getPage(ctx, values, "search", "movie")
}

// MoviesByCategory fetches one of the curated lists.
func (c *Client) MoviesByCategory(ctx context.Context, category Category) (*Page, error) {
	if c == nil {
		return nil, ErrNilClient
	}
	if !category.Valid() {
		return nil, fmt.Errorf("unknown category %q", category)
	}
	return c.getPage(ctx, url.Values{}, "movie", string(category))
}

// TrendingMovies fetches this week's trending movies.
func (c *Client) TrendingMovies(ctx context.Context) (*Page, error) {
	if c == nil {
		return nil, ErrNilClient
	}
	return c.getPage(ctx, url.Values{}, "trending", "movie", "week")
}

func (c *Client) getPage(ctx context.Context, values url.Values, segments ...string) (*Page, error) {
	var page Page
	if err := c.get(ctx, values, &page, segments...); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) get(ctx context.Context, values url.Values, dest any, segments ...string) error {
	if c.language != "" && values.Get("language") == "" {
		values.Set("language", c.language)
	}

	reqURL := c.baseURL.JoinPath(segments...)
	reqURL.RawQuery = values.Encode()
	endpoint := "/" + strings.Join(segments, "/")

	log := debuglog.WithFields(map[string]interface{}{
		"request_id": uuid.NewString(),
		"endpoint":   endpoint,
	})

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("wait for rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	log.Debugf("GET %s", reqURL.Redacted())

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warnf("request failed: %v", err)
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	log.Debugf("status %d in %s", resp.StatusCode, time.Since(start).Round(time.Millisecond))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode}
		var body errorBody
		if data, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody)); readErr == nil {
			if json.Unmarshal(data, &body) == nil {
				statusErr.Message = body.StatusMessage
			}
		}
		log.Warnf("%v", statusErr)
		return statusErr
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
