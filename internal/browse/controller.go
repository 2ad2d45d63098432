package browse

import (
	"context"
	"errors"
	"strings"

	"github.com/pders01/marquee/internal/debuglog"
	"github.com/pders01/marquee/internal/tmdb"
)

const (
	// ErrorMessage is shown when a primary fetch fails for any reason.
	ErrorMessage = "Error fetching movies. Please try again later."
	// EmptyMessage is shown when a fetch succeeded with no movies.
	EmptyMessage = "No movies found. Try a different search term."

	DefaultSkeletonCount = 10
	DefaultTrendingLimit = 10
)

// State is everything the browse screen renders from.
type State struct {
	// SearchTerm is the raw text as typed.
	SearchTerm string
	// DebouncedSearchTerm is the last settled text.
	DebouncedSearchTerm string
	SelectedCategory    tmdb.Category

	// Movies is replaced wholesale by each applied fetch. It is nil only
	// before the first successful fetch.
	Movies   []tmdb.Movie
	Trending []tmdb.Movie

	Loading      bool
	ErrorMessage string
}

// Searching reports whether the raw search box has text in it.
func (s State) Searching() bool {
	return s.SearchTerm != ""
}

// Controller is the fetch-orchestration state machine. Only Fetch and
// FetchTrending may be called off the owning goroutine.
type Controller struct {
	fetcher       tmdb.MovieFetcher
	state         State
	seq           uint64
	skeletonCount int
	trendingLimit int
}

// Option configures a Controller.
type Option func(*Controller)

// WithSkeletonCount sets how many placeholder cards a loading view shows.
func WithSkeletonCount(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.skeletonCount = n
		}
	}
}

// WithTrendingLimit caps the trending list.
func WithTrendingLimit(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.trendingLimit = n
		}
	}
}

// WithCategory sets the initially selected category.
func WithCategory(cat tmdb.Category) Option {
	return func(c *Controller) {
		if cat.Valid() {
			c.state.SelectedCategory = cat
		}
	}
}

// NewController returns a Controller in the idle state.
func NewController(fetcher tmdb.MovieFetcher, opts ...Option) *Controller {
	c := &Controller{
		fetcher:       fetcher,
		skeletonCount: DefaultSkeletonCount,
		trendingLimit: DefaultTrendingLimit,
		state:         State{SelectedCategory: tmdb.DefaultCategory},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	return c.state
}

// Start issues the initial primary request. The caller is expected to
// run FetchTrending alongside it.
func (c *Controller) Start() Request {
	return c.issue()
}

// SetSearchTerm records the raw text. It never issues a request.
func (c *Controller) SetSearchTerm(raw string) {
	c.state.SearchTerm = raw
}

// Settle records a settled search text and reports the request to run
// when it differs from the previous settled text.
func (c *Controller) Settle(term string) (Request, bool) {
	if term == c.state.DebouncedSearchTerm {
		return Request{}, false
	}
	c.state.DebouncedSearchTerm = term
	return c.issue(), true
}

// SelectCategory switches the category and reports the request to run
// when it changed. While settled text is present the request is the same
// text search again.
func (c *Controller) SelectCategory(cat tmdb.Category) (Request, bool) {
	if !cat.Valid() || cat == c.state.SelectedCategory {
		return Request{}, false
	}
	c.state.SelectedCategory = cat
	return c.issue(), true
}

// Latest returns the sequence number of the most recently issued request.
func (c *Controller) Latest() uint64 {
	return c.seq
}

func (c *Controller) issue() Request {
	c.seq++
	c.state.Loading = true
	c.state.ErrorMessage = ""

	req := Request{Seq: c.seq, Category: c.state.SelectedCategory}
	if query := c.state.DebouncedSearchTerm; strings.TrimSpace(query) != "" {
		req.Kind = KindSearch
		req.Query = query
	}

	debuglog.Debugf("browse: issued %s", req)
	return req
}

// Fetch performs req. It reads no controller state and is safe to call
// from a tea.Cmd goroutine.
func (c *Controller) Fetch(ctx context.Context, req Request) Result {
	var (
		page *tmdb.Page
		err  error
	)
	switch req.Kind {
	case KindSearch:
		page, err = c.fetcher.SearchMovies(ctx, req.Query)
	default:
		page, err = c.fetcher.MoviesByCategory(ctx, req.Category)
	}
	if err != nil {
		return Result{Request: req, Err: err}
	}

	movies := []tmdb.Movie{}
	if page != nil && page.Results != nil {
		movies = page.Results
	}
	return Result{Request: req, Movies: movies}
}

// Apply folds res into the state when it answers the latest request and
// reports whether it did. Results of superseded requests are dropped and
// the newer request keeps the loading flag set.
func (c *Controller) Apply(res Result) bool {
	if res.Request.Seq != c.seq {
		debuglog.Debugf("browse: discarded stale result %s (latest #%d)", res.Request, c.seq)
		return false
	}

	c.state.Loading = false
	if res.Err != nil {
		if errors.Is(res.Err, context.Canceled) {
			debuglog.Debugf("browse: %s cancelled", res.Request)
		} else {
			debuglog.WithFields(map[string]interface{}{
				"request": res.Request.String(),
			}).Errorf("fetch failed: %v", res.Err)
		}
		c.state.ErrorMessage = ErrorMessage
		return true
	}

	c.state.Movies = res.Movies
	debuglog.Debugf("browse: applied %s with %d movies", res.Request, len(res.Movies))
	return true
}

// FetchTrending fetches this week's trending list capped to the trending
// limit. Like Fetch it reads no controller state.
func (c *Controller) FetchTrending(ctx context.Context) TrendingResult {
	page, err := c.fetcher.TrendingMovies(ctx)
	if err != nil {
		return TrendingResult{Err: err}
	}
	if page == nil {
		return TrendingResult{}
	}

	movies := page.Results
	if len(movies) > c.trendingLimit {
		movies = movies[:c.trendingLimit]
	}
	return TrendingResult{Movies: movies}
}

// ApplyTrending stores the trending list. Failures are only logged.
func (c *Controller) ApplyTrending(res TrendingResult) {
	if res.Err != nil {
		debuglog.Warnf("browse: trending fetch failed: %v", res.Err)
		return
	}
	c.state.Trending = res.Movies
}
