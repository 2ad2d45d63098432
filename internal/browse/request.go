package browse

import (
	"fmt"

	"github.com/pders01/marquee/internal/tmdb"
)

// Kind says which endpoint a Request targets.
type Kind int

const (
	KindCategory Kind = iota
	KindSearch
)

func (k Kind) String() string {
	if k == KindSearch {
		return "search"
	}
	return "category"
}

// Request is one primary fetch.
type Request struct {
	Seq      uint64
	Kind     Kind
	Query    string
	Category tmdb.Category
}

func (r Request) String() string {
	if r.Kind == KindSearch {
		return fmt.Sprintf("#%d search %q", r.Seq, r.Query)
	}
	return fmt.Sprintf("#%d category %s", r.Seq, r.Category)
}

// Result is the outcome of a primary fetch.
type Result struct {
	Request Request
	Movies  []tmdb.Movie
	Err     error
}

// TrendingResult is the outcome of the trending fetch.
type TrendingResult struct {
	Movies []tmdb.Movie
	Err    error
}
