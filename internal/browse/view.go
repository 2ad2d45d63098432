package browse

import (
	"fmt"

	"github.com/pders01/marquee/internal/tmdb"
)

// RenderKind is the derived shape of the results area.
type RenderKind int

const (
	RenderSkeleton RenderKind = iota
	RenderError
	RenderEmpty
	RenderList
)

func (k RenderKind) String() string {
	switch k {
	case RenderSkeleton:
		return "skeleton"
	case RenderError:
		return "error"
	case RenderEmpty:
		return "empty"
	case RenderList:
		return "list"
	default:
		return "unknown"
	}
}

// View is what the results area should show right now.
type View struct {
	Kind      RenderKind
	Heading   string
	Skeletons int
	Message   string
	Movies    []tmdb.Movie

	// ShowCategories and ShowTrending are false while the search box has text.
	ShowCategories bool
	ShowTrending   bool
	Trending       []tmdb.Movie
}

// View derives the render mapping from the current state.
func (c *Controller) View() View {
	s := c.state
	v := View{
		Heading:        c.Heading(),
		ShowCategories: !s.Searching(),
		ShowTrending:   !s.Searching() && len(s.Trending) > 0,
		Trending:       s.Trending,
	}

	switch {
	case s.Loading:
		v.Kind = RenderSkeleton
		v.Skeletons = c.skeletonCount
	case s.ErrorMessage != "":
		v.Kind = RenderError
		v.Message = s.ErrorMessage
	case len(s.Movies) == 0:
		v.Kind = RenderEmpty
		v.Message = EmptyMessage
	default:
		v.Kind = RenderList
		v.Movies = s.Movies
	}
	return v
}

// Heading is the section title above the results.
func (c *Controller) Heading() string {
	if c.state.Searching() {
		return fmt.Sprintf("Search Results for \"%s\"", c.state.SearchTerm)
	}
	return c.state.SelectedCategory.Label()
}
