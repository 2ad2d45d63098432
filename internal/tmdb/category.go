package tmdb

import (
	"fmt"
	"strings"
)

// Category selects one of the curated movie lists.
type Category string

const (
	CategoryPopular    Category = "popular"
	CategoryTopRated   Category = "top_rated"
	CategoryUpcoming   Category = "upcoming"
	CategoryNowPlaying Category = "now_playing"
)

// DefaultCategory is browsed when nothing else is selected.
const DefaultCategory = CategoryPopular

// Categories lists every category in selector order.
func Categories() []Category {
	return []Category{CategoryPopular, CategoryTopRated, CategoryUpcoming, CategoryNowPlaying}
}

// Label returns the human-readable section heading for the category.
func (c Category) Label() string {
	switch c {
	case CategoryPopular:
		return "Popular"
	case CategoryTopRated:
		return "Top Rated"
	case CategoryUpcoming:
		return "Upcoming"
	case CategoryNowPlaying:
		return "Now Playing"
	default:
		return string(c)
	}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory accepts the API identifier or the label, case-insensitively,
// with '-' or ' ' standing in for '_'.
func ParseCategory(s string) (Category, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.NewReplacer("-", "_", " ", "_").Replace(normalized)
	if normalized == "" {
		return DefaultCategory, nil
	}
	c := Category(normalized)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q (want one of popular, top_rated, upcoming, now_playing)", s)
	}
	return c, nil
}
