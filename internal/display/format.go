// Package display formats TMDB movie fields for cards, the trending strip
// and the detail view.
package display

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	xdisplay "golang.org/x/text/language/display"
)

// NotAvailable is shown in place of a missing rating or release year.
const NotAvailable = "N/A"

const imageBase = "https://image.tmdb.org/t/p/"

// PosterSize is a TMDB image width bucket.
type PosterSize string

const (
	// SizeCard is used for result cards.
	SizeCard PosterSize = "w500"
	// SizeThumb is used for trending thumbnails.
	SizeThumb PosterSize = "w200"
)

const (
	cardPlaceholder  = "/placeholder.svg?height=450&width=300"
	thumbPlaceholder = "/placeholder.svg?height=80&width=64"
)

// Rating renders a vote average with one decimal. Zero counts as absent.
func Rating(v float64) string {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return NotAvailable
	}
	return toFixed1(v)
}

// toFixed1 rounds to one decimal with exact ties going away from zero,
// so 7.25 renders as 7.3 rather than the half-even 7.2.
func toFixed1(v float64) string {
	scaled := v * 10
	if v == math.Trunc(v*4)/4 && math.Abs(scaled-math.Trunc(scaled)) == 0.5 {
		return strconv.FormatFloat(math.Round(scaled)/10, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// Year returns the part of a release date before the first '-'.
func Year(date string) string {
	if date == "" {
		return NotAvailable
	}
	year, _, _ := strings.Cut(date, "-")
	return year
}

// PosterURL builds the image URL for a poster path, falling back to a
// placeholder sized for the requested bucket when the path is absent.
func PosterURL(path string, size PosterSize) string {
	if path == "" {
		if size == SizeThumb {
			return thumbPlaceholder
		}
		return cardPlaceholder
	}
	return imageBase + string(size) + path
}

// ThumbnailURL is PosterURL for the trending strip.
func ThumbnailURL(path string) string {
	return PosterURL(path, SizeThumb)
}

// Language returns the upper-cased language badge.
func Language(code string) string {
	return strings.ToUpper(code)
}

// LanguageName returns the English name of an ISO 639-1 code, or "" when
// the code is unknown.
func LanguageName(code string) string {
	if code == "" {
		return ""
	}
	tag, err := language.Parse(code)
	if err != nil {
		return ""
	}
	return xdisplay.English.Languages().Name(tag)
}

// TrendingRank renders the 1-based rank of the trending entry at index i.
func TrendingRank(i int) string {
	return "#" + strconv.Itoa(i+1)
}
