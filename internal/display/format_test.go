package display

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRating(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{7.456, "7.5"},
		{7.44, "7.4"},
		{8, "8.0"},
		{7.25, "7.3"},
		{7.75, "7.8"},
		{0.15, "0.1"},
		{10, "10.0"},
		{0, "N/A"},
		{math.NaN(), "N/A"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Rating(tt.in), "Rating(%v)", tt.in)
	}
}

func TestYear(t *testing.T) {
	assert.Equal(t, "2023", Year("2023-05-04"))
	assert.Equal(t, "1999", Year("1999"))
	assert.Equal(t, "N/A", Year(""))
}

func TestPosterURL(t *testing.T) {
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/abc.jpg", PosterURL("/abc.jpg", SizeCard))
	assert.Equal(t, "https://image.tmdb.org/t/p/w200/abc.jpg", ThumbnailURL("/abc.jpg"))
	assert.Equal(t, "/placeholder.svg?height=450&width=300", PosterURL("", SizeCard))
	assert.Equal(t, "/placeholder.svg?height=80&width=64", ThumbnailURL(""))
}

func TestLanguage(t *testing.T) {
	assert.Equal(t, "EN", Language("en"))
	assert.Equal(t, "", Language(""))
}

func TestLanguageName(t *testing.T) {
	assert.Equal(t, "English", LanguageName("en"))
	assert.Equal(t, "Japanese", LanguageName("ja"))
	assert.Equal(t, "", LanguageName(""))
	assert.Equal(t, "", LanguageName("not a code"))
}

func TestTrendingRank(t *testing.T) {
	assert.Equal(t, "#1", TrendingRank(0))
	assert.Equal(t, "#10", TrendingRank(9))
}
