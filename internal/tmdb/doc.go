// Package tmdb is a small client for the parts of The Movie Database v3
// REST API that marquee uses: text search, category lists and the weekly
// trending list.
package tmdb
