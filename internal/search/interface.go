// Package search ranks the movies currently on screen against a free-text
// refine query using an in-memory bleve index.
package search

// Document is one searchable movie. Documents are addressed by their
// position in the slice passed to Reindex.
type Document struct {
	Title    string
	Overview string
	Language string
	Year     string
}

// Hit is a matching document position and its relevance.
type Hit struct {
	Index int
	Score float64
}

// Searcher defines the minimal search API used by the TUI.
type Searcher interface {
	Reindex(docs []Document) error
	Search(query string, limit int) ([]Hit, error)
}

// DebugStatser provides lightweight stats for visibility/debugging.
type DebugStatser interface {
	DocCount() (int, error)
}
