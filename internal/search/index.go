package search

import (
	"errors"
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	unicodetok "github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
	"github.com/blevesearch/bleve/v2/mapping"
	bleveQuery "github.com/blevesearch/bleve/v2/search/query"
	"github.com/pders01/marquee/internal/debuglog"
)

// Lowercased unicode words, no stop word removal.
const analyzerName = "marquee_words"

// ErrClosed is returned by queries against a closed Index.
var ErrClosed = errors.New("search: index closed")

// Index is an in-memory bleve index over the current result set. It is
// safe for concurrent use.
type Index struct {
	mu          sync.Mutex
	idx         bleve.Index
	count       int
	fingerprint uint64
}

var (
	_ Searcher     = (*Index)(nil)
	_ DebugStatser = (*Index)(nil)
)

// NewIndex returns an empty index.
func NewIndex() (*Index, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create search index: %w", err)
	}
	return &Index{idx: idx}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	if err := im.AddCustomAnalyzer(analyzerName, map[string]interface{}{
		"type":          custom.Name,
		"tokenizer":     unicodetok.Name,
		"token_filters": []string{lowercase.Name},
	}); err != nil {
		// Only fails for unknown components, which are all compiled in.
		panic(err)
	}
	im.DefaultAnalyzer = analyzerName

	dm := bleve.NewDocumentMapping()

	title := bleve.NewTextFieldMapping()
	title.Analyzer = analyzerName
	title.IncludeTermVectors = true

	overview := bleve.NewTextFieldMapping()
	overview.Analyzer = analyzerName
	overview.IncludeTermVectors = false

	lang := bleve.NewTextFieldMapping()
	lang.Analyzer = analyzerName

	year := bleve.NewTextFieldMapping()
	year.Analyzer = analyzerName

	dm.AddFieldMappingsAt("title", title)
	dm.AddFieldMappingsAt("overview", overview)
	dm.AddFieldMappingsAt("language", lang)
	dm.AddFieldMappingsAt("year", year)

	im.DefaultMapping = dm
	return im
}

// Reindex replaces the indexed documents. It is a no-op when docs are
// unchanged since the last call.
func (x *Index) Reindex(docs []Document) error {
	fp := fingerprint(docs)

	x.mu.Lock()
	defer x.mu.Unlock()

	if fp == x.fingerprint && len(docs) == x.count {
		return nil
	}

	fresh, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return fmt.Errorf("create search index: %w", err)
	}

	batch := fresh.NewBatch()
	for i, d := range docs {
		if err := batch.Index(strconv.Itoa(i), map[string]any{
			"title":    d.Title,
			"overview": d.Overview,
			"language": d.Language,
			"year":     d.Year,
		}); err != nil {
			_ = fresh.Close()
			return fmt.Errorf("index document %d: %w", i, err)
		}
	}
	if err := fresh.Batch(batch); err != nil {
		_ = fresh.Close()
		return fmt.Errorf("index batch: %w", err)
	}

	if x.idx != nil {
		_ = x.idx.Close()
	}
	x.idx = fresh
	x.count = len(docs)
	x.fingerprint = fp
	debuglog.Debugf("search: reindexed %d documents", len(docs))
	return nil
}

// Len returns the number of indexed documents.
func (x *Index) Len() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.count
}

// Search returns hits ordered by descending score. Every query word must
// match some field, either exactly, as a prefix, or within one edit of a
// title word.
func (x *Index) Search(query string, limit int) ([]Hit, error) {
	tokens := tokenize(query)
	if len(tokens) == 0 {
		return []Hit{}, nil
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	if x.idx == nil {
		return nil, ErrClosed
	}
	if limit <= 0 {
		limit = x.count
	}
	if limit == 0 {
		return []Hit{}, nil
	}

	clauses := make([]bleveQuery.Query, 0, len(tokens))
	for _, tok := range tokens {
		clauses = append(clauses, tokenQuery(tok))
	}
	q := bleve.NewConjunctionQuery(clauses...)

	srch := bleve.NewSearchRequestOptions(q, limit, 0, false)
	res, err := x.idx.Search(srch)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	out := make([]Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		i, err := strconv.Atoi(h.ID)
		if err != nil {
			continue
		}
		out = append(out, Hit{Index: i, Score: h.Score})
	}
	return out, nil
}

func tokenQuery(tok string) bleveQuery.Query {
	var qs []bleveQuery.Query

	// title^4
	qt := bleve.NewMatchQuery(tok)
	qt.SetField("title")
	qt.SetBoost(4.0)
	qs = append(qs, qt)
	qtp := bleve.NewPrefixQuery(tok)
	qtp.SetField("title")
	qtp.SetBoost(3.5)
	qs = append(qs, qtp)
	if len([]rune(tok)) >= 4 {
		qtf := bleve.NewFuzzyQuery(tok)
		qtf.SetField("title")
		qtf.SetFuzziness(1)
		qtf.SetBoost(1.0)
		qs = append(qs, qtf)
	}
	// overview^1.5
	qo := bleve.NewMatchQuery(tok)
	qo.SetField("overview")
	qo.SetBoost(1.5)
	qs = append(qs, qo)
	qop := bleve.NewPrefixQuery(tok)
	qop.SetField("overview")
	qop.SetBoost(1.2)
	qs = append(qs, qop)
	// language and year^1
	ql := bleve.NewMatchQuery(tok)
	ql.SetField("language")
	qs = append(qs, ql)
	qyp := bleve.NewPrefixQuery(tok)
	qyp.SetField("year")
	qs = append(qs, qyp)

	return bleve.NewDisjunctionQuery(qs...)
}

// DocCount reports total documents in the index.
func (x *Index) DocCount() (int, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.idx == nil {
		return 0, ErrClosed
	}
	n, err := x.idx.DocCount()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// Close releases the index.
func (x *Index) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.idx == nil {
		return nil
	}
	err := x.idx.Close()
	x.idx = nil
	return err
}

// tokenize splits text into lowercase letter/number runs.
func tokenize(text string) []string {
	var terms []string
	current := strings.Builder{}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			current.WriteRune(unicode.ToLower(r))
		} else if current.Len() > 0 {
			terms = append(terms, current.String())
			current.Reset()
		}
	}

	if current.Len() > 0 {
		terms = append(terms, current.String())
	}

	return terms
}

func fingerprint(docs []Document) uint64 {
	h := fnv.New64a()
	for _, d := range docs {
		_, _ = h.Write([]byte(d.Title))
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte(d.Overview))
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte(d.Language))
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte(d.Year))
		_, _ = h.Write([]byte{1})
	}
	return h.Sum64()
}
