package model

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"
)

// ErrInvalidQuery is returned for malformed search input. It is the only
// error the orchestrator surfaces to callers; every other failure degrades
// to partial results.
var ErrInvalidQuery = eris.New("invalid query: text must not be empty")

// SearchQuery is the immutable input to one search request.
type SearchQuery struct {
	Text     string `json:"text"`
	MaxPrice int    `json:"max_price"`
	Bundle   bool   `json:"bundle,omitempty"` // opt-in lot/bundle analysis mode
}

// Validate rejects empty or whitespace-only query text before any I/O.
func (q SearchQuery) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return ErrInvalidQuery
	}
	if q.MaxPrice < 0 {
		return ErrInvalidQuery
	}
	return nil
}

// Normalized returns the query text trimmed and case-folded, the canonical
// form used for cache keys.
func (q SearchQuery) Normalized() string {
	return cases.Fold().String(strings.TrimSpace(q.Text))
}

// CacheKey derives the cache key for this query. Identical queries (up to
// case and surrounding whitespace) share an entry.
func (q SearchQuery) CacheKey() string {
	return fmt.Sprintf("search:%s:%d", q.Normalized(), q.MaxPrice)
}
