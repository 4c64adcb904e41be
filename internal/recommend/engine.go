package recommend

import (
	"cmp"
	"slices"
	"strings"

	"bookrec/internal/catalog"
	"bookrec/internal/similarity"
)

// Engine answers recommendation queries over an immutable model and catalog.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	index    *similarity.Index
	catalog  *catalog.Catalog
	resolver *Resolver
}

func NewEngine(ix *similarity.Index, cat *catalog.Catalog) *Engine {
	return &Engine{
		index:    ix,
		catalog:  cat,
		resolver: NewResolver(ix),
	}
}

// Recommend returns up to Limit books for query. It returns ErrEmptyQuery for
// blank input and ErrNotFound when neither the model nor the catalog knows
// the title. A successful result may hold fewer than Limit books, or none,
// when candidate records are missing from the catalog.
func (e *Engine) Recommend(query string) (Result, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return Result{}, ErrEmptyQuery
	}

	if p, ok := e.resolver.Resolve(q); ok {
		return e.similar(q, p), nil
	}
	return e.fallback(q)
}

// Neighbors returns every pivot position other than p, most similar first.
// Equal scores keep ascending position order.
func (e *Engine) Neighbors(p int) []int {
	row := e.index.Row(p)
	order := make([]int, 0, len(row))
	for i := range row {
		if i != p {
			order = append(order, i)
		}
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(row[b], row[a])
	})
	return order
}

func (e *Engine) similar(query string, p int) Result {
	candidates := e.Neighbors(p)
	if len(candidates) > Limit {
		candidates = candidates[:Limit]
	}

	books := make([]Recommendation, 0, len(candidates))
	for _, c := range candidates {
		// Stale pivot entries have no catalog record and are dropped, not replaced.
		b, ok := e.catalog.FirstByTitle(e.index.Title(c))
		if !ok {
			continue
		}
		books = append(books, fromBook(b))
	}

	return Result{
		Query:    query,
		Strategy: StrategySimilarity,
		Matched:  e.index.Title(p),
		Books:    books,
	}
}

func (e *Engine) fallback(query string) (Result, error) {
	matches := e.catalog.SearchTitle(query)
	if len(matches) == 0 {
		return Result{}, ErrNotFound
	}

	usable := make([]catalog.Book, 0, len(matches))
	for _, b := range matches {
		if b.Usable() {
			usable = append(usable, b)
		}
	}

	// The author key comes from the first usable match; unusable records are
	// skipped rather than ending the search.
	res := Result{Query: query, Matched: matches[0].Title}
	if len(usable) > 0 {
		matched := usable[0]
		res.Matched = matched.Title

		var others []catalog.Book
		for _, b := range e.catalog.RecordsByAuthor(matched.Author) {
			if b.Title != matched.Title && b.Usable() {
				others = append(others, b)
			}
		}
		if picked := firstN(catalog.DedupeByTitle(others), Limit); len(picked) > 0 {
			res.Strategy = StrategyAuthor
			res.Books = picked
			return res, nil
		}
	}

	res.Strategy = StrategySearch
	res.Books = firstN(catalog.DedupeByTitle(usable), Limit)
	return res, nil
}

func firstN(books []catalog.Book, n int) []Recommendation {
	if len(books) > n {
		books = books[:n]
	}
	out := make([]Recommendation, 0, len(books))
	for _, b := range books {
		out = append(out, fromBook(b))
	}
	return out
}
