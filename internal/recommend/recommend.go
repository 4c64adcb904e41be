// Package recommend turns a free-text title into a short list of books to
// read next.
//
// A query that resolves to a title of the similarity model is answered from
// the model's score table. A query the model does not know, but the catalog
// does, falls back to other books by the same author. Anything else is
// reported as ErrNotFound, which callers must keep distinct from an empty
// list.
package recommend

import (
	"errors"

	"bookrec/internal/catalog"
)

// Limit is the maximum number of recommendations returned.
const Limit = 5

var (
	ErrEmptyQuery = errors.New("empty query")
	ErrNotFound   = errors.New("book not found")
)

// Strategy names the path that produced a result.
type Strategy string

const (
	// StrategySimilarity ranks by the precomputed similarity scores.
	StrategySimilarity Strategy = "similarity"
	// StrategyAuthor lists other titles by the matched book's author.
	StrategyAuthor Strategy = "author"
	// StrategySearch lists other catalog matches of the query itself.
	StrategySearch Strategy = "search"
)

// Recommendation is a single recommended book.
type Recommendation struct {
	Title    string `json:"title"`
	Author   string `json:"author"`
	ImageURL string `json:"image_url"`
}

// Result is the outcome of a successful recommendation.
type Result struct {
	Query    string
	Strategy Strategy
	// Matched is the pivot or catalog title the query resolved to.
	Matched string
	Books   []Recommendation
}

func fromBook(b catalog.Book) Recommendation {
	return Recommendation{Title: b.Title, Author: b.Author, ImageURL: b.ImageURL}
}
