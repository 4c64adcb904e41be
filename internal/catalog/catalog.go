package catalog

import "strings"

// Book is a single catalog record. Several records may share a title when the
// catalog carries more than one edition of the same book.
type Book struct {
	ISBN      string `json:"isbn,omitempty"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Publisher string `json:"publisher,omitempty"`
	Year      string `json:"year,omitempty"`
	ImageURL  string `json:"image_url"`
}

// Usable reports whether the record carries the fields a recommendation needs.
func (b Book) Usable() bool {
	return strings.TrimSpace(b.Title) != "" && strings.TrimSpace(b.Author) != ""
}

// Catalog is an immutable, ordered collection of books. It is safe for
// concurrent readers once built.
type Catalog struct {
	books    []Book
	lower    []string
	byTitle  map[string][]int
	byAuthor map[string][]int
}

// New builds a catalog over a copy of books, keeping their order.
func New(books []Book) *Catalog {
	c := &Catalog{
		books:    make([]Book, len(books)),
		lower:    make([]string, len(books)),
		byTitle:  make(map[string][]int),
		byAuthor: make(map[string][]int),
	}
	copy(c.books, books)
	for i, b := range c.books {
		c.lower[i] = strings.ToLower(b.Title)
		c.byTitle[b.Title] = append(c.byTitle[b.Title], i)
		c.byAuthor[b.Author] = append(c.byAuthor[b.Author], i)
	}
	return c
}

// Len returns the number of records, duplicates included.
func (c *Catalog) Len() int {
	return len(c.books)
}

// Titles returns the number of distinct titles.
func (c *Catalog) Titles() int {
	return len(c.byTitle)
}

// TitlesMatching returns every record accepted by pred, in catalog order.
func (c *Catalog) TitlesMatching(pred func(Book) bool) []Book {
	var out []Book
	for _, b := range c.books {
		if pred(b) {
			out = append(out, b)
		}
	}
	return out
}

// SearchTitle returns the records whose title contains query, ignoring case,
// in catalog order.
func (c *Catalog) SearchTitle(query string) []Book {
	needle := strings.ToLower(query)
	var out []Book
	for i, title := range c.lower {
		if strings.Contains(title, needle) {
			out = append(out, c.books[i])
		}
	}
	return out
}

// RecordsByAuthor returns every record written by author, in catalog order.
func (c *Catalog) RecordsByAuthor(author string) []Book {
	idx := c.byAuthor[author]
	out := make([]Book, 0, len(idx))
	for _, i := range idx {
		out = append(out, c.books[i])
	}
	return out
}

// FirstByTitle returns the first usable record carrying exactly title.
func (c *Catalog) FirstByTitle(title string) (Book, bool) {
	for _, i := range c.byTitle[title] {
		if c.books[i].Usable() {
			return c.books[i], true
		}
	}
	return Book{}, false
}

// DedupeByTitle keeps the first record of every title, preserving order.
func DedupeByTitle(books []Book) []Book {
	seen := make(map[string]struct{}, len(books))
	out := make([]Book, 0, len(books))
	for _, b := range books {
		if _, ok := seen[b.Title]; ok {
			continue
		}
		seen[b.Title] = struct{}{}
		out = append(out, b)
	}
	return out
}
