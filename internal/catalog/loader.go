package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Column names of the Book-Crossing books export.
const (
	ColumnISBN      = "ISBN"
	ColumnTitle     = "Book-Title"
	ColumnAuthor    = "Book-Author"
	ColumnYear      = "Year-Of-Publication"
	ColumnPublisher = "Publisher"
	ColumnImage     = "Image-URL-M"
)

var ErrEmptyCatalog = errors.New("catalog has no records")

// LoadCSV reads the catalog artifact at path.
func LoadCSV(path string, delimiter rune) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	books, err := ReadCSV(f, delimiter)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return New(books), nil
}

// ReadCSV decodes catalog records. The title and author columns are
// required; rows without a title are dropped since nothing can match them.
func ReadCSV(r io.Reader, delimiter rune) ([]Book, error) {
	reader := csv.NewReader(r)
	if delimiter != 0 {
		reader.Comma = delimiter
	}
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyCatalog
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := HeaderIndex(header)

	titleCol, ok := cols[ColumnTitle]
	if !ok {
		return nil, fmt.Errorf("missing column %q", ColumnTitle)
	}
	authorCol, ok := cols[ColumnAuthor]
	if !ok {
		return nil, fmt.Errorf("missing column %q", ColumnAuthor)
	}

	var books []Book
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		// Titles stay byte-for-byte so they match the model's pivot titles.
		title := RawField(rec, titleCol)
		if strings.TrimSpace(title) == "" {
			continue
		}
		books = append(books, Book{
			ISBN:      fieldByName(rec, cols, ColumnISBN),
			Title:     title,
			Author:    Field(rec, authorCol),
			Publisher: fieldByName(rec, cols, ColumnPublisher),
			Year:      fieldByName(rec, cols, ColumnYear),
			ImageURL:  fieldByName(rec, cols, ColumnImage),
		})
	}

	if len(books) == 0 {
		return nil, ErrEmptyCatalog
	}
	return books, nil
}

// HeaderIndex maps column names to their positions.
func HeaderIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		cols[name] = i
	}
	return cols
}

// Field returns the trimmed value at i, or "" when the row is too short.
func Field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

// RawField returns the untrimmed value at i, or "" when the row is too short.
func RawField(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return rec[i]
}

func fieldByName(rec []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok {
		return ""
	}
	return Field(rec, i)
}
