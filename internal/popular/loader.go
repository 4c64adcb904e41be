package popular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"bookrec/internal/catalog"
)

const (
	ColumnVotes  = "num_ratings"
	ColumnRating = "avg_rating"
)

// LoadCSV reads the popularity artifact at path.
func LoadCSV(path string) (*Ranking, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ranking: %w", err)
	}
	defer f.Close()

	entries, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("read ranking %s: %w", path, err)
	}
	return New(entries), nil
}

// ReadCSV decodes ranking rows in file order. Every column is required and
// a malformed number fails the whole artifact.
func ReadCSV(r io.Reader) ([]Entry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := catalog.HeaderIndex(header)
	for _, name := range []string{catalog.ColumnTitle, catalog.ColumnAuthor, catalog.ColumnImage, ColumnVotes, ColumnRating} {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	var entries []Entry
	for line := 2; ; line++ {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		votes, err := strconv.ParseFloat(catalog.Field(rec, cols[ColumnVotes]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", line, ColumnVotes, err)
		}
		rating, err := strconv.ParseFloat(catalog.Field(rec, cols[ColumnRating]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", line, ColumnRating, err)
		}

		entries = append(entries, Entry{
			Title:    catalog.RawField(rec, cols[catalog.ColumnTitle]),
			Author:   catalog.Field(rec, cols[catalog.ColumnAuthor]),
			ImageURL: catalog.Field(rec, cols[catalog.ColumnImage]),
			Votes:    int(votes),
			Rating:   rating,
		})
	}
	return entries, nil
}
