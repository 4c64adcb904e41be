package recommend

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookrec/internal/catalog"
	"bookrec/internal/similarity"
)

const (
	rowling = "J. K. Rowling"
	tolkien = "J. R. R. Tolkien"
)

var pivotTitles = []string{
	"The Hobbit", // 0
	"Harry Potter and the Chamber of Secrets",  // 1
	"Harry Potter and the Prisoner of Azkaban", // 2
	"Harry Potter and the Sorcerer's Stone",    // 3
	"The Fellowship of the Ring",               // 4
	"The Return of the King",                   // 5
	"The Two Towers",                           // 6
	"Harry Potter and the Goblet of Fire",      // 7
}

func testIndex(t *testing.T) *similarity.Index {
	t.Helper()
	n := len(pivotTitles)
	scores := make([][]float64, n)
	for i := range scores {
		scores[i] = make([]float64, n)
		scores[i][i] = 1
	}
	scores[1] = []float64{0.30, 1.0, 0.90, 0.85, 0.20, 0.95, 0.20, 0.60}
	// Three-way tie right behind self.
	scores[4] = []float64{0.8, 0.2, 0.2, 0.2, 1.0, 0.8, 0.8, 0.2}
	// Position 2 ties with self.
	scores[3] = []float64{0, 0, 1.0, 1.0, 0, 0, 0, 0.5}

	ix, err := similarity.New(pivotTitles, scores)
	require.NoError(t, err)
	return ix
}

func testCatalogBooks() []catalog.Book {
	books := []catalog.Book{
		{Title: "The Hobbit", Author: tolkien, ImageURL: "hobbit.jpg"},
		{Title: "Harry Potter and the Chamber of Secrets", Author: rowling, ImageURL: "hp2.jpg"},
		{Title: "Harry Potter and the Chamber of Secrets", Author: rowling, ImageURL: "hp2-uk.jpg"},
		{Title: "Harry Potter and the Prisoner of Azkaban", Author: rowling, ImageURL: "hp3.jpg"},
		{Title: "Harry Potter and the Sorcerer's Stone", Author: rowling, ImageURL: "hp1.jpg"},
		{Title: "The Fellowship of the Ring", Author: tolkien, ImageURL: "lotr1.jpg"},
		{Title: "The Return of the King", Author: tolkien, ImageURL: "lotr3.jpg"},
		{Title: "The Two Towers", Author: tolkien, ImageURL: "lotr2.jpg"},
		{Title: "Harry Potter and the Goblet of Fire", Author: rowling, ImageURL: "hp4.jpg"},

		{Title: "Doe Book One", Author: "Jane Doe", ImageURL: "doe1.jpg"},
		{Title: "Some Rare Edition", Author: "Jane Doe", ImageURL: "rare.jpg"},
		{Title: "Doe Book Two", Author: "Jane Doe", ImageURL: "doe2.jpg"},
		{Title: "Some Rare Edition", Author: "Jane Doe", ImageURL: "rare-2.jpg"},
		{Title: "Doe Book Two", Author: "Jane Doe", ImageURL: "doe2-reprint.jpg"},
		{Title: "Doe Book Three", Author: "Jane Doe", ImageURL: "doe3.jpg"},

		{Title: "Lonely Rare Tale", Author: "Solo Writer", ImageURL: "lonely.jpg"},
		{Title: "Lonely Rare Tale", Author: "Solo Writer", ImageURL: "lonely-2.jpg"},
		{Title: "The Lonely Rare Tale Companion", Author: "Other Person", ImageURL: "companion.jpg"},
	}
	for i := 1; i <= 7; i++ {
		books = append(books, catalog.Book{Title: "Prolific Volume " + strings.Repeat("I", i), Author: "Prolific Author", ImageURL: "p.jpg"})
	}
	return books
}

func testEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(testIndex(t), catalog.New(testCatalogBooks()))
}

func titles(books []Recommendation) []string {
	out := make([]string, 0, len(books))
	for _, b := range books {
		out = append(out, b.Title)
	}
	return out
}

func TestEngine_SimilarityPath(t *testing.T) {
	e := testEngine(t)

	t.Run("exact pivot title", func(t *testing.T) {
		res, err := e.Recommend("Harry Potter and the Chamber of Secrets")
		require.NoError(t, err)

		assert.Equal(t, StrategySimilarity, res.Strategy)
		assert.Equal(t, "Harry Potter and the Chamber of Secrets", res.Matched)
		assert.Equal(t, []string{
			"The Return of the King",
			"Harry Potter and the Prisoner of Azkaban",
			"Harry Potter and the Sorcerer's Stone",
			"Harry Potter and the Goblet of Fire",
			"The Hobbit",
		}, titles(res.Books))
		assert.Equal(t, Recommendation{Title: "The Hobbit", Author: tolkien, ImageURL: "hobbit.jpg"}, res.Books[4])
	})

	t.Run("lower case query", func(t *testing.T) {
		exact, err := e.Recommend("Harry Potter and the Chamber of Secrets")
		require.NoError(t, err)
		lower, err := e.Recommend("harry potter and the chamber of secrets")
		require.NoError(t, err)
		upper, err := e.Recommend("HARRY POTTER AND THE CHAMBER OF SECRETS")
		require.NoError(t, err)

		assert.Equal(t, exact.Books, lower.Books)
		assert.Equal(t, exact.Books, upper.Books)
		assert.Equal(t, exact.Matched, upper.Matched)
	})

	t.Run("substring query", func(t *testing.T) {
		res, err := e.Recommend("  chamber of secrets ")
		require.NoError(t, err)
		assert.Equal(t, StrategySimilarity, res.Strategy)
		assert.Equal(t, "Harry Potter and the Chamber of Secrets", res.Matched)
		assert.Equal(t, "chamber of secrets", res.Query)
	})

	t.Run("ties keep pivot order", func(t *testing.T) {
		res, err := e.Recommend("The Fellowship of the Ring")
		require.NoError(t, err)
		assert.Equal(t, []string{
			"The Hobbit",
			"The Return of the King",
			"The Two Towers",
			"Harry Potter and the Chamber of Secrets",
			"Harry Potter and the Prisoner of Azkaban",
		}, titles(res.Books))
	})

	t.Run("self excluded even when tied", func(t *testing.T) {
		res, err := e.Recommend("Harry Potter and the Sorcerer's Stone")
		require.NoError(t, err)
		assert.NotContains(t, titles(res.Books), "Harry Potter and the Sorcerer's Stone")
		assert.Equal(t, "Harry Potter and the Prisoner of Azkaban", res.Books[0].Title)
		assert.Equal(t, "Harry Potter and the Goblet of Fire", res.Books[1].Title)
		assert.Len(t, res.Books, Limit)
	})
}

func TestEngine_SimilarityPath_MissingRecords(t *testing.T) {
	var books []catalog.Book
	for _, b := range testCatalogBooks() {
		switch b.Title {
		case "The Return of the King":
			// stale pivot entry: no catalog record at all
		case "Harry Potter and the Sorcerer's Stone":
			books = append(books, catalog.Book{Title: b.Title, ImageURL: b.ImageURL})
		default:
			books = append(books, b)
		}
	}
	e := NewEngine(testIndex(t), catalog.New(books))

	res, err := e.Recommend("Harry Potter and the Chamber of Secrets")
	require.NoError(t, err)
	assert.Equal(t, StrategySimilarity, res.Strategy)
	assert.Equal(t, []string{
		"Harry Potter and the Prisoner of Azkaban",
		"Harry Potter and the Goblet of Fire",
		"The Hobbit",
	}, titles(res.Books))
}

func TestEngine_SimilarityPath_EmptyButResolved(t *testing.T) {
	ix, err := similarity.New([]string{"Only Title"}, [][]float64{{1}})
	require.NoError(t, err)
	e := NewEngine(ix, catalog.New([]catalog.Book{{Title: "Only Title", Author: "A"}}))

	res, err := e.Recommend("only title")
	require.NoError(t, err)
	assert.Equal(t, StrategySimilarity, res.Strategy)
	assert.Empty(t, res.Books)
}

func TestEngine_FallbackPath(t *testing.T) {
	e := testEngine(t)

	t.Run("same author titles", func(t *testing.T) {
		res, err := e.Recommend("some rare edition")
		require.NoError(t, err)
		assert.Equal(t, StrategyAuthor, res.Strategy)
		assert.Equal(t, "Some Rare Edition", res.Matched)
		assert.Equal(t, []string{"Doe Book One", "Doe Book Two", "Doe Book Three"}, titles(res.Books))
		assert.Equal(t, "doe2.jpg", res.Books[1].ImageURL)
	})

	t.Run("author list is capped", func(t *testing.T) {
		res, err := e.Recommend("Prolific Volume III")
		require.NoError(t, err)
		assert.Equal(t, StrategyAuthor, res.Strategy)
		assert.Equal(t, []string{
			"Prolific Volume I",
			"Prolific Volume II",
			"Prolific Volume IIII",
			"Prolific Volume IIIII",
			"Prolific Volume IIIIII",
		}, titles(res.Books))
	})

	t.Run("no other titles by author", func(t *testing.T) {
		res, err := e.Recommend("Lonely Rare Tale")
		require.NoError(t, err)
		assert.Equal(t, StrategySearch, res.Strategy)
		assert.Equal(t, []string{"Lonely Rare Tale", "The Lonely Rare Tale Companion"}, titles(res.Books))
		assert.Equal(t, "lonely.jpg", res.Books[0].ImageURL)
	})
}

func TestEngine_FallbackPath_SkipsUnusableMatch(t *testing.T) {
	e := NewEngine(testIndex(t), catalog.New([]catalog.Book{
		{Title: "Quiet Harbor", ImageURL: "qh.jpg"},
		{Title: "Quiet Harbor Nights", Author: "Ann Lee"},
		{Title: "Salt Roads", Author: "Ann Lee"},
		{Title: "Quiet Hours", Author: ""},
	}))

	res, err := e.Recommend("quiet harbor")
	require.NoError(t, err)
	assert.Equal(t, StrategyAuthor, res.Strategy)
	assert.Equal(t, "Quiet Harbor Nights", res.Matched)
	assert.Equal(t, []string{"Salt Roads"}, titles(res.Books))

	res, err = e.Recommend("quiet hours")
	require.NoError(t, err)
	assert.Equal(t, StrategySearch, res.Strategy)
	assert.Equal(t, "Quiet Hours", res.Matched)
	assert.Empty(t, res.Books)
}

func TestEngine_PivotTitleWithTrailingSpace(t *testing.T) {
	books, err := catalog.ReadCSV(strings.NewReader(
		"ISBN,Book-Title,Book-Author,Image-URL-M\n1,Alpha,A,a.jpg\n2,Beta ,B,b.jpg\n"), ',')
	require.NoError(t, err)
	ix, err := similarity.New([]string{"Alpha", "Beta "}, [][]float64{{1, .5}, {.5, 1}})
	require.NoError(t, err)

	res, err := NewEngine(ix, catalog.New(books)).Recommend("Alpha")
	require.NoError(t, err)
	assert.Equal(t, []string{"Beta "}, titles(res.Books))
	assert.Equal(t, "B", res.Books[0].Author)
}

func TestEngine_NotFound(t *testing.T) {
	e := testEngine(t)

	_, err := e.Recommend("zzznonexistentbook")
	assert.ErrorIs(t, err, ErrNotFound)

	for _, q := range []string{"", "   ", "\t\n"} {
		_, err := e.Recommend(q)
		assert.ErrorIs(t, err, ErrEmptyQuery)
	}
}

func TestEngine_Properties(t *testing.T) {
	e := testEngine(t)
	queries := append([]string{
		"harry", "the", "rare", "doe book", "volume", "lonely", "zzz", "tower", "KING",
	}, pivotTitles...)

	for _, q := range queries {
		first, err1 := e.Recommend(q)
		second, err2 := e.Recommend(q)

		assert.Equal(t, err1, err2, q)
		assert.Equal(t, first, second, q)
		assert.LessOrEqual(t, len(first.Books), Limit, q)
	}

	for _, title := range pivotTitles {
		res, err := e.Recommend(title)
		require.NoError(t, err)
		assert.Equal(t, StrategySimilarity, res.Strategy)
		assert.NotContains(t, titles(res.Books), title)
	}
}

func TestEngine_ConcurrentReaders(t *testing.T) {
	e := testEngine(t)
	want, err := e.Recommend("chamber of secrets")
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]Result, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = e.Recommend("chamber of secrets")
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}
