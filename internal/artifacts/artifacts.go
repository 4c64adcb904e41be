// Package artifacts loads the static data the recommender serves from: the
// book catalog, the similarity model and the popularity ranking.
package artifacts

import (
	"fmt"
	"time"
	"unicode/utf8"

	"bookrec/internal/catalog"
	"bookrec/internal/config"
	"bookrec/internal/logging"
	"bookrec/internal/metrics"
	"bookrec/internal/popular"
	"bookrec/internal/recommend"
	"bookrec/internal/similarity"
)

// Set is everything loaded at startup. All fields are immutable.
type Set struct {
	Catalog *catalog.Catalog
	Index   *similarity.Index
	Ranking *popular.Ranking
}

// Load reads all three artifacts. Any failure is returned; callers treat it
// as fatal.
func Load(cfg config.ArtifactsConfig) (*Set, error) {
	start := time.Now()

	delim, _ := utf8.DecodeRuneInString(cfg.CatalogDelimiter)
	cat, err := catalog.LoadCSV(cfg.CatalogPath, delim)
	if err != nil {
		return nil, err
	}

	ix, err := similarity.Load(cfg.ModelPath)
	if err != nil {
		return nil, err
	}

	ranking, err := popular.LoadCSV(cfg.PopularPath)
	if err != nil {
		return nil, err
	}

	s := &Set{Catalog: cat, Index: ix, Ranking: ranking}
	s.record()

	logging.Info().
		Int("catalog_records", cat.Len()).
		Int("catalog_titles", cat.Titles()).
		Int("pivot_titles", ix.Len()).
		Int("ranked", ranking.Len()).
		Dur("took", time.Since(start)).
		Msg("artifacts loaded")
	return s, nil
}

func (s *Set) record() {
	metrics.ArtifactRecords.WithLabelValues("catalog").Set(float64(s.Catalog.Len()))
	metrics.ArtifactRecords.WithLabelValues("pivot").Set(float64(s.Index.Len()))
	metrics.ArtifactRecords.WithLabelValues("popular").Set(float64(s.Ranking.Len()))
}

// Engine builds the recommendation engine over the loaded artifacts.
func (s *Set) Engine() *recommend.Engine {
	return recommend.NewEngine(s.Index, s.Catalog)
}

// Report summarises how well the artifacts line up with each other.
type Report struct {
	CatalogRecords int      `json:"catalog_records"`
	CatalogTitles  int      `json:"catalog_titles"`
	PivotTitles    int      `json:"pivot_titles"`
	Ranked         int      `json:"ranked"`
	MissingPivots  []string `json:"missing_pivots,omitempty"`
}

// Check lists pivot titles with no usable catalog record. Such titles can be
// resolved but never recommended.
func (s *Set) Check() Report {
	r := Report{
		CatalogRecords: s.Catalog.Len(),
		CatalogTitles:  s.Catalog.Titles(),
		PivotTitles:    s.Index.Len(),
		Ranked:         s.Ranking.Len(),
	}
	for _, t := range s.Index.Titles() {
		if _, ok := s.Catalog.FirstByTitle(t); !ok {
			r.MissingPivots = append(r.MissingPivots, t)
		}
	}
	return r
}

func (r Report) String() string {
	return fmt.Sprintf("catalog: %d records (%d titles), model: %d pivot titles (%d without catalog record), ranking: %d entries",
		r.CatalogRecords, r.CatalogTitles, r.PivotTitles, len(r.MissingPivots), r.Ranked)
}
