package catalog

// SearchQuery defines a title search and its page window.
type SearchQuery struct {
	Q      string
	Limit  int
	Offset int
}

type Service struct {
	cat *Catalog
}

func NewService(cat *Catalog) *Service {
	return &Service{cat: cat}
}

// Search returns one page of deduplicated records whose title contains q,
// along with the total number of distinct matching titles.
func (s *Service) Search(q SearchQuery) ([]Book, int) {
	matches := DedupeByTitle(s.cat.SearchTitle(q.Q))
	total := len(matches)

	if q.Offset >= total {
		return []Book{}, total
	}
	end := total
	if q.Limit > 0 && q.Offset+q.Limit < total {
		end = q.Offset + q.Limit
	}
	return matches[q.Offset:end], total
}

// Lookup resolves titles to their first catalog record, in the given order.
// Titles the catalog does not know are returned with only the title set.
func (s *Service) Lookup(titles []string) []Book {
	out := make([]Book, 0, len(titles))
	for _, t := range titles {
		if b, ok := s.cat.FirstByTitle(t); ok {
			out = append(out, b)
			continue
		}
		out = append(out, Book{Title: t})
	}
	return out
}
