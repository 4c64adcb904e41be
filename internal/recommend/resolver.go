package recommend

import (
	"strings"

	"bookrec/internal/similarity"
)

// Resolver maps free text to a position in the pivot index.
type Resolver struct {
	titles []string
	lower  []string
	exact  map[string]int
	folded map[string]int
}

// NewResolver indexes the pivot titles of ix. Ties always go to the lowest
// position, so the lookup tables keep the first title seen.
func NewResolver(ix *similarity.Index) *Resolver {
	titles := ix.Titles()
	r := &Resolver{
		titles: titles,
		lower:  make([]string, len(titles)),
		exact:  make(map[string]int, len(titles)),
		folded: make(map[string]int, len(titles)),
	}
	for i, t := range titles {
		l := strings.ToLower(t)
		r.lower[i] = l
		if _, ok := r.exact[t]; !ok {
			r.exact[t] = i
		}
		if _, ok := r.folded[l]; !ok {
			r.folded[l] = i
		}
	}
	return r
}

// Resolve returns the pivot position for query and true, or false when no
// pivot title matches. Matching tries, in order: the exact title, the title
// ignoring case, then the first title containing the query ignoring case.
func (r *Resolver) Resolve(query string) (int, bool) {
	q := strings.TrimSpace(query)
	if q == "" {
		return 0, false
	}
	if p, ok := r.exact[q]; ok {
		return p, true
	}

	lq := strings.ToLower(q)
	if p, ok := r.folded[lq]; ok {
		return p, true
	}
	for i, t := range r.lower {
		if strings.Contains(t, lq) {
			return i, true
		}
	}
	return 0, false
}
