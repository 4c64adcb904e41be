// Package popular serves the precomputed popularity ranking: the most rated
// books with their vote counts and average ratings.
package popular

// Entry is one ranked book.
type Entry struct {
	Title    string  `json:"title"`
	Author   string  `json:"author"`
	ImageURL string  `json:"image_url"`
	Votes    int     `json:"votes"`
	Rating   float64 `json:"rating"`
}

const categorySize = 10

// Category names with a fixed window into the ranking. Any other name maps to
// the tail of the ranking.
var categoryWindows = []struct {
	Name  string
	Start int
}{
	{"Fiction", 0},
	{"Non-Fiction", 10},
	{"Sci-Fi", 20},
}

// Ranking is an immutable ordered list of entries.
type Ranking struct {
	entries []Entry
}

func New(entries []Entry) *Ranking {
	return &Ranking{entries: append([]Entry(nil), entries...)}
}

func (r *Ranking) Len() int {
	return len(r.entries)
}

// All returns the whole ranking, best first.
func (r *Ranking) All() []Entry {
	return r.window(0, len(r.entries))
}

// Top returns at most n entries from the head of the ranking.
func (r *Ranking) Top(n int) []Entry {
	return r.window(0, n)
}

// Categories lists the named category windows.
func Categories() []string {
	names := make([]string, 0, len(categoryWindows))
	for _, c := range categoryWindows {
		names = append(names, c.Name)
	}
	return names
}

// Category returns the slice of the ranking shown for name.
func (r *Ranking) Category(name string) []Entry {
	for _, c := range categoryWindows {
		if c.Name == name {
			return r.window(c.Start, c.Start+categorySize)
		}
	}
	start := len(r.entries) - categorySize
	if start < 0 {
		start = 0
	}
	return r.window(start, len(r.entries))
}

func (r *Ranking) window(start, end int) []Entry {
	if end > len(r.entries) {
		end = len(r.entries)
	}
	if start >= end {
		return []Entry{}
	}
	return append([]Entry(nil), r.entries[start:end]...)
}
