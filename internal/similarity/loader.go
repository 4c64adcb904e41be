package similarity

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"
)

// Artifact is the on-disk form of the trained model.
type Artifact struct {
	Titles []string    `json:"titles"`
	Scores [][]float64 `json:"scores"`
}

// Load reads a model artifact. Paths ending in .gz are decompressed.
func Load(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open model: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open model %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}

	ix, err := Decode(r)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", path, err)
	}
	return ix, nil
}

// Decode reads a JSON artifact from r and validates it.
func Decode(r io.Reader) (*Index, error) {
	var a Artifact
	if err := json.NewDecoder(r).Decode(&a); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	return New(a.Titles, a.Scores)
}

// Encode writes ix in artifact form.
func Encode(w io.Writer, ix *Index) error {
	return json.NewEncoder(w).Encode(Artifact{Titles: ix.titles, Scores: ix.scores})
}
