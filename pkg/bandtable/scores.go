package bandtable

import (
	"fmt"
	"sort"

	"github.com/henderiw/intervalset/pkg/interval"
	"gonum.org/v1/gonum/stat"
	"k8s.io/apimachinery/pkg/labels"
)

// QuantileBoundaries returns n+1 band edges cutting scores into n
// equally populated bands. The first edge is the lowest score, the
// last the highest.
func QuantileBoundaries(scores []float64, n int) ([]float64, error) {
	if n <= 0 {
		return nil, fmt.Errorf("invalid band count %d", n)
	}
	if len(scores) < n {
		return nil, fmt.Errorf("cannot cut %d scores into %d bands", len(scores), n)
	}
	sorted := make([]float64, len(scores))
	copy(sorted, scores)
	sort.Float64s(sorted)

	edges := make([]float64, 0, n+1)
	for i := 0; i <= n; i++ {
		p := float64(i) / float64(n)
		edges = append(edges, stat.Quantile(p, stat.Empirical, sorted, nil))
	}
	return edges, nil
}

// NewFromScores builds a table of contiguous bands over the score
// distribution, one band per name. Bands are half open so every score
// lands in exactly one band; the top band is closed to include the
// maximum.
func NewFromScores(names []string, scores []float64) (BandTable, error) {
	edges, err := QuantileBoundaries(scores, len(names))
	if err != nil {
		return nil, err
	}
	t, err := New()
	if err != nil {
		return nil, err
	}
	for i, name := range names {
		min := interval.Closed(edges[i])
		max := interval.Open(edges[i+1])
		if i == len(names)-1 {
			max = interval.Closed(edges[i+1])
		}
		ival, err := interval.NewNamed(name, min, max)
		if err != nil {
			return nil, fmt.Errorf("band %s collapsed, edges %v: %w", name, edges, err)
		}
		if err := t.Claim(name, ival, labels.Set{"band": name}); err != nil {
			return nil, err
		}
	}
	return t, nil
}
