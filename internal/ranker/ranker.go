// Package ranker orders candidate files by Euclidean distance between their
// embedding and a query embedding.
package ranker

import (
	"fmt"
	"math"
	"sort"

	"github.com/semscout/semscout/pkg/types"
)

// DefaultTopK is the number of results returned when the caller does not
// specify a limit.
const DefaultTopK = 5

// Candidate is one file with a valid embedding. Candidates are ranked in
// slice order, which keeps ties stable against the original enumeration.
type Candidate struct {
	Identity    string
	DisplayName string
	Vector      []float32
}

// Rank computes the Euclidean distance from the query vector to every
// candidate and returns the k nearest in ascending-distance order.
//
// A dimension mismatch between the query and any candidate means embeddings
// from incompatible models were mixed. That is a contract violation, so it
// is returned as an error rather than skipped or truncated.
func Rank(query []float32, candidates []Candidate, k int) ([]types.RankedResult, error) {
	if k <= 0 {
		k = DefaultTopK
	}

	results := make([]types.RankedResult, 0, len(candidates))
	for _, c := range candidates {
		if len(c.Vector) != len(query) {
			return nil, fmt.Errorf("%w: query has %d dimensions, %s has %d",
				types.ErrDimensionMismatch, len(query), c.Identity, len(c.Vector))
		}
		results = append(results, types.RankedResult{
			Identity:    c.Identity,
			DisplayName: c.DisplayName,
			Distance:    euclideanDistance(query, c.Vector),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})

	if k > len(results) {
		k = len(results)
	}
	return results[:k], nil
}

// euclideanDistance computes the L2 distance between two equal-length vectors.
func euclideanDistance(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}
