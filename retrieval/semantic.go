package retrieval

import (
	"context"
	"math"
	"sort"

	"github.com/proctorhq/proctor/embedding"
	"github.com/proctorhq/proctor/errors"
	"github.com/proctorhq/proctor/logger"
)

// SemanticSelector ranks pool examples by cosine similarity between the
// query embedding and each example's input embedding.
type SemanticSelector struct {
	provider embedding.Provider
}

// NewSemanticSelector creates a selector backed by the given embedding
// provider. The provider is wrapped in a memoizing cache unless it already
// is one, so repeated selections over the same pool embed each input once.
func NewSemanticSelector(provider embedding.Provider) *SemanticSelector {
	if _, ok := provider.(*embedding.Cache); !ok {
		provider = embedding.NewCache(provider)
	}
	return &SemanticSelector{provider: provider}
}

// Select implements Selector
func (s *SemanticSelector) Select(ctx context.Context, query string, pool []Example, k int) ([]RankedExample, error) {
	if query == "" {
		return nil, errors.NewInvalidRequestError("query cannot be empty")
	}

	k = clampK(k, len(pool))
	if len(pool) == 0 || k == 0 {
		return []RankedExample{}, nil
	}

	queryVec, err := s.provider.Embed(ctx, query)
	if err != nil {
		return nil, errors.Wrap(errors.WithSecondaryError(errors.ErrRetrieval, err), "failed to embed query")
	}

	ranked := make([]RankedExample, len(pool))
	for i, ex := range pool {
		vec, err := s.provider.Embed(ctx, ex.Input)
		if err != nil {
			return nil, errors.Wrapf(errors.WithSecondaryError(errors.ErrRetrieval, err),
				"failed to embed example %d", i)
		}
		ranked[i] = RankedExample{
			Example: ex,
			Score:   Cosine(queryVec, vec),
		}
	}

	// Stable: ties keep pool order
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	logger.Debugw("Semantic selection complete",
		"pool_size", len(pool),
		"k", k,
		"top_score", ranked[0].Score,
		"model", s.provider.Model())

	return ranked[:k], nil
}

// Cosine computes the cosine similarity between two vectors. Returns 0
// when either vector has zero norm or the dimensions differ.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
