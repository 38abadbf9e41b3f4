// Package retrieval selects few-shot examples for a query, either
// semantically (embedding similarity) or at random.
package retrieval

import (
	"context"

	"github.com/proctorhq/proctor/config"
	"github.com/proctorhq/proctor/embedding"
	"github.com/proctorhq/proctor/errors"
)

// Example is a single input/output demonstration pair
type Example struct {
	Input  string `yaml:"input" json:"input"`
	Output string `yaml:"output" json:"output"`
}

// RankedExample is an example with its similarity score against a query.
// Random selection reports a zero score.
type RankedExample struct {
	Example
	Score float64 `json:"score"`
}

// Selector picks up to k examples from a pool for a query
type Selector interface {
	// Select returns at most k examples ranked most-relevant-first.
	// An empty pool yields an empty result, never an error.
	Select(ctx context.Context, query string, pool []Example, k int) ([]RankedExample, error)
}

// NewSelector constructs the selector named by the retrieval strategy.
// The strategy is an explicit configuration choice; unknown strategies are
// an error, never a silent fallback.
func NewSelector(cfg config.RetrievalConfig, provider embedding.Provider) (Selector, error) {
	switch cfg.Strategy {
	case config.StrategySemantic, "":
		if provider == nil {
			return nil, errors.Wrap(errors.ErrDependencyUnavailable,
				"semantic selection requires an embedding provider")
		}
		return NewSemanticSelector(provider), nil
	case config.StrategyRandom:
		return NewRandomSelector(0), nil
	default:
		return nil, errors.Newf("unknown retrieval strategy: %s (valid: %s, %s)",
			cfg.Strategy, config.StrategySemantic, config.StrategyRandom)
	}
}

// clampK bounds k to [0, len(pool)]
func clampK(k, poolSize int) int {
	if k < 0 {
		return 0
	}
	if k > poolSize {
		return poolSize
	}
	return k
}
