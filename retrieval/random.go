package retrieval

import (
	"context"
	"math/rand"
	"time"

	"github.com/proctorhq/proctor/errors"
)

// RandomSelector samples k examples uniformly without replacement. It
// ignores the query entirely; callers choose it explicitly through
// configuration when no embedding provider is available or wanted.
type RandomSelector struct {
	rng *rand.Rand
}

// NewRandomSelector creates a random selector. A non-zero seed makes the
// selection deterministic; zero seeds from the clock.
func NewRandomSelector(seed int64) *RandomSelector {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandomSelector{rng: rand.New(rand.NewSource(seed))}
}

// Select implements Selector
func (r *RandomSelector) Select(ctx context.Context, query string, pool []Example, k int) ([]RankedExample, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "selection cancelled")
	}

	k = clampK(k, len(pool))
	if len(pool) == 0 || k == 0 {
		return []RankedExample{}, nil
	}

	perm := r.rng.Perm(len(pool))
	selected := make([]RankedExample, k)
	for i := 0; i < k; i++ {
		selected[i] = RankedExample{Example: pool[perm[i]]}
	}

	return selected, nil
}
