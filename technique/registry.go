package technique

import (
	"strings"

	"github.com/proctorhq/proctor/errors"
	"github.com/proctorhq/proctor/retrieval"
)

// Registry is a read-only catalog of techniques, keyed by slug. It is
// built once with NewRegistry or DefaultRegistry and never mutated after,
// so concurrent readers need no locking.
type Registry struct {
	byKey map[string]Technique
	order []string
}

// NewRegistry builds a registry from the given techniques. Keys are the
// slugged technique names ("Zero-Shot CoT" becomes "zero_shot_cot"); a
// duplicate key is an error.
func NewRegistry(techniques ...Technique) (*Registry, error) {
	r := &Registry{byKey: make(map[string]Technique, len(techniques))}
	for _, t := range techniques {
		key := Slug(t.Name())
		if key == "" {
			return nil, errors.NewInvalidRequestError("technique %q produces an empty registry key", t.Name())
		}
		if _, exists := r.byKey[key]; exists {
			return nil, errors.NewInvalidRequestError("duplicate technique key %q", key)
		}
		r.byKey[key] = t
		r.order = append(r.order, key)
	}
	return r, nil
}

// DefaultRegistry builds the full catalog. The selector powers the KNN
// technique; pass nil to register KNN in an unusable state (it reports
// the missing dependency when invoked).
func DefaultRegistry(selector retrieval.Selector) *Registry {
	r, err := NewRegistry(
		NewEmotionPrompting(),
		NewRolePrompting(),
		NewSelfAsk(),
		NewExampleGeneration(),
		NewKNN(selector),
		NewChainOfThought(3),
		NewZeroShotCoT(),
		NewFewShotCoT(),
		NewSelfConsistency(),
		NewChainOfVerification(),
		NewDecomp(),
	)
	if err != nil {
		// The built-in catalog has fixed, distinct names.
		panic(err)
	}
	return r
}

// Get returns the technique registered under key.
func (r *Registry) Get(key string) (Technique, error) {
	t, ok := r.byKey[Slug(key)]
	if !ok {
		return nil, errors.NewNotFoundError("unknown technique %q", key)
	}
	return t, nil
}

// List returns techniques whose identifier starts with categoryPrefix, in
// registration order. An empty prefix returns the whole catalog.
func (r *Registry) List(categoryPrefix string) []Technique {
	out := make([]Technique, 0, len(r.order))
	for _, key := range r.order {
		t := r.byKey[key]
		if categoryPrefix == "" || strings.HasPrefix(t.Identifier(), categoryPrefix) {
			out = append(out, t)
		}
	}
	return out
}

// Keys returns every registry key in registration order.
func (r *Registry) Keys() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len reports how many techniques are registered.
func (r *Registry) Len() int { return len(r.order) }

// Slug normalizes a technique name into a registry key: lowercase, with
// spaces, hyphens and parenthesized suffixes collapsed to underscores.
// "Chain-of-Thought" becomes "chain_of_thought".
func Slug(name string) string {
	var b strings.Builder
	lastUnderscore := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimRight(b.String(), "_")
}
