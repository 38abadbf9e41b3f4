package embedding

import (
	"context"
	"crypto/sha256"
	"math"

	"github.com/proctorhq/proctor/errors"
)

// LocalDimension is the vector size produced by the local provider
const LocalDimension = 384

// LocalProvider produces deterministic hash-derived vectors without any
// external service. Useful for tests and offline runs; the vectors carry
// no semantic signal, only stable identity.
type LocalProvider struct{}

// NewLocalProvider creates a local embedding provider
func NewLocalProvider() *LocalProvider {
	return &LocalProvider{}
}

// Embed implements Provider
func (l *LocalProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, errors.NewInvalidRequestError("text cannot be empty")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vector := make([]float32, LocalDimension)

	// Stretch the 32-byte digest across the vector by rehashing with a
	// counter suffix, then normalize to unit length
	digest := sha256.Sum256([]byte(text))
	for i := 0; i < LocalDimension; i++ {
		if i > 0 && i%len(digest) == 0 {
			digest = sha256.Sum256(digest[:])
		}
		vector[i] = float32(digest[i%len(digest)])/255.0 - 0.5
	}

	return normalize(vector), nil
}

// EmbedBatch implements Provider
func (l *LocalProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, errors.NewInvalidRequestError("no texts provided")
	}
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := l.Embed(ctx, text)
		if err != nil {
			return nil, errors.Wrapf(err, "embedding text %d", i)
		}
		vectors[i] = vec
	}
	return vectors, nil
}

// Model implements Provider
func (l *LocalProvider) Model() string {
	return "local-hash"
}

// Close implements Provider
func (l *LocalProvider) Close() error {
	return nil
}

// normalize scales a vector to unit length. Zero vectors pass through.
func normalize(v []float32) []float32 {
	var sum float64
	for _, val := range v {
		sum += float64(val) * float64(val)
	}
	if sum == 0 {
		return v
	}
	norm := float32(math.Sqrt(sum))
	for i := range v {
		v[i] /= norm
	}
	return v
}
