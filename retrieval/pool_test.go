package retrieval

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proctorhq/proctor/errors"
)

func TestParsePool(t *testing.T) {
	t.Run("wrapped form", func(t *testing.T) {
		data := []byte(`
examples:
  - input: "What sound does a cat make?"
    output: "Meow"
  - input: "What sound does a dog make?"
    output: "Woof"
`)
		pool, err := ParsePool(data)
		require.NoError(t, err)
		require.Len(t, pool, 2)
		assert.Equal(t, "Meow", pool[0].Output)
	})

	t.Run("bare list form", func(t *testing.T) {
		data := []byte(`
- input: "2 + 2"
  output: "4"
`)
		pool, err := ParsePool(data)
		require.NoError(t, err)
		require.Len(t, pool, 1)
		assert.Equal(t, "2 + 2", pool[0].Input)
	})

	t.Run("wrapped form with empty list", func(t *testing.T) {
		pool, err := ParsePool([]byte("examples: []\n"))
		require.NoError(t, err)
		assert.Empty(t, pool)
	})

	t.Run("empty input rejected", func(t *testing.T) {
		data := []byte(`
- input: ""
  output: "orphan"
`)
		_, err := ParsePool(data)
		assert.True(t, errors.IsInvalidRequest(err))
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := ParsePool([]byte("{{not yaml"))
		assert.Error(t, err)
	})
}

func TestLoadPool(t *testing.T) {
	t.Run("loads from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "pool.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
examples:
  - input: "hello"
    output: "world"
`), 0644))

		pool, err := LoadPool(path)
		require.NoError(t, err)
		require.Len(t, pool, 1)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadPool(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}
