package retrieval

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/proctorhq/proctor/errors"
)

// poolFile is the on-disk YAML shape for an example pool. Both a bare
// list and a wrapped {examples: [...]} document are accepted.
type poolFile struct {
	Examples []Example `yaml:"examples"`
}

// LoadPool reads an example pool from a YAML file
func LoadPool(path string) ([]Example, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read example pool %s", path)
	}
	return ParsePool(data)
}

// ParsePool parses an example pool from YAML bytes
func ParsePool(data []byte) ([]Example, error) {
	// Try the wrapped form first. A present examples key wins even when
	// the list is empty; an empty pool file is a valid pool.
	var wrapped poolFile
	if err := yaml.Unmarshal(data, &wrapped); err == nil && wrapped.Examples != nil {
		return validatePool(wrapped.Examples)
	}

	var bare []Example
	if err := yaml.Unmarshal(data, &bare); err != nil {
		return nil, errors.Wrap(err, "failed to parse example pool")
	}
	return validatePool(bare)
}

func validatePool(pool []Example) ([]Example, error) {
	for i, ex := range pool {
		if ex.Input == "" {
			return nil, errors.NewInvalidRequestError("example %d has empty input", i)
		}
	}
	return pool, nil
}
