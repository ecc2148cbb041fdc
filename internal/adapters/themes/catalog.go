// Package themes loads the theme catalog used to seed the themes table.
package themes

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"joiny/internal/domain"
)

//go:embed themes.yaml
var bundled []byte

type catalogFile struct {
	Themes []*domain.Theme `yaml:"themes"`
}

// Catalog reads themes from a YAML file, or from the bundled catalog when no path is set.
type Catalog struct {
	path string
}

var _ domain.ThemeCatalog = (*Catalog)(nil)

func NewCatalog(path string) *Catalog {
	return &Catalog{path: path}
}

func (c *Catalog) Load() ([]*domain.Theme, error) {
	data := bundled
	if c.path != "" {
		b, err := os.ReadFile(c.path)
		if err != nil {
			return nil, fmt.Errorf("read theme catalog: %w", err)
		}
		data = b
	}
	return parse(data)
}

func parse(data []byte) ([]*domain.Theme, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode theme catalog: %w", err)
	}
	seen := make(map[string]bool, len(f.Themes))
	for _, t := range f.Themes {
		if t == nil || t.Name == "" {
			return nil, fmt.Errorf("theme catalog: entry without a name")
		}
		if seen[t.Name] {
			return nil, fmt.Errorf("theme catalog: duplicate theme %q", t.Name)
		}
		seen[t.Name] = true
	}
	return f.Themes, nil
}
