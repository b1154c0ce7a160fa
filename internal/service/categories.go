package service

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed categories.yml
var categoriesYAML []byte

// Category is one entry of the post category catalog.
type Category struct {
	Slug        string `yaml:"slug" json:"slug"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
}

// Catalog is the fixed set of categories posts may use.
type Catalog struct {
	Categories []Category `yaml:"categories"`
}

// LoadCatalog parses the embedded category catalog.
func LoadCatalog() (*Catalog, error) {
	return ParseCatalog(categoriesYAML)
}

// ParseCatalog parses a YAML category catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("parse category catalog: %w", err)
	}
	seen := make(map[string]struct{}, len(catalog.Categories))
	for _, c := range catalog.Categories {
		if c.Slug == "" {
			return nil, fmt.Errorf("category %q has no slug", c.Name)
		}
		if _, dup := seen[c.Slug]; dup {
			return nil, fmt.Errorf("duplicate category slug %q", c.Slug)
		}
		seen[c.Slug] = struct{}{}
	}
	return &catalog, nil
}

// Slugs returns the slug of every category, in catalog order.
func (c *Catalog) Slugs() []string {
	slugs := make([]string, 0, len(c.Categories))
	for _, cat := range c.Categories {
		slugs = append(slugs, cat.Slug)
	}
	return slugs
}
