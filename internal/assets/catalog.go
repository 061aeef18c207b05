package assets

import (
	_ "embed"
	"fmt"

	"github.com/Faultbox/hexdelve/internal/yamldoc"
	"github.com/Faultbox/hexdelve/pkg/autotile"
)

//go:embed catalog.schema.json
var catalogSchemaSource string

var catalogSchema = yamldoc.NewSchema("catalog.schema.json", catalogSchemaSource)

// Catalog describes a tile set: its dimensions and the shapes it lacks.
type Catalog struct {
	Dimensions `yaml:",inline"`

	Name     string   `yaml:"name"`
	Disabled []string `yaml:"disabled"`
}

// DefaultCatalog returns the stock tile set.
func DefaultCatalog() *Catalog {
	return &Catalog{Name: "default", Dimensions: DefaultDimensions()}
}

// DisabledShapes parses the Disabled list.
func (c *Catalog) DisabledShapes() ([]autotile.Shape, error) {
	out := make([]autotile.Shape, 0, len(c.Disabled))
	for _, name := range c.Disabled {
		s, ok := autotile.ParseShape(name)
		if !ok {
			return nil, fmt.Errorf("catalog %q: unknown shape %q", c.Name, name)
		}
		out = append(out, s)
	}
	return out, nil
}

// Library builds the procedural library described by the catalog.
func (c *Catalog) Library(table *autotile.Table) (*Library, error) {
	disabled, err := c.DisabledShapes()
	if err != nil {
		return nil, err
	}
	return NewLibrary(c.Dimensions, table, disabled...)
}

// LoadCatalog reads a YAML catalog. Files ending in .zst are zstd-compressed.
// Keys missing from the file keep their DefaultCatalog values.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := yamldoc.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cat, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return cat, nil
}

// ParseCatalog validates YAML catalog data against the catalog schema and decodes it.
func ParseCatalog(data []byte) (*Catalog, error) {
	cat := DefaultCatalog()
	if err := yamldoc.Decode(catalogSchema, data, cat); err != nil {
		return nil, err
	}
	if err := cat.Dimensions.Validate(); err != nil {
		return nil, err
	}
	return cat, nil
}
