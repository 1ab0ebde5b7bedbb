package progression

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

//go:embed catalog.schema.json
var catalogSchemaJSON string

var catalogSchema = jsonschema.MustCompileString("catalog.schema.json", catalogSchemaJSON)

// Catalog is the set of missions and traits a tracker is built from.
type Catalog struct {
	Missions []MissionDef `yaml:"missions" json:"missions"`
	Traits   []TraitDef   `yaml:"traits" json:"traits"`
}

// DefaultCatalog returns the built-in missions and traits.
func DefaultCatalog() Catalog {
	c, err := ParseCatalog(defaultCatalog)
	if err != nil {
		panic(err)
	}
	return c
}

// LoadCatalog reads a catalog from a YAML file.
func LoadCatalog(path string) (Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, err
	}
	c, err := ParseCatalog(raw)
	if err != nil {
		return Catalog{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// ParseCatalog decodes a YAML catalog, checks it against the catalog schema
// and then against the semantic rules NewTracker enforces.
func ParseCatalog(raw []byte) (Catalog, error) {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return Catalog{}, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}
	if err := validateSchema(doc); err != nil {
		return Catalog{}, err
	}

	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return Catalog{}, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}
	if err := validate(c.Missions, c.Traits); err != nil {
		return Catalog{}, err
	}
	return c, nil
}

// validateSchema runs the YAML document through JSON so the validator sees
// the same value types it would for a JSON file.
func validateSchema(doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}
	if err := catalogSchema.Validate(v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}
	return nil
}

// NewTracker builds a tracker for the catalog.
func (c Catalog) NewTracker(opts ...Option) (*Tracker, error) {
	return NewTracker(c.Missions, c.Traits, opts...)
}

// Mission looks up a mission definition by id.
func (c Catalog) Mission(id string) (MissionDef, bool) {
	for _, m := range c.Missions {
		if m.ID == id {
			return m, true
		}
	}
	return MissionDef{}, false
}
