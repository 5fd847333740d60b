package mapping

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/schemaguard/internal/domain"
	dommapping "github.com/kailas-cloud/schemaguard/internal/domain/mapping"
)

var validate = validator.New()

// propertyFile is one property-to-field line of a mapping file.
// ComputedScore and PatternMapped override the flags inferred from the field name.
type propertyFile struct {
	Property      string `yaml:"property" validate:"required"`
	Field         string `yaml:"field"`
	ComputedScore *bool  `yaml:"computed_score,omitempty"`
	PatternMapped *bool  `yaml:"pattern_mapped,omitempty"`
}

type documentFile struct {
	Type       string         `yaml:"type" validate:"required"`
	UniqueKey  string         `yaml:"unique_key"`
	Properties []propertyFile `yaml:"properties" validate:"required,min=1,dive"`
}

type mappingFile struct {
	Documents []documentFile `yaml:"documents" validate:"required,min=1,dive"`
}

// Parse decodes a single mapping document into a new Model.
func Parse(r io.Reader) (*dommapping.Model, error) {
	m := dommapping.NewModel()
	if err := parseInto(m, r); err != nil {
		return nil, err
	}
	return m, nil
}

// LoadFile reads and parses one mapping file.
func LoadFile(path string) (*dommapping.Model, error) {
	return Load(path)
}

// Load merges several mapping files into one Model.
// A document type may be split across files; a property mapped twice is an error.
func Load(paths ...string) (*dommapping.Model, error) {
	m := dommapping.NewModel()
	for _, p := range paths {
		if err := loadInto(m, p); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func loadInto(m *dommapping.Model, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open mapping %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if err := parseInto(m, f); err != nil {
		return fmt.Errorf("mapping %s: %w", path, err)
	}
	return nil
}

func parseInto(m *dommapping.Model, r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc mappingFile
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty mapping document", domain.ErrInvalidMapping)
		}
		return fmt.Errorf("%w: %w", domain.ErrInvalidMapping, err)
	}
	if err := validate.Struct(&doc); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidMapping, err)
	}

	for _, d := range doc.Documents {
		for _, p := range d.Properties {
			if err := m.AddProperty(d.Type, toPropertyMapping(p)); err != nil {
				return err
			}
		}
		if d.UniqueKey != "" {
			if err := m.SetUniqueKey(d.Type, d.UniqueKey); err != nil {
				return err
			}
		}
	}
	return nil
}

func toPropertyMapping(p propertyFile) dommapping.PropertyMapping {
	pm := dommapping.NewPropertyMapping(p.Property, p.Field)
	if p.ComputedScore == nil && p.PatternMapped == nil {
		return pm
	}
	computed, pattern := pm.IsComputedScore(), pm.IsPatternMapped()
	if p.ComputedScore != nil {
		computed = *p.ComputedScore
	}
	if p.PatternMapped != nil {
		pattern = *p.PatternMapped
	}
	return dommapping.ReconstructPropertyMapping(p.Property, p.Field, computed, pattern)
}

// YAMLParser adapts Parse for consumers that accept mapping documents over the wire.
type YAMLParser struct{}

// Parse decodes a single mapping document.
func (YAMLParser) Parse(r io.Reader) (*dommapping.Model, error) {
	return Parse(r)
}
