package schema

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Type is the declared semantic type of a field.
type Type string

const (
	TypeUUID     Type = "uuid"
	TypeString   Type = "string"
	TypeNumber   Type = "number"
	TypeDouble   Type = "double"
	TypeBoolean  Type = "boolean"
	TypeDate     Type = "date"
	TypeObject   Type = "object"
	TypeUUIDList Type = "[uuid]"
)

func (t Type) valid() bool {
	switch t {
	case TypeUUID, TypeString, TypeNumber, TypeDouble, TypeBoolean, TypeDate, TypeObject, TypeUUIDList:
		return true
	default:
		return false
	}
}

// Field declares one schema field.
type Field struct {
	Type      Type `yaml:"type" json:"type"`
	Required  bool `yaml:"required" json:"required,omitempty"`
	Immutable bool `yaml:"immutable" json:"immutable,omitempty"`
	Index     bool `yaml:"index" json:"index,omitempty"`
	Unique    bool `yaml:"unique" json:"unique,omitempty"`
}

// Schema is the parsed field schema document.
type Schema struct {
	Fields map[string]Field `yaml:"fields" json:"fields"`
}

//go:embed default.yaml
var defaultDocument []byte

// Default returns the built-in package schema.
func Default() *Schema {
	s, err := Parse(defaultDocument)
	if err != nil {
		panic(fmt.Sprintf("built-in schema is invalid: %v", err))
	}
	return s
}

// Load reads a schema document from path.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid schema %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a YAML schema document and checks every declared type.
func Parse(data []byte) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}
	if len(s.Fields) == 0 {
		return nil, fmt.Errorf("schema declares no fields")
	}
	for name, f := range s.Fields {
		if !f.Type.valid() {
			return nil, fmt.Errorf("field %s: unknown type %q", name, f.Type)
		}
	}
	return &s, nil
}

// Names returns every declared field name in sorted order.
func (s *Schema) Names() []string {
	names := make([]string, 0, len(s.Fields))
	for name := range s.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Mutable returns the sorted names of fields that may change on update.
func (s *Schema) Mutable() []string {
	var names []string
	for _, name := range s.Names() {
		if !s.Fields[name].Immutable {
			names = append(names, name)
		}
	}
	return names
}

// Immutable returns the sorted names of fields fixed at creation.
func (s *Schema) Immutable() []string {
	var names []string
	for _, name := range s.Names() {
		if s.Fields[name].Immutable {
			names = append(names, name)
		}
	}
	return names
}
