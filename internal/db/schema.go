package db

import (
	"fmt"
	"regexp"
)

// FieldType is the FT.CREATE schema type of an indexed JSON path.
type FieldType int

const (
	FieldText FieldType = iota + 1
	FieldTag
	FieldNumeric
	FieldVector
)

// Keyword returns the FT.CREATE token for t, or "" when t is unknown.
func (t FieldType) Keyword() string {
	switch t {
	case FieldText:
		return "TEXT"
	case FieldTag:
		return "TAG"
	case FieldNumeric:
		return "NUMERIC"
	case FieldVector:
		return "VECTOR"
	}
	return ""
}

// DistanceMetric is the DISTANCE_METRIC of a vector field.
type DistanceMetric string

const (
	DistanceCosine DistanceMetric = "COSINE"
	DistanceL2     DistanceMetric = "L2"
	DistanceIP     DistanceMetric = "IP"
)

// HNSW describes a FLOAT32 HNSW vector field. Zero tuning values fall back
// to the server defaults.
type HNSW struct {
	Dim            int
	Distance       DistanceMetric
	M              int
	EFConstruction int
	EFRuntime      int
}

// IndexField maps one JSON path to a schema attribute.
type IndexField struct {
	Path     string
	Alias    string
	Type     FieldType
	Sortable bool
	Vector   *HNSW
}

// Attribute is the name queries use for the field.
func (f *IndexField) Attribute() string {
	if f.Alias != "" {
		return f.Alias
	}
	return f.Path
}

// IndexDefinition is an FT.CREATE request over JSON documents.
type IndexDefinition struct {
	Name     string
	Prefixes []string
	Fields   []IndexField
}

var indexNameRe = regexp.MustCompile(`^[A-Za-z0-9_:-]+$`)

// Validate rejects definitions the server would refuse or silently mangle.
func (d *IndexDefinition) Validate() error {
	if !indexNameRe.MatchString(d.Name) {
		return fmt.Errorf("index name %q must match %s", d.Name, indexNameRe)
	}
	if len(d.Fields) == 0 {
		return fmt.Errorf("index %s: schema has no fields", d.Name)
	}

	seen := make(map[string]struct{}, len(d.Fields))
	for i := range d.Fields {
		f := &d.Fields[i]
		attr := f.Attribute()
		switch {
		case f.Path == "":
			return fmt.Errorf("index %s: field %d has no path", d.Name, i)
		case f.Type.Keyword() == "":
			return fmt.Errorf("index %s: field %s has unknown type %d", d.Name, attr, f.Type)
		case f.Type == FieldVector && (f.Vector == nil || f.Vector.Dim <= 0):
			return fmt.Errorf("index %s: vector field %s needs a positive dimension", d.Name, attr)
		case f.Type == FieldVector && f.Sortable:
			return fmt.Errorf("index %s: vector field %s cannot be sortable", d.Name, attr)
		}
		if _, dup := seen[attr]; dup {
			return fmt.Errorf("index %s: duplicate attribute %s", d.Name, attr)
		}
		seen[attr] = struct{}{}
	}
	return nil
}

// SchemaBuilder assembles an IndexDefinition one field at a time.
type SchemaBuilder struct {
	def IndexDefinition
}

// NewSchema starts a JSON index named name over keys with the given prefixes.
func NewSchema(name string, prefixes ...string) *SchemaBuilder {
	return &SchemaBuilder{def: IndexDefinition{Name: name, Prefixes: prefixes}}
}

func (b *SchemaBuilder) Text(path, alias string) *SchemaBuilder {
	return b.add(IndexField{Path: path, Alias: alias, Type: FieldText})
}

func (b *SchemaBuilder) Tag(path, alias string, sortable bool) *SchemaBuilder {
	return b.add(IndexField{Path: path, Alias: alias, Type: FieldTag, Sortable: sortable})
}

func (b *SchemaBuilder) Numeric(path, alias string, sortable bool) *SchemaBuilder {
	return b.add(IndexField{Path: path, Alias: alias, Type: FieldNumeric, Sortable: sortable})
}

func (b *SchemaBuilder) Vector(path, alias string, params HNSW) *SchemaBuilder {
	return b.add(IndexField{Path: path, Alias: alias, Type: FieldVector, Vector: &params})
}

func (b *SchemaBuilder) add(f IndexField) *SchemaBuilder {
	b.def.Fields = append(b.def.Fields, f)
	return b
}

// Build validates and returns a copy of the accumulated definition.
func (b *SchemaBuilder) Build() (*IndexDefinition, error) {
	def := b.def
	def.Fields = append([]IndexField(nil), b.def.Fields...)
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}
