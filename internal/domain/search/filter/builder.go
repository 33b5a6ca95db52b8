package filter

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/furnimatch/internal/domain/attributes"
)

// Index field names the optional predicates target.
const (
	FieldTopCategory   = "topCategory"
	FieldCategory      = "category"
	FieldColorsPrimary = "colors_primary"
	FieldColorsAll     = "colors_all_colors"
	FieldMaterials     = "materials"
	FieldStyle         = "style"
)

// PredicateBuilder derives an optional clause from extracted attributes.
// ok is false when the attributes give it nothing to filter on.
type PredicateBuilder func(a attributes.Attributes) (c Clause, ok bool, err error)

// Builder produces the search filter: the mandatory top-category clause
// followed by the enabled optional clauses in order.
type Builder struct {
	topCategory string
	optional    []PredicateBuilder
}

// NewBuilder creates a builder restricted to topCategory with the given optional predicates.
func NewBuilder(topCategory string, optional ...PredicateBuilder) *Builder {
	return &Builder{topCategory: topCategory, optional: optional}
}

// Build returns the filter for a set of extracted attributes.
func (b *Builder) Build(a attributes.Attributes) (Expression, error) {
	top, err := NewIn(FieldTopCategory, b.topCategory)
	if err != nil {
		return Expression{}, fmt.Errorf("mandatory clause: %w", err)
	}
	clauses := []Clause{AnyOf(top)}

	for _, pb := range b.optional {
		c, ok, err := pb(a)
		if err != nil {
			return Expression{}, err
		}
		if ok {
			clauses = append(clauses, c)
		}
	}
	return NewExpression(clauses...)
}

// ByFurnitureType restricts the category to the extracted furniture type.
func ByFurnitureType(a attributes.Attributes) (Clause, bool, error) {
	return single(FieldCategory, []string{a.FurnitureType})
}

// ByColor matches the primary color or any listed color.
func ByColor(a attributes.Attributes) (Clause, bool, error) {
	if !hasValue(a.Colors) {
		return Clause{}, false, nil
	}
	primary, err := NewIn(FieldColorsPrimary, a.Colors...)
	if err != nil {
		return Clause{}, false, err
	}
	all, err := NewIn(FieldColorsAll, a.Colors...)
	if err != nil {
		return Clause{}, false, err
	}
	return AnyOf(primary, all), true, nil
}

// ByMaterial restricts materials to the extracted ones.
func ByMaterial(a attributes.Attributes) (Clause, bool, error) {
	return single(FieldMaterials, a.Materials)
}

// ByStyle restricts styles to the extracted ones.
func ByStyle(a attributes.Attributes) (Clause, bool, error) {
	return single(FieldStyle, a.Styles)
}

// Optional returns the predicate builders for the given names
// ("furniture_type", "color", "material", "style") in the given order.
func Optional(names []string) ([]PredicateBuilder, error) {
	out := make([]PredicateBuilder, 0, len(names))
	for _, n := range names {
		switch n {
		case "furniture_type":
			out = append(out, ByFurnitureType)
		case "color":
			out = append(out, ByColor)
		case "material":
			out = append(out, ByMaterial)
		case "style":
			out = append(out, ByStyle)
		default:
			return nil, fmt.Errorf("unknown filter predicate %q", n)
		}
	}
	return out, nil
}

func single(field string, values []string) (Clause, bool, error) {
	if !hasValue(values) {
		return Clause{}, false, nil
	}
	p, err := NewIn(field, values...)
	if err != nil {
		return Clause{}, false, err
	}
	return AnyOf(p), true, nil
}

func hasValue(values []string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}
