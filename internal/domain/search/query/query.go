// Package query builds the natural-language search text and carries a complete
// catalog search request.
package query

import (
	"strings"

	"github.com/kailas-cloud/furnimatch/internal/domain/attributes"
	"github.com/kailas-cloud/furnimatch/internal/domain/search/filter"
)

// PageSize is the number of hits requested per search.
const PageSize = 20

// SearchQuery is a complete catalog search request.
type SearchQuery struct {
	Text           string
	Filter         filter.Expression
	SemanticConfig string
	Size           int
}

// New creates a query with the fixed page size.
func New(text string, f filter.Expression, semanticConfig string) SearchQuery {
	return SearchQuery{Text: text, Filter: f, SemanticConfig: semanticConfig, Size: PageSize}
}

// Fragment is one phrase of the search text. It returns "" to contribute nothing.
type Fragment func(a attributes.Attributes, description string) string

// Fragment names accepted by Synthesizer options.
const (
	FragmentFurnitureType = "furniture_type"
	FragmentDescription   = "description"
	FragmentStyle         = "style"
	FragmentColor         = "color"
	FragmentMaterial      = "material"
)

type slot struct {
	name    string
	build   Fragment
	enabled bool
}

// Synthesizer joins enabled fragments, in fixed order, with single spaces.
type Synthesizer struct {
	slots []slot
}

// Option toggles a fragment.
type Option func(*Synthesizer)

// WithFragment enables or disables the named fragment.
func WithFragment(name string, enabled bool) Option {
	return func(s *Synthesizer) {
		for i := range s.slots {
			if s.slots[i].name == name {
				s.slots[i].enabled = enabled
			}
		}
	}
}

// NewSynthesizer creates a synthesizer with the description, style and color
// fragments enabled and the furniture type and material fragments disabled.
func NewSynthesizer(opts ...Option) *Synthesizer {
	s := &Synthesizer{slots: []slot{
		{name: FragmentFurnitureType, build: furnitureTypeFragment},
		{name: FragmentDescription, build: descriptionFragment, enabled: true},
		{name: FragmentStyle, build: styleFragment, enabled: true},
		{name: FragmentColor, build: colorFragment, enabled: true},
		{name: FragmentMaterial, build: materialFragment},
	}}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Synthesize returns the search text, or "" when no fragment applies.
func (s *Synthesizer) Synthesize(a attributes.Attributes, description string) string {
	parts := make([]string, 0, len(s.slots))
	for _, sl := range s.slots {
		if !sl.enabled {
			continue
		}
		if p := sl.build(a, description); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

func furnitureTypeFragment(a attributes.Attributes, _ string) string {
	if strings.TrimSpace(a.FurnitureType) == "" {
		return ""
	}
	return "Find items in " + a.FurnitureType + " category"
}

func descriptionFragment(_ attributes.Attributes, description string) string {
	if strings.TrimSpace(description) == "" {
		return ""
	}
	return "Find items that match " + description
}

func styleFragment(a attributes.Attributes, _ string) string {
	if len(a.Styles) == 0 {
		return ""
	}
	return "in " + strings.Join(a.Styles, " or ") + " theme or decor"
}

func colorFragment(a attributes.Attributes, _ string) string {
	if len(a.Colors) == 0 {
		return ""
	}
	return "with " + strings.Join(a.Colors, " or ") + " colors"
}

func materialFragment(a attributes.Attributes, _ string) string {
	if len(a.Materials) == 0 {
		return ""
	}
	return "made of " + strings.Join(a.Materials, " or ")
}
