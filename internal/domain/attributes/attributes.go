// Package attributes turns the labeled attribute block of a generated furniture
// description into structured search attributes.
package attributes

import (
	"regexp"
	"strings"
)

// Attributes are the structured attributes recognized in a description.
// Every field is independently optional.
type Attributes struct {
	FurnitureType string
	Styles        []string
	Colors        []string
	Materials     []string
}

// Empty returns an attribute set with every field at its empty default.
func Empty() Attributes {
	return Attributes{
		Styles:    []string{},
		Colors:    []string{},
		Materials: []string{},
	}
}

// IsEmpty reports whether no attribute was recognized.
func (a Attributes) IsEmpty() bool {
	return a.FurnitureType == "" && len(a.Styles) == 0 && len(a.Colors) == 0 && len(a.Materials) == 0
}

// Extractor parses free text into attributes. Implementations never fail:
// unrecognized input yields Empty().
type Extractor interface {
	Extract(text string) Attributes
}

var labelLine = regexp.MustCompile(`(?i)(furniture type|style|color|material)\s*:\s*(.+)`)

// LineExtractor recognizes "Label: a,b,c" lines for the labels furniture type,
// style, color and material, case-insensitively. A later line for the same
// label replaces the earlier one. Values are split on "," with no per-item
// trimming, so "modern, rustic" yields "modern" and " rustic".
type LineExtractor struct{}

// NewLineExtractor creates the regex-based extractor.
func NewLineExtractor() LineExtractor { return LineExtractor{} }

// Extract implements Extractor.
func (LineExtractor) Extract(text string) Attributes {
	out := Empty()
	if strings.TrimSpace(text) == "" {
		return out
	}

	for _, m := range labelLine.FindAllStringSubmatch(text, -1) {
		value := strings.TrimSpace(m[2])
		if value == "" {
			continue
		}
		switch strings.ToLower(m[1]) {
		case "furniture type":
			out.FurnitureType = value
		case "style":
			out.Styles = strings.Split(value, ",")
		case "color":
			out.Colors = strings.Split(value, ",")
		case "material":
			out.Materials = strings.Split(value, ",")
		}
	}
	return out
}
