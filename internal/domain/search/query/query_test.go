package query

import (
	"testing"

	"github.com/kailas-cloud/furnimatch/internal/domain/attributes"
	"github.com/kailas-cloud/furnimatch/internal/domain/search/filter"
)

func TestSynthesize_Default(t *testing.T) {
	a := attributes.Attributes{
		FurnitureType: "Chair",
		Styles:        []string{"modern", "rustic"},
		Colors:        []string{"blue"},
		Materials:     []string{"oak"},
	}
	got := NewSynthesizer().Synthesize(a, "a wooden chair")
	want := "Find items that match a wooden chair in modern or rustic theme or decor with blue colors"
	if got != want {
		t.Errorf("Synthesize() = %q, want %q", got, want)
	}
}

func TestSynthesize_Deterministic(t *testing.T) {
	s := NewSynthesizer()
	a := attributes.Attributes{Styles: []string{"boho"}, Colors: []string{"teal", "gold"}}
	first := s.Synthesize(a, "rattan armchair")
	for i := 0; i < 10; i++ {
		if got := s.Synthesize(a, "rattan armchair"); got != first {
			t.Fatalf("run %d: %q != %q", i, got, first)
		}
	}
}

func TestSynthesize_NoFragments(t *testing.T) {
	if got := NewSynthesizer().Synthesize(attributes.Empty(), "   "); got != "" {
		t.Errorf("Synthesize() = %q, want empty", got)
	}
}

func TestSynthesize_Toggles(t *testing.T) {
	a := attributes.Attributes{
		FurnitureType: "Sofa",
		Styles:        []string{"modern"},
		Colors:        []string{"gray"},
		Materials:     []string{"leather", "steel"},
	}
	tests := []struct {
		name string
		opts []Option
		want string
	}{
		{
			name: "hooks enabled",
			opts: []Option{WithFragment(FragmentFurnitureType, true), WithFragment(FragmentMaterial, true)},
			want: "Find items in Sofa category Find items that match a couch in modern theme or decor " +
				"with gray colors made of leather or steel",
		},
		{
			name: "style disabled",
			opts: []Option{WithFragment(FragmentStyle, false)},
			want: "Find items that match a couch with gray colors",
		},
		{
			name: "description disabled",
			opts: []Option{WithFragment(FragmentDescription, false), WithFragment(FragmentColor, false)},
			want: "in modern theme or decor",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewSynthesizer(tt.opts...).Synthesize(a, "a couch"); got != tt.want {
				t.Errorf("Synthesize() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNew_FixedPageSize(t *testing.T) {
	f, _ := filter.NewBuilder("ADULT").Build(attributes.Empty())
	q := New("oak table", f, "default")
	if q.Size != 20 {
		t.Errorf("Size = %d, want 20", q.Size)
	}
	if q.SemanticConfig != "default" || q.Text != "oak table" {
		t.Errorf("unexpected query %+v", q)
	}
}
