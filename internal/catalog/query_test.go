package catalog

import (
	"testing"

	"golang.org/x/text/language"

	"github.com/Nakul-Jaglan/thob3d-assignment/internal/models"
)

func asset(name, description string, category models.Category, tags ...string) models.Asset {
	return models.Asset{Name: name, Description: description, Category: category, Tags: tags}
}

func names(assets []models.Asset) []string {
	out := make([]string, len(assets))
	for i, a := range assets {
		out[i] = a.Name
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

var demo = []models.Asset{
	asset("Sunset Photo", "Golden hour over the ocean", models.CategoryPhoto, "sunset", "nature"),
	asset("Product Mockup", "Clean device mockup", models.CategoryDesign, "mockup", "product"),
	asset("Explainer Video", "Short animated explainer", models.CategoryVideo, "animation", "explainer"),
	asset("Icon Set", "Line icons for dashboards", models.CategoryIcon, "icons", "ui"),
	asset("Background Music", "Calm loop", models.CategoryAudio, "audio", "music"),
}

func TestApplyFilters(t *testing.T) {
	tests := []struct {
		name     string
		query    Query
		expected []string
	}{
		{
			name:     "no controls",
			query:    Query{},
			expected: []string{"Sunset Photo", "Product Mockup", "Explainer Video", "Icon Set", "Background Music"},
		},
		{
			name:     "search matches name case-insensitively",
			query:    Query{Search: "SUNSET"},
			expected: []string{"Sunset Photo"},
		},
		{
			name:     "search matches description",
			query:    Query{Search: "loop"},
			expected: []string{"Background Music"},
		},
		{
			name:     "tag substring",
			query:    Query{Tag: "ui"},
			expected: []string{"Icon Set"},
		},
		{
			name:     "tag is case-insensitive",
			query:    Query{Tag: "MOCK"},
			expected: []string{"Product Mockup"},
		},
		{
			name:     "category exact",
			query:    Query{Category: models.CategoryVideo},
			expected: []string{"Explainer Video"},
		},
		{
			name:     "controls are combined",
			query:    Query{Search: "o", Category: models.CategoryAudio},
			expected: []string{"Background Music"},
		},
		{
			name:     "nothing matches",
			query:    Query{Search: "o", Tag: "sunset", Category: models.CategoryIcon},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := names(Apply(demo, tt.query).Items)
			if !equal(got, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestTagQueryOnlyMatchesTaggedAsset(t *testing.T) {
	source := []models.Asset{
		asset("Icon Set", "", models.CategoryIcon, "icons", "ui"),
		asset("Music", "", models.CategoryAudio, "audio"),
	}
	page := Apply(source, Query{Tag: "ui"})
	if page.Total != 1 || page.Items[0].Name != "Icon Set" {
		t.Fatalf("expected only Icon Set, got %v", names(page.Items))
	}
}

func TestSortByName(t *testing.T) {
	source := []models.Asset{asset("Music", "", ""), asset("Icon Set", "", ""), asset("Explainer Video", "", "")}

	asc := names(Apply(source, Query{Sort: SortNameAsc}).Items)
	if want := []string{"Explainer Video", "Icon Set", "Music"}; !equal(asc, want) {
		t.Errorf("expected %v, got %v", want, asc)
	}
	desc := names(Apply(source, Query{Sort: SortNameDesc}).Items)
	if want := []string{"Music", "Icon Set", "Explainer Video"}; !equal(desc, want) {
		t.Errorf("expected %v, got %v", want, desc)
	}
	if got := names(source); !equal(got, []string{"Music", "Icon Set", "Explainer Video"}) {
		t.Errorf("source was reordered: %v", got)
	}
}

func TestSortIsStableAndLocaleAware(t *testing.T) {
	source := []models.Asset{
		{Name: "beta", Description: "first"},
		{Name: "Alpha"},
		{Name: "beta", Description: "second"},
		{Name: "Émile"},
	}
	SortAssets(source, SortNameAsc, language.English)

	if got := names(source); !equal(got, []string{"Alpha", "beta", "beta", "Émile"}) {
		t.Fatalf("unexpected order %v", got)
	}
	if source[1].Description != "first" || source[2].Description != "second" {
		t.Errorf("equal names lost their relative order")
	}
}

func TestUnknownSortKeepsOrder(t *testing.T) {
	got := names(Apply(demo, Query{Sort: "size"}).Items)
	if !equal(got, names(demo)) {
		t.Errorf("expected source order, got %v", got)
	}
}

func TestPagination(t *testing.T) {
	tests := []struct {
		name       string
		perPage    int
		page       int
		expected   []string
		totalPages int
		wantPage   int
	}{
		{"first page", 2, 1, []string{"Sunset Photo", "Product Mockup"}, 3, 1},
		{"last partial page", 2, 3, []string{"Background Music"}, 3, 3},
		{"page past the end", 2, 4, []string{}, 3, 4},
		{"page below one clamps", 2, 0, []string{"Sunset Photo", "Product Mockup"}, 3, 1},
		{"zero shows all", 0, 1, names(demo), 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Apply(demo, Query{PerPage: tt.perPage, Page: tt.page})
			if got := names(p.Items); !equal(got, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
			if p.TotalPages != tt.totalPages {
				t.Errorf("expected %d total pages, got %d", tt.totalPages, p.TotalPages)
			}
			if p.Page != tt.wantPage {
				t.Errorf("expected page %d, got %d", tt.wantPage, p.Page)
			}
			if p.Total != len(demo) {
				t.Errorf("expected total %d, got %d", len(demo), p.Total)
			}
		})
	}
}

func TestEmptySourceHasNoPages(t *testing.T) {
	p := Apply(nil, Query{PerPage: 9, Page: 1})
	if p.TotalPages != 0 || len(p.Items) != 0 {
		t.Errorf("expected an empty page, got %+v", p)
	}
}

func TestStateResetsPage(t *testing.T) {
	s := NewState()
	s.SetPerPage(2)
	s.SetPage(3)

	s.SetPerPage(4)
	if s.Query().Page != 1 {
		t.Errorf("page size change should return to page 1, got %d", s.Query().Page)
	}

	s.SetPage(2)
	s.SetTag("ui")
	if s.Query().Page != 1 {
		t.Errorf("filter change should return to page 1, got %d", s.Query().Page)
	}
}

func TestStateNavigation(t *testing.T) {
	s := NewState()
	s.SetPerPage(2)

	p := s.Apply(demo)
	s.Next(p)
	s.Next(p)
	s.Next(p)
	if s.Query().Page != 3 {
		t.Fatalf("expected to stop on page 3, got %d", s.Query().Page)
	}
	s.Prev()
	s.Prev()
	s.Prev()
	if s.Query().Page != 1 {
		t.Fatalf("expected to stop on page 1, got %d", s.Query().Page)
	}
}
