// Package catalog filters, sorts and paginates an asset list that was fetched in full.
package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/Nakul-Jaglan/thob3d-assignment/internal/models"
)

const (
	SortNone     = ""
	SortNameAsc  = "name-asc"
	SortNameDesc = "name-desc"

	DefaultPerPage = 9
)

// Query is the full set of list controls. Zero values disable each control;
// PerPage 0 shows every match on one page.
type Query struct {
	Search   string
	Tag      string
	Category models.Category
	Sort     string
	PerPage  int
	Page     int
}

// Page is one slice of the filtered list.
type Page struct {
	Items      []models.Asset `json:"items"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PerPage    int            `json:"perPage"`
	TotalPages int            `json:"totalPages"`
}

// Apply runs filter, sort and pagination over source. source is not modified.
func Apply(source []models.Asset, q Query) Page {
	matched := Filter(source, q)
	SortAssets(matched, q.Sort, language.English)
	return paginate(matched, q.PerPage, q.Page)
}

// Filter keeps the assets matching the text, tag and category controls of q.
func Filter(source []models.Asset, q Query) []models.Asset {
	search := strings.ToLower(q.Search)
	tag := strings.ToLower(q.Tag)

	out := make([]models.Asset, 0, len(source))
	for _, a := range source {
		if search != "" &&
			!strings.Contains(strings.ToLower(a.Name), search) &&
			!strings.Contains(strings.ToLower(a.Description), search) {
			continue
		}
		if tag != "" && !hasTag(a.Tags, tag) {
			continue
		}
		if q.Category != "" && a.Category != q.Category {
			continue
		}
		out = append(out, a)
	}
	return out
}

func hasTag(tags []string, needle string) bool {
	for _, t := range tags {
		if strings.Contains(strings.ToLower(t), needle) {
			return true
		}
	}
	return false
}

// SortAssets orders assets in place by name using the collation rules of lang.
// Unknown sort values leave the order untouched.
func SortAssets(assets []models.Asset, order string, lang language.Tag) {
	var desc bool
	switch order {
	case SortNameAsc:
	case SortNameDesc:
		desc = true
	default:
		return
	}

	c := collate.New(lang)
	sort.SliceStable(assets, func(i, j int) bool {
		if desc {
			return c.CompareString(assets[j].Name, assets[i].Name) < 0
		}
		return c.CompareString(assets[i].Name, assets[j].Name) < 0
	})
}

func paginate(matched []models.Asset, perPage, page int) Page {
	if perPage < 0 {
		perPage = 0
	}
	if page < 1 {
		page = 1
	}
	p := Page{Total: len(matched), Page: page, PerPage: perPage}

	if perPage == 0 {
		if len(matched) > 0 {
			p.TotalPages = 1
		}
		if page == 1 {
			p.Items = matched
		} else {
			p.Items = []models.Asset{}
		}
		return p
	}

	p.TotalPages = (len(matched) + perPage - 1) / perPage
	start := (page - 1) * perPage
	if start >= len(matched) {
		p.Items = []models.Asset{}
		return p
	}
	end := start + perPage
	if end > len(matched) {
		end = len(matched)
	}
	p.Items = matched[start:end]
	return p
}

// State holds list controls across user interactions. Changing any filter
// or the page size returns to the first page.
type State struct {
	q Query
}

func NewState() *State {
	return &State{q: Query{PerPage: DefaultPerPage, Page: 1}}
}

func (s *State) Query() Query { return s.q }

func (s *State) SetSearch(v string) {
	s.q.Search = v
	s.q.Page = 1
}

func (s *State) SetTag(v string) {
	s.q.Tag = v
	s.q.Page = 1
}

func (s *State) SetCategory(c models.Category) {
	s.q.Category = c
	s.q.Page = 1
}

func (s *State) SetSort(order string) {
	s.q.Sort = order
	s.q.Page = 1
}

func (s *State) SetPerPage(n int) {
	if n < 0 {
		n = 0
	}
	s.q.PerPage = n
	s.q.Page = 1
}

func (s *State) SetPage(n int) {
	if n < 1 {
		n = 1
	}
	s.q.Page = n
}

// Next advances one page unless the current page is already the last of p.
func (s *State) Next(p Page) {
	if s.q.Page < p.TotalPages {
		s.q.Page++
	}
}

func (s *State) Prev() {
	if s.q.Page > 1 {
		s.q.Page--
	}
}

// Apply runs the current controls over source.
func (s *State) Apply(source []models.Asset) Page {
	return Apply(source, s.q)
}
