// Package catalog holds the client-side data shaping for the tool directory:
// search and facet filtering, sorting, facet counts and tag aggregation.
//
// Everything here is a pure function over an in-memory []model.Tool. Nothing
// fails, nothing mutates its input, and an empty collection yields an empty
// result.
package catalog

import (
	"cmp"
	"slices"
	"strings"

	"github.com/sakif/toolscope/internal/model"
)

// SortKey selects the result ordering.
type SortKey string

const (
	SortByName     SortKey = "name"
	SortByCategory SortKey = "category"
	SortByPricing  SortKey = "pricing"

	DefaultSortKey = SortByName
)

// SortKeys lists the accepted sort keys.
var SortKeys = []SortKey{SortByName, SortByCategory, SortByPricing}

// ParseSortKey returns the sort key named by s, or DefaultSortKey when s is
// empty or unknown.
func ParseSortKey(s string) SortKey {
	key := SortKey(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(SortKeys, key) {
		return key
	}
	return DefaultSortKey
}

// FilterState is the current browse selection. Empty facet lists and an empty
// query mean "no restriction".
type FilterState struct {
	SearchQuery string           `json:"searchQuery"`
	Categories  []model.Category `json:"categories"`
	Pricing     []model.Pricing  `json:"pricing"`
	Tags        []string         `json:"tags"`
	SortKey     SortKey          `json:"sortKey"`
}

// IsEmpty reports whether the state restricts nothing.
func (s FilterState) IsEmpty() bool {
	return s.SearchQuery == "" && len(s.Categories) == 0 && len(s.Pricing) == 0 && len(s.Tags) == 0
}

// FilterAndSort applies search, category, pricing and tag filters in that
// order and then stable-sorts by state.SortKey.
//
// The facets are independent conjunctions, so the order only matters for
// anyone observing the intermediate sets. The tag facet has OR semantics: a
// tool passes if it carries at least one selected tag.
func FilterAndSort(tools []model.Tool, state FilterState) []model.Tool {
	result := make([]model.Tool, 0, len(tools))

	matchers := make([]func(model.Tool) bool, 0, 4)
	if state.SearchQuery != "" {
		matchers = append(matchers, searchMatcher(state.SearchQuery))
	}
	if len(state.Categories) > 0 {
		matchers = append(matchers, setMatcher(state.Categories, func(t model.Tool) model.Category { return t.Category }))
	}
	if len(state.Pricing) > 0 {
		matchers = append(matchers, setMatcher(state.Pricing, func(t model.Tool) model.Pricing { return t.Pricing }))
	}
	if len(state.Tags) > 0 {
		matchers = append(matchers, tagMatcher(state.Tags))
	}

	for _, tool := range tools {
		if matchesAll(tool, matchers) {
			result = append(result, tool)
		}
	}

	SortTools(result, state.SortKey)
	return result
}

func matchesAll(tool model.Tool, matchers []func(model.Tool) bool) bool {
	for _, match := range matchers {
		if !match(tool) {
			return false
		}
	}
	return true
}

// searchMatcher lower-cases the query once and each field per tool.
func searchMatcher(query string) func(model.Tool) bool {
	q := strings.ToLower(query)
	return func(t model.Tool) bool {
		if strings.Contains(strings.ToLower(t.Name), q) {
			return true
		}
		if strings.Contains(strings.ToLower(t.Description), q) {
			return true
		}
		for _, tag := range t.Tags {
			if strings.Contains(strings.ToLower(tag), q) {
				return true
			}
		}
		return false
	}
}

func setMatcher[T comparable](selected []T, field func(model.Tool) T) func(model.Tool) bool {
	set := make(map[T]struct{}, len(selected))
	for _, v := range selected {
		set[v] = struct{}{}
	}
	return func(t model.Tool) bool {
		_, ok := set[field(t)]
		return ok
	}
}

func tagMatcher(selected []string) func(model.Tool) bool {
	set := make(map[string]struct{}, len(selected))
	for _, tag := range selected {
		set[tag] = struct{}{}
	}
	return func(t model.Tool) bool {
		for _, tag := range t.Tags {
			if _, ok := set[tag]; ok {
				return true
			}
		}
		return false
	}
}

// SortTools stable-sorts tools in place by key. The empty key means
// DefaultSortKey; any other unrecognized key leaves the order untouched.
func SortTools(tools []model.Tool, key SortKey) {
	if key == "" {
		key = DefaultSortKey
	}
	switch key {
	case SortByName:
		slices.SortStableFunc(tools, func(a, b model.Tool) int {
			return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		})
	case SortByCategory:
		slices.SortStableFunc(tools, func(a, b model.Tool) int {
			return cmp.Compare(a.Category, b.Category)
		})
	case SortByPricing:
		slices.SortStableFunc(tools, func(a, b model.Tool) int {
			return cmp.Compare(a.Pricing.Rank(), b.Pricing.Rank())
		})
	}
}
