package catalog

import "github.com/sakif/toolscope/internal/model"

// CountByCategory tallies tools per stored category value.
//
// Always call it with the full, unfiltered collection so unselected facets
// still show what is available. Out-of-domain values get their own key; the
// counts sum to len(tools).
func CountByCategory(tools []model.Tool) map[model.Category]int {
	counts := make(map[model.Category]int)
	for _, t := range tools {
		counts[t.Category]++
	}
	return counts
}

// CountByPricing tallies tools per stored pricing value. Same rules as
// CountByCategory.
func CountByPricing(tools []model.Tool) map[model.Pricing]int {
	counts := make(map[model.Pricing]int)
	for _, t := range tools {
		counts[t.Pricing]++
	}
	return counts
}

// CategoryCount is a category with the number of tools currently in it.
type CategoryCount struct {
	Name  model.Category `json:"name"`
	Count int            `json:"count"`
}

// Categories returns every known category, in display order, with a count
// recomputed from tools. Categories with no tools are included with zero.
func Categories(tools []model.Tool) []CategoryCount {
	counts := CountByCategory(tools)
	out := make([]CategoryCount, 0, len(model.Categories))
	for _, c := range model.Categories {
		out = append(out, CategoryCount{Name: c, Count: counts[c]})
	}
	return out
}

// DefaultRelatedLimit is how many related tools a detail view shows.
const DefaultRelatedLimit = 3

// Related returns up to limit other tools sharing tool's category, in
// collection order. A non-positive limit means DefaultRelatedLimit.
func Related(tools []model.Tool, tool model.Tool, limit int) []model.Tool {
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}
	related := make([]model.Tool, 0, limit)
	for _, t := range tools {
		if len(related) == limit {
			break
		}
		if t.ID == tool.ID || t.Category != tool.Category {
			continue
		}
		related = append(related, t)
	}
	return related
}

// SelectByIDs keeps the tools whose ID is in ids, in collection order. IDs
// with no matching tool are ignored.
func SelectByIDs(tools []model.Tool, ids []string) []model.Tool {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	out := make([]model.Tool, 0, len(ids))
	for _, t := range tools {
		if _, ok := want[t.ID]; ok {
			out = append(out, t)
		}
	}
	return out
}
