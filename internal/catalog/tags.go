package catalog

import (
	"slices"

	"github.com/sakif/toolscope/internal/model"
)

// AllTags flattens the normalized tags of every tool, removes duplicates and
// sorts ascending by byte order (so "Zeta" sorts before "alpha").
func AllTags(tools []model.Tool) []string {
	seen := make(map[string]struct{})
	tags := make([]string, 0)
	for _, t := range tools {
		for _, tag := range t.Tags {
			if _, dup := seen[tag]; dup {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}
	slices.Sort(tags)
	return tags
}
