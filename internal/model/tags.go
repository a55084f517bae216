package model

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

type tagFieldKind int

const (
	tagsAbsent tagFieldKind = iota
	tagsList
	tagsComma
)

// RawTagField is the tags field as it arrives from the gateway or an import
// file: a genuine list, a single comma-joined string, or nothing at all.
//
// It is the only place that knows about the three shapes. Everything past the
// boundary works with the []string returned by Normalize.
type RawTagField struct {
	kind  tagFieldKind
	list  []string
	comma string
}

// TagList wraps tags that already arrived as a list.
func TagList(tags []string) RawTagField {
	return RawTagField{kind: tagsList, list: tags}
}

// CommaTags wraps tags that arrived as one comma-joined string.
func CommaTags(s string) RawTagField {
	return RawTagField{kind: tagsComma, comma: s}
}

// NoTags is the absent field.
func NoTags() RawTagField {
	return RawTagField{}
}

// IsAbsent reports whether the field was missing or null.
func (f RawTagField) IsAbsent() bool {
	return f.kind == tagsAbsent
}

// Normalize returns the trimmed, deduplicated tags in order of first
// appearance. Absent fields normalize to an empty, non-nil slice.
func (f RawTagField) Normalize() []string {
	switch f.kind {
	case tagsList:
		return NormalizeTags(f.list)
	case tagsComma:
		return NormalizeTags([]string{f.comma})
	default:
		return []string{}
	}
}

// NormalizeTags splits each entry on commas, trims the parts, drops empty
// ones and removes duplicates while keeping the first occurrence. A tag never
// contains a comma, so JoinTags output reads back unchanged.
// NormalizeTags(NormalizeTags(x)) equals NormalizeTags(x).
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, entry := range tags {
		for _, tag := range strings.Split(entry, ",") {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			if _, dup := seen[tag]; dup {
				continue
			}
			seen[tag] = struct{}{}
			out = append(out, tag)
		}
	}
	return out
}

// JoinTags is the inverse used when writing tags back to the gateway, which
// stores them comma-joined.
func JoinTags(tags []string) string {
	return strings.Join(NormalizeTags(tags), ",")
}

// UnmarshalJSON accepts a JSON array of strings, a string, or null.
func (f *RawTagField) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*f = NoTags()
		return nil
	}

	if strings.HasPrefix(trimmed, "[") {
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return fmt.Errorf("tags: decoding list: %w", err)
		}
		*f = TagList(list)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("tags: expected list or string: %w", err)
	}
	*f = CommaTags(s)
	return nil
}

// MarshalJSON always writes the normalized list.
func (f RawTagField) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Normalize())
}

// UnmarshalYAML mirrors UnmarshalJSON for import files.
func (f *RawTagField) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return fmt.Errorf("tags: decoding list: %w", err)
		}
		*f = TagList(list)
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			*f = NoTags()
			return nil
		}
		*f = CommaTags(node.Value)
	default:
		return fmt.Errorf("tags: line %d: expected list or string", node.Line)
	}
	return nil
}
