// Package model defines the directory's records: tools as stored and
// displayed, the raw shape they arrive in, submit-form drafts and saved
// entries. Normalization from raw to stored form lives here too.
package model

import (
	"strings"
	"time"
)

// Tool is one normalized catalog entry.
//
// Tags are always the normalized form (see RawTagField). Category and Pricing
// keep the stored string even when it is outside the known set, so an unknown
// value still displays and still matches a filter that names it exactly.
type Tool struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    Category  `json:"category"`
	Pricing     Pricing   `json:"pricing"`
	Website     string    `json:"website"`
	Logo        string    `json:"logo"`
	Tags        []string  `json:"tags"`
	Features    []string  `json:"features"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// RawTool is a record as the gateway or an import file hands it over, before
// normalization.
type RawTool struct {
	ID          string      `json:"id"          yaml:"id"`
	Name        string      `json:"name"        yaml:"name"`
	Description string      `json:"description" yaml:"description"`
	Category    string      `json:"category"    yaml:"category"`
	Pricing     string      `json:"pricing"     yaml:"pricing"`
	Website     string      `json:"website"     yaml:"website"`
	Logo        string      `json:"logo"        yaml:"logo"`
	Tags        RawTagField `json:"tags"        yaml:"tags"`
	Features    []string    `json:"features"    yaml:"features"`
	CreatedAt   time.Time   `json:"createdAt"   yaml:"-"`
	UpdatedAt   time.Time   `json:"updatedAt"   yaml:"-"`
}

// Normalize turns a raw record into a Tool.
//
// Tags go through RawTagField.Normalize, so a missing or odd tags field never
// fails. Required display fields are copied as-is: an empty name stays empty.
func Normalize(raw RawTool) Tool {
	features := make([]string, 0, len(raw.Features))
	for _, f := range raw.Features {
		if f = strings.TrimSpace(f); f != "" {
			features = append(features, f)
		}
	}

	return Tool{
		ID:          raw.ID,
		Name:        raw.Name,
		Description: raw.Description,
		Category:    Category(raw.Category),
		Pricing:     Pricing(raw.Pricing),
		Website:     raw.Website,
		Logo:        raw.Logo,
		Tags:        raw.Tags.Normalize(),
		Features:    features,
		CreatedAt:   raw.CreatedAt,
		UpdatedAt:   raw.UpdatedAt,
	}
}

// ParseFeatures splits a newline separated feature list, one feature per
// non-blank line.
func ParseFeatures(text string) []string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	features := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			features = append(features, line)
		}
	}
	return features
}

// JoinFeatures is the storage form of a feature list.
func JoinFeatures(features []string) string {
	return strings.Join(features, "\n")
}

// ExportedTool is the shape written by the saved-tools export.
type ExportedTool struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	Pricing     Pricing  `json:"pricing"`
	Website     string   `json:"website"`
	Tags        []string `json:"tags"`
}

// Export projects a Tool onto the export shape.
func (t Tool) Export() ExportedTool {
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	return ExportedTool{
		Name:        t.Name,
		Description: t.Description,
		Category:    t.Category,
		Pricing:     t.Pricing,
		Website:     t.Website,
		Tags:        tags,
	}
}

// HasTag reports whether tag is one of t's normalized tags.
func (t Tool) HasTag(tag string) bool {
	for _, own := range t.Tags {
		if own == tag {
			return true
		}
	}
	return false
}
