package model

import "strings"

// Category is the closed set of catalog categories.
//
// The underlying value is the display string stored by the gateway. A Tool
// read from storage keeps whatever string was stored, even when it is outside
// the known set: Known reports membership and Bucket folds unknown values into
// CategoryUnknown for callers that need a closed domain.
type Category string

const (
	CategoryWriting Category = "Writing"
	CategoryImage   Category = "Image"
	CategoryCode    Category = "Code"
	CategoryVideo   Category = "Video"
	CategoryAudio   Category = "Audio"
	CategoryData    Category = "Data"

	// CategoryUnknown is the sentinel bucket for out-of-domain values.
	CategoryUnknown Category = "Unknown"
)

// Categories lists the known categories in display order.
var Categories = []Category{
	CategoryWriting,
	CategoryImage,
	CategoryCode,
	CategoryVideo,
	CategoryAudio,
	CategoryData,
}

// Known reports whether c is one of the six catalog categories.
func (c Category) Known() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Bucket returns c itself for known values and CategoryUnknown otherwise.
func (c Category) Bucket() Category {
	if c.Known() {
		return c
	}
	return CategoryUnknown
}

// ParseCategory matches s against the known categories, ignoring case and
// surrounding space. ok is false for out-of-domain input, in which case
// CategoryUnknown is returned.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, known := range Categories {
		if strings.EqualFold(s, string(known)) {
			return known, true
		}
	}
	return CategoryUnknown, false
}

// Pricing is the closed set of pricing tiers. Same storage rules as Category.
type Pricing string

const (
	PricingFree       Pricing = "Free"
	PricingFreemium   Pricing = "Freemium"
	PricingPaid       Pricing = "Paid"
	PricingEnterprise Pricing = "Enterprise"

	PricingUnknown Pricing = "Unknown"
)

// PricingTiers lists the known tiers in ascending order.
var PricingTiers = []Pricing{
	PricingFree,
	PricingFreemium,
	PricingPaid,
	PricingEnterprise,
}

// UnknownPricingRank is the rank of any out-of-domain pricing value.
// It equals len(PricingTiers), one past the highest known rank.
const UnknownPricingRank = 4

// Rank returns the sort position of p: Free=0, Freemium=1, Paid=2,
// Enterprise=3, anything else UnknownPricingRank.
func (p Pricing) Rank() int {
	for i, known := range PricingTiers {
		if p == known {
			return i
		}
	}
	return UnknownPricingRank
}

// Known reports whether p is one of the four pricing tiers.
func (p Pricing) Known() bool {
	return p.Rank() != UnknownPricingRank
}

// Bucket returns p itself for known values and PricingUnknown otherwise.
func (p Pricing) Bucket() Pricing {
	if p.Known() {
		return p
	}
	return PricingUnknown
}

// ParsePricing matches s against the known tiers, ignoring case and
// surrounding space.
func ParsePricing(s string) (Pricing, bool) {
	s = strings.TrimSpace(s)
	for _, known := range PricingTiers {
		if strings.EqualFold(s, string(known)) {
			return known, true
		}
	}
	return PricingUnknown, false
}
