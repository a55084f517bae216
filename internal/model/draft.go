package model

// ToolDraft is a submission as typed into the submit form: tags are one
// comma-separated string and features one feature per line.
//
// The validate tags are enforced by service.Validator; messages for each rule
// live next to it.
type ToolDraft struct {
	Name        string `json:"name"        validate:"required"`
	Description string `json:"description" validate:"required,min=50"`
	Category    string `json:"category"    validate:"required,category"`
	Pricing     string `json:"pricing"     validate:"required,pricing"`
	Website     string `json:"website"     validate:"required,httpurl"`
	Logo        string `json:"logo"        validate:"required,imageurl"`
	Tags        string `json:"tags"        validate:"required,taglist"`
	Features    string `json:"features"    validate:"required,featurelist"`
}

// Tool converts a validated draft into a Tool without an ID; the gateway
// assigns one on create.
func (d ToolDraft) Tool() Tool {
	category, _ := ParseCategory(d.Category)
	pricing, _ := ParsePricing(d.Pricing)
	return Tool{
		Name:        d.Name,
		Description: d.Description,
		Category:    category,
		Pricing:     pricing,
		Website:     d.Website,
		Logo:        d.Logo,
		Tags:        CommaTags(d.Tags).Normalize(),
		Features:    ParseFeatures(d.Features),
	}
}
