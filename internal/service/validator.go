package service

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sakif/toolscope/internal/apperror"
	"github.com/sakif/toolscope/internal/model"
)

var (
	websitePattern = regexp.MustCompile(`^https?://.+\..+`)
	imagePattern   = regexp.MustCompile(`(?i)^https?://.+\.(jpg|jpeg|png|gif|webp)(\?.*)?$`)
)

// fieldMessages maps "field.tag" to the message shown next to the form field.
// A field with a single message for every rule uses "field.*".
var fieldMessages = map[string]string{
	"name.required":        "Tool name is required",
	"description.required": "Description is required",
	"description.min":      "Description must be at least 50 characters",
	"category.*":           "Please select a category",
	"pricing.*":            "Please select a pricing tier",
	"website.required":     "Website URL is required",
	"website.httpurl":      "Please enter a valid URL",
	"logo.required":        "Logo URL is required",
	"logo.imageurl":        "Please enter a valid image URL",
	"tags.*":               "At least one tag is required",
	"features.*":           "At least one feature is required",
}

// Validator checks tool submissions. It wraps a *validator.Validate with the
// catalog's custom rules registered; one instance is shared by all requests.
type Validator struct {
	validate *validator.Validate
}

// NewValidator registers the custom rules used by model.ToolDraft.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON name so the messages line up with the form.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(v, "category", func(fl validator.FieldLevel) bool {
		_, ok := model.ParseCategory(fl.Field().String())
		return ok
	})
	mustRegister(v, "pricing", func(fl validator.FieldLevel) bool {
		_, ok := model.ParsePricing(fl.Field().String())
		return ok
	})
	mustRegister(v, "httpurl", func(fl validator.FieldLevel) bool {
		return websitePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "imageurl", func(fl validator.FieldLevel) bool {
		return imagePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "taglist", func(fl validator.FieldLevel) bool {
		return len(model.CommaTags(fl.Field().String()).Normalize()) > 0
	})
	mustRegister(v, "featurelist", func(fl validator.FieldLevel) bool {
		return len(model.ParseFeatures(fl.Field().String())) > 0
	})

	return &Validator{validate: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic("service: registering validation " + tag + ": " + err.Error())
	}
}

// ValidateDraft trims every field of draft in place and checks it.
//
// All violations are collected into one apperror.ValidationErrors, keyed by
// the JSON field name. Only the first failing rule of a field is reported.
func (v *Validator) ValidateDraft(draft *model.ToolDraft) error {
	draft.Name = strings.TrimSpace(draft.Name)
	draft.Description = strings.TrimSpace(draft.Description)
	draft.Category = strings.TrimSpace(draft.Category)
	draft.Pricing = strings.TrimSpace(draft.Pricing)
	draft.Website = strings.TrimSpace(draft.Website)
	draft.Logo = strings.TrimSpace(draft.Logo)
	draft.Tags = strings.TrimSpace(draft.Tags)
	draft.Features = strings.TrimSpace(draft.Features)

	err := v.validate.Struct(draft)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	fields := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		if _, seen := fields[e.Field()]; seen {
			continue
		}
		fields[e.Field()] = messageFor(e.Field(), e.Tag())
	}
	return apperror.ValidationErrors(fields)
}

func messageFor(field, tag string) string {
	if msg, ok := fieldMessages[field+"."+tag]; ok {
		return msg
	}
	if msg, ok := fieldMessages[field+".*"]; ok {
		return msg
	}
	return "Field '" + field + "' failed on the '" + tag + "' tag"
}
