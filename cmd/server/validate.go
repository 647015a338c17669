package main

import (
	"errors"
	"fmt"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/govsure/costroll/internal/budget"
	"github.com/govsure/costroll/internal/lineitem"
	"github.com/govsure/costroll/internal/pricing"
)

const (
	maxTitleLength     = 200
	maxGrantIDLength   = 64
	maxNarrativeLength = 20000
)

var editableFields = []any{
	lineitem.FieldDescription,
	lineitem.FieldPosition,
	lineitem.FieldLevel,
	lineitem.FieldQuantity,
	lineitem.FieldRate,
	lineitem.FieldFederal,
	lineitem.FieldNonFederal,
}

func validateSettings(s *pricing.Settings) error {
	return validation.ValidateStruct(s,
		validation.Field(&s.FringeRate, validation.Min(0.0)),
		validation.Field(&s.OverheadRate, validation.Min(0.0)),
		validation.Field(&s.GandARate, validation.Min(0.0)),
		validation.Field(&s.FeePercentage, validation.Min(0.0)),
	)
}

func validateItems(items lineitem.Store) validation.Errors {
	errs := validation.Errors{}
	for _, c := range items.Categories() {
		for i, item := range items[c] {
			key := fmt.Sprintf("items.%s[%d]", c, i)
			if err := validation.Validate(item.Quantity, validation.Min(0.0)); err != nil {
				errs[key+".quantity"] = err
			}
			if err := validation.Validate(item.Rate, validation.Min(0.0)); err != nil {
				errs[key+".rate"] = err
			}
		}
	}
	return errs
}

func validatePricingModel(m *pricing.Model, requireTitle bool) error {
	errs := validation.Errors{}

	titleRules := []validation.Rule{validation.Length(0, maxTitleLength)}
	if requireTitle {
		titleRules = append(titleRules, validation.Required)
	}
	if err := validation.Validate(m.Title, titleRules...); err != nil {
		errs["title"] = err
	}
	mergeErrors(errs, "settings.", validateSettings(&m.Settings))
	for k, v := range validateItems(m.Items) {
		errs[k] = v
	}

	return errs.Filter()
}

func validateBudget(b *budget.Budget) error {
	errs := validation.Errors{}
	if err := validation.Validate(b.GrantID, validation.Required, validation.Length(1, maxGrantIDLength)); err != nil {
		errs["grantId"] = err
	}
	if err := validation.Validate(b.IndirectCostRate, validation.Min(0.0)); err != nil {
		errs["indirectCostRate"] = err
	}
	if err := validation.Validate(b.IndirectCostBase, validation.Min(0.0)); err != nil {
		errs["indirectCostBase"] = err
	}
	if err := validation.Validate(b.Narrative, validation.Length(0, maxNarrativeLength)); err != nil {
		errs["narrative"] = err
	}
	for k, v := range validateItems(b.Items) {
		errs[k] = v
	}
	return errs.Filter()
}

func validateItemEdit(req *itemEditRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Category, validation.Required),
		validation.Field(&req.Field, validation.Required, validation.In(editableFields...)),
	)
}

func mergeErrors(dst validation.Errors, prefix string, err error) {
	var errs validation.Errors
	if errors.As(err, &errs) {
		for k, v := range errs {
			dst[prefix+k] = v
		}
	}
}

// writeValidation responds 422 with per-field messages, or reports false when err is nil.
func writeValidation(w http.ResponseWriter, err error) bool {
	if err == nil {
		return false
	}
	resp := errorResponse{Error: "validation failed", Fields: map[string]string{}}
	var errs validation.Errors
	if errors.As(err, &errs) {
		for k, v := range errs {
			resp.Fields[k] = v.Error()
		}
	} else {
		resp.Error = err.Error()
	}
	writeJSON(w, http.StatusUnprocessableEntity, resp)
	return true
}
