package lineitem

import (
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Category is a closed set of cost buckets shared by the pricing calculator
// and the SF-424A budget builder.
type Category string

const (
	Personnel    Category = "personnel"
	Fringe       Category = "fringe"
	Travel       Category = "travel"
	Equipment    Category = "equipment"
	Supplies     Category = "supplies"
	Contractual  Category = "contractual"
	Construction Category = "construction"
	Other        Category = "other"
	Labor        Category = "labor"
)

// Categories lists every category in display order.
var Categories = []Category{
	Personnel,
	Fringe,
	Travel,
	Equipment,
	Supplies,
	Contractual,
	Construction,
	Other,
	Labor,
}

// ParseCategory maps raw input onto a known category. Unknown values fall into Other.
func ParseCategory(raw string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range Categories {
		if c == known {
			return c
		}
	}
	return Other
}

// UnmarshalText lets the item category field decode through ParseCategory.
func (c *Category) UnmarshalText(text []byte) error {
	*c = ParseCategory(string(text))
	return nil
}

// Field names an editable item attribute.
type Field string

const (
	FieldDescription Field = "description"
	FieldPosition    Field = "position"
	FieldLevel       Field = "level"
	FieldQuantity    Field = "quantity"
	FieldRate        Field = "rate"
	FieldFederal     Field = "federalAmount"
	FieldNonFederal  Field = "nonFederalAmount"
)

// Item is a single cost row.
type Item struct {
	ID               string   `json:"id" yaml:"id"`
	Category         Category `json:"category" yaml:"category"`
	Description      string   `json:"description,omitempty" yaml:"description,omitempty"`
	Position         string   `json:"position,omitempty" yaml:"position,omitempty"`
	Level            string   `json:"level,omitempty" yaml:"level,omitempty"`
	Quantity         float64  `json:"quantity" yaml:"quantity"`
	Rate             float64  `json:"rate" yaml:"rate"`
	FederalAmount    float64  `json:"federalAmount" yaml:"federalAmount"`
	NonFederalAmount float64  `json:"nonFederalAmount" yaml:"nonFederalAmount"`
}

// Amount is quantity times rate.
func (i Item) Amount() float64 {
	return i.Quantity * i.Rate
}

// Total is the allocated amount across federal and non-federal shares.
func (i Item) Total() float64 {
	return i.FederalAmount + i.NonFederalAmount
}

// newID is swapped in tests that need stable ids.
var newID = uuid.NewString

// ParseNumber converts form input into a float. Anything that is not a finite
// number becomes 0.
func ParseNumber(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// set applies one field edit. Quantity and rate edits reset the allocation so
// all derived cost is federal until the user reallocates it.
func (i Item) set(field Field, raw string) Item {
	switch field {
	case FieldDescription:
		i.Description = raw
	case FieldPosition:
		i.Position = raw
	case FieldLevel:
		i.Level = raw
	case FieldQuantity:
		i.Quantity = ParseNumber(raw)
		i.FederalAmount = i.Amount()
		i.NonFederalAmount = 0
	case FieldRate:
		i.Rate = ParseNumber(raw)
		i.FederalAmount = i.Amount()
		i.NonFederalAmount = 0
	case FieldFederal:
		i.FederalAmount = ParseNumber(raw)
	case FieldNonFederal:
		i.NonFederalAmount = ParseNumber(raw)
	}
	return i
}
