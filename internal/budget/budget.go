// Package budget builds SF-424A Section B budgets: object-class line items,
// a federal / non-federal split and indirect charges at a negotiated rate.
package budget

import (
	"github.com/govsure/costroll/internal/lineitem"
	"github.com/govsure/costroll/internal/rollup"
)

// LayerIndirect is the single cascade layer of a grant budget.
const LayerIndirect = "indirect"

// ObjectClass is a row of SF-424A Section B.
type ObjectClass struct {
	Line     string            `json:"line"`
	Label    string            `json:"label"`
	Category lineitem.Category `json:"category"`
}

// ObjectClasses lists lines 6a through 6h in form order.
var ObjectClasses = []ObjectClass{
	{Line: "a", Label: "Personnel", Category: lineitem.Personnel},
	{Line: "b", Label: "Fringe Benefits", Category: lineitem.Fringe},
	{Line: "c", Label: "Travel", Category: lineitem.Travel},
	{Line: "d", Label: "Equipment", Category: lineitem.Equipment},
	{Line: "e", Label: "Supplies", Category: lineitem.Supplies},
	{Line: "f", Label: "Contractual", Category: lineitem.Contractual},
	{Line: "g", Label: "Construction", Category: lineitem.Construction},
	{Line: "h", Label: "Other", Category: lineitem.Other},
}

// Budget is the builder state for one grant application.
type Budget struct {
	GrantID          string         `json:"grantId" yaml:"grantId"`
	Items            lineitem.Store `json:"items" yaml:"items"`
	IndirectCostRate float64        `json:"indirectCostRate" yaml:"indirectCostRate"`
	// IndirectCostBase replaces total direct costs as the indirect base when non-zero.
	IndirectCostBase float64 `json:"indirectCostBase" yaml:"indirectCostBase"`
	Narrative        string  `json:"narrative" yaml:"narrative"`
}

// Stack returns the indirect-cost layer.
func (b Budget) Stack() rollup.Stack {
	return rollup.Stack{{
		Name:         LayerIndirect,
		Percent:      b.IndirectCostRate,
		OverrideBase: b.IndirectCostBase,
	}}
}

// CategoryTotal is one Section B line.
type CategoryTotal struct {
	ObjectClass
	Items      int     `json:"items"`
	Federal    float64 `json:"federal"`
	NonFederal float64 `json:"nonFederal"`
	Total      float64 `json:"total"`
}

// Summary is the computed budget.
type Summary struct {
	Categories       []CategoryTotal `json:"categories"`
	DirectFederal    float64         `json:"directFederal"`
	DirectNonFederal float64         `json:"directNonFederal"`
	DirectTotal      float64         `json:"totalDirect"`
	IndirectBase     float64         `json:"indirectBase"`
	Indirect         float64         `json:"indirectCharges"`
	Total            float64         `json:"total"`
	Rollup           rollup.Result   `json:"rollup"`
}

// Calculate derives Section B totals. Labor items from the pricing calculator
// are not part of a grant budget and are ignored.
func Calculate(b Budget) Summary {
	var items []lineitem.Item
	summary := Summary{Categories: make([]CategoryTotal, 0, len(ObjectClasses))}

	for _, oc := range ObjectClasses {
		line := CategoryTotal{ObjectClass: oc, Items: len(b.Items[oc.Category])}
		for _, item := range b.Items[oc.Category] {
			line.Federal += item.FederalAmount
			line.NonFederal += item.NonFederalAmount
		}
		line.Total = b.Items.Subtotal(oc.Category)
		summary.Categories = append(summary.Categories, line)

		summary.DirectFederal += line.Federal
		summary.DirectNonFederal += line.NonFederal
		items = append(items, b.Items[oc.Category]...)
	}

	result := rollup.Calculate(items, b.Stack(), rollup.BasisAllocated)
	summary.DirectTotal = result.BaseCost
	if d, ok := result.Delta(LayerIndirect); ok {
		summary.IndirectBase = d.Base
		summary.Indirect = d.Amount
	}
	summary.Total = result.FinalTotal
	summary.Rollup = result

	return summary
}

// Line returns the Section B line for category.
func (s Summary) Line(category lineitem.Category) (CategoryTotal, bool) {
	for _, c := range s.Categories {
		if c.Category == category {
			return c, true
		}
	}
	return CategoryTotal{}, false
}
