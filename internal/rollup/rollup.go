// Package rollup applies an ordered stack of percentage layers to a set of
// line items.
//
// Layers cascade: each percentage applies to the running total built by the
// layers before it, so fringe compounds into overhead, overhead into G&A and
// so on. A layer may name an explicit base, which replaces the running total
// for that layer only.
package rollup

import "github.com/govsure/costroll/internal/lineitem"

// Basis selects how the direct cost of a line item is measured.
type Basis int

const (
	// BasisAmount uses quantity * rate.
	BasisAmount Basis = iota
	// BasisAllocated uses federal + non-federal amounts.
	BasisAllocated
)

// Layer is one percentage adjustment.
type Layer struct {
	Name    string  `json:"name" yaml:"name"`
	Percent float64 `json:"percent" yaml:"percent"`
	// OverrideBase replaces the running total for this layer when non-zero.
	OverrideBase float64 `json:"overrideBase,omitempty" yaml:"overrideBase,omitempty"`
}

// Stack is applied in slice order.
type Stack []Layer

// Delta records what a single layer added.
type Delta struct {
	Name    string  `json:"name"`
	Percent float64 `json:"percent"`
	Base    float64 `json:"base"`
	Amount  float64 `json:"amount"`
}

// Result is derived on every call and never cached.
type Result struct {
	TotalQuantity float64 `json:"totalQuantity"`
	BaseCost      float64 `json:"baseCost"`
	Deltas        []Delta `json:"layerDeltas"`
	FinalTotal    float64 `json:"finalTotal"`
}

// LayerTotal sums every layer delta.
func (r Result) LayerTotal() float64 {
	total := 0.0
	for _, d := range r.Deltas {
		total += d.Amount
	}
	return total
}

// Delta returns the delta recorded for the named layer.
func (r Result) Delta(name string) (Delta, bool) {
	for _, d := range r.Deltas {
		if d.Name == name {
			return d, true
		}
	}
	return Delta{}, false
}

// BaseCost sums the direct cost of items under basis.
func BaseCost(items []lineitem.Item, basis Basis) float64 {
	base := 0.0
	for _, item := range items {
		if basis == BasisAllocated {
			base += item.Total()
		} else {
			base += item.Amount()
		}
	}
	return base
}

// Calculate rolls items up through stack. Inputs are not validated: negative
// values flow through the cascade as given.
func Calculate(items []lineitem.Item, stack Stack, basis Basis) Result {
	result := Result{
		BaseCost: BaseCost(items, basis),
		Deltas:   make([]Delta, 0, len(stack)),
	}
	for _, item := range items {
		result.TotalQuantity += item.Quantity
	}

	running := result.BaseCost
	for _, layer := range stack {
		applied := running
		if layer.OverrideBase != 0 {
			applied = layer.OverrideBase
		}
		amount := applied * (layer.Percent / 100.0)
		running += amount
		result.Deltas = append(result.Deltas, Delta{
			Name:    layer.Name,
			Percent: layer.Percent,
			Base:    applied,
			Amount:  amount,
		})
	}
	result.FinalTotal = running

	return result
}
