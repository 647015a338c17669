package pricing

import (
	"github.com/govsure/costroll/internal/advisory"
	"github.com/govsure/costroll/internal/lineitem"
	"github.com/govsure/costroll/internal/rollup"
)

// Layer names used in the pricing cascade.
const (
	LayerFringe   = "fringe"
	LayerOverhead = "overhead"
	LayerGandA    = "ganda"
	LayerFee      = "fee"
)

// Settings holds the percentage rates applied on top of direct labor.
type Settings struct {
	FringeRate    float64 `json:"fringeRate" yaml:"fringeRate"`
	OverheadRate  float64 `json:"overheadRate" yaml:"overheadRate"`
	GandARate     float64 `json:"gandaRate" yaml:"gandaRate"`
	FeePercentage float64 `json:"feePercentage" yaml:"feePercentage"`
}

// Stack returns the cascade fringe, overhead, G&A, fee.
func (s Settings) Stack() rollup.Stack {
	return rollup.Stack{
		{Name: LayerFringe, Percent: s.FringeRate},
		{Name: LayerOverhead, Percent: s.OverheadRate},
		{Name: LayerGandA, Percent: s.GandARate},
		{Name: LayerFee, Percent: s.FeePercentage},
	}
}

// Model is a pricing analysis: labor categories plus rates.
type Model struct {
	Title    string         `json:"title" yaml:"title"`
	Settings Settings       `json:"settings" yaml:"settings"`
	Items    lineitem.Store `json:"items" yaml:"items"`
}

// LaborItems returns the labor categories in entry order.
func (m Model) LaborItems() []lineitem.Item {
	return m.Items.Items()
}

// Breakdown contains the direct labor cost and what each layer added.
type Breakdown struct {
	LaborCost float64 `json:"laborCost"`
	Fringe    float64 `json:"fringe"`
	Overhead  float64 `json:"overhead"`
	GandA     float64 `json:"ganda"`
	Fee       float64 `json:"fee"`
}

// Totals contains roll-up values from the pricing calculation.
type Totals struct {
	TotalHours  float64 `json:"totalHours"`
	AverageRate float64 `json:"averageRate"`
	Total       float64 `json:"total"`
}

// Analysis groups the full pricing output.
type Analysis struct {
	Breakdown Breakdown       `json:"breakdown"`
	Totals    Totals          `json:"totals"`
	Layers    rollup.Result   `json:"rollup"`
	Flags     []advisory.Flag `json:"flags"`
	Score     int             `json:"competitivenessScore"`
}

// Calculate computes the cascade, advisory flags and competitiveness score for m.
func Calculate(m Model) Analysis {
	items := m.LaborItems()
	result := rollup.Calculate(items, m.Settings.Stack(), rollup.BasisAmount)

	delta := func(name string) float64 {
		d, _ := result.Delta(name)
		return d.Amount
	}

	in := input{settings: m.Settings, items: items}

	return Analysis{
		Breakdown: Breakdown{
			LaborCost: result.BaseCost,
			Fringe:    delta(LayerFringe),
			Overhead:  delta(LayerOverhead),
			GandA:     delta(LayerGandA),
			Fee:       delta(LayerFee),
		},
		Totals: Totals{
			TotalHours:  result.TotalQuantity,
			AverageRate: in.averageRate(),
			Total:       result.FinalTotal,
		},
		Layers: result,
		Flags:  Flags(m),
		Score:  CompetitivenessScore(m),
	}
}

type input struct {
	settings Settings
	items    []lineitem.Item
}

// averageRate is the simple mean of item rates, 0 when there are none.
func (in input) averageRate() float64 {
	if len(in.items) == 0 {
		return 0
	}
	sum := 0.0
	for _, item := range in.items {
		sum += item.Rate
	}
	return sum / float64(len(in.items))
}

func (in input) countRatesAbove(limit float64) int {
	n := 0
	for _, item := range in.items {
		if item.Rate > limit {
			n++
		}
	}
	return n
}
