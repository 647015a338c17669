package budget

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/govsure/costroll/internal/lineitem"
)

func sampleBudget() Budget {
	items := lineitem.Store{}
	items, pi := items.Add(lineitem.Personnel)
	items = items.Update(lineitem.Personnel, pi, lineitem.FieldQuantity, "2080")
	items = items.Update(lineitem.Personnel, pi, lineitem.FieldRate, "50")
	items = items.Update(lineitem.Personnel, pi, lineitem.FieldNonFederal, "4000")

	items, fi := items.Add(lineitem.Fringe)
	items = items.Update(lineitem.Fringe, fi, lineitem.FieldFederal, "31200")

	items, ti := items.Add(lineitem.Travel)
	items = items.Update(lineitem.Travel, ti, lineitem.FieldQuantity, "4")
	items = items.Update(lineitem.Travel, ti, lineitem.FieldRate, "1200")

	return Budget{GrantID: "G-100", Items: items, IndirectCostRate: 10}
}

func TestCalculate_SectionBTotals(t *testing.T) {
	summary := Calculate(sampleBudget())

	require.Len(t, summary.Categories, len(ObjectClasses))

	personnel, ok := summary.Line(lineitem.Personnel)
	require.True(t, ok)
	assert.Equal(t, "a", personnel.Line)
	assert.InDelta(t, 104000, personnel.Federal, 1e-9)
	assert.InDelta(t, 4000, personnel.NonFederal, 1e-9)
	assert.InDelta(t, 108000, personnel.Total, 1e-9)

	travel, _ := summary.Line(lineitem.Travel)
	assert.InDelta(t, 4800, travel.Total, 1e-9)

	equipment, _ := summary.Line(lineitem.Equipment)
	assert.Equal(t, 0, equipment.Items)
	assert.Equal(t, 0.0, equipment.Total)

	assert.InDelta(t, 140000, summary.DirectFederal, 1e-9)
	assert.InDelta(t, 4000, summary.DirectNonFederal, 1e-9)
	assert.InDelta(t, 144000, summary.DirectTotal, 1e-9)
	assert.InDelta(t, 144000, summary.IndirectBase, 1e-9)
	assert.InDelta(t, 14400, summary.Indirect, 1e-9)
	assert.InDelta(t, 158400, summary.Total, 1e-9)
}

func TestCalculate_IndirectBaseOverride(t *testing.T) {
	b := sampleBudget()
	b.IndirectCostBase = 100000

	summary := Calculate(b)

	assert.InDelta(t, 100000, summary.IndirectBase, 1e-9)
	assert.InDelta(t, 10000, summary.Indirect, 1e-9)
	assert.InDelta(t, 154000, summary.Total, 1e-9)
}

func TestCalculate_EmptyBudget(t *testing.T) {
	summary := Calculate(Budget{IndirectCostRate: 25})

	assert.Equal(t, 0.0, summary.DirectTotal)
	assert.Equal(t, 0.0, summary.Total)
	assert.Len(t, summary.Categories, len(ObjectClasses))
}

func TestCalculate_IgnoresLaborItems(t *testing.T) {
	b := Budget{Items: lineitem.Store{
		lineitem.Labor:    {{ID: "x", FederalAmount: 999}},
		lineitem.Supplies: {{ID: "y", FederalAmount: 100}},
	}}

	assert.Equal(t, 100.0, Calculate(b).Total)
}

func TestCalculate_SubtotalsAreDisplayOnly(t *testing.T) {
	b := sampleBudget()
	summary := Calculate(b)

	sum := 0.0
	for _, line := range summary.Categories {
		sum += line.Total
	}
	assert.InDelta(t, summary.DirectTotal, sum, 1e-9)
	assert.InDelta(t, summary.Total, summary.DirectTotal+summary.Indirect, 1e-9)
}
