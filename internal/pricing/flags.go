package pricing

import (
	"fmt"

	"github.com/govsure/costroll/internal/advisory"
)

const (
	maxFeePercent      = 10.0
	minFeePercent      = 5.0
	maxOverheadPercent = 25.0
	minOverheadPercent = 10.0
	maxGandAPercent    = 15.0
	minFringePercent   = 25.0
	maxLaborRate       = 200.0
	maxAverageRate     = 150.0
)

var rules = []advisory.Rule[input]{
	{
		Severity: advisory.SeverityError,
		Title:    "High Fee Percentage",
		When:     func(in input) bool { return in.settings.FeePercentage > maxFeePercent },
		Message: func(in input) string {
			return fmt.Sprintf("Fee of %.1f%% is above the %.0f%% typically accepted on federal contracts.", in.settings.FeePercentage, maxFeePercent)
		},
		Recommendation: "Reduce the fee to the 7-10% range to stay competitive.",
	},
	{
		Severity: advisory.SeverityWarning,
		Title:    "Low Fee Percentage",
		When:     func(in input) bool { return in.settings.FeePercentage < minFeePercent },
		Message: func(in input) string {
			return fmt.Sprintf("Fee of %.1f%% may not cover business risk and profit.", in.settings.FeePercentage)
		},
		Recommendation: "Consider a fee of at least 5% unless the pricing strategy calls for an aggressive bid.",
	},
	{
		Severity: advisory.SeverityError,
		Title:    "High Overhead Rate",
		When:     func(in input) bool { return in.settings.OverheadRate > maxOverheadPercent },
		Message: func(in input) string {
			return fmt.Sprintf("Overhead rate of %.1f%% exceeds the %.0f%% benchmark and will draw scrutiny.", in.settings.OverheadRate, maxOverheadPercent)
		},
		Recommendation: "Review indirect cost pools and support the rate with a provisional billing agreement.",
	},
	{
		Severity: advisory.SeverityWarning,
		Title:    "High Labor Rates",
		When:     func(in input) bool { return in.countRatesAbove(maxLaborRate) > 0 },
		Message: func(in input) string {
			return fmt.Sprintf("%d labor categories have rates above $%.0f/hour.", in.countRatesAbove(maxLaborRate), maxLaborRate)
		},
		Recommendation: "Compare these rates against GSA schedule and market data before submission.",
	},
	{
		Severity: advisory.SeverityWarning,
		Title:    "High G&A Rate",
		When:     func(in input) bool { return in.settings.GandARate > maxGandAPercent },
		Message: func(in input) string {
			return fmt.Sprintf("G&A rate of %.1f%% is above the %.0f%% industry average.", in.settings.GandARate, maxGandAPercent)
		},
		Recommendation: "Confirm the G&A pool allocation or consider a lower rate for this bid.",
	},
	{
		Severity: advisory.SeverityInfo,
		Title:    "Low Fringe Rate",
		When:     func(in input) bool { return in.settings.FringeRate < minFringePercent },
		Message: func(in input) string {
			return fmt.Sprintf("Fringe rate of %.1f%% is below the typical %.0f-35%% range.", in.settings.FringeRate, minFringePercent)
		},
		Recommendation: "Verify that benefits, payroll taxes and leave are fully captured.",
	},
	{
		Severity: advisory.SeverityError,
		Title:    "No Labor Categories",
		When:     func(in input) bool { return len(in.items) == 0 },
		Message: func(input) string {
			return "The pricing model has no labor categories."
		},
		Recommendation: "Add at least one labor category with hours and a rate.",
	},
}

// Flags evaluates the pricing advisory rules against m.
func Flags(m Model) []advisory.Flag {
	return advisory.Evaluate(rules, input{settings: m.Settings, items: m.LaborItems()})
}
