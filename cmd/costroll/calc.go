package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/govsure/costroll/internal/advisory"
	"github.com/govsure/costroll/internal/budget"
	"github.com/govsure/costroll/internal/export"
	"github.com/govsure/costroll/internal/money"
	"github.com/govsure/costroll/internal/pricing"
)

var layerLabels = map[string]string{
	pricing.LayerFringe:   "Fringe",
	pricing.LayerOverhead: "Overhead",
	pricing.LayerGandA:    "G&A",
	pricing.LayerFee:      "Fee",
	budget.LayerIndirect:  "Indirect",
}

// readDocument decodes a YAML or JSON file into dst. A path of "-" reads stdin.
func readDocument(cmd *cobra.Command, path string, dst any) error {
	if path == "" {
		return fmt.Errorf("an input file is required (-f)")
	}

	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func loadPricingModel(cmd *cobra.Command, path string) (pricing.Model, error) {
	var m pricing.Model
	if err := readDocument(cmd, path, &m); err != nil {
		return pricing.Model{}, err
	}
	m.Title = strings.TrimSpace(m.Title)
	m.Items = m.Items.Normalize()
	return m, nil
}

func loadBudget(cmd *cobra.Command, path string) (budget.Budget, error) {
	var b budget.Budget
	if err := readDocument(cmd, path, &b); err != nil {
		return budget.Budget{}, err
	}
	b.GrantID = strings.TrimSpace(b.GrantID)
	b.Items = b.Items.Normalize()
	return b, nil
}

func newPricingCmd(a *app) *cobra.Command {
	var file, xlsx string

	cmd := &cobra.Command{
		Use:   "pricing",
		Short: "Roll up a labor pricing model and report flags and score",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadPricingModel(cmd, file)
			if err != nil {
				return err
			}
			analysis := pricing.Calculate(m)
			a.logger.Debug("pricing calculated",
				zap.Int("items", m.Items.Len()),
				zap.Float64("total", analysis.Totals.Total),
			)

			printPricing(cmd.OutOrStdout(), m, analysis)

			if xlsx == "" {
				return nil
			}
			data, err := export.PricingWorkbook(m, analysis)
			if err != nil {
				return err
			}
			return writeWorkbook(cmd, xlsx, data)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "pricing model file (YAML or JSON, - for stdin)")
	cmd.Flags().StringVar(&xlsx, "xlsx", "", "also write the analysis workbook to this path")
	return cmd
}

func newBudgetCmd(a *app) *cobra.Command {
	var file, xlsx string

	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Compute SF-424A Section B totals for a grant budget",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := loadBudget(cmd, file)
			if err != nil {
				return err
			}
			summary := budget.Calculate(b)
			a.logger.Debug("budget calculated",
				zap.String("grant_id", b.GrantID),
				zap.Float64("total", summary.Total),
			)

			printBudget(cmd.OutOrStdout(), b, summary)

			if xlsx == "" {
				return nil
			}
			data, err := export.BudgetWorkbook(b, summary)
			if err != nil {
				return err
			}
			return writeWorkbook(cmd, xlsx, data)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "budget file (YAML or JSON, - for stdin)")
	cmd.Flags().StringVar(&xlsx, "xlsx", "", "also write the SF-424A workbook to this path")
	return cmd
}

func writeWorkbook(cmd *cobra.Command, path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\nWrote %s (%s)\n", path, humanize.Bytes(uint64(len(data))))
	return nil
}

func printPricing(out io.Writer, m pricing.Model, a pricing.Analysis) {
	title := m.Title
	if title == "" {
		title = "Untitled pricing model"
	}
	fmt.Fprintln(out, title)
	fmt.Fprintln(out)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "Direct labor\t\t%s\t\n", money.Format(a.Breakdown.LaborCost))
	for _, d := range a.Layers.Deltas {
		fmt.Fprintf(tw, "%s\t%s\t%s\t\n", layerLabel(d.Name), money.Percent(d.Percent), money.Format(d.Amount))
	}
	fmt.Fprintf(tw, "Total price\t\t%s\t\n", money.Format(a.Totals.Total))
	_ = tw.Flush()

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Labor categories: %d, hours: %s, average rate: %s/hr\n",
		m.Items.Len(), humanize.Commaf(a.Totals.TotalHours), money.Format(a.Totals.AverageRate))
	fmt.Fprintf(out, "Competitiveness score: %d/100\n", a.Score)
	printFlags(out, a.Flags)
}

func printBudget(out io.Writer, b budget.Budget, s budget.Summary) {
	grant := b.GrantID
	if grant == "" {
		grant = "draft"
	}
	fmt.Fprintf(out, "SF-424A Section B, grant %s\n\n", grant)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Line\tObject class\tFederal\tNon-federal\tTotal\t")
	for _, line := range s.Categories {
		fmt.Fprintf(tw, "6%s\t%s\t%s\t%s\t%s\t\n",
			line.Line, line.Label, money.Format(line.Federal), money.Format(line.NonFederal), money.Format(line.Total))
	}
	fmt.Fprintf(tw, "6i\tTotal direct charges\t%s\t%s\t%s\t\n",
		money.Format(s.DirectFederal), money.Format(s.DirectNonFederal), money.Format(s.DirectTotal))
	fmt.Fprintf(tw, "6j\tIndirect charges (%s of %s)\t\t\t%s\t\n",
		money.Percent(b.IndirectCostRate), money.Format(s.IndirectBase), money.Format(s.Indirect))
	fmt.Fprintf(tw, "6k\tTotal\t\t\t%s\t\n", money.Format(s.Total))
	_ = tw.Flush()
}

func printFlags(out io.Writer, flags []advisory.Flag) {
	if len(flags) == 0 {
		fmt.Fprintln(out, "Flags: none")
		return
	}

	counts := advisory.Counts(flags)
	fmt.Fprintf(out, "Flags: %d error, %d warning, %d info\n",
		counts[advisory.SeverityError], counts[advisory.SeverityWarning], counts[advisory.SeverityInfo])
	for _, f := range flags {
		fmt.Fprintf(out, "  [%s] %s: %s\n", f.Severity, f.Title, f.Message)
		if f.Recommendation != "" {
			fmt.Fprintf(out, "      %s\n", f.Recommendation)
		}
	}
}

func layerLabel(name string) string {
	if label, ok := layerLabels[name]; ok {
		return label
	}
	return name
}
