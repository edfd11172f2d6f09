package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"bluecarbon/internal/aggregate"
	"bluecarbon/internal/project"
)

const (
	ansiReset = "\x1b[0m"
	ansiBlue  = "\x1b[34m"
)

func newDashboardCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Summarize portfolio KPIs across all projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.registryClient()
			if err != nil {
				return err
			}

			projects, err := client.ListProjects(cmd.Context(), "")
			if err != nil {
				return err
			}
			settings, err := client.GetSettings(cmd.Context())
			if err != nil {
				return err
			}

			summary := aggregate.Compute(projects, settings)
			if asJSON {
				return writeJSON(cmd, map[string]any{
					"total":          summary.Total,
					"approved":       summary.ApprovedCount,
					"rejected":       summary.RejectedCount,
					"pending":        summary.PendingCount,
					"total_credits":  summary.TotalCredits,
					"total_revenue":  summary.TotalRevenue,
					"approval_rate":  summary.ApprovalRate,
					"token_price":    settings.TokenPriceUSD,
					"marketplace_on": settings.MarketplaceEnabled,
				})
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			printer := message.NewPrinter(language.AmericanEnglish)

			for _, line := range renderSectionHeader("Portfolio", colorize) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Metric", "Value"},
				[][]string{
					{"Projects", printer.Sprintf("%d", summary.Total)},
					{"Approved", printer.Sprintf("%d", summary.ApprovedCount)},
					{"Rejected", printer.Sprintf("%d", summary.RejectedCount)},
					{"Pending", printer.Sprintf("%d", summary.PendingCount)},
					{"Approval rate", printer.Sprintf("%.0f%%", summary.ApprovalRate)},
					{"Carbon credits", printer.Sprintf("%.2f", summary.TotalCredits)},
					{"Projected revenue", formatUSD(printer, summary.TotalRevenue)},
					{"Token price", formatUSD(printer, settings.TokenPriceUSD)},
					{"Marketplace", yesNo(settings.MarketplaceEnabled)},
				},
				[]columnAlignment{alignLeft, alignRight},
			))

			if len(projects) == 0 {
				return nil
			}

			fmt.Fprintln(out)
			for _, line := range renderSectionHeader("Projects", colorize) {
				fmt.Fprintln(out, line)
			}
			rows := make([][]string, 0, len(projects))
			for _, p := range projects {
				rows = append(rows, []string{
					p.ID,
					p.FarmerName,
					string(p.Status),
					fmt.Sprintf("%.1f", p.Details.AreaHectares),
					formatOptional(p.CarbonCredits, "%.2f"),
					formatOptionalUSD(printer, revenueFor(p, settings)),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Farmer", "Status", "Hectares", "Credits", "Revenue"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the summary as JSON")
	return cmd
}

// revenueFor mirrors the aggregation engine's per-project revenue rule.
func revenueFor(p project.Project, settings project.Settings) *float64 {
	if p.PotentialRevenue != nil {
		return p.PotentialRevenue
	}
	if p.CarbonCredits != nil {
		revenue := *p.CarbonCredits * settings.TokenPriceUSD
		return &revenue
	}
	return nil
}

func formatUSD(printer *message.Printer, value float64) string {
	return printer.Sprintf("%v", currency.Symbol(currency.USD.Amount(value)))
}

func formatOptionalUSD(printer *message.Printer, value *float64) string {
	if value == nil {
		return "-"
	}
	return formatUSD(printer, *value)
}

func formatOptional(value *float64, format string) string {
	if value == nil {
		return "-"
	}
	return fmt.Sprintf(format, *value)
}

func renderSectionHeader(title string, colorize bool) []string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	if colorize {
		line = ansiBlue + line + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	return []string{line, rule}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
