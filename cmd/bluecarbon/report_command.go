package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "report <project-id>",
		Short: "Fetch the structured MRV report for a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.registryClient()
			if err != nil {
				return err
			}
			report, err := client.GetReport(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, report)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Report for project %s (%s)\n", report.ProjectID, report.FarmerName)
			fmt.Fprintf(out, "Status:     %s\n", report.Status)
			fmt.Fprintf(out, "NDVI:       %s\n", formatOptional(report.NDVIScore, "%.3f"))
			fmt.Fprintf(out, "Mean NDVI:  %s\n", formatOptional(report.MeanNDVI, "%.3f"))
			fmt.Fprintf(out, "Healthy:    %s%%\n", formatOptional(report.HealthyPct, "%.1f"))
			fmt.Fprintf(out, "CO2:        %s t\n", formatOptional(report.CO2Tonnes, "%.2f"))
			fmt.Fprintf(out, "Credits:    %s\n", formatOptional(report.CarbonCredits, "%.2f"))
			fmt.Fprintf(out, "Revenue:    %s USD\n", formatOptional(report.RevenueUSD, "%.2f"))
			if report.QualityNotes != "" {
				fmt.Fprintf(out, "Notes:      %s\n", report.QualityNotes)
			}
			fmt.Fprintf(out, "Generated:  %s\n", report.GeneratedAt.Local().Format(time.DateTime))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the report as JSON")
	return cmd
}
