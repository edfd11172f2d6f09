package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"bluecarbon/internal/project"
)

func newProjectsCommand(ctx *commandContext) *cobra.Command {
	projectsCmd := &cobra.Command{
		Use:   "projects",
		Short: "List and inspect registry projects",
	}

	projectsCmd.AddCommand(newProjectsListCommand(ctx))
	projectsCmd.AddCommand(newProjectsShowCommand(ctx))

	return projectsCmd
}

func newProjectsListCommand(ctx *commandContext) *cobra.Command {
	var statusFilter string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects, optionally filtered by status",
		RunE: func(cmd *cobra.Command, args []string) error {
			var status project.Status
			if trimmed := strings.TrimSpace(statusFilter); trimmed != "" {
				parsed, ok := project.ParseStatus(trimmed)
				if !ok {
					return fmt.Errorf("unknown status %q", trimmed)
				}
				status = parsed
			}

			client, err := ctx.registryClient()
			if err != nil {
				return err
			}
			projects, err := client.ListProjects(cmd.Context(), status)
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, projects)
			}

			out := cmd.OutOrStdout()
			if len(projects) == 0 {
				fmt.Fprintln(out, "No projects found")
				return nil
			}
			rows := make([][]string, 0, len(projects))
			for _, p := range projects {
				rows = append(rows, []string{
					p.ID,
					p.FarmerName,
					string(p.Status),
					string(p.Details.PlantationType),
					fmt.Sprintf("%.1f", p.Details.AreaHectares),
					p.CreatedAt.Local().Format(time.DateOnly),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Farmer", "Status", "Type", "Hectares", "Created"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&statusFilter, "status", "", "Filter by status (submitted, under_review, approved, rejected)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the project list as JSON")
	return cmd
}

func newProjectsShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <project-id>",
		Short: "Show one project in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.registryClient()
			if err != nil {
				return err
			}
			record, err := client.GetProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, record)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Project:   %s\n", record.ID)
			fmt.Fprintf(out, "Farmer:    %s\n", record.FarmerName)
			fmt.Fprintf(out, "Status:    %s\n", record.Status)
			fmt.Fprintf(out, "Location:  %s\n", record.Details.Location)
			fmt.Fprintf(out, "Type:      %s\n", record.Details.PlantationType)
			fmt.Fprintf(out, "Area:      %.1f ha, %d plants\n", record.Details.AreaHectares, record.Details.NumPlants)
			fmt.Fprintf(out, "Created:   %s\n", record.CreatedAt.Local().Format(time.DateTime))
			fmt.Fprintf(out, "Updated:   %s\n", record.UpdatedAt.Local().Format(time.DateTime))
			if len(record.ImageURLs) > 0 {
				fmt.Fprintf(out, "Images:    %d uploaded\n", len(record.ImageURLs))
			}
			if record.Scored() {
				fmt.Fprintln(out)
				fmt.Fprintf(out, "NDVI:      %s\n", formatOptional(record.NDVIScore, "%.3f"))
				fmt.Fprintf(out, "Growth:    %s%%\n", formatOptional(record.GrowthPercent, "%.1f"))
				fmt.Fprintf(out, "CO2:       %s t\n", formatOptional(record.CO2Tonnes, "%.2f"))
				fmt.Fprintf(out, "Credits:   %s\n", formatOptional(record.CarbonCredits, "%.2f"))
			}
			if record.QualityNotes != "" {
				fmt.Fprintf(out, "Notes:     %s\n", record.QualityNotes)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the project as JSON")
	return cmd
}
