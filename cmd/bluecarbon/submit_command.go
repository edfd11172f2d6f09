package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bluecarbon/internal/project"
	"bluecarbon/internal/submission"
)

func newSubmitCommand(ctx *commandContext) *cobra.Command {
	var (
		farmerName     string
		areaHectares   float64
		numPlants      int
		plantationType string
		location       string
		latitude       float64
		longitude      float64
		dataSource     string
		formatType     string
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a new restoration project for analysis",
		Long: `Submit registers a new project with the registry, uploads any staged
imagery, and requests analysis. The created project survives upload and
analysis failures; rerun the failing step instead of submitting again.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			form := submission.Form{
				FarmerName:   farmerName,
				AreaHectares: areaHectares,
				NumPlants:    numPlants,
				Location:     location,
			}
			if plantationType != "" {
				parsed, ok := project.ParsePlantationType(plantationType)
				if !ok {
					return fmt.Errorf("unknown plantation type %q", plantationType)
				}
				form.PlantationType = parsed
			}
			if dataSource != "" {
				parsed, ok := project.ParseDataSource(dataSource)
				if !ok {
					return fmt.Errorf("unknown data source %q", dataSource)
				}
				form.DataSource = parsed
			}
			if formatType != "" {
				parsed, ok := project.ParseFormatType(formatType)
				if !ok {
					return fmt.Errorf("unknown format type %q", formatType)
				}
				form.FormatType = parsed
			}
			if cmd.Flags().Changed("latitude") {
				form.Latitude = &latitude
			}
			if cmd.Flags().Changed("longitude") {
				form.Longitude = &longitude
			}

			client, err := ctx.registryClient()
			if err != nil {
				return err
			}
			st, err := ctx.openStager()
			if err != nil {
				return err
			}
			notifier, err := ctx.notifier()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			orch := submission.New(client, st, notifier, logger)
			result, err := orch.Submit(cmd.Context(), form)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Project %s created for %s\n", result.Project.ID, farmerName)
			switch {
			case result.UploadErr != nil:
				fmt.Fprintf(out, "Upload failed: %v\n", result.UploadErr)
				fmt.Fprintln(out, "Staged files were kept; fix the issue and resubmit the upload.")
			case len(result.Uploaded) > 0:
				fmt.Fprintf(out, "Uploaded %d file(s)\n", len(result.Uploaded))
			}
			if result.AnalysisErr != nil {
				fmt.Fprintf(out, "Analysis failed: %v\n", result.AnalysisErr)
				return nil
			}
			fmt.Fprintf(out, "Status: %s\n", result.Project.Status)
			if result.Project.CarbonCredits != nil {
				fmt.Fprintf(out, "Estimated credits: %.2f\n", *result.Project.CarbonCredits)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&farmerName, "farmer", "", "Land owner name")
	cmd.Flags().Float64Var(&areaHectares, "area", 0, "Site area in hectares")
	cmd.Flags().IntVar(&numPlants, "plants", 0, "Number of plants on the site")
	cmd.Flags().StringVar(&plantationType, "type", "", "Plantation type (mangrove, seagrass, saltmarsh)")
	cmd.Flags().StringVar(&location, "location", "", "Site location description")
	cmd.Flags().Float64Var(&latitude, "latitude", 0, "Site latitude")
	cmd.Flags().Float64Var(&longitude, "longitude", 0, "Site longitude")
	cmd.Flags().StringVar(&dataSource, "source", "", "Imagery data source")
	cmd.Flags().StringVar(&formatType, "format", "", "Imagery format type")

	return cmd
}
