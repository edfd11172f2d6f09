package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "catalog <project-id>",
		Short: "Fetch the spatial catalog entry for a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.registryClient()
			if err != nil {
				return err
			}
			entry, err := client.GetSpatialCatalogEntry(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, entry)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Catalog entry %s\n", entry.ID)
			fmt.Fprintf(out, "Datetime:  %s\n", entry.Datetime.Local().Format(time.DateTime))
			if entry.GeometryType != "" {
				fmt.Fprintf(out, "Geometry:  %s\n", entry.GeometryType)
			}
			if len(entry.BBox) == 4 {
				fmt.Fprintf(out, "BBox:      [%.5f, %.5f, %.5f, %.5f]\n",
					entry.BBox[0], entry.BBox[1], entry.BBox[2], entry.BBox[3])
			}
			if len(entry.Assets) > 0 {
				keys := make([]string, 0, len(entry.Assets))
				for key := range entry.Assets {
					keys = append(keys, key)
				}
				sort.Strings(keys)
				fmt.Fprintln(out, "Assets:")
				for _, key := range keys {
					asset := entry.Assets[key]
					label := asset.Title
					if label == "" {
						label = key
					}
					fmt.Fprintf(out, "  %-12s %s\n", label, asset.Href)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the catalog entry as JSON")
	return cmd
}
