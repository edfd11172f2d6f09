package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"bluecarbon/internal/stager"
)

func newStageCommand(ctx *commandContext) *cobra.Command {
	stageCmd := &cobra.Command{
		Use:   "stage",
		Short: "Manage files staged for the next submission",
	}

	stageCmd.AddCommand(newStageAddCommand(ctx))
	stageCmd.AddCommand(newStageListCommand(ctx))
	stageCmd.AddCommand(newStageRemoveCommand(ctx))
	stageCmd.AddCommand(newStageClearCommand(ctx))
	stageCmd.AddCommand(newStageCleanCommand(ctx))

	return stageCmd
}

func newStageAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <file>...",
		Short: "Stage image files for the next submission",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStager()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, path := range args {
				entry, err := st.AddFromPath(path)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Staged %s (%d bytes)\n", entry.Name, len(entry.Data))
			}
			fmt.Fprintf(out, "%d file(s) staged\n", st.Len())
			return nil
		},
	}
}

func newStageListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the currently staged files",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStager()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if st.Len() == 0 {
				fmt.Fprintln(out, "No files staged")
				return nil
			}

			rows := make([][]string, 0, st.Len())
			index := 1
			for entry := range st.List() {
				rows = append(rows, []string{
					strconv.Itoa(index),
					entry.Name,
					entry.MIME,
					strconv.Itoa(len(entry.Data)),
					entry.StagedAt.Local().Format(time.DateTime),
				})
				index++
			}
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Name", "Type", "Bytes", "Staged"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}
}

func newStageRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <number>",
		Short: "Remove a staged file by its list number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := strconv.Atoi(strings.TrimSpace(args[0]))
			if err != nil || number < 1 {
				return fmt.Errorf("invalid file number %q", args[0])
			}
			st, err := ctx.openStager()
			if err != nil {
				return err
			}
			if err := st.Remove(number - 1); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed file %d; %d remain staged\n", number, st.Len())
			return nil
		},
	}
}

func newStageClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Discard all staged files",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStager()
			if err != nil {
				return err
			}
			count := st.Len()
			st.Clear()
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d staged file(s)\n", count)
			return nil
		},
	}
}

func newStageCleanCommand(ctx *commandContext) *cobra.Command {
	var maxAgeHours int

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove stale preview files left by interrupted sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			maxAge := time.Duration(maxAgeHours) * time.Hour
			if !cmd.Flags().Changed("max-age-hours") {
				maxAge = time.Duration(cfg.Stager.PreviewMaxAgeHr) * time.Hour
			}

			result := stager.CleanStale(cfg.Paths.StagingDir, maxAge, logger)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Removed %d stale preview(s)\n", len(result.Removed))
			for _, cleanupErr := range result.Errors {
				fmt.Fprintf(out, "Could not remove %s: %v\n", cleanupErr.Path, cleanupErr.Error)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&maxAgeHours, "max-age-hours", 24, "Remove previews older than this many hours")
	return cmd
}
