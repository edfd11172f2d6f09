package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"bluecarbon/internal/review"
	"bluecarbon/internal/services/registry"
)

func newVerifyCommand(ctx *commandContext) *cobra.Command {
	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "Review submitted projects as a verifier",
	}

	verifyCmd.AddCommand(newVerifyQueueCommand(ctx))
	verifyCmd.AddCommand(newVerifyCommentCommand(ctx))
	verifyCmd.AddCommand(newVerifyDecisionCommand(ctx, registry.ActionApprove))
	verifyCmd.AddCommand(newVerifyDecisionCommand(ctx, registry.ActionReject))

	return verifyCmd
}

func (c *commandContext) openReviewController() (*review.Controller, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, nil, err
	}
	client, err := c.registryClient()
	if err != nil {
		return nil, nil, err
	}
	notifier, err := c.notifier()
	if err != nil {
		return nil, nil, err
	}

	store, err := review.OpenStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	controller := review.NewController(client, store, notifier, logger)
	closeStore := func() { _ = store.Close() }
	return controller, closeStore, nil
}

func newVerifyQueueCommand(ctx *commandContext) *cobra.Command {
	var statusFilter string
	var searchText string

	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Show projects awaiting a decision",
		RunE: func(cmd *cobra.Command, args []string) error {
			controller, closeStore, err := ctx.openReviewController()
			if err != nil {
				return err
			}
			defer closeStore()

			if err := controller.LoadQueue(cmd.Context()); err != nil {
				return err
			}

			rows := make([][]string, 0)
			for p := range controller.Filter(statusFilter, searchText) {
				credits := "-"
				if p.CarbonCredits != nil {
					credits = fmt.Sprintf("%.2f", *p.CarbonCredits)
				}
				comment := controller.Comment(p.ID)
				if comment != "" {
					comment = "draft"
				}
				rows = append(rows, []string{
					p.ID,
					p.FarmerName,
					string(p.Status),
					fmt.Sprintf("%.1f", p.Details.AreaHectares),
					credits,
					comment,
				})
			}

			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintln(out, "No projects match")
				return nil
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Farmer", "Status", "Hectares", "Credits", "Comment"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&statusFilter, "status", review.FilterAll, "Filter by status (all, submitted, under_review)")
	cmd.Flags().StringVar(&searchText, "search", "", "Match farmer name or project id")
	return cmd
}

func newVerifyCommentCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "comment <project-id> [text]",
		Short: "Save a draft comment for a project, or clear it with no text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			controller, closeStore, err := ctx.openReviewController()
			if err != nil {
				return err
			}
			defer closeStore()

			projectID := strings.TrimSpace(args[0])
			comment := strings.TrimSpace(strings.Join(args[1:], " "))
			if err := controller.SetComment(cmd.Context(), projectID, comment); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if comment == "" {
				fmt.Fprintf(out, "Cleared draft comment for %s\n", projectID)
			} else {
				fmt.Fprintf(out, "Saved draft comment for %s\n", projectID)
			}
			return nil
		},
	}
}

func newVerifyDecisionCommand(ctx *commandContext, action registry.DecisionAction) *cobra.Command {
	var comment string

	short := "Approve a project"
	if action == registry.ActionReject {
		short = "Reject a project"
	}

	cmd := &cobra.Command{
		Use:   string(action) + " <project-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			controller, closeStore, err := ctx.openReviewController()
			if err != nil {
				return err
			}
			defer closeStore()

			projectID := strings.TrimSpace(args[0])
			if cmd.Flags().Changed("comment") {
				if err := controller.SetComment(cmd.Context(), projectID, comment); err != nil {
					return err
				}
			}

			decided, err := controller.Decide(cmd.Context(), projectID, action)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Project %s is now %s\n", decided.ID, decided.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&comment, "comment", "", "Decision comment (overrides any saved draft)")
	return cmd
}
