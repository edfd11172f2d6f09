package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSettingsCommand(ctx *commandContext) *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Inspect and change marketplace settings",
	}

	settingsCmd.AddCommand(newSettingsShowCommand(ctx))
	settingsCmd.AddCommand(newSettingsSetCommand(ctx))

	return settingsCmd
}

func newSettingsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current marketplace settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.registryClient()
			if err != nil {
				return err
			}
			settings, err := client.GetSettings(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Token price:  %.2f USD\n", settings.TokenPriceUSD)
			fmt.Fprintf(out, "Marketplace:  %s\n", yesNo(settings.MarketplaceEnabled))
			return nil
		},
	}
}

func newSettingsSetCommand(ctx *commandContext) *cobra.Command {
	var tokenPrice float64
	var marketplace bool

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update marketplace settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("price") && !cmd.Flags().Changed("marketplace") {
				return fmt.Errorf("nothing to change; pass --price and/or --marketplace")
			}

			client, err := ctx.registryClient()
			if err != nil {
				return err
			}
			settings, err := client.GetSettings(cmd.Context())
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("price") {
				settings.TokenPriceUSD = tokenPrice
			}
			if cmd.Flags().Changed("marketplace") {
				settings.MarketplaceEnabled = marketplace
			}
			if err := client.SaveSettings(cmd.Context(), settings); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Settings saved")
			fmt.Fprintf(out, "Token price:  %.2f USD\n", settings.TokenPriceUSD)
			fmt.Fprintf(out, "Marketplace:  %s\n", yesNo(settings.MarketplaceEnabled))
			return nil
		},
	}

	cmd.Flags().Float64Var(&tokenPrice, "price", 0, "Token price in USD")
	cmd.Flags().BoolVar(&marketplace, "marketplace", true, "Enable or disable the marketplace")
	return cmd
}
