package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	usdaKeyCmd.AddCommand(usdaKeyGetCmd, usdaKeySetCmd)
	configCmd.AddCommand(usdaKeyCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage server-side configuration",
}

var usdaKeyCmd = &cobra.Command{
	Use:   "usda-key",
	Short: "Manage the USDA API key used for food search",
}

var usdaKeyGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show whether a USDA API key is configured",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		key, err := a.tracker.UsdaKey(context.Background())
		if err != nil {
			return err
		}
		if key == "" {
			fmt.Println("no USDA key configured")
			return nil
		}
		fmt.Printf("USDA key configured (%s)\n", maskKey(key))
		return nil
	},
}

var usdaKeySetCmd = &cobra.Command{
	Use:   "set <key>",
	Short: "Store the USDA API key on the server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.tracker.SetUsdaKey(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Println("USDA key updated")
		return nil
	},
}

func maskKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}
