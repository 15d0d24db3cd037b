package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var applyMultiplier float64

func init() {
	presetApplyCmd.Flags().Float64Var(&applyMultiplier, "scale", 1.0, "scale all quantities by this factor")
	presetCmd.AddCommand(presetListCmd, presetSaveCmd, presetApplyCmd, presetRmCmd)
	rootCmd.AddCommand(presetCmd)
}

var presetCmd = &cobra.Command{
	Use:   "preset",
	Short: "Manage reusable meal templates",
}

var presetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved presets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		presets, err := a.tracker.Presets(context.Background())
		if err != nil {
			return err
		}
		if len(presets) == 0 {
			fmt.Println("no presets")
			return nil
		}
		for _, p := range presets {
			fmt.Printf("#%-6d %-30s %d items\n", p.ID, p.Name, p.ItemCount)
		}
		return nil
	},
}

var presetSaveCmd = &cobra.Command{
	Use:   "save <name> <date> <meal-name>",
	Short: "Save a logged meal as a preset",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		p, err := a.tracker.CreatePresetFromMeal(context.Background(), args[0], args[1], args[2])
		if err != nil {
			return err
		}
		fmt.Printf("saved preset %q (#%d)\n", p.Name, p.ID)
		return nil
	},
}

var presetApplyCmd = &cobra.Command{
	Use:   "apply <preset-id> <date> <meal-name>",
	Short: "Instantiate a preset onto a day",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid preset ID %q", args[0])
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.tracker.ApplyPreset(context.Background(), id, args[1], args[2], applyMultiplier); err != nil {
			return err
		}
		fmt.Printf("applied preset #%d to %s\n", id, args[1])
		return nil
	},
}

var presetRmCmd = &cobra.Command{
	Use:   "rm <preset-id>",
	Short: "Delete a preset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid preset ID %q", args[0])
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.tracker.DeletePreset(context.Background(), id); err != nil {
			return err
		}
		fmt.Printf("deleted preset #%d\n", id)
		return nil
	},
}
