package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(weightCmd, waterCmd)
}

var weightCmd = &cobra.Command{
	Use:   "weight [date] [value]",
	Short: "Show or record body weight for a day",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		date, rest := dateArg(args)
		ctx := context.Background()

		if len(rest) == 0 {
			w, ok := a.tracker.Weight(ctx, date)
			if !ok {
				fmt.Printf("%s: no weight recorded%s\n", date, offlineSuffix(a))
				return nil
			}
			fmt.Printf("%s: %.1f kg%s\n", date, w, offlineSuffix(a))
			return nil
		}

		w, err := strconv.ParseFloat(rest[0], 64)
		if err != nil {
			return fmt.Errorf("invalid weight %q", rest[0])
		}
		if err := a.tracker.SetWeight(ctx, date, w); err != nil {
			return err
		}
		fmt.Printf("%s: weight set to %.1f kg%s\n", date, w, offlineSuffix(a))
		return nil
	},
}

var waterCmd = &cobra.Command{
	Use:   "water [date] [ml]",
	Short: "Show or record water intake for a day",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		date, rest := dateArg(args)
		ctx := context.Background()

		if len(rest) == 0 {
			ml, ok := a.tracker.Water(ctx, date)
			if !ok {
				fmt.Printf("%s: no water recorded%s\n", date, offlineSuffix(a))
				return nil
			}
			fmt.Printf("%s: %.0f ml%s\n", date, ml, offlineSuffix(a))
			return nil
		}

		ml, err := strconv.ParseFloat(rest[0], 64)
		if err != nil {
			return fmt.Errorf("invalid volume %q", rest[0])
		}
		if err := a.tracker.SetWater(ctx, date, ml); err != nil {
			return err
		}
		fmt.Printf("%s: water set to %.0f ml%s\n", date, ml, offlineSuffix(a))
		return nil
	},
}
