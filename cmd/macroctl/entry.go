package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func init() {
	entryCmd.AddCommand(entryAddCmd, entryRmCmd, entrySetCmd, entryMoveCmd)
	rootCmd.AddCommand(entryCmd)
}

var entryCmd = &cobra.Command{
	Use:   "entry",
	Short: "Manage food entries within meals",
}

var entryAddCmd = &cobra.Command{
	Use:   "add <meal-id> <fdc-id> <grams>",
	Short: "Log a food on a meal",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		mealID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid meal ID %q", args[0])
		}
		fdcID, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid food ID %q", args[1])
		}
		grams, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return fmt.Errorf("invalid quantity %q", args[2])
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		entry, err := a.tracker.AddEntry(context.Background(), mealID, fdcID, grams)
		if err != nil {
			return err
		}
		if entry.ID < 0 {
			fmt.Printf("queued entry #%d (%.0fg of fdc %d), macros arrive on sync%s\n",
				entry.ID, grams, fdcID, offlineSuffix(a))
			return nil
		}
		fmt.Printf("logged #%d %s: %.0fg, %.1f kcal\n", entry.ID, entry.Description, entry.QuantityG, entry.Kcal)
		return nil
	},
}

var entryRmCmd = &cobra.Command{
	Use:   "rm <entry-id>",
	Short: "Delete an entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid entry ID %q", args[0])
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.tracker.DeleteEntry(context.Background(), id); err != nil {
			return err
		}
		fmt.Printf("deleted entry #%d%s\n", id, offlineSuffix(a))
		return nil
	},
}

var entrySetCmd = &cobra.Command{
	Use:   "set <entry-id> <grams>",
	Short: "Change an entry's quantity",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid entry ID %q", args[0])
		}
		grams, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid quantity %q", args[1])
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.tracker.UpdateEntry(context.Background(), id, grams); err != nil {
			return err
		}
		fmt.Printf("entry #%d set to %.0fg%s\n", id, grams, offlineSuffix(a))
		return nil
	},
}

var entryMoveCmd = &cobra.Command{
	Use:   "move <entry-id> <position>",
	Short: "Reposition an entry within its meal",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid entry ID %q", args[0])
		}
		pos, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid position %q", args[1])
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.tracker.MoveEntry(context.Background(), id, pos); err != nil {
			return err
		}
		fmt.Printf("moved entry #%d to position %d%s\n", id, pos, offlineSuffix(a))
		return nil
	},
}
