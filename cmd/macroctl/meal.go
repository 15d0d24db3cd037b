package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/lfmelo/macrod/internal/model"
	"github.com/spf13/cobra"
)

func init() {
	mealCmd.AddCommand(mealAddCmd, mealRmCmd, mealRenameCmd, mealMoveCmd, mealCopyCmd)
	rootCmd.AddCommand(mealCmd)
}

var mealCmd = &cobra.Command{
	Use:   "meal",
	Short: "Manage a day's meals",
}

var mealAddCmd = &cobra.Command{
	Use:   "add [date]",
	Short: "Add a meal to a day",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		date, _ := dateArg(args)
		meal, err := a.tracker.CreateMeal(context.Background(), date)
		if err != nil {
			return err
		}
		fmt.Printf("created %q (#%d) on %s%s\n", meal.Name, meal.ID, date, offlineSuffix(a))
		return nil
	},
}

var mealRmCmd = &cobra.Command{
	Use:   "rm <meal-id>",
	Short: "Delete a meal and its entries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid meal ID %q", args[0])
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.tracker.DeleteMeal(context.Background(), id); err != nil {
			return err
		}
		fmt.Printf("deleted meal #%d%s\n", id, offlineSuffix(a))
		return nil
	},
}

var mealRenameCmd = &cobra.Command{
	Use:   "rename <meal-id> <name>",
	Short: "Rename a meal",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid meal ID %q", args[0])
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		name := args[1]
		patch := model.MealPatch{Name: &name}
		if err := a.tracker.UpdateMeal(context.Background(), id, patch); err != nil {
			return err
		}
		fmt.Printf("renamed meal #%d to %q%s\n", id, name, offlineSuffix(a))
		return nil
	},
}

var mealMoveCmd = &cobra.Command{
	Use:   "move <meal-id> <position>",
	Short: "Change a meal's position within its day",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid meal ID %q", args[0])
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

		patch := model.MealPatch{SortOrder: &pos}
		if err := a.tracker.UpdateMeal(context.Background(), id, patch); err != nil {
			return err
		}
		fmt.Printf("moved meal #%d to position %d%s\n", id, pos, offlineSuffix(a))
		return nil
	},
}

var mealCopyCmd = &cobra.Command{
	Use:   "copy <meal-id> <date> <name>",
	Short: "Copy a meal's entries to another day",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid meal ID %q", args[0])
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.tracker.CopyMealTo(context.Background(), id, args[1], args[2]); err != nil {
			return err
		}
		fmt.Printf("copied meal #%d to %s as %q\n", id, args[1], args[2])
		return nil
	},
}
