package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/lfmelo/macrod/internal/model"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(dayCmd)
}

var dayCmd = &cobra.Command{
	Use:   "day [date]",
	Short: "Show the logged meals and totals for a day",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		date, _ := dateArg(args)
		day, err := a.tracker.GetDayFull(context.Background(), date)
		if err != nil {
			return err
		}
		if day == nil {
			fmt.Printf("%s: nothing logged%s\n", date, offlineSuffix(a))
			return nil
		}
		printDay(day, a)
		return nil
	},
}

func printDay(day *model.DayFull, a *app) {
	fmt.Printf("%s%s\n", day.Date, offlineSuffix(a))
	meals := make([]model.Meal, len(day.Meals))
	copy(meals, day.Meals)
	sort.SliceStable(meals, func(i, j int) bool { return meals[i].SortOrder < meals[j].SortOrder })

	for _, meal := range meals {
		fmt.Printf("\n%s (#%d)\n", meal.Name, meal.ID)
		entries := make([]model.Entry, len(meal.Entries))
		copy(entries, meal.Entries)
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].SortOrder < entries[j].SortOrder })
		for _, e := range entries {
			desc := e.Description
			if desc == "" {
				desc = fmt.Sprintf("(pending fdc %d)", e.FdcID)
			}
			fmt.Printf("  #%-6d %-40s %6.0fg  %7.1f kcal  P%5.1f F%5.1f C%5.1f\n",
				e.ID, desc, e.QuantityG, e.Kcal, e.Protein, e.Fat, e.Carb)
		}
		fmt.Printf("  subtotal: %.1f kcal  P%.1f F%.1f C%.1f\n",
			meal.Subtotal.Kcal, meal.Subtotal.Protein, meal.Subtotal.Fat, meal.Subtotal.Carb)
	}
	fmt.Printf("\ntotal: %.1f kcal  P%.1f F%.1f C%.1f\n",
		day.Totals.Kcal, day.Totals.Protein, day.Totals.Fat, day.Totals.Carb)
}

func offlineSuffix(a *app) string {
	if a.online {
		return ""
	}
	if n := a.cache.QueueSize(); n > 0 {
		return fmt.Sprintf(" [offline, %d pending]", n)
	}
	return " [offline]"
}
