package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/lfmelo/macrod/internal/model"
	"github.com/spf13/cobra"
)

var searchDataType string

func init() {
	foodsSearchCmd.Flags().StringVar(&searchDataType, "type", "", "restrict to a USDA data type (e.g. Branded)")
	customAddCmd.Flags().StringVar(&customUnit, "unit", "", "define per discrete unit instead of per 100g")
	foodsCustomCmd.AddCommand(customAddCmd, customRmCmd, customArchiveCmd)
	foodsCmd.AddCommand(foodsSearchCmd, foodsShowCmd, foodsMineCmd, foodsCustomCmd)
	rootCmd.AddCommand(foodsCmd)
}

var foodsCmd = &cobra.Command{
	Use:   "foods",
	Short: "Search and manage foods",
}

var foodsSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the USDA food database",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		results, err := a.tracker.SearchFoods(context.Background(), strings.Join(args, " "), searchDataType)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Println("no matches")
			return nil
		}
		printFoodList(results)
		return nil
	},
}

var foodsShowCmd = &cobra.Command{
	Use:   "show <fdc-id>",
	Short: "Show a food's nutrition profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid food ID %q", args[0])
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		f, err := a.tracker.Food(context.Background(), id)
		if err != nil {
			return err
		}
		fmt.Printf("%s (#%d)\n", f.Description, f.FdcID)
		if f.BrandOwner != "" {
			fmt.Printf("  brand: %s\n", f.BrandOwner)
		}
		if f.UnitName != "" {
			fmt.Printf("  per %s: %.1f kcal  P%.1f F%.1f C%.1f\n",
				f.UnitName, f.KcalPerUnit, f.ProteinPerUnit, f.FatPerUnit, f.CarbPerUnit)
		} else {
			fmt.Printf("  per 100g: %.1f kcal  P%.1f F%.1f C%.1f\n",
				f.KcalPer100g, f.ProteinPer100g, f.FatPer100g, f.CarbPer100g)
		}
		return nil
	},
}

var foodsMineCmd = &cobra.Command{
	Use:   "mine",
	Short: "List your personal food collection",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		foods, err := a.tracker.MyFoods(context.Background())
		if err != nil {
			return err
		}
		if len(foods) == 0 {
			fmt.Printf("no foods%s\n", offlineSuffix(a))
			return nil
		}
		printFoodList(foods)
		return nil
	},
}

var foodsCustomCmd = &cobra.Command{
	Use:   "custom",
	Short: "Manage user-defined foods",
}

var customUnit string

var customAddCmd = &cobra.Command{
	Use:   "add <description> <kcal> <protein> <fat> <carb>",
	Short: "Create a user-defined food (values per 100g, or per unit with --unit)",
	Args:  cobra.ExactArgs(5),
	RunE: func(cmd *cobra.Command, args []string) error {
		vals := make([]float64, 4)
		for i, s := range args[1:] {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return fmt.Errorf("invalid value %q", s)
			}
			vals[i] = v
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		food := model.Food{Description: args[0]}
		if customUnit != "" {
			food.UnitName = customUnit
			food.KcalPerUnit, food.ProteinPerUnit, food.FatPerUnit, food.CarbPerUnit = vals[0], vals[1], vals[2], vals[3]
		} else {
			food.KcalPer100g, food.ProteinPer100g, food.FatPer100g, food.CarbPer100g = vals[0], vals[1], vals[2], vals[3]
		}
		created, err := a.tracker.CreateCustomFood(context.Background(), food)
		if err != nil {
			return err
		}
		fmt.Printf("created %q (#%d)\n", created.Description, created.FdcID)
		return nil
	},
}

var customRmCmd = &cobra.Command{
	Use:   "rm <fdc-id>",
	Short: "Delete a user-defined food",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid food ID %q", args[0])
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.tracker.DeleteCustomFood(context.Background(), id); err != nil {
			return err
		}
		fmt.Printf("deleted food #%d\n", id)
		return nil
	},
}

var customArchiveCmd = &cobra.Command{
	Use:   "archive <fdc-id>",
	Short: "Archive a user-defined food, keeping its history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid food ID %q", args[0])
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.tracker.ArchiveCustomFood(context.Background(), id); err != nil {
			return err
		}
		fmt.Printf("archived food #%d\n", id)
		return nil
	},
}

func printFoodList(foods []model.SimpleFood) {
	for _, f := range foods {
		brand := ""
		if f.BrandOwner != "" {
			brand = " - " + f.BrandOwner
		}
		fmt.Printf("#%-8d %s%s\n", f.FdcID, f.Description, brand)
	}
}
