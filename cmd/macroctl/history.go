package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var historyDays int

func init() {
	historyCmd.Flags().IntVar(&historyDays, "days", 30, "number of days to report")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "write to file instead of stdout")
	rootCmd.AddCommand(historyCmd, exportCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show per-day macro totals over a date range",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		end := today()
		start := daysAgo(historyDays)
		rows, err := a.tracker.History(context.Background(), start, end)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			fmt.Println("no history")
			return nil
		}
		fmt.Printf("%-12s %8s %7s %7s %7s %8s %8s\n", "date", "kcal", "protein", "fat", "carb", "weight", "water")
		for _, r := range rows {
			weight, water := "-", "-"
			if r.Weight != nil {
				weight = fmt.Sprintf("%.1f", *r.Weight)
			}
			if r.Water != nil {
				water = fmt.Sprintf("%.0f", *r.Water)
			}
			fmt.Printf("%-12s %8.0f %7.1f %7.1f %7.1f %8s %8s\n",
				r.Date, r.Kcal, r.Protein, r.Fat, r.Carb, weight, water)
		}
		return nil
	},
}

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export <start-date> <end-date>",
	Short: "Export logged days as CSV",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		out := os.Stdout
		if exportOut != "" {
			f, err := os.Create(exportOut)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}
		if err := a.tracker.ExportCSV(context.Background(), args[0], args[1], out); err != nil {
			return err
		}
		if exportOut != "" {
			fmt.Printf("wrote %s\n", exportOut)
		}
		return nil
	},
}
