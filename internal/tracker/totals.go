package tracker

import (
	"math"
	"sort"

	"github.com/lfmelo/macrod/internal/model"
)

// round2 keeps macro arithmetic at two decimals so repeated deltas do not
// accumulate floating drift.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// MacrosFromFood computes entry macros for a given quantity. Foods with a
// unit name are defined per discrete unit and quantity counts units;
// otherwise the profile is per 100 g and quantity is grams.
func MacrosFromFood(f *model.Food, quantity float64) model.MacroTotals {
	if f.UnitName != "" {
		return model.MacroTotals{
			Kcal:    round2(f.KcalPerUnit * quantity),
			Protein: round2(f.ProteinPerUnit * quantity),
			Fat:     round2(f.FatPerUnit * quantity),
			Carb:    round2(f.CarbPerUnit * quantity),
		}
	}
	ratio := quantity / 100
	return model.MacroTotals{
		Kcal:    round2(f.KcalPer100g * ratio),
		Protein: round2(f.ProteinPer100g * ratio),
		Fat:     round2(f.FatPer100g * ratio),
		Carb:    round2(f.CarbPer100g * ratio),
	}
}

// ScaledMacros rescales an entry's macros to a new quantity by a single
// ratio multiply, without refetching nutrition data.
func ScaledMacros(e model.Entry, newQuantity float64) model.MacroTotals {
	if e.QuantityG == 0 {
		return model.MacroTotals{}
	}
	ratio := newQuantity / e.QuantityG
	return model.MacroTotals{
		Kcal:    round2(e.Kcal * ratio),
		Protein: round2(e.Protein * ratio),
		Fat:     round2(e.Fat * ratio),
		Carb:    round2(e.Carb * ratio),
	}
}

func entryMacros(e model.Entry) model.MacroTotals {
	return model.MacroTotals{Kcal: e.Kcal, Protein: e.Protein, Fat: e.Fat, Carb: e.Carb}
}

func addTotals(a, b model.MacroTotals) model.MacroTotals {
	return model.MacroTotals{
		Kcal:    round2(a.Kcal + b.Kcal),
		Protein: round2(a.Protein + b.Protein),
		Fat:     round2(a.Fat + b.Fat),
		Carb:    round2(a.Carb + b.Carb),
	}
}

func subTotals(a, b model.MacroTotals) model.MacroTotals {
	return addTotals(a, model.MacroTotals{Kcal: -b.Kcal, Protein: -b.Protein, Fat: -b.Fat, Carb: -b.Carb})
}

// cloneDay copies a day snapshot, including meal and entry slices. Callers
// that patch a cached day always work on a clone so observers holding the
// previous pointer never see in-place mutation.
func cloneDay(day *model.DayFull) *model.DayFull {
	out := &model.DayFull{Date: day.Date, Totals: day.Totals}
	out.Meals = make([]model.Meal, len(day.Meals))
	for i, m := range day.Meals {
		entries := make([]model.Entry, len(m.Entries))
		copy(entries, m.Entries)
		m.Entries = entries
		out.Meals[i] = m
	}
	return out
}

// applyDelta folds delta into the named meal's subtotal and the day totals.
// Callers pass a freshly cloned day, never a cached pointer, so observers
// holding the previous snapshot see a new object rather than an in-place
// change.
func applyDelta(day *model.DayFull, mealID int64, delta model.MacroTotals) {
	for i := range day.Meals {
		if day.Meals[i].ID == mealID {
			day.Meals[i].Subtotal = addTotals(day.Meals[i].Subtotal, delta)
			break
		}
	}
	day.Totals = addTotals(day.Totals, delta)
}

// renumberEntries rewrites sort_order as a dense 1..N sequence following the
// current ordering, so repeated moves never accumulate gaps.
func renumberEntries(entries []model.Entry) {
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].SortOrder < entries[j].SortOrder })
	for i := range entries {
		entries[i].SortOrder = i + 1
	}
}

func findMeal(day *model.DayFull, mealID int64) *model.Meal {
	for i := range day.Meals {
		if day.Meals[i].ID == mealID {
			return &day.Meals[i]
		}
	}
	return nil
}
