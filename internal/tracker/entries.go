package tracker

import (
	"context"
	"fmt"

	"github.com/lfmelo/macrod/internal/model"
)

// AddEntry logs a food entry on a meal. Online, the server computes the
// entry's macros from its nutrition data and the cache picks them up.
// Offline, a placeholder with zero macros is cached (nutrition lookup needs
// the network) and the real values arrive when the queued op syncs.
func (t *Tracker) AddEntry(ctx context.Context, mealID, fdcID int64, quantityG float64) (*model.Entry, error) {
	if t.online() {
		entry, err := t.remote.CreateEntry(ctx, mealID, fdcID, quantityG)
		if err != nil {
			return nil, err
		}
		t.appendEntryToCache(mealID, *entry)
		return entry, nil
	}

	date, day := t.dayWithMeal(mealID)
	if day == nil {
		return nil, fmt.Errorf("meal %d not in offline cache", mealID)
	}
	out := cloneDay(day)
	meal := findMeal(out, mealID)
	entry := model.Entry{
		ID:        t.cache.NextTempID(),
		QuantityG: quantityG,
		SortOrder: len(meal.Entries),
		FdcID:     fdcID,
	}
	meal.Entries = append(meal.Entries, entry)
	t.cache.CacheDay(date, out)
	t.cache.Enqueue(&model.AddEntryOp{MealID: mealID, FdcID: fdcID, QuantityG: quantityG, TempID: entry.ID})
	t.notifyDay(date)
	return &entry, nil
}

func (t *Tracker) appendEntryToCache(mealID int64, entry model.Entry) {
	date, day := t.dayWithMeal(mealID)
	if day == nil {
		return
	}
	out := cloneDay(day)
	meal := findMeal(out, mealID)
	meal.Entries = append(meal.Entries, entry)
	applyDelta(out, mealID, entryMacros(entry))
	t.cache.CacheDay(date, out)
	t.notifyDay(date)
}

// UpdateEntry changes an entry's quantity. Online, the cached macros are
// rescaled by the quantity ratio and the subtotal delta applied. Offline,
// only the quantity changes; macros stay as they were until sync.
func (t *Tracker) UpdateEntry(ctx context.Context, entryID int64, newGrams float64) error {
	if t.online() {
		if err := t.remote.UpdateEntryQuantity(ctx, entryID, newGrams); err != nil {
			return err
		}
		t.patchEntryInCache(entryID, func(e *model.Entry) model.MacroTotals {
			scaled := ScaledMacros(*e, newGrams)
			delta := subTotals(scaled, entryMacros(*e))
			e.QuantityG = newGrams
			e.Kcal, e.Protein, e.Fat, e.Carb = scaled.Kcal, scaled.Protein, scaled.Fat, scaled.Carb
			return delta
		})
		return nil
	}
	t.patchEntryInCache(entryID, func(e *model.Entry) model.MacroTotals {
		e.QuantityG = newGrams
		return model.MacroTotals{}
	})
	t.cache.Enqueue(&model.UpdateEntryOp{EntryID: entryID, NewGrams: newGrams})
	return nil
}

// MoveEntry repositions an entry within its meal and renumbers the meal's
// entries to a dense sequence.
func (t *Tracker) MoveEntry(ctx context.Context, entryID int64, newOrder int) error {
	if t.online() {
		if err := t.remote.UpdateEntrySortOrder(ctx, entryID, newOrder); err != nil {
			return err
		}
		t.moveEntryInCache(entryID, newOrder)
		return nil
	}
	t.moveEntryInCache(entryID, newOrder)
	t.cache.Enqueue(&model.MoveEntryOp{EntryID: entryID, NewOrder: newOrder})
	return nil
}

func (t *Tracker) moveEntryInCache(entryID int64, newOrder int) {
	date, day, mi, ei := t.locateEntry(entryID)
	if day == nil {
		return
	}
	out := cloneDay(day)
	meal := &out.Meals[mi]
	meal.Entries[ei].SortOrder = newOrder
	renumberEntries(meal.Entries)
	t.cache.CacheDay(date, out)
	t.notifyDay(date)
}

// DeleteEntry removes an entry and subtracts its macros from the meal
// subtotal and day totals.
func (t *Tracker) DeleteEntry(ctx context.Context, entryID int64) error {
	if t.online() {
		if err := t.remote.DeleteEntry(ctx, entryID); err != nil {
			return err
		}
		t.dropEntryFromCache(entryID)
		return nil
	}
	t.dropEntryFromCache(entryID)
	t.cache.Enqueue(&model.DeleteEntryOp{EntryID: entryID})
	return nil
}

func (t *Tracker) dropEntryFromCache(entryID int64) {
	date, day, mi, ei := t.locateEntry(entryID)
	if day == nil {
		return
	}
	out := cloneDay(day)
	meal := &out.Meals[mi]
	removed := meal.Entries[ei]
	meal.Entries = append(meal.Entries[:ei], meal.Entries[ei+1:]...)
	m := entryMacros(removed)
	applyDelta(out, meal.ID, model.MacroTotals{Kcal: -m.Kcal, Protein: -m.Protein, Fat: -m.Fat, Carb: -m.Carb})
	t.cache.CacheDay(date, out)
	t.notifyDay(date)
}

// patchEntryInCache applies fn to the matching entry on a cloned day and
// folds the returned delta into the meal subtotal and day totals.
func (t *Tracker) patchEntryInCache(entryID int64, fn func(*model.Entry) model.MacroTotals) {
	date, day, mi, ei := t.locateEntry(entryID)
	if day == nil {
		return
	}
	out := cloneDay(day)
	meal := &out.Meals[mi]
	delta := fn(&meal.Entries[ei])
	applyDelta(out, meal.ID, delta)
	t.cache.CacheDay(date, out)
	t.notifyDay(date)
}

// dayWithMeal finds the cached day holding the given meal.
func (t *Tracker) dayWithMeal(mealID int64) (string, *model.DayFull) {
	st := t.cache.LoadStore()
	for date, day := range st.Days {
		if findMeal(day, mealID) != nil {
			return date, day
		}
	}
	return "", nil
}

// locateEntry finds the cached day, meal index and entry index for entryID.
func (t *Tracker) locateEntry(entryID int64) (string, *model.DayFull, int, int) {
	st := t.cache.LoadStore()
	for date, day := range st.Days {
		for mi := range day.Meals {
			for ei := range day.Meals[mi].Entries {
				if day.Meals[mi].Entries[ei].ID == entryID {
					return date, day, mi, ei
				}
			}
		}
	}
	return "", nil, -1, -1
}
