package tracker

import (
	"context"
	"fmt"

	"github.com/lfmelo/macrod/internal/model"
)

// GetDayFull returns the day snapshot, from the server when online (also
// refreshing the cache) or from the cache when offline. A nil day with nil
// error means nothing is cached for that date.
func (t *Tracker) GetDayFull(ctx context.Context, date string) (*model.DayFull, error) {
	if !t.online() {
		return t.cache.CachedDay(date), nil
	}
	day, err := t.remote.GetDayFull(ctx, date)
	if err != nil {
		return nil, err
	}
	t.cache.CacheDay(date, day)
	t.notifyDay(date)
	return day, nil
}

// CreateMeal adds a meal to date. Offline it synthesizes the meal locally
// under a temp ID and queues the creation for replay.
func (t *Tracker) CreateMeal(ctx context.Context, date string) (*model.Meal, error) {
	if t.online() {
		meal, err := t.remote.CreateMeal(ctx, date)
		if err != nil {
			return nil, err
		}
		if day := t.cache.CachedDay(date); day != nil {
			out := cloneDay(day)
			out.Meals = append(out.Meals, *meal)
			t.cache.CacheDay(date, out)
		}
		t.notifyDay(date)
		return meal, nil
	}

	day := t.cache.CachedDay(date)
	if day == nil {
		day = &model.DayFull{Date: date}
	} else {
		day = cloneDay(day)
	}
	id := t.cache.NextTempID()
	meal := model.Meal{
		ID:        id,
		Name:      fmt.Sprintf("Meal %d", len(day.Meals)+1),
		Date:      date,
		SortOrder: len(day.Meals),
		Entries:   []model.Entry{},
	}
	day.Meals = append(day.Meals, meal)
	t.cache.CacheDay(date, day)
	t.cache.Enqueue(&model.CreateMealOp{Date: date, TempID: id})
	t.notifyDay(date)
	return &meal, nil
}

// DeleteMeal removes a meal. The meal is dropped from every cached day,
// since offline edits may have left it on a date the caller does not know.
func (t *Tracker) DeleteMeal(ctx context.Context, mealID int64) error {
	if t.online() {
		if err := t.remote.DeleteMeal(ctx, mealID); err != nil {
			return err
		}
		t.dropMealFromCache(mealID)
		return nil
	}
	t.dropMealFromCache(mealID)
	t.cache.Enqueue(&model.DeleteMealOp{MealID: mealID})
	return nil
}

func (t *Tracker) dropMealFromCache(mealID int64) {
	st := t.cache.LoadStore()
	for date, day := range st.Days {
		for i := range day.Meals {
			if day.Meals[i].ID != mealID {
				continue
			}
			out := cloneDay(day)
			removed := out.Meals[i]
			out.Meals = append(out.Meals[:i], out.Meals[i+1:]...)
			out.Totals = subTotals(out.Totals, removed.Subtotal)
			t.cache.CacheDay(date, out)
			t.notifyDay(date)
			break
		}
	}
}

// UpdateMeal renames or reorders a meal, shallow-merging the patch into the
// matching meal in every cached day.
func (t *Tracker) UpdateMeal(ctx context.Context, mealID int64, patch model.MealPatch) error {
	if t.online() {
		if err := t.remote.UpdateMeal(ctx, mealID, patch); err != nil {
			return err
		}
		t.patchMealInCache(mealID, patch)
		return nil
	}
	t.patchMealInCache(mealID, patch)
	t.cache.Enqueue(&model.UpdateMealOp{MealID: mealID, Data: patch})
	return nil
}

func (t *Tracker) patchMealInCache(mealID int64, patch model.MealPatch) {
	st := t.cache.LoadStore()
	for date, day := range st.Days {
		for i := range day.Meals {
			if day.Meals[i].ID != mealID {
				continue
			}
			out := cloneDay(day)
			if patch.Name != nil {
				out.Meals[i].Name = *patch.Name
			}
			if patch.SortOrder != nil {
				out.Meals[i].SortOrder = *patch.SortOrder
			}
			t.cache.CacheDay(date, out)
			t.notifyDay(date)
			break
		}
	}
}

// CopyMealTo copies a meal's entries onto another date. Requires
// connectivity; the copy is materialized server-side.
func (t *Tracker) CopyMealTo(ctx context.Context, mealID int64, date, mealName string) error {
	if !t.online() {
		return ErrOffline
	}
	if err := t.remote.CopyMealTo(ctx, mealID, date, mealName); err != nil {
		return err
	}
	// Refresh the target date so the cache reflects the server-side copy.
	if day, err := t.remote.GetDayFull(ctx, date); err == nil {
		t.cache.CacheDay(date, day)
		t.notifyDay(date)
	}
	return nil
}
