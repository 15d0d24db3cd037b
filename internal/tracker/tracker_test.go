package tracker

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/lfmelo/macrod/internal/cache"
	"github.com/lfmelo/macrod/internal/model"
	"github.com/lfmelo/macrod/internal/storage"
)

type staticChecker bool

func (c staticChecker) Online() bool { return bool(c) }

// mockRemote overrides the methods a test needs; calling anything else
// panics through the embedded nil interface, which is the failure we want.
type mockRemote struct {
	Remote

	createMeal  func(date string) (*model.Meal, error)
	createEntry func(mealID, fdcID int64, quantityG float64) (*model.Entry, error)
	updateQty   func(entryID int64, quantityG float64) error
	updateOrder func(entryID int64, sortOrder int) error
	deleteEntry func(entryID int64) error
	weight      func(date string) (float64, bool, error)
}

func (m *mockRemote) CreateMeal(_ context.Context, date string) (*model.Meal, error) {
	return m.createMeal(date)
}

func (m *mockRemote) CreateEntry(_ context.Context, mealID, fdcID int64, quantityG float64) (*model.Entry, error) {
	return m.createEntry(mealID, fdcID, quantityG)
}

func (m *mockRemote) UpdateEntryQuantity(_ context.Context, entryID int64, quantityG float64) error {
	return m.updateQty(entryID, quantityG)
}

func (m *mockRemote) UpdateEntrySortOrder(_ context.Context, entryID int64, sortOrder int) error {
	return m.updateOrder(entryID, sortOrder)
}

func (m *mockRemote) DeleteEntry(_ context.Context, entryID int64) error {
	return m.deleteEntry(entryID)
}

func (m *mockRemote) Weight(_ context.Context, date string) (float64, bool, error) {
	return m.weight(date)
}

func newTestTracker(t *testing.T, remote Remote, online bool) (*Tracker, *cache.Store) {
	t.Helper()
	c := cache.NewStore(storage.NewMemory(), nil, nil, cache.Options{})
	return New(remote, staticChecker(online), c, nil, nil), c
}

func seedDay(c *cache.Store) {
	c.CacheDay("2024-06-01", &model.DayFull{
		Date: "2024-06-01",
		Meals: []model.Meal{{
			ID: 1, Name: "Breakfast", Date: "2024-06-01", SortOrder: 1,
			Entries: []model.Entry{{
				ID: 10, Description: "oats", QuantityG: 100,
				Kcal: 200, Protein: 10, Fat: 5, Carb: 25, SortOrder: 1,
			}},
			Subtotal: model.MacroTotals{Kcal: 200, Protein: 10, Fat: 5, Carb: 25},
		}},
		Totals: model.MacroTotals{Kcal: 200, Protein: 10, Fat: 5, Carb: 25},
	})
}

func TestOfflineCreateMealThenAddEntry(t *testing.T) {
	tr, c := newTestTracker(t, nil, false)

	meal, err := tr.CreateMeal(context.Background(), "2024-01-01")
	if err != nil {
		t.Fatal(err)
	}
	if meal.ID != -1 {
		t.Errorf("meal ID = %d, want -1", meal.ID)
	}
	if meal.Name != "Meal 1" || meal.SortOrder != 0 {
		t.Errorf("meal = %+v", meal)
	}

	entry, err := tr.AddEntry(context.Background(), meal.ID, 100, 50)
	if err != nil {
		t.Fatal(err)
	}
	if entry.ID != -2 {
		t.Errorf("entry ID = %d, want -2", entry.ID)
	}

	st := c.LoadStore()
	if len(st.Queue) != 2 {
		t.Fatalf("queue length = %d, want 2", len(st.Queue))
	}
	if _, ok := st.Queue[0].(*model.CreateMealOp); !ok {
		t.Errorf("queue[0] = %T, want *model.CreateMealOp", st.Queue[0])
	}
	add, ok := st.Queue[1].(*model.AddEntryOp)
	if !ok {
		t.Fatalf("queue[1] = %T, want *model.AddEntryOp", st.Queue[1])
	}
	if add.MealID != -1 || add.FdcID != 100 || add.QuantityG != 50 || add.TempID != -2 {
		t.Errorf("addEntry op = %+v", add)
	}
}

func TestOfflineAddEntryHasZeroMacros(t *testing.T) {
	tr, c := newTestTracker(t, nil, false)
	seedDay(c)

	entry, err := tr.AddEntry(context.Background(), 1, 100, 50)
	if err != nil {
		t.Fatal(err)
	}
	// Nutrition lookup needs the network; the placeholder carries no macros
	// until the queued op syncs.
	if entry.Kcal != 0 || entry.Protein != 0 || entry.Fat != 0 || entry.Carb != 0 {
		t.Errorf("placeholder entry carries macros: %+v", entry)
	}
	if entry.Description != "" {
		t.Errorf("description = %q, want empty", entry.Description)
	}
	if entry.SortOrder != 1 {
		t.Errorf("sort_order = %d, want 1 (appended after one existing entry)", entry.SortOrder)
	}

	day := c.CachedDay("2024-06-01")
	if got := day.Totals.Kcal; got != 200 {
		t.Errorf("day totals changed by zero-macro add: kcal = %v", got)
	}
}

func TestOfflineUpdateEntryKeepsMacros(t *testing.T) {
	tr, c := newTestTracker(t, nil, false)
	seedDay(c)
	before := c.CachedDay("2024-06-01")

	if err := tr.UpdateEntry(context.Background(), 10, 150); err != nil {
		t.Fatal(err)
	}

	after := c.CachedDay("2024-06-01")
	e := after.Meals[0].Entries[0]
	if e.QuantityG != 150 {
		t.Errorf("quantity = %v, want 150", e.QuantityG)
	}
	if e.Kcal != 200 {
		t.Errorf("kcal = %v, want 200 (offline update must not rescale)", e.Kcal)
	}
	if after.Totals.Kcal != 200 {
		t.Errorf("totals kcal = %v, want 200", after.Totals.Kcal)
	}
	// The apply went through a clone: the snapshot held before the update
	// still shows the old quantity.
	if before.Meals[0].Entries[0].QuantityG != 100 {
		t.Error("earlier snapshot was mutated in place")
	}

	st := c.LoadStore()
	if len(st.Queue) != 1 {
		t.Fatalf("queue length = %d, want 1", len(st.Queue))
	}
	op := st.Queue[0].(*model.UpdateEntryOp)
	if op.EntryID != 10 || op.NewGrams != 150 {
		t.Errorf("op = %+v", op)
	}
}

func TestOnlineUpdateEntryRescales(t *testing.T) {
	remote := &mockRemote{updateQty: func(int64, float64) error { return nil }}
	tr, c := newTestTracker(t, remote, true)
	seedDay(c)

	if err := tr.UpdateEntry(context.Background(), 10, 150); err != nil {
		t.Fatal(err)
	}

	day := c.CachedDay("2024-06-01")
	e := day.Meals[0].Entries[0]
	if e.Kcal != 300 || e.Protein != 15 || e.Fat != 7.5 || e.Carb != 37.5 {
		t.Errorf("entry macros = %+v, want 1.5x", e)
	}
	if day.Meals[0].Subtotal.Kcal != 300 || day.Totals.Kcal != 300 {
		t.Errorf("subtotal %v totals %v, want 300", day.Meals[0].Subtotal.Kcal, day.Totals.Kcal)
	}
}

func TestTotalsConsistency(t *testing.T) {
	remote := &mockRemote{
		createEntry: func(mealID, fdcID int64, quantityG float64) (*model.Entry, error) {
			return &model.Entry{
				ID: 11, QuantityG: quantityG,
				Kcal: 123.45, Protein: 6.78, Fat: 9.01, Carb: 23.45, SortOrder: 2,
			}, nil
		},
		updateQty:   func(int64, float64) error { return nil },
		updateOrder: func(int64, int) error { return nil },
		deleteEntry: func(int64) error { return nil },
	}
	tr, c := newTestTracker(t, remote, true)
	seedDay(c)

	check := func(step string) {
		t.Helper()
		day := c.CachedDay("2024-06-01")
		var sum model.MacroTotals
		for _, m := range day.Meals {
			sum = addTotals(sum, m.Subtotal)
		}
		for name, pair := range map[string][2]float64{
			"kcal":    {day.Totals.Kcal, sum.Kcal},
			"protein": {day.Totals.Protein, sum.Protein},
			"fat":     {day.Totals.Fat, sum.Fat},
			"carb":    {day.Totals.Carb, sum.Carb},
		} {
			if math.Abs(pair[0]-pair[1]) > 0.01 {
				t.Errorf("%s: totals %s = %v, subtotal sum = %v", step, name, pair[0], pair[1])
			}
		}
	}

	ctx := context.Background()
	if _, err := tr.AddEntry(ctx, 1, 200, 80); err != nil {
		t.Fatal(err)
	}
	check("add")
	if err := tr.UpdateEntry(ctx, 11, 120); err != nil {
		t.Fatal(err)
	}
	check("update")
	if err := tr.MoveEntry(ctx, 11, 1); err != nil {
		t.Fatal(err)
	}
	check("move")
	if err := tr.DeleteEntry(ctx, 10); err != nil {
		t.Fatal(err)
	}
	check("delete")
}

func TestMoveEntryRenumbersDense(t *testing.T) {
	remote := &mockRemote{updateOrder: func(int64, int) error { return nil }}
	tr, c := newTestTracker(t, remote, true)
	c.CacheDay("2024-06-01", &model.DayFull{
		Date: "2024-06-01",
		Meals: []model.Meal{{
			ID: 1,
			Entries: []model.Entry{
				{ID: 10, SortOrder: 1},
				{ID: 11, SortOrder: 5},
				{ID: 12, SortOrder: 9},
			},
		}},
	})

	if err := tr.MoveEntry(context.Background(), 12, 0); err != nil {
		t.Fatal(err)
	}

	entries := c.CachedDay("2024-06-01").Meals[0].Entries
	if entries[0].ID != 12 {
		t.Errorf("head entry = %d, want 12", entries[0].ID)
	}
	for i, e := range entries {
		if e.SortOrder != i+1 {
			t.Errorf("entry %d sort_order = %d, want %d", e.ID, e.SortOrder, i+1)
		}
	}
}

func TestDeleteMealSubtractsSubtotal(t *testing.T) {
	tr, c := newTestTracker(t, nil, false)
	seedDay(c)

	if err := tr.DeleteMeal(context.Background(), 1); err != nil {
		t.Fatal(err)
	}

	day := c.CachedDay("2024-06-01")
	if len(day.Meals) != 0 {
		t.Fatalf("meals = %d, want 0", len(day.Meals))
	}
	if day.Totals != (model.MacroTotals{}) {
		t.Errorf("totals = %+v, want zeros", day.Totals)
	}
}

func TestWeightDegradesToAbsent(t *testing.T) {
	remote := &mockRemote{weight: func(string) (float64, bool, error) {
		return 0, false, errors.New("gateway timeout")
	}}
	tr, _ := newTestTracker(t, remote, true)

	if _, ok := tr.Weight(context.Background(), "2024-06-01"); ok {
		t.Error("transient lookup failure should read as not-set")
	}
}

func TestWeightAbsenceClearsCache(t *testing.T) {
	remote := &mockRemote{weight: func(string) (float64, bool, error) {
		return 0, false, nil
	}}
	tr, c := newTestTracker(t, remote, true)
	c.CacheWeight("2024-06-01", 80)

	// The server confirms there is no reading for the date.
	if _, ok := tr.Weight(context.Background(), "2024-06-01"); ok {
		t.Fatal("confirmed absence read as set")
	}

	// A later offline read must not resurrect the stale cached value.
	if w, ok := c.CachedWeight("2024-06-01"); ok {
		t.Errorf("stale cached weight %v survived a confirmed absence", w)
	}
}

func TestOfflineOnlyOperations(t *testing.T) {
	tr, _ := newTestTracker(t, nil, false)
	ctx := context.Background()

	if _, err := tr.SearchFoods(ctx, "oats", ""); !errors.Is(err, ErrOffline) {
		t.Errorf("SearchFoods err = %v, want ErrOffline", err)
	}
	if _, err := tr.Presets(ctx); !errors.Is(err, ErrOffline) {
		t.Errorf("Presets err = %v, want ErrOffline", err)
	}
	if err := tr.CopyMealTo(ctx, 1, "2024-06-02", "Lunch"); !errors.Is(err, ErrOffline) {
		t.Errorf("CopyMealTo err = %v, want ErrOffline", err)
	}
	if _, err := tr.History(ctx, "2024-05-01", "2024-06-01"); !errors.Is(err, ErrOffline) {
		t.Errorf("History err = %v, want ErrOffline", err)
	}
}

func TestOfflineMyFoodsReadsCache(t *testing.T) {
	tr, c := newTestTracker(t, nil, false)
	c.CacheFoods([]model.SimpleFood{{FdcID: 1, Description: "oats"}})

	foods, err := tr.MyFoods(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(foods) != 1 || foods[0].FdcID != 1 {
		t.Errorf("foods = %+v", foods)
	}
}
