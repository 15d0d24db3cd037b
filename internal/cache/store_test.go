package cache

import (
	"reflect"
	"testing"
	"time"

	"github.com/lfmelo/macrod/internal/bus"
	"github.com/lfmelo/macrod/internal/model"
	"github.com/lfmelo/macrod/internal/storage"
)

func testStore(t *testing.T, opts Options) (*Store, *storage.Memory) {
	t.Helper()
	mem := storage.NewMemory()
	return NewStore(mem, nil, nil, opts), mem
}

func TestQueueDurability(t *testing.T) {
	mem := storage.NewMemory()
	s := NewStore(mem, nil, nil, Options{})

	op := &model.AddEntryOp{MealID: 7, FdcID: 100, QuantityG: 50, TempID: -2}
	s.Enqueue(op)

	// A fresh store over the same backend must see the identical payload.
	s2 := NewStore(mem, nil, nil, Options{})
	st := s2.LoadStore()
	if len(st.Queue) != 1 {
		t.Fatalf("queue length = %d, want 1", len(st.Queue))
	}
	got, ok := st.Queue[0].(*model.AddEntryOp)
	if !ok {
		t.Fatalf("queued op type = %T, want *model.AddEntryOp", st.Queue[0])
	}
	if !reflect.DeepEqual(got, op) {
		t.Errorf("payload = %+v, want %+v", got, op)
	}
}

func TestTempIDMonotonicity(t *testing.T) {
	s, _ := testStore(t, Options{})

	prev := int64(0)
	for i := 0; i < 25; i++ {
		id := s.NextTempID()
		if id >= 0 {
			t.Fatalf("temp ID %d is not negative", id)
		}
		if id >= prev {
			t.Fatalf("temp ID %d not strictly more negative than %d", id, prev)
		}
		prev = id
	}
	if prev != -25 {
		t.Errorf("after 25 allocations counter = %d, want -25", prev)
	}
}

func TestFirstTempIDIsMinusOne(t *testing.T) {
	s, _ := testStore(t, Options{})
	if id := s.NextTempID(); id != -1 {
		t.Errorf("first temp ID = %d, want -1", id)
	}
}

func TestQueueBound(t *testing.T) {
	s, _ := testStore(t, Options{MaxQueue: 100})

	for i := 0; i < 150; i++ {
		s.Enqueue(&model.DeleteEntryOp{EntryID: int64(i)})
	}

	st := s.LoadStore()
	if len(st.Queue) != 100 {
		t.Fatalf("queue length = %d, want 100", len(st.Queue))
	}
	// Oldest 50 dropped; the head must be op #50.
	head := st.Queue[0].(*model.DeleteEntryOp)
	if head.EntryID != 50 {
		t.Errorf("head EntryID = %d, want 50", head.EntryID)
	}
	tail := st.Queue[99].(*model.DeleteEntryOp)
	if tail.EntryID != 149 {
		t.Errorf("tail EntryID = %d, want 149", tail.EntryID)
	}
}

func TestRetentionEvictsStaleDay(t *testing.T) {
	now := time.Now()
	clock := now
	s, _ := testStore(t, Options{Now: func() time.Time { return clock }})

	s.CacheDay("2024-01-01", &model.DayFull{Date: "2024-01-01"})
	s.CacheWeight("2024-01-01", 80)
	s.CacheWater("2024-01-01", 1500)
	s.CacheFoods([]model.SimpleFood{{FdcID: 1, Description: "oats"}})

	// Jump past the retention window.
	clock = now.Add(31 * 24 * time.Hour)
	st := s.LoadStore()

	if st.Days["2024-01-01"] != nil {
		t.Error("stale day survived the retention pass")
	}
	if _, ok := st.Weights["2024-01-01"]; ok {
		t.Error("stale weight survived the retention pass")
	}
	if _, ok := st.Waters["2024-01-01"]; ok {
		t.Error("stale water survived the retention pass")
	}
	if len(st.Foods) != 0 {
		t.Error("stale food list survived the retention pass")
	}
}

func TestRetentionCountCap(t *testing.T) {
	now := time.Now()
	clock := now
	s, _ := testStore(t, Options{MaxCachedDays: 3, Now: func() time.Time { return clock }})

	for i, date := range []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05"} {
		clock = now.Add(time.Duration(i) * time.Minute)
		s.CacheDay(date, &model.DayFull{Date: date})
	}

	st := s.LoadStore()
	if len(st.Days) != 3 {
		t.Fatalf("cached days = %d, want 3", len(st.Days))
	}
	// Oldest-by-timestamp evicted first.
	for _, date := range []string{"2024-01-01", "2024-01-02"} {
		if st.Days[date] != nil {
			t.Errorf("day %s should have been evicted", date)
		}
	}
	for _, date := range []string{"2024-01-03", "2024-01-04", "2024-01-05"} {
		if st.Days[date] == nil {
			t.Errorf("day %s missing", date)
		}
	}
}

func TestCorruptBlobFallsBackToDefaults(t *testing.T) {
	mem := storage.NewMemory()
	mem.Save(StoreKey, []byte("{not json"))
	s := NewStore(mem, nil, nil, Options{})

	st := s.LoadStore()
	if len(st.Queue) != 0 || st.NextID != 0 || len(st.Days) != 0 {
		t.Errorf("corrupt blob did not reset to defaults: %+v", st)
	}
}

func TestUnknownQueuedOpDoesNotWipeBlob(t *testing.T) {
	mem := storage.NewMemory()
	// A blob written by a newer build carrying an op kind this one cannot
	// replay. The rest of the store must survive the decode.
	mem.Save(StoreKey, []byte(`{
		"days":{"2024-01-01":{"date":"2024-01-01"}},
		"queue":[
			{"kind":"teleportMeal","payload":{}},
			{"kind":"deleteMeal","payload":{"mealId":7}}
		],
		"nextId":-3
	}`))
	s := NewStore(mem, nil, nil, Options{})

	st := s.LoadStore()
	if st.Days["2024-01-01"] == nil {
		t.Error("cached day lost decoding a queue with an unknown op kind")
	}
	if st.NextID != -3 {
		t.Errorf("nextId = %d, want -3", st.NextID)
	}
	if len(st.Queue) != 1 {
		t.Fatalf("queue length = %d, want 1 (unknown envelope skipped)", len(st.Queue))
	}
	if op, ok := st.Queue[0].(*model.DeleteMealOp); !ok || op.MealID != 7 {
		t.Errorf("surviving op = %#v, want deleteMeal for meal 7", st.Queue[0])
	}
}

func TestOldBlobGainsNewFields(t *testing.T) {
	mem := storage.NewMemory()
	// A blob written before water tracking and timestamps existed.
	mem.Save(StoreKey, []byte(`{"days":{},"foods":[],"weights":{"2024-01-01":80},"queue":[],"nextId":-4}`))
	s := NewStore(mem, nil, nil, Options{})

	st := s.LoadStore()
	if st.Waters == nil || st.WaterTimestamps == nil || st.DayTimestamps == nil {
		t.Fatal("missing fields were not populated from defaults")
	}
	if st.NextID != -4 {
		t.Errorf("nextId = %d, want -4 (existing counter preserved)", st.NextID)
	}
	if w := st.Weights["2024-01-01"]; w != 80 {
		t.Errorf("weight = %v, want 80", w)
	}
	// Pre-timestamp entries get stamped, not dropped.
	if _, ok := st.WeightTimestamps["2024-01-01"]; !ok {
		t.Error("untimestamped weight was not stamped on load")
	}
}

func TestEnqueueEmitsQueueSize(t *testing.T) {
	b := bus.New()
	s := NewStore(storage.NewMemory(), b, nil, Options{})

	ch, unsub := b.Subscribe("queue.", 10)
	defer unsub()

	s.Enqueue(&model.SetWeightOp{Date: "2024-01-01", Weight: 80})

	select {
	case evt := <-ch:
		if evt.Kind != bus.KindQueueSizeChanged {
			t.Errorf("kind = %q, want %q", evt.Kind, bus.KindQueueSizeChanged)
		}
		if evt.Payload.(int) != 1 {
			t.Errorf("payload = %v, want 1", evt.Payload)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for queue.size_changed")
	}
}

func TestEveryMutatorPersists(t *testing.T) {
	mem := storage.NewMemory()
	s := NewStore(mem, nil, nil, Options{})

	s.CacheWeight("2024-01-01", 79.5)

	// Read through a completely separate store instance: the write must
	// already be durable.
	s2 := NewStore(mem, nil, nil, Options{})
	if w, ok := s2.CachedWeight("2024-01-01"); !ok || w != 79.5 {
		t.Errorf("weight = %v ok=%v, want 79.5 true", w, ok)
	}
}
