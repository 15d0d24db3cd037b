// Package sync drains the offline mutation queue against the remote API.
// The queue is replayed strictly in insertion order; the first failure
// freezes it so operations that depend on earlier creations never run
// against a missing dependency.
package sync

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/lfmelo/macrod/internal/bus"
	"github.com/lfmelo/macrod/internal/cache"
	"github.com/lfmelo/macrod/internal/model"
	"go.uber.org/zap"
)

// Checker reports current connectivity.
type Checker interface {
	Online() bool
}

// Remote is the server surface the engine replays operations against.
type Remote interface {
	CreateMeal(ctx context.Context, date string) (*model.Meal, error)
	UpdateMeal(ctx context.Context, mealID int64, patch model.MealPatch) error
	DeleteMeal(ctx context.Context, mealID int64) error
	CreateEntry(ctx context.Context, mealID, fdcID int64, quantityG float64) (*model.Entry, error)
	UpdateEntryQuantity(ctx context.Context, entryID int64, quantityG float64) error
	UpdateEntrySortOrder(ctx context.Context, entryID int64, sortOrder int) error
	DeleteEntry(ctx context.Context, entryID int64) error
	PutWeight(ctx context.Context, date string, weight float64) error
	PutWater(ctx context.Context, date string, ml float64) error
}

// Engine replays queued offline operations.
type Engine struct {
	remote  Remote
	checker Checker
	cache   *cache.Store
	bus     *bus.Bus
	logger  *zap.Logger

	syncing atomic.Bool
}

// NewEngine creates a sync engine. The bus may be nil.
func NewEngine(remote Remote, checker Checker, c *cache.Store, b *bus.Bus, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		remote:  remote,
		checker: checker,
		cache:   c,
		bus:     b,
		logger:  logger,
	}
}

func (e *Engine) publish(kind string, payload any) {
	if e.bus == nil {
		return
	}
	e.bus.Publish(bus.Event{Kind: kind, Timestamp: time.Now(), Payload: payload})
}

// SyncQueue drains the pending queue FIFO. It re-checks connectivity (the
// caller-side check races with the online event) and refuses to run twice
// concurrently. Each successful op is persisted before the next is tried;
// the first failure requeues the op at the head and aborts the pass.
func (e *Engine) SyncQueue(ctx context.Context) error {
	if !e.checker.Online() {
		return nil
	}
	if !e.syncing.CompareAndSwap(false, true) {
		return nil
	}
	defer e.syncing.Store(false)

	st := e.cache.LoadStore()
	if len(st.Queue) == 0 {
		return nil
	}

	e.publish(bus.KindSyncStarted, len(st.Queue))
	e.logger.Info("sync pass started", zap.Int("pending", len(st.Queue)))

	// Temp IDs assigned offline map to real IDs as creations succeed
	// within this pass. The map is not persisted: ops left in the queue
	// after an abort still reference temp IDs whose creations also remain
	// queued ahead of them.
	idMap := make(map[int64]int64)
	synced := 0

	for len(st.Queue) > 0 {
		op := st.Queue[0]
		st.Queue = st.Queue[1:]

		if err := e.dispatch(ctx, st, idMap, op); err != nil {
			st.Queue = append(model.Queue{op}, st.Queue...)
			e.cache.SaveStore(st)
			e.logger.Warn("sync pass aborted",
				zap.String("op", string(op.Kind())),
				zap.Int("remaining", len(st.Queue)),
				zap.Error(err))
			e.publish(bus.KindSyncBlocked, err.Error())
			return fmt.Errorf("sync %s: %w", op.Kind(), err)
		}

		synced++
		e.cache.SaveStore(st)
	}

	e.logger.Info("sync pass completed", zap.Int("synced", synced))
	e.publish(bus.KindSyncCompleted, synced)
	return nil
}

// resolve maps a possibly-temporary ID through idMap, falling back to the
// literal value when no mapping exists.
func resolve(idMap map[int64]int64, id int64) int64 {
	if real, ok := idMap[id]; ok {
		return real
	}
	return id
}

func (e *Engine) dispatch(ctx context.Context, st *cache.State, idMap map[int64]int64, op model.Op) error {
	switch op := op.(type) {
	case *model.CreateMealOp:
		meal, err := e.remote.CreateMeal(ctx, op.Date)
		if err != nil {
			return err
		}
		idMap[op.TempID] = meal.ID
		rewriteMealID(st, op.TempID, meal.ID)
		return nil

	case *model.DeleteMealOp:
		return e.remote.DeleteMeal(ctx, resolve(idMap, op.MealID))

	case *model.UpdateMealOp:
		return e.remote.UpdateMeal(ctx, resolve(idMap, op.MealID), op.Data)

	case *model.AddEntryOp:
		entry, err := e.remote.CreateEntry(ctx, resolve(idMap, op.MealID), op.FdcID, op.QuantityG)
		if err != nil {
			return err
		}
		idMap[op.TempID] = entry.ID
		rewriteEntry(st, op.TempID, entry)
		return nil

	case *model.UpdateEntryOp:
		return e.remote.UpdateEntryQuantity(ctx, resolve(idMap, op.EntryID), op.NewGrams)

	case *model.MoveEntryOp:
		return e.remote.UpdateEntrySortOrder(ctx, resolve(idMap, op.EntryID), op.NewOrder)

	case *model.DeleteEntryOp:
		return e.remote.DeleteEntry(ctx, resolve(idMap, op.EntryID))

	case *model.SetWeightOp:
		return e.remote.PutWeight(ctx, op.Date, op.Weight)

	case *model.SetWaterOp:
		return e.remote.PutWater(ctx, op.Date, op.Water)

	default:
		// Unknown ops cannot be replayed; dropping one is better than
		// wedging the queue forever.
		e.logger.Error("dropping unreplayable op", zap.String("kind", string(op.Kind())))
		return nil
	}
}

// rewriteMealID swaps a placeholder meal ID for the server-assigned one in
// every cached day, so later ops in this pass and subsequent reads see the
// real ID without a refetch.
func rewriteMealID(st *cache.State, tempID, realID int64) {
	for _, day := range st.Days {
		for i := range day.Meals {
			if day.Meals[i].ID == tempID {
				day.Meals[i].ID = realID
			}
		}
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// shiftTotals replaces old's contribution to t with the confirmed entry's,
// rounding each field to two decimals.
func shiftTotals(t model.MacroTotals, old model.Entry, confirmed *model.Entry) model.MacroTotals {
	return model.MacroTotals{
		Kcal:    round2(t.Kcal - old.Kcal + confirmed.Kcal),
		Protein: round2(t.Protein - old.Protein + confirmed.Protein),
		Fat:     round2(t.Fat - old.Fat + confirmed.Fat),
		Carb:    round2(t.Carb - old.Carb + confirmed.Carb),
	}
}

// rewriteEntry replaces a placeholder entry with the server-confirmed row,
// which carries the real ID, assigned sort order and computed macros.
func rewriteEntry(st *cache.State, tempID int64, confirmed *model.Entry) {
	for _, day := range st.Days {
		for mi := range day.Meals {
			meal := &day.Meals[mi]
			for ei := range meal.Entries {
				if meal.Entries[ei].ID != tempID {
					continue
				}
				old := meal.Entries[ei]
				meal.Entries[ei] = *confirmed
				// The placeholder carried zero macros; fold the confirmed
				// values into the derived totals.
				meal.Subtotal = shiftTotals(meal.Subtotal, old, confirmed)
				day.Totals = shiftTotals(day.Totals, old, confirmed)
				return
			}
		}
	}
}
