// Package tracker is the connectivity-aware façade over the remote API and
// the offline cache. Every state-changing call branches on connectivity:
// online calls hit the server and refresh the cache, offline calls apply the
// effect locally, allocate temp IDs for new entities and queue the operation
// for replay.
package tracker

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/lfmelo/macrod/internal/bus"
	"github.com/lfmelo/macrod/internal/cache"
	"github.com/lfmelo/macrod/internal/model"
	"go.uber.org/zap"
)

// ErrOffline is returned by operations that have no offline fallback.
var ErrOffline = errors.New("tracker: operation requires connectivity")

// Checker reports current connectivity. The façade re-reads it on every call.
type Checker interface {
	Online() bool
}

// Remote is the server surface the façade consumes.
type Remote interface {
	GetDayFull(ctx context.Context, date string) (*model.DayFull, error)

	CreateMeal(ctx context.Context, date string) (*model.Meal, error)
	UpdateMeal(ctx context.Context, mealID int64, patch model.MealPatch) error
	DeleteMeal(ctx context.Context, mealID int64) error
	CopyMealTo(ctx context.Context, mealID int64, date, mealName string) error

	CreateEntry(ctx context.Context, mealID, fdcID int64, quantityG float64) (*model.Entry, error)
	UpdateEntryQuantity(ctx context.Context, entryID int64, quantityG float64) error
	UpdateEntrySortOrder(ctx context.Context, entryID int64, sortOrder int) error
	DeleteEntry(ctx context.Context, entryID int64) error

	Weight(ctx context.Context, date string) (float64, bool, error)
	PutWeight(ctx context.Context, date string, weight float64) error
	Water(ctx context.Context, date string) (float64, bool, error)
	PutWater(ctx context.Context, date string, ml float64) error

	SearchFoods(ctx context.Context, query, dataType string) ([]model.SimpleFood, error)
	Food(ctx context.Context, fdcID int64) (*model.Food, error)
	MyFoods(ctx context.Context) ([]model.SimpleFood, error)
	CreateCustomFood(ctx context.Context, food model.Food) (*model.Food, error)
	DeleteCustomFood(ctx context.Context, fdcID int64) error
	ArchiveCustomFood(ctx context.Context, fdcID int64) error

	Presets(ctx context.Context) ([]model.Preset, error)
	CreatePresetFromMeal(ctx context.Context, name, date, mealName string) (*model.Preset, error)
	ApplyPreset(ctx context.Context, presetID int64, date, mealName string, multiplier float64) error
	DeletePreset(ctx context.Context, presetID int64) error

	History(ctx context.Context, startDate, endDate string) ([]model.HistoryDay, error)
	ExportCSV(ctx context.Context, startDate, endDate string, w io.Writer) error

	UsdaKey(ctx context.Context) (string, error)
	SetUsdaKey(ctx context.Context, key string) error
}

// Tracker routes operations between the remote API and the offline cache.
type Tracker struct {
	remote  Remote
	checker Checker
	cache   *cache.Store
	bus     *bus.Bus
	logger  *zap.Logger
}

// New creates the façade. The bus may be nil; day-updated notifications are
// then skipped.
func New(remote Remote, checker Checker, c *cache.Store, b *bus.Bus, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{
		remote:  remote,
		checker: checker,
		cache:   c,
		bus:     b,
		logger:  logger,
	}
}

func (t *Tracker) online() bool {
	return t.checker.Online()
}

func (t *Tracker) notifyDay(date string) {
	if t.bus == nil {
		return
	}
	t.bus.Publish(bus.Event{Kind: bus.KindDayUpdated, Timestamp: time.Now(), Payload: date})
}
