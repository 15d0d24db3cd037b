// Package cache owns the single persisted offline blob: cached day
// snapshots, the personal food list, weight and water readings, the pending
// mutation queue, and the temp-ID counter. Every mutator persists before
// returning, so a process killed mid-operation recovers the latest
// committed state on the next load.
package cache

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/lfmelo/macrod/internal/bus"
	"github.com/lfmelo/macrod/internal/model"
	"github.com/lfmelo/macrod/internal/storage"
	"go.uber.org/zap"
)

// StoreKey is the single slot in the storage backend holding the blob.
const StoreKey = "offline-cache"

// Defaults for the retention and bounding policy.
const (
	DefaultRetentionDays = 30
	DefaultMaxCachedDays = 100
	DefaultMaxQueue      = 100
)

// State is the persisted offline blob. Timestamps are epoch millis of the
// last cache write and drive retention.
type State struct {
	Days             map[string]*model.DayFull `json:"days"`
	DayTimestamps    map[string]int64          `json:"dayTimestamps"`
	Foods            []model.SimpleFood        `json:"foods"`
	FoodsTimestamp   int64                     `json:"foodsTimestamp"`
	Weights          map[string]float64        `json:"weights"`
	WeightTimestamps map[string]int64          `json:"weightTimestamps"`
	Waters           map[string]float64        `json:"waters"`
	WaterTimestamps  map[string]int64          `json:"waterTimestamps"`
	Queue            model.Queue               `json:"queue"`
	NextID           int64                     `json:"nextId"`
}

// Options tune the retention and bounding policy. Zero values pick defaults.
type Options struct {
	Retention     time.Duration
	MaxCachedDays int
	MaxQueue      int
	Now           func() time.Time
}

// Store serializes access to the blob. All operations are load-modify-save
// against the backend, one at a time.
type Store struct {
	mu     sync.Mutex
	port   storage.Port
	bus    *bus.Bus
	logger *zap.Logger

	retention time.Duration
	maxDays   int
	maxQueue  int
	now       func() time.Time
}

// NewStore creates a cache store on top of the given backend. The bus may
// be nil; queue-size notifications are then skipped.
func NewStore(port storage.Port, b *bus.Bus, logger *zap.Logger, opts Options) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		port:      port,
		bus:       b,
		logger:    logger,
		retention: opts.Retention,
		maxDays:   opts.MaxCachedDays,
		maxQueue:  opts.MaxQueue,
		now:       opts.Now,
	}
	if s.retention == 0 {
		s.retention = DefaultRetentionDays * 24 * time.Hour
	}
	if s.maxDays == 0 {
		s.maxDays = DefaultMaxCachedDays
	}
	if s.maxQueue == 0 {
		s.maxQueue = DefaultMaxQueue
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func defaultState() *State {
	return &State{
		Days:             map[string]*model.DayFull{},
		DayTimestamps:    map[string]int64{},
		Foods:            nil,
		Weights:          map[string]float64{},
		WeightTimestamps: map[string]int64{},
		Waters:           map[string]float64{},
		WaterTimestamps:  map[string]int64{},
		Queue:            model.Queue{},
		NextID:           0,
	}
}

// normalize merges a decoded blob with defaults field by field, so blobs
// written by older versions gain newly introduced fields on load.
func normalize(s *State) {
	if s.Days == nil {
		s.Days = map[string]*model.DayFull{}
	}
	if s.DayTimestamps == nil {
		s.DayTimestamps = map[string]int64{}
	}
	if s.Weights == nil {
		s.Weights = map[string]float64{}
	}
	if s.WeightTimestamps == nil {
		s.WeightTimestamps = map[string]int64{}
	}
	if s.Waters == nil {
		s.Waters = map[string]float64{}
	}
	if s.WaterTimestamps == nil {
		s.WaterTimestamps = map[string]int64{}
	}
	if s.Queue == nil {
		s.Queue = model.Queue{}
	}
	// The counter only ever decrements; anything positive is corrupt.
	if s.NextID > 0 {
		s.NextID = 0
	}
}

// load reads and decodes the blob. A missing key or malformed content falls
// back to defaults; this path must never fail.
func (s *Store) load() *State {
	raw, ok := s.port.Load(StoreKey)
	if !ok {
		return defaultState()
	}
	st := &State{}
	if err := json.Unmarshal(raw, st); err != nil {
		s.logger.Warn("offline blob corrupt, starting from defaults", zap.Error(err))
		return defaultState()
	}
	normalize(st)
	return st
}

func (s *Store) persist(st *State) {
	raw, err := json.Marshal(st)
	if err != nil {
		s.logger.Error("encode offline blob", zap.Error(err))
		return
	}
	s.port.Save(StoreKey, raw)
}

func (s *Store) emitQueueSize(n int) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(bus.Event{Kind: bus.KindQueueSizeChanged, Timestamp: s.now(), Payload: n})
}

// LoadStore loads the blob, applies the retention pass, persists the purged
// result and returns it. Reads triggering a write-back of purged state keeps
// the blob bounded even if sync never runs.
func (s *Store) LoadStore() *State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.load()
	s.evict(st)
	s.persist(st)
	return st
}

// SaveStore persists the full blob and announces the current queue size.
// The sync engine calls this after every step that changes queue length.
func (s *Store) SaveStore(st *State) {
	s.mu.Lock()
	s.persist(st)
	s.mu.Unlock()
	s.emitQueueSize(len(st.Queue))
}

// Update runs fn against the current blob and persists the result. Used by
// the façade for optimistic local applies; the matching Enqueue call comes
// after, never before.
func (s *Store) Update(fn func(*State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.load()
	fn(st)
	s.persist(st)
}

// QueueSize reports the number of pending operations.
func (s *Store) QueueSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.load().Queue)
}

// NextTempID issues the next client-side placeholder ID. IDs are strictly
// negative, starting at -1, and never reused.
func (s *Store) NextTempID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.load()
	st.NextID--
	s.persist(st)
	return st.NextID
}

// Enqueue appends op to the pending queue, dropping from the front when the
// bound is exceeded. Availability wins over completeness of a stale backlog.
func (s *Store) Enqueue(op model.Op) {
	s.mu.Lock()
	st := s.load()
	st.Queue = append(st.Queue, op)
	if n := len(st.Queue) - s.maxQueue; n > 0 {
		st.Queue = st.Queue[n:]
	}
	s.persist(st)
	size := len(st.Queue)
	s.mu.Unlock()
	s.emitQueueSize(size)
}

// CacheDay stores a day snapshot and stamps its retention timestamp.
func (s *Store) CacheDay(date string, day *model.DayFull) {
	s.Update(func(st *State) {
		st.Days[date] = day
		st.DayTimestamps[date] = s.now().UnixMilli()
	})
}

// CachedDay returns the cached snapshot for date, or nil.
func (s *Store) CachedDay(date string) *model.DayFull {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load().Days[date]
}

// CacheFoods replaces the cached personal food list.
func (s *Store) CacheFoods(foods []model.SimpleFood) {
	s.Update(func(st *State) {
		st.Foods = foods
		st.FoodsTimestamp = s.now().UnixMilli()
	})
}

// CachedFoods returns the cached personal food list, possibly empty.
func (s *Store) CachedFoods() []model.SimpleFood {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load().Foods
}

// CacheWeight stores a body weight reading for date.
func (s *Store) CacheWeight(date string, weight float64) {
	s.Update(func(st *State) {
		st.Weights[date] = weight
		st.WeightTimestamps[date] = s.now().UnixMilli()
	})
}

// CachedWeight returns the cached weight for date.
func (s *Store) CachedWeight(date string) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.load().Weights[date]
	return w, ok
}

// DropWeight removes any cached weight reading for date.
func (s *Store) DropWeight(date string) {
	s.Update(func(st *State) {
		delete(st.Weights, date)
		delete(st.WeightTimestamps, date)
	})
}

// CacheWater stores a water volume (ml) for date.
func (s *Store) CacheWater(date string, ml float64) {
	s.Update(func(st *State) {
		st.Waters[date] = ml
		st.WaterTimestamps[date] = s.now().UnixMilli()
	})
}

// CachedWater returns the cached water volume for date.
func (s *Store) CachedWater(date string) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.load().Waters[date]
	return w, ok
}

// DropWater removes any cached water volume for date.
func (s *Store) DropWater(date string) {
	s.Update(func(st *State) {
		delete(st.Waters, date)
		delete(st.WaterTimestamps, date)
	})
}
