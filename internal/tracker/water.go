package tracker

import (
	"context"

	"github.com/lfmelo/macrod/internal/model"
	"go.uber.org/zap"
)

// Water returns the water volume (ml) logged for date, with the same
// degrade-to-absent policy as Weight.
func (t *Tracker) Water(ctx context.Context, date string) (float64, bool) {
	if !t.online() {
		return t.cache.CachedWater(date)
	}
	ml, ok, err := t.remote.Water(ctx, date)
	if err != nil {
		t.logger.Debug("water lookup failed", zap.String("date", date), zap.Error(err))
		return 0, false
	}
	if ok {
		t.cache.CacheWater(date, ml)
	} else {
		t.cache.DropWater(date)
	}
	return ml, ok
}

// SetWater records the water volume for date, queuing the write when offline.
func (t *Tracker) SetWater(ctx context.Context, date string, ml float64) error {
	if t.online() {
		if err := t.remote.PutWater(ctx, date, ml); err != nil {
			return err
		}
		t.cache.CacheWater(date, ml)
		return nil
	}
	t.cache.CacheWater(date, ml)
	t.cache.Enqueue(&model.SetWaterOp{Date: date, Water: ml})
	return nil
}
