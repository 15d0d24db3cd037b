package tracker

import (
	"context"

	"github.com/lfmelo/macrod/internal/model"
	"go.uber.org/zap"
)

// Weight returns the body weight for date. Absence of a reading is a valid
// state, so transient online failures degrade to "not set" rather than
// erroring.
func (t *Tracker) Weight(ctx context.Context, date string) (float64, bool) {
	if !t.online() {
		return t.cache.CachedWeight(date)
	}
	w, ok, err := t.remote.Weight(ctx, date)
	if err != nil {
		t.logger.Debug("weight lookup failed", zap.String("date", date), zap.Error(err))
		return 0, false
	}
	if ok {
		t.cache.CacheWeight(date, w)
	} else {
		// Confirmed absence: a stale cached reading must not come back
		// on a later offline read.
		t.cache.DropWeight(date)
	}
	return w, ok
}

// SetWeight records the body weight for date, queuing the write when offline.
func (t *Tracker) SetWeight(ctx context.Context, date string, weight float64) error {
	if t.online() {
		if err := t.remote.PutWeight(ctx, date, weight); err != nil {
			return err
		}
		t.cache.CacheWeight(date, weight)
		return nil
	}
	t.cache.CacheWeight(date, weight)
	t.cache.Enqueue(&model.SetWeightOp{Date: date, Weight: weight})
	return nil
}
