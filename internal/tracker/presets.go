package tracker

import (
	"context"

	"github.com/lfmelo/macrod/internal/model"
)

// Presets lists saved meal templates. Online only.
func (t *Tracker) Presets(ctx context.Context) ([]model.Preset, error) {
	if !t.online() {
		return nil, ErrOffline
	}
	return t.remote.Presets(ctx)
}

// CreatePresetFromMeal snapshots a named meal on date as a template.
func (t *Tracker) CreatePresetFromMeal(ctx context.Context, name, date, mealName string) (*model.Preset, error) {
	if !t.online() {
		return nil, ErrOffline
	}
	return t.remote.CreatePresetFromMeal(ctx, name, date, mealName)
}

// ApplyPreset instantiates a preset onto date, scaled by multiplier, then
// refreshes the cached day to pick up the server-computed entries.
func (t *Tracker) ApplyPreset(ctx context.Context, presetID int64, date, mealName string, multiplier float64) error {
	if !t.online() {
		return ErrOffline
	}
	if err := t.remote.ApplyPreset(ctx, presetID, date, mealName, multiplier); err != nil {
		return err
	}
	if day, err := t.remote.GetDayFull(ctx, date); err == nil {
		t.cache.CacheDay(date, day)
		t.notifyDay(date)
	}
	return nil
}

// DeletePreset removes a saved template.
func (t *Tracker) DeletePreset(ctx context.Context, presetID int64) error {
	if !t.online() {
		return ErrOffline
	}
	return t.remote.DeletePreset(ctx, presetID)
}
