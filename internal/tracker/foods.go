package tracker

import (
	"context"

	"github.com/lfmelo/macrod/internal/model"
)

// SearchFoods queries the USDA-backed search. There is no offline fallback;
// search results are not cached.
func (t *Tracker) SearchFoods(ctx context.Context, query, dataType string) ([]model.SimpleFood, error) {
	if !t.online() {
		return nil, ErrOffline
	}
	return t.remote.SearchFoods(ctx, query, dataType)
}

// Food fetches the full nutrition profile for one food.
func (t *Tracker) Food(ctx context.Context, fdcID int64) (*model.Food, error) {
	if !t.online() {
		return nil, ErrOffline
	}
	return t.remote.Food(ctx, fdcID)
}

// MyFoods lists the personal food collection, from cache when offline.
func (t *Tracker) MyFoods(ctx context.Context) ([]model.SimpleFood, error) {
	if !t.online() {
		return t.cache.CachedFoods(), nil
	}
	foods, err := t.remote.MyFoods(ctx)
	if err != nil {
		return nil, err
	}
	t.cache.CacheFoods(foods)
	return foods, nil
}

// CreateCustomFood registers a user-defined food. The cached food list is
// invalidated by refetching on the next online MyFoods call.
func (t *Tracker) CreateCustomFood(ctx context.Context, food model.Food) (*model.Food, error) {
	if !t.online() {
		return nil, ErrOffline
	}
	return t.remote.CreateCustomFood(ctx, food)
}

// DeleteCustomFood removes a user-defined food.
func (t *Tracker) DeleteCustomFood(ctx context.Context, fdcID int64) error {
	if !t.online() {
		return ErrOffline
	}
	return t.remote.DeleteCustomFood(ctx, fdcID)
}

// ArchiveCustomFood hides a user-defined food without losing its history.
func (t *Tracker) ArchiveCustomFood(ctx context.Context, fdcID int64) error {
	if !t.online() {
		return ErrOffline
	}
	return t.remote.ArchiveCustomFood(ctx, fdcID)
}

// UsdaKey returns the server-side USDA API key, or empty when unset.
func (t *Tracker) UsdaKey(ctx context.Context) (string, error) {
	if !t.online() {
		return "", ErrOffline
	}
	return t.remote.UsdaKey(ctx)
}

// SetUsdaKey stores the USDA API key on the server.
func (t *Tracker) SetUsdaKey(ctx context.Context, key string) error {
	if !t.online() {
		return ErrOffline
	}
	return t.remote.SetUsdaKey(ctx, key)
}
