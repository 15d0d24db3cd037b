// Package api is the HTTP client for the macro tracker backend. Every call
// carries a generated X-Request-ID so server logs can be correlated with a
// specific client action.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lfmelo/macrod/internal/model"
	"go.uber.org/zap"
)

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("server returned %d", e.Code)
	}
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Body)
}

// Client talks to the backend REST API.
type Client struct {
	base        string
	configToken string
	http        *http.Client
	logger      *zap.Logger
}

// NewClient creates a client for the API rooted at baseURL (including the
// /api prefix). configToken authenticates the key-management endpoints and
// may be empty.
func NewClient(baseURL, configToken string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		base:        strings.TrimRight(baseURL, "/"),
		configToken: configToken,
		http:        &http.Client{Timeout: 15 * time.Second},
		logger:      logger,
	}
}

// do issues one request. in is JSON-encoded as the body when non-nil, out is
// JSON-decoded from the response when non-nil. extra headers are applied last.
func (c *Client) do(ctx context.Context, method, path string, in, out any, extra http.Header) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.New().String())
	for k, vs := range extra {
		for _, v := range vs {
			req.Header.Set(k, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		err := &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
		c.logger.Debug("api request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *Client) configHeaders() http.Header {
	if c.configToken == "" {
		return nil
	}
	return http.Header{"X-Config-Token": []string{c.configToken}}
}

// Ping probes reachability. Any HTTP response counts as reachable; only a
// transport-level failure means offline.
func (c *Client) Ping(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return true
}

// --- days ---

// GetDayFull fetches the full snapshot for one day.
func (c *Client) GetDayFull(ctx context.Context, date string) (*model.DayFull, error) {
	day := &model.DayFull{}
	if err := c.do(ctx, http.MethodGet, "/days/"+date+"/full", nil, day, nil); err != nil {
		return nil, err
	}
	return day, nil
}

// --- meals ---

// CreateMeal creates a new meal on date and returns it as the server sees it.
func (c *Client) CreateMeal(ctx context.Context, date string) (*model.Meal, error) {
	meal := &model.Meal{}
	in := map[string]string{"date": date}
	if err := c.do(ctx, http.MethodPost, "/meals", in, meal, nil); err != nil {
		return nil, err
	}
	return meal, nil
}

// UpdateMeal applies a partial rename/reorder to a meal.
func (c *Client) UpdateMeal(ctx context.Context, mealID int64, patch model.MealPatch) error {
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("/meals/%d", mealID), patch, nil, nil)
}

// DeleteMeal removes a meal and all its entries.
func (c *Client) DeleteMeal(ctx context.Context, mealID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/meals/%d", mealID), nil, nil, nil)
}

// CopyMealTo copies a meal's entries onto another date under mealName.
func (c *Client) CopyMealTo(ctx context.Context, mealID int64, date, mealName string) error {
	in := map[string]string{"date": date, "meal_name": mealName}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/meals/%d/copy_to", mealID), in, nil, nil)
}

// --- entries ---

type createEntryRequest struct {
	MealID    int64   `json:"meal_id"`
	FdcID     int64   `json:"fdc_id"`
	QuantityG float64 `json:"quantity_g"`
}

// CreateEntry logs a food entry and returns the server-side row, including
// its assigned ID and sort order.
func (c *Client) CreateEntry(ctx context.Context, mealID, fdcID int64, quantityG float64) (*model.Entry, error) {
	entry := &model.Entry{}
	in := createEntryRequest{MealID: mealID, FdcID: fdcID, QuantityG: quantityG}
	if err := c.do(ctx, http.MethodPost, "/entries", in, entry, nil); err != nil {
		return nil, err
	}
	return entry, nil
}

// UpdateEntryQuantity changes an entry's logged amount.
func (c *Client) UpdateEntryQuantity(ctx context.Context, entryID int64, quantityG float64) error {
	in := map[string]float64{"quantity_g": quantityG}
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("/entries/%d", entryID), in, nil, nil)
}

// UpdateEntrySortOrder moves an entry within its meal.
func (c *Client) UpdateEntrySortOrder(ctx context.Context, entryID int64, sortOrder int) error {
	in := map[string]int{"sort_order": sortOrder}
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("/entries/%d", entryID), in, nil, nil)
}

// DeleteEntry removes one entry.
func (c *Client) DeleteEntry(ctx context.Context, entryID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/entries/%d", entryID), nil, nil, nil)
}

// --- weight and water ---

type weightBody struct {
	Weight float64 `json:"weight"`
}

// Weight returns the logged body weight for date. ok is false when the
// server has no reading for that day.
func (c *Client) Weight(ctx context.Context, date string) (float64, bool, error) {
	var out weightBody
	err := c.do(ctx, http.MethodGet, "/weight/"+date, nil, &out, nil)
	var se *StatusError
	if errors.As(err, &se) && se.Code == http.StatusNotFound {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return out.Weight, true, nil
}

// PutWeight records the body weight for date.
func (c *Client) PutWeight(ctx context.Context, date string, weight float64) error {
	return c.do(ctx, http.MethodPut, "/weight/"+date, weightBody{Weight: weight}, nil, nil)
}

type waterBody struct {
	Milliliters float64 `json:"milliliters"`
}

// Water returns the logged water volume (ml) for date.
func (c *Client) Water(ctx context.Context, date string) (float64, bool, error) {
	var out waterBody
	err := c.do(ctx, http.MethodGet, "/water/"+date, nil, &out, nil)
	var se *StatusError
	if errors.As(err, &se) && se.Code == http.StatusNotFound {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return out.Milliliters, true, nil
}

// PutWater records the water volume (ml) for date.
func (c *Client) PutWater(ctx context.Context, date string, ml float64) error {
	return c.do(ctx, http.MethodPut, "/water/"+date, waterBody{Milliliters: ml}, nil, nil)
}

// --- foods ---

type searchResponse struct {
	Results []model.SimpleFood `json:"results"`
}

// SearchFoods queries the USDA-backed food search. dataType may be empty.
func (c *Client) SearchFoods(ctx context.Context, query, dataType string) ([]model.SimpleFood, error) {
	q := url.Values{"q": []string{query}}
	if dataType != "" {
		q.Set("dataType", dataType)
	}
	var out searchResponse
	if err := c.do(ctx, http.MethodGet, "/foods/search?"+q.Encode(), nil, &out, nil); err != nil {
		return nil, err
	}
	return out.Results, nil
}

// Food fetches the full nutrition profile for one food.
func (c *Client) Food(ctx context.Context, fdcID int64) (*model.Food, error) {
	food := &model.Food{}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/foods/%d", fdcID), nil, food, nil); err != nil {
		return nil, err
	}
	return food, nil
}

// MyFoods lists the personal food collection.
func (c *Client) MyFoods(ctx context.Context) ([]model.SimpleFood, error) {
	var out []model.SimpleFood
	if err := c.do(ctx, http.MethodGet, "/my_foods", nil, &out, nil); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCustomFood registers a user-defined food and returns it with its
// assigned fdcId.
func (c *Client) CreateCustomFood(ctx context.Context, food model.Food) (*model.Food, error) {
	created := &model.Food{}
	if err := c.do(ctx, http.MethodPost, "/custom_foods", food, created, nil); err != nil {
		return nil, err
	}
	return created, nil
}

// DeleteCustomFood removes a user-defined food.
func (c *Client) DeleteCustomFood(ctx context.Context, fdcID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/custom_foods/%d", fdcID), nil, nil, nil)
}

// ArchiveCustomFood hides a user-defined food without deleting its history.
func (c *Client) ArchiveCustomFood(ctx context.Context, fdcID int64) error {
	in := map[string]bool{"archived": true}
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("/custom_foods/%d", fdcID), in, nil, nil)
}

// --- presets ---

type presetsResponse struct {
	Items []model.Preset `json:"items"`
}

// Presets lists the saved meal templates.
func (c *Client) Presets(ctx context.Context) ([]model.Preset, error) {
	var out presetsResponse
	if err := c.do(ctx, http.MethodGet, "/presets", nil, &out, nil); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// CreatePresetFromMeal snapshots a named meal on date as a reusable template.
func (c *Client) CreatePresetFromMeal(ctx context.Context, name, date, mealName string) (*model.Preset, error) {
	preset := &model.Preset{}
	in := map[string]string{"name": name, "date": date, "meal_name": mealName}
	if err := c.do(ctx, http.MethodPost, "/presets/from_meal", in, preset, nil); err != nil {
		return nil, err
	}
	return preset, nil
}

type applyPresetRequest struct {
	Date       string  `json:"date"`
	MealName   string  `json:"meal_name"`
	Multiplier float64 `json:"multiplier"`
}

// ApplyPreset instantiates a preset onto date, scaled by multiplier.
func (c *Client) ApplyPreset(ctx context.Context, presetID int64, date, mealName string, multiplier float64) error {
	in := applyPresetRequest{Date: date, MealName: mealName, Multiplier: multiplier}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/presets/%d/apply", presetID), in, nil, nil)
}

// DeletePreset removes a saved template.
func (c *Client) DeletePreset(ctx context.Context, presetID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/presets/%d", presetID), nil, nil, nil)
}

// --- reports ---

// History returns per-day macro totals plus weight/water over a date range.
func (c *Client) History(ctx context.Context, startDate, endDate string) ([]model.HistoryDay, error) {
	q := url.Values{"start_date": []string{startDate}, "end_date": []string{endDate}}
	var out []model.HistoryDay
	if err := c.do(ctx, http.MethodGet, "/history?"+q.Encode(), nil, &out, nil); err != nil {
		return nil, err
	}
	return out, nil
}

// ExportCSV streams the CSV export for a date range to w.
func (c *Client) ExportCSV(ctx context.Context, startDate, endDate string, w io.Writer) error {
	q := url.Values{"start": []string{startDate}, "end": []string{endDate}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/export?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-Request-ID", uuid.New().String())
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	_, err = io.Copy(w, resp.Body)
	return err
}

// --- server config ---

// UsdaKey returns the configured USDA API key, or empty when unset.
func (c *Client) UsdaKey(ctx context.Context) (string, error) {
	var out struct {
		Key string `json:"key"`
	}
	if err := c.do(ctx, http.MethodGet, "/config/usda-key", nil, &out, c.configHeaders()); err != nil {
		return "", err
	}
	return out.Key, nil
}

// SetUsdaKey stores the USDA API key on the server.
func (c *Client) SetUsdaKey(ctx context.Context, key string) error {
	in := map[string]string{"key": key}
	return c.do(ctx, http.MethodPost, "/config/usda-key", in, nil, c.configHeaders())
}
