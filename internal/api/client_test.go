package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lfmelo/macrod/internal/model"
)

func TestRequestIDHeader(t *testing.T) {
	var gotID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get("X-Request-ID")
		json.NewEncoder(w).Encode(model.DayFull{Date: "2024-06-01"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", nil)
	if _, err := c.GetDayFull(context.Background(), "2024-06-01"); err != nil {
		t.Fatal(err)
	}
	if gotID == "" {
		t.Error("X-Request-ID header missing")
	}
}

func TestCreateEntry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/entries" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var in createEntryRequest
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Fatal(err)
		}
		if in.MealID != 7 || in.FdcID != 12345 || in.QuantityG != 150 {
			t.Errorf("request body = %+v", in)
		}
		json.NewEncoder(w).Encode(model.Entry{
			ID: 42, Description: "oats", QuantityG: 150,
			Kcal: 584, Protein: 20.3, Carb: 99.2, Fat: 10.3, SortOrder: 2,
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", nil)
	entry, err := c.CreateEntry(context.Background(), 7, 12345, 150)
	if err != nil {
		t.Fatal(err)
	}
	if entry.ID != 42 || entry.SortOrder != 2 {
		t.Errorf("entry = %+v, want ID 42 sort_order 2", entry)
	}
}

func TestStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "meal not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", nil)
	err := c.DeleteMeal(context.Background(), 99)
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *StatusError", err)
	}
	if se.Code != http.StatusNotFound {
		t.Errorf("code = %d, want 404", se.Code)
	}
}

func TestWeightMissingReading(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", nil)
	_, ok, err := c.Weight(context.Background(), "2024-06-01")
	if err != nil {
		t.Fatalf("missing reading should not be an error, got %v", err)
	}
	if ok {
		t.Error("ok = true for a day with no reading")
	}
}

func TestSearchFoodsQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "peanut butter" {
			t.Errorf("q = %q", got)
		}
		if got := r.URL.Query().Get("dataType"); got != "Branded" {
			t.Errorf("dataType = %q", got)
		}
		json.NewEncoder(w).Encode(searchResponse{Results: []model.SimpleFood{
			{FdcID: 1, Description: "peanut butter"},
		}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", nil)
	foods, err := c.SearchFoods(context.Background(), "peanut butter", "Branded")
	if err != nil {
		t.Fatal(err)
	}
	if len(foods) != 1 || foods[0].FdcID != 1 {
		t.Errorf("foods = %+v", foods)
	}
}

func TestConfigTokenHeader(t *testing.T) {
	var gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Config-Token")
		json.NewEncoder(w).Encode(map[string]string{"key": "abc"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", nil)
	key, err := c.UsdaKey(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if key != "abc" {
		t.Errorf("key = %q, want abc", key)
	}
	if gotToken != "secret" {
		t.Errorf("X-Config-Token = %q, want secret", gotToken)
	}
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Even a server-side failure proves the host is reachable.
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	c := NewClient(srv.URL, "", nil)
	if !c.Ping(context.Background()) {
		t.Error("Ping() = false for a responding server")
	}

	srv.Close()
	if c.Ping(context.Background()) {
		t.Error("Ping() = true for a closed server")
	}
}

func TestExportCSV(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("start") != "2024-06-01" || r.URL.Query().Get("end") != "2024-06-30" {
			t.Errorf("query = %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte("date,kcal\n2024-06-01,2100\n"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", nil)
	var buf bytes.Buffer
	if err := c.ExportCSV(context.Background(), "2024-06-01", "2024-06-30", &buf); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("date,kcal")) {
		t.Errorf("csv = %q", buf.String())
	}
}
