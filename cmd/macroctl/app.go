package main

import (
	"context"
	"fmt"
	"time"

	"github.com/lfmelo/macrod/internal/api"
	"github.com/lfmelo/macrod/internal/appdir"
	"github.com/lfmelo/macrod/internal/cache"
	"github.com/lfmelo/macrod/internal/config"
	"github.com/lfmelo/macrod/internal/connectivity"
	"github.com/lfmelo/macrod/internal/storage"
	intsync "github.com/lfmelo/macrod/internal/sync"
	"github.com/lfmelo/macrod/internal/tracker"
	"go.uber.org/zap"
)

// app wires the client-side stack for one command invocation. Connectivity
// is probed once up front; a one-shot command does not run a monitor loop.
type app struct {
	cfg     *config.Config
	cache   *cache.Store
	tracker *tracker.Tracker
	engine  *intsync.Engine
	online  bool

	db *storage.SQLite
}

func newApp() (*app, error) {
	if err := appdir.EnsureDir(); err != nil {
		return nil, err
	}
	cfg, err := config.Load(appdir.ConfigPath())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := zap.NewNop()
	db, err := storage.Open(appdir.DBPath(), logger)
	if err != nil {
		return nil, err
	}
	if _, err := db.Migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}

	store := cache.NewStore(db, nil, logger, cache.Options{
		Retention:     time.Duration(cfg.RetentionDays) * 24 * time.Hour,
		MaxCachedDays: cfg.MaxCachedDays,
		MaxQueue:      cfg.MaxQueue,
	})

	client := api.NewClient(cfg.APIBaseURL, cfg.ConfigToken, logger)
	probeCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	online := client.Ping(probeCtx)
	cancel()

	checker := connectivity.Static(online)
	return &app{
		cfg:     cfg,
		cache:   store,
		tracker: tracker.New(client, checker, store, nil, logger),
		engine:  intsync.NewEngine(client, checker, store, nil, logger),
		online:  online,
		db:      db,
	}, nil
}

func (a *app) close() {
	_ = a.db.Close()
}

// today returns the local date in the YYYY-MM-DD form the API uses.
func today() string {
	return time.Now().Format("2006-01-02")
}

func daysAgo(n int) string {
	return time.Now().AddDate(0, 0, -n).Format("2006-01-02")
}

// dateArg interprets an optional leading date argument, defaulting to today.
func dateArg(args []string) (string, []string) {
	if len(args) > 0 {
		if _, err := time.Parse("2006-01-02", args[0]); err == nil {
			return args[0], args[1:]
		}
	}
	return today(), args
}
