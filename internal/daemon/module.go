// Package daemon composes the background process: it owns the offline
// cache, probes connectivity and drains the mutation queue whenever the
// backend becomes reachable.
package daemon

import (
	"context"
	"time"

	"github.com/lfmelo/macrod/internal/api"
	"github.com/lfmelo/macrod/internal/appdir"
	"github.com/lfmelo/macrod/internal/bus"
	"github.com/lfmelo/macrod/internal/cache"
	"github.com/lfmelo/macrod/internal/config"
	"github.com/lfmelo/macrod/internal/connectivity"
	"github.com/lfmelo/macrod/internal/lock"
	"github.com/lfmelo/macrod/internal/logging"
	"github.com/lfmelo/macrod/internal/storage"
	intsync "github.com/lfmelo/macrod/internal/sync"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Params holds the resolved daemon configuration passed to the fx module.
type Params struct {
	ConfigPath string // optional override for testing; empty = use default
}

// Module returns the fx module for the daemon, composing all providers and
// lifecycle hooks.
func Module(p Params) fx.Option {
	return fx.Module("daemon",
		fx.Supply(p),
		fx.Provide(
			provideConfig,
			provideLogger,
			provideBus,
			provideLock,
			provideStorage,
			provideCache,
			provideClient,
			provideMonitor,
			provideEngine,
		),
		fx.Invoke(registerLifecycle),
	)
}

func provideConfig(p Params) (*config.Config, error) {
	path := p.ConfigPath
	if path == "" {
		path = appdir.ConfigPath()
	}
	return config.Load(path)
}

func provideLogger() (*zap.Logger, error) {
	return logging.New(appdir.LogPath())
}

func provideBus() *bus.Bus {
	return bus.New()
}

func provideLock(logger *zap.Logger) (*lock.Lock, error) {
	if err := appdir.EnsureDir(); err != nil {
		return nil, err
	}
	l, err := lock.Acquire(appdir.LockPath())
	if err != nil {
		return nil, err
	}
	logger.Info("daemon lock acquired", zap.String("path", appdir.LockPath()))
	return l, nil
}

func provideStorage(logger *zap.Logger) (*storage.SQLite, error) {
	dbPath := appdir.DBPath()
	s, err := storage.Open(dbPath, logger)
	if err != nil {
		return nil, err
	}
	result, err := s.Migrate()
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	if result.Changed {
		logger.Info("migrations applied", zap.Uint("version", result.Version))
	} else {
		logger.Info("migrations up to date", zap.Uint("version", result.Version))
	}
	logger.Info("storage initialized", zap.String("path", dbPath))
	return s, nil
}

func provideCache(s *storage.SQLite, b *bus.Bus, cfg *config.Config, logger *zap.Logger) *cache.Store {
	return cache.NewStore(s, b, logger, cache.Options{
		Retention:     time.Duration(cfg.RetentionDays) * 24 * time.Hour,
		MaxCachedDays: cfg.MaxCachedDays,
		MaxQueue:      cfg.MaxQueue,
	})
}

func provideClient(cfg *config.Config, logger *zap.Logger) *api.Client {
	return api.NewClient(cfg.APIBaseURL, cfg.ConfigToken, logger)
}

func provideMonitor(client *api.Client, b *bus.Bus, cfg *config.Config, logger *zap.Logger) *connectivity.Monitor {
	return connectivity.NewMonitor(client, b, logger, time.Duration(cfg.ProbeIntervalSeconds)*time.Second)
}

func provideEngine(client *api.Client, monitor *connectivity.Monitor, c *cache.Store, b *bus.Bus, logger *zap.Logger) *intsync.Engine {
	return intsync.NewEngine(client, monitor, c, b, logger)
}

func registerLifecycle(lc fx.Lifecycle, lk *lock.Lock, monitor *connectivity.Monitor, engine *intsync.Engine, s *storage.SQLite, b *bus.Bus, logger *zap.Logger) {
	var unsub func()

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			// Subscribe before starting the monitor so the initial probe's
			// online transition is not missed.
			ch, cancel := b.Subscribe("network.", 16)
			unsub = cancel
			go func() {
				for evt := range ch {
					if evt.Kind != bus.KindNetworkOnline {
						continue
					}
					if err := engine.SyncQueue(context.Background()); err != nil {
						logger.Warn("sync after reconnect failed", zap.Error(err))
					}
				}
			}()

			monitor.Start(context.Background())

			// Startup drain: anything queued by a previous session goes out
			// as soon as the backend answers.
			go func() {
				if err := engine.SyncQueue(context.Background()); err != nil {
					logger.Warn("startup sync failed", zap.Error(err))
				}
			}()

			logger.Info("daemon started")
			return nil
		},
		OnStop: func(_ context.Context) error {
			monitor.Stop()
			if unsub != nil {
				unsub()
			}
			if err := s.Close(); err != nil {
				logger.Warn("error closing storage", zap.Error(err))
			}
			if err := lk.Release(); err != nil {
				logger.Warn("error releasing lock", zap.Error(err))
			}
			logger.Info("daemon stopped")
			return nil
		},
	})
}
