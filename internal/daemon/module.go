// Package daemon composes the chatlensd process with fx.
package daemon

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/matheus3301/chatlens/internal/bus"
	"github.com/matheus3301/chatlens/internal/config"
	"github.com/matheus3301/chatlens/internal/httpapi"
	"github.com/matheus3301/chatlens/internal/ignore"
	"github.com/matheus3301/chatlens/internal/lock"
	"github.com/matheus3301/chatlens/internal/logging"
	"github.com/matheus3301/chatlens/internal/metrics"
	"github.com/matheus3301/chatlens/internal/pipeline"
	"github.com/matheus3301/chatlens/internal/store"
	"github.com/matheus3301/chatlens/internal/workspace"
)

// Params holds command-line overrides passed to the fx module.
type Params struct {
	Addr    string // optional override for the listen address
	DataDir string // optional override for the workspace directory
}

// Module returns the fx module for the daemon, composing all providers and
// lifecycle hooks.
func Module(p Params) fx.Option {
	return fx.Module("daemon",
		fx.Supply(p),
		fx.Provide(
			provideConfig,
			provideDataDir,
			provideLogger,
			provideBus,
			provideLock,
			provideStore,
			provideIgnoreLoader,
			provideCoordinator,
			provideHandlers,
			NewServer,
		),
		fx.Invoke(registerLifecycle),
	)
}

func provideConfig() *config.Config {
	// Missing config is the common first-run case; Load returns defaults.
	cfg, _ := config.Load(workspace.ConfigPath())
	return cfg
}

// dataDir is the resolved workspace directory, distinct from the raw flag
// value so providers never re-run the precedence rules.
type dataDir string

func provideDataDir(p Params, cfg *config.Config) (dataDir, error) {
	dir := workspace.Resolve(p.DataDir, cfg.DataDir)
	if err := workspace.EnsureDirs(dir); err != nil {
		return "", err
	}
	return dataDir(dir), nil
}

func provideLogger(dir dataDir) (*zap.Logger, error) {
	return logging.New(workspace.LogPath(string(dir)))
}

func provideBus() *bus.Bus {
	return bus.New()
}

func provideLock(dir dataDir, logger *zap.Logger) (*lock.Lock, error) {
	logger.Info("acquiring workspace lock", zap.String("dir", string(dir)))
	l, err := lock.Acquire(string(dir))
	if err != nil {
		return nil, err
	}
	logger.Info("workspace lock acquired")
	return l, nil
}

func provideStore(dir dataDir, logger *zap.Logger) (*store.DB, error) {
	dbPath := workspace.DBPath(string(dir))
	db, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}
	result, err := db.Migrate()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if result.Changed {
		logger.Info("migrations applied", zap.Uint("version", result.Version))
	} else {
		logger.Info("migrations up to date", zap.Uint("version", result.Version))
	}
	logger.Info("store initialized", zap.String("path", dbPath))
	return db, nil
}

// provideIgnoreLoader prefers user-supplied lists under <data-dir>/ignore
// and falls back to the embedded ones.
func provideIgnoreLoader(dir dataDir) ignore.Loader {
	return ignore.Fallthrough{
		ignore.DirLoader{Dir: workspace.IgnoreDir(string(dir))},
		ignore.EmbeddedLoader{},
	}
}

func provideCoordinator(loader ignore.Loader, cfg *config.Config, logger *zap.Logger) *pipeline.Coordinator {
	return pipeline.NewCoordinator(loader, cfg.DefaultLanguage, logger)
}

func provideHandlers(db *store.DB, coord *pipeline.Coordinator, b *bus.Bus, cfg *config.Config, logger *zap.Logger) *httpapi.Handlers {
	return httpapi.NewHandlers(db, coord, b, logger, cfg.DefaultMinShare)
}

func registerLifecycle(lc fx.Lifecycle, srv *Server, coord *pipeline.Coordinator, b *bus.Bus, db *store.DB, lk *lock.Lock, logger *zap.Logger) {
	metrics.MustRegister(prometheus.DefaultRegisterer)

	var unsubscribe func()
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			coord.Start(context.Background())

			// Log every domain event; the bus drops on overflow rather
			// than blocking publishers.
			events, unsub := b.Subscribe("", 64)
			unsubscribe = unsub
			go func() {
				for evt := range events {
					logger.Info("event",
						zap.String("kind", evt.Kind),
						zap.String("id", evt.ID),
						zap.Any("payload", evt.Payload),
					)
				}
			}()

			go func() {
				if err := srv.Start(); err != nil {
					logger.Error("http server error", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			srv.Stop(ctx)
			coord.Stop()
			if unsubscribe != nil {
				unsubscribe()
			}
			if err := db.Close(); err != nil {
				logger.Warn("error closing store", zap.Error(err))
			}
			if err := lk.Release(); err != nil {
				logger.Warn("error releasing lock", zap.Error(err))
			}
			logger.Info("daemon stopped")
			return nil
		},
	})
}
