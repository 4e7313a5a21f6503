// Package wire provides dependency injection for packtrack.
// It opens the configured backend once and builds every service on top of it.
package wire

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/example/packtrack/internal/adapters/activity"
	"github.com/example/packtrack/internal/adapters/badgerdb"
	"github.com/example/packtrack/internal/adapters/sqlite"
	"github.com/example/packtrack/internal/app"
	"github.com/example/packtrack/internal/config"
	"github.com/example/packtrack/internal/core/codegen"
	"github.com/example/packtrack/internal/db"
	"github.com/example/packtrack/internal/logging"
	"github.com/example/packtrack/internal/ports/primary"
	"github.com/example/packtrack/internal/ports/secondary"
)

// Services is the assembled application.
type Services struct {
	Config *config.Config
	Logger *zap.Logger

	Departments primary.DepartmentService
	Boxes       primary.BoxService
	Pallets     primary.PalletService
	Shipments   primary.ShipmentService
	Packing     primary.PackingService

	backend  secondary.Backend
	activity *activity.Async
}

var (
	services *Services
	initErr  error
	once     sync.Once
)

// Get returns the process-wide Services, building them on first use from
// the loaded configuration.
func Get() (*Services, error) {
	once.Do(initServices)
	return services, initErr
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	cfg, err := config.Load()
	if err != nil {
		initErr = err
		return
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		initErr = err
		return
	}
	services, initErr = Build(cfg, logger)
}

// Build opens the backend named by cfg and wires the services over it.
func Build(cfg *config.Config, logger *zap.Logger) (*Services, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	backend, err := openBackend(cfg, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("backend ready", zap.String("backend", backend.Name()))

	// Activity writes happen off the request path and never fail it.
	log := activity.NewAsync(activity.NewZapLog(logger), activity.DefaultBuffer)
	codes := codegen.New(cfg.Codes.MaxAttempts)

	boxes := app.NewBoxService(backend, codes, log, nil)
	return &Services{
		Config:      cfg,
		Logger:      logger,
		Departments: app.NewDepartmentService(backend, log, nil),
		Boxes:       boxes,
		Pallets:     app.NewPalletService(backend, codes, log, nil),
		Shipments:   app.NewShipmentService(backend, codes, log, nil),
		Packing:     app.NewPackingService(boxes),
		backend:     backend,
		activity:    log,
	}, nil
}

func openBackend(cfg *config.Config, logger *zap.Logger) (secondary.Backend, error) {
	switch cfg.Backend {
	case config.BackendRemote:
		conn, err := db.Open(cfg.Remote.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open remote backend: %w", err)
		}
		if version, dirty, err := db.SchemaVersion(conn); err == nil {
			logger.Debug("schema migrated", zap.Uint("version", version), zap.Bool("dirty", dirty))
		}
		return sqlite.NewBackend(conn, nil), nil

	case config.BackendLocal:
		backend, err := badgerdb.Open(badgerdb.Options{
			Dir:      cfg.Local.Dir,
			InMemory: cfg.Local.InMemory,
			Logger:   logger,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open local backend: %w", err)
		}
		return backend, nil

	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

// BackendName reports which backend the services run on.
func (s *Services) BackendName() string {
	return s.backend.Name()
}

// Close drains pending activity entries, then releases the backend.
func (s *Services) Close(ctx context.Context) error {
	drainErr := s.activity.Close(ctx)
	if dropped := s.activity.Dropped(); dropped > 0 {
		s.Logger.Warn("activity entries dropped", zap.Int64("count", dropped))
	}
	closeErr := s.backend.Close()
	_ = s.Logger.Sync()
	return errors.Join(drainErr, closeErr)
}

// Shutdown closes the process-wide Services if Get ever built them.
func Shutdown(ctx context.Context) error {
	if services == nil {
		return nil
	}
	return services.Close(ctx)
}
