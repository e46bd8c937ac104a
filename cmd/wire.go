package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bnema/poolify-cli/internal/adapters/identity/static"
	filestore "github.com/bnema/poolify-cli/internal/adapters/kv/file"
	sqlitestore "github.com/bnema/poolify-cli/internal/adapters/kv/sqlite"
	dashboardrender "github.com/bnema/poolify-cli/internal/adapters/render/dashboard"
	"github.com/bnema/poolify-cli/internal/adapters/repo/blob"
	"github.com/bnema/poolify-cli/internal/adapters/watch"
	"github.com/bnema/poolify-cli/internal/application"
	"github.com/bnema/poolify-cli/internal/config"
	"github.com/bnema/poolify-cli/internal/logging"
	"github.com/bnema/poolify-cli/internal/ports"
	"github.com/spf13/viper"
)

const storeDirMode = 0o700

type app struct {
	cfg        config.Config
	closeStore func() error
	sessions   *blob.SessionRepository
	pools      *blob.PoolRepository
	identity   ports.IdentityProvider
	clock      ports.Clock
	renderer   func(application.RenderRequest, dashboardrender.RenderOptions) string
	live       func(context.Context, *application.Dashboard, *application.Timers, dashboardrender.Options) (dashboardrender.Result, error)
}

func wireApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(viper.New())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if _, err := logging.Setup(os.Stderr, cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("configure logging: %w", err)
	}

	store, closeStore, err := openStore(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("wire blob store: %w", err)
	}

	var identity ports.IdentityProvider
	if cfg.Identity.Provider == config.ProviderStatic {
		identity = static.NewProvider(cfg.Identity.User)
	}

	clock := ports.SystemClock()

	return &app{
		cfg:        cfg,
		closeStore: closeStore,
		sessions:   blob.NewSessionRepository(store),
		pools:      blob.NewPoolRepository(store, clock),
		identity:   identity,
		clock:      clock,
		renderer:   dashboardrender.Render,
		live:       dashboardrender.Run,
	}, nil
}

func openStore(ctx context.Context, storage config.Storage) (ports.BlobStore, func() error, error) {
	switch storage.Backend {
	case config.BackendSQLite:
		store, err := sqlitestore.Open(ctx, storage.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		store, err := filestore.NewStore(storage.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, func() error { return nil }, nil
	}
}

func (a *app) close() error {
	if a.closeStore == nil {
		return nil
	}
	if err := a.closeStore(); err != nil {
		return fmt.Errorf("close blob store: %w", err)
	}
	return nil
}

func (a *app) poolService() *application.PoolService {
	return application.NewPoolService(a.pools, a.clock)
}

func (a *app) sessionService(nav ports.Navigator) *application.SessionService {
	return application.NewSessionService(a.sessions, a.identity, nav, a.cfg.DefaultHostel)
}

func (a *app) dashboard(nav ports.Navigator) *application.Dashboard {
	return application.NewDashboard(a.sessionService(nav), a.poolService(), a.sessions, nav, a.clock)
}

// watchStore reports writes to the blob store from any process.
func (a *app) watchStore(ctx context.Context, onChange func()) error {
	if err := os.MkdirAll(filepath.Dir(a.cfg.Storage.Path), storeDirMode); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}
	return watch.Watch(ctx, a.cfg.Storage.Path, onChange)
}
