// Package app implements the application layer for tabworker.
package app

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.trai.ch/tabworker/internal/adapters/httpapi"
	"go.trai.ch/tabworker/internal/adapters/watcher"
	"go.trai.ch/tabworker/internal/core/domain"
	"go.trai.ch/tabworker/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// AssetPublisher builds manifests from local directories and uploads their objects.
type AssetPublisher interface {
	Build(dir, bucket, sessionID, indexFile string) (*domain.Manifest, error)
	Upload(ctx context.Context, m *domain.Manifest, needed []domain.CacheDiffEntry, dir string) error
}

// App represents the main application logic.
type App struct {
	runner  httpapi.TestRunner
	cache   httpapi.Syncer
	router  httpapi.RequestRouter
	assets  AssetPublisher
	watcher ports.Watcher
	logger  ports.Logger
	addr    string
}

// New creates a new App instance.
func New(
	runner httpapi.TestRunner,
	cache httpapi.Syncer,
	router httpapi.RequestRouter,
	assets AssetPublisher,
	w ports.Watcher,
	log ports.Logger,
) *App {
	return &App{
		runner:  runner,
		cache:   cache,
		router:  router,
		assets:  assets,
		watcher: w,
		logger:  log,
	}
}

// WithAddr sets the address Serve listens on when the caller names none.
func (a *App) WithAddr(addr string) *App {
	a.addr = addr
	return a
}

// RunTests executes a test run. A log stream identifier is generated when logStream is empty.
func (a *App) RunTests(ctx context.Context, req domain.RunRequest, logStream string) (domain.RunResponse, error) {
	if logStream == "" {
		logStream = uuid.NewString()
	}
	resp, err := a.runner.Run(ctx, req, logStream)
	if err != nil {
		return domain.RunResponse{}, err
	}
	a.logger.Info("test run finished", domain.MetaLogStream, logStream, "tests", len(resp.Body))
	return resp, nil
}

// Sync stores m and reports the assets missing from its bucket.
func (a *App) Sync(ctx context.Context, m *domain.Manifest) (domain.SyncResult, error) {
	return a.cache.Sync(ctx, m)
}

// SyncDirOptions configuration for the SyncDir method.
type SyncDirOptions struct {
	Dir       string
	Bucket    string
	SessionID string
	IndexFile string
	// Upload puts the needed objects after the sync.
	Upload bool
}

// SyncDir builds the manifest of a local asset directory and syncs it. The result lists the
// assets that were missing before any upload.
func (a *App) SyncDir(ctx context.Context, opts SyncDirOptions) (domain.SyncResult, error) {
	m, err := a.assets.Build(opts.Dir, opts.Bucket, opts.SessionID, opts.IndexFile)
	if err != nil {
		return domain.SyncResult{}, zerr.Wrap(err, "failed to build manifest")
	}

	result, err := a.cache.Sync(ctx, m)
	if err != nil {
		return domain.SyncResult{}, err
	}

	if opts.Upload {
		if err := a.assets.Upload(ctx, m, result.Needed, opts.Dir); err != nil {
			return domain.SyncResult{}, err
		}
	}
	return result, nil
}

// Watch syncs opts.Dir once and again after every burst of changes below it, passing each
// result to report. Failed re-syncs are logged and the watch continues. Watch returns when
// ctx is done or report fails.
func (a *App) Watch(ctx context.Context, opts SyncDirOptions, report func(domain.SyncResult) error) error {
	result, err := a.SyncDir(ctx, opts)
	if err != nil {
		return err
	}
	if err := report(result); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	if err := a.watcher.Start(gctx, opts.Dir); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to watch assets"), domain.MetaPath, opts.Dir)
	}
	defer func() {
		_ = a.watcher.Stop()
	}()

	changed := make(chan struct{}, 1)
	debouncer := watcher.NewDebouncer(watcher.DefaultDebounceWindow, func(paths []string) {
		a.logger.Info("assets changed", "paths", len(paths))
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer debouncer.Stop()

	g.Go(func() error {
		for event := range a.watcher.Events() {
			debouncer.Add(event.Path)
		}
		return nil
	})
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-changed:
			}
			result, err := a.SyncDir(gctx, opts)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				a.logger.Error(err)
				continue
			}
			if err := report(result); err != nil {
				return err
			}
		}
	})

	return g.Wait()
}

// Route answers an asset request path.
func (a *App) Route(ctx context.Context, path string) (domain.Response, error) {
	return a.router.Handle(ctx, path)
}

// Serve runs the HTTP API on addr, or on the configured address when addr is empty,
// until ctx is done.
func (a *App) Serve(ctx context.Context, addr string) error {
	if addr == "" {
		addr = a.addr
	}
	return httpapi.NewServer(a.runner, a.cache, a.router, a.logger).ListenAndServe(ctx, addr)
}
