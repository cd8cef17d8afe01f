// Package orchestrator runs a worker's test queue in one remote browser tab.
package orchestrator

import (
	"context"
	"errors"
	"net/http"

	"go.trai.ch/tabworker/internal/core/domain"
	"go.trai.ch/tabworker/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Orchestrator executes test runs. Each Run owns the browser it launches.
type Orchestrator struct {
	driver   ports.BrowserDriver
	resolver ports.ManifestResolver
	tracer   ports.Tracer
	logger   ports.Logger
}

// New creates an Orchestrator.
func New(
	driver ports.BrowserDriver,
	resolver ports.ManifestResolver,
	tracer ports.Tracer,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		driver:   driver,
		resolver: resolver,
		tracer:   tracer,
		logger:   logger,
	}
}

// Run launches a browser, opens one tab at req.URL and executes req.TestNames in order.
//
// The first failure aborts the remaining tests and discards collected results. The returned
// error carries logStream as domain.MetaLogStream metadata. A launched browser is killed
// exactly once before Run returns.
func (o *Orchestrator) Run(ctx context.Context, req domain.RunRequest, logStream string) (domain.RunResponse, error) {
	ctx, span := o.tracer.Start(ctx, "orchestrator.run")
	defer span.End()
	span.SetAttribute(domain.MetaLogStream, logStream)
	span.SetAttribute(domain.MetaBucket, req.Bucket)
	span.SetAttribute("tests", len(req.TestNames))

	state := newRunState(o.logger, logStream)
	results, err := o.execute(ctx, req, logStream, state)
	state.advance(domain.StateTornDown)

	if err != nil {
		err = zerr.With(zerr.Wrap(err, domain.ErrTestRunFailed.Error()), domain.MetaLogStream, logStream)
		if req.SessionID != "" {
			err = zerr.With(err, domain.MetaSessionID, req.SessionID)
		}
		span.RecordError(err)
		return domain.RunResponse{}, err
	}

	return domain.RunResponse{StatusCode: http.StatusOK, Body: results}, nil
}

func (o *Orchestrator) execute(
	ctx context.Context,
	req domain.RunRequest,
	logStream string,
	state *runState,
) (results []domain.TestResult, err error) {
	state.advance(domain.StateLaunching)
	browser, manifest, err := o.launch(ctx, req)
	if browser != nil {
		defer func() {
			if killErr := browser.Kill(); killErr != nil {
				o.logger.Error(killErr)
				err = errors.Join(err, killErr)
				results = nil
			}
		}()
	}
	if err != nil {
		state.advance(domain.StateFailed)
		return nil, err
	}

	if manifest == nil && req.SessionID != "" {
		state.advance(domain.StateFailed)
		return nil, zerr.With(zerr.Wrap(domain.ErrMissingManifest, "no manifest for session "+req.SessionID), domain.MetaSessionID, req.SessionID)
	}

	tab, err := browser.OpenTab(ctx, req.URL)
	if err != nil {
		state.advance(domain.StateFailed)
		return nil, err
	}
	state.advance(domain.StateTabOpen, "url", req.URL)

	tabCtx := domain.TabContext{Manifest: manifest}
	names := req.TestNames
	results = make([]domain.TestResult, 0, len(names))
	for i := 0; i < len(names); i++ {
		state.advance(domain.StateRunning, "index", i, domain.MetaTestName, names[i])
		result, err := o.runTest(ctx, tab, req.OptionsFor(names[i]), tabCtx, logStream)
		if err != nil {
			state.advance(domain.StateFailed)
			return nil, err
		}
		results = append(results, result)
	}

	state.advance(domain.StateDone, "tests", len(results))
	return results, nil
}

// launch starts the browser and resolves the session manifest concurrently. The browser is
// returned whenever it started, even if resolving failed, so that the caller can kill it.
func (o *Orchestrator) launch(ctx context.Context, req domain.RunRequest) (ports.Browser, *domain.Manifest, error) {
	var (
		browser  ports.Browser
		manifest *domain.Manifest
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		b, err := o.driver.Launch(gctx)
		if err != nil {
			return err
		}
		browser = b
		return nil
	})
	g.Go(func() error {
		m, err := o.resolver.Resolve(gctx, req.Bucket, req.SessionID)
		if err != nil {
			return err
		}
		manifest = m
		return nil
	})
	err := g.Wait()

	return browser, manifest, err
}

func (o *Orchestrator) runTest(
	ctx context.Context,
	tab ports.Tab,
	opts domain.TestOptions,
	tabCtx domain.TabContext,
	logStream string,
) (domain.TestResult, error) {
	ctx, span := o.tracer.Start(ctx, "orchestrator.test")
	defer span.End()
	span.SetAttribute(domain.MetaTestName, opts.TestName)

	result, err := tab.RunTest(ctx, opts, tabCtx)
	if err != nil {
		span.RecordError(err)
		err = zerr.Wrap(err, "test "+opts.TestName+" failed")
		return domain.TestResult{}, zerr.With(err, domain.MetaTestName, opts.TestName)
	}
	if result.TestName == "" {
		result.TestName = opts.TestName
	}
	result.LogStream = logStream
	return result, nil
}
