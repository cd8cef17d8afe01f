// Package chrome implements ports.BrowserDriver on the Chrome DevTools Protocol.
package chrome

import (
	"context"
	"strings"
	"sync"

	"github.com/chromedp/chromedp"
	"go.trai.ch/tabworker/internal/core/domain"
	"go.trai.ch/tabworker/internal/core/ports"
	"go.trai.ch/zerr"
)

var (
	_ ports.BrowserDriver = (*Driver)(nil)
	_ ports.Browser       = (*Browser)(nil)
)

// Config selects and tunes the browser.
type Config struct {
	// RemoteURL is the DevTools websocket URL of a running browser. When empty, a
	// browser is started from ExecPath (or the first Chrome found on PATH).
	RemoteURL string
	ExecPath  string
	Headless  bool
	// Entrypoint is the global function a test page exposes to run one test.
	Entrypoint string
	// Flags are extra command-line switches such as "--no-sandbox" or "--window-size=800,600".
	Flags []string
}

// Driver launches browsers through chromedp.
type Driver struct {
	cfg Config
}

// NewDriver creates a driver for cfg.
func NewDriver(cfg Config) *Driver {
	return &Driver{cfg: cfg}
}

// Launch starts a browser. The browser outlives ctx and is released by Kill;
// ctx only bounds the launch itself.
func (d *Driver) Launch(ctx context.Context) (ports.Browser, error) {
	base := context.WithoutCancel(ctx)

	var (
		allocCtx    context.Context
		allocCancel context.CancelFunc
	)
	if d.cfg.RemoteURL != "" {
		allocCtx, allocCancel = chromedp.NewRemoteAllocator(base, d.cfg.RemoteURL)
	} else {
		allocCtx, allocCancel = chromedp.NewExecAllocator(base, d.allocatorOptions()...)
	}
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// The first Run on a fresh context starts the browser.
	if err := runBounded(ctx, browserCtx, browserCancel); err != nil {
		browserCancel()
		allocCancel()
		return nil, zerr.Wrap(err, domain.ErrBrowserLaunchFailed.Error())
	}

	return &Browser{
		ctx:         browserCtx,
		cancel:      browserCancel,
		allocCancel: allocCancel,
		entrypoint:  d.cfg.Entrypoint,
	}, nil
}

func (d *Driver) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts, chromedp.Flag("headless", d.cfg.Headless))
	if d.cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(d.cfg.ExecPath))
	}
	for _, raw := range d.cfg.Flags {
		name, value := parseFlag(raw)
		if name == "" {
			continue
		}
		opts = append(opts, chromedp.Flag(name, value))
	}
	return opts
}

// parseFlag splits "--name=value" into its name and value. A bare switch yields true.
func parseFlag(raw string) (string, any) {
	raw = strings.TrimLeft(strings.TrimSpace(raw), "-")
	name, value, ok := strings.Cut(raw, "=")
	if !ok {
		return name, true
	}
	return name, value
}

// runBounded runs actions on target while cancelling target if ctx ends first.
func runBounded(ctx, target context.Context, cancelTarget context.CancelFunc, actions ...chromedp.Action) error {
	stop := context.AfterFunc(ctx, cancelTarget)
	err := chromedp.Run(target, actions...)
	if !stop() && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// Browser is a running chromedp browser.
type Browser struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	entrypoint  string

	killOnce sync.Once
	killErr  error
}

// OpenTab opens a new tab in the browser and navigates it to url.
func (b *Browser) OpenTab(ctx context.Context, url string) (ports.Tab, error) {
	tabCtx, tabCancel := chromedp.NewContext(b.ctx)
	if err := runBounded(ctx, tabCtx, tabCancel, chromedp.Navigate(url)); err != nil {
		tabCancel()
		return nil, zerr.With(zerr.Wrap(err, domain.ErrTabOpenFailed.Error()), "url", url)
	}
	return &Tab{ctx: tabCtx, cancel: tabCancel, entrypoint: b.entrypoint}, nil
}

// Kill closes the browser and releases the allocator. Later calls return the first result.
func (b *Browser) Kill() error {
	b.killOnce.Do(func() {
		if err := chromedp.Cancel(b.ctx); err != nil {
			b.killErr = zerr.Wrap(err, domain.ErrBrowserKillFailed.Error())
		}
		b.cancel()
		b.allocCancel()
	})
	return b.killErr
}
