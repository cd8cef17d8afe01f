package ports

import (
	"context"

	"go.trai.ch/tabworker/internal/core/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=browser.go -destination=mocks/mock_browser.go -package=mocks

// BrowserDriver launches remote browser instances.
type BrowserDriver interface {
	// Launch starts a browser. On error no browser is left running.
	Launch(ctx context.Context) (Browser, error)
}

// Browser is a running browser instance exclusively owned by its launcher.
type Browser interface {
	// OpenTab opens a tab and navigates it to url.
	OpenTab(ctx context.Context, url string) (Tab, error)

	// Kill tears the browser down. It must be called exactly once.
	Kill() error
}

// Tab is a navigable browser tab.
type Tab interface {
	// RunTest executes one named test in the tab and returns its result.
	// The tab context is shared by every test of a run and must be treated as read-only.
	RunTest(ctx context.Context, opts domain.TestOptions, tabCtx domain.TabContext) (domain.TestResult, error)
}
