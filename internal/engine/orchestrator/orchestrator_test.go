package orchestrator_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"testing/synctest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/tabworker/internal/adapters/telemetry"
	"go.trai.ch/tabworker/internal/core/domain"
	"go.trai.ch/tabworker/internal/core/ports"
	"go.trai.ch/tabworker/internal/core/ports/mocks"
	"go.trai.ch/tabworker/internal/engine/orchestrator"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

const logStream = "2026/10/15/[$LATEST]abc"

type fixture struct {
	driver   *mocks.MockBrowserDriver
	browser  *mocks.MockBrowser
	tab      *mocks.MockTab
	resolver *mocks.MockManifestResolver
	logger   *mocks.MockLogger
	orch     *orchestrator.Orchestrator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &fixture{
		driver:   mocks.NewMockBrowserDriver(ctrl),
		browser:  mocks.NewMockBrowser(ctrl),
		tab:      mocks.NewMockTab(ctrl),
		resolver: mocks.NewMockManifestResolver(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
	}
	f.logger.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	f.orch = orchestrator.New(f.driver, f.resolver, telemetry.NewNoOpTracer(), f.logger)
	return f
}

func sessionManifest() *domain.Manifest {
	return &domain.Manifest{
		SessionID: "s1",
		Bucket:    "bucketX",
		Index:     "<html></html>",
		Files:     map[string]string{"app.js": "k1"},
	}
}

func runRequest(names ...string) domain.RunRequest {
	return domain.RunRequest{
		Bucket:    "bucketX",
		SessionID: "s1",
		URL:       "https://tests.example/s1/index.html",
		TestNames: names,
		Extra:     map[string]json.RawMessage{"retries": json.RawMessage(`0`)},
	}
}

func (f *fixture) expectLaunch(m *domain.Manifest) {
	f.driver.EXPECT().Launch(gomock.Any()).Return(f.browser, nil)
	f.resolver.EXPECT().Resolve(gomock.Any(), "bucketX", "s1").Return(m, nil)
}

func TestRun_ExecutesTestsInOrder(t *testing.T) {
	f := newFixture(t)
	m := sessionManifest()
	req := runRequest("a", "b", "c")
	f.expectLaunch(m)
	f.browser.EXPECT().OpenTab(gomock.Any(), req.URL).Return(f.tab, nil)

	tabCtx := domain.TabContext{Manifest: m}
	gomock.InOrder(
		f.tab.EXPECT().RunTest(gomock.Any(), req.OptionsFor("a"), tabCtx).
			Return(domain.TestResult{TestName: "a", Result: json.RawMessage(`{"passed":true}`)}, nil),
		f.tab.EXPECT().RunTest(gomock.Any(), req.OptionsFor("b"), tabCtx).
			Return(domain.TestResult{TestName: "b"}, nil),
		f.tab.EXPECT().RunTest(gomock.Any(), req.OptionsFor("c"), tabCtx).
			Return(domain.TestResult{}, nil),
		f.browser.EXPECT().Kill().Return(nil),
	)

	resp, err := f.orch.Run(context.Background(), req, logStream)
	require.NoError(t, err)

	assert.Equal(t, 200, resp.StatusCode)
	require.Len(t, resp.Body, 3)
	for i, name := range []string{"a", "b", "c"} {
		assert.Equal(t, name, resp.Body[i].TestName)
		assert.Equal(t, logStream, resp.Body[i].LogStream)
	}
	assert.JSONEq(t, `{"passed":true}`, string(resp.Body[0].Result))
	assert.Equal(t, []string{"a", "b", "c"}, req.TestNames, "the request queue is not consumed")
}

func TestRun_FailingTestAbortsQueue(t *testing.T) {
	f := newFixture(t)
	req := runRequest("a", "b", "c")
	f.expectLaunch(sessionManifest())
	f.browser.EXPECT().OpenTab(gomock.Any(), req.URL).Return(f.tab, nil)

	testErr := errors.New("assertion failed")
	gomock.InOrder(
		f.tab.EXPECT().RunTest(gomock.Any(), req.OptionsFor("a"), gomock.Any()).Return(domain.TestResult{}, nil),
		f.tab.EXPECT().RunTest(gomock.Any(), req.OptionsFor("b"), gomock.Any()).Return(domain.TestResult{}, testErr),
		f.browser.EXPECT().Kill().Return(nil).Times(1),
	)

	resp, err := f.orch.Run(context.Background(), req, logStream)
	require.ErrorIs(t, err, testErr)
	assert.Equal(t, logStream, domain.LogStreamOf(err))
	assert.Nil(t, resp.Body, "partial results are discarded")

	failure := domain.NewFailureResponse(err)
	assert.Equal(t, logStream, failure.LogStream)
	assert.Contains(t, failure.ErrorMessage, "assertion failed")
}

func TestRun_ManifestFetchFailureKillsBrowser(t *testing.T) {
	f := newFixture(t)
	fetchErr := zerr.Wrap(errors.New("throttled"), domain.ErrStorageGetFailed.Error())
	f.driver.EXPECT().Launch(gomock.Any()).Return(f.browser, nil)
	f.resolver.EXPECT().Resolve(gomock.Any(), "bucketX", "s1").Return(nil, fetchErr)
	f.browser.EXPECT().Kill().Return(nil).Times(1)

	_, err := f.orch.Run(context.Background(), runRequest("a"), logStream)
	require.ErrorIs(t, err, fetchErr)
	assert.Equal(t, logStream, domain.LogStreamOf(err))
}

func TestRun_MissingManifestForSession(t *testing.T) {
	f := newFixture(t)
	f.expectLaunch(nil)
	f.browser.EXPECT().Kill().Return(nil).Times(1)

	_, err := f.orch.Run(context.Background(), runRequest("a"), logStream)
	require.ErrorIs(t, err, domain.ErrMissingManifest)
	assert.Equal(t, logStream, domain.LogStreamOf(err))
	assert.Contains(t, domain.ChainMessage(err), "missing manifest")
	assert.Contains(t, domain.ChainMessage(err), "no manifest for session s1", "the failure names the session")
}

func TestRun_NoSessionToleratesMissingManifest(t *testing.T) {
	f := newFixture(t)
	req := runRequest("a")
	req.SessionID = ""

	f.driver.EXPECT().Launch(gomock.Any()).Return(f.browser, nil)
	f.resolver.EXPECT().Resolve(gomock.Any(), "bucketX", "").Return(nil, nil)
	f.browser.EXPECT().OpenTab(gomock.Any(), req.URL).Return(f.tab, nil)
	f.tab.EXPECT().RunTest(gomock.Any(), req.OptionsFor("a"), domain.TabContext{}).
		Return(domain.TestResult{TestName: "a"}, nil)
	f.browser.EXPECT().Kill().Return(nil)

	resp, err := f.orch.Run(context.Background(), req, logStream)
	require.NoError(t, err)
	require.Len(t, resp.Body, 1)
}

func TestRun_LaunchFailureSkipsKill(t *testing.T) {
	f := newFixture(t)
	launchErr := zerr.Wrap(errors.New("no capacity"), domain.ErrBrowserLaunchFailed.Error())
	f.driver.EXPECT().Launch(gomock.Any()).Return(nil, launchErr)
	f.resolver.EXPECT().Resolve(gomock.Any(), gomock.Any(), gomock.Any()).Return(sessionManifest(), nil).AnyTimes()

	_, err := f.orch.Run(context.Background(), runRequest("a"), logStream)
	require.ErrorIs(t, err, launchErr)
	assert.Equal(t, logStream, domain.LogStreamOf(err))
}

func TestRun_TabOpenFailureKillsBrowser(t *testing.T) {
	f := newFixture(t)
	req := runRequest("a")
	openErr := zerr.Wrap(errors.New("net::ERR_NAME_NOT_RESOLVED"), domain.ErrTabOpenFailed.Error())
	f.expectLaunch(sessionManifest())
	f.browser.EXPECT().OpenTab(gomock.Any(), req.URL).Return(nil, openErr)
	f.browser.EXPECT().Kill().Return(nil).Times(1)

	_, err := f.orch.Run(context.Background(), req, logStream)
	require.ErrorIs(t, err, openErr)
}

func TestRun_KillFailureFailsRun(t *testing.T) {
	f := newFixture(t)
	req := runRequest("a")
	killErr := zerr.Wrap(errors.New("target closed"), domain.ErrBrowserKillFailed.Error())
	f.expectLaunch(sessionManifest())
	f.browser.EXPECT().OpenTab(gomock.Any(), req.URL).Return(f.tab, nil)
	f.tab.EXPECT().RunTest(gomock.Any(), gomock.Any(), gomock.Any()).Return(domain.TestResult{}, nil)
	f.browser.EXPECT().Kill().Return(killErr).Times(1)
	f.logger.EXPECT().Error(killErr)

	resp, err := f.orch.Run(context.Background(), req, logStream)
	require.ErrorIs(t, err, killErr)
	assert.Nil(t, resp.Body)
}

func TestRun_EmptyQueue(t *testing.T) {
	f := newFixture(t)
	req := runRequest()
	f.expectLaunch(sessionManifest())
	f.browser.EXPECT().OpenTab(gomock.Any(), req.URL).Return(f.tab, nil)
	f.browser.EXPECT().Kill().Return(nil)

	resp, err := f.orch.Run(context.Background(), req, logStream)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Empty(t, resp.Body)
}

func TestRun_LaunchAndResolveOverlap(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t)
		req := runRequest()
		resolving := make(chan struct{})

		// Launch only returns once the manifest lookup has started, which deadlocks the
		// bubble unless both run concurrently.
		f.driver.EXPECT().Launch(gomock.Any()).DoAndReturn(func(context.Context) (ports.Browser, error) {
			<-resolving
			return f.browser, nil
		})
		f.resolver.EXPECT().Resolve(gomock.Any(), "bucketX", "s1").
			DoAndReturn(func(context.Context, string, string) (*domain.Manifest, error) {
				close(resolving)
				return sessionManifest(), nil
			})
		f.browser.EXPECT().OpenTab(gomock.Any(), req.URL).Return(f.tab, nil)
		f.browser.EXPECT().Kill().Return(nil)

		_, err := f.orch.Run(context.Background(), req, logStream)
		require.NoError(t, err)
	})
}
