package chrome

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"go.trai.ch/tabworker/internal/core/domain"
	"go.trai.ch/tabworker/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Tab = (*Tab)(nil)

// Tab is a browser tab opened by Browser.OpenTab.
type Tab struct {
	ctx        context.Context
	cancel     context.CancelFunc
	entrypoint string
}

// RunTest calls the page's entrypoint with the test options and the tab context and
// waits for the returned promise.
func (t *Tab) RunTest(ctx context.Context, opts domain.TestOptions, tabCtx domain.TabContext) (domain.TestResult, error) {
	expr, err := testExpression(t.entrypoint, opts, tabCtx)
	if err != nil {
		return domain.TestResult{}, zerr.With(err, domain.MetaTestName, opts.TestName)
	}

	var raw []byte
	err = runBounded(ctx, t.ctx, t.cancel, chromedp.Evaluate(expr, &raw, awaitPromise))
	if err != nil {
		err = zerr.Wrap(err, domain.ErrTestExecutionFailed.Error())
		return domain.TestResult{}, zerr.With(err, domain.MetaTestName, opts.TestName)
	}

	result := domain.TestResult{TestName: opts.TestName}
	if len(raw) > 0 && json.Valid(raw) {
		result.Result = json.RawMessage(raw)
	}
	return result, nil
}

func awaitPromise(p *runtime.EvaluateParams) *runtime.EvaluateParams {
	return p.WithAwaitPromise(true)
}

// testExpression renders the JavaScript call running one test.
func testExpression(entrypoint string, opts domain.TestOptions, tabCtx domain.TabContext) (string, error) {
	optsJSON, err := json.Marshal(opts)
	if err != nil {
		return "", zerr.Wrap(err, "failed to encode test options")
	}
	ctxJSON, err := json.Marshal(tabCtx)
	if err != nil {
		return "", zerr.Wrap(err, "failed to encode tab context")
	}
	return fmt.Sprintf("window.%s(%s, %s)", entrypoint, optsJSON, ctxJSON), nil
}
