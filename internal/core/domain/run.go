package domain

import (
	"encoding/json"
	"maps"
)

// Field names of a run request that are not passed through verbatim.
const (
	fieldBucket    = "Bucket"
	fieldSessionID = "sessionId"
	fieldURL       = "url"
	fieldTestNames = "testNames"
	fieldTestName  = "testName"
)

// RunRequest is the input of one worker test run.
//
// Fields not modelled explicitly are kept in Extra and echoed into every per-test option set.
type RunRequest struct {
	Bucket    string
	SessionID string
	URL       string
	TestNames []string
	Extra     map[string]json.RawMessage
}

// UnmarshalJSON decodes a run request, keeping unknown fields in Extra.
func (r *RunRequest) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	decoded := RunRequest{}
	targets := map[string]any{
		fieldBucket:    &decoded.Bucket,
		fieldSessionID: &decoded.SessionID,
		fieldURL:       &decoded.URL,
		fieldTestNames: &decoded.TestNames,
	}
	for name, target := range targets {
		v, ok := raw[name]
		if !ok {
			continue
		}
		if err := json.Unmarshal(v, target); err != nil {
			return err
		}
		delete(raw, name)
	}
	// A stray per-test name is never passed through; each test gets its own.
	delete(raw, fieldTestName)

	if len(raw) > 0 {
		decoded.Extra = raw
	}
	*r = decoded
	return nil
}

// MarshalJSON encodes the request with its passthrough fields flattened.
func (r RunRequest) MarshalJSON() ([]byte, error) {
	out := r.base()
	names := r.TestNames
	if names == nil {
		names = []string{}
	}
	out[fieldTestNames] = names
	return json.Marshal(out)
}

func (r RunRequest) base() map[string]any {
	out := make(map[string]any, len(r.Extra)+4)
	for k, v := range r.Extra {
		out[k] = v
	}
	out[fieldBucket] = r.Bucket
	if r.SessionID != "" {
		out[fieldSessionID] = r.SessionID
	}
	out[fieldURL] = r.URL
	return out
}

// OptionsFor derives the option set of a single test: the shared configuration plus
// testName, without the bulk list of test names.
func (r RunRequest) OptionsFor(testName string) TestOptions {
	return TestOptions{
		Bucket:    r.Bucket,
		SessionID: r.SessionID,
		URL:       r.URL,
		TestName:  testName,
		Extra:     maps.Clone(r.Extra),
	}
}

// TestOptions is the configuration handed to the browser for one test.
type TestOptions struct {
	Bucket    string
	SessionID string
	URL       string
	TestName  string
	Extra     map[string]json.RawMessage
}

// MarshalJSON encodes the options as one flat object.
func (o TestOptions) MarshalJSON() ([]byte, error) {
	req := RunRequest{Bucket: o.Bucket, SessionID: o.SessionID, URL: o.URL, Extra: o.Extra}
	out := req.base()
	out[fieldTestName] = o.TestName
	return json.Marshal(out)
}

// TabContext is the read-only state shared by every test executed in one tab.
// Implementations must not modify the manifest.
type TabContext struct {
	Manifest *Manifest `json:"manifest"`
}

// TestResult is the outcome of one test reported by the browser.
type TestResult struct {
	TestName string `json:"testName"`
	// Result is the structured value the test page returned, kept verbatim.
	Result json.RawMessage `json:"result,omitempty"`
	// LogStream correlates the result with the worker log stream that produced it.
	LogStream string `json:"logStream"`
}

// RunResponse is the successful outcome of a test run.
type RunResponse struct {
	StatusCode int          `json:"statusCode"`
	Body       []TestResult `json:"body"`
}

// FailureResponse is the outcome reported for a failed test run.
type FailureResponse struct {
	ErrorMessage string `json:"errorMessage"`
	LogStream    string `json:"logStream"`
}

// NewFailureResponse builds the failure payload of err.
func NewFailureResponse(err error) FailureResponse {
	return FailureResponse{
		ErrorMessage: ChainMessage(err),
		LogStream:    LogStreamOf(err),
	}
}
