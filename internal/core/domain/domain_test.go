package domain_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/tabworker/internal/core/domain"
	"go.trai.ch/zerr"
)

func TestManifestKey(t *testing.T) {
	assert.Equal(t, "session-abc.json", domain.ManifestKey("abc"))

	m := &domain.Manifest{SessionID: "s1"}
	assert.Equal(t, "session-s1.json", m.Key())
}

func TestManifest_EncodeUsesStoredFieldNames(t *testing.T) {
	m := &domain.Manifest{
		SessionID: "s1",
		Bucket:    "b",
		Index:     "<html></html>",
		Files:     map[string]string{"js/app.js": "abc123"},
	}

	data, err := m.Encode()
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "s1", raw["sessionId"])
	assert.Equal(t, "b", raw["bucket"])
	assert.Equal(t, "<html></html>", raw["index"])
	assert.Equal(t, map[string]any{"js/app.js": "abc123"}, raw["files"])
}

func TestDecodeManifest(t *testing.T) {
	m, err := domain.DecodeManifest([]byte(`{"sessionId":"s","bucket":"b","index":"hi"}`))
	require.NoError(t, err)
	assert.Equal(t, "hi", m.Index)
	assert.NotNil(t, m.Files)

	_, err = domain.DecodeManifest([]byte(`{not json`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrManifestDecodeFailed.Error())
}

func TestManifest_Validate(t *testing.T) {
	require.NoError(t, (&domain.Manifest{SessionID: "s", Bucket: "b"}).Validate())

	err := (&domain.Manifest{SessionID: "s"}).Validate()
	require.ErrorIs(t, err, domain.ErrInvalidManifest)

	err = (&domain.Manifest{Bucket: "b"}).Validate()
	require.ErrorIs(t, err, domain.ErrInvalidManifest)
}

func TestManifest_LookupAndPaths(t *testing.T) {
	m := &domain.Manifest{Files: map[string]string{"b.css": "k2", "a.js": "k1", "empty": ""}}

	key, ok := m.Lookup("a.js")
	assert.True(t, ok)
	assert.Equal(t, "k1", key)

	_, ok = m.Lookup("missing")
	assert.False(t, ok)

	_, ok = m.Lookup("empty")
	assert.False(t, ok, "an empty key is treated as unmapped")

	assert.Equal(t, []string{"a.js", "b.css", "empty"}, m.Paths())
}

func TestRunRequest_PassthroughFields(t *testing.T) {
	var req domain.RunRequest
	err := json.Unmarshal([]byte(`{
		"Bucket": "bucketX",
		"sessionId": "sess1",
		"url": "https://example.test/",
		"testNames": ["a", "b"],
		"testName": "stale",
		"timeoutMs": 5000,
		"flags": {"slow": true}
	}`), &req)
	require.NoError(t, err)

	assert.Equal(t, "bucketX", req.Bucket)
	assert.Equal(t, "sess1", req.SessionID)
	assert.Equal(t, []string{"a", "b"}, req.TestNames)
	require.Len(t, req.Extra, 2)

	data, err := json.Marshal(req.OptionsFor("b"))
	require.NoError(t, err)

	var opts map[string]any
	require.NoError(t, json.Unmarshal(data, &opts))
	assert.Equal(t, "b", opts["testName"])
	assert.Equal(t, "bucketX", opts["Bucket"])
	assert.Equal(t, "sess1", opts["sessionId"])
	assert.InDelta(t, 5000, opts["timeoutMs"], 0)
	assert.Equal(t, map[string]any{"slow": true}, opts["flags"])
	assert.NotContains(t, opts, "testNames")
}

func TestRunRequest_OptionsDoNotAliasRequest(t *testing.T) {
	req := domain.RunRequest{Extra: map[string]json.RawMessage{"k": json.RawMessage(`1`)}}
	opts := req.OptionsFor("a")
	opts.Extra["k"] = json.RawMessage(`2`)

	assert.JSONEq(t, `1`, string(req.Extra["k"]))
}

func TestRunRequest_OmitsEmptySession(t *testing.T) {
	data, err := json.Marshal(domain.RunRequest{Bucket: "b", URL: "u"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"Bucket":"b","url":"u","testNames":[]}`, string(data))
}

func TestLogStreamOf(t *testing.T) {
	err := zerr.With(zerr.Wrap(errors.New("boom"), "test run failed"), domain.MetaLogStream, "stream-1")
	assert.Equal(t, "stream-1", domain.LogStreamOf(err))

	assert.Empty(t, domain.LogStreamOf(errors.New("plain")))

	resp := domain.NewFailureResponse(err)
	assert.Equal(t, "stream-1", resp.LogStream)
	assert.Equal(t, "test run failed: boom", resp.ErrorMessage)
}

func TestChainMessage(t *testing.T) {
	err := zerr.Wrap(zerr.Wrap(domain.ErrMissingManifest, "no manifest for session s1"), "test run failed")
	assert.Equal(t, "test run failed: no manifest for session s1: missing manifest", domain.ChainMessage(err))
	assert.Equal(t, "plain", domain.ChainMessage(errors.New("plain")))
}

func TestRoutingResponses(t *testing.T) {
	r := domain.HTML("<html>hi</html>")
	assert.Equal(t, 200, r.StatusCode)
	assert.Equal(t, "text/html", r.Headers["content-type"])

	r = domain.NotFound(domain.BodyPathNotFound)
	assert.Equal(t, 404, r.StatusCode)
	assert.Equal(t, "path not found in manifest", r.Body)

	r = domain.Redirect("https://x/y")
	assert.Equal(t, 301, r.StatusCode)
	assert.Equal(t, "https://x/y", r.Headers["Location"])
}

func TestObjectURL(t *testing.T) {
	assert.Equal(t,
		"https://s3-us-west-2.amazonaws.com/bucketX/abc123",
		domain.ObjectURL("https://s3-us-west-2.amazonaws.com/", "bucketX", "abc123"))
	assert.Equal(t,
		"https://store/b/a%2Fb%20c",
		domain.ObjectURL("https://store", "b", "a/b c"))
	assert.Equal(t,
		"https://store/b/a%2Bb%3Ac%40d%26e%3Df%24g%2Ch%3Bi",
		domain.ObjectURL("https://store", "b", "a+b:c@d&e=f$g,h;i"))
	assert.Equal(t,
		"https://store/b/it's~(v1)!*.js",
		domain.ObjectURL("https://store", "b", "it's~(v1)!*.js"))
}

func TestRunState_Transitions(t *testing.T) {
	assert.True(t, domain.StateIdle.CanTransition(domain.StateLaunching))
	assert.True(t, domain.StateRunning.CanTransition(domain.StateRunning))
	assert.True(t, domain.StateFailed.CanTransition(domain.StateTornDown))
	assert.False(t, domain.StateDone.CanTransition(domain.StateRunning))
	assert.False(t, domain.StateTornDown.CanTransition(domain.StateIdle))
}
