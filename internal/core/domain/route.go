package domain

import (
	"net/http"
	"net/url"
	"strings"
)

// Response bodies of the negative routing results.
const (
	BodyManifestNotFound = "manifest not found"
	BodyPathNotFound     = "path not found in manifest"
	BodyInvalidPath      = "invalid route path"
)

// Header names used by routing responses.
const (
	HeaderContentType = "content-type"
	HeaderLocation    = "Location"
)

// Response is the HTTP-like result of routing a request.
type Response struct {
	StatusCode int               `json:"statusCode"`
	Headers    map[string]string `json:"headers"`
	Body       string            `json:"body,omitempty"`
}

// NotFound returns a 404 response with the given body.
func NotFound(body string) Response {
	return Response{StatusCode: http.StatusNotFound, Headers: map[string]string{}, Body: body}
}

// BadRequest returns a 400 response with the given body.
func BadRequest(body string) Response {
	return Response{StatusCode: http.StatusBadRequest, Headers: map[string]string{}, Body: body}
}

// HTML returns a 200 response carrying an HTML document.
func HTML(body string) Response {
	return Response{
		StatusCode: http.StatusOK,
		Headers:    map[string]string{HeaderContentType: "text/html"},
		Body:       body,
	}
}

// Redirect returns a 301 response pointing at location.
func Redirect(location string) Response {
	return Response{
		StatusCode: http.StatusMovedPermanently,
		Headers:    map[string]string{HeaderLocation: location},
	}
}

// ObjectURL builds the public URL of a stored object. The key is encoded as a single
// URI component.
func ObjectURL(base, bucket, key string) string {
	return strings.TrimSuffix(base, "/") + "/" + bucket + "/" + escapeComponent(key)
}

// componentMarks are left unescaped in a URI component but escaped by url.QueryEscape.
var componentMarks = strings.NewReplacer("%21", "!", "%27", "'", "%28", "(", "%29", ")", "%2A", "*")

// escapeComponent escapes every byte of s outside A-Z a-z 0-9 and -_.!~*'().
func escapeComponent(s string) string {
	return componentMarks.Replace(strings.ReplaceAll(url.QueryEscape(s), "+", "%20"))
}
