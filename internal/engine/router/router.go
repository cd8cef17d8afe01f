// Package router resolves asset requests against session manifests.
package router

import (
	"context"
	"net/url"
	"strings"

	"go.trai.ch/tabworker/internal/core/domain"
	"go.trai.ch/tabworker/internal/core/ports"
)

// Router answers requests for the assets of a session.
type Router struct {
	resolver      ports.ManifestResolver
	tracer        ports.Tracer
	objectURLBase string
}

// New creates a Router redirecting mapped paths to objects below objectURLBase.
func New(resolver ports.ManifestResolver, tracer ports.Tracer, objectURLBase string) *Router {
	return &Router{
		resolver:      resolver,
		tracer:        tracer,
		objectURLBase: objectURLBase,
	}
}

// Handle routes a raw request path of the form /<bucket>/<sessionId>/<sub-path...>.
// The sub-path is percent-decoded; the bucket and session segments are used verbatim.
func (r *Router) Handle(ctx context.Context, path string) (domain.Response, error) {
	parts := strings.SplitN(strings.TrimPrefix(path, "/"), "/", 3)
	for len(parts) < 3 {
		parts = append(parts, "")
	}

	subPath, err := url.PathUnescape(parts[2])
	if err != nil {
		return domain.BadRequest(domain.BodyInvalidPath), nil
	}
	return r.Route(ctx, parts[0], parts[1], subPath)
}

// Route answers a request for subPath of the session's manifest.
//
// A missing manifest or an unmapped path yields a 404 response, index.html is served
// inline and every other mapped path redirects to its stored object. Only storage failures
// are returned as errors.
func (r *Router) Route(ctx context.Context, bucket, sessionID, subPath string) (domain.Response, error) {
	ctx, span := r.tracer.Start(ctx, "router.route")
	defer span.End()
	span.SetAttribute(domain.MetaBucket, bucket)
	span.SetAttribute(domain.MetaSessionID, sessionID)
	span.SetAttribute(domain.MetaPath, subPath)

	m, err := r.resolver.Resolve(ctx, bucket, sessionID)
	if err != nil {
		span.RecordError(err)
		return domain.Response{}, err
	}

	resp := route(m, bucket, subPath, r.objectURLBase)
	span.SetAttribute("status", resp.StatusCode)
	return resp, nil
}

func route(m *domain.Manifest, bucket, subPath, objectURLBase string) domain.Response {
	if m == nil {
		return domain.NotFound(domain.BodyManifestNotFound)
	}
	if subPath == domain.IndexPath {
		return domain.HTML(m.Index)
	}
	key, ok := m.Lookup(subPath)
	if !ok {
		return domain.NotFound(domain.BodyPathNotFound)
	}
	return domain.Redirect(domain.ObjectURL(objectURLBase, bucket, key))
}
