package api

import (
	"context"
	"net/http"
)

// APIVersion selects the upstream endpoint of an operation.
type APIVersion string

const (
	APIVersion1 APIVersion = "1"
	APIVersion2 APIVersion = "2"
)

// FetchPolicy controls whether a query may be answered from cache.
type FetchPolicy int

const (
	// CacheFirst answers from cache when the full result is present.
	CacheFirst FetchPolicy = iota
	// NetworkOnly always asks the server, subject to the client's
	// force-fetch rules.
	NetworkOnly
)

func (p FetchPolicy) String() string {
	if p == NetworkOnly {
		return "network-only"
	}
	return "cache-first"
}

// ParseFetchPolicy accepts "cache-first", "network-only" or "" (cache-first).
func ParseFetchPolicy(s string) (FetchPolicy, bool) {
	switch s {
	case "", "cache-first":
		return CacheFirst, true
	case "network-only":
		return NetworkOnly, true
	}
	return CacheFirst, false
}

type (
	apiVersionKey  struct{}
	fetchPolicyKey struct{}
	headersKey     struct{}
	operationKey   struct{}
	factoryKey     struct{}
)

// WithAPIVersion tags ctx so operations executed with it go to version v.
func WithAPIVersion(ctx context.Context, v APIVersion) context.Context {
	return context.WithValue(ctx, apiVersionKey{}, v)
}

// APIVersionFromContext returns the version tagged on ctx. Anything other
// than APIVersion2, including no tag at all, is APIVersion1.
func APIVersionFromContext(ctx context.Context) APIVersion {
	if v, _ := ctx.Value(apiVersionKey{}).(APIVersion); v == APIVersion2 {
		return APIVersion2
	}
	return APIVersion1
}

// WithFetchPolicy sets the fetch policy of operations executed with ctx.
func WithFetchPolicy(ctx context.Context, p FetchPolicy) context.Context {
	return context.WithValue(ctx, fetchPolicyKey{}, p)
}

// FetchPolicyFromContext returns the requested policy, CacheFirst by default.
func FetchPolicyFromContext(ctx context.Context) FetchPolicy {
	p, _ := ctx.Value(fetchPolicyKey{}).(FetchPolicy)
	return p
}

// WithHeaders attaches extra HTTP headers sent with the operation.
func WithHeaders(ctx context.Context, h http.Header) context.Context {
	return context.WithValue(ctx, headersKey{}, h)
}

// HeadersFromContext returns the headers attached with WithHeaders.
func HeadersFromContext(ctx context.Context) http.Header {
	h, _ := ctx.Value(headersKey{}).(http.Header)
	return h
}

// operation is what the transport needs to know about the request it is
// carrying.
type operation struct {
	name      string
	variables any
}

func withOperation(ctx context.Context, op operation) context.Context {
	return context.WithValue(ctx, operationKey{}, op)
}

func operationFromContext(ctx context.Context) (operation, bool) {
	op, ok := ctx.Value(operationKey{}).(operation)
	return op, ok
}

// WithFactory stores f in ctx.
func WithFactory(ctx context.Context, f *Factory) context.Context {
	return context.WithValue(ctx, factoryKey{}, f)
}

// FactoryFromContext returns the factory stored with WithFactory, or nil.
func FactoryFromContext(ctx context.Context) *Factory {
	f, _ := ctx.Value(factoryKey{}).(*Factory)
	return f
}
