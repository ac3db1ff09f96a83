package api_test

import (
	"context"
	"testing"

	"github.com/duboisf/donate/internal/api"
)

func TestResolveEndpoint(t *testing.T) {
	t.Parallel()

	endpoints := api.Endpoints{V1: "https://api.test/graphql", V2: "https://api.test/v2/graphql"}

	tests := []struct {
		name     string
		override string
		version  api.APIVersion
		want     string
	}{
		{name: "v1", version: api.APIVersion1, want: endpoints.V1},
		{name: "v2", version: api.APIVersion2, want: endpoints.V2},
		{name: "unknown version is v1", version: "7", want: endpoints.V1},
		{name: "override wins for v2", override: "https://example.test/graphql", version: api.APIVersion2, want: "https://example.test/graphql"},
		{name: "override wins for v1", override: "https://example.test/graphql", version: api.APIVersion1, want: "https://example.test/graphql"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := api.ResolveEndpoint(endpoints, tt.override, tt.version); got != tt.want {
				t.Errorf("ResolveEndpoint() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAPIVersionFromContext(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ctx  context.Context
		want api.APIVersion
	}{
		{name: "unset", ctx: context.Background(), want: api.APIVersion1},
		{name: "v2", ctx: api.WithAPIVersion(context.Background(), api.APIVersion2), want: api.APIVersion2},
		{name: "unknown", ctx: api.WithAPIVersion(context.Background(), "3"), want: api.APIVersion1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := api.APIVersionFromContext(tt.ctx); got != tt.want {
				t.Errorf("APIVersionFromContext() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseFetchPolicy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		want   api.FetchPolicy
		wantOK bool
	}{
		{in: "", want: api.CacheFirst, wantOK: true},
		{in: "cache-first", want: api.CacheFirst, wantOK: true},
		{in: "network-only", want: api.NetworkOnly, wantOK: true},
		{in: "cache-only", want: api.CacheFirst, wantOK: false},
	}

	for _, tt := range tests {
		got, ok := api.ParseFetchPolicy(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseFetchPolicy(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}
