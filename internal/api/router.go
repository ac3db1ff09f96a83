package api

import (
	"context"
	"net/http"

	"github.com/Khan/genqlient/graphql"
)

// Endpoints holds the base URL of each API version.
type Endpoints struct {
	V1 string
	V2 string
}

// DefaultEndpoints are used when Options.Endpoints is left empty.
var DefaultEndpoints = Endpoints{
	V1: "https://api.donate.example/graphql",
	V2: "https://api.donate.example/v2/graphql",
}

// ResolveEndpoint returns the URL an operation for version is sent to. A
// non-empty override wins for every version.
func ResolveEndpoint(endpoints Endpoints, override string, version APIVersion) string {
	if override != "" {
		return override
	}
	if version == APIVersion2 {
		return endpoints.V2
	}
	return endpoints.V1
}

// versionRouter dispatches each operation to the client of the API version
// tagged on its context. Both clients share one HTTP client.
type versionRouter struct {
	v1 graphql.Client
	v2 graphql.Client
}

func newVersionRouter(endpoints Endpoints, override string, httpClient *http.Client) *versionRouter {
	return &versionRouter{
		v1: graphql.NewClient(ResolveEndpoint(endpoints, override, APIVersion1), httpClient),
		v2: graphql.NewClient(ResolveEndpoint(endpoints, override, APIVersion2), httpClient),
	}
}

func (r *versionRouter) MakeRequest(ctx context.Context, req *graphql.Request, resp *graphql.Response) error {
	ctx = withOperation(ctx, operation{name: operationLabel(req), variables: req.Variables})
	if APIVersionFromContext(ctx) == APIVersion2 {
		return r.v2.MakeRequest(ctx, req, resp)
	}
	return r.v1.MakeRequest(ctx, req, resp)
}

// operationLabel names req for metrics and timing logs. A name that matches
// no operation of the document is reported as "other", so callers cannot
// mint label values.
func operationLabel(req *graphql.Request) string {
	op, ok := findOperation(req)
	switch {
	case !ok:
		return "other"
	case op.Name == "":
		return "anonymous"
	}
	return op.Name
}
