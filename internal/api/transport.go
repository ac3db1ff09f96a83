package api

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/duboisf/donate/internal/observability"
)

// Identity is what a server-mode client tells the API about itself.
type Identity struct {
	Environment  string
	SharedSecret string
	AppID        string
	UserAgent    string
}

// instrumentedTransport is the HTTP layer under every versioned client. It
// applies the headers the links attached to the context, identifies server
// renders to the API and, when asked, logs how long each call took.
type instrumentedTransport struct {
	mode     Mode
	identity Identity
	debug    bool
	logger   *zap.Logger
	metrics  *observability.Collector
	wrapped  http.RoundTripper
}

// RoundTrip implements http.RoundTripper. It clones the request before
// modifying headers, as required by the RoundTripper contract.
func (t *instrumentedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	req = req.Clone(ctx)

	for name, values := range HeadersFromContext(ctx) {
		req.Header.Del(name)
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}

	if t.mode == ModeServer {
		req.Header.Set("X-Environment", t.identity.Environment)
		req.Header.Set("X-Shared-Secret", t.identity.SharedSecret)
		req.Header.Set("X-App-Id", t.identity.AppID)
		req.Header.Set("User-Agent", t.identity.UserAgent)
	} else if req.Header.Get("User-Agent") == "" {
		// An empty value stops net/http from adding its default agent.
		req.Header["User-Agent"] = []string{""}
	}

	start := time.Now()
	resp, err := t.wrapped.RoundTrip(req)
	elapsed := time.Since(start)

	op, _ := operationFromContext(ctx)
	if op.name == "" {
		op.name = "anonymous"
	}
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	t.metrics.ObserveRequest(op.name, string(APIVersionFromContext(ctx)), status, elapsed)

	if t.mode == ModeServer && t.debug {
		t.logger.Info("graphql request",
			zap.String("operation", op.name),
			zap.Any("variables", op.variables),
			zap.Int64("duration_ms", elapsed.Milliseconds()),
		)
	}
	return resp, err
}
