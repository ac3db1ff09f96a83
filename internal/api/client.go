package api

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Khan/genqlient/graphql"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/parser"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/duboisf/donate/internal/cache"
	"github.com/duboisf/donate/internal/config"
	"github.com/duboisf/donate/internal/keyring"
	"github.com/duboisf/donate/internal/logging"
	"github.com/duboisf/donate/internal/observability"
)

// DefaultForceFetchDelay is how long after construction a browser-mode
// client still answers network-only queries from cache.
const DefaultForceFetchDelay = 100 * time.Millisecond

// Options configures clients built by NewClient and Factory.
type Options struct {
	Mode      Mode
	Endpoints Endpoints
	// EndpointOverride, when set, receives the traffic of every API version.
	EndpointOverride string
	// Identity is sent with every request in server mode.
	Identity Identity
	// Debug logs the timing of each server-mode request.
	Debug bool

	// Credentials supplies the bearer token. Nil means anonymous.
	Credentials keyring.Provider
	Logger      *zap.Logger
	Metrics     *observability.Collector

	// Timeout bounds each HTTP call. Defaults to 30s.
	Timeout time.Duration
	// ForceFetchDelay defaults to DefaultForceFetchDelay; a negative value
	// disables the window.
	ForceFetchDelay time.Duration
	// Transport is the underlying RoundTripper. Defaults to
	// http.DefaultTransport.
	Transport http.RoundTripper
	Cache     cache.Options

	// now is replaced in tests.
	now func() time.Time
}

// OptionsFromConfig maps the loaded configuration onto client options.
// Credentials, Logger and Metrics are left for the caller.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	mode, err := ParseMode(cfg.Mode)
	if err != nil {
		return Options{}, err
	}
	return Options{
		Mode:             mode,
		Endpoints:        Endpoints{V1: cfg.API.V1URL, V2: cfg.API.V2URL},
		EndpointOverride: cfg.API.Endpoint,
		Identity: Identity{
			Environment:  cfg.Environment,
			SharedSecret: cfg.SharedSecret,
			AppID:        cfg.AppID,
			UserAgent:    cfg.UserAgent,
		},
		Debug:           cfg.Debug,
		Timeout:         cfg.API.Timeout,
		ForceFetchDelay: cfg.API.ForceFetchDelay,
	}, nil
}

// Client executes GraphQL operations through the link chain and keeps their
// results in a normalized cache. It implements graphql.Client, so generated
// operation functions can use it directly.
type Client struct {
	opts    Options
	logger  *zap.Logger
	cache   *cache.Cache
	chain   graphql.Client
	created time.Time
	group   singleflight.Group
}

var _ graphql.Client = (*Client)(nil)

// NewClient builds a client whose cache is seeded from initial, which may be
// nil.
func NewClient(initial cache.Snapshot, opts Options) *Client {
	if opts.Endpoints == (Endpoints{}) {
		opts.Endpoints = DefaultEndpoints
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.ForceFetchDelay == 0 {
		opts.ForceFetchDelay = DefaultForceFetchDelay
	}
	if opts.Transport == nil {
		opts.Transport = http.DefaultTransport
	}
	if opts.now == nil {
		opts.now = time.Now
	}
	logger := logging.OrNop(opts.Logger)

	httpClient := &http.Client{
		Timeout: opts.Timeout,
		Transport: &instrumentedTransport{
			mode:     opts.Mode,
			identity: opts.Identity,
			debug:    opts.Debug,
			logger:   logger,
			metrics:  opts.Metrics,
			wrapped:  opts.Transport,
		},
	}

	c := &Client{
		opts:   opts,
		logger: logger,
		cache:  cache.New(opts.Cache),
		chain: Chain(
			newVersionRouter(opts.Endpoints, opts.EndpointOverride, httpClient),
			ErrorLink(logger),
			AuthLink(opts.Credentials, logger),
		),
		created: opts.now(),
	}
	if initial != nil {
		c.cache.Restore(initial)
	}
	return c
}

// Mode returns the execution mode the client was built for.
func (c *Client) Mode() Mode { return c.opts.Mode }

// Cache returns the client's normalized cache.
func (c *Client) Cache() *cache.Cache { return c.cache }

// Extract returns a copy of the cache contents, ready to be serialized and
// handed to another client's NewClient.
func (c *Client) Extract() cache.Snapshot { return c.cache.Extract() }

// result is one network execution, shared between deduplicated callers.
type result struct {
	data       json.RawMessage
	errors     gqlerror.List
	extensions map[string]interface{}
}

// MakeRequest implements graphql.Client.
//
// Queries are answered from cache under CacheFirst when the whole result is
// present; otherwise identical in-flight queries share one network call.
// Mutations always go to the network. Successful results are written to the
// cache. Data is decoded into resp even when the server also sent errors.
func (c *Client) MakeRequest(ctx context.Context, req *graphql.Request, resp *graphql.Response) error {
	version := APIVersionFromContext(ctx)
	ctx = WithAPIVersion(ctx, version)
	key := storeKey(version, req)

	kind, parsed := operationType(req)
	if !parsed {
		res, err := c.execute(ctx, req)
		return c.deliver(res, resp, err)
	}

	if kind == ast.Mutation {
		res, err := c.execute(ctx, req)
		if err == nil {
			c.write(cache.RootMutation, key, res.data)
		}
		return c.deliver(res, resp, err)
	}

	if kind == ast.Query && c.fetchPolicy(ctx) == CacheFirst {
		if data, ok := c.cache.Read(cache.RootQuery, key); ok {
			c.opts.Metrics.CacheHit()
			return c.deliver(&result{data: data}, resp, nil)
		}
		c.opts.Metrics.CacheMiss()
	}

	// The shared call outlives any one caller; each caller stops waiting when
	// its own context ends.
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		res, err := c.execute(shared, req)
		if err == nil && kind == ast.Query {
			c.write(cache.RootQuery, key, res.data)
		}
		return res, err
	})
	select {
	case <-ctx.Done():
		return ctx.Err()
	case r := <-ch:
		res, _ := r.Val.(*result)
		return c.deliver(res, resp, r.Err)
	}
}

func (c *Client) execute(ctx context.Context, req *graphql.Request) (*result, error) {
	var raw json.RawMessage
	inner := &graphql.Response{Data: &raw}
	err := c.chain.MakeRequest(ctx, req, inner)
	return &result{data: raw, errors: inner.Errors, extensions: inner.Extensions}, err
}

func (c *Client) write(root, key string, data json.RawMessage) {
	if len(data) == 0 || string(data) == "null" {
		return
	}
	if err := c.cache.Write(root, key, data); err != nil {
		c.logger.Warn("caching result", zap.String("key", key), zap.Error(err))
	}
}

// deliver copies res into the caller's response and returns err.
func (c *Client) deliver(res *result, resp *graphql.Response, err error) error {
	if res == nil || resp == nil {
		return err
	}
	resp.Errors = res.errors
	resp.Extensions = res.extensions
	if resp.Data != nil && len(res.data) > 0 {
		if uerr := json.Unmarshal(res.data, resp.Data); uerr != nil && err == nil {
			return fmt.Errorf("decoding response data: %w", uerr)
		}
	}
	return err
}

// fetchPolicy applies the client's force-fetch rules to the requested
// policy: server renders never refetch, and a fresh browser client serves
// hydrated data for ForceFetchDelay before honoring NetworkOnly.
func (c *Client) fetchPolicy(ctx context.Context) FetchPolicy {
	if FetchPolicyFromContext(ctx) != NetworkOnly {
		return CacheFirst
	}
	if c.opts.Mode == ModeServer {
		return CacheFirst
	}
	if c.opts.ForceFetchDelay > 0 && c.opts.now().Sub(c.created) < c.opts.ForceFetchDelay {
		return CacheFirst
	}
	return NetworkOnly
}

// operationType reports the type of the operation req executes. It returns
// false when the document does not parse or names no known operation.
func operationType(req *graphql.Request) (ast.Operation, bool) {
	op, ok := findOperation(req)
	if !ok {
		return "", false
	}
	return op.Operation, true
}

// findOperation returns the operation of req's document that req executes.
func findOperation(req *graphql.Request) (*ast.OperationDefinition, bool) {
	doc, err := parser.ParseQuery(&ast.Source{Input: req.Query})
	if err != nil {
		return nil, false
	}
	for _, op := range doc.Operations {
		if req.OpName == "" && len(doc.Operations) == 1 || op.Name == req.OpName {
			return op, true
		}
	}
	return nil, false
}

// storeKey identifies a result in the cache and among in-flight requests.
// The document hash keeps differently shaped documents that share an
// operation name apart.
func storeKey(version APIVersion, req *graphql.Request) string {
	sum := sha256.Sum256([]byte(req.Query))
	doc := hex.EncodeToString(sum[:8])
	vars := []byte("{}")
	if req.Variables != nil {
		if b, err := json.Marshal(req.Variables); err == nil && string(b) != "null" {
			vars = b
		}
	}
	if req.OpName == "" {
		return fmt.Sprintf("v%s:%s(%s)", version, doc, vars)
	}
	return fmt.Sprintf("v%s:%s#%s(%s)", version, req.OpName, doc, vars)
}
