package cmd_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/duboisf/donate/cmd"
	"github.com/duboisf/donate/internal/config"
	"github.com/duboisf/donate/internal/keyring"
	"github.com/duboisf/donate/internal/snapshot"
)

// --- Mock prompter ---

type staticPrompter struct {
	token string
	err   error
}

var _ keyring.Prompter = (*staticPrompter)(nil)

func (p *staticPrompter) PromptForAccessToken(_ io.Reader, _ io.Writer) (string, error) {
	return p.token, p.err
}

// --- GraphQL mock server ---

// graphqlRequest represents the JSON body of a GraphQL request.
type graphqlRequest struct {
	OperationName string          `json:"operationName"`
	Query         string          `json:"query"`
	Variables     json.RawMessage `json:"variables"`
}

// mockServer routes on operationName and records what it received.
type mockServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []graphqlRequest
	headers  []http.Header
	paths    []string
}

func (m *mockServer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

func (m *mockServer) last(t *testing.T) (graphqlRequest, http.Header, string) {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		t.Fatal("no request reached the server")
	}
	i := len(m.requests) - 1
	return m.requests[i], m.headers[i], m.paths[i]
}

// newMockGraphQLServer creates a server that answers each operation with the
// canned response in handlers. Anonymous operations use the "" key.
func newMockGraphQLServer(t *testing.T, handlers map[string]string) *mockServer {
	t.Helper()
	m := &mockServer{}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req graphqlRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "parsing json", http.StatusBadRequest)
			return
		}
		m.mu.Lock()
		m.requests = append(m.requests, req)
		m.headers = append(m.headers, r.Header.Clone())
		m.paths = append(m.paths, r.URL.Path)
		m.mu.Unlock()

		response, ok := handlers[req.OperationName]
		if !ok {
			http.Error(w, "unknown operation: "+req.OperationName, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(m.Close)
	return m
}

// testOptions creates cmd.Options wired to server, with a per-test snapshot
// directory, returning the stdout and stderr buffers for inspection.
func testOptions(t *testing.T, server *mockServer) (cmd.Options, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	endpoint := "http://127.0.0.1:1/graphql"
	if server != nil {
		endpoint = server.URL
	}
	opts := cmd.Options{
		LoadConfig: func(string) (*config.Config, error) {
			cfg := config.Default()
			cfg.API.V1URL = endpoint + "/v1"
			cfg.API.V2URL = endpoint + "/v2"
			return cfg, nil
		},
		Logger:      zap.NewNop(),
		Credentials: &keyring.StaticProvider{Token: "test-token"},
		Prompter:    &staticPrompter{token: "new-token"},
		Snapshots:   snapshot.New(t.TempDir(), time.Hour),
		Stdin:       &bytes.Buffer{},
		Stdout:      stdout,
		Stderr:      stderr,
	}
	return opts, stdout, stderr
}

// --- Shared test fixtures ---

const getCampaignResponse = `{
	"data": {
		"campaign": {
			"__typename": "Campaign",
			"id": "c1",
			"slug": "clean-water",
			"title": "Clean Water",
			"goal": 10000,
			"raised": 2500,
			"currency": "USD",
			"donationTiers": [
				{"amount": 10, "label": "Friend"},
				{"amount": 50, "label": "Patron"}
			]
		}
	}
}`

const createDonationResponse = `{
	"data": {
		"createDonation": {
			"__typename": "Donation",
			"id": "d1",
			"amount": 25,
			"currency": "USD",
			"campaign": {"__typename": "Campaign", "id": "c1", "raised": 2525}
		}
	}
}`

// executeCommand executes the given cobra command with args and captures
// the output cobra itself writes (help, completion scripts).
func executeCommand(root *cobra.Command, args ...string) (stdout, stderr string, err error) {
	outBuf := new(bytes.Buffer)
	errBuf := new(bytes.Buffer)
	root.SetOut(outBuf)
	root.SetErr(errBuf)
	root.SetArgs(args)
	err = root.Execute()
	return outBuf.String(), errBuf.String(), err
}

// run executes args on a fresh root command built from opts.
func run(opts cmd.Options, args ...string) error {
	root := cmd.NewRootCmd(opts)
	root.SetArgs(args)
	return root.Execute()
}
