package api_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/duboisf/donate/internal/keyring"
)

// recordedRequest stores the parts of an upstream request the tests check.
type recordedRequest struct {
	path   string
	header http.Header
	body   string
}

// recorder collects requests received by a test server.
type recorder struct {
	mu       sync.Mutex
	requests []recordedRequest
}

func (r *recorder) all() []recordedRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recordedRequest(nil), r.requests...)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.requests)
}

func (r *recorder) last(t *testing.T) recordedRequest {
	t.Helper()
	all := r.all()
	if len(all) == 0 {
		t.Fatal("no request reached the server")
	}
	return all[len(all)-1]
}

// newRecordingServer answers every request with responseBody and records it.
func newRecordingServer(t *testing.T, responseBody string) (*httptest.Server, *recorder) {
	t.Helper()
	rec := &recorder{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		rec.mu.Lock()
		rec.requests = append(rec.requests, recordedRequest{
			path:   r.URL.Path,
			header: r.Header.Clone(),
			body:   string(body),
		})
		rec.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(responseBody))
	}))
	t.Cleanup(server.Close)
	return server, rec
}

// newObservedLogger returns a logger whose entries can be inspected.
func newObservedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return zap.New(core), logs
}

// failingProvider is a credential store that cannot be read.
type failingProvider struct{}

var _ keyring.Provider = failingProvider{}

func (failingProvider) AccessToken() (string, error) {
	return "", errors.New("keychain locked")
}

func (failingProvider) StoreAccessToken(string) error {
	return errors.New("keychain locked")
}

const campaignJSON = `{
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

const donationJSON = `{
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

// newBlockingServer calls onRequest before answering each request with
// responseBody.
func newBlockingServer(t *testing.T, responseBody string, onRequest func()) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		onRequest()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(responseBody))
	}))
	t.Cleanup(server.Close)
	return server
}
