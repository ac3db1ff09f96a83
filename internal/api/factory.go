package api

import (
	"sync"

	"github.com/duboisf/donate/internal/cache"
)

// Factory hands out clients according to its mode. In server mode every call
// builds a new client, so concurrent renders never share cache state. In
// browser mode the first call builds the client and every later call returns
// that same client, ignoring its arguments. There is no reset.
type Factory struct {
	opts Options

	mu       sync.Mutex
	instance *Client
}

// NewFactory creates a factory building clients with opts.
func NewFactory(opts Options) *Factory {
	return &Factory{opts: opts}
}

// Mode returns the factory's execution mode.
func (f *Factory) Mode() Mode { return f.opts.Mode }

// CreateClient returns a client seeded with initial and, when override is
// non-empty, sending all traffic to override.
func (f *Factory) CreateClient(initial cache.Snapshot, override string) *Client {
	if f.opts.Mode == ModeServer {
		return f.build(initial, override)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.instance == nil {
		f.instance = f.build(initial, override)
	}
	return f.instance
}

func (f *Factory) build(initial cache.Snapshot, override string) *Client {
	opts := f.opts
	if override != "" {
		opts.EndpointOverride = override
	}
	return NewClient(initial, opts)
}
