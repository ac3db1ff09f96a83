package api

import (
	"context"

	"github.com/Khan/genqlient/graphql"
)

// ClientFunc adapts a function to graphql.Client.
type ClientFunc func(ctx context.Context, req *graphql.Request, resp *graphql.Response) error

// MakeRequest calls f.
func (f ClientFunc) MakeRequest(ctx context.Context, req *graphql.Request, resp *graphql.Response) error {
	return f(ctx, req, resp)
}

// Link wraps a client with behavior that runs around every operation.
type Link func(next graphql.Client) graphql.Client

// Chain composes links around terminal. The first link is the outermost, so
// Chain(terminal, a, b) runs a, then b, then terminal.
func Chain(terminal graphql.Client, links ...Link) graphql.Client {
	c := terminal
	for i := len(links) - 1; i >= 0; i-- {
		c = links[i](c)
	}
	return c
}
