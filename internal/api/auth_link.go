package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/Khan/genqlient/graphql"
	"go.uber.org/zap"

	"github.com/duboisf/donate/internal/keyring"
	"github.com/duboisf/donate/internal/logging"
)

// AuthLink attaches the stored access token as a bearer credential. When no
// token is available the operation goes out anonymously; the link never
// fails an operation.
func AuthLink(creds keyring.Provider, logger *zap.Logger) Link {
	logger = logging.OrNop(logger)
	return func(next graphql.Client) graphql.Client {
		return ClientFunc(func(ctx context.Context, req *graphql.Request, resp *graphql.Response) error {
			token := accessToken(creds, logger)
			if token != "" {
				ctx = WithHeaders(ctx, authorize(HeadersFromContext(ctx), token))
			}
			return next.MakeRequest(ctx, req, resp)
		})
	}
}

func accessToken(creds keyring.Provider, logger *zap.Logger) string {
	if creds == nil {
		return ""
	}
	token, err := creds.AccessToken()
	if errors.Is(err, keyring.ErrNoAccessToken) {
		return ""
	}
	if err != nil {
		logger.Warn("reading access token, continuing anonymously", zap.Error(err))
		return ""
	}
	return token
}

// authorize returns headers merged with an Authorization bearer entry for
// token. An empty token returns headers unchanged.
func authorize(headers http.Header, token string) http.Header {
	if token == "" {
		return headers
	}
	h := headers.Clone()
	if h == nil {
		h = http.Header{}
	}
	h.Set("Authorization", "Bearer "+token)
	return h
}
