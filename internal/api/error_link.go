package api

import (
	"context"
	"fmt"

	"github.com/Khan/genqlient/graphql"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"go.uber.org/zap"

	"github.com/duboisf/donate/internal/logging"
)

// ErrorLink logs operation and transport failures. It returns exactly what
// the next client returned and leaves the response alone.
func ErrorLink(logger *zap.Logger) Link {
	logger = logging.OrNop(logger)
	return func(next graphql.Client) graphql.Client {
		return ClientFunc(func(ctx context.Context, req *graphql.Request, resp *graphql.Response) error {
			err := next.MakeRequest(ctx, req, resp)
			report(logger.With(zap.String("operation", operationName(req))), Classify(resp, err))
			return err
		})
	}
}

func report(logger *zap.Logger, o Outcome) {
	switch o := o.(type) {
	case Success:
	case OperationFailure:
		for _, e := range o.Errors {
			logOperationError(logger, e)
		}
	case TransportFailure:
		logger.Error("network error", zap.Error(o.Err))
	default:
		panic(fmt.Sprintf("unhandled outcome %T", o))
	}
}

func logOperationError(logger *zap.Logger, e *gqlerror.Error) {
	if e == nil || e.Message == "" {
		logger.Error("received null error")
		return
	}
	locations := make([]string, len(e.Locations))
	for i, l := range e.Locations {
		locations[i] = fmt.Sprintf("%d:%d", l.Line, l.Column)
	}
	logger.Error("graphql error",
		zap.String("message", e.Message),
		zap.Strings("locations", locations),
		zap.String("path", e.Path.String()),
	)
}

func operationName(req *graphql.Request) string {
	if req == nil || req.OpName == "" {
		return "anonymous"
	}
	return req.OpName
}
