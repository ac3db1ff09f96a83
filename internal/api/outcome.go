package api

import (
	"errors"

	"github.com/Khan/genqlient/graphql"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

// Outcome is the result of one operation as seen by ErrorLink. It is one of
// Success, OperationFailure or TransportFailure.
type Outcome interface {
	outcome()
}

// Success means the server answered without errors.
type Success struct{}

// OperationFailure carries the errors array of a GraphQL response.
type OperationFailure struct {
	Errors gqlerror.List
}

// TransportFailure means no usable GraphQL response arrived.
type TransportFailure struct {
	Err error
}

func (Success) outcome()          {}
func (OperationFailure) outcome() {}
func (TransportFailure) outcome() {}

// Classify sorts the result of MakeRequest into an Outcome.
func Classify(resp *graphql.Response, err error) Outcome {
	if resp != nil && len(resp.Errors) > 0 {
		return OperationFailure{Errors: resp.Errors}
	}
	if err == nil {
		return Success{}
	}
	var list gqlerror.List
	if errors.As(err, &list) && len(list) > 0 {
		return OperationFailure{Errors: list}
	}
	return TransportFailure{Err: err}
}
