package api_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Khan/genqlient/graphql"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/duboisf/donate/internal/api"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	opErrs := gqlerror.List{{Message: "not found"}}
	netErr := errors.New("connection reset")

	tests := []struct {
		name string
		resp *graphql.Response
		err  error
		want api.Outcome
	}{
		{name: "success", resp: &graphql.Response{}, want: api.Success{}},
		{name: "nil response", want: api.Success{}},
		{name: "errors in response", resp: &graphql.Response{Errors: opErrs}, err: opErrs, want: api.OperationFailure{Errors: opErrs}},
		{name: "errors only in error value", resp: &graphql.Response{}, err: opErrs, want: api.OperationFailure{Errors: opErrs}},
		{name: "transport", resp: &graphql.Response{}, err: netErr, want: api.TransportFailure{Err: netErr}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := api.Classify(tt.resp, tt.err)
			switch want := tt.want.(type) {
			case api.Success:
				if _, ok := got.(api.Success); !ok {
					t.Errorf("Classify() = %T, want Success", got)
				}
			case api.OperationFailure:
				of, ok := got.(api.OperationFailure)
				if !ok {
					t.Fatalf("Classify() = %T, want OperationFailure", got)
				}
				if len(of.Errors) != len(want.Errors) || of.Errors[0].Message != want.Errors[0].Message {
					t.Errorf("Errors = %v, want %v", of.Errors, want.Errors)
				}
			case api.TransportFailure:
				tf, ok := got.(api.TransportFailure)
				if !ok {
					t.Fatalf("Classify() = %T, want TransportFailure", got)
				}
				if !errors.Is(tf.Err, want.Err) {
					t.Errorf("Err = %v, want %v", tf.Err, want.Err)
				}
			}
		})
	}
}

func TestErrorLink_ReturnsWhatNextReturned(t *testing.T) {
	t.Parallel()

	netErr := errors.New("connection refused")
	opErrs := gqlerror.List{{Message: "boom"}}

	tests := []struct {
		name    string
		err     error
		errs    gqlerror.List
		wantLog string
		logs    int
	}{
		{name: "success", logs: 0},
		{name: "transport failure", err: netErr, wantLog: "network error", logs: 1},
		{name: "operation failure", err: opErrs, errs: opErrs, wantLog: "graphql error", logs: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			logger, logs := newObservedLogger()
			data := map[string]any{"untouched": true}
			next := api.ClientFunc(func(_ context.Context, _ *graphql.Request, resp *graphql.Response) error {
				resp.Errors = tt.errs
				return tt.err
			})

			client := api.ErrorLink(logger)(next)
			resp := &graphql.Response{Data: &data}
			err := client.MakeRequest(context.Background(), &graphql.Request{OpName: "GetCampaign"}, resp)

			if tt.err == nil && err != nil {
				t.Errorf("MakeRequest() error = %v, want nil", err)
			}
			if tt.err != nil && !errors.Is(err, tt.err) && err.Error() != tt.err.Error() {
				t.Errorf("MakeRequest() error = %v, want %v", err, tt.err)
			}
			if data["untouched"] != true || len(data) != 1 {
				t.Errorf("response data modified: %v", data)
			}
			if got := logs.Len(); got != tt.logs {
				t.Errorf("logged %d entries, want %d", got, tt.logs)
			}
			if tt.wantLog != "" && logs.FilterMessage(tt.wantLog).Len() != 1 {
				t.Errorf("no %q entry in %v", tt.wantLog, logs.All())
			}
		})
	}
}

func TestErrorLink_LogsEachOperationError(t *testing.T) {
	t.Parallel()

	logger, logs := newObservedLogger()
	errs := gqlerror.List{
		{
			Message:   "campaign not found",
			Locations: []gqlerror.Location{{Line: 2, Column: 3}},
			Path:      ast.Path{ast.PathName("campaign")},
		},
		nil,
		{Message: ""},
	}
	next := api.ClientFunc(func(_ context.Context, _ *graphql.Request, resp *graphql.Response) error {
		resp.Errors = errs
		return errs
	})

	_ = api.ErrorLink(logger)(next).MakeRequest(context.Background(), &graphql.Request{}, &graphql.Response{})

	if n := logs.FilterMessage("received null error").Len(); n != 2 {
		t.Errorf("null error entries = %d, want 2", n)
	}
	entries := logs.FilterMessage("graphql error").All()
	if len(entries) != 1 {
		t.Fatalf("graphql error entries = %d, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["message"] != "campaign not found" {
		t.Errorf("message = %v", fields["message"])
	}
	if fields["path"] != "campaign" {
		t.Errorf("path = %v, want campaign", fields["path"])
	}
	if fields["operation"] != "anonymous" {
		t.Errorf("operation = %v, want anonymous", fields["operation"])
	}
}
