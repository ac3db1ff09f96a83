// Package server exposes server-side rendering of GraphQL operations over
// HTTP: each request runs on a fresh server-mode client and answers with the
// data and the cache state a browser client can be hydrated from.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Khan/genqlient/graphql"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"go.uber.org/zap"

	"github.com/duboisf/donate/internal/api"
	"github.com/duboisf/donate/internal/cache"
	"github.com/duboisf/donate/internal/logging"
	"github.com/duboisf/donate/internal/observability"
)

// maxBodyBytes bounds a render request body.
const maxBodyBytes = 1 << 20

// Options configures a Server.
type Options struct {
	Logger  *zap.Logger
	Metrics *observability.Collector
	// AllowedOrigins are the browser origins allowed to call /render.
	AllowedOrigins []string
}

// Server renders operations through clients built by its factory. The
// factory should be in server mode so requests never share cache state.
type Server struct {
	factory *api.Factory
	logger  *zap.Logger
	metrics *observability.Collector
	origins []string
}

// New creates a Server.
func New(factory *api.Factory, opts Options) *Server {
	return &Server{
		factory: factory,
		logger:  logging.OrNop(opts.Logger),
		metrics: opts.Metrics,
		origins: opts.AllowedOrigins,
	}
}

// RenderRequest is the body of POST /render.
type RenderRequest struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
	APIVersion    string         `json:"apiVersion,omitempty"`
	FetchPolicy   string         `json:"fetchPolicy,omitempty"`
}

// RenderResponse is the body answered by POST /render.
type RenderResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors gqlerror.List   `json:"errors,omitempty"`
	State  cache.Snapshot  `json:"state"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler returns the HTTP handler serving all routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(accessLog(s.logger))
	if len(s.origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.origins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
			ExposedHeaders: []string{"X-Request-Id"},
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if reg := s.metrics.Registry(); reg != nil {
		r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}
	r.With(s.withFactory).Post("/render", s.render)
	return r
}

// withFactory makes the factory available to handlers through the request
// context.
func (s *Server) withFactory(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(api.WithFactory(r.Context(), s.factory)))
	})
}

func (s *Server) render(w http.ResponseWriter, r *http.Request) {
	var in RenderRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&in); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("decoding request: %v", err)})
		return
	}
	if in.Query == "" {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "query is required"})
		return
	}
	policy, ok := api.ParseFetchPolicy(in.FetchPolicy)
	if !ok {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("unknown fetch policy %q", in.FetchPolicy)})
		return
	}

	factory := api.FactoryFromContext(r.Context())
	client := factory.CreateClient(nil, "")

	ctx := api.WithAPIVersion(r.Context(), api.APIVersion(in.APIVersion))
	ctx = api.WithFetchPolicy(ctx, policy)
	if id := chimiddleware.GetReqID(r.Context()); id != "" {
		ctx = api.WithHeaders(ctx, http.Header{"X-Request-Id": {id}})
	}

	var data json.RawMessage
	resp := &graphql.Response{Data: &data}
	err := client.MakeRequest(ctx, &graphql.Request{
		Query:     in.Query,
		Variables: in.Variables,
		OpName:    in.OperationName,
	}, resp)

	if tf, ok := api.Classify(resp, err).(api.TransportFailure); ok {
		respondJSON(w, http.StatusBadGateway, errorResponse{Error: tf.Err.Error()})
		return
	}
	if len(data) == 0 {
		data = json.RawMessage("null")
	}
	respondJSON(w, http.StatusOK, RenderResponse{
		Data:   data,
		Errors: resp.Errors,
		State:  client.Extract(),
	})
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// accessLog logs one line per request once it completes.
func accessLog(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", chimiddleware.GetReqID(r.Context())),
			)
		})
	}
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting render server", zap.String("address", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down render server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
