package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/duboisf/donate/internal/api"
	"github.com/duboisf/donate/internal/observability"
	"github.com/duboisf/donate/internal/server"
)

func newServeCmd(_ Options, sess *session) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the server-side render endpoint",
		Long: "Serve POST /render: each request runs one operation on a fresh\n" +
			"server-mode client and answers with the data and the cache state.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if listen == "" {
				listen = sess.cfg.Listen
			}

			// Render clients are anonymous: the server holds no user
			// credential.
			metrics := observability.NewCollector("donate")
			opts := sess.opts
			opts.Mode = api.ModeServer
			opts.Credentials = nil
			opts.Metrics = metrics

			srv := server.New(api.NewFactory(opts), server.Options{
				Logger:         sess.logger,
				Metrics:        metrics,
				AllowedOrigins: sess.cfg.CORSOrigins,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return srv.ListenAndServe(ctx, listen)
		},
		ValidArgsFunction: cobra.NoFileCompletions,
	}

	cmd.Flags().StringVarP(&listen, "listen", "l", "", "Address to listen on (default from config)")
	return cmd
}
