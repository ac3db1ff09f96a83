package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/duboisf/donate/internal/keyring"
)

// newAuthCmd creates the parent "auth" command.
func newAuthCmd(opts Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the access token",
	}
	cmd.AddCommand(newAuthLoginCmd(opts), newAuthStatusCmd(opts))
	return cmd
}

func newAuthLoginCmd(opts Options) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Store an access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := keyring.Login(keyring.LoginOptions{
				Prompter:    opts.Prompter,
				NativeStore: opts.NativeStore,
				FileStore:   opts.FileStore,
				Stdin:       opts.Stdin,
				MsgWriter:   opts.Stderr,
			})
			if err != nil {
				return fmt.Errorf("logging in: %w", err)
			}
			fmt.Fprintln(opts.Stdout, "Access token stored.")
			return nil
		},
		ValidArgsFunction: cobra.NoFileCompletions,
	}
}

func newAuthStatusCmd(opts Options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether an access token is available",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Credentials == nil {
				fmt.Fprintln(opts.Stdout, "Not logged in. Requests are sent anonymously.")
				return nil
			}
			token, err := opts.Credentials.AccessToken()
			if errors.Is(err, keyring.ErrNoAccessToken) {
				fmt.Fprintln(opts.Stdout, "Not logged in. Requests are sent anonymously.")
				return nil
			}
			if err != nil {
				return fmt.Errorf("reading access token: %w", err)
			}
			fmt.Fprintf(opts.Stdout, "Logged in with token %s.\n", maskToken(token))
			return nil
		},
		ValidArgsFunction: cobra.NoFileCompletions,
	}
}

// maskToken hides all but the last four characters of token.
func maskToken(token string) string {
	if len(token) <= 4 {
		return strings.Repeat("*", len(token))
	}
	return strings.Repeat("*", len(token)-4) + token[len(token)-4:]
}
