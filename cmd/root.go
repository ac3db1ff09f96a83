// Package cmd implements the donate command line.
package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/duboisf/donate/internal/api"
	"github.com/duboisf/donate/internal/cache"
	"github.com/duboisf/donate/internal/config"
	"github.com/duboisf/donate/internal/keyring"
	"github.com/duboisf/donate/internal/logging"
	"github.com/duboisf/donate/internal/snapshot"
	"github.com/duboisf/donate/internal/tui"
)

// sessionSnapshot names the persisted cache of the interactive session.
const sessionSnapshot = "session"

// Options holds injectable dependencies for all commands.
type Options struct {
	// LoadConfig loads the configuration from the --config path. Defaults to
	// config.Load with the process environment.
	LoadConfig func(path string) (*config.Config, error)
	// Logger overrides the logger built from the configuration.
	Logger *zap.Logger
	// Credentials resolves the access token sent with API requests.
	Credentials keyring.Provider
	// Prompter handles interactive access token prompts.
	Prompter keyring.Prompter
	// NativeStore is the platform-specific credential store.
	NativeStore keyring.Provider
	// FileStore is the file-based fallback credential store.
	FileStore keyring.Provider
	// Snapshots persists the session cache between runs. Nil disables it
	// unless the configuration names a cache directory.
	Snapshots *snapshot.Store
	// Transport overrides the HTTP transport of API clients.
	Transport http.RoundTripper
	// PickCampaign lets the user choose a campaign when none is named.
	// Defaults to the interactive picker.
	PickCampaign func(campaigns []tui.Campaign, in io.Reader, out io.Writer) (string, error)
	// Stdin for interactive input.
	Stdin io.Reader
	// Stdout for command output.
	Stdout io.Writer
	// Stderr for error output.
	Stderr io.Writer
}

// session is what PersistentPreRunE prepares for the command being run.
type session struct {
	cfg       *config.Config
	logger    *zap.Logger
	opts      api.Options
	snapshots *snapshot.Store
}

// NewRootCmd creates the root cobra command with all subcommands wired up.
func NewRootCmd(opts Options) *cobra.Command {
	var (
		configPath string
		refresh    bool
	)
	sess := &session{}

	root := &cobra.Command{
		Use:           "donate",
		Short:         "CLI for the donation checkout API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := sess.init(opts, configPath); err != nil {
				return err
			}
			if refresh && sess.snapshots != nil {
				if _, err := sess.snapshots.Clear(); err != nil {
					return fmt.Errorf("clearing cache: %w", err)
				}
			}
			cmd.SetContext(api.WithFactory(cmd.Context(), api.NewFactory(sess.opts)))
			return nil
		},
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
	}
	root.SetOut(opts.Stdout)
	root.SetErr(opts.Stderr)

	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file")
	root.PersistentFlags().BoolVarP(&refresh, "refresh", "r", false, "Clear cached data before running")
	_ = root.RegisterFlagCompletionFunc("refresh", cobra.NoFileCompletions)

	root.AddGroup(
		&cobra.Group{ID: "core", Title: "Core Commands:"},
		&cobra.Group{ID: "setup", Title: "Setup Commands:"},
	)

	core := []*cobra.Command{
		newCampaignCmd(opts, sess),
		newDonateCmd(opts, sess),
		newQueryCmd(opts, sess),
		newServeCmd(opts, sess),
	}
	setup := []*cobra.Command{
		newAuthCmd(opts),
		newCacheCmd(opts, sess),
		newCompletionCmd(),
		newVersionCmd(),
	}
	for _, c := range core {
		c.GroupID = "core"
		root.AddCommand(c)
	}
	for _, c := range setup {
		c.GroupID = "setup"
		root.AddCommand(c)
	}

	root.SetHelpCommand(&cobra.Command{Hidden: true})
	return root
}

func (s *session) init(opts Options, configPath string) error {
	load := opts.LoadConfig
	if load == nil {
		load = func(path string) (*config.Config, error) { return config.Load(path, nil) }
	}
	cfg, err := load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		if logger, err = logging.New(cfg.Log); err != nil {
			return err
		}
	}

	apiOpts, err := api.OptionsFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	apiOpts.Credentials = opts.Credentials
	apiOpts.Logger = logger
	apiOpts.Transport = opts.Transport

	s.cfg, s.logger, s.opts = cfg, logger, apiOpts
	s.snapshots = opts.Snapshots
	switch {
	case cfg.Cache.Dir != "":
		s.snapshots = snapshot.New(cfg.Cache.Dir, cfg.Cache.TTL)
	case s.snapshots != nil:
		s.snapshots = snapshot.New(s.snapshots.Dir, cfg.Cache.TTL)
	}
	return nil
}

// client returns the session's client, seeded from the persisted snapshot
// in browser mode.
func (s *session) client(ctx context.Context) *api.Client {
	var initial cache.Snapshot
	if s.opts.Mode == api.ModeBrowser && s.snapshots != nil {
		snap, ok, err := s.snapshots.Load(sessionSnapshot)
		if err != nil {
			s.logger.Warn("ignoring unreadable cache snapshot", zap.Error(err))
		} else if ok {
			initial = snap
		}
	}
	return api.FactoryFromContext(ctx).CreateClient(initial, "")
}

// persist saves the client's cache for the next run.
func (s *session) persist(c *api.Client) {
	if c.Mode() != api.ModeBrowser || s.snapshots == nil {
		return
	}
	if err := s.snapshots.Save(sessionSnapshot, c.Extract()); err != nil {
		s.logger.Warn("saving cache snapshot", zap.Error(err))
	}
}

// Execute creates the root command with default options and runs it.
func Execute(ctx context.Context) error {
	return NewRootCmd(DefaultOptions()).ExecuteContext(ctx)
}

// nativeKeyringProvider returns the platform-specific keyring provider.
func nativeKeyringProvider() keyring.Provider {
	switch runtime.GOOS {
	case "darwin":
		return &keyring.KeychainProvider{}
	default:
		return &keyring.SecretToolProvider{}
	}
}

// DefaultOptions returns production-ready Options with platform-appropriate
// keyring, standard I/O and the user cache directory.
func DefaultOptions() Options {
	native := nativeKeyringProvider()
	file := &keyring.FileProvider{}
	opts := Options{
		Credentials: &keyring.ChainProvider{
			Providers: []keyring.Provider{
				&keyring.EnvProvider{},
				native,
				file,
			},
		},
		Prompter:     &keyring.InteractivePrompter{},
		NativeStore:  native,
		FileStore:    file,
		PickCampaign: tui.RunPicker,
		Stdin:        os.Stdin,
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
	}
	if dir, err := snapshot.DefaultDir(); err == nil {
		opts.Snapshots = snapshot.New(dir, config.Default().Cache.TTL)
	}
	return opts
}
