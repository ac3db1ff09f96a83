package cmd_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/duboisf/donate/cmd"
	"github.com/duboisf/donate/internal/config"
)

func TestRootCommand_Structure(t *testing.T) {
	t.Parallel()

	opts, _, _ := testOptions(t, nil)
	root := cmd.NewRootCmd(opts)

	if root.Use != "donate" {
		t.Errorf("root.Use = %q, want %q", root.Use, "donate")
	}
	if root.Short == "" {
		t.Error("root.Short should not be empty")
	}
}

func TestRootCommand_HelpOutput(t *testing.T) {
	t.Parallel()

	opts, _, _ := testOptions(t, nil)
	stdout, _, err := executeCommand(cmd.NewRootCmd(opts), "--help")
	if err != nil {
		t.Fatalf("help command returned error: %v", err)
	}

	for _, check := range []string{
		"donate",
		"campaign",
		"query",
		"serve",
		"auth",
		"cache",
		"completion",
		"version",
		"Core Commands:",
		"Setup Commands:",
	} {
		if !strings.Contains(stdout, check) {
			t.Errorf("help output does not contain %q", check)
		}
	}
}

func TestRootCommand_UnknownSubcommand(t *testing.T) {
	t.Parallel()

	opts, _, _ := testOptions(t, nil)
	if _, _, err := executeCommand(cmd.NewRootCmd(opts), "nonexistent"); err == nil {
		t.Error("expected error for unknown subcommand")
	}
}

func TestRootCommand_ConfigError(t *testing.T) {
	t.Parallel()

	opts, _, _ := testOptions(t, nil)
	opts.LoadConfig = func(string) (*config.Config, error) {
		return nil, errors.New("bad file")
	}

	err := run(opts, "campaign", "clean-water")
	if err == nil || !strings.Contains(err.Error(), "loading config: bad file") {
		t.Errorf("error = %v, want config error", err)
	}
}

func TestRootCommand_ConfigPathIsPassed(t *testing.T) {
	t.Parallel()

	opts, _, _ := testOptions(t, nil)
	var gotPath string
	opts.LoadConfig = func(path string) (*config.Config, error) {
		gotPath = path
		return config.Default(), nil
	}

	if err := run(opts, "--config", "/etc/donate.yaml", "version"); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if gotPath != "/etc/donate.yaml" {
		t.Errorf("config path = %q, want /etc/donate.yaml", gotPath)
	}
}

func TestRootCommand_InvalidModeInConfig(t *testing.T) {
	t.Parallel()

	opts, _, _ := testOptions(t, nil)
	opts.LoadConfig = func(string) (*config.Config, error) {
		cfg := config.Default()
		cfg.Mode = "desktop"
		return cfg, nil
	}
	if err := run(opts, "version"); err == nil {
		t.Error("expected error for unknown mode")
	}
}
