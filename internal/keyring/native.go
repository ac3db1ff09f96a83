package keyring

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

const (
	nativeService = "donate"
	nativeAccount = AccessTokenKey
)

// CommandRunner builds the command used to talk to a native credential tool.
type CommandRunner func(name string, args ...string) *exec.Cmd

func (r CommandRunner) orDefault() CommandRunner {
	if r != nil {
		return r
	}
	return exec.Command
}

// lookupToken runs a native lookup command and returns its trimmed output.
func lookupToken(cmd *exec.Cmd, tool, action string) (string, error) {
	out, err := cmd.Output()
	if err != nil {
		return "", toolError(err, tool, action)
	}
	token := strings.TrimSpace(string(out))
	if token == "" {
		return "", ErrNoAccessToken
	}
	return token, nil
}

func toolError(err error, tool, action string) error {
	if errors.Is(err, exec.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrToolNotFound, tool)
	}
	return fmt.Errorf("%s %s failed: %w", tool, action, err)
}
