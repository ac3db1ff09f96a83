// Package keyring reads and stores the access token sent as a bearer
// credential with checkout API requests.
package keyring

import (
	"errors"
	"io"
	"runtime"
)

// AccessTokenKey is the key under which the access token is persisted.
const AccessTokenKey = "accessToken"

// Provider abstracts access token storage and retrieval.
type Provider interface {
	// AccessToken returns the stored token, or ErrNoAccessToken if none is
	// stored.
	AccessToken() (string, error)
	// StoreAccessToken persists the given token.
	StoreAccessToken(token string) error
}

// Prompter handles interactive user prompts for token setup.
type Prompter interface {
	// PromptForAccessToken prompts the user to enter a token and returns it.
	PromptForAccessToken(stdin io.Reader, stdout io.Writer) (string, error)
}

// ErrNoAccessToken is returned when no access token is stored.
var ErrNoAccessToken = errors.New("no access token found")

// ErrToolNotFound is returned when the native credential storage tool is not installed.
var ErrToolNotFound = errors.New("credential storage tool not found")

// nativeToolInstallHint returns a user-facing message explaining how to install
// the native credential storage tool for the current platform.
func nativeToolInstallHint() string {
	switch runtime.GOOS {
	case "darwin":
		return "The macOS security CLI should be available by default.\n" +
			"If missing, install Xcode Command Line Tools:\n" +
			"  xcode-select --install"
	default:
		return "Install secret-tool for secure credential storage:\n" +
			"  Ubuntu/Debian: sudo apt install libsecret-tools\n" +
			"  Fedora:        sudo dnf install libsecret\n" +
			"  Arch:          sudo pacman -S libsecret"
	}
}
