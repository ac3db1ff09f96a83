package keyring

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// LoginOptions configures Login.
type LoginOptions struct {
	// Prompter asks the user for the token.
	Prompter Prompter
	// NativeStore is the platform-specific credential store (keyring/keychain).
	NativeStore Provider
	// FileStore is the file-based fallback credential store.
	FileStore Provider
	// Stdin for interactive input.
	Stdin io.Reader
	// MsgWriter receives prompts and warnings, typically stderr.
	MsgWriter io.Writer
	// ReadLine reads a confirmation answer. Defaults to reading from Stdin.
	ReadLine func() (string, error)
}

func (o *LoginOptions) readLine() (string, error) {
	if o.ReadLine != nil {
		return o.ReadLine()
	}
	var buf [256]byte
	n, err := o.Stdin.Read(buf[:])
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(buf[:n])), nil
}

// ErrNotStored is returned by Login when the user declined every store or
// none of them accepted the token.
var ErrNotStored = errors.New("access token was not stored")

// Login prompts for an access token and persists it: the native keyring
// first, then, after confirmation, the credentials file.
func Login(opts LoginOptions) error {
	token, err := opts.Prompter.PromptForAccessToken(opts.Stdin, opts.MsgWriter)
	if err != nil {
		return fmt.Errorf("prompting for access token: %w", err)
	}

	if opts.NativeStore != nil {
		err := opts.NativeStore.StoreAccessToken(token)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, ErrToolNotFound):
			fmt.Fprintf(opts.MsgWriter, "\n%s\n\n", nativeToolInstallHint())
		default:
			fmt.Fprintf(opts.MsgWriter, "Warning: could not store access token in system keyring: %v\n", err)
		}
	}

	if opts.FileStore == nil {
		return ErrNotStored
	}
	fmt.Fprint(opts.MsgWriter, "Store the access token in a local config file instead? [y/N]: ")
	answer, err := opts.readLine()
	if err != nil {
		return fmt.Errorf("reading confirmation: %w", err)
	}
	if answer != "y" && answer != "Y" && answer != "yes" {
		return ErrNotStored
	}
	if err := opts.FileStore.StoreAccessToken(token); err != nil {
		return fmt.Errorf("storing access token in file: %w", err)
	}
	return nil
}
