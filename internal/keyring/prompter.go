package keyring

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// InteractivePrompter asks for the access token on the terminal.
type InteractivePrompter struct {
	// ReadPassword allows overriding term.ReadPassword for testing.
	ReadPassword func(fd int) ([]byte, error)
}

// PromptForAccessToken reads the token without echo. The stdin parameter is
// unused because term.ReadPassword needs the file descriptor of os.Stdin.
func (p *InteractivePrompter) PromptForAccessToken(_ io.Reader, msgWriter io.Writer) (string, error) {
	fmt.Fprintln(msgWriter, "Paste the access token issued by the checkout API.")
	fmt.Fprint(msgWriter, "Access token: ")

	readPassword := p.ReadPassword
	if readPassword == nil {
		readPassword = term.ReadPassword
	}

	raw, err := readPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", fmt.Errorf("reading access token: %w", err)
	}
	fmt.Fprintln(msgWriter)

	token := strings.TrimSpace(string(raw))
	if token == "" {
		return "", errors.New("access token cannot be empty")
	}
	return token, nil
}
