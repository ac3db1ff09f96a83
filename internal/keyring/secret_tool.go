package keyring

import "strings"

// SecretToolProvider keeps the token in the GNOME keyring via secret-tool.
type SecretToolProvider struct {
	// CommandRunner allows overriding exec.Command for testing.
	CommandRunner CommandRunner
}

// AccessToken looks the token up with secret-tool.
func (p *SecretToolProvider) AccessToken() (string, error) {
	cmd := p.CommandRunner.orDefault()("secret-tool", "lookup", "service", nativeService, "account", nativeAccount)
	return lookupToken(cmd, "secret-tool", "lookup")
}

// StoreAccessToken stores the token with secret-tool. The token goes through
// stdin so it never shows up in process arguments.
func (p *SecretToolProvider) StoreAccessToken(token string) error {
	cmd := p.CommandRunner.orDefault()(
		"secret-tool", "store",
		"--label=Donate access token",
		"service", nativeService,
		"account", nativeAccount,
	)
	cmd.Stdin = strings.NewReader(token)
	if err := cmd.Run(); err != nil {
		return toolError(err, "secret-tool", "store")
	}
	return nil
}
