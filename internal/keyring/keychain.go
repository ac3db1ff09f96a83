package keyring

// KeychainProvider keeps the token in the macOS Keychain via the security CLI.
type KeychainProvider struct {
	// CommandRunner allows overriding exec.Command for testing.
	CommandRunner CommandRunner
}

// AccessToken reads the token from the login keychain.
func (p *KeychainProvider) AccessToken() (string, error) {
	cmd := p.CommandRunner.orDefault()("security", "find-generic-password", "-s", nativeService, "-a", nativeAccount, "-w")
	return lookupToken(cmd, "security", "find-generic-password")
}

// StoreAccessToken adds or updates (-U) the keychain entry.
func (p *KeychainProvider) StoreAccessToken(token string) error {
	cmd := p.CommandRunner.orDefault()("security", "add-generic-password", "-s", nativeService, "-a", nativeAccount, "-w", token, "-U")
	if err := cmd.Run(); err != nil {
		return toolError(err, "security", "add-generic-password")
	}
	return nil
}
