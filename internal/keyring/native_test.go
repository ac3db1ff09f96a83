package keyring_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/duboisf/donate/internal/keyring"
)

func TestNativeProviders_AccessToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		stdout    string
		exitCode  int
		wantToken string
		wantErr   error
		wantFail  bool
	}{
		{name: "success", stdout: "tok_native", wantToken: "tok_native"},
		{name: "trims whitespace", stdout: "  tok_native \n", wantToken: "tok_native"},
		{name: "empty output", stdout: "", wantErr: keyring.ErrNoAccessToken},
		{name: "whitespace only output", stdout: "  \n ", wantErr: keyring.ErrNoAccessToken},
		{name: "command failure", exitCode: 1, wantFail: true},
	}

	for _, tt := range tests {
		for _, kind := range []string{"secret-tool", "keychain"} {
			t.Run(kind+"/"+tt.name, func(t *testing.T) {
				t.Parallel()

				runner := fakeCommandRunner(tt.stdout, tt.exitCode)
				var provider keyring.Provider = &keyring.SecretToolProvider{CommandRunner: runner}
				if kind == "keychain" {
					provider = &keyring.KeychainProvider{CommandRunner: runner}
				}

				token, err := provider.AccessToken()
				if tt.wantFail {
					if err == nil || errors.Is(err, keyring.ErrNoAccessToken) {
						t.Fatalf("AccessToken() error = %v, want command failure", err)
					}
					return
				}
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("AccessToken() error = %v, want %v", err, tt.wantErr)
				}
				if token != tt.wantToken {
					t.Errorf("AccessToken() = %q, want %q", token, tt.wantToken)
				}
			})
		}
	}
}

func TestNativeProviders_StoreAccessToken(t *testing.T) {
	t.Parallel()

	for _, exitCode := range []int{0, 1} {
		secretTool := &keyring.SecretToolProvider{CommandRunner: fakeCommandRunner("", exitCode)}
		keychain := &keyring.KeychainProvider{CommandRunner: fakeCommandRunner("", exitCode)}
		for _, p := range []keyring.Provider{secretTool, keychain} {
			err := p.StoreAccessToken("tok")
			if (err != nil) != (exitCode != 0) {
				t.Errorf("%T.StoreAccessToken() exit %d error = %v", p, exitCode, err)
			}
		}
	}
}

func TestSecretToolProvider_TokenNotInArguments(t *testing.T) {
	t.Parallel()

	var args []string
	p := &keyring.SecretToolProvider{CommandRunner: recordingRunner(&args)}
	if err := p.StoreAccessToken("tok_secret"); err != nil {
		t.Fatalf("StoreAccessToken() error = %v", err)
	}
	if slices.Contains(args, "tok_secret") {
		t.Errorf("token leaked into arguments: %v", args)
	}
	if !slices.Contains(args, "donate") || !slices.Contains(args, keyring.AccessTokenKey) {
		t.Errorf("unexpected lookup attributes: %v", args)
	}
}
