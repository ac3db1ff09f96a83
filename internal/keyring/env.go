package keyring

import (
	"errors"
	"os"
)

// EnvTokenVar is the environment variable read by EnvProvider.
const EnvTokenVar = "DONATE_ACCESS_TOKEN"

// EnvProvider resolves the access token from DONATE_ACCESS_TOKEN.
type EnvProvider struct {
	// LookupEnv allows overriding os.LookupEnv for testing.
	LookupEnv func(key string) (string, bool)
}

// AccessToken returns the token from the environment.
func (p *EnvProvider) AccessToken() (string, error) {
	lookup := p.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	val, ok := lookup(EnvTokenVar)
	if !ok || val == "" {
		return "", ErrNoAccessToken
	}
	return val, nil
}

// StoreAccessToken is not supported for environment variables.
func (p *EnvProvider) StoreAccessToken(_ string) error {
	return errors.New("cannot store access token in environment variable")
}

// StaticProvider serves a fixed token. An empty Token behaves as no token.
type StaticProvider struct {
	Token string
}

// AccessToken returns the fixed token.
func (p *StaticProvider) AccessToken() (string, error) {
	if p.Token == "" {
		return "", ErrNoAccessToken
	}
	return p.Token, nil
}

// StoreAccessToken replaces the fixed token.
func (p *StaticProvider) StoreAccessToken(token string) error {
	p.Token = token
	return nil
}
